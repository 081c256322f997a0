package upgrade

import "time"

// Status values recorded on resolved projects.
const (
	StatusUpgraded = "upgraded"
	StatusSkipped  = "skipped"
)

// ConnectionRecord is a data source as reported by the dashboard server.
type ConnectionRecord struct {
	ID            string
	URL           string
	BasicAuth     bool
	BasicAuthUser string
}

// Project is one cluster host pending or undergoing a credential upgrade.
// It is also the request body of the backend's update_cluster endpoint.
type Project struct {
	Host                  string `json:"host"`
	AuthenticationEnabled bool   `json:"authentication_enabled"`
	Username              string `json:"username"`
	Status                string `json:"status"`
	Password              string `json:"password"`
}

// RequiresPassword reports whether the project needs credentials to be submitted.
func (p Project) RequiresPassword() bool {
	return p.AuthenticationEnabled
}

// Resolution records how a project left the queue.
type Resolution struct {
	Project Project
	Outcome string
	At      time.Time
}
