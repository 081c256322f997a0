package naming

import "strings"

const (
	// DataSourcePrefix is the UID prefix shared by monitored-cluster data sources.
	DataSourcePrefix = "Elasticsearch-direct-mon--"

	// ReservedToken marks the internal monitoring connection.
	ReservedToken = "monitoring"
)

// Convention describes which data-source UIDs belong to monitored clusters.
type Convention struct {
	Prefix   string
	Reserved string
}

// DefaultConvention returns the convention the dBeast app registers data sources with.
func DefaultConvention() Convention {
	return Convention{
		Prefix:   DataSourcePrefix,
		Reserved: ReservedToken,
	}
}

// Matches reports whether uid names a monitored cluster: it starts with the
// prefix and the rest of it does not start with the reserved token.
func (c Convention) Matches(uid string) bool {
	_, ok := c.ClusterName(uid)
	return ok
}

// ClusterName returns the cluster part of a matching uid.
func (c Convention) ClusterName(uid string) (string, bool) {
	if c.Prefix == "" || !strings.HasPrefix(uid, c.Prefix) {
		return "", false
	}
	rest := strings.TrimPrefix(uid, c.Prefix)
	if c.Reserved != "" && strings.HasPrefix(rest, c.Reserved) {
		return "", false
	}
	return rest, true
}

// DataSourceUID returns the UID a cluster's data source is registered under.
func (c Convention) DataSourceUID(cluster string) string {
	return c.Prefix + cluster
}
