package upgrade

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy is returned while a submission for the active project is in flight.
	ErrBusy = errors.New("an upgrade request is already in flight")

	// ErrNoActiveProject is returned when the workflow is not prompting.
	ErrNoActiveProject = errors.New("no active project")

	// ErrNotActive is returned when the given project is not the active one.
	ErrNotActive = errors.New("project is not the active item")

	// ErrCredentialsRequired is returned when authentication is enabled and
	// either the username or the password is empty.
	ErrCredentialsRequired = errors.New("username and password are required when authentication is enabled")
)

// DiscoveryError reports that the data-source listing could not be fetched.
// No queue is established when it is returned.
type DiscoveryError struct {
	Err error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("discover clusters: %v", e.Err)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Err
}

// SubmissionError reports that the upgrade endpoint rejected or never
// received a project. The project stays active.
type SubmissionError struct {
	Host string
	Err  error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("upgrade %s: %v", e.Host, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}
