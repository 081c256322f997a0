// Package prompt asks the operator how to resolve each queued cluster and
// drives the upgrade workflow with the answers.
package prompt

import (
	"context"
	"errors"

	"github.com/dbeast/dbeast/internal/upgrade"
)

// Action is the operator's decision for the active project.
type Action string

const (
	// ActionUpgrade submits the project with the given password.
	ActionUpgrade Action = "upgrade"
	// ActionSkip resolves the project without submitting it.
	ActionSkip Action = "skip"
	// ActionClose hides the prompt and leaves the rest of the queue pending.
	ActionClose Action = "close"
)

// Request describes the prompt to show.
type Request struct {
	Project  upgrade.Project
	Position int
	Total    int
	// LastErr is the error of the previous attempt on the same project.
	LastErr error
}

// Answer is the operator's response to a Request.
type Answer struct {
	Action   Action
	Password string
}

// Prompter obtains an Answer for the active project.
type Prompter interface {
	Ask(ctx context.Context, req Request) (Answer, error)
}

// Validation errors.
var (
	errPasswordRequired = errors.New("password is required")
	errUsernameMissing  = errors.New("data source has basic auth enabled but no user; skip it and fix the data source")
)

func validatePassword(s string) error {
	if s == "" {
		return errPasswordRequired
	}
	return nil
}
