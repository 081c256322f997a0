package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

var actionOptions = []huh.Option[Action]{
	huh.NewOption("Upgrade", ActionUpgrade),
	huh.NewOption("Skip this cluster", ActionSkip),
	huh.NewOption("Close (resume later)", ActionClose),
}

// Interactive asks on the terminal with huh forms.
type Interactive struct {
	accessible bool
}

// NewInteractive returns a terminal prompter. Accessible mode replaces the
// TUI forms with plain line prompts.
func NewInteractive(accessible bool) *Interactive {
	return &Interactive{accessible: accessible}
}

// Ask shows the project, lets the operator pick an action and, for an upgrade
// of a cluster with authentication enabled, reads the password. Aborting the
// form with ctrl+c closes the prompt.
func (i *Interactive) Ask(ctx context.Context, req Request) (Answer, error) {
	answer := Answer{Action: ActionUpgrade}

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title(fmt.Sprintf("Cluster %d of %d", req.Position, req.Total)).
				Description(describe(req)),
			huh.NewSelect[Action]().
				Title("Action").
				Options(actionOptions...).
				Value(&answer.Action),
		).Title("Upgrade cluster"),
	).WithAccessible(i.accessible).RunWithContext(ctx)
	if err != nil {
		return closeOnAbort(err)
	}

	if answer.Action != ActionUpgrade || !req.Project.RequiresPassword() {
		return answer, nil
	}

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Password for "+req.Project.Username).
				EchoMode(huh.EchoModePassword).
				Value(&answer.Password).
				Validate(validatePassword),
		),
	).WithAccessible(i.accessible).RunWithContext(ctx)
	if err != nil {
		return closeOnAbort(err)
	}
	return answer, nil
}

func closeOnAbort(err error) (Answer, error) {
	if errors.Is(err, huh.ErrUserAborted) {
		return Answer{Action: ActionClose}, nil
	}
	return Answer{}, err
}

// describe renders the note body for a request.
func describe(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Host: %s\n", req.Project.Host)
	if req.Project.AuthenticationEnabled {
		user := req.Project.Username
		if user == "" {
			user = "(none)"
		}
		fmt.Fprintf(&b, "User: %s\n", user)
		if req.Project.Username == "" {
			fmt.Fprintf(&b, "\n%s\n", errUsernameMissing)
		}
	} else {
		b.WriteString("Authentication: disabled\n")
	}
	if req.LastErr != nil {
		fmt.Fprintf(&b, "\nLast attempt failed: %v\n", req.LastErr)
	}
	return b.String()
}
