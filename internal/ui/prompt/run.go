package prompt

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-logr/logr"

	"github.com/dbeast/dbeast/internal/upgrade"
)

// SubmitWrapper runs a submission, typically behind a progress indicator.
type SubmitWrapper func(ctx context.Context, title string, op func(context.Context) error) error

// Result summarises a run.
type Result struct {
	RunID    string
	Resolved []upgrade.Resolution
	Pending  []upgrade.Project
	// Failures maps hosts to the error of their last failed submission.
	Failures map[string]string
	Closed   bool
}

// Upgraded counts the projects resolved by a successful submission.
func (r *Result) Upgraded() int {
	n := 0
	for _, res := range r.Resolved {
		if res.Outcome == upgrade.StatusUpgraded {
			n++
		}
	}
	return n
}

type runner struct {
	log  logr.Logger
	wrap SubmitWrapper
}

// RunOption configures Run.
type RunOption func(*runner)

// WithLogger sets the logger used by Run.
func WithLogger(log logr.Logger) RunOption {
	return func(r *runner) {
		r.log = log
	}
}

// WithSubmitWrapper wraps every submission, e.g. with a spinner.
func WithSubmitWrapper(wrap SubmitWrapper) RunOption {
	return func(r *runner) {
		r.wrap = wrap
	}
}

// session follows the workflow through its listener: each activation
// becomes the next Request to ask.
type session struct {
	mu       sync.Mutex
	next     *Request
	resolved []upgrade.Resolution
	complete bool
}

func (s *session) OnActivate(project upgrade.Project, position, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next = &Request{Project: project, Position: position, Total: total}
}

func (s *session) OnResolve(res upgrade.Resolution) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolved = append(s.resolved, res)
}

func (s *session) OnComplete([]upgrade.Resolution) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.complete = true
}

// take returns the activation received since the last call, if any.
func (s *session) take() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next == nil {
		return Request{}, false
	}
	req := *s.next
	s.next = nil
	return req, true
}

// Run discovers the queue and resolves each project the workflow activates
// with the prompter's answers until the queue is exhausted or the prompt is
// closed. A failed submission keeps the project active and the prompter is
// asked again with the error.
func Run(ctx context.Context, wf *upgrade.Workflow, p Prompter, opts ...RunOption) (*Result, error) {
	r := &runner{
		log: logr.Discard(),
		wrap: func(ctx context.Context, _ string, op func(context.Context) error) error {
			return op(ctx)
		},
	}
	for _, opt := range opts {
		opt(r)
	}

	s := &session{}
	defer wf.AddListener(s)()

	if err := wf.Discover(ctx); err != nil {
		return nil, err
	}

	failures := make(map[string]string)
	req, ok := s.take()

	for ok {
		project := req.Project
		answer, err := p.Ask(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("prompt for %s: %w", project.Host, err)
		}

		switch answer.Action {
		case ActionUpgrade:
			err := r.wrap(ctx, "Upgrading "+project.Host, func(ctx context.Context) error {
				return wf.Submit(ctx, project, answer.Password)
			})
			var subErr *upgrade.SubmissionError
			switch {
			case err == nil:
				delete(failures, project.Host)
			case errors.As(err, &subErr), errors.Is(err, upgrade.ErrCredentialsRequired):
				r.log.Info("Upgrade attempt failed", "host", project.Host, "error", err.Error())
				failures[project.Host] = err.Error()
				req.LastErr = err
				continue
			default:
				return nil, err
			}

		case ActionSkip:
			if err := wf.Skip(project); err != nil {
				return nil, err
			}

		case ActionClose:
			if err := wf.ClosePrompt(); err != nil {
				return nil, err
			}
			ok = false
			continue

		default:
			return nil, fmt.Errorf("unknown action %q", answer.Action)
		}

		req, ok = s.take()
	}

	s.mu.Lock()
	resolved, complete := s.resolved, s.complete
	s.mu.Unlock()
	if complete {
		r.log.V(1).Info("Queue finished", "resolved", len(resolved))
	}

	return &Result{
		RunID:    wf.RunID(),
		Resolved: resolved,
		Pending:  wf.Pending(),
		Failures: failures,
		Closed:   wf.State() == upgrade.StateClosed,
	}, nil
}
