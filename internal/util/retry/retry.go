package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Policy controls how often and how fast an operation is retried.
type Policy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultPolicy waits roughly a minute in total before giving up.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:  8,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     15 * time.Second,
		Multiplier:   2.0,
	}
}

// Option adjusts a Policy.
type Option func(*Policy)

// WithMaxAttempts sets the total number of attempts, including the first.
func WithMaxAttempts(n int) Option {
	return func(p *Policy) {
		p.MaxAttempts = n
	}
}

// WithInitialDelay sets the delay after the first failure.
func WithInitialDelay(d time.Duration) Option {
	return func(p *Policy) {
		p.InitialDelay = d
	}
}

// WithMaxDelay caps the delay between attempts.
func WithMaxDelay(d time.Duration) Option {
	return func(p *Policy) {
		p.MaxDelay = d
	}
}

// Do runs op until it succeeds, returns a permanent error, the attempts are
// used up or ctx is done. The attempt number passed to op starts at 1.
func Do(ctx context.Context, op func(attempt int) error, opts ...Option) error {
	p := DefaultPolicy()
	for _, opt := range opts {
		opt(&p)
	}
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}

	delay := p.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		err := op(attempt)
		if err == nil {
			return nil
		}
		lastErr = err

		if IsPermanent(err) {
			return err
		}
		if attempt == p.MaxAttempts {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("gave up after %d attempts: %w", attempt, errors.Join(ctx.Err(), lastErr))
		case <-timer.C:
		}

		delay = time.Duration(float64(delay) * p.Multiplier)
		if delay > p.MaxDelay {
			delay = p.MaxDelay
		}
	}

	return fmt.Errorf("gave up after %d attempts: %w", p.MaxAttempts, lastErr)
}

// PermanentError marks an error that retrying cannot fix.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// Permanent wraps err so that Do returns it immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// IsPermanent reports whether err was wrapped with Permanent.
func IsPermanent(err error) bool {
	var p *PermanentError
	return errors.As(err, &p)
}
