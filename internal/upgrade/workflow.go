package upgrade

import (
	"context"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/dbeast/dbeast/internal/util/naming"
)

// State is the workflow's position in a run.
type State string

const (
	// StateIdle means no run has been started or the last discovery failed.
	StateIdle State = "idle"
	// StateDiscovering means the data-source listing is being fetched.
	StateDiscovering State = "discovering"
	// StatePrompting means a project is active and awaits submit, skip or close.
	StatePrompting State = "prompting"
	// StateSubmitting means the active project is being sent to the backend.
	StateSubmitting State = "submitting"
	// StateDone means every queued project has been resolved.
	StateDone State = "done"
	// StateClosed means the prompt was closed with projects left pending.
	StateClosed State = "closed"
)

// ConnectionLister lists the data sources configured on the dashboard server.
type ConnectionLister interface {
	ListConnections(ctx context.Context) ([]ConnectionRecord, error)
}

// Submitter sends a project to the upgrade endpoint.
type Submitter interface {
	UpdateCluster(ctx context.Context, project Project) error
}

// Listener is notified when the workflow surfaces or resolves a project.
// Callbacks run after the workflow's lock is released.
type Listener interface {
	OnActivate(project Project, position, total int)
	OnResolve(resolution Resolution)
	OnComplete(resolved []Resolution)
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithLogger sets the workflow logger.
func WithLogger(log logr.Logger) Option {
	return func(w *Workflow) {
		w.log = log
	}
}

// WithMetrics sets the collectors the workflow records into.
func WithMetrics(m *Metrics) Option {
	return func(w *Workflow) {
		w.metrics = m
	}
}

// WithListener registers a listener for activation and resolution events.
func WithListener(l Listener) Option {
	return func(w *Workflow) {
		w.listeners = append(w.listeners, registration{listener: l})
	}
}

type registration struct {
	id       int
	listener Listener
}

// WithClock overrides the time source used for resolution timestamps.
func WithClock(now func() time.Time) Option {
	return func(w *Workflow) {
		w.now = now
	}
}

// Workflow drives one discovery run and the sequential upgrade of its queue.
type Workflow struct {
	lister     ConnectionLister
	submitter  Submitter
	convention naming.Convention
	log        logr.Logger
	metrics    *Metrics
	now        func() time.Time

	mu        sync.Mutex
	listeners []registration
	nextReg   int
	state     State
	runID     string
	queue     []Project
	active    int
	resolved  []Resolution
}

// NewWorkflow creates an idle workflow.
func NewWorkflow(lister ConnectionLister, submitter Submitter, convention naming.Convention, opts ...Option) *Workflow {
	w := &Workflow{
		lister:     lister,
		submitter:  submitter,
		convention: convention,
		log:        logr.Discard(),
		now:        time.Now,
		state:      StateIdle,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// AddListener registers l and returns a function that unregisters it.
func (w *Workflow) AddListener(l Listener) (remove func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.nextReg++
	id := w.nextReg
	w.listeners = append(w.listeners, registration{id: id, listener: l})
	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		for i, r := range w.listeners {
			if r.id == id {
				w.listeners = append(w.listeners[:i:i], w.listeners[i+1:]...)
				return
			}
		}
	}
}

// Discover starts a new run: it lists the data sources, builds the
// URL-unique queue and activates its first project. An empty queue completes
// the run immediately. If the listing fails, no queue is established and the
// workflow returns to StateIdle with a *DiscoveryError.
func (w *Workflow) Discover(ctx context.Context) error {
	w.mu.Lock()
	if w.state == StateDiscovering || w.state == StateSubmitting {
		w.mu.Unlock()
		return ErrBusy
	}
	w.state = StateDiscovering
	w.runID = uuid.NewString()
	w.queue = nil
	w.active = 0
	w.resolved = nil
	log := w.log.WithValues("run", w.runID)
	w.mu.Unlock()

	log.V(1).Info("Listing data sources")
	records, err := w.lister.ListConnections(ctx)

	w.mu.Lock()
	if err != nil {
		w.state = StateIdle
		w.metrics.recordDiscoveryFailure()
		w.mu.Unlock()
		log.Error(err, "Data source listing failed")
		return &DiscoveryError{Err: err}
	}

	queue, duplicates := buildQueue(records, w.convention)
	w.queue = queue
	w.metrics.recordDiscovery(len(queue), duplicates)
	log.Info("Discovered clusters", "dataSources", len(records), "queued", len(queue), "duplicates", duplicates)

	notify := w.activateFirstLocked()
	w.mu.Unlock()

	notify()
	return nil
}

// activateFirstLocked surfaces the head of a freshly built queue.
func (w *Workflow) activateFirstLocked() func() {
	return w.advanceLocked()
}

// advanceLocked moves to the project at w.active, or completes the run when
// the queue is exhausted. It returns the listener notification to fire once
// the lock is released.
func (w *Workflow) advanceLocked() func() {
	if w.active >= len(w.queue) {
		w.state = StateDone
		resolved := append([]Resolution(nil), w.resolved...)
		w.log.Info("Upgrade run complete", "run", w.runID, "resolved", len(resolved))
		listeners := w.listenersLocked()
		return func() {
			for _, l := range listeners {
				l.OnComplete(resolved)
			}
		}
	}

	w.state = StatePrompting
	project, position, total := w.queue[w.active], w.active+1, len(w.queue)
	w.log.V(1).Info("Activated project", "run", w.runID, "host", project.Host, "position", position, "total", total)
	listeners := w.listenersLocked()
	return func() {
		for _, l := range listeners {
			l.OnActivate(project, position, total)
		}
	}
}

// listenersLocked snapshots the listeners for a notification fired after unlock.
func (w *Workflow) listenersLocked() []Listener {
	out := make([]Listener, 0, len(w.listeners))
	for _, r := range w.listeners {
		out = append(out, r.listener)
	}
	return out
}

// activeLocked validates that project is the active one and returns it.
func (w *Workflow) activeLocked(project Project) (Project, error) {
	switch w.state {
	case StateSubmitting, StateDiscovering:
		return Project{}, ErrBusy
	case StatePrompting:
	default:
		return Project{}, ErrNoActiveProject
	}

	current := w.queue[w.active]
	if current.Host != project.Host {
		return Project{}, ErrNotActive
	}
	return current, nil
}

// Submit sends the active project with password to the upgrade endpoint.
// When authentication is enabled both the username and the password must be
// set; otherwise the password is ignored. On success the project is resolved
// and the next one activated. On failure a *SubmissionError is returned and
// the project stays active so the caller may retry or skip.
func (w *Workflow) Submit(ctx context.Context, project Project, password string) error {
	w.mu.Lock()
	current, err := w.activeLocked(project)
	if err != nil {
		w.mu.Unlock()
		return err
	}
	if current.AuthenticationEnabled && (current.Username == "" || password == "") {
		w.mu.Unlock()
		return ErrCredentialsRequired
	}
	w.state = StateSubmitting
	log := w.log.WithValues("run", w.runID, "host", current.Host)
	w.mu.Unlock()

	payload := current
	payload.Password = ""
	if payload.AuthenticationEnabled {
		payload.Password = password
	}

	log.Info("Submitting cluster upgrade")
	start := w.now()
	err = w.submitter.UpdateCluster(ctx, payload)
	elapsed := w.now().Sub(start)

	w.mu.Lock()
	w.metrics.recordSubmission(elapsed, err)
	if err != nil {
		w.state = StatePrompting
		w.mu.Unlock()
		log.Error(err, "Cluster upgrade failed")
		return &SubmissionError{Host: current.Host, Err: err}
	}

	notify := w.resolveLocked(StatusUpgraded)
	w.mu.Unlock()

	log.Info("Cluster upgraded", "duration", elapsed.String())
	notify()
	return nil
}

// Skip resolves the active project without submitting it and activates the
// next one.
func (w *Workflow) Skip(project Project) error {
	w.mu.Lock()
	if _, err := w.activeLocked(project); err != nil {
		w.mu.Unlock()
		return err
	}
	notify := w.resolveLocked(StatusSkipped)
	w.mu.Unlock()

	w.log.Info("Skipped cluster", "host", project.Host)
	notify()
	return nil
}

func (w *Workflow) resolveLocked(outcome string) func() {
	p := w.queue[w.active]
	p.Status = outcome
	p.Password = ""

	res := Resolution{Project: p, Outcome: outcome, At: w.now()}
	w.resolved = append(w.resolved, res)
	w.metrics.recordResolved(outcome)
	w.active++

	listeners := w.listenersLocked()
	next := w.advanceLocked()
	return func() {
		for _, l := range listeners {
			l.OnResolve(res)
		}
		next()
	}
}

// ClosePrompt hides the prompt without resolving the active project. The run
// ends and the unresolved projects stay pending until the next Discover.
func (w *Workflow) ClosePrompt() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.state {
	case StateSubmitting, StateDiscovering:
		return ErrBusy
	case StatePrompting:
		w.state = StateClosed
		w.log.Info("Upgrade prompt closed", "run", w.runID, "pending", len(w.queue)-w.active)
		return nil
	default:
		return ErrNoActiveProject
	}
}

// State returns the current state.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// RunID identifies the current run; it is empty before the first Discover.
func (w *Workflow) RunID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.runID
}

// Active returns the project awaiting a decision. The second value is false
// when no prompt is surfaced.
func (w *Workflow) Active() (Project, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StatePrompting && w.state != StateSubmitting {
		return Project{}, false
	}
	return w.queue[w.active], true
}

// Pending returns the unresolved projects, the active one first.
func (w *Workflow) Pending() []Project {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.active >= len(w.queue) {
		return nil
	}
	return append([]Project(nil), w.queue[w.active:]...)
}

// Remaining returns the number of unresolved projects.
func (w *Workflow) Remaining() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.queue) - w.active
}

// Resolved returns the projects resolved so far, in resolution order.
func (w *Workflow) Resolved() []Resolution {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Resolution(nil), w.resolved...)
}
