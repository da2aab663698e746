// Package view holds one state machine per dashboard view.  A view fetches
// its payloads through the statistics client, normalizes them into a read
// model and keeps that model as an immutable snapshot until the next filter
// change replaces it.
package view

import (
	"context"
	"sync"

	"github.com/thumblens/thumblens/internal/infrastructure/monitoring/logging"
	"github.com/thumblens/thumblens/internal/infrastructure/monitoring/prometheus"
	"github.com/thumblens/thumblens/pkg/errors"
)

// State is the fetch state of a view.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

// ErrStale is returned by Load when a newer Load started before this one
// finished.  The stale result is dropped.
var ErrStale = errors.ErrStale

// Loader fetches and normalizes one snapshot for filter.
type Loader[F, S any] func(ctx context.Context, filter F) (S, error)

// Snapshot is a copy of a controller's state.  Data is only meaningful in
// StateReady.
type Snapshot[F, S any] struct {
	View      string `json:"view"`
	State     State  `json:"state"`
	Seq       uint64 `json:"seq"`
	Filter    F      `json:"filter"`
	Data      S      `json:"data"`
	Err       error  `json:"-"`
	Selection *int64 `json:"selection,omitempty"`
}

// Error returns the error message, or "" when the view has no error.
func (s Snapshot[F, S]) Error() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Error()
}

// Ready reports whether the snapshot holds data.
func (s Snapshot[F, S]) Ready() bool { return s.State == StateReady }

// Option configures a Controller.
type Option func(*options)

type options struct {
	logger  logging.Logger
	metrics *prometheus.DashboardMetrics
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics records transitions on m.
func WithMetrics(m *prometheus.DashboardMetrics) Option {
	return func(o *options) { o.metrics = m }
}

// Controller drives one view through idle → loading → ready|error.  The
// last Load wins: a load that finishes after a newer one started returns
// ErrStale and leaves the state alone.
type Controller[F, S any] struct {
	name    string
	load    Loader[F, S]
	logger  logging.Logger
	metrics *prometheus.DashboardMetrics

	mu        sync.Mutex
	snap      Snapshot[F, S]
	cancel    context.CancelFunc
	listeners []func(Snapshot[F, S])
}

// NewController returns an idle controller.
func NewController[F, S any](name string, load Loader[F, S], opts ...Option) *Controller[F, S] {
	o := options{logger: logging.NewNopLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Controller[F, S]{
		name:    name,
		load:    load,
		logger:  o.logger.With(logging.String("view", name)),
		metrics: o.metrics,
		snap:    Snapshot[F, S]{View: name, State: StateIdle},
	}
}

// Name returns the view name.
func (c *Controller[F, S]) Name() string { return c.name }

// Load enters loading with filter, cancels the previous load's context and
// runs the loader.  The previous snapshot and selection are dropped as soon
// as loading starts.
func (c *Controller[F, S]) Load(ctx context.Context, filter F) (Snapshot[F, S], error) {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	loadCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	var zero S
	c.snap.Seq++
	seq := c.snap.Seq
	c.snap.State = StateLoading
	c.snap.Filter = filter
	c.snap.Data = zero
	c.snap.Err = nil
	c.snap.Selection = nil
	loading := c.snap
	c.mu.Unlock()

	c.logger.Debug("view loading", logging.Uint64("seq", seq))
	c.metrics.ViewTransition(c.name, string(StateLoading))
	c.notify(loading)

	data, err := c.load(loadCtx, filter)
	c.metrics.LoadFinished(c.name)

	c.mu.Lock()
	if seq != c.snap.Seq {
		c.mu.Unlock()
		cancel()
		c.logger.Debug("discarding stale view result", logging.Uint64("seq", seq))
		c.metrics.StaleDiscard(c.name)
		return Snapshot[F, S]{}, ErrStale
	}
	cancel()
	c.cancel = nil
	if err != nil {
		c.snap.State = StateError
		c.snap.Err = err
	} else {
		c.snap.State = StateReady
		c.snap.Data = data
	}
	done := c.snap
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("view load failed", logging.Uint64("seq", seq), logging.Err(err))
	} else {
		c.logger.Debug("view ready", logging.Uint64("seq", seq))
	}
	c.metrics.ViewTransition(c.name, string(done.State))
	c.notify(done)
	return done, err
}

// Snapshot returns the current state.
func (c *Controller[F, S]) Snapshot() Snapshot[F, S] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Select marks id as the selected entity.  It fails unless the view is
// ready.
func (c *Controller[F, S]) Select(id int64) error {
	c.mu.Lock()
	if c.snap.State != StateReady {
		c.mu.Unlock()
		return errors.New(errors.CodeSelection, "nothing to select from").
			WithDetail("view " + c.name + " is " + string(c.snap.State))
	}
	c.snap.Selection = &id
	snap := c.snap
	c.mu.Unlock()
	c.notify(snap)
	return nil
}

// ClearSelection dismisses the selection.
func (c *Controller[F, S]) ClearSelection() {
	c.mu.Lock()
	if c.snap.Selection == nil {
		c.mu.Unlock()
		return
	}
	c.snap.Selection = nil
	snap := c.snap
	c.mu.Unlock()
	c.notify(snap)
}

// Subscribe registers fn to run after every state change.  The returned
// func removes it.
func (c *Controller[F, S]) Subscribe(fn func(Snapshot[F, S])) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
	idx := len(c.listeners) - 1
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if idx < len(c.listeners) {
			c.listeners[idx] = nil
		}
	}
}

func (c *Controller[F, S]) notify(s Snapshot[F, S]) {
	c.mu.Lock()
	ls := make([]func(Snapshot[F, S]), len(c.listeners))
	copy(ls, c.listeners)
	c.mu.Unlock()
	for _, fn := range ls {
		if fn != nil {
			fn(s)
		}
	}
}
