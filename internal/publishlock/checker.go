// Package publishlock polls the server for elements locked for publishing
// and reloads them once the lock is released.
package publishlock

import (
	"context"
	"slices"
	"time"

	"github.com/goliatone/go-cms-editor/internal/eventloop"
	"github.com/goliatone/go-cms-editor/internal/logging"
	"github.com/goliatone/go-cms-editor/internal/shared"
	"github.com/goliatone/go-cms-editor/pkg/interfaces"
)

// DefaultInterval is the delay between two checks.
const DefaultInterval = 500 * time.Millisecond

// Service reports which of the given elements are still publish locked.
type Service interface {
	GetElementsLockedForPublishing(ctx context.Context, ids []shared.ClientID) ([]shared.ClientID, error)
}

// ReloadFunc is invoked with the ids whose lock was released.
type ReloadFunc func(ids []shared.ClientID)

// Checker keeps a pending set and polls at a fixed interval while it is not
// empty. There is no backoff and no retry bound.
type Checker struct {
	loop     *eventloop.Loop
	service  Service
	reload   ReloadFunc
	interval time.Duration
	logger   interfaces.Logger
	ctx      context.Context

	pending  map[shared.ClientID]struct{}
	timer    *eventloop.Timer
	inFlight bool
	cycles   int
}

// Option configures a Checker.
type Option func(*Checker)

// WithInterval overrides DefaultInterval.
func WithInterval(interval time.Duration) Option {
	return func(c *Checker) {
		if interval > 0 {
			c.interval = interval
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Checker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithContext sets the context used for RPC calls.
func WithContext(ctx context.Context) Option {
	return func(c *Checker) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// New returns an idle checker.
func New(loop *eventloop.Loop, service Service, reload ReloadFunc, opts ...Option) *Checker {
	c := &Checker{
		loop:     loop,
		service:  service,
		reload:   reload,
		interval: DefaultInterval,
		logger:   logging.NoOp(),
		ctx:      context.Background(),
		pending:  map[shared.ClientID]struct{}{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Add puts ids in the pending set and starts polling if needed.
func (c *Checker) Add(ids ...shared.ClientID) {
	for _, id := range ids {
		if id != "" {
			c.pending[id] = struct{}{}
		}
	}
	c.schedule()
}

// Pending returns the pending ids, sorted.
func (c *Checker) Pending() []shared.ClientID {
	ids := make([]shared.ClientID, 0, len(c.pending))
	for id := range c.pending {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Active reports whether a check is scheduled or running.
func (c *Checker) Active() bool {
	return c.timer != nil || c.inFlight
}

// Cycles returns the number of completed checks.
func (c *Checker) Cycles() int {
	return c.cycles
}

// Stop cancels a scheduled check and drops the pending set.
func (c *Checker) Stop() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	clear(c.pending)
}

func (c *Checker) schedule() {
	if c.timer != nil || c.inFlight || len(c.pending) == 0 {
		return
	}
	c.timer = c.loop.AfterFunc(c.interval, c.check)
}

func (c *Checker) check() {
	c.timer = nil
	if len(c.pending) == 0 {
		return
	}
	ids := c.Pending()
	c.inFlight = true
	eventloop.Call(c.loop, c.ctx, func(ctx context.Context) ([]shared.ClientID, error) {
		return c.service.GetElementsLockedForPublishing(ctx, ids)
	}, func(locked []shared.ClientID, err error) {
		c.inFlight = false
		c.cycles++
		if err != nil {
			c.logger.Error("publishlock.check.failed", "error", err, "pending", len(ids))
			c.schedule()
			return
		}

		stillLocked := make(map[shared.ClientID]struct{}, len(locked))
		for _, id := range locked {
			stillLocked[id] = struct{}{}
		}
		var released []shared.ClientID
		for _, id := range ids {
			if _, ok := stillLocked[id]; ok {
				continue
			}
			if _, ok := c.pending[id]; !ok {
				continue
			}
			delete(c.pending, id)
			released = append(released, id)
		}

		c.logger.Debug("publishlock.check.completed", "released", len(released), "pending", len(c.pending))
		if len(released) > 0 && c.reload != nil {
			c.reload(released)
		}
		c.schedule()
	})
}
