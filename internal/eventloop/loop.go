// Package eventloop runs editor work on a single logical thread. UI handlers,
// deferred tasks, timer callbacks and RPC completions are queued and executed
// one at a time by whoever drives the loop, so editor state needs no locking.
package eventloop

import (
	"context"
	"sync"
	"time"
)

// Loop is a FIFO task queue plus a count of outstanding asynchronous work.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	pending int
	wake    chan struct{}
}

// New returns an empty loop.
func New() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Defer queues fn to run after the current task. Work scheduled this way
// never re-enters the caller.
func (l *Loop) Defer(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
	l.signal()
}

// Timer is a pending AfterFunc callback.
type Timer struct {
	loop  *Loop
	timer *time.Timer
}

// Stop cancels the timer. It reports false when the callback was already queued.
func (t *Timer) Stop() bool {
	if t == nil || t.timer == nil {
		return false
	}
	if !t.timer.Stop() {
		return false
	}
	t.loop.finish(nil)
	return true
}

// AfterFunc queues fn once d has elapsed.
func (l *Loop) AfterFunc(d time.Duration, fn func()) *Timer {
	l.begin()
	return &Timer{
		loop:  l,
		timer: time.AfterFunc(d, func() { l.finish(fn) }),
	}
}

// Call runs work off the loop and queues done with its result. done always
// runs on the loop, never inside Call.
func Call[T any](l *Loop, ctx context.Context, work func(context.Context) (T, error), done func(T, error)) {
	if ctx == nil {
		ctx = context.Background()
	}
	l.begin()
	go func() {
		value, err := work(ctx)
		l.finish(func() {
			if done != nil {
				done(value, err)
			}
		})
	}()
}

// Pending reports queued tasks plus outstanding timers and calls.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue) + l.pending
}

// RunUntilIdle executes tasks until the queue is empty and no timer or call is
// outstanding, or ctx is done.
func (l *Loop) RunUntilIdle(ctx context.Context) error {
	for {
		fn, idle := l.take()
		if fn != nil {
			fn()
			continue
		}
		if idle {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Run executes tasks until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if fn, _ := l.take(); fn != nil {
			fn()
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

func (l *Loop) take() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil, l.pending == 0
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn, false
}

func (l *Loop) begin() {
	l.mu.Lock()
	l.pending++
	l.mu.Unlock()
}

// finish queues fn (if any) and releases one pending slot atomically so that
// RunUntilIdle never observes an idle loop in between.
func (l *Loop) finish(fn func()) {
	l.mu.Lock()
	if fn != nil {
		l.queue = append(l.queue, fn)
	}
	l.pending--
	l.mu.Unlock()
	l.signal()
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}
