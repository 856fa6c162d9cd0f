// Package future provides blocking accessors over an asynchronous,
// callback-driven event connection. A Future registers itself as a
// listener, accumulates matching notifications on the producer side,
// and lets the consumer wait synchronously for the result set with a
// bounded timeout and a settle window for response bursts.
package future

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yaoapp/kun/log"

	"github.com/jplehmann/futures/future/types"
)

// Sentinel errors.
var (
	ErrTimeout = errors.New("future: wait timed out")
	ErrConfig  = errors.New("future: invalid wait configuration")
)

// Future accumulates notifications for a single logical request.
// The connection delivers messages via Notify on its own goroutine;
// the consumer blocks in First/Last/All/Gather until the wait policy
// is satisfied. One future belongs to exactly one connection; a
// connection may serve many independent futures.
type Future struct {
	conn      types.Connection
	timeout   time.Duration
	minWait   time.Duration
	poll      time.Duration
	autoclose bool
	filter    types.Filter
	name      string

	mu       sync.Mutex // guards messages; never held across a poll sleep
	messages []*types.Message

	closeOnce sync.Once
	closed    atomic.Bool
}

// New constructs an unregistered future bound to conn.
// Fails with ErrConfig when the settle window is not strictly shorter
// than the timeout; no registration exists after a failed construction.
func New(conn types.Connection, opts ...types.Option) (*Future, error) {
	e := &types.Entry{
		Timeout:   types.DefaultTimeout,
		MinWait:   types.DefaultMinWait,
		Poll:      types.DefaultPoll,
		Autoclose: true,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.MinWait >= e.Timeout {
		return nil, fmt.Errorf("%w: minwait=%v timeout=%v", ErrConfig, e.MinWait, e.Timeout)
	}

	return &Future{
		conn:      conn,
		timeout:   e.Timeout,
		minWait:   e.MinWait,
		poll:      e.Poll,
		autoclose: e.Autoclose,
		filter:    e.Filter,
		name:      e.Name,
	}, nil
}

// Notify delivers one message to the future. Invoked by the connection,
// potentially concurrently with accessors and with other Notify calls.
// Messages rejected by the filter are dropped silently. Never blocks the
// producer and never surfaces errors to it: a panicking filter is logged
// and treated as a drop, leaving the buffer intact.
func (f *Future) Notify(msg *types.Message) {
	if f.filter != nil && !f.keep(msg) {
		return
	}
	f.mu.Lock()
	f.messages = append(f.messages, msg)
	f.mu.Unlock()
}

func (f *Future) keep(msg *types.Message) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("future filter panic: name=%s type=%s err=%v", f.name, msg.Type, r)
			ok = false
		}
	}()
	return f.filter(msg)
}

// First returns the earliest retained message once the wait policy is
// satisfied.
func (f *Future) First(ctx context.Context) (*types.Message, error) {
	if err := f.wait(ctx, nonEmpty); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.messages[0], nil
}

// Last returns the most recently retained message once the wait policy
// is satisfied.
func (f *Future) Last(ctx context.Context) (*types.Message, error) {
	if err := f.wait(ctx, nonEmpty); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.messages[len(f.messages)-1], nil
}

// All returns every retained message in receipt order, as of the moment
// the wait policy is satisfied.
func (f *Future) All(ctx context.Context) ([]*types.Message, error) {
	if err := f.wait(ctx, nonEmpty); err != nil {
		return nil, err
	}
	return f.snapshot(0), nil
}

// Gather waits until at least n messages have been retained (plus the
// settle window) and returns the first n, in receipt order.
func (f *Future) Gather(ctx context.Context, n int) ([]*types.Message, error) {
	if n < 1 {
		return nil, fmt.Errorf("future: gather requires a positive count, got %d", n)
	}
	if err := f.wait(ctx, func(have int) bool { return have >= n }); err != nil {
		return nil, err
	}
	return f.snapshot(n), nil
}

func nonEmpty(n int) bool { return n > 0 }

// wait implements the wait policy shared by every accessor: succeed once
// the content criterion holds and the settle window has elapsed, fail
// with ErrTimeout once the bound is exceeded, re-check every poll
// interval in between. On success, autoclose deregisters the future
// before any selection happens.
func (f *Future) wait(ctx context.Context, satisfied func(n int) bool) error {
	start := time.Now()
	for {
		f.mu.Lock()
		n := len(f.messages)
		f.mu.Unlock()

		elapsed := time.Since(start)
		if satisfied(n) && elapsed >= f.minWait {
			break
		}
		if elapsed > f.timeout {
			return fmt.Errorf("%w: name=%s after %v", ErrTimeout, f.name, f.timeout)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(f.poll):
		}
	}

	if f.autoclose {
		f.Close()
	}
	return nil
}

// snapshot copies the buffer (or its first n entries when n > 0) under
// the lock, so accessors hand out a consistent view even while the
// producer keeps appending.
func (f *Future) snapshot(n int) []*types.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n <= 0 || n > len(f.messages) {
		n = len(f.messages)
	}
	out := make([]*types.Message, n)
	copy(out, f.messages[:n])
	return out
}

// Close deregisters the future from the connection for every event type
// it was registered under. Idempotent. The buffer survives close:
// already-delivered messages stay readable, nothing new will arrive.
func (f *Future) Close() {
	f.closeOnce.Do(func() {
		f.closed.Store(true)
		f.conn.UnregisterAll(f)
	})
}

// Closed reports whether the future has been deregistered.
func (f *Future) Closed() bool {
	return f.closed.Load()
}

// Name returns the diagnostic identity of the future.
func (f *Future) Name() string {
	return f.name
}
