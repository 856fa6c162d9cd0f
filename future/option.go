package future

import (
	"time"

	"github.com/jplehmann/futures/future/types"
)

// Timeout sets the upper bound on any blocking accessor.
// Default is 5s. Must be greater than the settle window.
func Timeout(d time.Duration) types.Option {
	return func(e *types.Entry) {
		e.Timeout = d
	}
}

// MinWait sets the settle window: the minimum time an accessor keeps
// waiting once at least one message has arrived, so a burst of related
// responses is collected as a whole. Default is 100ms.
func MinWait(d time.Duration) types.Option {
	return func(e *types.Entry) {
		e.MinWait = d
	}
}

// Poll sets the re-check interval of the wait loop. Default is 100ms.
func Poll(d time.Duration) types.Option {
	return func(e *types.Entry) {
		e.Poll = d
	}
}

// Autoclose controls whether the future deregisters itself after the
// first successful accessor call. Default is true.
func Autoclose(on bool) types.Option {
	return func(e *types.Entry) {
		e.Autoclose = on
	}
}

// WithFilter sets the retention predicate. Messages it rejects are
// dropped silently. The predicate may run on the connection's goroutine
// and must be side-effect free.
func WithFilter(fn types.Filter) types.Option {
	return func(e *types.Entry) {
		e.Filter = fn
	}
}

// Name sets the diagnostic identity of the future.
// The factory derives it from the event-type set when unset.
func Name(s string) types.Option {
	return func(e *types.Entry) {
		e.Name = s
	}
}
