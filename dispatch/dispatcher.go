// Package dispatch provides an in-process implementation of the
// connection contract consumed by package future: a registration table
// keyed by event type, with a Dispatch entry point for the producer
// side. It is deliberately not a pub/sub bus — no patterns, no queues —
// just fan-out of one delivered message to the listeners registered for
// its type.
package dispatch

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/yaoapp/kun/log"

	"github.com/jplehmann/futures/future/types"
)

var msgIDCounter atomic.Uint64

func nextMsgID() string {
	id := msgIDCounter.Add(1)
	return fmt.Sprintf("msg-%d", id)
}

// Dispatcher routes producer-delivered messages to registered listeners.
// Registration and delivery may happen on different goroutines; the
// registry is the shared resource and is guarded accordingly.
type Dispatcher struct {
	mu  sync.RWMutex
	reg map[string][]types.Listener // event type -> listeners
	all []types.Listener            // catch-all listeners, every type
}

// New returns an empty dispatcher.
func New() *Dispatcher {
	return &Dispatcher{
		reg: make(map[string][]types.Listener),
	}
}

// Register associates the listener with one event type.
// Registering the same listener twice under the same type is a no-op.
func (d *Dispatcher) Register(l types.Listener, eventType string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if contains(d.reg[eventType], l) {
		return
	}
	d.reg[eventType] = append(d.reg[eventType], l)
}

// RegisterAll associates the listener with every event type, current and
// future. Idempotent.
func (d *Dispatcher) RegisterAll(l types.Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if contains(d.all, l) {
		return
	}
	d.all = append(d.all, l)
}

// Unregister removes the listener's association with one event type.
// Unknown associations are ignored.
func (d *Dispatcher) Unregister(l types.Listener, eventType string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reg[eventType] = remove(d.reg[eventType], l)
	if len(d.reg[eventType]) == 0 {
		delete(d.reg, eventType)
	}
}

// UnregisterAll removes every association for the listener, across all
// event types and the catch-all list. Idempotent.
func (d *Dispatcher) UnregisterAll(l types.Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for typ, listeners := range d.reg {
		d.reg[typ] = remove(listeners, l)
		if len(d.reg[typ]) == 0 {
			delete(d.reg, typ)
		}
	}
	d.all = remove(d.all, l)
}

// Dispatch delivers msg to every listener registered for eventType plus
// the catch-all listeners, on the caller's goroutine. The message is
// stamped with the event type and, when unset, a delivery ID. A type
// with no registrations is a silent no-op. A panicking listener is
// logged and does not stop delivery to the rest. Returns the number of
// listeners notified.
func (d *Dispatcher) Dispatch(eventType string, msg *types.Message) int {
	msg.Type = eventType
	if msg.ID == "" {
		msg.ID = nextMsgID()
	}

	d.mu.RLock()
	targets := make([]types.Listener, 0, len(d.reg[eventType])+len(d.all))
	targets = append(targets, d.reg[eventType]...)
	targets = append(targets, d.all...)
	d.mu.RUnlock()

	for _, l := range targets {
		d.deliver(l, msg)
	}
	return len(targets)
}

func (d *Dispatcher) deliver(l types.Listener, msg *types.Message) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("dispatch listener panic: type=%s id=%s err=%v", msg.Type, msg.ID, r)
		}
	}()
	l.Notify(msg)
}

// Count returns the number of listeners registered for one event type,
// catch-all listeners excluded.
func (d *Dispatcher) Count(eventType string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.reg[eventType])
}

// Has reports whether the listener holds any registration.
func (d *Dispatcher) Has(l types.Listener) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, listeners := range d.reg {
		if contains(listeners, l) {
			return true
		}
	}
	return contains(d.all, l)
}

func contains(listeners []types.Listener, l types.Listener) bool {
	for _, got := range listeners {
		if got == l {
			return true
		}
	}
	return false
}

// remove deletes l by identity, swapping with the last element and
// truncating. Order of the remaining listeners is not preserved.
func remove(listeners []types.Listener, l types.Listener) []types.Listener {
	for i, got := range listeners {
		if got == l {
			last := len(listeners) - 1
			listeners[i] = listeners[last]
			return listeners[:last]
		}
	}
	return listeners
}
