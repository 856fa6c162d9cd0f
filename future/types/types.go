package types

import (
	"time"

	"github.com/spf13/cast"
)

// Message is the unit of notification delivered by a Connection.
type Message struct {
	Type   string         // Event-type identifier it was delivered under
	ID     string         // Delivery ID, assigned by the connection
	Fields map[string]any // Business payload; keys are request-specific
}

// Get returns the named field, or nil when absent.
func (m *Message) Get(key string) any {
	if m.Fields == nil {
		return nil
	}
	return m.Fields[key]
}

// GetString returns the named field coerced to string. Zero value when absent.
func (m *Message) GetString(key string) string {
	return cast.ToString(m.Get(key))
}

// GetInt returns the named field coerced to int. Zero value when absent.
func (m *Message) GetInt(key string) int {
	return cast.ToInt(m.Get(key))
}

// GetFloat returns the named field coerced to float64. Zero value when absent.
func (m *Message) GetFloat(key string) float64 {
	return cast.ToFloat64(m.Get(key))
}

// GetBool returns the named field coerced to bool. Zero value when absent.
func (m *Message) GetBool(key string) bool {
	return cast.ToBool(m.Get(key))
}

// Filter decides whether an incoming message is retained.
// It may be invoked on the connection's goroutine and must be
// side-effect free.
type Filter func(*Message) bool

// Listener receives notifications from a Connection.
// Notify is invoked with one message, zero or more times, asynchronously,
// for as long as the listener remains registered. Implementations must be
// safe under concurrent invocation and must not block the caller.
type Listener interface {
	Notify(*Message)
}

// Connection is the external event source a Future is registered against.
// The connection owns its own goroutine(s); delivery happens there, without
// coordination with the consumer side.
type Connection interface {
	// Register associates the listener with one event-type identifier.
	// May be called repeatedly for the same listener with different types.
	Register(l Listener, eventType string)

	// UnregisterAll removes every association for the listener across all
	// event types. Idempotent.
	UnregisterAll(l Listener)
}

// Option configures a Future at construction.
type Option func(*Entry)

// Entry is the internal construction record for a Future.
type Entry struct {
	Timeout   time.Duration // Upper bound on any blocking accessor
	MinWait   time.Duration // Settle window measured from the accessor start
	Poll      time.Duration // Re-check interval inside the wait loop
	Autoclose bool          // Deregister after the first successful accessor
	Filter    Filter        // Retention predicate; nil accepts everything
	Name      string        // Diagnostic identity
}

// Default configuration values.
const (
	DefaultTimeout = 5 * time.Second
	DefaultMinWait = 100 * time.Millisecond
	DefaultPoll    = 100 * time.Millisecond
)
