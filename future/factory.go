package future

import (
	"strings"

	"github.com/jplehmann/futures/future/types"
)

// Factory builds registered, request-issued futures against a single
// connection. It holds no state beyond the connection reference and is
// safe to reuse across calls.
type Factory struct {
	conn types.Connection
}

// NewFactory returns a factory bound to conn.
func NewFactory(conn types.Connection) *Factory {
	return &Factory{conn: conn}
}

// Create builds a future that accepts every message delivered under the
// given event types, registers it, and issues the request. Equivalent to
// CreateFiltered with a nil filter. The request closure binds whatever
// arguments the underlying call needs.
func (fa *Factory) Create(eventTypes []string, request func() error, opts ...types.Option) (*Future, error) {
	return fa.CreateFiltered(eventTypes, nil, request, opts...)
}

// CreateFiltered builds a future with a retention filter, registers it
// under each event type, and issues the request that is expected to make
// the connection produce matching responses.
//
// A request failure propagates unmodified. The registration is left in
// place on that path so the caller can inspect or retry; the future is
// returned alongside the error so the caller can Close() it instead.
func (fa *Factory) CreateFiltered(eventTypes []string, filter types.Filter, request func() error, opts ...types.Option) (*Future, error) {
	opts = append([]types.Option{Name(strings.Join(eventTypes, ","))}, opts...)
	if filter != nil {
		opts = append(opts, WithFilter(filter))
	}

	f, err := New(fa.conn, opts...)
	if err != nil {
		return nil, err
	}

	for _, typ := range eventTypes {
		fa.conn.Register(f, typ)
	}

	if err := request(); err != nil {
		return f, err
	}
	return f, nil
}
