package types_test

import (
	"testing"

	"github.com/jplehmann/futures/future/types"
)

func TestMessage_FieldCoercion(t *testing.T) {
	m := &types.Message{
		Type: "quote",
		Fields: map[string]any{
			"symbol": "MSFT",
			"size":   "300",
			"price":  421.5,
			"open":   true,
		},
	}

	if got := m.GetString("symbol"); got != "MSFT" {
		t.Fatalf("GetString: got %q", got)
	}
	if got := m.GetInt("size"); got != 300 {
		t.Fatalf("GetInt should coerce the string field, got %d", got)
	}
	if got := m.GetFloat("price"); got != 421.5 {
		t.Fatalf("GetFloat: got %v", got)
	}
	if !m.GetBool("open") {
		t.Fatal("GetBool: got false")
	}
}

func TestMessage_AbsentFields(t *testing.T) {
	m := &types.Message{Type: "quote"}

	if m.Get("anything") != nil {
		t.Fatal("Get on nil fields should return nil")
	}
	if m.GetString("anything") != "" || m.GetInt("anything") != 0 {
		t.Fatal("absent fields coerce to zero values")
	}
}
