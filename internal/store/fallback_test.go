package store

import (
	"context"
	"testing"
)

// The durable side is stood in by a second Memory store; the probe flag plays
// the role of Mongo connectivity.
func TestFallbackRoutesByAvailability(t *testing.T) {
	durable := NewMemory()
	memory := NewMemory()
	up := true
	fb := NewFallback(durable, memory, func(context.Context) bool { return up })
	ctx := context.Background()

	seedVisitor(t, fb, 0, nil)

	n, err := durable.Count(ctx, Filter{})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Fatalf("durable backend holds %d records, want 1", n)
	}

	up = false
	seedVisitor(t, fb, 1, nil)

	n, _ = memory.Count(ctx, Filter{})
	if n != 1 {
		t.Fatalf("memory backend holds %d records, want 1", n)
	}
}

// Documents the known gap: a record created during an outage never shows up
// in durable-backend queries once connectivity returns.
func TestFallbackIsolationAfterReconnect(t *testing.T) {
	durable := NewMemory()
	memory := NewMemory()
	up := false
	fb := NewFallback(durable, memory, func(context.Context) bool { return up })
	ctx := context.Background()

	offline := seedVisitor(t, fb, 0, nil)

	up = true
	if _, err := fb.FindByID(ctx, offline.ID.Hex()); err != ErrNotFound {
		t.Errorf("record written during outage visible after reconnect: err = %v, want ErrNotFound", err)
	}
	n, _ := durable.Count(ctx, Filter{})
	if n != 0 {
		t.Errorf("durable backend holds %d records, want 0", n)
	}
	n, _ = memory.Count(ctx, Filter{})
	if n != 1 {
		t.Errorf("memory backend holds %d records, want 1", n)
	}
}

func TestFallbackNilDurable(t *testing.T) {
	memory := NewMemory()
	fb := NewFallback(nil, memory, func(context.Context) bool { return true })

	seedVisitor(t, fb, 0, nil)
	n, _ := memory.Count(context.Background(), Filter{})
	if n != 1 {
		t.Errorf("nil durable must fall through to memory, got %d records", n)
	}
}
