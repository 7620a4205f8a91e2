package store

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newTestKV(t *testing.T) *SQLite {
	t.Helper()
	s, err := NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteGetAbsent(t *testing.T) {
	ctx := context.Background()
	kv := newTestKV(t)

	_, ok, err := kv.Get(ctx, "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected absent key to report ok=false")
	}
}

func TestSQLiteSetGet(t *testing.T) {
	ctx := context.Background()
	kv := newTestKV(t)

	if err := kv.Set(ctx, "k", "v1"); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, ok, err := kv.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatal("expected key to be present")
	}
	if diff := cmp.Diff("v1", got); diff != "" {
		t.Errorf("value mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLiteSetOverwrites(t *testing.T) {
	ctx := context.Background()
	kv := newTestKV(t)

	if err := kv.Set(ctx, "k", "v1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Set(ctx, "k", "v2"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, _, err := kv.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if diff := cmp.Diff("v2", got); diff != "" {
		t.Errorf("value mismatch (-want +got):\n%s", diff)
	}
}
