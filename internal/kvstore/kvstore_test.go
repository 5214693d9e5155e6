package kvstore

import (
	"context"
	"testing"
)

func TestMemory_RoundTrip(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	if err := store.Set(ctx, "k1", "v1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "v1" {
		t.Errorf("expected v1, got %q", got)
	}
}

func TestMemory_GetMissing(t *testing.T) {
	store := NewMemory()

	_, err := store.Get(context.Background(), "missing")
	if err != ErrKeyNotFound {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestMemory_Overwrite(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	_ = store.Set(ctx, "k", "first")
	_ = store.Set(ctx, "k", "second")

	got, _ := store.Get(ctx, "k")
	if got != "second" {
		t.Errorf("expected last write to win, got %q", got)
	}
}

func TestMemory_DeleteIdempotent(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	_ = store.Set(ctx, "k", "v")
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Delete(ctx, "k"); err != nil {
		t.Errorf("deleting an absent key should not error, got %v", err)
	}
	if _, err := store.Get(ctx, "k"); err != ErrKeyNotFound {
		t.Errorf("expected ErrKeyNotFound after delete, got %v", err)
	}
}
