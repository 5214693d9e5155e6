package kvstore

import (
	"context"
	"os"
	"testing"

	"github.com/medcard/medcard/internal/platform/db"
)

// newPGStore connects to the database named by DATABASE_URL. Environments
// without one skip the postgres suite; everything above the Store interface
// is covered by the Memory and File tests either way.
func newPGStore(t *testing.T) *PG {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	pool, err := db.NewPool(context.Background(), db.Config{URL: url, MaxConns: 2, MinConns: 1})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	store := NewPG(pool)
	if err := store.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return store
}

func pgKey(t *testing.T) string {
	return "test_" + t.Name()
}

func TestPG_RoundTrip(t *testing.T) {
	store := newPGStore(t)
	ctx := context.Background()
	key := pgKey(t)
	t.Cleanup(func() { _ = store.Delete(ctx, key) })

	if err := store.Set(ctx, key, `{"name":"report.pdf"}`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"name":"report.pdf"}` {
		t.Errorf("unexpected value: %q", got)
	}
}

func TestPG_OverwriteLastWriterWins(t *testing.T) {
	store := newPGStore(t)
	ctx := context.Background()
	key := pgKey(t)
	t.Cleanup(func() { _ = store.Delete(ctx, key) })

	if err := store.Set(ctx, key, "v1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Set(ctx, key, "v2"); err != nil {
		t.Fatalf("upsert over an existing key should succeed: %v", err)
	}
	if got, _ := store.Get(ctx, key); got != "v2" {
		t.Errorf("expected the later write, got %q", got)
	}
}

func TestPG_GetMissing(t *testing.T) {
	store := newPGStore(t)

	if _, err := store.Get(context.Background(), pgKey(t)); err != ErrKeyNotFound {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestPG_DeleteIdempotent(t *testing.T) {
	store := newPGStore(t)
	ctx := context.Background()
	key := pgKey(t)

	_ = store.Set(ctx, key, "v")
	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Delete(ctx, key); err != nil {
		t.Errorf("deleting an absent key should not error, got %v", err)
	}
}
