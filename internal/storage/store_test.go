package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	testStoreContract(t, ctx, store)
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "store.json"))

	testStoreContract(t, ctx, store)
}

func TestFileStore_MissingFile(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "does-not-exist.json"))

	_, ok, err := store.Get(ctx, KeyCart)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if ok {
		t.Fatalf("expected missing key on fresh store")
	}
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")

	store := NewFileStore(path)
	if err := store.Set(ctx, KeyOrders, []byte(`[{"id":"o1"}]`)); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	// A new store on the same path simulates a page reload.
	reopened := NewFileStore(path)
	value, ok, err := reopened.Get(ctx, KeyOrders)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected key to survive reopen")
	}
	if string(value) != `[{"id":"o1"}]` {
		t.Fatalf("unexpected value after reopen: %s", value)
	}
}

func TestFileStore_CorruptFileDegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("failed to seed corrupt file: %v", err)
	}

	store := NewFileStore(path)
	_, ok, err := store.Get(ctx, KeyCart)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if ok {
		t.Fatalf("expected corrupt store to read as empty")
	}

	// And the store must become writable again.
	if err := store.Set(ctx, KeyCart, []byte(`[]`)); err != nil {
		t.Fatalf("Set after corruption returned error: %v", err)
	}
}

func testStoreContract(t *testing.T, ctx context.Context, store Store) {
	t.Helper()

	// Missing key
	_, ok, err := store.Get(ctx, KeyCart)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if ok {
		t.Fatalf("expected missing key before first write")
	}

	// Write and read back
	if err := store.Set(ctx, KeyCart, []byte(`[{"id":"d1"}]`)); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	value, ok, err := store.Get(ctx, KeyCart)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !ok {
		t.Fatalf("expected key after write")
	}
	if string(value) != `[{"id":"d1"}]` {
		t.Fatalf("unexpected value: %s", value)
	}

	// Overwrite
	if err := store.Set(ctx, KeyCart, []byte(`[]`)); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	value, _, _ = store.Get(ctx, KeyCart)
	if string(value) != `[]` {
		t.Fatalf("expected overwrite, got %s", value)
	}

	// Delete, then delete again as a no-op
	if err := store.Delete(ctx, KeyCart); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	_, ok, _ = store.Get(ctx, KeyCart)
	if ok {
		t.Fatalf("expected key to be gone after delete")
	}
	if err := store.Delete(ctx, KeyCart); err != nil {
		t.Fatalf("repeated Delete returned error: %v", err)
	}
}
