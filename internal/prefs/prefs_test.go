package prefs

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "prefs.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestFloatRoundTrip(t *testing.T) {
	store := openTestStore(t)

	key := MarkerPositionKey("hidden")
	if err := store.SetFloat(key, 412.5); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := store.Float(key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || v != 412.5 {
		t.Fatalf("got (%v, %v), want (412.5, true)", v, ok)
	}
}

func TestFloatMissingKey(t *testing.T) {
	store := openTestStore(t)

	_, ok, err := store.Float("never-written")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatalf("expected missing key to report ok=false")
	}
}

func TestSetFloatReplaces(t *testing.T) {
	store := openTestStore(t)

	if err := store.SetFloat("k", 1); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.SetFloat("k", 2); err != nil {
		t.Fatalf("replace: %v", err)
	}
	v, ok, err := store.Float("k")
	if err != nil || !ok {
		t.Fatalf("get: %v ok=%v", err, ok)
	}
	if v != 2 {
		t.Fatalf("got %v, want 2", v)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := openTestStore(t)

	if err := store.SetFloat("k", 1); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Delete("k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete("k"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if _, ok, _ := store.Float("k"); ok {
		t.Fatalf("expected key gone after delete")
	}
}
