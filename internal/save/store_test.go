package save

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStoreSetGetDelete(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "store.json"))

	if _, ok := store.Get("missing"); ok {
		t.Fatal("empty store returned a value")
	}

	if err := store.Set("a", "1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set("b", "2"); err != nil {
		t.Fatalf("set: %v", err)
	}

	if v, ok := store.Get("a"); !ok || v != "1" {
		t.Fatalf("get a = %q, %v", v, ok)
	}

	// Overwrites keep other entries intact.
	if err := store.Set("a", "3"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, _ := store.Get("a"); v != "3" {
		t.Fatalf("get a after overwrite = %q", v)
	}
	if v, _ := store.Get("b"); v != "2" {
		t.Fatalf("get b after overwrite = %q", v)
	}

	if err := store.Delete("a", "b", "missing"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := store.Get("a"); ok {
		t.Fatal("deleted key still present")
	}
}

func TestStoreSurvivesMangledFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	if err := os.WriteFile(path, []byte("not json at all"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	store := NewStore(path)
	if _, ok := store.Get("a"); ok {
		t.Fatal("mangled file produced a value")
	}
	if err := store.Set("a", "1"); err != nil {
		t.Fatalf("set over mangled file: %v", err)
	}
	if v, ok := store.Get("a"); !ok || v != "1" {
		t.Fatalf("get after recovery = %q, %v", v, ok)
	}
}
