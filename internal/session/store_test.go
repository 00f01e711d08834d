package session

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestCodecRoundTrip(t *testing.T) {
	store := NewMemoryStore()

	type nested struct {
		Name  string         `json:"name"`
		Score float64        `json:"score"`
		Tags  []string       `json:"tags"`
		Extra map[string]int `json:"extra"`
	}
	in := nested{Name: "algebra", Score: 4.5, Tags: []string{"a", "b"}, Extra: map[string]int{"x": 1}}

	if err := WriteJSON(store, "value", in); err != nil {
		t.Fatalf("write error: %v", err)
	}
	var out nested
	if !ReadJSON(store, "value", &out) {
		t.Fatalf("expected value present")
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch: %+v != %+v", in, out)
	}
}

func TestCorruptEntrySelfHeals(t *testing.T) {
	store := NewMemoryStore()
	if err := store.Set("profile", "{definitely not json"); err != nil {
		t.Fatalf("set error: %v", err)
	}

	var out map[string]any
	if ReadJSON(store, "profile", &out) {
		t.Fatalf("corrupt entry must read as absent")
	}
	if _, ok := store.Get("profile"); ok {
		t.Fatalf("corrupt entry must be evicted")
	}
	// a second read is a plain miss, no error, no panic
	if ReadJSON(store, "profile", &out) {
		t.Fatalf("second read must also be absent")
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewFileStore(path)

	if err := store.Set("accessToken", `"tok"`); err != nil {
		t.Fatalf("set error: %v", err)
	}
	if err := store.Set("role", `"TEACHER"`); err != nil {
		t.Fatalf("set error: %v", err)
	}

	// a fresh instance over the same path sees the same data
	again := NewFileStore(path)
	if val, ok := again.Get("accessToken"); !ok || val != `"tok"` {
		t.Fatalf("unexpected accessToken: %q %v", val, ok)
	}

	if err := again.Remove("role"); err != nil {
		t.Fatalf("remove error: %v", err)
	}
	if _, ok := again.Get("role"); ok {
		t.Fatalf("role should be removed")
	}

	if err := again.Clear(); err != nil {
		t.Fatalf("clear error: %v", err)
	}
	if _, ok := NewFileStore(path).Get("accessToken"); ok {
		t.Fatalf("clear should empty the store")
	}
	// clearing an already empty store is fine
	if err := again.Clear(); err != nil {
		t.Fatalf("second clear error: %v", err)
	}
}

func TestFileStoreCorruptFileTreatedAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("not a json document"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	store := NewFileStore(path)
	if _, ok := store.Get("accessToken"); ok {
		t.Fatalf("corrupt file must read as empty")
	}
	if err := store.Set("accessToken", `"tok"`); err != nil {
		t.Fatalf("set over corrupt file: %v", err)
	}
	if val, ok := store.Get("accessToken"); !ok || val != `"tok"` {
		t.Fatalf("store should recover after rewrite, got %q %v", val, ok)
	}
}

func TestMemoryStoreClear(t *testing.T) {
	store := NewMemoryStore()
	_ = store.Set("a", "1")
	_ = store.Set("b", "2")
	if err := store.Clear(); err != nil {
		t.Fatalf("clear error: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, have %d entries", store.Len())
	}
}
