package corpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestDirSourceListsOnlyHTML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"b.html", "a.html", "notes.txt", "c.htm"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("<html></html>"), 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}

	ids, err := NewDirSource(dir).List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}

	want := []string{"a.html", "b.html", "c.htm"}
	if len(ids) != len(want) {
		t.Fatalf("expected %d ids, got %v", len(want), ids)
	}
	for i, id := range want {
		if ids[i] != id {
			t.Fatalf("expected sorted ids %v, got %v", want, ids)
		}
	}
}

func TestDirSourceGet(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "doc.html"), []byte("<h1>hi</h1>"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	raw, err := NewDirSource(dir).Get(context.Background(), "doc.html")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if string(raw) != "<h1>hi</h1>" {
		t.Fatalf("unexpected bytes: %q", raw)
	}
}

func TestDirSourceGetConfinedToDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "doc.html"), []byte("safe"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	raw, err := NewDirSource(dir).Get(context.Background(), "../../../doc.html")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if string(raw) != "safe" {
		t.Fatalf("identifier escaped the corpus directory: %q", raw)
	}
}
