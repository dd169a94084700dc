package corpus

import (
	"context"
	"testing"
)

type fakeSource struct{ name string }

func (f *fakeSource) Name() string                                  { return f.name }
func (f *fakeSource) List(ctx context.Context) ([]string, error)    { return nil, nil }
func (f *fakeSource) Get(ctx context.Context, id string) ([]byte, error) { return nil, nil }

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register(&fakeSource{name: "dir"})

	source, err := registry.Resolve("dir")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if source.Name() != "dir" {
		t.Fatalf("unexpected source: %s", source.Name())
	}
}

func TestRegistryResolveUnknown(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	if _, err := registry.Resolve("ftp"); err == nil {
		t.Fatal("expected error for unregistered source")
	}
}

func TestRegistryRegisterReplaces(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	first := &fakeSource{name: "dir"}
	second := &fakeSource{name: "dir"}
	registry.Register(first)
	registry.Register(second)

	source, err := registry.Resolve("dir")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if source != Source(second) {
		t.Fatal("expected later registration to win")
	}
}
