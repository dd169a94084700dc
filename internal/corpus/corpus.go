package corpus

import (
	"context"
	"fmt"
)

// Source exposes one static document corpus: a manifest of identifiers and
// the raw bytes behind each identifier. The manifest is treated as immutable
// for the lifetime of a session.
type Source interface {
	Name() string
	List(ctx context.Context) ([]string, error)
	Get(ctx context.Context, id string) ([]byte, error)
}

// Registry keeps a mapping from source names to their implementations.
type Registry struct {
	sources map[string]Source
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{sources: map[string]Source{}}
}

// Register adds or replaces a corpus source implementation.
func (r *Registry) Register(source Source) {
	if r.sources == nil {
		r.sources = map[string]Source{}
	}
	r.sources[source.Name()] = source
}

// Resolve returns a source by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Source, error) {
	if source, ok := r.sources[name]; ok {
		return source, nil
	}
	return nil, fmt.Errorf("corpus source %s is not registered", name)
}
