package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"ArticleFeed/internal/corpus"
	"ArticleFeed/internal/ports"
)

// RetrievalError reports that a document could not be retrieved from the
// corpus and no cached copy was available.
type RetrievalError struct {
	ID  string
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieve document %s: %v", e.ID, e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// Cache retains raw document bytes for the lifetime of one feed session so a
// previously seen identifier can be reprocessed without a network round trip.
// It is owned by the fetcher instance, never shared process-wide.
type Cache struct {
	mu   sync.Mutex
	docs map[string][]byte
}

// NewCache builds an empty session cache.
func NewCache() *Cache {
	return &Cache{docs: map[string][]byte{}}
}

// Get returns the cached bytes for an identifier, if any.
func (c *Cache) Get(id string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.docs[id]
	return raw, ok
}

// Put stores the bytes retrieved for an identifier.
func (c *Cache) Put(id string, raw []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs[id] = raw
}

// Len returns the number of cached documents.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.docs)
}

// Fetcher retrieves raw document bytes, cache-first with populate-on-miss:
// a cached copy short-circuits the corpus entirely, a successful corpus read
// is stored for the rest of the session, and a corpus failure surfaces as a
// RetrievalError only when nothing cached can stand in.
type Fetcher struct {
	source corpus.Source
	cache  *Cache
	logger *slog.Logger
}

var _ ports.DocumentFetcher = (*Fetcher)(nil)

// NewFetcher wires a corpus source with a session cache.
func NewFetcher(source corpus.Source, cache *Cache, logger *slog.Logger) *Fetcher {
	if cache == nil {
		cache = NewCache()
	}
	return &Fetcher{source: source, cache: cache, logger: logger}
}

// Fetch returns the raw bytes for one manifest identifier.
func (f *Fetcher) Fetch(ctx context.Context, id string) ([]byte, error) {
	if raw, ok := f.cache.Get(id); ok {
		return raw, nil
	}

	raw, err := f.source.Get(ctx, id)
	if err != nil {
		if cached, ok := f.cache.Get(id); ok {
			f.debug("serving cached copy after fetch failure", "id", id, "error", err)
			return cached, nil
		}
		return nil, &RetrievalError{ID: id, Err: err}
	}

	f.cache.Put(id, raw)
	return raw, nil
}

func (f *Fetcher) debug(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Debug(msg, args...)
	}
}
