package fetch

import (
	"context"
	"errors"
	"testing"
)

type stubSource struct {
	docs  map[string][]byte
	fail  map[string]error
	calls int
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) List(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *stubSource) Get(ctx context.Context, id string) ([]byte, error) {
	s.calls++
	if err, ok := s.fail[id]; ok {
		return nil, err
	}
	raw, ok := s.docs[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return raw, nil
}

func TestFetchPopulatesCacheOnMiss(t *testing.T) {
	t.Parallel()

	source := &stubSource{docs: map[string][]byte{"a.html": []byte("<html>a</html>")}}
	fetcher := NewFetcher(source, NewCache(), nil)

	ctx := context.Background()
	first, err := fetcher.Fetch(ctx, "a.html")
	if err != nil {
		t.Fatalf("first Fetch error: %v", err)
	}

	second, err := fetcher.Fetch(ctx, "a.html")
	if err != nil {
		t.Fatalf("second Fetch error: %v", err)
	}

	if string(first) != string(second) {
		t.Fatalf("cache returned different bytes: %q vs %q", first, second)
	}
	if source.calls != 1 {
		t.Fatalf("expected a single source call, got %d", source.calls)
	}
}

func TestFetchServesCacheWhenSourceFails(t *testing.T) {
	t.Parallel()

	source := &stubSource{fail: map[string]error{"a.html": errors.New("network down")}}
	cache := NewCache()
	cache.Put("a.html", []byte("cached copy"))

	fetcher := NewFetcher(source, cache, nil)
	raw, err := fetcher.Fetch(context.Background(), "a.html")
	if err != nil {
		t.Fatalf("expected cached copy, got error %v", err)
	}
	if string(raw) != "cached copy" {
		t.Fatalf("unexpected bytes: %q", raw)
	}
}

func TestFetchRetrievalErrorWithoutCache(t *testing.T) {
	t.Parallel()

	source := &stubSource{fail: map[string]error{"a.html": errors.New("network down")}}
	fetcher := NewFetcher(source, NewCache(), nil)

	_, err := fetcher.Fetch(context.Background(), "a.html")

	var retrieval *RetrievalError
	if !errors.As(err, &retrieval) {
		t.Fatalf("expected RetrievalError, got %v", err)
	}
	if retrieval.ID != "a.html" {
		t.Fatalf("unexpected id in error: %s", retrieval.ID)
	}
}
