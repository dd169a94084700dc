package corpus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newCorpusServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/data/files.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`["a.html","b.html"]`))
	})
	mux.HandleFunc("/data/a.html", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<h1>A</h1>"))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestHTTPSourceList(t *testing.T) {
	t.Parallel()

	server := newCorpusServer(t)
	source := NewHTTPSource(server.URL+"/data/files.json", server.URL+"/data", 100, server.Client())

	ids, err := source.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(ids) != 2 || ids[0] != "a.html" || ids[1] != "b.html" {
		t.Fatalf("unexpected manifest: %v", ids)
	}
}

func TestHTTPSourceGet(t *testing.T) {
	t.Parallel()

	server := newCorpusServer(t)
	source := NewHTTPSource(server.URL+"/data/files.json", server.URL+"/data", 100, server.Client())

	raw, err := source.Get(context.Background(), "a.html")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if string(raw) != "<h1>A</h1>" {
		t.Fatalf("unexpected bytes: %q", raw)
	}
}

func TestHTTPSourceGetMissingDocument(t *testing.T) {
	t.Parallel()

	server := newCorpusServer(t)
	source := NewHTTPSource(server.URL+"/data/files.json", server.URL+"/data", 100, server.Client())

	if _, err := source.Get(context.Background(), "missing.html"); err == nil {
		t.Fatal("expected error for missing document")
	}
}
