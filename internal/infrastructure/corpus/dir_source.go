package corpus

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ArticleFeed/internal/corpus"
)

// DirSource serves a local directory of scraped .html files. The manifest is
// the sorted listing of HTML filenames.
type DirSource struct {
	dir string
}

var _ corpus.Source = (*DirSource)(nil)

// NewDirSource points the source at a corpus directory.
func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

// Name identifies the source inside the registry.
func (s *DirSource) Name() string {
	return "dir"
}

// List returns the HTML filenames found in the corpus directory.
func (s *DirSource) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read corpus dir: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".html") || strings.HasSuffix(name, ".htm") {
			ids = append(ids, name)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Get reads one document from disk. Identifiers are reduced to their base
// name so a crafted id cannot escape the corpus directory.
func (s *DirSource) Get(ctx context.Context, id string) ([]byte, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, filepath.Base(id)))
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", id, err)
	}
	return raw, nil
}
