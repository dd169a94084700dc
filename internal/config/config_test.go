package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ARTICLE_FEED_CONFIG", "")

	cfg := Load()

	if cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected default addr: %s", cfg.Server.Addr)
	}
	if cfg.Feed.BatchSlow != 30 || cfg.Feed.BatchMedium != 40 || cfg.Feed.BatchFast != 50 {
		t.Fatalf("unexpected default batch sizes: %+v", cfg.Feed)
	}
	if cfg.Feed.MaxDisplayed != 200 || cfg.Feed.RetainDisplayed != 150 {
		t.Fatalf("unexpected eviction defaults: %+v", cfg.Feed)
	}
	if cfg.Feed.MarkUnusableShown {
		t.Fatal("unusable documents should stay eligible by default")
	}
	if cfg.Extract.MaxBlocks != 3 || cfg.Extract.MinBlockLen != 50 {
		t.Fatalf("unexpected extract defaults: %+v", cfg.Extract)
	}
}

func TestLoadMergesYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte(`
server:
  addr: ":9090"
feed:
  batchSlow: 10
  debounceMs: 500
extract:
  idPrefix: "corpus_page_"
`)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("ARTICLE_FEED_CONFIG", path)

	cfg := Load()

	if cfg.Server.Addr != ":9090" {
		t.Fatalf("file override lost: %s", cfg.Server.Addr)
	}
	if cfg.Feed.BatchSlow != 10 || cfg.Feed.DebounceMs != 500 {
		t.Fatalf("feed overrides lost: %+v", cfg.Feed)
	}
	if cfg.Extract.IDPrefix != "corpus_page_" {
		t.Fatalf("extract override lost: %q", cfg.Extract.IDPrefix)
	}
	// Untouched keys keep their defaults.
	if cfg.Feed.BatchFast != 50 {
		t.Fatalf("default lost in merge: %+v", cfg.Feed)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ARTICLE_FEED_ADDR", ":7070")
	t.Setenv("ARTICLE_FEED_CORPUS", "http")
	t.Setenv("ARTICLE_FEED_LOG_LEVEL", "debug")

	cfg := Load()

	if cfg.Server.Addr != ":7070" {
		t.Fatalf("addr env override lost: %s", cfg.Server.Addr)
	}
	if cfg.Corpus.Source != "http" {
		t.Fatalf("corpus env override lost: %s", cfg.Corpus.Source)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("log level env override lost: %s", cfg.Logging.Level)
	}
}
