package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv   = "ARTICLE_FEED_CONFIG"
	serverAddrEnv   = "ARTICLE_FEED_ADDR"
	corpusSourceEnv = "ARTICLE_FEED_CORPUS"
	corpusDirEnv    = "ARTICLE_FEED_CORPUS_DIR"
	manifestURLEnv  = "ARTICLE_FEED_MANIFEST_URL"
	documentBaseEnv = "ARTICLE_FEED_DOCUMENT_BASE_URL"
	likesPathEnv    = "ARTICLE_FEED_LIKES_DB"
	loggingLevelEnv = "ARTICLE_FEED_LOG_LEVEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Corpus  CorpusConfig  `yaml:"corpus"`
	Feed    FeedConfig    `yaml:"feed"`
	Extract ExtractConfig `yaml:"extract"`
	Images  ImageConfig   `yaml:"images"`
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// CorpusConfig selects and parameterizes the document corpus source.
type CorpusConfig struct {
	// Source names the registered corpus implementation: "http" or "dir".
	Source          string  `yaml:"source"`
	ManifestURL     string  `yaml:"manifestUrl"`
	DocumentBaseURL string  `yaml:"documentBaseUrl"`
	Dir             string  `yaml:"dir"`
	RequestsPerSec  float64 `yaml:"requestsPerSec"`
}

// FeedConfig carries the feed-supply engine policy constants. All of these
// are tunables, not structural requirements.
type FeedConfig struct {
	BatchSlow   int `yaml:"batchSlow"`
	BatchMedium int `yaml:"batchMedium"`
	BatchFast   int `yaml:"batchFast"`

	// Scroll speed thresholds in pixels per millisecond.
	SpeedMedium float64 `yaml:"speedMedium"`
	SpeedFast   float64 `yaml:"speedFast"`

	// ReserveLowWater is the reserve depth below which draining the primary
	// buffer schedules fresh refills instead of pulling from the reserve.
	ReserveLowWater int `yaml:"reserveLowWater"`
	// ReservePromote is how many reserve articles move into the primary
	// buffer on an opportunistic promotion.
	ReservePromote int `yaml:"reservePromote"`
	// ReserveDrain bounds how many reserve articles go straight to the
	// displayed list when the primary buffer is empty.
	ReserveDrain int `yaml:"reserveDrain"`
	// ReserveRefillBelow triggers a half-size reserve top-up during a
	// primary-buffer refill cycle.
	ReserveRefillBelow int `yaml:"reserveRefillBelow"`

	MaxDisplayed    int `yaml:"maxDisplayed"`
	RetainDisplayed int `yaml:"retainDisplayed"`
	MaxExcluded     int `yaml:"maxExcluded"`
	RetainExcluded  int `yaml:"retainExcluded"`

	DebounceMs int `yaml:"debounceMs"`

	// MarkUnusableShown controls whether a document that fails extraction is
	// added to the exclusion set anyway. Off by default so it stays eligible
	// for resampling.
	MarkUnusableShown bool `yaml:"markUnusableShown"`
}

// ExtractConfig tunes the markup-to-article extraction heuristics.
type ExtractConfig struct {
	MinBlockLen   int    `yaml:"minBlockLen"`
	MaxBlocks     int    `yaml:"maxBlocks"`
	MinExtractLen int    `yaml:"minExtractLen"`
	MaxExtractLen int    `yaml:"maxExtractLen"`
	PageURLPrefix string `yaml:"pageUrlPrefix"`
	// IDPrefix is stripped from manifest identifiers when deriving slugs and
	// fallback titles.
	IDPrefix        string `yaml:"idPrefix"`
	PlaceholderBase string `yaml:"placeholderBase"`
	ThumbWidth      int    `yaml:"thumbWidth"`
	ThumbHeight     int    `yaml:"thumbHeight"`
}

// ImageConfig tunes the thumbnail preloader.
type ImageConfig struct {
	PreloadTimeoutMs int `yaml:"preloadTimeoutMs"`
}

// StorageConfig describes the liked-articles database.
type StorageConfig struct {
	LikesPath string `yaml:"likesPath"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(serverAddrEnv); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(corpusSourceEnv); v != "" {
		c.Corpus.Source = v
	}
	if v := os.Getenv(corpusDirEnv); v != "" {
		c.Corpus.Dir = v
	}
	if v := os.Getenv(manifestURLEnv); v != "" {
		c.Corpus.ManifestURL = v
	}
	if v := os.Getenv(documentBaseEnv); v != "" {
		c.Corpus.DocumentBaseURL = v
	}
	if v := os.Getenv(likesPathEnv); v != "" {
		c.Storage.LikesPath = v
	}
	if v := os.Getenv(loggingLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}
	if len(override.Server.AllowedOrigins) > 0 {
		base.Server.AllowedOrigins = override.Server.AllowedOrigins
	}

	if override.Corpus.Source != "" {
		base.Corpus.Source = override.Corpus.Source
	}
	if override.Corpus.ManifestURL != "" {
		base.Corpus.ManifestURL = override.Corpus.ManifestURL
	}
	if override.Corpus.DocumentBaseURL != "" {
		base.Corpus.DocumentBaseURL = override.Corpus.DocumentBaseURL
	}
	if override.Corpus.Dir != "" {
		base.Corpus.Dir = override.Corpus.Dir
	}
	if override.Corpus.RequestsPerSec > 0 {
		base.Corpus.RequestsPerSec = override.Corpus.RequestsPerSec
	}

	base.Feed = mergeFeed(base.Feed, override.Feed)
	base.Extract = mergeExtract(base.Extract, override.Extract)

	if override.Images.PreloadTimeoutMs > 0 {
		base.Images.PreloadTimeoutMs = override.Images.PreloadTimeoutMs
	}
	if override.Storage.LikesPath != "" {
		base.Storage.LikesPath = override.Storage.LikesPath
	}
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func mergeFeed(base, override FeedConfig) FeedConfig {
	if override.BatchSlow > 0 {
		base.BatchSlow = override.BatchSlow
	}
	if override.BatchMedium > 0 {
		base.BatchMedium = override.BatchMedium
	}
	if override.BatchFast > 0 {
		base.BatchFast = override.BatchFast
	}
	if override.SpeedMedium > 0 {
		base.SpeedMedium = override.SpeedMedium
	}
	if override.SpeedFast > 0 {
		base.SpeedFast = override.SpeedFast
	}
	if override.ReserveLowWater > 0 {
		base.ReserveLowWater = override.ReserveLowWater
	}
	if override.ReservePromote > 0 {
		base.ReservePromote = override.ReservePromote
	}
	if override.ReserveDrain > 0 {
		base.ReserveDrain = override.ReserveDrain
	}
	if override.ReserveRefillBelow > 0 {
		base.ReserveRefillBelow = override.ReserveRefillBelow
	}
	if override.MaxDisplayed > 0 {
		base.MaxDisplayed = override.MaxDisplayed
	}
	if override.RetainDisplayed > 0 {
		base.RetainDisplayed = override.RetainDisplayed
	}
	if override.MaxExcluded > 0 {
		base.MaxExcluded = override.MaxExcluded
	}
	if override.RetainExcluded > 0 {
		base.RetainExcluded = override.RetainExcluded
	}
	if override.DebounceMs > 0 {
		base.DebounceMs = override.DebounceMs
	}
	if override.MarkUnusableShown {
		base.MarkUnusableShown = true
	}
	return base
}

func mergeExtract(base, override ExtractConfig) ExtractConfig {
	if override.MinBlockLen > 0 {
		base.MinBlockLen = override.MinBlockLen
	}
	if override.MaxBlocks > 0 {
		base.MaxBlocks = override.MaxBlocks
	}
	if override.MinExtractLen > 0 {
		base.MinExtractLen = override.MinExtractLen
	}
	if override.MaxExtractLen > 0 {
		base.MaxExtractLen = override.MaxExtractLen
	}
	if override.PageURLPrefix != "" {
		base.PageURLPrefix = override.PageURLPrefix
	}
	if override.IDPrefix != "" {
		base.IDPrefix = override.IDPrefix
	}
	if override.PlaceholderBase != "" {
		base.PlaceholderBase = override.PlaceholderBase
	}
	if override.ThumbWidth > 0 {
		base.ThumbWidth = override.ThumbWidth
	}
	if override.ThumbHeight > 0 {
		base.ThumbHeight = override.ThumbHeight
	}
	return base
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Corpus: CorpusConfig{
			Source:          "dir",
			ManifestURL:     "http://localhost:8081/data/files.json",
			DocumentBaseURL: "http://localhost:8081/data",
			Dir:             "./data",
			RequestsPerSec:  20,
		},
		Feed: FeedConfig{
			BatchSlow:          30,
			BatchMedium:        40,
			BatchFast:          50,
			SpeedMedium:        1.0,
			SpeedFast:          2.0,
			ReserveLowWater:    10,
			ReservePromote:     20,
			ReserveDrain:       25,
			ReserveRefillBelow: 15,
			MaxDisplayed:       200,
			RetainDisplayed:    150,
			MaxExcluded:        1000,
			RetainExcluded:     750,
			DebounceMs:         300,
			MarkUnusableShown:  false,
		},
		Extract: ExtractConfig{
			MinBlockLen:     50,
			MaxBlocks:       3,
			MinExtractLen:   80,
			MaxExtractLen:   600,
			PageURLPrefix:   "https://example.org/page/",
			IDPrefix:        "",
			PlaceholderBase: "https://picsum.photos",
			ThumbWidth:      800,
			ThumbHeight:     600,
		},
		Images:  ImageConfig{PreloadTimeoutMs: 3000},
		Storage: StorageConfig{LikesPath: "./data/likes.db"},
		Logging: LoggingConfig{Level: "info"},
	}
}
