package extract

import (
	"bytes"
	"fmt"
	"math/rand"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"ArticleFeed/internal/config"
	"ArticleFeed/internal/domain"
	"ArticleFeed/internal/ports"
)

// contentSelectors are tried in order, most specific first; the first
// selector producing at least one candidate block wins.
var contentSelectors = []string{
	`span[class*="content"]`,
	"article p",
	"p",
	"main, div.content, #content",
	"article",
}

// Extractor parses raw corpus markup into Article records using a cascade of
// structural selectors plus content-quality filtering.
type Extractor struct {
	cfg config.ExtractConfig
}

var _ ports.Extractor = (*Extractor)(nil)

// NewExtractor applies threshold defaults for any unset config values.
func NewExtractor(cfg config.ExtractConfig) *Extractor {
	if cfg.MinBlockLen <= 0 {
		cfg.MinBlockLen = 50
	}
	if cfg.MaxBlocks <= 0 {
		cfg.MaxBlocks = 3
	}
	if cfg.MinExtractLen <= 0 {
		cfg.MinExtractLen = 80
	}
	if cfg.MaxExtractLen <= 0 {
		cfg.MaxExtractLen = 600
	}
	if cfg.PlaceholderBase == "" {
		cfg.PlaceholderBase = "https://picsum.photos"
	}
	if cfg.ThumbWidth <= 0 {
		cfg.ThumbWidth = 800
	}
	if cfg.ThumbHeight <= 0 {
		cfg.ThumbHeight = 600
	}
	return &Extractor{cfg: cfg}
}

// Parse extracts a structured Article from raw markup, or reports
// ports.ErrUnusableContent when no qualifying extract can be produced. Title and
// extract are deterministic for a given document; the PageID render key and
// thumbnail seed are freshly randomized on every call.
func (e *Extractor) Parse(raw []byte, id string) (*domain.Article, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse markup %s: %w", id, ports.ErrUnusableContent)
	}

	extract := e.collectExtract(doc)
	if extract == "" {
		extract = normalizeText(doc.Find(`meta[name="description"]`).AttrOr("content", ""))
	}
	if len(extract) < e.cfg.MinExtractLen {
		return nil, ports.ErrUnusableContent
	}
	extract = truncate(extract, e.cfg.MaxExtractLen)

	title := normalizeText(doc.Find("h1").First().Text())
	if title == "" {
		title = humanize(e.slug(id))
	}

	return &domain.Article{
		ID:      id,
		Title:   title,
		Extract: extract,
		URL:     e.cfg.PageURLPrefix + e.slug(id),
		PageID:  rand.Int63(),
		Thumbnail: &domain.Thumbnail{
			Source: fmt.Sprintf("%s/%d/%d?random=%d",
				e.cfg.PlaceholderBase, e.cfg.ThumbWidth, e.cfg.ThumbHeight, rand.Intn(1000)),
			Width:  e.cfg.ThumbWidth,
			Height: e.cfg.ThumbHeight,
		},
	}, nil
}

func (e *Extractor) collectExtract(doc *goquery.Document) string {
	for _, selector := range contentSelectors {
		candidates := doc.Find(selector)
		if candidates.Length() == 0 {
			continue
		}

		var blocks []string
		candidates.EachWithBreak(func(i int, sel *goquery.Selection) bool {
			text := normalizeText(sel.Text())
			if len(text) < e.cfg.MinBlockLen || looksLikeLink(text) {
				return true
			}
			blocks = append(blocks, text)
			return len(blocks) < e.cfg.MaxBlocks
		})

		// The cascade stops at the first selector that matched anything,
		// even when none of its blocks qualified.
		return strings.Join(blocks, " ")
	}
	return ""
}

func (e *Extractor) slug(id string) string {
	slug := strings.TrimPrefix(id, e.cfg.IDPrefix)
	slug = strings.TrimSuffix(slug, ".html")
	slug = strings.TrimSuffix(slug, ".htm")
	return slug
}

// normalizeText collapses all whitespace runs to single spaces.
func normalizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// looksLikeLink filters blocks that are raw URLs or addresses rather than prose.
func looksLikeLink(text string) bool {
	if strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://") || strings.HasPrefix(text, "www.") {
		return true
	}
	return !strings.Contains(text, " ") && (strings.Contains(text, "://") || strings.Contains(text, "@"))
}

func humanize(slug string) string {
	return strings.TrimSpace(strings.ReplaceAll(slug, "_", " "))
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return strings.TrimSpace(string(runes[:limit])) + "…"
}
