package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"ArticleFeed/internal/config"
	"ArticleFeed/internal/corpus"
	"ArticleFeed/internal/domain"
	"ArticleFeed/internal/ports"
	"ArticleFeed/internal/sampler"
	"ArticleFeed/internal/velocity"
)

// ErrRefillInFlight is returned by Fill when another refill already holds the
// single in-flight slot.
var ErrRefillInFlight = errors.New("refill already in flight")

type refillState int

const (
	stateIdle refillState = iota
	statePending
	stateInFlight
)

// refillRequest names the pools one refill cycle should top up. When neither
// flag is set the cycle loads straight into the displayed list (warm-up and
// emergency paths).
type refillRequest struct {
	toBuffer  bool
	toReserve bool
	batchSize int
}

func (r refillRequest) merge(other refillRequest) refillRequest {
	r.toBuffer = r.toBuffer || other.toBuffer
	r.toReserve = r.toReserve || other.toReserve
	if other.batchSize > r.batchSize {
		r.batchSize = other.batchSize
	}
	return r
}

// EngineDeps wires all driven adapters into the feed-supply engine.
type EngineDeps struct {
	Corpus    corpus.Source
	Fetcher   ports.DocumentFetcher
	Extractor ports.Extractor
	Warmer    ports.ImageWarmer
	Logger    *slog.Logger
}

// Engine owns the three article pools and keeps them supplied: it samples
// unseen manifest identifiers, turns them into articles through the
// fetch/extract/warm pipeline, promotes buffered articles into the displayed
// list on demand, and evicts the oldest displayed entries to bound memory.
//
// Refills run through an explicit state machine (idle, pending, in-flight):
// at most one refill is ever in flight, a request arriving while one is in
// flight is dropped, and a request inside the debounce window is deferred on
// a single timer and coalesced with later requests rather than dropped.
type Engine struct {
	cfg     config.FeedConfig
	corpus  corpus.Source
	fetcher ports.DocumentFetcher
	parser  ports.Extractor
	warmer  ports.ImageWarmer
	logger  *slog.Logger
	tracker *velocity.Tracker

	mu          sync.Mutex
	manifest    []string
	displayed   []domain.Article
	primary     []domain.Article
	reserve     []domain.Article
	excluded    *sampler.ExclusionSet
	state       refillState
	pending     refillRequest
	timer       *time.Timer
	lastRequest time.Time
}

// NewEngine constructs the orchestration component.
func NewEngine(cfg config.FeedConfig, deps EngineDeps) *Engine {
	return &Engine{
		cfg:      cfg,
		corpus:   deps.Corpus,
		fetcher:  deps.Fetcher,
		parser:   deps.Extractor,
		warmer:   deps.Warmer,
		logger:   deps.Logger,
		tracker:  velocity.NewTracker(cfg.SpeedMedium, cfg.SpeedFast),
		excluded: sampler.NewExclusionSet(),
	}
}

// Displayed returns a snapshot of the rendered article list.
func (e *Engine) Displayed() []domain.Article {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]domain.Article(nil), e.displayed...)
}

// Loading reports whether a refill is currently in flight.
func (e *Engine) Loading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state == stateInFlight
}

// UpdateScrollSpeed feeds one scroll-position delta into the velocity tracker.
func (e *Engine) UpdateScrollSpeed(delta float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tracker.Update(delta, time.Now())
}

// GetMore promotes buffered articles into the displayed list. It drains the
// primary buffer wholesale; when the primary buffer was empty it drains a
// bounded slice of the reserve instead, and when both are empty it performs a
// synchronous emergency fill. Background refills of the buffers are scheduled
// as needed and the displayed list is evicted to its retain size afterwards.
func (e *Engine) GetMore(ctx context.Context) {
	e.mu.Lock()

	if len(e.primary) > 0 {
		e.displayed = append(e.displayed, e.primary...)
		e.primary = nil
		e.evictLocked()

		if len(e.reserve) > e.cfg.ReserveLowWater {
			n := min(e.cfg.ReservePromote, len(e.reserve))
			e.primary = append(e.primary, e.reserve[:n]...)
			e.reserve = append([]domain.Article(nil), e.reserve[n:]...)
			e.mu.Unlock()
			return
		}

		e.mu.Unlock()
		e.scheduleRefill(refillRequest{toBuffer: true, toReserve: true})
		return
	}

	if len(e.reserve) > 0 {
		n := min(e.cfg.ReserveDrain, len(e.reserve))
		e.displayed = append(e.displayed, e.reserve[:n]...)
		e.reserve = append([]domain.Article(nil), e.reserve[n:]...)
		e.evictLocked()
		e.mu.Unlock()
		e.scheduleRefill(refillRequest{toBuffer: true, toReserve: true})
		return
	}

	e.mu.Unlock()

	// Both pools empty: the feed would visibly stall, so fill the displayed
	// list synchronously.
	if err := e.Fill(ctx, false, false, 0); err != nil {
		e.warn("emergency fill skipped", "error", err)
	}
}

// Fill is the raw refill escape hatch: it loads one batch synchronously into
// the primary buffer, the reserve buffer, or (when both flags are false) the
// displayed list. Explicitly targeted fills bypass the debounce window that
// ordinary refill requests go through; batchSize zero means "size by current
// velocity tier". Used for initial warm-up sequencing.
func (e *Engine) Fill(ctx context.Context, toBuffer, toReserve bool, batchSize int) error {
	req := refillRequest{toBuffer: toBuffer, toReserve: toReserve, batchSize: batchSize}

	e.mu.Lock()
	if e.state == stateInFlight {
		e.mu.Unlock()
		return ErrRefillInFlight
	}
	if e.state == statePending && e.timer != nil {
		e.timer.Stop()
		req = req.merge(e.pending)
	}
	e.state = stateInFlight
	e.lastRequest = time.Now()
	e.mu.Unlock()

	e.runRefill(ctx, req)
	return nil
}

// scheduleRefill is the ordinary, debounced entry into the refill state
// machine. Requests while in flight are dropped; requests inside the debounce
// window are deferred on a single timer, coalescing with anything already
// pending.
func (e *Engine) scheduleRefill(req refillRequest) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case stateInFlight:
		return
	case statePending:
		e.pending = e.pending.merge(req)
		return
	}

	debounce := time.Duration(e.cfg.DebounceMs) * time.Millisecond
	if remaining := debounce - time.Since(e.lastRequest); remaining > 0 {
		e.state = statePending
		e.pending = req
		e.timer = time.AfterFunc(remaining, e.firePending)
		return
	}

	e.beginLocked(req)
}

func (e *Engine) firePending() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != statePending {
		return
	}
	e.beginLocked(e.pending)
}

// beginLocked transitions to in-flight and launches the refill goroutine.
// Callers must hold e.mu.
func (e *Engine) beginLocked(req refillRequest) {
	e.state = stateInFlight
	e.lastRequest = time.Now()
	e.timer = nil
	go e.runRefill(context.Background(), req)
}

func (e *Engine) runRefill(ctx context.Context, req refillRequest) {
	defer func() {
		e.mu.Lock()
		e.state = stateIdle
		e.timer = nil
		e.mu.Unlock()
	}()

	e.fillCycle(ctx, req)
}

// fillCycle executes one sample/fetch/extract/warm pass. All identifiers are
// sampled before the first fetch begins; a failed document yields nothing for
// this cycle and stays eligible for a later sample.
func (e *Engine) fillCycle(ctx context.Context, req refillRequest) {
	batch := req.batchSize
	if batch <= 0 {
		batch = e.batchSize()
	}

	manifest, err := e.ensureManifest(ctx)
	if err != nil {
		e.warn("manifest unavailable, feeding placeholder", "error", err)
		e.mu.Lock()
		if len(e.displayed) == 0 {
			e.displayed = append(e.displayed, e.placeholderArticle())
		}
		e.mu.Unlock()
		return
	}

	if req.toBuffer {
		e.appendPrimary(e.loadArticles(ctx, manifest, batch))
		// A primary-targeted cycle also tops up the reserve when it sits
		// below the refill mark.
		if !req.toReserve && e.cfg.ReserveRefillBelow > 0 && e.reserveDepth() < e.cfg.ReserveRefillBelow {
			req.toReserve = true
		}
	}
	if req.toReserve {
		e.appendReserve(e.loadArticles(ctx, manifest, max(batch/2, 1)))
	}
	if !req.toBuffer && !req.toReserve {
		e.appendDisplayed(e.loadArticles(ctx, manifest, batch))
	}
}

// loadArticles samples a batch of unseen identifiers and pushes each through
// fetch, extraction, and thumbnail warm-up. Identifiers are marked shown only
// once a usable article exists for them. Thumbnails are warmed concurrently
// after the batch is assembled; warm-up failures are swallowed.
func (e *Engine) loadArticles(ctx context.Context, manifest []string, batch int) []domain.Article {
	e.mu.Lock()
	ids := sampler.Sample(manifest, e.excluded, batch)
	e.mu.Unlock()

	articles := make([]domain.Article, 0, len(ids))
	for _, id := range ids {
		raw, err := e.fetcher.Fetch(ctx, id)
		if err != nil {
			e.warn("skipping document", "id", id, "error", err)
			continue
		}

		article, err := e.parser.Parse(raw, id)
		if err != nil {
			if errors.Is(err, ports.ErrUnusableContent) {
				e.debug("unusable document", "id", id)
				if e.cfg.MarkUnusableShown {
					e.markShown(id)
				}
				continue
			}
			e.warn("extraction failed", "id", id, "error", err)
			continue
		}

		articles = append(articles, *article)
		e.markShown(id)
	}

	var wg sync.WaitGroup
	for _, article := range articles {
		if article.Thumbnail == nil {
			continue
		}
		wg.Add(1)
		go func(url string) {
			defer wg.Done()
			if err := e.warmer.Warm(ctx, url); err != nil {
				e.debug("image warm-up incomplete", "url", url, "error", err)
			}
		}(article.Thumbnail.Source)
	}
	wg.Wait()

	return articles
}

func (e *Engine) ensureManifest(ctx context.Context) ([]string, error) {
	e.mu.Lock()
	if e.manifest != nil {
		manifest := e.manifest
		e.mu.Unlock()
		return manifest, nil
	}
	e.mu.Unlock()

	ids, err := e.corpus.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}

	e.mu.Lock()
	e.manifest = ids
	e.mu.Unlock()
	e.debug("manifest loaded", "documents", len(ids))
	return ids, nil
}

func (e *Engine) markShown(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.excluded.Add(id)
	if e.cfg.MaxExcluded > 0 && e.excluded.Len() > e.cfg.MaxExcluded {
		e.excluded.Truncate(e.cfg.RetainExcluded)
	}
}

func (e *Engine) appendDisplayed(articles []domain.Article) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.displayed = append(e.displayed, articles...)
	e.evictLocked()
}

func (e *Engine) reserveDepth() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.reserve)
}

func (e *Engine) appendPrimary(articles []domain.Article) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.primary = append(e.primary, articles...)
}

func (e *Engine) appendReserve(articles []domain.Article) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reserve = append(e.reserve, articles...)
}

// evictLocked trims the displayed list from the front once it exceeds the
// configured cap. Callers must hold e.mu.
func (e *Engine) evictLocked() {
	if e.cfg.MaxDisplayed <= 0 || len(e.displayed) <= e.cfg.MaxDisplayed {
		return
	}
	retain := e.cfg.RetainDisplayed
	if retain <= 0 || retain > e.cfg.MaxDisplayed {
		retain = e.cfg.MaxDisplayed
	}
	e.displayed = append([]domain.Article(nil), e.displayed[len(e.displayed)-retain:]...)
}

func (e *Engine) batchSize() int {
	e.mu.Lock()
	tier := e.tracker.Classify()
	e.mu.Unlock()

	switch tier {
	case velocity.TierFast:
		return e.cfg.BatchFast
	case velocity.TierMedium:
		return e.cfg.BatchMedium
	default:
		return e.cfg.BatchSlow
	}
}

// placeholderArticle keeps the feed non-empty when the manifest itself cannot
// be loaded.
func (e *Engine) placeholderArticle() domain.Article {
	return domain.Article{
		ID:      "placeholder",
		Title:   "Sample Article",
		Extract: "The article feed is warming up. Content will appear here as soon as the corpus becomes reachable again.",
		URL:     "",
		PageID:  rand.Int63(),
		Thumbnail: &domain.Thumbnail{
			Source: "https://picsum.photos/800/600?random=1",
			Width:  800,
			Height: 600,
		},
	}
}

func (e *Engine) warn(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}

func (e *Engine) debug(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}
