package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"ArticleFeed/internal/config"
	"ArticleFeed/internal/corpus"
	"ArticleFeed/internal/httpapi"
	infracorpus "ArticleFeed/internal/infrastructure/corpus"
	"ArticleFeed/internal/infrastructure/extract"
	"ArticleFeed/internal/infrastructure/fetch"
	"ArticleFeed/internal/infrastructure/preload"
	"ArticleFeed/internal/infrastructure/storage"
	"ArticleFeed/internal/logging"
	"ArticleFeed/internal/ports"
	"ArticleFeed/internal/usecase"
)

// Application wires configs to the feed engine, storage, and HTTP surface.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
	engine *usecase.Engine
	likes  *storage.SQLiteRepository
	server *http.Server
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	registry := corpus.NewRegistry()
	registry.Register(infracorpus.NewHTTPSource(
		cfg.Corpus.ManifestURL, cfg.Corpus.DocumentBaseURL, cfg.Corpus.RequestsPerSec, nil))
	registry.Register(infracorpus.NewDirSource(cfg.Corpus.Dir))

	source, err := registry.Resolve(cfg.Corpus.Source)
	if err != nil {
		return nil, fmt.Errorf("configure corpus: %w", err)
	}

	fetcher := fetch.NewFetcher(source, fetch.NewCache(), baseLogger.With("component", "fetcher"))
	extractor := extract.NewExtractor(cfg.Extract)
	warmer := preload.NewWarmer(time.Duration(cfg.Images.PreloadTimeoutMs)*time.Millisecond, nil)

	engine := usecase.NewEngine(cfg.Feed, usecase.EngineDeps{
		Corpus:    source,
		Fetcher:   fetcher,
		Extractor: extractor,
		Warmer:    warmer,
		Logger:    baseLogger.With("component", "engine"),
	})

	var likes *storage.SQLiteRepository
	if cfg.Storage.LikesPath != "" {
		likes, err = storage.NewSQLiteRepository(cfg.Storage.LikesPath)
		if err != nil {
			return nil, fmt.Errorf("open likes storage: %w", err)
		}
	}

	var likesPort ports.LikeRepository
	if likes != nil {
		likesPort = likes
	}
	router := httpapi.NewRouter(engine, likesPort, baseLogger.With("component", "httpapi"))

	return &Application{
		cfg:    cfg,
		logger: baseLogger,
		engine: engine,
		likes:  likes,
		server: &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           router.Setup(cfg.Server.AllowedOrigins),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

// Run warms up the feed pools and serves HTTP until the context is cancelled.
func (a *Application) Run(ctx context.Context) error {
	a.warmup(ctx)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("listening", "addr", a.cfg.Server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := a.server.Shutdown(shutdownCtx)
	a.close()
	return err
}

// warmup sequences the initial fills through the raw escape hatch: the
// displayed list first so the first paint has content, then the primary
// buffer, then the reserve. Failures are non-fatal; the engine's own refill
// paths recover once traffic arrives.
func (a *Application) warmup(ctx context.Context) {
	for _, fill := range []struct {
		toBuffer  bool
		toReserve bool
	}{
		{false, false},
		{true, false},
		{false, true},
	} {
		if err := a.engine.Fill(ctx, fill.toBuffer, fill.toReserve, 0); err != nil {
			a.logger.Warn("warm-up fill skipped", "error", err)
		}
	}
	a.logger.Info("feed warmed up", "displayed", len(a.engine.Displayed()))
}

func (a *Application) close() {
	if a.likes != nil {
		if err := a.likes.Close(); err != nil {
			a.logger.Warn("close likes storage", "error", err)
		}
	}
}
