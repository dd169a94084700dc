package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"ArticleFeed/internal/ports"
	"ArticleFeed/internal/usecase"
)

// Router exposes the feed engine and likes store over a small JSON API
// consumed by the browser front end.
type Router struct {
	engine *usecase.Engine
	likes  ports.LikeRepository
	logger *slog.Logger
}

// NewRouter creates a new router instance. The likes repository may be nil,
// in which case the likes endpoints respond 503.
func NewRouter(engine *usecase.Engine, likes ports.LikeRepository, logger *slog.Logger) *Router {
	return &Router{engine: engine, likes: likes, logger: logger}
}

// Setup configures all routes and middleware.
func (rt *Router) Setup(allowedOrigins []string) http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(requestLogger(rt.logger))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	router.Get("/healthz", rt.healthCheck)

	router.Route("/api", func(r chi.Router) {
		r.Route("/feed", func(r chi.Router) {
			r.Get("/", rt.getFeed)
			r.Post("/more", rt.moreFeed)
			r.Post("/scroll", rt.recordScroll)
		})
		r.Route("/likes", func(r chi.Router) {
			r.Get("/", rt.listLikes)
			r.Post("/", rt.saveLike)
			r.Delete("/{likeID}", rt.deleteLike)
		})
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requestLogger logs each request with latency and status.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if logger == nil {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", chimiddleware.GetReqID(r.Context()),
			)
		})
	}
}
