// internal/api/handler.go
package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	custom_errors "github-story/internal/errors"
	"github-story/internal/metrics"
	"github-story/internal/story"
)

// Options tunes the router.
type Options struct {
	RequestTimeout time.Duration
	AllowedOrigins []string
}

// Handler is the container for API dependencies.
type Handler struct {
	stories story.Fetcher
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewRouter creates and configures a new chi router with all API routes.
func NewRouter(stories story.Fetcher, m *metrics.Metrics, logger *slog.Logger, opts Options) http.Handler {
	h := &Handler{
		stories: stories,
		metrics: m,
		logger:  logger,
	}

	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger) // Chi's default logger
	r.Use(middleware.Recoverer)
	r.Use(m.Middleware)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	}).Handler)
	if opts.RequestTimeout > 0 {
		r.Use(middleware.Timeout(opts.RequestTimeout))
	}

	r.Get("/health", h.healthCheck)
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/api/github", func(r chi.Router) {
		r.Get("/", h.getStory)
		r.Get("/{username}", h.getStory)
	})

	return r
}

// healthCheck is a simple health endpoint.
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// getStory handles the request to build a story for a GitHub user.
// GET /api/github/{username}
func (h *Handler) getStory(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(chi.URLParam(r, "username"))
	if username == "" {
		err := custom_errors.NewMissingUsername()
		h.metrics.ObserveStory(err)
		respondWithError(w, err.Kind.StatusCode(), err.Message)
		return
	}

	s, err := h.stories.Fetch(r.Context(), username)
	h.metrics.ObserveStory(err)
	if err != nil {
		h.respondWithFetchError(w, r, username, err)
		return
	}

	respondWithJSON(w, http.StatusOK, s)
}

func (h *Handler) respondWithFetchError(w http.ResponseWriter, r *http.Request, username string, err error) {
	kind := custom_errors.KindOf(err)
	logger := h.logger.With(
		"username", username,
		"kind", kind.String(),
		"request_id", middleware.GetReqID(r.Context()),
	)
	if kind == custom_errors.Unknown {
		logger.Error("Failed to build story", "error", err)
	} else {
		logger.Warn("Story request rejected", "error", err)
	}

	respondWithError(w, kind.StatusCode(), custom_errors.MessageOf(err))
}
