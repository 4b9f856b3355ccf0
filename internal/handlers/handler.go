package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/vaughan-dsouza/postboard/internal/middleware"
	"github.com/vaughan-dsouza/postboard/internal/utils"
	"github.com/vaughan-dsouza/postboard/internal/views"
)

type Handler struct {
	API   views.PostsAPI
	Pages *PageHandler
	log   *slog.Logger
}

// NewHandler wires the handlers to api. A nil logger means slog.Default().
func NewHandler(api views.PostsAPI, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		API:   api,
		Pages: NewPageHandler(api, logger),
		log:   logger,
	}
}

// Routes builds the frontend router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(h.log))
	r.Use(chimw.Recoverer)

	r.Get("/healthz", h.Health)

	r.Get("/", h.Pages.Home)
	r.Post("/", h.Pages.CreatePost)

	return r
}

// Health reports that the frontend is up. It does not probe the API.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
