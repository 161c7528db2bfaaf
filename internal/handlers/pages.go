package handlers

import (
	"context"
	"log/slog"
	"net/http"

	pkghttp "github.com/BradenHooton/solutionshub/pkg/http"
)

const (
	msgPageNotFound = "We're sorry, the page you're looking for could not be found."
	msgServerError  = "We're sorry, there might be an issue with our servers. Please check back later."
)

// HealthChecker reports whether a backing dependency is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// PageHandler serves the static pages, error pages and the health probe.
type PageHandler struct {
	renderer *Renderer
	projects ProjectService
	db       HealthChecker
	logger   *slog.Logger
}

func NewPageHandler(renderer *Renderer, projects ProjectService, db HealthChecker, logger *slog.Logger) *PageHandler {
	return &PageHandler{renderer: renderer, projects: projects, db: db, logger: logger}
}

func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.GetAllProjects(r.Context())
	if err != nil {
		h.logger.Error("failed to load projects for home page", slog.Any("error", err))
		h.renderer.ServerError(w, r, msgServerError)
		return
	}
	h.renderer.Render(w, r, http.StatusOK, "home", PageData{Projects: projects})
}

func (h *PageHandler) About(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, "about", PageData{})
}

func (h *PageHandler) ServerError(w http.ResponseWriter, r *http.Request) {
	h.renderer.ServerError(w, r, msgServerError)
}

func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderer.NotFound(w, r, msgPageNotFound)
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func (h *PageHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.HealthCheck(r.Context()); err != nil {
		h.logger.Warn("health check failed", slog.Any("error", err))
		pkghttp.WriteServiceUnavailable(w, "database unavailable")
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok", Database: "ok"})
}
