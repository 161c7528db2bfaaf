package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/BradenHooton/solutionshub/internal/models"
	"github.com/BradenHooton/solutionshub/internal/services"
	"github.com/go-chi/chi/v5"
)

// ProjectService defines the catalog operations used by the HTTP layer
type ProjectService interface {
	GetAllProjects(ctx context.Context) ([]*models.Project, error)
	GetProjectByID(ctx context.Context, id int) (*models.Project, error)
	GetProjectsBySector(ctx context.Context, term string) ([]*models.Project, error)
	GetAllSectors(ctx context.Context) ([]*models.Sector, error)
	AddProject(ctx context.Context, p *models.Project) (*models.Project, error)
	EditProject(ctx context.Context, id int, p *models.Project) error
	DeleteProject(ctx context.Context, id int) error
}

type ProjectHandler struct {
	renderer *Renderer
	service  ProjectService
	logger   *slog.Logger
}

func NewProjectHandler(renderer *Renderer, service ProjectService, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{renderer: renderer, service: service, logger: logger}
}

// fail logs err and renders the 500 page with message.
func (h *ProjectHandler) fail(w http.ResponseWriter, r *http.Request, message string, err error) {
	h.logger.Error("catalog request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err))
	h.renderer.ServerError(w, r, message)
}

func operationFailed(err error) string {
	return fmt.Sprintf("We're sorry, but an error occurred: %v", err)
}

// List handles GET /solutions/projects, optionally filtered by ?sector=.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	sector := r.URL.Query().Get("sector")

	var (
		projects []*models.Project
		err      error
	)
	if sector != "" {
		projects, err = h.service.GetProjectsBySector(r.Context(), sector)
	} else {
		projects, err = h.service.GetAllProjects(r.Context())
	}

	if err != nil {
		if errors.Is(err, services.ErrProjectsNotFound) {
			h.renderer.NotFound(w, r, fmt.Sprintf("No projects found for sector: %s", sector))
			return
		}
		h.fail(w, r, msgServerError, err)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, "projects", PageData{
		Projects:      projects,
		ShowSearchBar: true,
		Query:         sector,
	})
}

// Show handles GET /solutions/projects/{id}.
func (h *ProjectHandler) Show(w http.ResponseWriter, r *http.Request) {
	project, ok := h.loadProject(w, r)
	if !ok {
		return
	}
	h.renderer.Render(w, r, http.StatusOK, "project", PageData{Project: project})
}

func (h *ProjectHandler) AddForm(w http.ResponseWriter, r *http.Request) {
	sectors, err := h.service.GetAllSectors(r.Context())
	if err != nil {
		h.fail(w, r, msgServerError, err)
		return
	}
	h.renderer.Render(w, r, http.StatusOK, "addProject", PageData{Sectors: sectors})
}

func (h *ProjectHandler) Add(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.Render(w, r, http.StatusBadRequest, "500", PageData{Message: operationFailed(err)})
		return
	}

	form := parseProjectForm(r.PostForm)
	if err := ValidateRequest(form); err != nil {
		h.rerenderForm(w, r, "addProject", form, err)
		return
	}

	if _, err := h.service.AddProject(r.Context(), form.toModel()); err != nil {
		h.fail(w, r, operationFailed(err), err)
		return
	}

	http.Redirect(w, r, "/solutions/projects", http.StatusSeeOther)
}

func (h *ProjectHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	project, ok := h.loadProject(w, r)
	if !ok {
		return
	}

	sectors, err := h.service.GetAllSectors(r.Context())
	if err != nil {
		h.fail(w, r, msgServerError, err)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, "editProject", PageData{Project: project, Sectors: sectors})
}

// Edit handles POST /solutions/editProject; the project id travels in the form body.
func (h *ProjectHandler) Edit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.Render(w, r, http.StatusBadRequest, "500", PageData{Message: operationFailed(err)})
		return
	}

	form := parseProjectForm(r.PostForm)
	if form.ID <= 0 {
		h.renderer.NotFound(w, r, services.MsgProjectNotFound)
		return
	}
	if err := ValidateRequest(form); err != nil {
		h.rerenderForm(w, r, "editProject", form, err)
		return
	}

	if err := h.service.EditProject(r.Context(), form.ID, form.toModel()); err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			h.renderer.NotFound(w, r, services.MsgProjectNotFound)
			return
		}
		h.fail(w, r, operationFailed(err), err)
		return
	}

	http.Redirect(w, r, "/solutions/projects", http.StatusSeeOther)
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.renderer.NotFound(w, r, services.MsgProjectNotFound)
		return
	}

	if err := h.service.DeleteProject(r.Context(), id); err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			h.renderer.NotFound(w, r, services.MsgProjectNotFound)
			return
		}
		h.fail(w, r, operationFailed(err), err)
		return
	}

	http.Redirect(w, r, "/solutions/projects", http.StatusSeeOther)
}

func (h *ProjectHandler) loadProject(w http.ResponseWriter, r *http.Request) (*models.Project, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.renderer.NotFound(w, r, services.MsgProjectNotFound)
		return nil, false
	}

	project, err := h.service.GetProjectByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			h.renderer.NotFound(w, r, services.MsgProjectNotFound)
			return nil, false
		}
		h.fail(w, r, msgServerError, err)
		return nil, false
	}

	return project, true
}

func (h *ProjectHandler) rerenderForm(w http.ResponseWriter, r *http.Request, page string, form ProjectForm, formErr error) {
	sectors, err := h.service.GetAllSectors(r.Context())
	if err != nil {
		h.fail(w, r, msgServerError, err)
		return
	}

	h.renderer.Render(w, r, http.StatusBadRequest, page, PageData{
		Project:      form.toModel(),
		Sectors:      sectors,
		ErrorMessage: formErr.Error(),
	})
}
