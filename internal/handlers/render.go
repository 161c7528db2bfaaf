package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/BradenHooton/solutionshub/internal/auth"
	"github.com/BradenHooton/solutionshub/internal/middleware"
	"github.com/BradenHooton/solutionshub/internal/models"
)

var pageNames = []string{
	"home", "about", "projects", "project", "addProject", "editProject",
	"login", "register", "userHistory", "404", "500",
}

// PageData is the view model shared by every template. Session and CSRFToken are
// filled in by Render from the request context.
type PageData struct {
	Session        *auth.SessionUser
	CSRFToken      string
	ShowSearchBar  bool
	Query          string
	Message        string
	ErrorMessage   string
	SuccessMessage string
	UserName       string
	Projects       []*models.Project
	Project        *models.Project
	Sectors        []*models.Sector
}

// Renderer executes the layout with a page's content block.
type Renderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

var templateFuncs = template.FuncMap{
	"formatTime": func(t time.Time) string {
		return t.Local().Format("Mon Jan 2 2006 15:04:05 MST")
	},
}

func NewRenderer(fsys fs.FS, logger *slog.Logger) (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New(name).Funcs(templateFuncs).ParseFS(fsys,
			"templates/layout.html",
			"templates/partials.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages, logger: logger}, nil
}

// Render writes page with status. Output is buffered so a template error still yields
// a clean 500.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, page string, data PageData) {
	tmpl, ok := rd.pages[page]
	if !ok {
		rd.logger.Error("unknown template", slog.String("page", page))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	data.Session = auth.UserFromContext(r.Context())
	data.CSRFToken = middleware.CSRFToken(r.Context())

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		rd.logger.Error("failed to render template", slog.String("page", page), slog.Any("error", err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (rd *Renderer) NotFound(w http.ResponseWriter, r *http.Request, message string) {
	rd.Render(w, r, http.StatusNotFound, "404", PageData{Message: message})
}

func (rd *Renderer) ServerError(w http.ResponseWriter, r *http.Request, message string) {
	rd.Render(w, r, http.StatusInternalServerError, "500", PageData{Message: message})
}
