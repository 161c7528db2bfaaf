package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/BradenHooton/solutionshub/internal/auth"
	"github.com/BradenHooton/solutionshub/internal/models"
	"github.com/BradenHooton/solutionshub/internal/services"
	"github.com/BradenHooton/solutionshub/web"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

// MockAuthService implements AuthService for testing
type MockAuthService struct {
	RegisterUserFunc func(ctx context.Context, in services.RegisterInput) error
	CheckUserFunc    func(ctx context.Context, in services.LoginInput) (*models.UserAccount, error)
}

func (m *MockAuthService) RegisterUser(ctx context.Context, in services.RegisterInput) error {
	if m.RegisterUserFunc != nil {
		return m.RegisterUserFunc(ctx, in)
	}
	return nil
}

func (m *MockAuthService) CheckUser(ctx context.Context, in services.LoginInput) (*models.UserAccount, error) {
	if m.CheckUserFunc != nil {
		return m.CheckUserFunc(ctx, in)
	}
	return nil, models.NewAuthError(models.ErrUserNotFound, nil, "Unable to find user: %s", in.UserName)
}

// MockProjectService implements ProjectService for testing
type MockProjectService struct {
	GetAllProjectsFunc      func(ctx context.Context) ([]*models.Project, error)
	GetProjectByIDFunc      func(ctx context.Context, id int) (*models.Project, error)
	GetProjectsBySectorFunc func(ctx context.Context, term string) ([]*models.Project, error)
	GetAllSectorsFunc       func(ctx context.Context) ([]*models.Sector, error)
	AddProjectFunc          func(ctx context.Context, p *models.Project) (*models.Project, error)
	EditProjectFunc         func(ctx context.Context, id int, p *models.Project) error
	DeleteProjectFunc       func(ctx context.Context, id int) error
}

func (m *MockProjectService) GetAllProjects(ctx context.Context) ([]*models.Project, error) {
	if m.GetAllProjectsFunc != nil {
		return m.GetAllProjectsFunc(ctx)
	}
	return []*models.Project{}, nil
}

func (m *MockProjectService) GetProjectByID(ctx context.Context, id int) (*models.Project, error) {
	if m.GetProjectByIDFunc != nil {
		return m.GetProjectByIDFunc(ctx, id)
	}
	return nil, services.ErrProjectNotFound
}

func (m *MockProjectService) GetProjectsBySector(ctx context.Context, term string) ([]*models.Project, error) {
	if m.GetProjectsBySectorFunc != nil {
		return m.GetProjectsBySectorFunc(ctx, term)
	}
	return nil, services.ErrProjectsNotFound
}

func (m *MockProjectService) GetAllSectors(ctx context.Context) ([]*models.Sector, error) {
	if m.GetAllSectorsFunc != nil {
		return m.GetAllSectorsFunc(ctx)
	}
	return []*models.Sector{{ID: 1, SectorName: "Electricity"}, {ID: 2, SectorName: "Industry"}}, nil
}

func (m *MockProjectService) AddProject(ctx context.Context, p *models.Project) (*models.Project, error) {
	if m.AddProjectFunc != nil {
		return m.AddProjectFunc(ctx, p)
	}
	p.ID = 1
	return p, nil
}

func (m *MockProjectService) EditProject(ctx context.Context, id int, p *models.Project) error {
	if m.EditProjectFunc != nil {
		return m.EditProjectFunc(ctx, id, p)
	}
	return nil
}

func (m *MockProjectService) DeleteProject(ctx context.Context, id int) error {
	if m.DeleteProjectFunc != nil {
		return m.DeleteProjectFunc(ctx, id)
	}
	return nil
}

type mockHealthChecker struct {
	err error
}

func (m mockHealthChecker) HealthCheck(ctx context.Context) error {
	return m.err
}

// testApp wires the handlers onto a chi router with session loading, mirroring the
// production route table without CSRF.
type testApp struct {
	router   chi.Router
	sessions *auth.SessionManager
}

func newTestApp(t *testing.T, authSvc AuthService, projectSvc ProjectService, db HealthChecker) *testApp {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	renderer, err := NewRenderer(web.FS, logger)
	require.NoError(t, err)

	sessions := auth.NewSessionManager(auth.SessionConfig{
		Secret:         "test-secret-32-characters-long!!",
		Duration:       2 * time.Minute,
		ActiveDuration: time.Minute,
	})

	pages := NewPageHandler(renderer, projectSvc, db, logger)
	projects := NewProjectHandler(renderer, projectSvc, logger)
	authHandler := NewAuthHandler(renderer, authSvc, sessions, nil, logger)

	r := chi.NewRouter()
	r.Get("/health", pages.Health)
	r.Group(func(r chi.Router) {
		r.Use(auth.LoadSession(sessions, logger))
		r.Get("/", pages.Home)
		r.Get("/about", pages.About)
		r.Get("/500", pages.ServerError)
		r.Get("/solutions/projects", projects.List)
		r.Get("/solutions/projects/{id}", projects.Show)
		r.Get("/login", authHandler.LoginForm)
		r.Post("/login", authHandler.Login)
		r.Get("/register", authHandler.RegisterForm)
		r.Post("/register", authHandler.Register)
		r.Get("/logout", authHandler.Logout)
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireLogin("/login"))
			r.Get("/solutions/addProject", projects.AddForm)
			r.Post("/solutions/addProject", projects.Add)
			r.Get("/solutions/editProject/{id}", projects.EditForm)
			r.Post("/solutions/editProject", projects.Edit)
			r.Get("/solutions/deleteProject/{id}", projects.Delete)
			r.Get("/userHistory", authHandler.UserHistory)
		})
		r.NotFound(pages.NotFound)
	})

	return &testApp{router: r, sessions: sessions}
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) get(target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return a.do(req)
}

func (a *testApp) postForm(target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "handler-test/1.0")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return a.do(req)
}

// loginCookie issues a session for userName and returns its cookie.
func (a *testApp) loginCookie(t *testing.T, user auth.SessionUser) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	_, err := a.sessions.Issue(rec, user)
	require.NoError(t, err)
	return findCookie(t, rec, "session")
}

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}
