package routes

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/BradenHooton/solutionshub/internal/auth"
	"github.com/BradenHooton/solutionshub/internal/handlers"
	"github.com/BradenHooton/solutionshub/internal/middleware"
	"github.com/go-chi/chi/v5"
)

type Dependencies struct {
	Pages    *handlers.PageHandler
	Projects *handlers.ProjectHandler
	Auth     *handlers.AuthHandler
	Sessions *auth.SessionManager
	Cookies  auth.CookieConfig
	Static   fs.FS
	Logger   *slog.Logger
}

// RegisterRoutes registers all application routes
func RegisterRoutes(router chi.Router, d Dependencies) {
	// Probes and assets skip sessions and CSRF
	router.Get("/health", d.Pages.Health)
	router.Handle("/static/*", http.FileServerFS(d.Static))

	pageMiddleware := chi.Chain(
		middleware.CSRFProtection(d.Cookies, d.Logger),
		auth.LoadSession(d.Sessions, d.Logger),
	)

	router.Group(func(r chi.Router) {
		r.Use(pageMiddleware...)

		r.Get("/", d.Pages.Home)
		r.Get("/about", d.Pages.About)
		r.Get("/500", d.Pages.ServerError)

		r.Get("/solutions/projects", d.Projects.List)
		r.Get("/solutions/projects/{id}", d.Projects.Show)

		r.Get("/login", d.Auth.LoginForm)
		r.Post("/login", d.Auth.Login)
		r.Get("/register", d.Auth.RegisterForm)
		r.Post("/register", d.Auth.Register)
		r.Get("/logout", d.Auth.Logout)

		// Signed-in users only
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireLogin("/login"))

			r.Get("/solutions/addProject", d.Projects.AddForm)
			r.Post("/solutions/addProject", d.Projects.Add)
			r.Get("/solutions/editProject/{id}", d.Projects.EditForm)
			r.Post("/solutions/editProject", d.Projects.Edit)
			r.Get("/solutions/deleteProject/{id}", d.Projects.Delete)
			r.Get("/userHistory", d.Auth.UserHistory)
		})
	})

	router.NotFound(pageMiddleware.HandlerFunc(d.Pages.NotFound).ServeHTTP)
}
