package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/BradenHooton/solutionshub/internal/auth"
	"github.com/BradenHooton/solutionshub/internal/models"
	"github.com/BradenHooton/solutionshub/internal/services"
	pkghttp "github.com/BradenHooton/solutionshub/pkg/http"
)

// AuthService defines the registration and login workflows
type AuthService interface {
	RegisterUser(ctx context.Context, in services.RegisterInput) error
	CheckUser(ctx context.Context, in services.LoginInput) (*models.UserAccount, error)
}

// AuthHandler handles login, registration and session pages
type AuthHandler struct {
	renderer *Renderer
	service  AuthService
	sessions *auth.SessionManager
	ips      *pkghttp.IPResolver
	logger   *slog.Logger
}

func NewAuthHandler(renderer *Renderer, service AuthService, sessions *auth.SessionManager, ips *pkghttp.IPResolver, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		renderer: renderer,
		service:  service,
		sessions: sessions,
		ips:      ips,
		logger:   logger,
	}
}

// authMessage returns the user-facing text for a workflow failure.
func authMessage(err error) string {
	var authErr *models.AuthError
	if errors.As(err, &authErr) {
		return authErr.Message
	}
	return msgServerError
}

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, "login", PageData{})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.Render(w, r, http.StatusBadRequest, "login", PageData{ErrorMessage: "Invalid form submission"})
		return
	}

	form := parseLoginForm(r.PostForm)
	if err := ValidateRequest(form); err != nil {
		h.renderer.Render(w, r, http.StatusBadRequest, "login", PageData{
			ErrorMessage: err.Error(),
			UserName:     form.UserName,
		})
		return
	}

	user, err := h.service.CheckUser(r.Context(), services.LoginInput{
		UserName:  form.UserName,
		Password:  form.Password,
		UserAgent: r.UserAgent(),
		IPAddress: h.ips.ClientIP(r),
	})
	if err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, models.ErrStorage) {
			status = http.StatusInternalServerError
		}
		h.renderer.Render(w, r, status, "login", PageData{
			ErrorMessage: authMessage(err),
			UserName:     form.UserName,
		})
		return
	}

	if _, err := h.sessions.Issue(w, auth.SessionUser{
		UserName:     user.UserName,
		Email:        user.Email,
		LoginHistory: user.LoginHistory,
	}); err != nil {
		h.logger.Error("failed to issue session", slog.Any("error", err))
		h.renderer.ServerError(w, r, msgServerError)
		return
	}

	http.Redirect(w, r, "/solutions/projects", http.StatusSeeOther)
}

func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, "register", PageData{})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.Render(w, r, http.StatusBadRequest, "register", PageData{ErrorMessage: "Invalid form submission"})
		return
	}

	form := parseRegisterForm(r.PostForm)
	if err := ValidateRequest(form); err != nil {
		h.renderer.Render(w, r, http.StatusBadRequest, "register", PageData{
			ErrorMessage: err.Error(),
			UserName:     form.UserName,
		})
		return
	}

	err := h.service.RegisterUser(r.Context(), services.RegisterInput{
		UserName:  form.UserName,
		Password:  form.Password,
		Password2: form.Password2,
		Email:     form.Email,
	})
	if err != nil {
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, models.ErrUserNameTaken):
			status = http.StatusConflict
		case errors.Is(err, models.ErrStorage), errors.Is(err, models.ErrHashing):
			status = http.StatusInternalServerError
		}
		h.renderer.Render(w, r, status, "register", PageData{
			ErrorMessage: authMessage(err),
			UserName:     form.UserName,
		})
		return
	}

	h.renderer.Render(w, r, http.StatusOK, "register", PageData{SuccessMessage: "User created"})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) UserHistory(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, "userHistory", PageData{})
}
