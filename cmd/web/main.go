package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BradenHooton/solutionshub/internal/auth"
	"github.com/BradenHooton/solutionshub/internal/background"
	"github.com/BradenHooton/solutionshub/internal/config"
	"github.com/BradenHooton/solutionshub/internal/database"
	"github.com/BradenHooton/solutionshub/internal/handlers"
	middlewareCustom "github.com/BradenHooton/solutionshub/internal/middleware"
	"github.com/BradenHooton/solutionshub/internal/models"
	"github.com/BradenHooton/solutionshub/internal/repositories"
	"github.com/BradenHooton/solutionshub/internal/routes"
	"github.com/BradenHooton/solutionshub/internal/services"
	pkgauth "github.com/BradenHooton/solutionshub/pkg/auth"
	pkghttp "github.com/BradenHooton/solutionshub/pkg/http"
	pkglogger "github.com/BradenHooton/solutionshub/pkg/logger"
	"github.com/BradenHooton/solutionshub/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	bootLogger := pkglogger.New("info", os.Stdout)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootLogger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := pkglogger.New(cfg.Server.LogLevel, os.Stdout)
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Initialize database
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Database.MigrateOnStart {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := database.Migrate(ctx, db.Pool, logger)
		cancel()
		if err != nil {
			logger.Error("failed to apply migrations", slog.Any("error", err))
			os.Exit(1)
		}
	}

	// Start pool monitor
	if cfg.Database.MonitorInterval > 0 {
		monitor := background.NewPoolMonitor(db, logger, cfg.Database.MonitorInterval)
		go monitor.Start(context.Background())
		defer monitor.Stop()
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db.Pool)
	projectRepo := repositories.NewProjectRepository(db.Pool)

	// Initialize services
	auditLogger := pkglogger.NewAuditLogger(logger)
	hasher := pkgauth.NewHasher(cfg.Auth.BcryptCost, cfg.Auth.HashConcurrency)
	authService := services.NewAuthService(userRepo, hasher, logger, auditLogger)
	projectService := services.NewProjectService(projectRepo, logger)

	// Seed an account for local environments if configured
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := ensureSeedUser(ctx, authService, logger); err != nil {
		logger.Error("failed to ensure seed user", slog.Any("error", err))
	}
	cancel()

	// Sessions and cookies
	cookies := auth.CookieConfig{
		Secure:   cfg.IsProduction(),
		SameSite: "lax",
	}
	sessions := auth.NewSessionManager(auth.SessionConfig{
		Secret:         cfg.Session.Secret,
		CookieName:     cfg.Session.CookieName,
		Duration:       cfg.Session.Duration,
		ActiveDuration: cfg.Session.ActiveDuration,
		Cookie:         cookies,
	})

	ipResolver, err := pkghttp.NewIPResolver(cfg.Server.TrustedProxies)
	if err != nil {
		logger.Error("invalid trusted proxy configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Initialize handlers
	renderer, err := handlers.NewRenderer(web.FS, logger)
	if err != nil {
		logger.Error("failed to load templates", slog.Any("error", err))
		os.Exit(1)
	}

	pageHandler := handlers.NewPageHandler(renderer, projectService, db, logger)
	projectHandler := handlers.NewProjectHandler(renderer, projectService, logger)
	authHandler := handlers.NewAuthHandler(renderer, authService, sessions, ipResolver, logger)

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.SecureLogger(logger, ipResolver))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// Register routes
	routes.RegisterRoutes(router, routes.Dependencies{
		Pages:    pageHandler,
		Projects: projectHandler,
		Auth:     authHandler,
		Sessions: sessions,
		Cookies:  cookies,
		Static:   web.FS,
		Logger:   logger,
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", "http://localhost"+server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

// ensureSeedUser registers SEED_USER_NAME with SEED_USER_PASSWORD when both are set.
// An existing account is left untouched.
func ensureSeedUser(ctx context.Context, authService *services.AuthService, logger *slog.Logger) error {
	userName := os.Getenv("SEED_USER_NAME")
	password := os.Getenv("SEED_USER_PASSWORD")

	if userName == "" || password == "" {
		logger.Debug("no SEED_USER_NAME or SEED_USER_PASSWORD set, skipping seed user")
		return nil
	}

	err := authService.RegisterUser(ctx, services.RegisterInput{
		UserName:  userName,
		Password:  password,
		Password2: password,
		Email:     os.Getenv("SEED_USER_EMAIL"),
	})
	if errors.Is(err, models.ErrUserNameTaken) {
		logger.Info("seed user already exists")
		return nil
	}
	if err != nil {
		return err
	}

	logger.Info("seed user created")
	return nil
}
