package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/BradenHooton/solutionshub/internal/models"
	"github.com/BradenHooton/solutionshub/pkg/deque"
	pkglogger "github.com/BradenHooton/solutionshub/pkg/logger"
)

// CredentialStore persists user accounts and their login history.
type CredentialStore interface {
	CreateAccount(ctx context.Context, userName, passwordHash, email string) (*models.UserAccount, error)
	FindByUserName(ctx context.Context, userName string) (*models.UserAccount, error)
	UpdateLoginHistory(ctx context.Context, userName string, history []models.LoginEvent) error
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, password, hashedPassword string) (bool, error)
}

// RegisterInput is the payload of a registration attempt.
type RegisterInput struct {
	UserName  string
	Password  string
	Password2 string
	Email     string
}

// LoginInput is the payload of a login attempt.
type LoginInput struct {
	UserName  string
	Password  string
	UserAgent string
	IPAddress string
}

// AuthService runs the registration and login workflows. It holds no per-user state.
type AuthService struct {
	store       CredentialStore
	hasher      PasswordHasher
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
	now         func() time.Time
}

func NewAuthService(store CredentialStore, hasher PasswordHasher, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *AuthService {
	return &AuthService{
		store:       store,
		hasher:      hasher,
		logger:      logger,
		auditLogger: auditLogger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// RegisterUser creates an account. Every failure is an *models.AuthError.
func (s *AuthService) RegisterUser(ctx context.Context, in RegisterInput) error {
	if in.Password != in.Password2 {
		s.logger.Info("registration rejected: passwords do not match")
		s.auditRegistrationFailure(ctx, in, "password_mismatch")
		return models.NewAuthError(models.ErrPasswordMismatch, nil, "Passwords do not match")
	}

	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		s.auditRegistrationFailure(ctx, in, "hashing_error")
		return models.NewAuthError(models.ErrHashing, err, "There was an error encrypting the password")
	}

	if _, err := s.store.CreateAccount(ctx, in.UserName, hash, in.Email); err != nil {
		if errors.Is(err, models.ErrDuplicateUser) {
			s.logger.Info("registration rejected: user name taken")
			s.auditRegistrationFailure(ctx, in, "user_name_taken")
			return models.NewAuthError(models.ErrUserNameTaken, err, "User Name already taken")
		}
		s.logger.Error("failed to create user", slog.Any("error", err))
		s.auditRegistrationFailure(ctx, in, "storage_error")
		return models.NewAuthError(models.ErrStorage, err, "There was an error creating the user: %v", err)
	}

	s.logger.Info("user registered", slog.String("user_name", in.UserName))
	var metadata map[string]string
	if in.Email != "" {
		metadata = map[string]string{"email": pkglogger.SanitizedEmail(in.Email)}
	}
	s.auditLogger.LogAccountAction(ctx, "user_registered", in.UserName, metadata)

	return nil
}

// CheckUser authenticates a user and records the login in their history. The history
// is only written after the password has been verified.
func (s *AuthService) CheckUser(ctx context.Context, in LoginInput) (*models.UserAccount, error) {
	user, err := s.store.FindByUserName(ctx, in.UserName)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("login failed: unknown user")
			s.auditFailure(ctx, in, "user_not_found")
			return nil, models.NewAuthError(models.ErrUserNotFound, nil, "Unable to find user: %s", in.UserName)
		}
		s.logger.Error("failed to look up user", slog.Any("error", err))
		s.auditFailure(ctx, in, "storage_error")
		return nil, models.NewAuthError(models.ErrStorage, err, "There was an error verifying the user: %v", err)
	}

	ok, err := s.hasher.Verify(ctx, in.Password, user.PasswordHash)
	if err != nil {
		s.logger.Warn("password comparison failed", slog.String("user_name", user.UserName), slog.Any("error", err))
	}
	if !ok {
		s.auditFailure(ctx, in, "incorrect_password")
		return nil, models.NewAuthError(models.ErrIncorrectPassword, err, "Incorrect Password for user: %s", in.UserName)
	}

	history := deque.New(models.LoginHistoryCapacity, user.LoginHistory...)
	history.PushFront(models.LoginEvent{
		DateTime:  s.now(),
		UserAgent: in.UserAgent,
	})
	updated := history.Items()

	if err := s.store.UpdateLoginHistory(ctx, user.UserName, updated); err != nil {
		s.logger.Error("failed to update login history", slog.String("user_name", user.UserName), slog.Any("error", err))
		s.auditFailure(ctx, in, "storage_error")
		return nil, models.NewAuthError(models.ErrStorage, err, "There was an error verifying the user: %v", err)
	}

	user.LoginHistory = updated

	s.logger.Info("user logged in", slog.String("user_name", user.UserName))
	s.auditLogger.LogAuthAttempt(ctx, pkglogger.AuditEvent{
		EventType: "login_success",
		UserName:  user.UserName,
		IPAddress: in.IPAddress,
		UserAgent: in.UserAgent,
		Success:   true,
	})

	return user, nil
}

func (s *AuthService) auditFailure(ctx context.Context, in LoginInput, reason string) {
	s.auditLogger.LogAuthAttempt(ctx, pkglogger.AuditEvent{
		EventType:     "login_failed",
		UserName:      in.UserName,
		IPAddress:     in.IPAddress,
		UserAgent:     in.UserAgent,
		Success:       false,
		FailureReason: reason,
	})
}

func (s *AuthService) auditRegistrationFailure(ctx context.Context, in RegisterInput, reason string) {
	s.auditLogger.LogAccountAction(ctx, "registration_failed", in.UserName, map[string]string{"reason": reason})
}
