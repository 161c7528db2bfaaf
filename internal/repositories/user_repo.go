package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/BradenHooton/solutionshub/internal/database"
	"github.com/BradenHooton/solutionshub/internal/models"
)

// UserRepository is the credential store backed by the users table.
type UserRepository struct {
	db database.DBTX
}

func NewUserRepository(db database.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUserRow(scanner rowScanner) (*models.UserAccount, error) {
	var user models.UserAccount
	var history []byte

	err := scanner.Scan(
		&user.UserName, &user.PasswordHash, &user.Email, &history,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	user.LoginHistory, err = decodeLoginHistory(history)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func decodeLoginHistory(raw []byte) ([]models.LoginEvent, error) {
	history := make([]models.LoginEvent, 0, models.LoginHistoryCapacity)
	if len(raw) == 0 {
		return history, nil
	}
	if err := json.Unmarshal(raw, &history); err != nil {
		return nil, fmt.Errorf("failed to decode login history: %w", err)
	}
	return history, nil
}

func encodeLoginHistory(history []models.LoginEvent) (string, error) {
	if history == nil {
		history = []models.LoginEvent{}
	}
	payload, err := json.Marshal(history)
	if err != nil {
		return "", fmt.Errorf("failed to encode login history: %w", err)
	}
	return string(payload), nil
}

// CreateAccount inserts a new account with an empty login history. A taken user name
// yields models.ErrDuplicateUser.
func (r *UserRepository) CreateAccount(ctx context.Context, userName, passwordHash, email string) (*models.UserAccount, error) {
	query := `
		INSERT INTO users (user_name, password_hash, email, login_history, created_at, updated_at)
		VALUES ($1, $2, $3, '[]'::jsonb, $4, $4)
		RETURNING user_name, password_hash, email, login_history, created_at, updated_at
	`

	now := time.Now().UTC()
	row := r.db.QueryRow(ctx, query, userName, passwordHash, email, now)

	return scanUserRow(duplicateAwareRow{row: row, userName: userName})
}

// duplicateAwareRow reports a unique violation from the INSERT as
// models.ErrDuplicateUser. pgx defers the statement error to Scan.
type duplicateAwareRow struct {
	row      rowScanner
	userName string
}

func (d duplicateAwareRow) Scan(dest ...any) error {
	err := d.row.Scan(dest...)
	if database.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %s", models.ErrDuplicateUser, d.userName)
	}
	return err
}

// FindByUserName returns the account whose user name matches exactly, or models.ErrNotFound.
func (r *UserRepository) FindByUserName(ctx context.Context, userName string) (*models.UserAccount, error) {
	query := `
		SELECT user_name, password_hash, email, login_history, created_at, updated_at
		FROM users WHERE user_name = $1
	`

	return scanUserRow(r.db.QueryRow(ctx, query, userName))
}

// UpdateLoginHistory replaces the stored history in a single statement.
func (r *UserRepository) UpdateLoginHistory(ctx context.Context, userName string, history []models.LoginEvent) error {
	payload, err := encodeLoginHistory(history)
	if err != nil {
		return err
	}

	query := `UPDATE users SET login_history = $1::jsonb, updated_at = $2 WHERE user_name = $3`

	result, err := r.db.Exec(ctx, query, payload, time.Now().UTC(), userName)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
