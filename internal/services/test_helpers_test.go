package services

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/BradenHooton/solutionshub/internal/models"
	pkglogger "github.com/BradenHooton/solutionshub/pkg/logger"
)

func newTestLoggers() (*slog.Logger, *pkglogger.AuditLogger) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return logger, pkglogger.NewAuditLogger(logger)
}

// MockCredentialStore implements CredentialStore for testing
type MockCredentialStore struct {
	CreateAccountFunc      func(ctx context.Context, userName, passwordHash, email string) (*models.UserAccount, error)
	FindByUserNameFunc     func(ctx context.Context, userName string) (*models.UserAccount, error)
	UpdateLoginHistoryFunc func(ctx context.Context, userName string, history []models.LoginEvent) error
}

func (m *MockCredentialStore) CreateAccount(ctx context.Context, userName, passwordHash, email string) (*models.UserAccount, error) {
	if m.CreateAccountFunc != nil {
		return m.CreateAccountFunc(ctx, userName, passwordHash, email)
	}
	return &models.UserAccount{UserName: userName, PasswordHash: passwordHash, Email: email}, nil
}

func (m *MockCredentialStore) FindByUserName(ctx context.Context, userName string) (*models.UserAccount, error) {
	if m.FindByUserNameFunc != nil {
		return m.FindByUserNameFunc(ctx, userName)
	}
	return nil, models.ErrNotFound
}

func (m *MockCredentialStore) UpdateLoginHistory(ctx context.Context, userName string, history []models.LoginEvent) error {
	if m.UpdateLoginHistoryFunc != nil {
		return m.UpdateLoginHistoryFunc(ctx, userName, history)
	}
	return nil
}

// MockPasswordHasher implements PasswordHasher for testing
type MockPasswordHasher struct {
	HashFunc   func(ctx context.Context, password string) (string, error)
	VerifyFunc func(ctx context.Context, password, hashedPassword string) (bool, error)
}

func (m *MockPasswordHasher) Hash(ctx context.Context, password string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(ctx, password)
	}
	return "hashed:" + password, nil
}

func (m *MockPasswordHasher) Verify(ctx context.Context, password, hashedPassword string) (bool, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, password, hashedPassword)
	}
	return hashedPassword == "hashed:"+password, nil
}

// memoryStore is an in-memory CredentialStore that counts history writes.
type memoryStore struct {
	mu       sync.Mutex
	accounts map[string]models.UserAccount
	updates  int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{accounts: make(map[string]models.UserAccount)}
}

func (s *memoryStore) CreateAccount(_ context.Context, userName, passwordHash, email string) (*models.UserAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[userName]; exists {
		return nil, models.ErrDuplicateUser
	}
	account := models.UserAccount{
		UserName:     userName,
		PasswordHash: passwordHash,
		Email:        email,
		LoginHistory: []models.LoginEvent{},
	}
	s.accounts[userName] = account
	return &account, nil
}

func (s *memoryStore) FindByUserName(_ context.Context, userName string) (*models.UserAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[userName]
	if !ok {
		return nil, models.ErrNotFound
	}
	account.LoginHistory = append([]models.LoginEvent(nil), account.LoginHistory...)
	return &account, nil
}

func (s *memoryStore) UpdateLoginHistory(_ context.Context, userName string, history []models.LoginEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[userName]
	if !ok {
		return models.ErrNotFound
	}
	account.LoginHistory = append([]models.LoginEvent(nil), history...)
	s.accounts[userName] = account
	s.updates++
	return nil
}

func (s *memoryStore) history(userName string) []models.LoginEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[userName].LoginHistory
}

func (s *memoryStore) updateCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updates
}

// MockProjectRepository implements ProjectRepository for testing
type MockProjectRepository struct {
	ListFunc         func(ctx context.Context) ([]*models.Project, error)
	GetByIDFunc      func(ctx context.Context, id int) (*models.Project, error)
	ListBySectorFunc func(ctx context.Context, term string) ([]*models.Project, error)
	ListSectorsFunc  func(ctx context.Context) ([]*models.Sector, error)
	CreateFunc       func(ctx context.Context, p *models.Project) (*models.Project, error)
	UpdateFunc       func(ctx context.Context, id int, p *models.Project) error
	DeleteFunc       func(ctx context.Context, id int) error
}

func (m *MockProjectRepository) List(ctx context.Context) ([]*models.Project, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*models.Project{}, nil
}

func (m *MockProjectRepository) GetByID(ctx context.Context, id int) (*models.Project, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockProjectRepository) ListBySector(ctx context.Context, term string) ([]*models.Project, error) {
	if m.ListBySectorFunc != nil {
		return m.ListBySectorFunc(ctx, term)
	}
	return []*models.Project{}, nil
}

func (m *MockProjectRepository) ListSectors(ctx context.Context) ([]*models.Sector, error) {
	if m.ListSectorsFunc != nil {
		return m.ListSectorsFunc(ctx)
	}
	return []*models.Sector{}, nil
}

func (m *MockProjectRepository) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	p.ID = 1
	return p, nil
}

func (m *MockProjectRepository) Update(ctx context.Context, id int, p *models.Project) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, p)
	}
	return nil
}

func (m *MockProjectRepository) Delete(ctx context.Context, id int) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}
