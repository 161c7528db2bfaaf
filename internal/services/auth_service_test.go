package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/BradenHooton/solutionshub/internal/models"
	pkgauth "github.com/BradenHooton/solutionshub/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService(store CredentialStore, hasher PasswordHasher) *AuthService {
	logger, auditLogger := newTestLoggers()
	return NewAuthService(store, hasher, logger, auditLogger)
}

// stepClock returns a clock that advances one minute per call.
func stepClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Minute)
		return current
	}
}

func requireAuthError(t *testing.T, err error, kind error, message string) {
	t.Helper()
	require.Error(t, err)

	var authErr *models.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.ErrorIs(t, err, kind)
	assert.Equal(t, message, err.Error())
}

// ============================================================================
// RegisterUser
// ============================================================================

func TestAuthService_RegisterUser_Success(t *testing.T) {
	store := newMemoryStore()
	hasher := pkgauth.NewHasher(bcrypt.MinCost, 2)
	svc := newTestAuthService(store, hasher)

	err := svc.RegisterUser(context.Background(), RegisterInput{
		UserName:  "alice",
		Password:  "pw1",
		Password2: "pw1",
		Email:     "alice@example.com",
	})
	require.NoError(t, err)

	account, err := store.FindByUserName(context.Background(), "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "pw1", account.PasswordHash)
	assert.NotEmpty(t, account.PasswordHash)
	assert.Equal(t, "alice@example.com", account.Email)
	assert.Empty(t, account.LoginHistory)

	ok, err := hasher.Verify(context.Background(), "pw1", account.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAuthService_RegisterUser_PasswordMismatch(t *testing.T) {
	hashCalled := false
	storeCalled := false

	svc := newTestAuthService(
		&MockCredentialStore{
			CreateAccountFunc: func(ctx context.Context, userName, passwordHash, email string) (*models.UserAccount, error) {
				storeCalled = true
				return nil, nil
			},
		},
		&MockPasswordHasher{
			HashFunc: func(ctx context.Context, password string) (string, error) {
				hashCalled = true
				return "", nil
			},
		},
	)

	err := svc.RegisterUser(context.Background(), RegisterInput{UserName: "bob", Password: "a", Password2: "b"})

	requireAuthError(t, err, models.ErrPasswordMismatch, "Passwords do not match")
	assert.False(t, hashCalled)
	assert.False(t, storeCalled)
}

func TestAuthService_RegisterUser_HashingError(t *testing.T) {
	storeCalled := false
	hashErr := errors.New("entropy exhausted")

	svc := newTestAuthService(
		&MockCredentialStore{
			CreateAccountFunc: func(ctx context.Context, userName, passwordHash, email string) (*models.UserAccount, error) {
				storeCalled = true
				return nil, nil
			},
		},
		&MockPasswordHasher{
			HashFunc: func(ctx context.Context, password string) (string, error) {
				return "", hashErr
			},
		},
	)

	err := svc.RegisterUser(context.Background(), RegisterInput{UserName: "bob", Password: "pw", Password2: "pw"})

	requireAuthError(t, err, models.ErrHashing, "There was an error encrypting the password")
	assert.ErrorIs(t, err, hashErr)
	assert.False(t, storeCalled)
}

func TestAuthService_RegisterUser_UserNameTaken(t *testing.T) {
	store := newMemoryStore()
	svc := newTestAuthService(store, &MockPasswordHasher{})

	input := RegisterInput{UserName: "alice", Password: "pw1", Password2: "pw1"}
	require.NoError(t, svc.RegisterUser(context.Background(), input))

	input.Password, input.Password2 = "other", "other"
	err := svc.RegisterUser(context.Background(), input)

	requireAuthError(t, err, models.ErrUserNameTaken, "User Name already taken")

	account, findErr := store.FindByUserName(context.Background(), "alice")
	require.NoError(t, findErr)
	assert.Equal(t, "hashed:pw1", account.PasswordHash, "existing account must be untouched")
}

func TestAuthService_RegisterUser_StorageError(t *testing.T) {
	cause := errors.New("connection refused")
	svc := newTestAuthService(
		&MockCredentialStore{
			CreateAccountFunc: func(ctx context.Context, userName, passwordHash, email string) (*models.UserAccount, error) {
				return nil, cause
			},
		},
		&MockPasswordHasher{},
	)

	err := svc.RegisterUser(context.Background(), RegisterInput{UserName: "bob", Password: "pw", Password2: "pw"})

	requireAuthError(t, err, models.ErrStorage, "There was an error creating the user: connection refused")
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, models.ErrUserNameTaken)
}

func TestAuthService_RegisterUser_WrappedDuplicate(t *testing.T) {
	svc := newTestAuthService(
		&MockCredentialStore{
			CreateAccountFunc: func(ctx context.Context, userName, passwordHash, email string) (*models.UserAccount, error) {
				return nil, fmt.Errorf("%w: %s", models.ErrDuplicateUser, userName)
			},
		},
		&MockPasswordHasher{},
	)

	err := svc.RegisterUser(context.Background(), RegisterInput{UserName: "bob", Password: "pw", Password2: "pw"})
	requireAuthError(t, err, models.ErrUserNameTaken, "User Name already taken")
}

// ============================================================================
// CheckUser
// ============================================================================

func seededStore(t *testing.T, userName, password string, history []models.LoginEvent) *memoryStore {
	t.Helper()
	store := newMemoryStore()
	_, err := store.CreateAccount(context.Background(), userName, "hashed:"+password, userName+"@example.com")
	require.NoError(t, err)
	if history != nil {
		require.NoError(t, store.UpdateLoginHistory(context.Background(), userName, history))
		store.updates = 0
	}
	return store
}

func TestAuthService_CheckUser_FirstLogin(t *testing.T) {
	store := seededStore(t, "alice", "pw1", nil)
	svc := newTestAuthService(store, &MockPasswordHasher{})

	before := time.Now().UTC()
	user, err := svc.CheckUser(context.Background(), LoginInput{UserName: "alice", Password: "pw1", UserAgent: "UA1"})
	require.NoError(t, err)

	require.Len(t, user.LoginHistory, 1)
	assert.Equal(t, "UA1", user.LoginHistory[0].UserAgent)
	assert.False(t, user.LoginHistory[0].DateTime.Before(before))
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, user.LoginHistory, store.history("alice"))
}

func TestAuthService_CheckUser_UserNotFound(t *testing.T) {
	store := seededStore(t, "alice", "pw1", nil)
	svc := newTestAuthService(store, &MockPasswordHasher{})

	user, err := svc.CheckUser(context.Background(), LoginInput{UserName: "mallory", Password: "pw1", UserAgent: "UA"})

	assert.Nil(t, user)
	requireAuthError(t, err, models.ErrUserNotFound, "Unable to find user: mallory")
	assert.Zero(t, store.updateCount())
}

func TestAuthService_CheckUser_IncorrectPassword(t *testing.T) {
	existing := []models.LoginEvent{{DateTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), UserAgent: "old"}}
	store := seededStore(t, "alice", "pw1", existing)
	svc := newTestAuthService(store, &MockPasswordHasher{})

	user, err := svc.CheckUser(context.Background(), LoginInput{UserName: "alice", Password: "wrong", UserAgent: "UA"})

	assert.Nil(t, user)
	requireAuthError(t, err, models.ErrIncorrectPassword, "Incorrect Password for user: alice")
	assert.Zero(t, store.updateCount())
	assert.Equal(t, existing, store.history("alice"))
}

func TestAuthService_CheckUser_ComparisonErrorIsIncorrectPassword(t *testing.T) {
	updated := false
	cmpErr := errors.New("crypto/bcrypt: hashedSecret too short to be a bcrypted password")

	svc := newTestAuthService(
		&MockCredentialStore{
			FindByUserNameFunc: func(ctx context.Context, userName string) (*models.UserAccount, error) {
				return &models.UserAccount{UserName: userName, PasswordHash: "garbage"}, nil
			},
			UpdateLoginHistoryFunc: func(ctx context.Context, userName string, history []models.LoginEvent) error {
				updated = true
				return nil
			},
		},
		&MockPasswordHasher{
			VerifyFunc: func(ctx context.Context, password, hashedPassword string) (bool, error) {
				return false, cmpErr
			},
		},
	)

	_, err := svc.CheckUser(context.Background(), LoginInput{UserName: "alice", Password: "pw1"})

	requireAuthError(t, err, models.ErrIncorrectPassword, "Incorrect Password for user: alice")
	assert.ErrorIs(t, err, cmpErr)
	assert.False(t, updated)
}

func TestAuthService_CheckUser_LookupStorageError(t *testing.T) {
	cause := errors.New("timeout")
	svc := newTestAuthService(
		&MockCredentialStore{
			FindByUserNameFunc: func(ctx context.Context, userName string) (*models.UserAccount, error) {
				return nil, cause
			},
		},
		&MockPasswordHasher{},
	)

	_, err := svc.CheckUser(context.Background(), LoginInput{UserName: "alice", Password: "pw1"})

	requireAuthError(t, err, models.ErrStorage, "There was an error verifying the user: timeout")
	assert.ErrorIs(t, err, cause)
}

func TestAuthService_CheckUser_UpdateStorageError(t *testing.T) {
	cause := errors.New("disk full")
	svc := newTestAuthService(
		&MockCredentialStore{
			FindByUserNameFunc: func(ctx context.Context, userName string) (*models.UserAccount, error) {
				return &models.UserAccount{UserName: userName, PasswordHash: "hashed:pw1"}, nil
			},
			UpdateLoginHistoryFunc: func(ctx context.Context, userName string, history []models.LoginEvent) error {
				return cause
			},
		},
		&MockPasswordHasher{},
	)

	user, err := svc.CheckUser(context.Background(), LoginInput{UserName: "alice", Password: "pw1"})

	assert.Nil(t, user)
	requireAuthError(t, err, models.ErrStorage, "There was an error verifying the user: disk full")
	assert.ErrorIs(t, err, cause)
}

func TestAuthService_CheckUser_HistoryLength(t *testing.T) {
	for previous := 0; previous <= models.LoginHistoryCapacity; previous++ {
		t.Run(fmt.Sprintf("previous=%d", previous), func(t *testing.T) {
			history := make([]models.LoginEvent, previous)
			for i := range history {
				history[i] = models.LoginEvent{
					DateTime:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(-time.Duration(i) * time.Hour),
					UserAgent: fmt.Sprintf("UA-%d", i),
				}
			}
			store := seededStore(t, "alice", "pw1", history)
			svc := newTestAuthService(store, &MockPasswordHasher{})

			user, err := svc.CheckUser(context.Background(), LoginInput{UserName: "alice", Password: "pw1", UserAgent: "new"})
			require.NoError(t, err)

			assert.Len(t, user.LoginHistory, min(models.LoginHistoryCapacity, previous+1))
			assert.Equal(t, "new", user.LoginHistory[0].UserAgent)
			if previous > 0 {
				assert.Equal(t, "UA-0", user.LoginHistory[1].UserAgent)
			}
		})
	}
}

func TestAuthService_CheckUser_TenLoginsKeepNewestEight(t *testing.T) {
	store := seededStore(t, "alice", "pw1", nil)
	svc := newTestAuthService(store, &MockPasswordHasher{})
	svc.now = stepClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	for i := 1; i <= 10; i++ {
		_, err := svc.CheckUser(context.Background(), LoginInput{
			UserName:  "alice",
			Password:  "pw1",
			UserAgent: fmt.Sprintf("UA%d", i),
		})
		require.NoError(t, err)
	}

	history := store.history("alice")
	require.Len(t, history, 8)
	for i, event := range history {
		assert.Equal(t, fmt.Sprintf("UA%d", 10-i), event.UserAgent)
		if i > 0 {
			assert.True(t, event.DateTime.Before(history[i-1].DateTime), "history must be newest first")
		}
	}
}

func TestAuthService_CheckUser_ConcurrentLoginsStayBounded(t *testing.T) {
	store := seededStore(t, "alice", "pw1", nil)
	svc := newTestAuthService(store, &MockPasswordHasher{})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.CheckUser(context.Background(), LoginInput{
				UserName:  "alice",
				Password:  "pw1",
				UserAgent: fmt.Sprintf("UA%d", i),
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	history := store.history("alice")
	assert.NotEmpty(t, history)
	assert.LessOrEqual(t, len(history), models.LoginHistoryCapacity)
}

func TestAuthService_RegisterThenLogin(t *testing.T) {
	store := newMemoryStore()
	svc := newTestAuthService(store, pkgauth.NewHasher(bcrypt.MinCost, 2))
	ctx := context.Background()

	require.NoError(t, svc.RegisterUser(ctx, RegisterInput{UserName: "alice", Password: "pw1", Password2: "pw1"}))

	user, err := svc.CheckUser(ctx, LoginInput{UserName: "alice", Password: "pw1", UserAgent: "UA1"})
	require.NoError(t, err)
	require.Len(t, user.LoginHistory, 1)
	assert.Equal(t, "UA1", user.LoginHistory[0].UserAgent)

	_, err = svc.CheckUser(ctx, LoginInput{UserName: "alice", Password: "pw2", UserAgent: "UA2"})
	assert.ErrorIs(t, err, models.ErrIncorrectPassword)
	assert.Len(t, store.history("alice"), 1)
}
