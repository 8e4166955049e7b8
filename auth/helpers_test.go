package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"

	"github.com/goliatone/go-enroll/auth"
	"github.com/goliatone/go-enroll/internal/persistence"
)

type testConfig struct {
	signingKey string
	issuer     string
	tokenTTL   time.Duration
	resetTTL   time.Duration
	adminCode  string
}

func (c testConfig) GetSigningKey() string              { return c.signingKey }
func (c testConfig) GetIssuer() string                  { return c.issuer }
func (c testConfig) GetTokenTTL() time.Duration         { return c.tokenTTL }
func (c testConfig) GetPasswordResetTTL() time.Duration { return c.resetTTL }
func (c testConfig) GetAdminRegistrationCode() string   { return c.adminCode }

func newTestConfig() testConfig {
	return testConfig{
		signingKey: "test-signing-key",
		issuer:     "enroll-test",
		tokenTTL:   auth.DefaultTokenTTL,
		resetTTL:   auth.DefaultPasswordResetTTL,
		adminCode:  "letmein",
	}
}

type fixture struct {
	db     *bun.DB
	repo   auth.RepositoryManager
	hasher *auth.BcryptHasher
	tokens *auth.HMACTokenService
	cfg    testConfig
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctx := context.Background()
	db, err := persistence.NewInMemory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, persistence.EnsureSchema(ctx, db, auth.UsersTable()))

	cfg := newTestConfig()
	tokens, err := auth.NewTokenServiceFromConfig(cfg)
	require.NoError(t, err)

	return &fixture{
		db:     db,
		repo:   auth.NewRepositoryManager(db),
		hasher: auth.NewBcryptHasher(bcrypt.MinCost),
		tokens: tokens,
		cfg:    cfg,
	}
}

func (f *fixture) seedUser(t *testing.T, email, password string, role auth.UserRole, status auth.UserStatus) *auth.User {
	t.Helper()

	hash, err := f.hasher.Hash(password)
	require.NoError(t, err)

	user, err := f.repo.Users().Register(context.Background(), &auth.User{
		Email:        email,
		Name:         "Test " + string(role),
		Role:         role,
		Status:       status,
		PasswordHash: hash,
	})
	require.NoError(t, err)
	return user
}

type quietLogger struct{}

func (quietLogger) Debug(string, ...any) {}
func (quietLogger) Info(string, ...any)  {}
func (quietLogger) Warn(string, ...any)  {}
func (quietLogger) Error(string, ...any) {}

type MockIdentityStore struct {
	mock.Mock
}

func (m *MockIdentityStore) FindByID(ctx context.Context, id string) (*auth.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) Issue(subject string, ttl time.Duration) (string, error) {
	args := m.Called(subject, ttl)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) Verify(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) DefaultTTL() time.Duration {
	return auth.DefaultTokenTTL
}

type recordingNotifier struct {
	mu        sync.Mutex
	tokens    []string
	users     []*auth.User
	expiresAt []time.Time
}

func (r *recordingNotifier) SendPasswordReset(_ context.Context, user *auth.User, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens = append(r.tokens, token)
	r.users = append(r.users, user)
	r.expiresAt = append(r.expiresAt, expiresAt)
	return nil
}

func (r *recordingNotifier) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.tokens) == 0 {
		return ""
	}
	return r.tokens[len(r.tokens)-1]
}
