package api_test

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/goliatone/go-enroll/api"
	"github.com/goliatone/go-enroll/auth"
	"github.com/goliatone/go-enroll/catalog"
	"github.com/goliatone/go-enroll/internal/config"
	"github.com/goliatone/go-enroll/internal/persistence"
	"github.com/goliatone/go-enroll/internal/testserver"
)

const adminCode = "letmein"

type quietLogger struct{}

func (quietLogger) Debug(string, ...any) {}
func (quietLogger) Info(string, ...any)  {}
func (quietLogger) Warn(string, ...any)  {}
func (quietLogger) Error(string, ...any) {}

type resetOutbox struct {
	mu     sync.Mutex
	tokens map[string]string
}

func (o *resetOutbox) SendPasswordReset(_ context.Context, user *auth.User, token string, _ time.Time) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.tokens[user.Email] = token
	return nil
}

func (o *resetOutbox) token(email string) string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.tokens[email]
}

type env struct {
	base   string
	svc    *api.Services
	outbox *resetOutbox
}

func newEnv(t *testing.T) *env {
	t.Helper()

	ctx := context.Background()
	db, err := persistence.NewInMemory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	tables := append([]persistence.Table{auth.UsersTable()}, catalog.Tables()...)
	require.NoError(t, persistence.EnsureSchema(ctx, db, tables...))

	cfg := &config.Config{
		AppName:               "enroll-test",
		CORSOrigin:            []string{"*"},
		StoreTimeout:          5 * time.Second,
		JWTSecret:             "test-secret",
		JWTIssuer:             "enroll-test",
		AccessTokenTTL:        auth.DefaultTokenTTL,
		PasswordResetTTL:      auth.DefaultPasswordResetTTL,
		PasswordHashCost:      bcrypt.MinCost,
		AdminRegistrationCode: adminCode,
		DefaultPhoneRegion:    "US",
	}

	outbox := &resetOutbox{tokens: map[string]string{}}
	svc, err := api.NewServices(cfg, db, outbox, quietLogger{})
	require.NoError(t, err)

	srv := api.NewServer(svc)
	base := testserver.Start(t, srv.Serve, func() error {
		return srv.Shutdown(context.Background())
	})

	return &env{base: base, svc: svc, outbox: outbox}
}

type response struct {
	status int
	raw    []byte
}

func (r response) object(t *testing.T) map[string]any {
	t.Helper()
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(r.raw, &out), string(r.raw))
	return out
}

func (r response) list(t *testing.T) []map[string]any {
	t.Helper()
	out := []map[string]any{}
	require.NoError(t, json.Unmarshal(r.raw, &out), string(r.raw))
	return out
}

func (e *env) call(t *testing.T, method, path, token string, body any) response {
	t.Helper()

	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(t, err)
	}

	status, out := testserver.Do(t, testserver.Request(t, method, e.base+path, token, raw))
	return response{status: status, raw: out}
}

// register creates an account through the API and returns the decoded body
func (e *env) register(t *testing.T, email, role, code string) map[string]any {
	t.Helper()
	res := e.call(t, http.MethodPost, "/api/register", "", map[string]any{
		"email":      email,
		"name":       "User " + email,
		"role":       role,
		"password":   "p1",
		"admin_code": code,
	})
	require.Equal(t, http.StatusCreated, res.status, string(res.raw))
	return res.object(t)
}

func (e *env) adminToken(t *testing.T) string {
	t.Helper()
	body := e.register(t, "admin@example.com", "admin", adminCode)
	return body["access_token"].(string)
}

// approvedStudent registers a student, approves it and logs in
func (e *env) approvedStudent(t *testing.T, email, adminToken string) (string, string) {
	t.Helper()
	body := e.register(t, email, "student", "")
	id := body["user"].(map[string]any)["id"].(string)

	res := e.call(t, http.MethodPost, "/api/admin/users/"+id+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, res.status, string(res.raw))

	res = e.call(t, http.MethodPost, "/api/login", "", map[string]any{"email": email, "password": "p1"})
	require.Equal(t, http.StatusOK, res.status, string(res.raw))
	return id, res.object(t)["access_token"].(string)
}
