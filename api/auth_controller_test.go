package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoginApprovalScenario(t *testing.T) {
	e := newEnv(t)

	body := e.register(t, "a@x.com", "student", "")
	assert.Equal(t, "pending_approval", body["status"])
	assert.Equal(t, "bearer", body["token_type"])
	assert.NotEmpty(t, body["access_token"])

	user := body["user"].(map[string]any)
	assert.Equal(t, "a@x.com", user["email"])
	assert.Equal(t, "pending", user["status"])
	assert.NotContains(t, user, "password_hash")
	assert.NotContains(t, user, "reset_token_hash")
	studentID := user["id"].(string)

	res := e.call(t, http.MethodPost, "/api/login", "", map[string]any{"email": "a@x.com", "password": "p1"})
	assert.Equal(t, http.StatusForbidden, res.status)
	assert.Equal(t, "pending approval", res.object(t)["detail"])

	adminToken := e.adminToken(t)
	res = e.call(t, http.MethodPost, "/api/admin/users/"+studentID+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, res.status, string(res.raw))
	assert.Equal(t, "approved", res.object(t)["status"])

	res = e.call(t, http.MethodPost, "/api/login", "", map[string]any{"email": "a@x.com", "password": "p1"})
	require.Equal(t, http.StatusOK, res.status, string(res.raw))
	session := res.object(t)
	assert.Equal(t, "bearer", session["token_type"])

	sub, err := e.svc.Tokens.Verify(session["access_token"].(string))
	require.NoError(t, err)
	assert.Equal(t, studentID, sub)
}

func TestRegisterAdminIsApproved(t *testing.T) {
	e := newEnv(t)

	body := e.register(t, "boss@x.com", "admin", adminCode)
	assert.Equal(t, "approved", body["status"])
	assert.Equal(t, "admin", body["user"].(map[string]any)["role"])
}

func TestRegisterRoleIsCaseInsensitive(t *testing.T) {
	e := newEnv(t)

	admin := e.register(t, "boss@x.com", "Admin", adminCode)
	assert.Equal(t, "admin", admin["user"].(map[string]any)["role"])
	assert.Equal(t, "approved", admin["status"])

	student := e.register(t, "kid@x.com", " STUDENT ", "")
	assert.Equal(t, "student", student["user"].(map[string]any)["role"])
	assert.Equal(t, "pending_approval", student["status"])

	res := e.call(t, http.MethodPost, "/api/register", "", map[string]any{
		"email": "root@x.com", "name": "n", "role": "Super_Admin", "password": "p",
	})
	assert.Equal(t, http.StatusBadRequest, res.status)
	assert.Equal(t, "ROLE_NOT_REGISTRABLE", res.object(t)["code"])
}

func TestRegisterRejections(t *testing.T) {
	e := newEnv(t)
	e.register(t, "taken@x.com", "student", "")

	tests := []struct {
		name     string
		body     map[string]any
		textCode string
	}{
		{
			name:     "duplicate email",
			body:     map[string]any{"email": "taken@x.com", "name": "n", "role": "student", "password": "p"},
			textCode: "EMAIL_TAKEN",
		},
		{
			name:     "bad admin code",
			body:     map[string]any{"email": "x@x.com", "name": "n", "role": "admin", "password": "p", "admin_code": "nope"},
			textCode: "INVALID_ADMIN_CODE",
		},
		{
			name: "super admin self registration",
			body: map[string]any{"email": "y@x.com", "name": "n", "role": "super_admin", "password": "p"},
		},
		{
			name:     "unknown role",
			body:     map[string]any{"email": "z@x.com", "name": "n", "role": "instructor", "password": "p"},
			textCode: "VALIDATION_ERROR",
		},
		{
			name:     "bad email",
			body:     map[string]any{"email": "nope", "name": "n", "role": "student", "password": "p"},
			textCode: "VALIDATION_ERROR",
		},
		{
			name:     "bad phone",
			body:     map[string]any{"email": "p@x.com", "name": "n", "role": "student", "password": "p", "phone": "12"},
			textCode: "INVALID_PHONE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.call(t, http.MethodPost, "/api/register", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, res.status, string(res.raw))
			if tt.textCode != "" {
				assert.Equal(t, tt.textCode, res.object(t)["code"])
			}
		})
	}

	res := e.call(t, http.MethodPost, "/api/register", "", nil)
	assert.Equal(t, http.StatusBadRequest, res.status)
}

func TestRegisterValidationReportsFields(t *testing.T) {
	e := newEnv(t)

	res := e.call(t, http.MethodPost, "/api/register", "", map[string]any{"role": "student"})
	require.Equal(t, http.StatusBadRequest, res.status)

	fields, ok := res.object(t)["fields"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
	assert.Contains(t, fields, "name")
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	e := newEnv(t)
	e.register(t, "known@x.com", "student", "")

	wrongPassword := e.call(t, http.MethodPost, "/api/login", "", map[string]any{"email": "known@x.com", "password": "bad"})
	unknownEmail := e.call(t, http.MethodPost, "/api/login", "", map[string]any{"email": "ghost@x.com", "password": "bad"})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.status)
	assert.Equal(t, wrongPassword.status, unknownEmail.status)

	a, b := wrongPassword.object(t), unknownEmail.object(t)
	assert.Equal(t, "invalid email or password", a["detail"])
	assert.Equal(t, a["detail"], b["detail"])
	assert.Equal(t, a["code"], b["code"])
}

func TestPasswordResetFlow(t *testing.T) {
	e := newEnv(t)
	adminToken := e.adminToken(t)
	e.approvedStudent(t, "reset@x.com", adminToken)

	known := e.call(t, http.MethodPost, "/api/request-password-reset", "", map[string]any{"email": "reset@x.com"})
	unknown := e.call(t, http.MethodPost, "/api/request-password-reset", "", map[string]any{"email": "ghost@x.com"})

	require.Equal(t, http.StatusOK, known.status)
	assert.Equal(t, known.status, unknown.status)
	assert.JSONEq(t, string(known.raw), string(unknown.raw))

	body := known.object(t)
	assert.Equal(t, true, body["success"])
	assert.NotContains(t, body, "token")

	e.svc.ResetRequest.Wait()
	token := e.outbox.token("reset@x.com")
	require.NotEmpty(t, token)
	assert.NotContains(t, string(known.raw), token)

	res := e.call(t, http.MethodPost, "/api/reset-password", "", map[string]any{"token": token, "new_password": "p2"})
	require.Equal(t, http.StatusOK, res.status, string(res.raw))
	assert.Equal(t, true, res.object(t)["success"])

	res = e.call(t, http.MethodPost, "/api/reset-password", "", map[string]any{"token": token, "new_password": "p3"})
	assert.Equal(t, http.StatusBadRequest, res.status)
	assert.Equal(t, "invalid or expired token", res.object(t)["detail"])

	res = e.call(t, http.MethodPost, "/api/reset-password", "", map[string]any{"token": "never-issued", "new_password": "p3"})
	assert.Equal(t, http.StatusBadRequest, res.status)
	assert.Equal(t, "invalid or expired token", res.object(t)["detail"])

	res = e.call(t, http.MethodPost, "/api/login", "", map[string]any{"email": "reset@x.com", "password": "p1"})
	assert.Equal(t, http.StatusUnauthorized, res.status)

	res = e.call(t, http.MethodPost, "/api/login", "", map[string]any{"email": "reset@x.com", "password": "p2"})
	assert.Equal(t, http.StatusOK, res.status)
}

func TestMeAllowsPendingUsers(t *testing.T) {
	e := newEnv(t)
	body := e.register(t, "pending@x.com", "student", "")

	res := e.call(t, http.MethodGet, "/api/me", body["access_token"].(string), nil)
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "pending@x.com", res.object(t)["email"])

	res = e.call(t, http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.status)
	assert.Equal(t, "not authenticated", res.object(t)["detail"])

	res = e.call(t, http.MethodGet, "/api/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, res.status)
}
