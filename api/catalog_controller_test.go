package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelloAndStatusChecks(t *testing.T) {
	e := newEnv(t)

	res := e.call(t, http.MethodGet, "/api/", "", nil)
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "Hello World", res.object(t)["message"])

	res = e.call(t, http.MethodPost, "/api/status", "", map[string]any{"client_name": "monitor"})
	require.Equal(t, http.StatusOK, res.status, string(res.raw))
	assert.Equal(t, "monitor", res.object(t)["client_name"])

	res = e.call(t, http.MethodPost, "/api/status", "", map[string]any{"client_name": ""})
	assert.Equal(t, http.StatusBadRequest, res.status)

	res = e.call(t, http.MethodGet, "/api/status", "", nil)
	require.Equal(t, http.StatusOK, res.status)
	assert.Len(t, res.list(t), 1)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	e := newEnv(t)
	adminToken := e.adminToken(t)
	_, studentToken := e.approvedStudent(t, "s@x.com", adminToken)

	paths := []string{"/api/admin/users", "/api/admin/programs", "/api/admin/enrollments", "/api/admin/content"}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			res := e.call(t, http.MethodGet, path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, res.status)

			res = e.call(t, http.MethodGet, path, studentToken, nil)
			assert.Equal(t, http.StatusForbidden, res.status)

			res = e.call(t, http.MethodGet, path, adminToken, nil)
			assert.Equal(t, http.StatusOK, res.status)
		})
	}
}

func TestUserApprovalQueue(t *testing.T) {
	e := newEnv(t)
	adminToken := e.adminToken(t)

	pending := e.register(t, "p@x.com", "student", "")
	rejected := e.register(t, "r@x.com", "student", "")
	rejectedID := rejected["user"].(map[string]any)["id"].(string)

	res := e.call(t, http.MethodPost, "/api/admin/users/"+rejectedID+"/reject?reason=duplicate", adminToken, nil)
	require.Equal(t, http.StatusOK, res.status, string(res.raw))
	assert.Equal(t, "rejected", res.object(t)["status"])

	res = e.call(t, http.MethodGet, "/api/admin/users?status=pending", adminToken, nil)
	require.Equal(t, http.StatusOK, res.status)
	users := res.list(t)
	require.Len(t, users, 1)
	assert.Equal(t, pending["user"].(map[string]any)["id"], users[0]["id"])

	res = e.call(t, http.MethodGet, "/api/admin/users?status=bogus", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, res.status)

	res = e.call(t, http.MethodPost, "/api/admin/users/not-a-uuid/approve", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, res.status)

	// rejected students keep a valid token but cannot use student routes
	res = e.call(t, http.MethodGet, "/api/enrollments/me", rejected["access_token"].(string), nil)
	assert.Equal(t, http.StatusForbidden, res.status)
	assert.Equal(t, "account not approved", res.object(t)["detail"])
}

func TestProgramEnrollmentScenario(t *testing.T) {
	e := newEnv(t)
	adminToken := e.adminToken(t)
	_, studentToken := e.approvedStudent(t, "s@x.com", adminToken)

	res := e.call(t, http.MethodPost, "/api/admin/programs", adminToken, map[string]any{
		"name":        "Robotics",
		"description": "Build robots",
		"tagline":     "Beep",
	})
	require.Equal(t, http.StatusCreated, res.status, string(res.raw))
	program := res.object(t)
	programID := program["id"].(string)
	assert.Equal(t, "#3B82F6", program["theme_color"])
	assert.Equal(t, true, program["is_active"])

	res = e.call(t, http.MethodPost, "/api/admin/programs", studentToken, map[string]any{"name": "x", "description": "y"})
	assert.Equal(t, http.StatusForbidden, res.status)

	res = e.call(t, http.MethodGet, "/api/programs", "", nil)
	require.Equal(t, http.StatusOK, res.status)
	assert.Len(t, res.list(t), 1)

	res = e.call(t, http.MethodPost, "/api/enrollments", studentToken, map[string]any{"program_id": programID})
	require.Equal(t, http.StatusCreated, res.status, string(res.raw))
	enrollment := res.object(t)
	assert.Equal(t, "pending", enrollment["status"])
	enrollmentID := enrollment["id"].(string)

	res = e.call(t, http.MethodPost, "/api/enrollments", studentToken, map[string]any{"program_id": programID})
	assert.Equal(t, http.StatusConflict, res.status)
	assert.Equal(t, "ALREADY_ENROLLED", res.object(t)["code"])

	res = e.call(t, http.MethodPost, "/api/enrollments", adminToken, map[string]any{"program_id": programID})
	assert.Equal(t, http.StatusForbidden, res.status)

	res = e.call(t, http.MethodGet, "/api/admin/enrollments?status=pending", adminToken, nil)
	require.Equal(t, http.StatusOK, res.status)
	listed := res.list(t)
	require.Len(t, listed, 1)
	assert.Equal(t, "User s@x.com", listed[0]["student_name"])
	assert.Equal(t, "Robotics", listed[0]["program_name"])

	res = e.call(t, http.MethodPost, "/api/admin/enrollments/"+enrollmentID+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, res.status, string(res.raw))
	assert.Equal(t, "approved", res.object(t)["status"])

	res = e.call(t, http.MethodPost, "/api/admin/enrollments/"+enrollmentID+"/reject", adminToken, nil)
	assert.Equal(t, http.StatusConflict, res.status)

	res = e.call(t, http.MethodGet, "/api/programs/"+programID, "", nil)
	require.Equal(t, http.StatusOK, res.status)
	assert.EqualValues(t, 1, res.object(t)["enrolled_count"])

	res = e.call(t, http.MethodGet, "/api/enrollments/me", studentToken, nil)
	require.Equal(t, http.StatusOK, res.status)
	mine := res.list(t)
	require.Len(t, mine, 1)
	assert.Equal(t, "approved", mine[0]["status"])

	res = e.call(t, http.MethodDelete, "/api/admin/programs/"+programID, adminToken, nil)
	require.Equal(t, http.StatusOK, res.status)

	res = e.call(t, http.MethodGet, "/api/programs", "", nil)
	assert.Empty(t, res.list(t))

	res = e.call(t, http.MethodGet, "/api/admin/programs", adminToken, nil)
	assert.Len(t, res.list(t), 1)
}

func TestProgramUpdateIsPartial(t *testing.T) {
	e := newEnv(t)
	adminToken := e.adminToken(t)

	res := e.call(t, http.MethodPost, "/api/admin/programs", adminToken, map[string]any{
		"name":        "Art",
		"description": "Paint",
	})
	require.Equal(t, http.StatusCreated, res.status)
	programID := res.object(t)["id"].(string)

	res = e.call(t, http.MethodPut, "/api/admin/programs/"+programID, adminToken, map[string]any{"tagline": "Colors"})
	require.Equal(t, http.StatusOK, res.status, string(res.raw))
	updated := res.object(t)
	assert.Equal(t, "Art", updated["name"])
	assert.Equal(t, "Colors", updated["tagline"])

	res = e.call(t, http.MethodPut, "/api/admin/programs/"+programID, adminToken, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, res.status)
	assert.Equal(t, "EMPTY_UPDATE", res.object(t)["code"])

	res = e.call(t, http.MethodPut, "/api/admin/programs/"+programID, adminToken, map[string]any{"theme_color": "blue"})
	assert.Equal(t, http.StatusBadRequest, res.status)

	res = e.call(t, http.MethodGet, "/api/programs/00000000-0000-0000-0000-000000000000", "", nil)
	assert.Equal(t, http.StatusNotFound, res.status)
}

func TestTabsCRUD(t *testing.T) {
	e := newEnv(t)
	adminToken := e.adminToken(t)

	res := e.call(t, http.MethodPost, "/api/admin/program-tabs", adminToken, map[string]any{
		"title":              "Why us",
		"description":        "Because",
		"border_color_light": "#fff",
		"border_color_dark":  "#000",
	})
	require.Equal(t, http.StatusCreated, res.status, string(res.raw))
	tab := res.object(t)
	assert.Equal(t, "informational", tab["type"])
	tabID := tab["id"].(string)

	res = e.call(t, http.MethodPut, "/api/admin/program-tabs/"+tabID, adminToken, map[string]any{"type": "featured"})
	require.Equal(t, http.StatusOK, res.status, string(res.raw))
	assert.Equal(t, "featured", res.object(t)["type"])
	assert.Equal(t, "Why us", res.object(t)["title"])

	res = e.call(t, http.MethodGet, "/api/program-tabs", "", nil)
	require.Equal(t, http.StatusOK, res.status)
	assert.Len(t, res.list(t), 1)

	res = e.call(t, http.MethodDelete, "/api/admin/program-tabs/"+tabID, adminToken, nil)
	require.Equal(t, http.StatusOK, res.status)

	res = e.call(t, http.MethodDelete, "/api/admin/program-tabs/"+tabID, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, res.status)

	res = e.call(t, http.MethodPost, "/api/admin/stat-tabs", adminToken, map[string]any{
		"title":              "Students",
		"value":              "500+",
		"border_color_light": "#fff",
		"border_color_dark":  "#000",
	})
	require.Equal(t, http.StatusCreated, res.status, string(res.raw))
	assert.Equal(t, "500+", res.object(t)["value"])

	res = e.call(t, http.MethodPost, "/api/admin/stat-tabs", adminToken, map[string]any{"title": "Missing value"})
	assert.Equal(t, http.StatusBadRequest, res.status)

	res = e.call(t, http.MethodGet, "/api/stat-tabs", "", nil)
	assert.Len(t, res.list(t), 1)
}

func TestContentScenario(t *testing.T) {
	e := newEnv(t)
	adminToken := e.adminToken(t)

	res := e.call(t, http.MethodGet, "/api/content/landing_hero_title", "", nil)
	assert.Equal(t, http.StatusNotFound, res.status)

	res = e.call(t, http.MethodPut, "/api/admin/content/landing_hero_title", adminToken, map[string]any{"value": "Welcome"})
	require.Equal(t, http.StatusOK, res.status, string(res.raw))
	assert.Equal(t, "text", res.object(t)["type"])

	res = e.call(t, http.MethodPut, "/api/admin/content/landing_hero_title", adminToken, map[string]any{"value": "Hello", "type": "html"})
	require.Equal(t, http.StatusOK, res.status)

	res = e.call(t, http.MethodGet, "/api/content/landing_hero_title", "", nil)
	require.Equal(t, http.StatusOK, res.status)
	item := res.object(t)
	assert.Equal(t, "Hello", item["value"])
	assert.Equal(t, "html", item["type"])

	res = e.call(t, http.MethodPut, "/api/admin/content/BadKey", adminToken, map[string]any{"value": "x"})
	assert.Equal(t, http.StatusBadRequest, res.status)

	res = e.call(t, http.MethodGet, "/api/admin/content", adminToken, nil)
	assert.Len(t, res.list(t), 1)

	res = e.call(t, http.MethodDelete, "/api/admin/content/landing_hero_title", adminToken, nil)
	require.Equal(t, http.StatusOK, res.status)

	res = e.call(t, http.MethodDelete, "/api/admin/content/landing_hero_title", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, res.status)
}
