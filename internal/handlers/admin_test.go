package handlers

import (
	"net/http"
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAdminHandler_RegisterAndLogin(t *testing.T) {
	env := setupPortalTestEnv(t)

	w := env.doJSON(t, http.MethodPost, "/api/admin/register", "", map[string]any{
		"username": "root",
		"email":    "root@example.com",
		"phone":    "555-0100",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	require.NotEmpty(t, body["token"])
	admin := body["admin"].(map[string]any)
	require.Equal(t, "root", admin["username"])
	require.Equal(t, "admin", admin["role"])

	// The sanitized view never carries credential material.
	_, leaked := admin["password_hash"]
	require.False(t, leaked)

	w = env.doJSON(t, http.MethodPost, "/api/admin/login", "", map[string]any{
		"username": "root",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, w.Result().Cookies(), "login must bind a session cookie")

	w = env.doJSON(t, http.MethodPost, "/api/admin/login", "", map[string]any{
		"username": "root",
		"password": "wrongpassword",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminHandler_RegisterDuplicateConflicts(t *testing.T) {
	env := setupPortalTestEnv(t)
	seedTestAdmin(t, env, "root")

	w := env.doJSON(t, http.MethodPost, "/api/admin/register", "", map[string]any{
		"username": "root",
		"email":    "other@example.com",
		"phone":    "555-0100",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAdminHandler_ProfileRequiresAuth(t *testing.T) {
	env := setupPortalTestEnv(t)

	w := env.doJSON(t, http.MethodGet, "/api/admin/profile", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	admin := seedTestAdmin(t, env, "root")
	w = env.doJSON(t, http.MethodGet, "/api/admin/profile", env.tokenFor(t, admin), nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAdminHandler_ManagerTokenOnAdminRoute(t *testing.T) {
	env := setupPortalTestEnv(t)
	manager := seedTestManager(t, env, "mgr", true)

	w := env.doJSON(t, http.MethodGet, "/api/admin/profile", env.tokenFor(t, manager), nil)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminHandler_AddManager(t *testing.T) {
	env := setupPortalTestEnv(t)
	admin := seedTestAdmin(t, env, "root")
	token := env.tokenFor(t, admin)

	w := env.doJSON(t, http.MethodPost, "/api/admin/add-manager", token, map[string]any{
		"username":   "mgr",
		"email":      "mgr@example.com",
		"phone":      "555-0100",
		"department": "Engineering",
		"password":   "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	manager := body["manager"].(map[string]any)
	require.Equal(t, "mgr", manager["username"])
	require.Equal(t, true, manager["is_active"])
	require.EqualValues(t, admin.ID, manager["created_by"])

	// Welcome mail went to the new manager with the initial password.
	require.Len(t, env.mailer.sent, 1)
	require.Equal(t, "mgr@example.com", env.mailer.sent[0].To)
	require.Contains(t, env.mailer.sent[0].Body, "supersecret")
}

func TestAdminHandler_Listings(t *testing.T) {
	env := setupPortalTestEnv(t)
	admin := seedTestAdmin(t, env, "root")
	mgrA := seedTestManager(t, env, "mgr-a", true)
	mgrB := seedTestManager(t, env, "mgr-b", true)
	seedTestEmployee(t, env, "e1", mgrA.ID, true)
	seedTestEmployee(t, env, "e2", mgrB.ID, true)
	token := env.tokenFor(t, admin)

	w := env.doJSON(t, http.MethodGet, "/api/admin/managers", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	require.Len(t, body["managers"], 2)

	w = env.doJSON(t, http.MethodGet, "/api/admin/employees", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	require.Len(t, body["employees"], 2)
}

func TestAdminHandler_Dashboard(t *testing.T) {
	env := setupPortalTestEnv(t)
	admin := seedTestAdmin(t, env, "root")
	mgr := seedTestManager(t, env, "mgr", true)
	seedTestManager(t, env, "off-mgr", false)
	seedTestEmployee(t, env, "emp", mgr.ID, true)

	w := env.doJSON(t, http.MethodGet, "/api/admin/dashboard", env.tokenFor(t, admin), nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	stats := body["stats"].(map[string]any)
	require.EqualValues(t, 2, stats["total_managers"])
	require.EqualValues(t, 1, stats["active_managers"])
	require.EqualValues(t, 1, stats["inactive_managers"])
	require.EqualValues(t, 1, stats["total_employees"])
	require.EqualValues(t, 1, stats["active_employees"])
}

func TestAdminHandler_ToggleManagerStatus(t *testing.T) {
	env := setupPortalTestEnv(t)
	admin := seedTestAdmin(t, env, "root")
	manager := seedTestManager(t, env, "mgr", true)
	token := env.tokenFor(t, admin)

	path := "/api/admin/managers/" + strconv.FormatUint(manager.ID, 10) + "/toggle-status"
	w := env.doJSON(t, http.MethodPut, path, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.Contains(t, body["message"], "deactivated")
	require.Equal(t, false, body["manager"].(map[string]any)["is_active"])

	// Deactivated manager can no longer log in.
	w = env.doJSON(t, http.MethodPost, "/api/manager/login", "", map[string]any{
		"username": "mgr",
		"password": "supersecret",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.doJSON(t, http.MethodPut, path, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, decodeBody(t, w)["manager"].(map[string]any)["is_active"])

	w = env.doJSON(t, http.MethodPut, "/api/admin/managers/9999/toggle-status", token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminHandler_UpdateEmployeeReassignsManager(t *testing.T) {
	env := setupPortalTestEnv(t)
	admin := seedTestAdmin(t, env, "root")
	mgrA := seedTestManager(t, env, "mgr-a", true)
	mgrB := seedTestManager(t, env, "mgr-b", true)
	emp := seedTestEmployee(t, env, "emp", mgrA.ID, true)
	token := env.tokenFor(t, admin)

	path := "/api/admin/employees/" + strconv.FormatUint(emp.ID, 10)
	w := env.doJSON(t, http.MethodPut, path, token, map[string]any{
		"manager_id": mgrB.ID,
		"position":   "Senior Developer",
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	employee := body["employee"].(map[string]any)
	require.EqualValues(t, mgrB.ID, employee["manager_id"])
	require.Equal(t, "Senior Developer", employee["position"])
}

func TestAdminHandler_ForgotAndResetPassword(t *testing.T) {
	env := setupPortalTestEnv(t)
	seedTestAdmin(t, env, "root")

	w := env.doJSON(t, http.MethodPost, "/api/admin/forgot-password", "", map[string]any{
		"email": "root@example.com",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, env.mailer.sent, 1)

	re := regexp.MustCompile(`/reset-password/([0-9a-f]{64})`)
	m := re.FindStringSubmatch(env.mailer.sent[0].Body)
	require.Len(t, m, 2)

	w = env.doJSON(t, http.MethodPost, "/api/admin/reset-password", "", map[string]any{
		"token":        m[1],
		"new_password": "brandnewpass",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.doJSON(t, http.MethodPost, "/api/admin/login", "", map[string]any{
		"username": "root",
		"password": "brandnewpass",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Token is single use.
	w = env.doJSON(t, http.MethodPost, "/api/admin/reset-password", "", map[string]any{
		"token":        m[1],
		"new_password": "anotherpass",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminHandler_ForgotPasswordUnknownEmail(t *testing.T) {
	env := setupPortalTestEnv(t)

	w := env.doJSON(t, http.MethodPost, "/api/admin/forgot-password", "", map[string]any{
		"email": "nobody@example.com",
	})
	require.Equal(t, http.StatusNotFound, w.Code)
}
