package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"cammanager/internal/constants"
	"cammanager/internal/database"
	"cammanager/internal/testutil"
	"cammanager/internal/web"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// authed attaches a user's identity the way AuthMiddleware would.
func authed(req *http.Request, user *database.User) *http.Request {
	return web.SetUserInfo(req, user.ID, user.Username, user.Role)
}

func userCount(t *testing.T) int64 {
	t.Helper()
	n, err := database.NewUserRepo().Count()
	require.NoError(t, err)
	return n
}

func TestSaveUser_BlankFullName(t *testing.T) {
	cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	admin := createTestUser(t, "admin", "password123", constants.RoleAdmin)
	handler := NewUserHandler()

	body := `{"username":"bob","fullName":"","role":"user","password":"secret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", bytes.NewBufferString(body))
	req = authed(req, admin)
	w := httptest.NewRecorder()

	handler.Save(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	// no insertion on validation failure
	assert.EqualValues(t, 1, userCount(t))
}

func TestSaveUser_WhitespaceUsername(t *testing.T) {
	cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	admin := createTestUser(t, "admin", "password123", constants.RoleAdmin)
	handler := NewUserHandler()

	body := `{"username":"bob smith","fullName":"Bob Smith","role":"user","password":"secret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", bytes.NewBufferString(body))
	req = authed(req, admin)
	w := httptest.NewRecorder()

	handler.Save(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaveUser_NewUserNeedsPassword(t *testing.T) {
	cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	admin := createTestUser(t, "admin", "password123", constants.RoleAdmin)
	handler := NewUserHandler()

	body := `{"username":"bob","fullName":"Bob Smith","role":"user"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", bytes.NewBufferString(body))
	req = authed(req, admin)
	w := httptest.NewRecorder()

	handler.Save(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.EqualValues(t, 1, userCount(t))
}

func TestSaveUser_DuplicateUsername(t *testing.T) {
	cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	admin := createTestUser(t, "admin", "password123", constants.RoleAdmin)
	createTestUser(t, "bob", "secret", constants.RoleUser)
	handler := NewUserHandler()

	body := `{"username":"bob","fullName":"Another Bob","role":"user","password":"secret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", bytes.NewBufferString(body))
	req = authed(req, admin)
	w := httptest.NewRecorder()

	handler.Save(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.EqualValues(t, 2, userCount(t))
}

func TestSaveUser_Insert(t *testing.T) {
	cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	admin := createTestUser(t, "admin", "password123", constants.RoleAdmin)
	handler := NewUserHandler()

	body := `{"username":"bob","fullName":"Bob Smith","role":"user","password":"secret","allowedLocations":["Lobby"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", bytes.NewBufferString(body))
	req = authed(req, admin)
	w := httptest.NewRecorder()

	handler.Save(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	user, err := database.NewUserRepo().FindByUsername("bob")
	require.NoError(t, err)
	assert.Equal(t, "Bob Smith", user.FullName)
	assert.Equal(t, []string{"Lobby"}, user.Locations())
}

func TestDeleteUser_SelfDeleteRefused(t *testing.T) {
	cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	admin := createTestUser(t, "admin", "password123", constants.RoleAdmin)
	handler := NewUserHandler()

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/users?id="+admin.ID, nil)
	req = authed(req, admin)
	w := httptest.NewRecorder()

	handler.Delete(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.EqualValues(t, 1, userCount(t))
}

func TestDeleteUser_Success(t *testing.T) {
	cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	admin := createTestUser(t, "admin", "password123", constants.RoleAdmin)
	victim := createTestUser(t, "bob", "secret", constants.RoleUser)
	handler := NewUserHandler()

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/users?id="+victim.ID, nil)
	req = authed(req, admin)
	w := httptest.NewRecorder()

	handler.Delete(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, userCount(t))
}
