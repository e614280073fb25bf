package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cammanager/internal/constants"
	"cammanager/internal/database"
	"cammanager/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func createTestUser(t *testing.T, username, password, role string) *database.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &database.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		FullName:     "Test User",
		Role:         role,
	}
	require.NoError(t, database.NewUserRepo().Create(user))
	return user
}

func auditEntries(t *testing.T) []database.AuditLog {
	t.Helper()
	var entries []database.AuditLog
	require.NoError(t, database.DB.Find(&entries).Error)
	return entries
}

func TestLogin_Success(t *testing.T) {
	cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	createTestUser(t, "admin", "password123", constants.RoleAdmin)

	handler := NewAuthHandler(testutil.TestConfig())

	body := `{"username":"admin","password":"password123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.Login(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp["success"].(bool))
	data := resp["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])

	user := data["user"].(map[string]interface{})
	assert.Equal(t, "admin", user["username"])

	// a committed login lands in the audit trail
	entries := auditEntries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, constants.ActionAdd, entries[0].Action)
	assert.Equal(t, constants.TargetAccount, entries[0].TargetType)
	assert.Equal(t, "login", entries[0].Details)
}

func TestLogin_WrongPassword(t *testing.T) {
	cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	createTestUser(t, "admin", "password123", constants.RoleAdmin)

	handler := NewAuthHandler(testutil.TestConfig())

	body := `{"username":"admin","password":"wrongpassword"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.Login(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// failed attempts never reach the audit trail
	assert.Empty(t, auditEntries(t))
}

func TestLogin_UserNotFound(t *testing.T) {
	cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	handler := NewAuthHandler(testutil.TestConfig())

	body := `{"username":"nonexistent","password":"password123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.Login(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_EmptyCredentials(t *testing.T) {
	cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	handler := NewAuthHandler(testutil.TestConfig())

	body := `{"username":"","password":""}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.Login(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChangePassword_TooShort(t *testing.T) {
	cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	user := createTestUser(t, "admin", "password123", constants.RoleAdmin)

	handler := NewAuthHandler(testutil.TestConfig())

	body := `{"new_password":"ab"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/auth/password", bytes.NewBufferString(body))
	req = authed(req, user)
	w := httptest.NewRecorder()

	handler.ChangePassword(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChangePassword_Success(t *testing.T) {
	cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	user := createTestUser(t, "admin", "password123", constants.RoleAdmin)

	handler := NewAuthHandler(testutil.TestConfig())

	body := `{"new_password":"newpass"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/auth/password", bytes.NewBufferString(body))
	req = authed(req, user)
	w := httptest.NewRecorder()

	handler.ChangePassword(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	updated, err := database.NewUserRepo().FindByID(user.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("newpass")))
}
