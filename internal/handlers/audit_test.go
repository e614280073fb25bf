package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"cammanager/internal/constants"
	"cammanager/internal/database"
	"cammanager/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAuditFixture(t *testing.T) {
	t.Helper()
	repo := database.NewAuditLogRepo()
	require.NoError(t, repo.Create(&database.AuditLog{
		Action:     constants.ActionAdd,
		TargetType: constants.TargetCamera,
		TargetName: "Cam Lobby",
		Details:    "ip=10.0.0.1",
		Username:   "alice",
	}))
	require.NoError(t, repo.Create(&database.AuditLog{
		Action:     constants.ActionDelete,
		TargetType: constants.TargetCamera,
		TargetName: "Cam Garage",
		Details:    "ip=10.0.0.2",
		Username:   "bob",
	}))
}

func TestAuditList(t *testing.T) {
	cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	seedAuditFixture(t)

	handler := NewAuditHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit-logs", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Cam Lobby")
	assert.Contains(t, body, "Cam Garage")
}

func TestAuditList_KeywordMatchesNameAndDetails(t *testing.T) {
	cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	seedAuditFixture(t)

	handler := NewAuditHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit-logs?keyword=Lobby", nil)
	w := httptest.NewRecorder()
	handler.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Cam Lobby")
	assert.NotContains(t, body, "Cam Garage")

	// keyword also searches the details column
	req = httptest.NewRequest(http.MethodGet, "/api/v1/audit-logs?keyword=10.0.0.2", nil)
	w = httptest.NewRecorder()
	handler.List(w, req)

	body = w.Body.String()
	assert.Contains(t, body, "Cam Garage")
	assert.NotContains(t, body, "Cam Lobby")
}

func TestAuditList_FiltersByUsername(t *testing.T) {
	cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	seedAuditFixture(t)

	handler := NewAuditHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit-logs?username=alice", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	body := w.Body.String()
	assert.Contains(t, body, "Cam Lobby")
	assert.NotContains(t, body, "Cam Garage")
}
