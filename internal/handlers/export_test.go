package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cammanager/internal/constants"
	"cammanager/internal/database"
	"cammanager/internal/inventory"
	"cammanager/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedExportFixture(t *testing.T, svc *inventory.Service) *database.Recorder {
	t.Helper()
	rec, err := svc.SaveRecorder(&database.Recorder{Name: "NVR-1", IP: "10.0.1.1", Location: "Lobby"}, "tester")
	require.NoError(t, err)

	_, err = svc.SaveCamera(&database.Camera{Name: "Cam Lobby", IP: "10.0.0.1", Location: "Lobby", RecorderID: rec.ID}, "tester")
	require.NoError(t, err)
	_, err = svc.SaveCamera(&database.Camera{Name: "Cam Garage", IP: "10.0.0.2", Location: "Garage"}, "tester")
	require.NoError(t, err)
	return rec
}

func TestExportCameras_HonorsScope(t *testing.T) {
	cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	svc := inventory.NewService(database.DB)
	seedExportFixture(t, svc)

	user := createTestUser(t, "bob", "secret", constants.RoleUser)
	user.SetLocations([]string{"Lobby"})
	require.NoError(t, database.NewUserRepo().Save(user))

	handler := NewExportHandler(svc)
	req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/export/cameras", nil), user)
	w := httptest.NewRecorder()

	handler.ExportCameras(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "cammanager_cameras_")

	body := w.Body.String()
	// UTF-8 BOM leads the payload so Excel picks up the encoding
	assert.True(t, strings.HasPrefix(body, "\xef\xbb\xbf"))
	assert.Contains(t, body, "Cam Lobby")
	assert.Contains(t, body, "NVR-1")
	assert.NotContains(t, body, "Cam Garage")
}

func TestExportCameras_DanglingRecorderName(t *testing.T) {
	cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	svc := inventory.NewService(database.DB)
	rec := seedExportFixture(t, svc)
	require.NoError(t, svc.DeleteRecorder(rec.ID, "tester"))

	admin := createTestUser(t, "admin", "password123", constants.RoleAdmin)
	handler := NewExportHandler(svc)
	req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/export/cameras", nil), admin)
	w := httptest.NewRecorder()

	handler.ExportCameras(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), constants.UnknownRecorder)
}

func TestExportRecorders(t *testing.T) {
	cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	svc := inventory.NewService(database.DB)
	seedExportFixture(t, svc)

	admin := createTestUser(t, "admin", "password123", constants.RoleAdmin)
	handler := NewExportHandler(svc)
	req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/export/recorders", nil), admin)
	w := httptest.NewRecorder()

	handler.ExportRecorders(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "cammanager_recorders_")
	assert.Contains(t, w.Body.String(), "NVR-1")
}
