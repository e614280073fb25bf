package inventory

import (
	"testing"

	"cammanager/internal/constants"
	"cammanager/internal/database"

	"github.com/stretchr/testify/assert"
)

func testCameras() []database.Camera {
	return []database.Camera{
		{ID: "c1", Name: "Cam 1", Location: "Lobby"},
		{ID: "c2", Name: "Cam 2", Location: "Garage"},
		{ID: "c3", Name: "Cam 3", Location: "Lobby"},
	}
}

func TestScopeFor_Admin(t *testing.T) {
	scope := ScopeFor(newUser(constants.RoleAdmin))
	assert.True(t, scope.All)

	cams := testCameras()
	assert.Equal(t, cams, FilterCameras(scope, cams))
}

func TestScopeFor_AdminIgnoresAllowedLocations(t *testing.T) {
	// an admin's grant list is irrelevant, even when non-empty
	scope := ScopeFor(newUser(constants.RoleAdmin, "Garage"))
	assert.True(t, scope.All)
	assert.Len(t, FilterCameras(scope, testCameras()), 3)
}

func TestScopeFor_UserFiltersByLocation(t *testing.T) {
	scope := ScopeFor(newUser(constants.RoleUser, "Lobby"))

	filtered := FilterCameras(scope, testCameras())
	assert.Len(t, filtered, 2)
	for _, c := range filtered {
		assert.Equal(t, "Lobby", c.Location)
	}
}

func TestScopeFor_UserWithNoGrantsSeesNothing(t *testing.T) {
	// empty allowedLocations fails closed: nothing, not everything
	scope := ScopeFor(newUser(constants.RoleUser))
	assert.Empty(t, FilterCameras(scope, testCameras()))
}

func TestScopeFor_NilUserSeesNothing(t *testing.T) {
	scope := ScopeFor(nil)
	assert.Empty(t, FilterCameras(scope, testCameras()))
}

func TestFilterRecorders(t *testing.T) {
	recs := []database.Recorder{
		{ID: "r1", Location: "Lobby"},
		{ID: "r2", Location: "Garage"},
	}

	scope := ScopeFor(newUser(constants.RoleUser, "Garage"))
	filtered := FilterRecorders(scope, recs)
	assert.Len(t, filtered, 1)
	assert.Equal(t, "r2", filtered[0].ID)

	assert.Equal(t, recs, FilterRecorders(ScopeFor(newUser(constants.RoleAdmin)), recs))
}
