package inventory

import (
	"testing"

	"cammanager/internal/constants"
	"cammanager/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddTaxonomyEntry(t *testing.T) {
	svc, _ := setupService(t)

	entry, err := svc.AddTaxonomyEntry(constants.KindLocation, "  Lobby  ", "tester")
	require.NoError(t, err)
	assert.Equal(t, "Lobby", entry.Name)

	_, err = svc.AddTaxonomyEntry(constants.KindLocation, "lobby", "tester")
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, err = svc.AddTaxonomyEntry(constants.KindLocation, "   ", "tester")
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = svc.AddTaxonomyEntry("color", "Red", "tester")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestRenameTaxonomyEntry_Cascades(t *testing.T) {
	svc, db := setupService(t)

	seedLocation(t, svc, "Lobby", "Garage")
	mustAddCamera(t, svc, "Cam 1", "10.0.0.1", "Lobby", "", "")
	mustAddCamera(t, svc, "Cam 2", "10.0.0.2", "Lobby", "", "")
	mustAddCamera(t, svc, "Cam 3", "10.0.0.3", "Garage", "", "")
	_, err := svc.SaveRecorder(&database.Recorder{Name: "NVR-1", IP: "10.0.1.1", Location: "Lobby"}, "tester")
	require.NoError(t, err)

	require.NoError(t, svc.RenameTaxonomyEntry(constants.KindLocation, "Lobby", "Reception", "tester"))

	// registry no longer contains the old name
	var count int64
	db.Model(&database.TaxonomyEntry{}).Where("kind = ? AND name = ?", constants.KindLocation, "Lobby").Count(&count)
	assert.EqualValues(t, 0, count)

	// every referencing device follows the rename
	db.Model(&database.Camera{}).Where("location = ?", "Lobby").Count(&count)
	assert.EqualValues(t, 0, count)
	db.Model(&database.Camera{}).Where("location = ?", "Reception").Count(&count)
	assert.EqualValues(t, 2, count)
	db.Model(&database.Recorder{}).Where("location = ?", "Reception").Count(&count)
	assert.EqualValues(t, 1, count)

	entry := lastAudit(t, db)
	assert.Equal(t, constants.ActionEdit, entry.Action)
	assert.Contains(t, entry.Details, "2 cameras")
	assert.Contains(t, entry.Details, "1 recorders")
}

func TestRenameTaxonomyEntry_Collision(t *testing.T) {
	svc, _ := setupService(t)

	seedLocation(t, svc, "Lobby", "Garage")

	err := svc.RenameTaxonomyEntry(constants.KindLocation, "Lobby", "garage", "tester")
	assert.ErrorIs(t, err, ErrDuplicateName)

	err = svc.RenameTaxonomyEntry(constants.KindLocation, "Lobby", " ", "tester")
	assert.ErrorIs(t, err, ErrEmptyName)

	err = svc.RenameTaxonomyEntry(constants.KindLocation, "Attic", "Roof", "tester")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveTaxonomyEntry_InUse(t *testing.T) {
	svc, db := setupService(t)

	seedLocation(t, svc, "Lobby")
	mustAddCamera(t, svc, "Cam 1", "10.0.0.1", "Lobby", "", "")
	mustAddCamera(t, svc, "Cam 2", "10.0.0.2", "Lobby", "", "")
	_, err := svc.SaveRecorder(&database.Recorder{Name: "NVR-1", IP: "10.0.1.1", Location: "Lobby"}, "tester")
	require.NoError(t, err)

	before := auditCount(t, db)
	err = svc.RemoveTaxonomyEntry(constants.KindLocation, "Lobby", "tester")

	var inUse *InUseError
	require.ErrorAs(t, err, &inUse)
	assert.EqualValues(t, 2, inUse.Cameras)
	assert.EqualValues(t, 1, inUse.Recorders)

	// registry and audit trail untouched
	var count int64
	db.Model(&database.TaxonomyEntry{}).Where("kind = ?", constants.KindLocation).Count(&count)
	assert.EqualValues(t, 1, count)
	assert.Equal(t, before, auditCount(t, db))
}

func TestRemoveTaxonomyEntry_Unreferenced(t *testing.T) {
	svc, db := setupService(t)

	addTaxonomy(t, svc, constants.KindStatus, "Retired")
	require.NoError(t, svc.RemoveTaxonomyEntry(constants.KindStatus, "retired", "tester"))

	var count int64
	db.Model(&database.TaxonomyEntry{}).Count(&count)
	assert.EqualValues(t, 0, count)
	assert.Equal(t, constants.ActionDelete, lastAudit(t, db).Action)
}
