package inventory

import (
	"testing"
	"time"

	"cammanager/internal/constants"
	"cammanager/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportCameras_SkipsDuplicatesAndEmptyIPs(t *testing.T) {
	svc, db := setupService(t)

	result, err := svc.ImportCameras([]ImportRow{
		{IP: "10.0.0.1", Name: "A"},
		{IP: "10.0.0.1", Name: "B"},
		{IP: ""},
	}, "tester")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Added)
	assert.Equal(t, 2, result.Skipped)
	assert.Equal(t, "warning", result.Outcome())

	var cams []database.Camera
	require.NoError(t, db.Find(&cams).Error)
	require.Len(t, cams, 1)
	assert.Equal(t, "A", cams[0].Name)

	// one aggregate audit entry, not one per row
	assert.EqualValues(t, 1, auditCount(t, db))
	assert.Contains(t, lastAudit(t, db).Details, "Imported 1 cameras, skipped 2")
}

func TestImportCameras_SkipsExistingIPs(t *testing.T) {
	svc, _ := setupService(t)

	mustAddCamera(t, svc, "Existing", "10.0.0.1", "", "", "")

	result, err := svc.ImportCameras([]ImportRow{
		{IP: " 10.0.0.1 ", Name: "Dup"},
		{IP: "10.0.0.2", Name: "New"},
	}, "tester")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Added)
	assert.Equal(t, 1, result.Skipped)
}

func TestImportCameras_Defaults(t *testing.T) {
	svc, db := setupService(t)

	addTaxonomy(t, svc, constants.KindStatus, "Active")
	addTaxonomy(t, svc, constants.KindType, "Dome")

	_, err := svc.ImportCameras([]ImportRow{{IP: "10.0.0.9"}}, "tester")
	require.NoError(t, err)

	var cam database.Camera
	require.NoError(t, db.First(&cam, "ip_norm = ?", "10.0.0.9").Error)
	assert.Equal(t, constants.ImportDefaultName, cam.Name)
	assert.Equal(t, "Active", cam.Status)
	assert.Equal(t, "Dome", cam.Type)
	assert.Equal(t, time.Now().Format("2006-01-02"), cam.InstallDate)
}

func TestImportCameras_AutoRegistersTaxonomies(t *testing.T) {
	svc, db := setupService(t)

	_, err := svc.ImportCameras([]ImportRow{
		{IP: "10.0.0.1", Location: "Rooftop", Type: "PTZ", Status: "Testing"},
	}, "tester")
	require.NoError(t, err)

	var count int64
	db.Model(&database.TaxonomyEntry{}).Where("kind = ? AND name = ?", constants.KindLocation, "Rooftop").Count(&count)
	assert.EqualValues(t, 1, count)
	db.Model(&database.TaxonomyEntry{}).Where("kind = ? AND name = ?", constants.KindType, "PTZ").Count(&count)
	assert.EqualValues(t, 1, count)
	db.Model(&database.TaxonomyEntry{}).Where("kind = ? AND name = ?", constants.KindStatus, "Testing").Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestImportCameras_CanonicalizesTaxonomyCase(t *testing.T) {
	svc, db := setupService(t)

	_, err := svc.ImportCameras([]ImportRow{
		{IP: "10.0.0.1", Location: "Rooftop"},
		{IP: "10.0.0.2", Location: "rooftop"},
	}, "tester")
	require.NoError(t, err)

	// one registry entry, both cameras on its exact spelling
	var count int64
	db.Model(&database.TaxonomyEntry{}).Where("kind = ?", constants.KindLocation).Count(&count)
	assert.EqualValues(t, 1, count)
	db.Model(&database.Camera{}).Where("location = ?", "Rooftop").Count(&count)
	assert.EqualValues(t, 2, count)

	// the rename cascade therefore reaches every imported camera
	require.NoError(t, svc.RenameTaxonomyEntry(constants.KindLocation, "Rooftop", "Roof", "tester"))
	db.Model(&database.Camera{}).Where("LOWER(location) = ?", "rooftop").Count(&count)
	assert.EqualValues(t, 0, count)
	db.Model(&database.Camera{}).Where("location = ?", "Roof").Count(&count)
	assert.EqualValues(t, 2, count)
}

func TestImportCameras_ResolvesRecorderByName(t *testing.T) {
	svc, db := setupService(t)

	rec, err := svc.SaveRecorder(&database.Recorder{Name: "NVR-1", IP: "10.0.1.1"}, "tester")
	require.NoError(t, err)

	_, err = svc.ImportCameras([]ImportRow{
		{IP: "10.0.0.1", RecorderName: " nvr-1 "},
		{IP: "10.0.0.2", RecorderName: "no-such-nvr"},
	}, "tester")
	require.NoError(t, err)

	var matched database.Camera
	require.NoError(t, db.First(&matched, "ip_norm = ?", "10.0.0.1").Error)
	assert.Equal(t, rec.ID, matched.RecorderID)

	var unmatched database.Camera
	require.NoError(t, db.First(&unmatched, "ip_norm = ?", "10.0.0.2").Error)
	assert.Empty(t, unmatched.RecorderID)
}

func TestImportResult_Outcome(t *testing.T) {
	assert.Equal(t, "success", ImportResult{Added: 3}.Outcome())
	assert.Equal(t, "warning", ImportResult{Added: 1, Skipped: 2}.Outcome())
	assert.Equal(t, "error", ImportResult{Skipped: 4}.Outcome())
	assert.Equal(t, "error", ImportResult{}.Outcome())
}
