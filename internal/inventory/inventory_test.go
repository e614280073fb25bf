package inventory

import (
	"testing"

	"cammanager/internal/constants"
	"cammanager/internal/database"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupService creates a Service over an in-memory SQLite database.
func setupService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "failed to create test database")

	require.NoError(t, database.AutoMigrate(db), "failed to migrate test database")

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	})
	return NewService(db), db
}

func mustAddCamera(t *testing.T, svc *Service, name, ip, location, status, typ string) *database.Camera {
	t.Helper()
	cam, err := svc.SaveCamera(&database.Camera{
		Name: name, IP: ip, Location: location, Status: status, Type: typ,
	}, "tester")
	require.NoError(t, err)
	return cam
}

func auditCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&database.AuditLog{}).Count(&n).Error)
	return n
}

func lastAudit(t *testing.T, db *gorm.DB) database.AuditLog {
	t.Helper()
	var entry database.AuditLog
	require.NoError(t, db.Order("id desc").First(&entry).Error)
	return entry
}

func addTaxonomy(t *testing.T, svc *Service, kind, name string) {
	t.Helper()
	_, err := svc.AddTaxonomyEntry(kind, name, "tester")
	require.NoError(t, err)
}

func newUser(role string, locations ...string) *database.User {
	u := &database.User{ID: uuid.NewString(), Username: "u-" + uuid.NewString()[:8], Role: role}
	u.SetLocations(locations)
	return u
}

func seedLocation(t *testing.T, svc *Service, names ...string) {
	t.Helper()
	for _, n := range names {
		addTaxonomy(t, svc, constants.KindLocation, n)
	}
}
