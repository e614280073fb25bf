package database

import (
	"errors"

	"cammanager/internal/constants"
	"cammanager/internal/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedDefaults populates an empty database with the built-in admin/staff
// pair and the default status/type taxonomies. Existing data is left
// untouched, so this is safe to run on every start.
func SeedDefaults(db *gorm.DB) error {
	var userCount int64
	if err := db.Model(&User{}).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount == 0 {
		adminHash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		staffHash, err := bcrypt.GenerateFromPassword([]byte("staff"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		users := []User{
			{
				ID:           uuid.NewString(),
				Username:     "admin",
				PasswordHash: string(adminHash),
				FullName:     "Administrator",
				Role:         constants.RoleAdmin,
			},
			{
				ID:           uuid.NewString(),
				Username:     "staff",
				PasswordHash: string(staffHash),
				FullName:     "Warehouse Staff",
				Role:         constants.RoleUser,
			},
		}
		if err := db.Create(&users).Error; err != nil {
			return err
		}
		logger.DB.Info().Msg("seeded default admin/staff accounts")
	}

	return seedTaxonomies(db)
}

// BootstrapAdmin creates or resets an admin account from the CLI flags,
// so a locked-out operator can recover without touching the database.
func BootstrapAdmin(db *gorm.DB, username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	var user User
	err = db.Where("username = ?", username).First(&user).Error
	switch {
	case err == nil:
		user.PasswordHash = string(hash)
		user.Role = constants.RoleAdmin
		if err := db.Save(&user).Error; err != nil {
			return err
		}
		logger.DB.Info().Str("username", username).Msg("bootstrap admin password reset")
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = User{
			ID:           uuid.NewString(),
			Username:     username,
			PasswordHash: string(hash),
			FullName:     "Administrator",
			Role:         constants.RoleAdmin,
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
		logger.DB.Info().Str("username", username).Msg("bootstrap admin account created")
	default:
		return err
	}
	return nil
}

func seedTaxonomies(db *gorm.DB) error {
	var taxCount int64
	if err := db.Model(&TaxonomyEntry{}).Count(&taxCount).Error; err != nil {
		return err
	}
	if taxCount == 0 {
		var entries []TaxonomyEntry
		for _, s := range constants.DefaultStatuses {
			entries = append(entries, TaxonomyEntry{Kind: constants.KindStatus, Name: s})
		}
		for _, t := range constants.DefaultTypes {
			entries = append(entries, TaxonomyEntry{Kind: constants.KindType, Name: t})
		}
		if err := db.Create(&entries).Error; err != nil {
			return err
		}
		logger.DB.Info().Int("entries", len(entries)).Msg("seeded default taxonomies")
	}

	return nil
}
