package inventory

import (
	"errors"
	"fmt"
	"strings"

	"cammanager/internal/constants"
	"cammanager/internal/database"
	"cammanager/internal/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListCameras returns cameras visible under the given scope.
func (s *Service) ListCameras(scope Scope) ([]database.Camera, error) {
	var cams []database.Camera
	if err := s.db.Order("created_at asc").Find(&cams).Error; err != nil {
		return nil, err
	}
	return FilterCameras(scope, cams), nil
}

// SaveCamera inserts or updates a camera. An existing id means update:
// the field-level diff goes into the audit entry. A new id means insert,
// gated on case-insensitive IP uniqueness. Either path commits the record
// and its audit entry atomically.
func (s *Service) SaveCamera(data *database.Camera, username string) (*database.Camera, error) {
	data.Name = strings.TrimSpace(data.Name)
	data.IP = strings.TrimSpace(data.IP)
	data.IPNorm = database.NormalizeIP(data.IP)

	var statusChanged bool
	var oldStatus string
	var logged *database.AuditLog

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing *database.Camera
		if data.ID != "" {
			var c database.Camera
			err := tx.Where("id = ?", data.ID).First(&c).Error
			switch {
			case err == nil:
				existing = &c
			case errors.Is(err, gorm.ErrRecordNotFound):
				// treated as insert below
			default:
				return err
			}
		}

		// IP uniqueness holds across inserts and IP-changing updates.
		var dup database.Camera
		q := tx.Where("ip_norm = ?", data.IPNorm)
		if data.ID != "" {
			q = q.Where("id <> ?", data.ID)
		}
		if err := q.First(&dup).Error; err == nil {
			return ErrDuplicateIP
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if existing != nil {
			details := changeSummary(diffCameras(existing, data))
			if existing.Status != data.Status {
				statusChanged = true
				oldStatus = existing.Status
			}
			data.CreatedAt = existing.CreatedAt
			if err := tx.Save(data).Error; err != nil {
				return err
			}
			var err error
			logged, err = audit(tx, constants.ActionEdit, constants.TargetCamera, data.Name, details, username)
			return err
		}

		if data.ID == "" {
			data.ID = uuid.NewString()
		}
		if err := tx.Create(data).Error; err != nil {
			return err
		}
		var err error
		logged, err = audit(tx, constants.ActionAdd, constants.TargetCamera, data.Name,
			fmt.Sprintf("created (ip %s)", data.IP), username)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.emit(constants.ChannelInventory, "camera.saved", data)
	s.emitAudit(logged)
	if statusChanged {
		s.notify("Camera status changed",
			fmt.Sprintf("%s (%s): %s → %s", data.Name, data.IP, oldStatus, data.Status))
	}
	logger.Inventory.Info().Str("camera", data.Name).Str("ip", data.IP).Msg("camera saved")
	return data, nil
}

// DeleteCamera removes a camera, its map position, and logs the deletion.
// A missing id is a silent no-op.
func (s *Service) DeleteCamera(id, username string) error {
	var deleted bool
	var logged *database.AuditLog
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var cam database.Camera
		if err := tx.Where("id = ?", id).First(&cam).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Delete(&database.Camera{}, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&database.CameraPosition{}, "camera_id = ?", id).Error; err != nil {
			return err
		}
		deleted = true
		var err error
		logged, err = audit(tx, constants.ActionDelete, constants.TargetCamera, cam.Name,
			fmt.Sprintf("deleted (ip %s)", cam.IP), username)
		return err
	})
	if err != nil {
		return err
	}
	if deleted {
		s.emit(constants.ChannelInventory, "camera.deleted", map[string]string{"id": id})
		s.emitAudit(logged)
		logger.Inventory.Info().Str("id", id).Msg("camera deleted")
	}
	return nil
}
