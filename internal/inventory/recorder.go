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

// ListRecorders returns recorders visible under the given scope.
func (s *Service) ListRecorders(scope Scope) ([]database.Recorder, error) {
	var recs []database.Recorder
	if err := s.db.Order("created_at asc").Find(&recs).Error; err != nil {
		return nil, err
	}
	return FilterRecorders(scope, recs), nil
}

// SaveRecorder follows the same insert/update/diff/audit pattern as
// SaveCamera, without the IP-uniqueness gate.
func (s *Service) SaveRecorder(data *database.Recorder, username string) (*database.Recorder, error) {
	data.Name = strings.TrimSpace(data.Name)
	data.IP = strings.TrimSpace(data.IP)

	var logged *database.AuditLog
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing *database.Recorder
		if data.ID != "" {
			var rec database.Recorder
			err := tx.Where("id = ?", data.ID).First(&rec).Error
			switch {
			case err == nil:
				existing = &rec
			case errors.Is(err, gorm.ErrRecordNotFound):
			default:
				return err
			}
		}

		if existing != nil {
			details := changeSummary(diffRecorders(existing, data))
			data.CreatedAt = existing.CreatedAt
			if err := tx.Save(data).Error; err != nil {
				return err
			}
			var err error
			logged, err = audit(tx, constants.ActionEdit, constants.TargetRecorder, data.Name, details, username)
			return err
		}

		if data.ID == "" {
			data.ID = uuid.NewString()
		}
		if err := tx.Create(data).Error; err != nil {
			return err
		}
		var err error
		logged, err = audit(tx, constants.ActionAdd, constants.TargetRecorder, data.Name,
			fmt.Sprintf("created (ip %s)", data.IP), username)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.emit(constants.ChannelInventory, "recorder.saved", data)
	s.emitAudit(logged)
	logger.Inventory.Info().Str("recorder", data.Name).Msg("recorder saved")
	return data, nil
}

// DeleteRecorder removes a recorder. Cameras keep their recorder_id as-is:
// the reference is resolved at display time, so a dangling id degrades to
// an unknown recorder rather than blocking the delete.
func (s *Service) DeleteRecorder(id, username string) error {
	var deleted bool
	var logged *database.AuditLog
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var rec database.Recorder
		if err := tx.Where("id = ?", id).First(&rec).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Delete(&database.Recorder{}, "id = ?", id).Error; err != nil {
			return err
		}
		deleted = true
		var err error
		logged, err = audit(tx, constants.ActionDelete, constants.TargetRecorder, rec.Name,
			fmt.Sprintf("deleted (ip %s)", rec.IP), username)
		return err
	})
	if err != nil {
		return err
	}
	if deleted {
		s.emit(constants.ChannelInventory, "recorder.deleted", map[string]string{"id": id})
		s.emitAudit(logged)
		logger.Inventory.Info().Str("id", id).Msg("recorder deleted")
	}
	return nil
}
