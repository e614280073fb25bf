package inventory

import (
	"errors"
	"fmt"
	"strings"

	"cammanager/internal/constants"
	"cammanager/internal/database"
	"cammanager/internal/logger"

	"gorm.io/gorm"
)

// kindInfo maps a taxonomy kind to the device columns it cascades into
// and the audit target it is logged under. Only locations are shared
// with recorders.
type kindInfo struct {
	cameraCol   string
	recorderCol string
	target      string
}

func infoForKind(kind string) (kindInfo, error) {
	switch kind {
	case constants.KindLocation:
		return kindInfo{cameraCol: "location", recorderCol: "location", target: constants.TargetLocation}, nil
	case constants.KindType:
		return kindInfo{cameraCol: "type", target: constants.TargetType}, nil
	case constants.KindStatus:
		return kindInfo{cameraCol: "status", target: constants.TargetStatus}, nil
	default:
		return kindInfo{}, ErrUnknownKind
	}
}

// ListTaxonomy returns the entries of one kind in insertion order.
func (s *Service) ListTaxonomy(kind string) ([]database.TaxonomyEntry, error) {
	if _, err := infoForKind(kind); err != nil {
		return nil, err
	}
	var entries []database.TaxonomyEntry
	err := s.db.Where("kind = ?", kind).Order("id asc").Find(&entries).Error
	return entries, err
}

// AddTaxonomyEntry registers a new value. Names are unique per kind,
// case-insensitively.
func (s *Service) AddTaxonomyEntry(kind, name, username string) (*database.TaxonomyEntry, error) {
	info, err := infoForKind(kind)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	entry := &database.TaxonomyEntry{Kind: kind, Name: name}
	var logged *database.AuditLog
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var existing database.TaxonomyEntry
		err := tx.Where("kind = ? AND LOWER(name) = LOWER(?)", kind, name).First(&existing).Error
		if err == nil {
			return ErrDuplicateName
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		var aerr error
		logged, aerr = audit(tx, constants.ActionAdd, info.target, name, "created", username)
		return aerr
	})
	if err != nil {
		return nil, err
	}

	s.emit(constants.ChannelInventory, "taxonomy.changed", map[string]string{"kind": kind})
	s.emitAudit(logged)
	logger.Taxonomy.Info().Str("kind", kind).Str("name", name).Msg("taxonomy entry added")
	return entry, nil
}

// RenameTaxonomyEntry renames a value and rewrites every device field
// holding the old name, all in one transaction with the audit entry.
// A partial cascade is therefore impossible.
func (s *Service) RenameTaxonomyEntry(kind, oldName, newName, username string) error {
	info, err := infoForKind(kind)
	if err != nil {
		return err
	}
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return ErrEmptyName
	}

	var logged *database.AuditLog
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var entry database.TaxonomyEntry
		if err := tx.Where("kind = ? AND LOWER(name) = LOWER(?)", kind, oldName).First(&entry).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var clash database.TaxonomyEntry
		err := tx.Where("kind = ? AND LOWER(name) = LOWER(?) AND id <> ?", kind, newName, entry.ID).
			First(&clash).Error
		if err == nil {
			return ErrDuplicateName
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// Update assigns newName onto entry, so keep the stored name first.
		prevName := entry.Name
		if err := tx.Model(&entry).Update("name", newName).Error; err != nil {
			return err
		}

		camTx := tx.Model(&database.Camera{}).
			Where(info.cameraCol+" = ?", prevName).
			Update(info.cameraCol, newName)
		if camTx.Error != nil {
			return camTx.Error
		}
		var recCount int64
		if info.recorderCol != "" {
			recTx := tx.Model(&database.Recorder{}).
				Where(info.recorderCol+" = ?", prevName).
				Update(info.recorderCol, newName)
			if recTx.Error != nil {
				return recTx.Error
			}
			recCount = recTx.RowsAffected
		}

		details := fmt.Sprintf("renamed %q to %q (%d cameras, %d recorders updated)",
			prevName, newName, camTx.RowsAffected, recCount)
		var aerr error
		logged, aerr = audit(tx, constants.ActionEdit, info.target, newName, details, username)
		return aerr
	})
	if err != nil {
		return err
	}

	s.emit(constants.ChannelInventory, "taxonomy.changed", map[string]string{"kind": kind})
	s.emitAudit(logged)
	logger.Taxonomy.Info().Str("kind", kind).Str("from", oldName).Str("to", newName).Msg("taxonomy entry renamed")
	return nil
}

// RemoveTaxonomyEntry deletes a value. Deletion is blocked while any
// device still references it; the error carries the referencing counts.
func (s *Service) RemoveTaxonomyEntry(kind, name, username string) error {
	info, err := infoForKind(kind)
	if err != nil {
		return err
	}

	var logged *database.AuditLog
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var entry database.TaxonomyEntry
		if err := tx.Where("kind = ? AND LOWER(name) = LOWER(?)", kind, name).First(&entry).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var camCount int64
		if err := tx.Model(&database.Camera{}).Where(info.cameraCol+" = ?", entry.Name).Count(&camCount).Error; err != nil {
			return err
		}
		var recCount int64
		if info.recorderCol != "" {
			if err := tx.Model(&database.Recorder{}).Where(info.recorderCol+" = ?", entry.Name).Count(&recCount).Error; err != nil {
				return err
			}
		}
		if camCount > 0 || recCount > 0 {
			return &InUseError{Name: entry.Name, Cameras: camCount, Recorders: recCount}
		}

		if err := tx.Delete(&entry).Error; err != nil {
			return err
		}
		var aerr error
		logged, aerr = audit(tx, constants.ActionDelete, info.target, entry.Name, "deleted", username)
		return aerr
	})
	if err != nil {
		return err
	}

	s.emit(constants.ChannelInventory, "taxonomy.changed", map[string]string{"kind": kind})
	s.emitAudit(logged)
	logger.Taxonomy.Info().Str("kind", kind).Str("name", name).Msg("taxonomy entry removed")
	return nil
}
