package inventory

import (
	"errors"
	"strings"

	"cammanager/internal/constants"
	"cammanager/internal/database"
	"cammanager/internal/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *Service) ListMaps() ([]database.SiteMap, error) {
	var maps []database.SiteMap
	err := s.db.Order("created_at asc").Find(&maps).Error
	return maps, err
}

func (s *Service) MapPositions(mapID string) ([]database.CameraPosition, error) {
	var positions []database.CameraPosition
	err := s.db.Where("map_id = ?", mapID).Find(&positions).Error
	return positions, err
}

func (s *Service) CreateMap(name, image, username string) (*database.SiteMap, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	m := &database.SiteMap{ID: uuid.NewString(), Name: name, Image: image}
	var logged *database.AuditLog
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		var err error
		logged, err = audit(tx, constants.ActionAdd, constants.TargetMap, name, "created", username)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.emit(constants.ChannelInventory, "map.created", m)
	s.emitAudit(logged)
	logger.SiteMap.Info().Str("map", name).Msg("map created")
	return m, nil
}

// DeleteMap removes the map and every camera position placed on it.
func (s *Service) DeleteMap(id, username string) error {
	var deleted bool
	var logged *database.AuditLog
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var m database.SiteMap
		if err := tx.Where("id = ?", id).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Delete(&database.SiteMap{}, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&database.CameraPosition{}, "map_id = ?", id).Error; err != nil {
			return err
		}
		deleted = true
		var err error
		logged, err = audit(tx, constants.ActionDelete, constants.TargetMap, m.Name, "deleted with placements", username)
		return err
	})
	if err != nil {
		return err
	}
	if deleted {
		s.emit(constants.ChannelInventory, "map.deleted", map[string]string{"id": id})
		s.emitAudit(logged)
		logger.SiteMap.Info().Str("id", id).Msg("map deleted")
	}
	return nil
}

func (s *Service) UpdateMapImage(id, image, username string) error {
	var logged *database.AuditLog
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var m database.SiteMap
		if err := tx.Where("id = ?", id).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Model(&m).Update("image", image).Error; err != nil {
			return err
		}
		var err error
		logged, err = audit(tx, constants.ActionEdit, constants.TargetMap, m.Name, "image updated", username)
		return err
	})
	if err != nil {
		return err
	}
	s.emit(constants.ChannelInventory, "map.updated", map[string]string{"id": id})
	s.emitAudit(logged)
	return nil
}

// SetPosition upserts a camera's placement on an existing map. X/Y are
// percentages already clamped to [0,100] by the drop-target geometry on
// the client; the map reference is still validated here so a stale drop
// can never point at a deleted map.
func (s *Service) SetPosition(cameraID, mapID string, x, y float64) error {
	pos := database.CameraPosition{CameraID: cameraID, MapID: mapID, X: x, Y: y}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var m database.SiteMap
		if err := tx.Select("id").Where("id = ?", mapID).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "camera_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"map_id", "x", "y"}),
		}).Create(&pos).Error
	})
	if err != nil {
		return err
	}
	s.emit(constants.ChannelInventory, "position.set", pos)
	return nil
}

func (s *Service) ClearPosition(cameraID string) error {
	if err := s.db.Delete(&database.CameraPosition{}, "camera_id = ?", cameraID).Error; err != nil {
		return err
	}
	s.emit(constants.ChannelInventory, "position.cleared", map[string]string{"camera_id": cameraID})
	return nil
}
