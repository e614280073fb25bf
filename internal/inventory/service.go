// Package inventory implements the device-inventory engine: cameras,
// recorders, the taxonomy registry, map placement and the audit trail.
// All mutations run inside a single transaction together with their
// audit entry, so a failed cascade never leaves a half-applied change.
package inventory

import (
	"cammanager/internal/constants"
	"cammanager/internal/database"

	"gorm.io/gorm"
)

// Broadcaster pushes change events to connected dashboard clients.
type Broadcaster interface {
	Broadcast(channel, msgType string, data interface{})
}

// Notifier delivers out-of-band alerts (camera status changes etc).
type Notifier interface {
	Send(subject, message string)
}

type Service struct {
	db          *gorm.DB
	broadcaster Broadcaster
	notifier    Notifier
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) SetBroadcaster(b Broadcaster) { s.broadcaster = b }
func (s *Service) SetNotifier(n Notifier)       { s.notifier = n }

func (s *Service) emit(channel, msgType string, data interface{}) {
	if s.broadcaster != nil {
		s.broadcaster.Broadcast(channel, msgType, data)
	}
}

func (s *Service) notify(subject, message string) {
	if s.notifier != nil {
		s.notifier.Send(subject, message)
	}
}

// audit writes an audit entry inside the caller's transaction and returns
// it so the caller can broadcast it once the transaction commits.
func audit(tx *gorm.DB, action, targetType, targetName, details, username string) (*database.AuditLog, error) {
	entry := &database.AuditLog{
		Action:     action,
		TargetType: targetType,
		TargetName: targetName,
		Details:    details,
		Username:   username,
	}
	if err := tx.Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// emitAudit pushes a committed audit entry to the live audit feed.
func (s *Service) emitAudit(entry *database.AuditLog) {
	if entry != nil {
		s.emit(constants.ChannelAudit, "audit.created", entry)
	}
}
