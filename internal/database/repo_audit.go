package database

import (
	"cammanager/internal/logger"

	"gorm.io/gorm"
)

type AuditLogRepo struct {
	db *gorm.DB
}

func NewAuditLogRepo() *AuditLogRepo {
	return &AuditLogRepo{db: DB}
}

// auditBroadcast, when set, is called with every entry written through the
// repo so the server can push it to the live audit feed.
var auditBroadcast func(*AuditLog)

func SetAuditBroadcast(fn func(*AuditLog)) { auditBroadcast = fn }

func (r *AuditLogRepo) Create(log *AuditLog) error {
	if err := r.db.Create(log).Error; err != nil {
		logger.Audit.Error().Err(err).Str("action", log.Action).Msg("audit log write failed")
		return err
	}
	if auditBroadcast != nil {
		auditBroadcast(log)
	}
	return nil
}

func (r *AuditLogRepo) List(filter AuditFilter) ([]AuditLog, int64, error) {
	var logs []AuditLog
	var total int64

	q := r.db.Model(&AuditLog{})
	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}
	if filter.TargetType != "" {
		q = q.Where("target_type = ?", filter.TargetType)
	}
	if filter.Username != "" {
		q = q.Where("username = ?", filter.Username)
	}
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		q = q.Where("target_name LIKE ? OR details LIKE ?", like, like)
	}
	if filter.StartTime != "" {
		q = q.Where("created_at >= ?", filter.StartTime)
	}
	if filter.EndTime != "" {
		q = q.Where("created_at <= ?", filter.EndTime)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortOrder := filter.SortOrder
	if sortOrder == "" {
		sortOrder = "desc"
	}

	err := q.Order("created_at " + sortOrder).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&logs).Error
	return logs, total, err
}

// Recent returns the newest n entries, for the dashboard feed.
func (r *AuditLogRepo) Recent(n int) ([]AuditLog, error) {
	var logs []AuditLog
	err := r.db.Order("created_at desc").Limit(n).Find(&logs).Error
	return logs, err
}

type AuditFilter struct {
	Page       int
	PageSize   int
	SortOrder  string
	Action     string
	TargetType string
	Username   string
	Keyword    string
	StartTime  string
	EndTime    string
}

func (f *AuditFilter) Offset() int {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 20
	}
	return (f.Page - 1) * f.PageSize
}
