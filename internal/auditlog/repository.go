package auditlog

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, log *AuditLog) error
	GetByFilter(ctx context.Context, filter AuditLogFilter) ([]AuditLogResponse, int64, error)
	GetByID(ctx context.Context, id string) (*AuditLogResponse, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

const selectWithUser = `al.id, al.user_id, al.action, al.details, al.ip_address,
	al.status, al.created_at, u.name as user_name`

func (r *repository) base(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("audit_logs al").
		Joins("LEFT JOIN users u ON al.user_id = u.id")
}

// Create inserts a new audit log entry
func (r *repository) Create(ctx context.Context, log *AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// GetByFilter retrieves audit logs with filtering and pagination
func (r *repository) GetByFilter(ctx context.Context, filter AuditLogFilter) ([]AuditLogResponse, int64, error) {
	var logs []AuditLogResponse
	var total int64

	query := r.base(ctx)
	if filter.UserID != "" {
		query = query.Where("al.user_id = ?", filter.UserID)
	}
	if filter.Action != "" {
		query = query.Where("LOWER(al.action) LIKE ?", "%"+strings.ToLower(filter.Action)+"%")
	}
	if filter.Status != "" {
		query = query.Where("al.status = ?", filter.Status)
	}
	if filter.FromDate != nil {
		query = query.Where("al.created_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("al.created_at <= ?", *filter.ToDate)
	}

	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	offset := (filter.Page - 1) * filter.Limit

	err := query.Select(selectWithUser).
		Order("al.created_at DESC").
		Limit(filter.Limit).
		Offset(offset).
		Scan(&logs).Error
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// GetByID retrieves a specific audit log by ID
func (r *repository) GetByID(ctx context.Context, id string) (*AuditLogResponse, error) {
	var log AuditLogResponse
	res := r.base(ctx).Select(selectWithUser).Where("al.id = ?", id).Limit(1).Scan(&log)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &log, nil
}
