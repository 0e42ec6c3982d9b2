package auditlog

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"gorm.io/datatypes"
)

type Service interface {
	LogAction(ctx context.Context, userID *string, action string, details map[string]interface{}, ip string, status string) error
	GetAuditLogs(ctx context.Context, filter AuditLogFilter) (*PaginatedAuditLogs, error)
	GetAuditLogByID(ctx context.Context, id string) (*AuditLogResponse, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// LogAction creates a new audit log entry
func (s *service) LogAction(ctx context.Context, userID *string, action string, details map[string]interface{}, ip string, status string) error {
	if details == nil {
		details = make(map[string]interface{})
	}

	detailsJSON, err := json.Marshal(details)
	if err != nil {
		detailsJSON = []byte("{}")
	}

	return s.repo.Create(ctx, &AuditLog{
		UserID:    userID,
		Action:    action,
		Details:   datatypes.JSON(detailsJSON),
		IPAddress: ip,
		Status:    status,
	})
}

// GetAuditLogs retrieves paginated audit logs with filters
func (s *service) GetAuditLogs(ctx context.Context, filter AuditLogFilter) (*PaginatedAuditLogs, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	logs, total, err := s.repo.GetByFilter(ctx, filter)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []AuditLogResponse{}
	}

	return &PaginatedAuditLogs{
		Data:       logs,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

// GetAuditLogByID retrieves a specific audit log by ID
func (s *service) GetAuditLogByID(ctx context.Context, id string) (*AuditLogResponse, error) {
	log, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("audit log not found: %w", err)
	}
	return log, nil
}
