package auditlog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// AuditLog represents the audit_logs table
type AuditLog struct {
	ID        string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    *string        `gorm:"type:varchar(36);index" json:"user_id"` // nullable (system actions)
	Action    string         `gorm:"size:100;not null;index" json:"action"`
	Details   datatypes.JSON `json:"details"`
	IPAddress string         `gorm:"size:45" json:"ip_address"`
	Status    string         `gorm:"size:20;not null;index" json:"status"` // success/failure
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// TableName overrides table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}

// AuditLogResponse represents the audit log response for API
type AuditLogResponse struct {
	ID        string         `json:"id"`
	UserID    *string        `json:"user_id"`
	Action    string         `json:"action"`
	Details   datatypes.JSON `json:"details"`
	IPAddress string         `json:"ip_address"`
	Status    string         `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UserName  *string        `json:"user_name,omitempty"`
}

// AuditLogFilter represents filters for querying audit logs
type AuditLogFilter struct {
	UserID   string
	Action   string
	Status   string
	FromDate *time.Time
	ToDate   *time.Time
	Page     int
	Limit    int
}

// PaginatedAuditLogs represents paginated audit log response
type PaginatedAuditLogs struct {
	Data       []AuditLogResponse `json:"data"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}
