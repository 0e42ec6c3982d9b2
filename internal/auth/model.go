package auth

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Role names
const (
	RoleUser            = "user"
	RoleAdmin           = "admin"
	RoleSalesManager    = "sales_manager"
	RoleSalesTeamLeader = "sales_team_leader"
	RoleSalesAgent      = "sales_agent"
)

// roleHierarchy ranks roles; a lower number carries more authority.
var roleHierarchy = map[string]int{
	RoleAdmin:           1,
	RoleSalesManager:    2,
	RoleSalesTeamLeader: 3,
	RoleSalesAgent:      4,
	RoleUser:            5,
}

// Roles lists every accepted role name.
func Roles() []string {
	return []string{RoleUser, RoleAdmin, RoleSalesManager, RoleSalesTeamLeader, RoleSalesAgent}
}

// HierarchyForRole returns the rank for role, or the rank of a plain user if unknown.
func HierarchyForRole(role string) int {
	if h, ok := roleHierarchy[strings.ToLower(role)]; ok {
		return h
	}
	return roleHierarchy[RoleUser]
}

// Permissions are the capability flags stored per user.
type Permissions struct {
	CanManageUsers       bool `json:"canManageUsers"`
	CanManageProperties  bool `json:"canManageProperties"`
	CanApproveProperties bool `json:"canApproveProperties"`
	CanManageLeads       bool `json:"canManageLeads"`
	CanBulkUpload        bool `json:"canBulkUpload"`
}

// DefaultPermissions returns the flags a role starts with.
func DefaultPermissions(role string) Permissions {
	switch strings.ToLower(role) {
	case RoleAdmin:
		return Permissions{CanManageUsers: true, CanManageProperties: true, CanApproveProperties: true, CanManageLeads: true, CanBulkUpload: true}
	case RoleSalesManager:
		return Permissions{CanManageProperties: true, CanApproveProperties: true, CanManageLeads: true, CanBulkUpload: true}
	case RoleSalesTeamLeader:
		return Permissions{CanManageProperties: true, CanManageLeads: true, CanBulkUpload: true}
	case RoleSalesAgent:
		return Permissions{CanManageLeads: true}
	default:
		return Permissions{}
	}
}

type User struct {
	ID           string                          `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name         string                          `gorm:"size:255;not null" json:"name"`
	Email        string                          `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Phone        string                          `gorm:"size:32" json:"phone"`
	PasswordHash string                          `gorm:"size:255;not null" json:"-"`
	Role         string                          `gorm:"size:32;not null;default:user" json:"role"`
	Hierarchy    int                             `gorm:"not null;default:5" json:"hierarchy"`
	Permissions  datatypes.JSONType[Permissions] `json:"permissions"`
	IsActive     bool                            `gorm:"not null" json:"isActive"`
	CreatedAt    time.Time                       `json:"createdAt"`
	UpdatedAt    time.Time                       `json:"updatedAt"`
}

// BeforeCreate assigns a UUID and normalizes the email.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Hierarchy == 0 {
		u.Hierarchy = HierarchyForRole(u.Role)
	}
	return nil
}

func (User) TableName() string {
	return "users"
}
