package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sharath018/realestate-backend/internal/auth"
)

// Role constants to avoid string typos
const (
	RoleAdmin           = auth.RoleAdmin
	RoleSalesManager    = auth.RoleSalesManager
	RoleSalesTeamLeader = auth.RoleSalesTeamLeader
	RoleSalesAgent      = auth.RoleSalesAgent
	RoleUser            = auth.RoleUser
)

// AccessContext stores user access information
type AccessContext struct {
	UserID      string
	RoleName    string
	Hierarchy   int // lower is more senior
	Permissions auth.Permissions
}

// NewAccessContext builds the access context for an authenticated user.
func NewAccessContext(user auth.User) AccessContext {
	h := user.Hierarchy
	if h == 0 {
		h = auth.HierarchyForRole(user.Role)
	}
	return AccessContext{
		UserID:      user.ID,
		RoleName:    user.Role,
		Hierarchy:   h,
		Permissions: user.Permissions.Data(),
	}
}

// HasRole reports whether the user holds any of roles.
func (ac AccessContext) HasRole(roles ...string) bool {
	for _, r := range roles {
		if ac.RoleName == r {
			return true
		}
	}
	return false
}

// CanBulkUpload allows team leaders and above, or anyone granted the flag.
func (ac AccessContext) CanBulkUpload() bool {
	return ac.Permissions.CanBulkUpload || ac.Hierarchy <= auth.HierarchyForRole(RoleSalesTeamLeader)
}

// GetAccessContext returns the context set by AuthMiddleware.
func GetAccessContext(c *gin.Context) (AccessContext, bool) {
	v, ok := c.Get("access_context")
	if !ok {
		return AccessContext{}, false
	}
	ac, ok := v.(AccessContext)
	return ac, ok
}
