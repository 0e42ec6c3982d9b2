package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RBACMiddleware checks if the user has one of the allowed roles
func RBACMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ac, ok := GetAccessContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}
		if !ac.HasRole(allowedRoles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

// RequireBulkUpload lets through users allowed to run bulk imports.
func RequireBulkUpload() gin.HandlerFunc {
	return func(c *gin.Context) {
		ac, ok := GetAccessContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "access context missing"})
			return
		}
		if !ac.CanBulkUpload() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "bulk upload permission required"})
			return
		}
		c.Next()
	}
}
