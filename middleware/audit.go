package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

const clientIPKey = "client_ip"

// Proxy headers checked in order before falling back to RemoteAddr.
var ipHeaders = []string{"X-Real-Ip", "CF-Connecting-IP", "X-Forwarded"}

// AuditMiddleware stores the caller IP so bulk imports can be attributed in the audit log.
func AuditMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(clientIPKey, getClientIP(c))
		c.Next()
	}
}

func getClientIP(c *gin.Context) string {
	// X-Forwarded-For can hold a chain; the first hop is the client.
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); isValidIP(ip) {
			return ip
		}
	}
	for _, h := range ipHeaders {
		if ip := strings.TrimSpace(c.GetHeader(h)); ip != "" && isValidIP(ip) {
			return ip
		}
	}

	ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return ip
}

func isValidIP(ip string) bool {
	return net.ParseIP(ip) != nil
}

// GetIPFromContext returns the IP stored by AuditMiddleware, resolving it if the middleware did not run.
func GetIPFromContext(c *gin.Context) string {
	if ip, ok := c.Get(clientIPKey); ok {
		if s, ok := ip.(string); ok {
			return s
		}
	}
	return getClientIP(c)
}
