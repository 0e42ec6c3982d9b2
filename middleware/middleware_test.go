package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sharath018/realestate-backend/internal/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func withAccess(ac *AccessContext) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ac != nil {
			c.Set("access_context", *ac)
		}
		c.Next()
	}
}

func serve(t *testing.T, ac *AccessContext, guard gin.HandlerFunc) int {
	t.Helper()
	r := gin.New()
	r.GET("/x", withAccess(ac), guard, func(c *gin.Context) { c.Status(http.StatusOK) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	return w.Code
}

func TestRequireBulkUpload(t *testing.T) {
	leader := NewAccessContext(auth.User{ID: "1", Role: RoleSalesTeamLeader})
	agent := NewAccessContext(auth.User{ID: "2", Role: RoleSalesAgent})
	granted := agent
	granted.Permissions.CanBulkUpload = true

	cases := []struct {
		name string
		ac   *AccessContext
		want int
	}{
		{"leader", &leader, http.StatusOK},
		{"agent", &agent, http.StatusForbidden},
		{"agent with flag", &granted, http.StatusOK},
		{"anonymous", nil, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		if got := serve(t, tc.ac, RequireBulkUpload()); got != tc.want {
			t.Fatalf("%s: got %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestRBACMiddleware(t *testing.T) {
	admin := NewAccessContext(auth.User{ID: "1", Role: RoleAdmin})
	agent := NewAccessContext(auth.User{ID: "2", Role: RoleSalesAgent})

	if got := serve(t, &admin, RBACMiddleware(RoleAdmin)); got != http.StatusOK {
		t.Fatalf("admin rejected: %d", got)
	}
	if got := serve(t, &agent, RBACMiddleware(RoleAdmin)); got != http.StatusForbidden {
		t.Fatalf("agent allowed: %d", got)
	}
}

func TestClientIP(t *testing.T) {
	r := gin.New()
	var got string
	r.GET("/ip", AuditMiddleware(), func(c *gin.Context) { got = GetIPFromContext(c) })

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	r.ServeHTTP(httptest.NewRecorder(), req)
	if got != "203.0.113.7" {
		t.Fatalf("forwarded ip = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.Header.Set("X-Forwarded-For", "garbage")
	req.Header.Set("X-Real-Ip", "198.51.100.2")
	r.ServeHTTP(httptest.NewRecorder(), req)
	if got != "198.51.100.2" {
		t.Fatalf("real ip = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/ip", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)
	if got != "192.0.2.1" {
		t.Fatalf("remote ip = %q", got)
	}
}
