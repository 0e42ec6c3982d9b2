package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/sharath018/realestate-backend/config"
	"github.com/sharath018/realestate-backend/internal/auth"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newAuthService(t *testing.T) (auth.Service, *gorm.DB, *config.Config) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&auth.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	cfg := &config.Config{
		JWTAccessSecret:    "access",
		JWTRefreshSecret:   "refresh",
		JWTAccessTTLHours:  1,
		JWTRefreshTTLHours: 2,
		AdminEmail:         "admin@example.com",
		AdminPassword:      "secret123",
		AdminName:          "Admin",
	}
	if err := auth.SeedAdminUser(db, cfg); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return auth.NewService(auth.NewRepository(db), cfg), db, cfg
}

func TestAuthMiddleware(t *testing.T) {
	svc, db, cfg := newAuthService(t)
	tokens, user, err := svc.Login(auth.LoginInput{Email: cfg.AdminEmail, Password: cfg.AdminPassword})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	r := gin.New()
	var seen AccessContext
	r.GET("/me", AuthMiddleware(svc), func(c *gin.Context) {
		seen, _ = GetAccessContext(c)
		c.Status(http.StatusOK)
	})
	call := func(header string) int {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	if got := call(""); got != http.StatusUnauthorized {
		t.Fatalf("missing header: %d", got)
	}
	if got := call("Token " + tokens.AccessToken); got != http.StatusUnauthorized {
		t.Fatalf("wrong scheme: %d", got)
	}
	if got := call("Bearer " + tokens.RefreshToken); got != http.StatusUnauthorized {
		t.Fatalf("refresh token accepted: %d", got)
	}
	if got := call("Bearer " + tokens.AccessToken); got != http.StatusOK {
		t.Fatalf("valid token: %d", got)
	}
	if seen.UserID != user.ID || seen.RoleName != RoleAdmin || !seen.CanBulkUpload() {
		t.Fatalf("unexpected access context: %+v", seen)
	}

	if err := db.Model(&auth.User{}).Where("id = ?", user.ID).Update("is_active", false).Error; err != nil {
		t.Fatal(err)
	}
	if got := call("Bearer " + tokens.AccessToken); got != http.StatusForbidden {
		t.Fatalf("inactive user: %d", got)
	}
}

func TestRateLimiterMemoryStore(t *testing.T) {
	r := gin.New()
	r.Use(RateLimiter(&config.Config{RateLimitPerMinute: 1}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 2)
	for i := range codes {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		codes[i] = w.Code
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v", codes)
	}
}
