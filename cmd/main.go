package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sharath018/realestate-backend/config"
	"github.com/sharath018/realestate-backend/database"
	"github.com/sharath018/realestate-backend/internal/auditlog"
	"github.com/sharath018/realestate-backend/internal/auth"
	"github.com/sharath018/realestate-backend/internal/developer"
	"github.com/sharath018/realestate-backend/internal/launch"
	"github.com/sharath018/realestate-backend/internal/lead"
	"github.com/sharath018/realestate-backend/internal/location"
	"github.com/sharath018/realestate-backend/internal/property"
	"github.com/sharath018/realestate-backend/routes"
)

// @title Real Estate Bulk Upload API
// @version 1.0
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()
	db := database.Connect(cfg)

	log.Println("🔄 Running database migrations...")
	if err := db.AutoMigrate(
		&auth.User{},
		&developer.Developer{},
		&location.Governorate{},
		&location.City{},
		&location.Area{},
		&property.Property{},
		&lead.Lead{},
		&launch.Launch{},
		&auditlog.AuditLog{},
	); err != nil {
		panic(fmt.Sprintf("❌ DB AutoMigrate failed: %v", err))
	}
	log.Println("✅ Database migrations completed")

	if err := auth.SeedAdminUser(db, cfg); err != nil {
		panic(fmt.Sprintf("❌ Failed to seed admin: %v", err))
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.MaxMultipartMemory = 32 << 20

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Content-Length", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.Setup(router, cfg)

	fmt.Printf("🚀 Server starting on port %s\n", cfg.Port)
	fmt.Printf("📁 Upload directory: %s\n", cfg.UploadPath)
	fmt.Printf("📦 Bulk upload: http://localhost:%s/api/v1/bulk-uploads/{entity}\n", cfg.Port)

	if err := router.Run(":" + cfg.Port); err != nil {
		panic(fmt.Sprintf("Failed to start server: %v", err))
	}
}
