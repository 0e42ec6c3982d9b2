package routes

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sharath018/realestate-backend/config"
	"github.com/sharath018/realestate-backend/database"
	"github.com/sharath018/realestate-backend/internal/auditlog"
	"github.com/sharath018/realestate-backend/internal/auth"
	"github.com/sharath018/realestate-backend/internal/bulkupload"
	"github.com/sharath018/realestate-backend/internal/media"
	"github.com/sharath018/realestate-backend/middleware"

	_ "github.com/sharath018/realestate-backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func Setup(r *gin.Engine, cfg *config.Config) {
	if err := os.MkdirAll(cfg.UploadPath, 0755); err != nil {
		log.Printf("⚠️ Could not create uploads directory %s: %v", cfg.UploadPath, err)
	}
	r.Static("/uploads", cfg.UploadPath)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimiter(cfg))
	api.Use(middleware.AuditMiddleware())

	// ========== Audit Log ==========
	auditSvc := auditlog.NewService(auditlog.NewRepository(database.DB))
	auditHandler := auditlog.NewHandler(auditSvc)

	// ========== Auth ==========
	authSvc := auth.NewService(auth.NewRepository(database.DB), cfg)
	authHandler := auth.NewHandler(authSvc)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
	}

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(authSvc))

	// ========== Audit Logs (Admin Only) ==========
	auditRoutes := protected.Group("/auditlogs")
	auditRoutes.Use(middleware.RBACMiddleware(middleware.RoleAdmin))
	{
		auditRoutes.GET("/", auditHandler.GetAuditLogs)
		auditRoutes.GET("/stats", auditHandler.GetAuditLogStats)
		auditRoutes.GET("/:id", auditHandler.GetAuditLogByID)
	}

	// ========== Bulk Upload ==========
	images := media.NewLocalResolver(cfg.UploadPath, cfg.MediaBaseURL)
	bulkSvc := bulkupload.NewService(bulkupload.NewRepository(database.DB), images, auditSvc, cfg)
	bulkHandler := bulkupload.NewHandler(bulkSvc)

	bulkRoutes := protected.Group("/bulk-uploads")
	bulkRoutes.Use(middleware.RequireBulkUpload())
	{
		bulkRoutes.GET("/template/:entity", bulkHandler.Template)
		bulkRoutes.GET("/template/:entity/excel", bulkHandler.TemplateExcel)
		bulkRoutes.GET("/template/:entity/pdf", bulkHandler.TemplatePDF)

		bulkRoutes.POST("/:entity", bulkHandler.Upload)
		bulkRoutes.POST("/:entity/excel", bulkHandler.UploadExcel)
	}
}
