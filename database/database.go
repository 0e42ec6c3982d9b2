package database

import (
	"fmt"
	"log"

	"github.com/glebarez/sqlite"
	"github.com/sharath018/realestate-backend/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the process-wide connection used by route registration.
var DB *gorm.DB

// Connect opens the database selected by DB_TYPE and stores it in DB.
func Connect(cfg *config.Config) *gorm.DB {
	db, err := Open(cfg)
	if err != nil {
		log.Fatalf("❌ Database connection failed: %v", err)
	}
	DB = db
	return db
}

// Open builds the dialector for cfg and opens a gorm connection.
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.DBType {
	case "mysql", "mariadb":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
		dialector = mysql.Open(dsn)
	case "postgres", "postgresql", "":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)
		dialector = postgres.Open(dsn)
	case "sqlite":
		// DB_NAME is the file path for sqlite
		dialector = sqlite.Open(cfg.DBName)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.DBType)
	}

	level := logger.Warn
	if cfg.DBLogSQL {
		level = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Printf("✅ Connected to %s database: %s", cfg.DBType, cfg.DBName)
	return db, nil
}
