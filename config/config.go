package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DBType     string // postgres, mysql, sqlite
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBLogSQL   bool

	JWTAccessSecret    string
	JWTRefreshSecret   string
	JWTAccessTTLHours  int
	JWTRefreshTTLHours int

	// ✅ Redis Config (optional, rate limiter store)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RateLimitPerMinute int
	CORSOrigins        []string

	// ✅ Media
	UploadPath   string
	MediaBaseURL string

	// ✅ Bulk upload tuning
	BulkMaxBatchSize        int
	BulkPropertyChunkSize   int
	BulkPropertyParallelism int

	// ✅ Seeded admin
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

// Load reads environment variables and returns a Config object
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file, using environment variables")
	}

	return &Config{
		Port: getEnv("PORT", "8080"),

		DBType:     strings.ToLower(getEnv("DB_TYPE", "postgres")),
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBLogSQL:   getEnvAsBool("DB_LOG_SQL", false),

		JWTAccessSecret:    os.Getenv("JWT_ACCESS_SECRET"),
		JWTRefreshSecret:   os.Getenv("JWT_REFRESH_SECRET"),
		JWTAccessTTLHours:  getEnvAsInt("JWT_ACCESS_TTL_HOURS", 24),
		JWTRefreshTTLHours: getEnvAsInt("JWT_REFRESH_TTL_HOURS", 168),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 100),
		CORSOrigins:        splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),

		UploadPath:   getEnv("UPLOAD_PATH", "./uploads"),
		MediaBaseURL: strings.TrimRight(getEnv("MEDIA_BASE_URL", "http://localhost:8080/uploads"), "/"),

		BulkMaxBatchSize:        getEnvAsInt("BULK_MAX_BATCH_SIZE", 1000),
		BulkPropertyChunkSize:   getEnvAsInt("BULK_PROPERTY_CHUNK_SIZE", 50),
		BulkPropertyParallelism: getEnvAsInt("BULK_PROPERTY_PARALLELISM", 50),

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		AdminName:     getEnv("ADMIN_NAME", "Administrator"),
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("⚠️ Invalid integer for %s=%q, using %d", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
