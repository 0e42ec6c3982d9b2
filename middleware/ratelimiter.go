package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sharath018/realestate-backend/config"
	"github.com/ulule/limiter/v3"
	ginlimiter "github.com/ulule/limiter/v3/drivers/middleware/gin"
	memory "github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// RateLimiter limits requests per client IP. Counters live in Redis when
// REDIS_ADDR is set so every instance shares them, in memory otherwise.
func RateLimiter(cfg *config.Config) gin.HandlerFunc {
	rate := limiter.Rate{
		Period: 1 * time.Minute,
		Limit:  int64(cfg.RateLimitPerMinute),
	}
	if rate.Limit <= 0 {
		rate.Limit = 100
	}

	store := limiterStore(cfg)
	return ginlimiter.NewMiddleware(limiter.New(store, rate))
}

func limiterStore(cfg *config.Config) limiter.Store {
	if cfg.RedisAddr == "" {
		return memory.NewStore()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix:   "realestate_limiter",
		MaxRetry: 3,
	})
	if err != nil {
		log.Printf("⚠️ Redis rate limiter unavailable, using memory store: %v", err)
		return memory.NewStore()
	}
	log.Println("✅ Rate limiter using Redis store")
	return store
}
