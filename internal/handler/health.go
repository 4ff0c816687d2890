package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reports liveness of the two backing stores. A degraded store turns
// the whole check 503 so the till frontend can warn before the first failed
// sale. No credentials or connection details leak into the body.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		postgres := "up"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			postgres = "down"
		}

		cache := "up"
		if rdb.Ping(ctx).Err() != nil {
			cache = "down"
		}

		status := http.StatusOK
		if postgres == "down" || cache == "down" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"service":  "tillpoint",
			"healthy":  status == http.StatusOK,
			"postgres": postgres,
			"redis":    cache,
		})
	}
}
