package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type dependencyCheck struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
}

func probe(ctx context.Context, ping func(context.Context) error) dependencyCheck {
	start := time.Now()
	status := "connected"
	if err := ping(ctx); err != nil {
		status = "error"
	}
	return dependencyCheck{Status: status, LatencyMS: time.Since(start).Milliseconds()}
}

// Health probes Postgres and, when configured, Redis. Redis being absent is
// not a failure: locks fall back to in-process and no jobs are published.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbCheck := probe(ctx, func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		})

		redisCheck := dependencyCheck{Status: "disabled"}
		if rdb != nil {
			redisCheck = probe(ctx, func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
		}

		code := http.StatusOK
		if dbCheck.Status != "connected" || redisCheck.Status == "error" {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"ok":    code == http.StatusOK,
			"db":    dbCheck,
			"redis": redisCheck,
		})
	}
}
