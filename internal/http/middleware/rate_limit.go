package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/pathwai/pathwai-backend/internal/interface/http/response"
	"github.com/pathwai/pathwai-backend/internal/logger"
)

// NewLimiterStore возвращает хранилище счётчиков: Redis, если он подключён, иначе память процесса.
func NewLimiterStore(client *redis.Client) limiter.Store {
	if client != nil {
		store, err := redisstore.NewStoreWithOptions(client, limiter.StoreOptions{
			Prefix: "pathwai:ratelimit",
		})
		if err == nil {
			return store
		}
		logger.WithComponent("rate_limit").WithError(err).Warn("redis limiter store unavailable, using memory")
	}
	return memory.NewStore()
}

// RateLimitMiddleware ограничивает количество запросов с одного IP.
// scope разделяет счётчики разных групп маршрутов в общем хранилище.
// По умолчанию: 10 запросов в минуту.
func RateLimitMiddleware(store limiter.Store, scope string, limit int64, period time.Duration) gin.HandlerFunc {
	if limit <= 0 {
		limit = 10
	}
	if period <= 0 {
		period = 1 * time.Minute
	}
	if store == nil {
		store = memory.NewStore()
	}

	instance := limiter.New(store, limiter.Rate{
		Period: period,
		Limit:  limit,
	})

	return func(c *gin.Context) {
		key := scope + ":" + c.ClientIP()
		lctx, err := instance.Get(c.Request.Context(), key)
		if err != nil {
			logger.WithFields(logrus.Fields{
				"component": "rate_limit",
				"error":     err.Error(),
			}).Error("limiter lookup failed")
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", lctx.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", lctx.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", lctx.Reset))

		if lctx.Reached {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, response.ErrorBody{
				Error: "Too many requests, please try again later",
				Code:  "RATE_LIMITED",
			})
			return
		}

		c.Next()
	}
}
