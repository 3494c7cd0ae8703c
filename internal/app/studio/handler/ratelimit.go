package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"studioai/internal/app/studio/entity"
	"studioai/internal/app/studio/repository"
	"studioai/pkg/logger"
	"studioai/pkg/metrics"
)

// RateLimitMiddleware ограничивает число запросов с одного IP
// в фиксированном окне. Scope разделяет счётчики auth и general.
func RateLimitMiddleware(limiter repository.RateLimiter, scope string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("%s:%s", scope, c.ClientIP())

		allowed, retryAfter, err := limiter.Allow(c.Request.Context(), key, limit, window)
		if err != nil {
			// Недоступность Redis не должна ронять трафик
			logger.Warn().Err(err).Str("scope", scope).Msg("rate limiter unavailable")
			c.Next()
			return
		}

		if !allowed {
			metrics.RateLimitRejections.WithLabelValues("studio-ai", scope).Inc()

			retrySeconds := int(retryAfter.Seconds())
			if retrySeconds < 1 {
				retrySeconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(retrySeconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, entity.APIResponse{
				Success: false,
				Error:   "Too Many Requests",
				Message: "Rate limit exceeded, try again later",
				Details: gin.H{"retry_after": retrySeconds},
			})
			return
		}

		c.Next()
	}
}
