package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studioai/internal/app/studio/repository"
)

func newMiniredisLimiter(t *testing.T) (repository.RateLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return repository.NewRedisRateLimiter(client), mr
}

func setupRateLimitedRouter(limiter repository.RateLimiter, limit int, window time.Duration) *gin.Engine {
	router := gin.New()
	router.GET("/ping", RateLimitMiddleware(limiter, "test", limit, window), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"pong": true})
	})
	return router
}

func TestRateLimitMiddleware_AllowsWithinLimit(t *testing.T) {
	// Arrange
	limiter, _ := newMiniredisLimiter(t)
	router := setupRateLimitedRouter(limiter, 3, time.Minute)

	// Act & Assert
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimitMiddleware_RejectsOverLimit(t *testing.T) {
	// Arrange
	limiter, _ := newMiniredisLimiter(t)
	router := setupRateLimitedRouter(limiter, 2, time.Minute)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	// Act: третий запрос в окне
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	// Assert
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	resp := decodeEnvelope(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "Too Many Requests", resp.Error)
}

// После конца окна счётчик сбрасывается
func TestRateLimitMiddleware_WindowReset(t *testing.T) {
	// Arrange
	limiter, mr := newMiniredisLimiter(t)
	router := setupRateLimitedRouter(limiter, 1, time.Minute)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	// Act: окно истекло
	mr.FastForward(61 * time.Second)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
}

// Недоступность Redis пропускает трафик вместо отказа в обслуживании
func TestRateLimitMiddleware_RedisDownFailsOpen(t *testing.T) {
	// Arrange
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	limiter := repository.NewRedisRateLimiter(client)
	router := setupRateLimitedRouter(limiter, 1, time.Minute)

	mr.Close()

	// Act
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
}

// Счётчики разных scope независимы
func TestRateLimitMiddleware_ScopesAreIsolated(t *testing.T) {
	// Arrange
	limiter, _ := newMiniredisLimiter(t)
	router := gin.New()
	router.GET("/a", RateLimitMiddleware(limiter, "auth", 1, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/b", RateLimitMiddleware(limiter, "general", 1, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// Исчерпываем лимит scope auth
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/a", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/a", nil))
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	// Act: scope general не затронут
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/b", nil))

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
}
