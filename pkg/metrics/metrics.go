package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// HTTP Метрики
// =============================================================================

// HttpRequestsTotal - счётчик всех HTTP запросов
// Labels: service, method, path, status
var HttpRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	},
	[]string{"service", "method", "path", "status"},
)

// HttpRequestDuration - гистограмма времени ответа
// Пример: histogram_quantile(0.95, rate(http_request_duration_seconds_bucket[5m]))
var HttpRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	},
	[]string{"service", "method", "path"},
)

// HttpRequestsInFlight - текущее количество обрабатываемых запросов
var HttpRequestsInFlight = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Current number of HTTP requests being processed",
	},
	[]string{"service"},
)

// =============================================================================
// Auth Метрики
// =============================================================================

// AuthSignups - регистрации пользователей
var AuthSignups = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "auth_signups_total",
		Help: "Total number of user signups",
	},
)

// AuthLogins - попытки входа
var AuthLogins = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "auth_logins_total",
		Help: "Total number of login attempts",
	},
	[]string{"status"}, // success, failed, blocked
)

// AuthTokensIssued - выданные токены
var AuthTokensIssued = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "auth_tokens_issued_total",
		Help: "Total number of tokens issued",
	},
	[]string{"type"}, // access, refresh
)

// AuthTokenRefreshes - обновления токенов
var AuthTokenRefreshes = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "auth_token_refreshes_total",
		Help: "Total number of refresh token exchanges",
	},
	[]string{"status"}, // success, rejected
)

// AuthSessionsRevoked - отозванные сессии (logout, ban, смена пароля)
var AuthSessionsRevoked = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "auth_sessions_revoked_total",
		Help: "Total number of revoked refresh sessions",
	},
	[]string{"reason"}, // logout, password_reset, ban, account_deleted
)

// =============================================================================
// Photo Generation Метрики
// =============================================================================

// PhotoGenerations - запросы генерации фото
var PhotoGenerations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "photo_generations_total",
		Help: "Total number of photo generation requests",
	},
	[]string{"status"}, // success, failed
)

// PhotoGenerationDuration - время ответа inference API
var PhotoGenerationDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "photo_generation_duration_seconds",
		Help:    "Duration of upstream inference calls in seconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	},
)

// =============================================================================
// Rate Limiter Метрики
// =============================================================================

// RateLimitRejections - запросы, отклонённые rate limiter'ом
var RateLimitRejections = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "rate_limit_rejections_total",
		Help: "Total number of requests rejected by the rate limiter",
	},
	[]string{"service", "scope"}, // scope: auth, general
)

// =============================================================================
// Database Метрики
// =============================================================================

// DbErrors - счётчик ошибок базы данных
var DbErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "db_errors_total",
		Help: "Total number of database errors",
	},
	[]string{"service", "operation"},
)
