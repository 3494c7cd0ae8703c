package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"studioai/internal/app/studio/util"
)

// placeholderSecret - дефолтный секрет из примера конфигурации.
// С ним сервис в production не стартует.
const placeholderSecret = "change-me-in-production"

// Config содержит все настройки приложения.
// Загружается один раз на старте и дальше только читается.
type Config struct {
	Env       string
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Mongo     MongoConfig
	Kafka     KafkaConfig
	JWT       JWTConfig
	Inference InferenceConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	LogLevel  string
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Host string
	Port string
}

// DatabaseConfig - настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig - настройки подключения к Redis (rate limiting)
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// MongoConfig - настройки подключения к MongoDB (сгенерированные фото)
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// KafkaConfig - брокеры и топик для событий почтовой доставки
type KafkaConfig struct {
	Brokers    []string
	EmailTopic string
}

// JWTConfig - настройки для JWT токенов
type JWTConfig struct {
	SecretKey            string
	AccessTokenDuration  time.Duration
	RefreshTokenDuration time.Duration
}

// InferenceConfig - upstream API генерации изображений
type InferenceConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// RateLimitConfig - лимиты фиксированного окна
type RateLimitConfig struct {
	AuthLimit    int
	GeneralLimit int
	Window       time.Duration
}

// CORSConfig - разрешённый origin фронтенда
type CORSConfig struct {
	AllowedOrigin string
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	env := getEnv("APP_ENV", "development")

	secret := getEnv("JWT_SECRET", placeholderSecret)
	if env == "production" && (secret == placeholderSecret || secret == "") {
		return nil, fmt.Errorf("refusing to start in production with a placeholder JWT_SECRET")
	}

	// TTL в формате "15m" / "7d"; непарсибельные значения дают fallback 900s
	accessDuration := util.ParseTTL(getEnv("JWT_ACCESS_TTL", "15m"))
	refreshDuration := util.ParseTTL(getEnv("JWT_REFRESH_TTL", "7d"))

	inferenceTimeout, err := time.ParseDuration(getEnv("INFERENCE_TIMEOUT", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid INFERENCE_TIMEOUT: %w", err)
	}

	rateWindow, err := time.ParseDuration(getEnv("RATE_LIMIT_WINDOW", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_WINDOW: %w", err)
	}

	return &Config{
		Env: env,
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "studio"),
			Password: getEnv("DB_PASSWORD", "studio"),
			DBName:   getEnv("DB_NAME", "studio_ai"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Mongo: MongoConfig{
			URI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database:   getEnv("MONGO_DB", "studio_ai"),
			Collection: getEnv("MONGO_PHOTOS_COLLECTION", "photos"),
		},
		Kafka: KafkaConfig{
			Brokers:    strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			EmailTopic: getEnv("KAFKA_EMAIL_TOPIC", "email-events"),
		},
		JWT: JWTConfig{
			SecretKey:            secret,
			AccessTokenDuration:  accessDuration,
			RefreshTokenDuration: refreshDuration,
		},
		Inference: InferenceConfig{
			BaseURL: getEnv("INFERENCE_API_URL", "http://localhost:9000"),
			APIKey:  getEnv("INFERENCE_API_KEY", ""),
			Timeout: inferenceTimeout,
		},
		RateLimit: RateLimitConfig{
			AuthLimit:    getEnvInt("RATE_LIMIT_AUTH", 20),
			GeneralLimit: getEnvInt("RATE_LIMIT_GENERAL", 100),
			Window:       rateWindow,
		},
		CORS: CORSConfig{
			AllowedOrigin: getEnv("CORS_ORIGIN", "http://localhost:5173"),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}, nil
}

// DSN возвращает строку подключения к PostgreSQL
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// Address возвращает адрес Redis в формате host:port
func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

// Address возвращает адрес сервера в формате host:port
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает значение переменной окружения как int
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
