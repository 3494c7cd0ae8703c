package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"studioai/internal/app/studio/config"
	"studioai/internal/app/studio/handler"
	"studioai/internal/app/studio/infrastructure/inference"
	"studioai/internal/app/studio/infrastructure/messaging"
	"studioai/internal/app/studio/repository"
	"studioai/internal/app/studio/scheduler"
	"studioai/internal/app/studio/service"
	"studioai/internal/app/studio/util"
	"studioai/pkg/logger"
)

// cleanupSchedule - раз в час чистим просроченные токены
const cleanupSchedule = "0 * * * *"

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		logger.Init("studio-ai", "info")
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.Init("studio-ai", cfg.LogLevel)

	// Подключаемся к базе данных PostgreSQL
	db, err := connectDB(context.Background(), cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	logger.Info().Msg("Successfully connected to PostgreSQL database")

	// Подключаемся к Redis
	redisClient := connectRedis(cfg.Redis)
	defer redisClient.Close()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}

	logger.Info().Msg("Successfully connected to Redis")

	// Подключаемся к MongoDB (галерея сгенерированных фото)
	mongoClient, err := connectMongoDB(cfg.Mongo)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	logger.Info().Msg("Successfully connected to MongoDB")

	// Kafka producer для событий почтовой доставки
	emailProducer := messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.EmailTopic)
	defer emailProducer.Close()

	emailPublisher := messaging.NewEmailPublisher(emailProducer)

	// Инициализируем JWT менеджер
	jwtManager := util.NewJWTManager(
		cfg.JWT.SecretKey,
		cfg.JWT.AccessTokenDuration,
		cfg.JWT.RefreshTokenDuration,
	)

	// Инициализируем репозитории
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)
	secretRepo := repository.NewSecretTokenRepository(db)
	photoRepo := repository.NewPhotoRepository(mongoClient.Database(cfg.Mongo.Database), cfg.Mongo.Collection)
	rateLimiter := repository.NewRedisRateLimiter(redisClient)

	// Клиент upstream API генерации изображений
	inferenceClient := inference.NewClient(cfg.Inference.BaseURL, cfg.Inference.APIKey, cfg.Inference.Timeout)

	// Инициализируем сервисы
	authService := service.NewAuthService(userRepo, profileRepo, tokenRepo, secretRepo, jwtManager, emailPublisher)
	userService := service.NewUserService(userRepo, profileRepo, tokenRepo, photoRepo)
	adminService := service.NewAdminService(userRepo, tokenRepo)
	photoService := service.NewPhotoService(photoRepo, inferenceClient)

	// Инициализируем обработчики
	authHandler := handler.NewAuthHandler(authService, cfg)
	userHandler := handler.NewUserHandler(userService, cfg)
	adminHandler := handler.NewAdminHandler(adminService, cfg)
	photoHandler := handler.NewPhotoHandler(photoService, cfg)
	authMiddleware := handler.NewAuthMiddleware(authService)

	// Настраиваем маршруты
	router := handler.SetupRoutes(cfg, authHandler, userHandler, adminHandler, photoHandler, authMiddleware, rateLimiter)

	// Фоновая чистка просроченных токенов
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()

	cleanup := scheduler.NewCleanupScheduler(tokenRepo, secretRepo)
	if err := cleanup.Start(cleanupCtx, cleanupSchedule); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start cleanup scheduler")
	}
	defer cleanup.Stop()

	// Создаем HTTP сервер
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Запускаем сервер в отдельной горутине
	go func() {
		logger.Info().Str("address", cfg.Server.Address()).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Ожидаем сигнала завершения (graceful shutdown)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	// Даем серверу 30 секунд на завершение текущих запросов
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server stopped gracefully")
}

// connectDB устанавливает соединение с PostgreSQL используя pgx connection pool
func connectDB(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, err
	}

	// Оптимальные настройки пула для production
	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = 5 * time.Minute
	poolConfig.MaxConnIdleTime = 1 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	// Пробуем подключиться с повторными попытками
	var pool *pgxpool.Pool
	for i := 0; i < 10; i++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}
		logger.Warn().Int("attempt", i+1).Err(err).Msg("Failed to connect to database, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, err
}

// connectRedis создает и настраивает Redis клиент
func connectRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Address(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})
}

// connectMongoDB подключается к MongoDB с повторными попытками
func connectMongoDB(cfg config.MongoConfig) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(cfg.URI)

	var client *mongo.Client
	var err error

	for i := 0; i < 10; i++ {
		connCtx, connCancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, err = mongo.Connect(connCtx, clientOptions)
		connCancel()

		if err == nil {
			pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
			err = client.Ping(pingCtx, nil)
			pingCancel()

			if err == nil {
				return client, nil
			}
		}

		logger.Warn().Int("attempt", i+1).Err(err).Msg("Failed to connect to MongoDB, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, err
}
