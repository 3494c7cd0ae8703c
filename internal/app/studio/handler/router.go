package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"studioai/internal/app/studio/auth"
	"studioai/internal/app/studio/config"
	"studioai/internal/app/studio/repository"
	"studioai/pkg/logger"
	"studioai/pkg/metrics"
)

// SetupRoutes настраивает все маршруты приложения
func SetupRoutes(
	cfg *config.Config,
	authHandler *AuthHandler,
	userHandler *UserHandler,
	adminHandler *AdminHandler,
	photoHandler *PhotoHandler,
	authMiddleware *AuthMiddleware,
	limiter repository.RateLimiter,
) *gin.Engine {
	router := gin.New()

	// Recovery middleware для обработки panic
	router.Use(gin.Recovery())

	// JSON logging middleware для HTTP-запросов
	router.Use(logger.GinLoggerMiddleware())

	// Prometheus metrics middleware
	router.Use(metrics.GinPrometheusMiddleware("studio-ai"))

	// CORS: фронтенд ходит с credentials (refresh cookie)
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORS.AllowedOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Общий лимит на все маршруты
	router.Use(RateLimitMiddleware(limiter, "general", cfg.RateLimit.GeneralLimit, cfg.RateLimit.Window))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "studio-ai",
		})
	})

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Маршруты аутентификации под ужесточённым лимитом
	authGroup := router.Group("/auth")
	authGroup.Use(RateLimitMiddleware(limiter, "auth", cfg.RateLimit.AuthLimit, cfg.RateLimit.Window))
	{
		authGroup.POST("/signup", authHandler.Signup)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/verify-email", authHandler.VerifyEmail)
		authGroup.POST("/resend-verification", authHandler.ResendVerification)
		authGroup.POST("/forgot-password", authHandler.ForgotPassword)
		authGroup.POST("/reset-password", authHandler.ResetPassword)

		protected := authGroup.Group("")
		protected.Use(authMiddleware.Authenticate())
		{
			protected.GET("/me", authHandler.GetMe)
			protected.POST("/logout", authHandler.Logout)
		}
	}

	// Профиль и самоудаление аккаунта
	users := router.Group("/users")
	users.Use(authMiddleware.Authenticate())
	{
		users.GET("/profile", userHandler.GetProfile)
		users.PUT("/profile", authMiddleware.RequirePermission(auth.PermManageProfile), userHandler.UpdateProfile)
		users.DELETE("/me", authMiddleware.RequirePermission(auth.PermDeleteAccount), userHandler.DeleteAccount)
	}

	// Генерация и галерея фото
	photos := router.Group("/photos")
	photos.Use(authMiddleware.Authenticate())
	{
		photos.GET("", authMiddleware.RequirePermission(auth.PermViewPhotos), photoHandler.List)
		photos.POST("/generate", authMiddleware.RequirePermission(auth.PermGeneratePhotos), photoHandler.Generate)
	}

	// Админские маршруты
	admin := router.Group("/admin")
	admin.Use(authMiddleware.Authenticate())
	admin.Use(authMiddleware.RequireRole(auth.RoleAdmin, auth.RoleSuperAdmin))
	{
		admin.GET("/users", authMiddleware.RequirePermission(auth.PermListUsers), adminHandler.ListUsers)
		admin.POST("/users/:id/ban", authMiddleware.RequirePermission(auth.PermBanUsers), adminHandler.BanUser)
		admin.POST("/users/:id/unban", authMiddleware.RequirePermission(auth.PermBanUsers), adminHandler.UnbanUser)
		admin.PATCH("/users/:id/role", authMiddleware.RequirePermission(auth.PermManageRoles), adminHandler.ChangeRole)
		admin.DELETE("/users/:id", authMiddleware.RequirePermission(auth.PermManageRoles), adminHandler.DeleteUser)
	}

	return router
}
