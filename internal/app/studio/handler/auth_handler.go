package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"studioai/internal/app/studio/config"
	"studioai/internal/app/studio/entity"
	"studioai/internal/app/studio/service"
	"studioai/pkg/metrics"
)

const refreshCookieName = "refresh_token"

// Путь cookie ограничен маршрутами аутентификации:
// браузер не шлёт refresh токен с обычными запросами
const refreshCookiePath = "/auth"

type AuthHandler struct {
	authService service.AuthServiceInterface
	cfg         *config.Config
}

func NewAuthHandler(authService service.AuthServiceInterface, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req entity.SignupRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	user, tokens, err := h.authService.Signup(c.Request.Context(), &req, clientContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			respondError(c, http.StatusConflict, "Conflict", "User with this email already exists")
		default:
			respondInternal(c, h.cfg.Env, err)
		}
		return
	}

	metrics.AuthSignups.Inc()
	metrics.AuthTokensIssued.WithLabelValues("access").Inc()
	metrics.AuthTokensIssued.WithLabelValues("refresh").Inc()

	h.setRefreshCookie(c, tokens.RefreshToken)
	respondOK(c, http.StatusCreated, entity.AuthResponse{
		User:        user,
		AccessToken: tokens.AccessToken,
		ExpiresIn:   tokens.ExpiresIn,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req entity.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	user, tokens, err := h.authService.Login(c.Request.Context(), &req, clientContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			metrics.AuthLogins.WithLabelValues("failed").Inc()
			respondError(c, http.StatusUnauthorized, "Unauthorized", "Invalid email or password")
		case errors.Is(err, service.ErrAccountBanned):
			metrics.AuthLogins.WithLabelValues("blocked").Inc()
			respondError(c, http.StatusForbidden, "Forbidden", "Account is banned")
		case errors.Is(err, service.ErrAccountDeactivated):
			respondError(c, http.StatusUnauthorized, "Unauthorized", "Account is deactivated")
		default:
			respondInternal(c, h.cfg.Env, err)
		}
		return
	}

	metrics.AuthLogins.WithLabelValues("success").Inc()
	metrics.AuthTokensIssued.WithLabelValues("access").Inc()
	metrics.AuthTokensIssued.WithLabelValues("refresh").Inc()

	h.setRefreshCookie(c, tokens.RefreshToken)
	respondOK(c, http.StatusOK, entity.AuthResponse{
		User:        user,
		AccessToken: tokens.AccessToken,
		ExpiresIn:   tokens.ExpiresIn,
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	rawToken := h.refreshTokenFromRequest(c)
	if rawToken == "" {
		respondError(c, http.StatusUnauthorized, "Unauthorized", "Refresh token required")
		return
	}

	tokens, err := h.authService.Refresh(c.Request.Context(), rawToken, clientContext(c))
	if err != nil {
		metrics.AuthTokenRefreshes.WithLabelValues("rejected").Inc()
		switch {
		case errors.Is(err, service.ErrInvalidRefreshToken):
			respondError(c, http.StatusUnauthorized, "Unauthorized", "Invalid or expired refresh token")
		case errors.Is(err, service.ErrAccountBanned):
			respondError(c, http.StatusForbidden, "Forbidden", "Account is banned")
		case errors.Is(err, service.ErrAccountDeactivated):
			respondError(c, http.StatusUnauthorized, "Unauthorized", "Account is deactivated")
		default:
			respondInternal(c, h.cfg.Env, err)
		}
		return
	}

	metrics.AuthTokenRefreshes.WithLabelValues("success").Inc()

	h.setRefreshCookie(c, tokens.RefreshToken)
	respondOK(c, http.StatusOK, gin.H{
		"access_token": tokens.AccessToken,
		"expires_in":   tokens.ExpiresIn,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	rawToken := h.refreshTokenFromRequest(c)

	if err := h.authService.Logout(c.Request.Context(), rawToken); err != nil {
		respondInternal(c, h.cfg.Env, err)
		return
	}

	metrics.AuthSessionsRevoked.WithLabelValues("logout").Inc()

	h.clearRefreshCookie(c)
	respondMessage(c, http.StatusOK, "Successfully logged out")
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req entity.VerifyEmailRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	if err := h.authService.VerifyEmail(c.Request.Context(), req.Token); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSecretToken):
			respondError(c, http.StatusBadRequest, "Bad Request", "Invalid or expired token")
		default:
			respondInternal(c, h.cfg.Env, err)
		}
		return
	}

	respondMessage(c, http.StatusOK, "Email verified")
}

// ForgotPassword отвечает 200 независимо от существования аккаунта
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req entity.ForgotPasswordRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	if err := h.authService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respondInternal(c, h.cfg.Env, err)
		return
	}

	respondMessage(c, http.StatusOK, "If the email exists, a reset link has been sent")
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req entity.ResetPasswordRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSecretToken):
			respondError(c, http.StatusBadRequest, "Bad Request", "Invalid or expired token")
		default:
			respondInternal(c, h.cfg.Env, err)
		}
		return
	}

	metrics.AuthSessionsRevoked.WithLabelValues("password_reset").Inc()
	respondMessage(c, http.StatusOK, "Password has been reset")
}

// ResendVerification отвечает 200 независимо от существования аккаунта
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req entity.ForgotPasswordRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	if err := h.authService.ResendVerification(c.Request.Context(), req.Email); err != nil {
		respondInternal(c, h.cfg.Env, err)
		return
	}

	respondMessage(c, http.StatusOK, "If the email exists, a verification link has been sent")
}

func (h *AuthHandler) GetMe(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized", "Unauthorized")
		return
	}

	user, err := h.authService.GetUserByID(c.Request.Context(), identity.ID)
	if err != nil {
		respondInternal(c, h.cfg.Env, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{"user": user})
}

// refreshTokenFromRequest берёт токен из cookie, а для клиентов
// без cookie - из тела запроса
func (h *AuthHandler) refreshTokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(refreshCookieName); err == nil && cookie != "" {
		return cookie
	}

	var req entity.RefreshRequest
	if err := c.ShouldBindJSON(&req); err == nil {
		return req.RefreshToken
	}

	return ""
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	maxAge := int(h.cfg.JWT.RefreshTokenDuration.Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookieName, token, maxAge, refreshCookiePath, "", h.cfg.Env == "production", true)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookieName, "", -1, refreshCookiePath, "", h.cfg.Env == "production", true)
}

// clientContext собирает данные клиента для аудита сессии
func clientContext(c *gin.Context) entity.ClientContext {
	return entity.ClientContext{
		IPAddress:  c.ClientIP(),
		DeviceInfo: c.Request.UserAgent(),
	}
}
