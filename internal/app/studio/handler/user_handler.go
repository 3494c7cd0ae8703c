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

type UserHandler struct {
	userService service.UserServiceInterface
	cfg         *config.Config
}

func NewUserHandler(userService service.UserServiceInterface, cfg *config.Config) *UserHandler {
	return &UserHandler{
		userService: userService,
		cfg:         cfg,
	}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized", "Authentication required")
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), identity.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProfileNotFound):
			// Профиль создаётся лениво: до первого обновления отдаём пустой
			respondOK(c, http.StatusOK, entity.Profile{UserID: identity.ID})
		default:
			respondInternal(c, h.cfg.Env, err)
		}
		return
	}

	respondOK(c, http.StatusOK, profile)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized", "Authentication required")
		return
	}

	var req entity.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	profile, err := h.userService.UpdateProfile(c.Request.Context(), identity.ID, &req)
	if err != nil {
		respondInternal(c, h.cfg.Env, err)
		return
	}

	respondOK(c, http.StatusOK, profile)
}

func (h *UserHandler) DeleteAccount(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized", "Authentication required")
		return
	}

	if err := h.userService.DeleteAccount(c.Request.Context(), identity.ID); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, http.StatusNotFound, "Not Found", "User not found")
		default:
			respondInternal(c, h.cfg.Env, err)
		}
		return
	}

	metrics.AuthSessionsRevoked.WithLabelValues("account_deleted").Inc()
	respondMessage(c, http.StatusOK, "Account deleted")
}
