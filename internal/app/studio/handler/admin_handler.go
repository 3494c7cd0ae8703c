package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"studioai/internal/app/studio/auth"
	"studioai/internal/app/studio/config"
	"studioai/internal/app/studio/entity"
	"studioai/internal/app/studio/service"
	"studioai/pkg/metrics"
)

type AdminHandler struct {
	adminService service.AdminServiceInterface
	cfg          *config.Config
}

func NewAdminHandler(adminService service.AdminServiceInterface, cfg *config.Config) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		cfg:          cfg,
	}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	users, pagination, err := h.adminService.ListUsers(c.Request.Context(), page, limit)
	if err != nil {
		respondInternal(c, h.cfg.Env, err)
		return
	}

	respondList(c, users, pagination)
}

func (h *AdminHandler) ChangeRole(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}

	var req entity.ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	role, valid := auth.ParseRole(req.Role)
	if !valid {
		respondError(c, http.StatusBadRequest, "Bad Request", "Unknown role")
		return
	}

	user, err := h.adminService.ChangeRole(c.Request.Context(), userID, role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, http.StatusNotFound, "Not Found", "User not found")
		case errors.Is(err, service.ErrInvalidRole):
			respondError(c, http.StatusBadRequest, "Bad Request", "Unknown role")
		default:
			respondInternal(c, h.cfg.Env, err)
		}
		return
	}

	respondOK(c, http.StatusOK, user)
}

func (h *AdminHandler) BanUser(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}

	// Причина опциональна, тело может отсутствовать
	var req entity.BanUserRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.adminService.BanUser(c.Request.Context(), userID, req.Reason); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, http.StatusNotFound, "Not Found", "User not found")
		default:
			respondInternal(c, h.cfg.Env, err)
		}
		return
	}

	metrics.AuthSessionsRevoked.WithLabelValues("ban").Inc()
	respondMessage(c, http.StatusOK, "User banned")
}

func (h *AdminHandler) UnbanUser(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}

	if err := h.adminService.UnbanUser(c.Request.Context(), userID); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, http.StatusNotFound, "Not Found", "User not found")
		default:
			respondInternal(c, h.cfg.Env, err)
		}
		return
	}

	respondMessage(c, http.StatusOK, "User unbanned")
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}

	if err := h.adminService.DeleteUser(c.Request.Context(), userID); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, http.StatusNotFound, "Not Found", "User not found")
		default:
			respondInternal(c, h.cfg.Env, err)
		}
		return
	}

	metrics.AuthSessionsRevoked.WithLabelValues("account_deleted").Inc()
	respondMessage(c, http.StatusOK, "User deleted")
}

func pathUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Bad Request", "Invalid user id")
		return uuid.Nil, false
	}
	return userID, true
}
