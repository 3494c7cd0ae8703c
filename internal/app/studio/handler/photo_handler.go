package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"studioai/internal/app/studio/config"
	"studioai/internal/app/studio/entity"
	"studioai/internal/app/studio/service"
	"studioai/pkg/metrics"
)

type PhotoHandler struct {
	photoService service.PhotoServiceInterface
	cfg          *config.Config
}

func NewPhotoHandler(photoService service.PhotoServiceInterface, cfg *config.Config) *PhotoHandler {
	return &PhotoHandler{
		photoService: photoService,
		cfg:          cfg,
	}
}

func (h *PhotoHandler) Generate(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized", "Authentication required")
		return
	}

	var req entity.GeneratePhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	photo, err := h.photoService.Generate(c.Request.Context(), identity.ID, &req)
	if err != nil {
		metrics.PhotoGenerations.WithLabelValues("failed").Inc()
		switch {
		case errors.Is(err, service.ErrGenerationFailed):
			respondError(c, http.StatusBadGateway, "Bad Gateway", "Photo generation failed")
		default:
			respondInternal(c, h.cfg.Env, err)
		}
		return
	}

	metrics.PhotoGenerations.WithLabelValues("success").Inc()
	respondOK(c, http.StatusCreated, photo)
}

func (h *PhotoHandler) List(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized", "Authentication required")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	photos, pagination, err := h.photoService.ListByUser(c.Request.Context(), identity.ID, page, limit)
	if err != nil {
		respondInternal(c, h.cfg.Env, err)
		return
	}

	respondList(c, photos, pagination)
}
