package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"studioai/internal/app/studio/entity"
	"studioai/internal/app/studio/infrastructure"
	"studioai/internal/app/studio/repository"
	"studioai/pkg/metrics"
)

// PhotoService генерирует фото через внешний inference API
// и ведёт галерею пользователя
type PhotoService struct {
	photoRepo repository.PhotoRepository
	inference infrastructure.InferenceClient
	now       func() time.Time
}

// NewPhotoService создает новый сервис генерации фото
func NewPhotoService(photoRepo repository.PhotoRepository, inference infrastructure.InferenceClient) *PhotoService {
	return &PhotoService{
		photoRepo: photoRepo,
		inference: inference,
		now:       time.Now,
	}
}

// Generate пробрасывает запрос в inference API и сохраняет результат
func (s *PhotoService) Generate(ctx context.Context, userID uuid.UUID, req *entity.GeneratePhotoRequest) (*entity.Photo, error) {
	started := s.now()
	result, err := s.inference.Generate(ctx, req.Prompt, req.Style)
	metrics.PhotoGenerationDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	photo := &entity.Photo{
		UserID:    userID.String(),
		Prompt:    req.Prompt,
		Style:     req.Style,
		ImageURL:  result.ImageURL,
		CreatedAt: s.now(),
	}

	if err := s.photoRepo.Create(ctx, photo); err != nil {
		return nil, fmt.Errorf("failed to save photo: %w", err)
	}

	return photo, nil
}

// ListByUser возвращает страницу фото пользователя
func (s *PhotoService) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]entity.Photo, *entity.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	photos, total, err := s.photoRepo.ListByUser(ctx, userID.String(), limit, (page-1)*limit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list photos: %w", err)
	}

	return photos, NewPagination(total, page, limit), nil
}
