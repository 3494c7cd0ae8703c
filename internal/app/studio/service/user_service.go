package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"studioai/internal/app/studio/entity"
	"studioai/internal/app/studio/repository"
)

// UserService обслуживает профиль и самоудаление аккаунта
type UserService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	tokenRepo   repository.RefreshTokenRepository
	photoRepo   repository.PhotoRepository
	now         func() time.Time
}

// NewUserService создает новый сервис пользователей
func NewUserService(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	tokenRepo repository.RefreshTokenRepository,
	photoRepo repository.PhotoRepository,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		tokenRepo:   tokenRepo,
		photoRepo:   photoRepo,
		now:         time.Now,
	}
}

// GetProfile получает профиль пользователя
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// UpdateProfile обновляет профиль; при первом обновлении создаёт его
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *entity.UpdateProfileRequest) (*entity.Profile, error) {
	profile := &entity.Profile{
		UserID:      userID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
		Bio:         req.Bio,
		UpdatedAt:   s.now(),
	}

	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}

	return profile, nil
}

// DeleteAccount выполняет мягкое удаление: деактивация,
// обезличивание email, отзыв всех сессий, чистка данных
func (s *UserService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	anonymized := fmt.Sprintf("deleted-%s@anonymized.invalid", userID.String())
	if err := s.userRepo.Anonymize(ctx, userID, anonymized); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to anonymize user: %w", err)
	}

	if err := s.tokenRepo.DeleteAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}

	if err := s.profileRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}

	if err := s.photoRepo.DeleteAllForUser(ctx, userID.String()); err != nil {
		return fmt.Errorf("failed to delete photos: %w", err)
	}

	return nil
}
