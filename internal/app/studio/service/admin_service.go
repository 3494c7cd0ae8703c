package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"studioai/internal/app/studio/auth"
	"studioai/internal/app/studio/entity"
	"studioai/internal/app/studio/repository"
)

// AdminService - операции управления пользователями
type AdminService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.RefreshTokenRepository
}

// NewAdminService создает новый административный сервис
func NewAdminService(userRepo repository.UserRepository, tokenRepo repository.RefreshTokenRepository) *AdminService {
	return &AdminService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
	}
}

// ListUsers возвращает страницу пользователей
func (s *AdminService) ListUsers(ctx context.Context, page, limit int) ([]entity.User, *entity.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	users, total, err := s.userRepo.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, NewPagination(total, page, limit), nil
}

// ChangeRole меняет роль пользователя
func (s *AdminService) ChangeRole(ctx context.Context, userID uuid.UUID, role auth.Role) (*entity.User, error) {
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}

	if err := s.userRepo.SetRole(ctx, userID, role); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to set role: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// BanUser блокирует пользователя и немедленно отзывает все его
// сессии, не дожидаясь естественного истечения токенов
func (s *AdminService) BanUser(ctx context.Context, userID uuid.UUID, reason string) error {
	if err := s.userRepo.SetBanned(ctx, userID, true, reason); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to ban user: %w", err)
	}

	if err := s.tokenRepo.DeleteAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}

	return nil
}

// UnbanUser снимает блокировку
func (s *AdminService) UnbanUser(ctx context.Context, userID uuid.UUID) error {
	if err := s.userRepo.SetBanned(ctx, userID, false, ""); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to unban user: %w", err)
	}

	return nil
}

// DeleteUser - мягкое удаление аккаунта администратором
func (s *AdminService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
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

	return nil
}

// NewPagination собирает блок пагинации для списочных ответов
func NewPagination(total int64, page, limit int) *entity.Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &entity.Pagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}
}
