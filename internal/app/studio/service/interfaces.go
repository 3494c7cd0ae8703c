package service

import (
	"context"

	"github.com/google/uuid"

	"studioai/internal/app/studio/auth"
	"studioai/internal/app/studio/entity"
)

type AuthServiceInterface interface {
	Signup(ctx context.Context, req *entity.SignupRequest, client entity.ClientContext) (*entity.User, *entity.TokenPair, error)
	Login(ctx context.Context, req *entity.LoginRequest, client entity.ClientContext) (*entity.User, *entity.TokenPair, error)
	Refresh(ctx context.Context, rawRefreshToken string, client entity.ClientContext) (*entity.TokenPair, error)
	Logout(ctx context.Context, rawRefreshToken string) error
	VerifyEmail(ctx context.Context, rawToken string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, rawToken, newPassword string) error
	ResendVerification(ctx context.Context, email string) error
	// AuthenticateRequest проверяет access токен и живой статус пользователя
	AuthenticateRequest(ctx context.Context, accessToken string) (*entity.User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*entity.User, error)
}

type UserServiceInterface interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *entity.UpdateProfileRequest) (*entity.Profile, error)
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
}

type AdminServiceInterface interface {
	ListUsers(ctx context.Context, page, limit int) ([]entity.User, *entity.Pagination, error)
	ChangeRole(ctx context.Context, userID uuid.UUID, role auth.Role) (*entity.User, error)
	BanUser(ctx context.Context, userID uuid.UUID, reason string) error
	UnbanUser(ctx context.Context, userID uuid.UUID) error
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

type PhotoServiceInterface interface {
	Generate(ctx context.Context, userID uuid.UUID, req *entity.GeneratePhotoRequest) (*entity.Photo, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]entity.Photo, *entity.Pagination, error)
}
