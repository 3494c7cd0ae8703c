package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"studioai/internal/app/studio/auth"
	"studioai/internal/app/studio/entity"
	"studioai/internal/app/studio/repository"
	"studioai/internal/app/studio/util"
	"studioai/pkg/logger"
)

const (
	verifyTokenTTL = 24 * time.Hour
	resetTokenTTL  = 1 * time.Hour
)

// EmailPublisherInterface - внешний канал доставки писем (Kafka)
type EmailPublisherInterface interface {
	PublishVerifyEmail(ctx context.Context, userID, email, token string, expiresAt time.Time) error
	PublishPasswordReset(ctx context.Context, userID, email, token string, expiresAt time.Time) error
}

// AuthService управляет жизненным циклом сессий: вход, ротация
// refresh токенов, выход, подтверждение email и сброс пароля
type AuthService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	tokenRepo   repository.RefreshTokenRepository
	secretRepo  repository.SecretTokenRepository
	jwtManager  *util.JWTManager
	email       EmailPublisherInterface
	now         func() time.Time
}

// NewAuthService создает новый сервис аутентификации
func NewAuthService(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	tokenRepo repository.RefreshTokenRepository,
	secretRepo repository.SecretTokenRepository,
	jwtManager *util.JWTManager,
	email EmailPublisherInterface,
) *AuthService {
	return NewAuthServiceWithClock(userRepo, profileRepo, tokenRepo, secretRepo, jwtManager, email, time.Now)
}

// NewAuthServiceWithClock позволяет подменить часы в тестах
func NewAuthServiceWithClock(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	tokenRepo repository.RefreshTokenRepository,
	secretRepo repository.SecretTokenRepository,
	jwtManager *util.JWTManager,
	email EmailPublisherInterface,
	now func() time.Time,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		tokenRepo:   tokenRepo,
		secretRepo:  secretRepo,
		jwtManager:  jwtManager,
		email:       email,
		now:         now,
	}
}

// Signup регистрирует нового пользователя с ролью USER и
// неподтверждённым email; письмо с токеном уходит асинхронно
func (s *AuthService) Signup(ctx context.Context, req *entity.SignupRequest, client entity.ClientContext) (*entity.User, *entity.TokenPair, error) {
	passwordHash, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         auth.RoleUser,
		IsActive:     true,
		CreatedAt:    s.now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Имя из формы регистрации сразу ложится в профиль
	if req.FirstName != "" || req.LastName != "" {
		profile := &entity.Profile{
			UserID:    user.ID,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			UpdatedAt: s.now(),
		}
		if err := s.profileRepo.Upsert(ctx, profile); err != nil {
			return nil, nil, fmt.Errorf("failed to create profile: %w", err)
		}
	}

	// Отправка письма - побочный эффект: её сбой не отменяет регистрацию
	if err := s.issueVerificationEmail(ctx, user); err != nil {
		logger.Warn().Err(err).Str("user_id", user.ID.String()).Msg("failed to dispatch verification email")
	}

	tokens, err := s.issueTokenPair(ctx, user, client)
	if err != nil {
		return nil, nil, err
	}

	return user, tokens, nil
}

// Login проверяет учётные данные и выдаёт пару токенов.
// Отсутствие пользователя и неверный пароль дают один и тот же
// ErrInvalidCredentials - перечисление аккаунтов невозможно.
func (s *AuthService) Login(ctx context.Context, req *entity.LoginRequest, client entity.ClientContext) (*entity.User, *entity.TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !util.CheckPassword(req.Password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	if user.IsBanned {
		return nil, nil, ErrAccountBanned
	}
	if !user.IsActive {
		return nil, nil, ErrAccountDeactivated
	}

	tokens, err := s.issueTokenPair(ctx, user, client)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, nil, fmt.Errorf("failed to update last login: %w", err)
	}
	user.LastLoginAt = &now

	return user, tokens, nil
}

// Refresh обменивает refresh токен на новую пару с ротацией:
// предъявленный хэш удаляется до выпуска нового. Из двух гонящихся
// вызовов с одним токеном успевает ровно один, второй получает
// ErrInvalidRefreshToken.
func (s *AuthService) Refresh(ctx context.Context, rawRefreshToken string, client entity.ClientContext) (*entity.TokenPair, error) {
	claims, err := s.jwtManager.ValidateToken(rawRefreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	deleted, err := s.tokenRepo.DeleteByHash(ctx, util.HashToken(rawRefreshToken))
	if err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}
	if !deleted {
		// Хэш не найден: токен отозван, истёк или уже был ротирован
		return nil, ErrInvalidRefreshToken
	}

	// Статус пользователя перечитывается из живого хранилища:
	// блокировка и деактивация действуют до истечения токена
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.IsBanned {
		return nil, ErrAccountBanned
	}
	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}

	return s.issueTokenPair(ctx, user, client)
}

// Logout удаляет предъявленный refresh токен. Идемпотентен:
// повторный выход с тем же токеном не является ошибкой.
func (s *AuthService) Logout(ctx context.Context, rawRefreshToken string) error {
	if rawRefreshToken == "" {
		return nil
	}

	if _, err := s.tokenRepo.DeleteByHash(ctx, util.HashToken(rawRefreshToken)); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}

	return nil
}

// VerifyEmail потребляет одноразовый токен подтверждения
func (s *AuthService) VerifyEmail(ctx context.Context, rawToken string) error {
	userID, err := s.secretRepo.Consume(ctx, util.HashToken(rawToken), entity.PurposeEmailVerify, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return ErrInvalidSecretToken
		}
		return fmt.Errorf("failed to consume verification token: %w", err)
	}

	if err := s.userRepo.SetEmailVerified(ctx, userID); err != nil {
		return fmt.Errorf("failed to mark email verified: %w", err)
	}

	return nil
}

// ForgotPassword выпускает токен сброса. Ответ одинаков и для
// существующего, и для несуществующего email: при отсутствии
// аккаунта выпуск просто молча пропускается.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	rawToken, expiresAt, err := s.issueSecretToken(ctx, user.ID, entity.PurposePasswordReset, resetTokenTTL)
	if err != nil {
		return err
	}

	if err := s.email.PublishPasswordReset(ctx, user.ID.String(), user.Email, rawToken, expiresAt); err != nil {
		return fmt.Errorf("failed to publish password reset event: %w", err)
	}

	return nil
}

// ResetPassword устанавливает новый пароль по одноразовому токену
// и отзывает все refresh токены пользователя: смена пароля
// завершает все его сессии.
func (s *AuthService) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	userID, err := s.secretRepo.Consume(ctx, util.HashToken(rawToken), entity.PurposePasswordReset, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return ErrInvalidSecretToken
		}
		return fmt.Errorf("failed to consume reset token: %w", err)
	}

	passwordHash, err := util.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.SetPassword(ctx, userID, passwordHash); err != nil {
		return fmt.Errorf("failed to set password: %w", err)
	}

	if err := s.tokenRepo.DeleteAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}

	return nil
}

// ResendVerification повторно отправляет письмо подтверждения.
// Как и ForgotPassword, отвечает одинаково вне зависимости от
// существования аккаунта.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.EmailVerified {
		return nil
	}

	return s.issueVerificationEmail(ctx, user)
}

// AuthenticateRequest проверяет access токен и перечитывает живой
// статус пользователя: роль из базы, а не из полезной нагрузки токена
func (s *AuthService) AuthenticateRequest(ctx context.Context, accessToken string) (*entity.User, error) {
	claims, err := s.jwtManager.ValidateToken(accessToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, util.ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.IsBanned {
		return nil, ErrAccountBanned
	}
	// Деактивированный аккаунт = недействительная сессия,
	// а не нехватка прав
	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}

	return user, nil
}

// GetUserByID получает пользователя для /auth/me
func (s *AuthService) GetUserByID(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// issueTokenPair генерирует пару токенов и сохраняет хэш refresh токена
func (s *AuthService) issueTokenPair(ctx context.Context, user *entity.User, client entity.ClientContext) (*entity.TokenPair, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	record := &entity.RefreshToken{
		UserID:     user.ID,
		TokenHash:  util.HashToken(refreshToken),
		ExpiresAt:  s.now().Add(s.jwtManager.GetRefreshTokenDuration()),
		CreatedAt:  s.now(),
		IPAddress:  client.IPAddress,
		DeviceInfo: client.DeviceInfo,
	}

	if err := s.tokenRepo.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save refresh token: %w", err)
	}

	return &entity.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.GetAccessTokenDuration().Seconds()),
	}, nil
}

func (s *AuthService) issueVerificationEmail(ctx context.Context, user *entity.User) error {
	rawToken, expiresAt, err := s.issueSecretToken(ctx, user.ID, entity.PurposeEmailVerify, verifyTokenTTL)
	if err != nil {
		return err
	}

	if err := s.email.PublishVerifyEmail(ctx, user.ID.String(), user.Email, rawToken, expiresAt); err != nil {
		return fmt.Errorf("failed to publish verify email event: %w", err)
	}

	return nil
}

// issueSecretToken создает одноразовый токен; в базу уходит только хэш
func (s *AuthService) issueSecretToken(ctx context.Context, userID uuid.UUID, purpose entity.SecretTokenPurpose, ttl time.Duration) (string, time.Time, error) {
	rawToken, err := util.GenerateSecretToken()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate secret token: %w", err)
	}

	expiresAt := s.now().Add(ttl)
	record := &entity.SecretToken{
		UserID:    userID,
		Purpose:   purpose,
		TokenHash: util.HashToken(rawToken),
		ExpiresAt: expiresAt,
		CreatedAt: s.now(),
	}

	if err := s.secretRepo.Save(ctx, record); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to save secret token: %w", err)
	}

	return rawToken, expiresAt, nil
}
