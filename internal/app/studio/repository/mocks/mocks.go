package mocks

import (
	"context"
	"time"

	"studioai/internal/app/studio/auth"
	"studioai/internal/app/studio/entity"
	"studioai/internal/app/studio/infrastructure"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository мок для UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockUserRepository) SetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) SetEmailVerified(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) SetRole(ctx context.Context, id uuid.UUID, role auth.Role) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *MockUserRepository) SetBanned(ctx context.Context, id uuid.UUID, banned bool, reason string) error {
	args := m.Called(ctx, id, banned, reason)
	return args.Error(0)
}

func (m *MockUserRepository) Anonymize(ctx context.Context, id uuid.UUID, anonymizedEmail string) error {
	args := m.Called(ctx, id, anonymizedEmail)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]entity.User, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]entity.User), args.Get(1).(int64), args.Error(2)
}

// MockProfileRepository мок для ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Profile), args.Error(1)
}

func (m *MockProfileRepository) Upsert(ctx context.Context, profile *entity.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockRefreshTokenRepository мок для RefreshTokenRepository
type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Save(ctx context.Context, token *entity.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) DeleteByHash(ctx context.Context, tokenHash string) (bool, error) {
	args := m.Called(ctx, tokenHash)
	return args.Bool(0), args.Error(1)
}

func (m *MockRefreshTokenRepository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

// MockSecretTokenRepository мок для SecretTokenRepository
type MockSecretTokenRepository struct {
	mock.Mock
}

func (m *MockSecretTokenRepository) Save(ctx context.Context, token *entity.SecretToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockSecretTokenRepository) Consume(ctx context.Context, tokenHash string, purpose entity.SecretTokenPurpose, now time.Time) (uuid.UUID, error) {
	args := m.Called(ctx, tokenHash, purpose, now)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockSecretTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

// MockPhotoRepository мок для PhotoRepository
type MockPhotoRepository struct {
	mock.Mock
}

func (m *MockPhotoRepository) Create(ctx context.Context, photo *entity.Photo) error {
	args := m.Called(ctx, photo)
	return args.Error(0)
}

func (m *MockPhotoRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]entity.Photo, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]entity.Photo), args.Get(1).(int64), args.Error(2)
}

func (m *MockPhotoRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockRateLimiter мок для RateLimiter
type MockRateLimiter struct {
	mock.Mock
}

func (m *MockRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Get(1).(time.Duration), args.Error(2)
}

// MockEmailPublisher мок для канала доставки писем
type MockEmailPublisher struct {
	mock.Mock
}

func (m *MockEmailPublisher) PublishVerifyEmail(ctx context.Context, userID, email, token string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, email, token, expiresAt)
	return args.Error(0)
}

func (m *MockEmailPublisher) PublishPasswordReset(ctx context.Context, userID, email, token string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, email, token, expiresAt)
	return args.Error(0)
}

// MockInferenceClient мок для upstream API генерации изображений
type MockInferenceClient struct {
	mock.Mock
}

func (m *MockInferenceClient) Generate(ctx context.Context, prompt, style string) (*infrastructure.InferenceResult, error) {
	args := m.Called(ctx, prompt, style)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*infrastructure.InferenceResult), args.Error(1)
}
