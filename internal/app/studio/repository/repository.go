package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"studioai/internal/app/studio/auth"
	"studioai/internal/app/studio/entity"
	"studioai/pkg/metrics"
)

// countDBError учитывает неожиданные ошибки хранилища.
// Ожидаемые исходы (ErrNotFound, ErrDuplicateEmail) сюда не попадают.
func countDBError(operation string) {
	metrics.DbErrors.WithLabelValues("studio-ai", operation).Inc()
}

var (
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail - нарушение уникальности email при регистрации
	ErrDuplicateEmail = errors.New("email already taken")

	// ErrTokenNotFound - refresh или secret токен отсутствует, истёк или уже использован
	ErrTokenNotFound = errors.New("token not found")
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	SetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	SetEmailVerified(ctx context.Context, id uuid.UUID) error
	SetRole(ctx context.Context, id uuid.UUID, role auth.Role) error
	SetBanned(ctx context.Context, id uuid.UUID, banned bool, reason string) error
	Anonymize(ctx context.Context, id uuid.UUID, anonymizedEmail string) error
	List(ctx context.Context, limit, offset int) ([]entity.User, int64, error)
}

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.Profile, error)
	Upsert(ctx context.Context, profile *entity.Profile) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

type RefreshTokenRepository interface {
	Save(ctx context.Context, token *entity.RefreshToken) error
	// DeleteByHash удаляет запись по хэшу и сообщает, была ли она.
	// Атомарность этой операции решает гонку двух одновременных refresh:
	// выигрывает ровно один вызов.
	DeleteByHash(ctx context.Context, tokenHash string) (bool, error)
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type SecretTokenRepository interface {
	Save(ctx context.Context, token *entity.SecretToken) error
	// Consume атомарно помечает неиспользованный непросроченный токен
	// использованным и возвращает владельца. Второе потребление того же
	// токена получает ErrTokenNotFound.
	Consume(ctx context.Context, tokenHash string, purpose entity.SecretTokenPurpose, now time.Time) (uuid.UUID, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type PhotoRepository interface {
	Create(ctx context.Context, photo *entity.Photo) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]entity.Photo, int64, error)
	DeleteAllForUser(ctx context.Context, userID string) error
}
