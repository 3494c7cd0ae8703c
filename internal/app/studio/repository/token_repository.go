package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"studioai/internal/app/studio/entity"
)

type refreshTokenRepository struct {
	db *pgxpool.Pool
}

// NewRefreshTokenRepository создает новый репозиторий refresh токенов
func NewRefreshTokenRepository(db *pgxpool.Pool) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

// Save сохраняет хэш refresh токена вместе с данными клиента
func (r *refreshTokenRepository) Save(ctx context.Context, token *entity.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at, created_at, ip_address, device_info)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(
		ctx, query,
		token.UserID, token.TokenHash, token.ExpiresAt, token.CreatedAt,
		token.IPAddress, token.DeviceInfo,
	)

	if err != nil {
		countDBError("refresh_tokens.save")
		return fmt.Errorf("failed to save refresh token: %w", err)
	}

	return nil
}

// DeleteByHash удаляет запись по хэшу одним условным DELETE.
// Возвращает false, если записи не было: при двух одновременных refresh
// с одним токеном строку удалит ровно один из них.
func (r *refreshTokenRepository) DeleteByHash(ctx context.Context, tokenHash string) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE token_hash = $1`, tokenHash)
	if err != nil {
		countDBError("refresh_tokens.delete")
		return false, fmt.Errorf("failed to delete refresh token: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// DeleteAllForUser отзывает все сессии пользователя
// (смена пароля, блокировка, удаление аккаунта)
func (r *refreshTokenRepository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID)
	if err != nil {
		countDBError("refresh_tokens.delete")
		return fmt.Errorf("failed to delete user refresh tokens: %w", err)
	}
	return nil
}

// DeleteExpired удаляет истекшие записи (вызывается cron-джобой)
func (r *refreshTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at < $1`, before)
	if err != nil {
		countDBError("refresh_tokens.cleanup")
		return 0, fmt.Errorf("failed to cleanup expired refresh tokens: %w", err)
	}
	return result.RowsAffected(), nil
}
