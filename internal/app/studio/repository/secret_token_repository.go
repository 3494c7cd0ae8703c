package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"studioai/internal/app/studio/entity"
)

type secretTokenRepository struct {
	db *pgxpool.Pool
}

// NewSecretTokenRepository создает новый репозиторий одноразовых токенов
func NewSecretTokenRepository(db *pgxpool.Pool) SecretTokenRepository {
	return &secretTokenRepository{db: db}
}

// Save сохраняет хэш одноразового токена
func (r *secretTokenRepository) Save(ctx context.Context, token *entity.SecretToken) error {
	query := `
		INSERT INTO secret_tokens (user_id, purpose, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(
		ctx, query,
		token.UserID, token.Purpose, token.TokenHash, token.ExpiresAt, token.CreatedAt,
	)

	if err != nil {
		countDBError("secret_tokens.save")
		return fmt.Errorf("failed to save secret token: %w", err)
	}

	return nil
}

// Consume помечает токен использованным и возвращает владельца.
// Поиск и отметка - один условный UPDATE: из двух конкурентных
// потреблений одного токена строку изменит ровно одно.
func (r *secretTokenRepository) Consume(ctx context.Context, tokenHash string, purpose entity.SecretTokenPurpose, now time.Time) (uuid.UUID, error) {
	query := `
		UPDATE secret_tokens
		SET used_at = $1
		WHERE token_hash = $2 AND purpose = $3 AND used_at IS NULL AND expires_at > $1
		RETURNING user_id
	`

	var userID uuid.UUID
	err := r.db.QueryRow(ctx, query, now, tokenHash, purpose).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, ErrTokenNotFound
		}
		countDBError("secret_tokens.consume")
		return uuid.Nil, fmt.Errorf("failed to consume secret token: %w", err)
	}

	return userID, nil
}

// DeleteExpired удаляет истекшие и использованные токены (cron)
func (r *secretTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM secret_tokens WHERE expires_at < $1 OR used_at IS NOT NULL`, before)
	if err != nil {
		countDBError("secret_tokens.cleanup")
		return 0, fmt.Errorf("failed to cleanup secret tokens: %w", err)
	}
	return result.RowsAffected(), nil
}
