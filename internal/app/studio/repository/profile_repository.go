package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"studioai/internal/app/studio/entity"
)

type profileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository создает новый репозиторий профилей
func NewProfileRepository(db *pgxpool.Pool) ProfileRepository {
	return &profileRepository{db: db}
}

// GetByUserID получает профиль пользователя
func (r *profileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	query := `
		SELECT user_id, first_name, last_name, display_name, avatar_url, bio, updated_at
		FROM profiles
		WHERE user_id = $1
	`

	var profile entity.Profile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.FirstName,
		&profile.LastName,
		&profile.DisplayName,
		&profile.AvatarURL,
		&profile.Bio,
		&profile.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		countDBError("profiles.get")
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &profile, nil
}

// Upsert создаёт профиль при первом обновлении или перезаписывает существующий
func (r *profileRepository) Upsert(ctx context.Context, profile *entity.Profile) error {
	query := `
		INSERT INTO profiles (user_id, first_name, last_name, display_name, avatar_url, bio, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			display_name = EXCLUDED.display_name,
			avatar_url = EXCLUDED.avatar_url,
			bio = EXCLUDED.bio,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.Exec(
		ctx, query,
		profile.UserID, profile.FirstName, profile.LastName,
		profile.DisplayName, profile.AvatarURL, profile.Bio, profile.UpdatedAt,
	)

	if err != nil {
		countDBError("profiles.upsert")
		return fmt.Errorf("failed to upsert profile: %w", err)
	}

	return nil
}

// Delete удаляет профиль пользователя
func (r *profileRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID)
	if err != nil {
		countDBError("profiles.delete")
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}
