package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"studioai/internal/app/studio/auth"
	"studioai/internal/app/studio/entity"
)

type userRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository создает новый репозиторий пользователей
func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, password_hash, role, email_verified, is_active, is_banned, ban_reason, created_at, last_login_at`

// Create создает нового пользователя
func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, role, email_verified, is_active, is_banned, ban_reason, created_at)
		VALUES ($1, lower($2), $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(
		ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Role,
		user.EmailVerified, user.IsActive, user.IsBanned, user.BanReason, user.CreatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 = unique_violation
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		countDBError("users.create")
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID получает пользователя по ID
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

// GetByEmail получает пользователя по email (поиск регистронезависимый)
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = lower($1)`
	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *userRepository) scanUser(row pgx.Row) (*entity.User, error) {
	var user entity.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.EmailVerified,
		&user.IsActive,
		&user.IsBanned,
		&user.BanReason,
		&user.CreatedAt,
		&user.LastLoginAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		countDBError("users.get")
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// UpdateLastLogin фиксирует время последнего входа
func (r *userRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.exec(ctx, `UPDATE users SET last_login_at = $1 WHERE id = $2`, at, id)
}

// SetPassword сохраняет новый хэш пароля
func (r *userRepository) SetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.exec(ctx, `UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, id)
}

// SetEmailVerified помечает email подтверждённым
func (r *userRepository) SetEmailVerified(ctx context.Context, id uuid.UUID) error {
	return r.exec(ctx, `UPDATE users SET email_verified = TRUE WHERE id = $1`, id)
}

// SetRole меняет роль пользователя
func (r *userRepository) SetRole(ctx context.Context, id uuid.UUID, role auth.Role) error {
	return r.exec(ctx, `UPDATE users SET role = $1 WHERE id = $2`, role, id)
}

// SetBanned ставит или снимает блокировку
func (r *userRepository) SetBanned(ctx context.Context, id uuid.UUID, banned bool, reason string) error {
	return r.exec(ctx, `UPDATE users SET is_banned = $1, ban_reason = $2 WHERE id = $3`, banned, reason, id)
}

// Anonymize выполняет мягкое удаление: деактивация + обезличенный email
func (r *userRepository) Anonymize(ctx context.Context, id uuid.UUID, anonymizedEmail string) error {
	return r.exec(ctx, `UPDATE users SET email = $1, is_active = FALSE WHERE id = $2`, anonymizedEmail, id)
}

func (r *userRepository) exec(ctx context.Context, query string, args ...interface{}) error {
	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		countDBError("users.update")
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List возвращает страницу пользователей и общее количество
func (r *userRepository) List(ctx context.Context, limit, offset int) ([]entity.User, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&total); err != nil {
		countDBError("users.list")
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query := `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		countDBError("users.list")
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []entity.User
	for rows.Next() {
		var user entity.User
		err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.PasswordHash,
			&user.Role,
			&user.EmailVerified,
			&user.IsActive,
			&user.IsBanned,
			&user.BanReason,
			&user.CreatedAt,
			&user.LastLoginAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating users: %w", err)
	}

	return users, total, nil
}
