package entity

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"studioai/internal/app/studio/auth"
)

// User представляет учётную запись пользователя
type User struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	Email         string     `json:"email" db:"email"`
	PasswordHash  string     `json:"-" db:"password_hash"` // не возвращаем в JSON
	Role          auth.Role  `json:"role" db:"role"`
	EmailVerified bool       `json:"email_verified" db:"email_verified"`
	IsActive      bool       `json:"is_active" db:"is_active"`
	IsBanned      bool       `json:"is_banned" db:"is_banned"`
	BanReason     string     `json:"ban_reason,omitempty" db:"ban_reason"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
}

// Profile - профиль пользователя (1:1 с User, создаётся лениво при первом обновлении)
type Profile struct {
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	FirstName   string    `json:"first_name,omitempty" db:"first_name"`
	LastName    string    `json:"last_name,omitempty" db:"last_name"`
	DisplayName string    `json:"display_name,omitempty" db:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty" db:"avatar_url"`
	Bio         string    `json:"bio,omitempty" db:"bio"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// RefreshToken хранит одну активную сессию пользователя.
// В базе лежит только SHA-256 хэш токена, никогда само значение.
type RefreshToken struct {
	ID         int64     `json:"id" db:"id"`
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
	TokenHash  string    `json:"-" db:"token_hash"`
	ExpiresAt  time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	IPAddress  string    `json:"ip_address,omitempty" db:"ip_address"`
	DeviceInfo string    `json:"device_info,omitempty" db:"device_info"`
}

// SecretTokenPurpose - назначение одноразового токена
type SecretTokenPurpose string

const (
	PurposeEmailVerify   SecretTokenPurpose = "email_verify"
	PurposePasswordReset SecretTokenPurpose = "password_reset"
)

// SecretToken - одноразовый токен для подтверждения email или сброса пароля
type SecretToken struct {
	ID        int64              `json:"id" db:"id"`
	UserID    uuid.UUID          `json:"user_id" db:"user_id"`
	Purpose   SecretTokenPurpose `json:"purpose" db:"purpose"`
	TokenHash string             `json:"-" db:"token_hash"`
	ExpiresAt time.Time          `json:"expires_at" db:"expires_at"`
	UsedAt    *time.Time         `json:"used_at,omitempty" db:"used_at"`
	CreatedAt time.Time          `json:"created_at" db:"created_at"`
}

// Photo - сгенерированное фото (хранится в MongoDB)
type Photo struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    string             `json:"user_id" bson:"user_id"`
	Prompt    string             `json:"prompt" bson:"prompt"`
	Style     string             `json:"style,omitempty" bson:"style,omitempty"`
	ImageURL  string             `json:"image_url" bson:"image_url"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// TokenPair содержит access и refresh токены
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"-"` // уходит клиенту только через HTTP-only cookie или тело logout/refresh
	ExpiresIn    int64  `json:"expires_in"` // время жизни access token в секундах
}

// ClientContext - данные клиента для аудита сессии
type ClientContext struct {
	IPAddress  string
	DeviceInfo string
}
