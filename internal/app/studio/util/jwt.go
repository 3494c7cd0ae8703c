package util

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"studioai/internal/app/studio/auth"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// defaultTTLSeconds - fallback при непарсибельной строке TTL.
// Не полагаться на него в production-конфигурации.
const defaultTTLSeconds = 900

// JWTClaims - полезная нагрузка access и refresh токенов
type JWTClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   auth.Role `json:"role"`
	jwt.RegisteredClaims
}

// JWTManager подписывает и проверяет токены.
// Часы инжектируются, чтобы логика истечения тестировалась детерминированно.
type JWTManager struct {
	secretKey            string
	accessTokenDuration  time.Duration
	refreshTokenDuration time.Duration
	now                  func() time.Time
}

func NewJWTManager(secretKey string, accessDuration, refreshDuration time.Duration) *JWTManager {
	return NewJWTManagerWithClock(secretKey, accessDuration, refreshDuration, time.Now)
}

func NewJWTManagerWithClock(secretKey string, accessDuration, refreshDuration time.Duration, now func() time.Time) *JWTManager {
	return &JWTManager{
		secretKey:            secretKey,
		accessTokenDuration:  accessDuration,
		refreshTokenDuration: refreshDuration,
		now:                  now,
	}
}

// GenerateAccessToken выпускает короткоживущий access токен
func (m *JWTManager) GenerateAccessToken(userID uuid.UUID, email string, role auth.Role) (string, error) {
	return m.generate(userID, email, role, m.accessTokenDuration)
}

// GenerateRefreshToken выпускает долгоживущий refresh токен.
// Сервер хранит только его SHA-256 хэш.
func (m *JWTManager) GenerateRefreshToken(userID uuid.UUID, email string, role auth.Role) (string, error) {
	return m.generate(userID, email, role, m.refreshTokenDuration)
}

func (m *JWTManager) generate(userID uuid.UUID, email string, role auth.Role, ttl time.Duration) (string, error) {
	if m.secretKey == "" {
		return "", errors.New("jwt secret is not configured")
	}

	now := m.now()
	claims := JWTClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   userID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secretKey))
}

// ValidateToken проверяет подпись и срок действия.
// Различие ErrExpiredToken/ErrInvalidToken остаётся внутренним:
// HTTP-граница отвечает на оба одинаковым generic 401.
func (m *JWTManager) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&JWTClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(m.secretKey), nil
		},
		jwt.WithTimeFunc(m.now),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// DecodeUnverified декодирует claims без проверки подписи и срока.
// Только для отображения; никогда не использовать для авторизации.
func (m *JWTManager) DecodeUnverified(tokenString string) *JWTClaims {
	claims := &JWTClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil
	}
	return claims
}

func (m *JWTManager) GetAccessTokenDuration() time.Duration {
	return m.accessTokenDuration
}

func (m *JWTManager) GetRefreshTokenDuration() time.Duration {
	return m.refreshTokenDuration
}

// ParseTTL разбирает строки вида "15m", "7d", "3600s" в Duration.
// Единицы: s, m, h, d. Непарсибельный вход даёт fallback 900 секунд.
func ParseTTL(s string) time.Duration {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return defaultTTLSeconds * time.Second
	}

	unit := s[len(s)-1]
	value, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || value < 0 {
		return defaultTTLSeconds * time.Second
	}

	var mult int
	switch unit {
	case 's':
		mult = 1
	case 'm':
		mult = 60
	case 'h':
		mult = 3600
	case 'd':
		mult = 86400
	default:
		return defaultTTLSeconds * time.Second
	}

	return time.Duration(value*mult) * time.Second
}
