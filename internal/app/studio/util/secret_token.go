package util

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// GenerateSecretToken возвращает криптографически случайный одноразовый токен.
// Сырое значение уходит в письмо; в базе хранится только хэш.
func GenerateSecretToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate secret token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// HashToken - детерминированный односторонний хэш токена для хранения и поиска
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
