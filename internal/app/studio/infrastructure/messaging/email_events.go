package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"studioai/internal/app/studio/infrastructure"
)

const (
	EventVerifyEmail   = "verify_email"
	EventPasswordReset = "password_reset"
)

// EmailEvent - сообщение для внешнего mail-worker'а.
// Сырой токен вставляется в ссылку письма; нигде больше он не хранится.
type EmailEvent struct {
	Type      string `json:"type"`
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// EmailPublisher сериализует email-события и отправляет их в Kafka
type EmailPublisher struct {
	producer infrastructure.MessagePublisher
}

func NewEmailPublisher(producer infrastructure.MessagePublisher) *EmailPublisher {
	return &EmailPublisher{producer: producer}
}

// PublishVerifyEmail публикует событие подтверждения email
func (p *EmailPublisher) PublishVerifyEmail(ctx context.Context, userID, email, token string, expiresAt time.Time) error {
	return p.publish(ctx, EmailEvent{
		Type:      EventVerifyEmail,
		UserID:    userID,
		Email:     email,
		Token:     token,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
	})
}

// PublishPasswordReset публикует событие сброса пароля
func (p *EmailPublisher) PublishPasswordReset(ctx context.Context, userID, email, token string, expiresAt time.Time) error {
	return p.publish(ctx, EmailEvent{
		Type:      EventPasswordReset,
		UserID:    userID,
		Email:     email,
		Token:     token,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
	})
}

func (p *EmailPublisher) publish(ctx context.Context, event EmailEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal email event: %w", err)
	}

	if err := p.producer.PublishMessage(ctx, event.UserID, payload); err != nil {
		return fmt.Errorf("failed to publish email event: %w", err)
	}

	return nil
}
