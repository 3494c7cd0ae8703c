package infrastructure

import (
	"context"
)

type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}

// InferenceResult - ответ upstream API генерации
type InferenceResult struct {
	ImageURL string `json:"image_url"`
}

type InferenceClient interface {
	Generate(ctx context.Context, prompt, style string) (*InferenceResult, error)
}
