package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"studioai/internal/app/studio/repository"
	"studioai/pkg/logger"
)

// CleanupScheduler периодически удаляет просроченные refresh и secret
// токены. Истёкшие записи и так не проходят проверки, задача только
// сдерживает рост таблиц.
type CleanupScheduler struct {
	cron       *cron.Cron
	tokenRepo  repository.RefreshTokenRepository
	secretRepo repository.SecretTokenRepository
	now        func() time.Time
}

func NewCleanupScheduler(tokenRepo repository.RefreshTokenRepository, secretRepo repository.SecretTokenRepository) *CleanupScheduler {
	return &CleanupScheduler{
		cron:       cron.New(),
		tokenRepo:  tokenRepo,
		secretRepo: secretRepo,
		now:        time.Now,
	}
}

func (s *CleanupScheduler) Start(ctx context.Context, schedule string) error {
	logger.Info().Str("schedule", schedule).Msg("Starting token cleanup scheduler")

	_, err := s.cron.AddFunc(schedule, func() {
		s.runOnce(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()

	// Первый проход сразу на старте, не дожидаясь расписания
	s.runOnce(ctx)

	return nil
}

func (s *CleanupScheduler) runOnce(ctx context.Context) {
	cutoff := s.now()

	refreshDeleted, err := s.tokenRepo.DeleteExpired(ctx, cutoff)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to delete expired refresh tokens")
	}

	secretDeleted, err := s.secretRepo.DeleteExpired(ctx, cutoff)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to delete expired secret tokens")
	}

	if refreshDeleted > 0 || secretDeleted > 0 {
		logger.Info().
			Int64("refresh_tokens", refreshDeleted).
			Int64("secret_tokens", secretDeleted).
			Msg("Token cleanup completed")
	}
}

func (s *CleanupScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("Token cleanup scheduler stopped")
}
