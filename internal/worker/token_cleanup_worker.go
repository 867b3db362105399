package worker

import (
	"context"
	"time"

	"github.com/gradely/gradebook-backend/internal/repository"
	"github.com/rs/zerolog"
)

// TokenCleanupWorker periodically deletes tokens whose expiration has passed.
// Expired tokens are already rejected at validation time; this loop only
// keeps the tokens table from growing without bound.
type TokenCleanupWorker struct {
	tokens   *repository.TokenRepository
	interval time.Duration
	log      zerolog.Logger
}

// NewTokenCleanupWorker creates a new TokenCleanupWorker.
func NewTokenCleanupWorker(tokens *repository.TokenRepository, interval time.Duration, log zerolog.Logger) *TokenCleanupWorker {
	return &TokenCleanupWorker{
		tokens:   tokens,
		interval: interval,
		log:      log.With().Str("component", "token_cleanup_worker").Logger(),
	}
}

// Start begins the cleanup loop. Call in a goroutine.
func (w *TokenCleanupWorker) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("Worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Run one sweep immediately so restarts don't wait a full interval.
	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *TokenCleanupWorker) sweep(ctx context.Context) {
	deleted, err := w.tokens.DeleteExpiredBefore(ctx, time.Now())
	if err != nil {
		if ctx.Err() == nil {
			w.log.Error().Err(err).Msg("Token cleanup sweep failed")
		}
		return
	}
	if deleted > 0 {
		w.log.Info().Int64("deleted", deleted).Msg("Expired tokens removed")
	}
}
