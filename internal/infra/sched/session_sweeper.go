// File: internal/infra/sched/session_sweeper.go
package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"discord-companion-bot/internal/infra/metrics"
	"discord-companion-bot/internal/usecase"
)

// SessionSweeper evicts idle conversation sessions so abandoned chats
// don't hold history in memory forever.
type SessionSweeper struct {
	interval time.Duration
	maxIdle  time.Duration
	convUC   usecase.ConversationUseCase
	log      *zerolog.Logger
}

func NewSessionSweeper(interval, maxIdle time.Duration, convUC usecase.ConversationUseCase, logger *zerolog.Logger) *SessionSweeper {
	compLog := logger.With().Str("component", "SessionSweeper").Logger()
	return &SessionSweeper{
		interval: interval,
		maxIdle:  maxIdle,
		convUC:   convUC,
		log:      &compLog,
	}
}

func (w *SessionSweeper) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting session sweeper")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping session sweeper")
			return ctx.Err()
		case <-ticker.C:
			w.runSweep()
		}
	}
}

func (w *SessionSweeper) runSweep() {
	removed := w.convUC.SweepIdle(w.maxIdle)
	metrics.AddSessionsSwept(removed)
	metrics.SetActiveSessions(w.convUC.ActiveSessions())
	if removed > 0 {
		w.log.Info().Int("count", removed).Msg("idle sessions swept")
	}
}
