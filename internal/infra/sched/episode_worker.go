// File: internal/infra/sched/episode_worker.go
package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"discord-companion-bot/internal/application"
	"discord-companion-bot/internal/usecase"
)

// EpisodeWorker checks subscribed shows for episodes airing today and
// notifies each subscriber once per episode.
type EpisodeWorker struct {
	interval time.Duration
	mediaUC  usecase.MediaUseCase
	dispatch *Dispatcher
	log      *zerolog.Logger
}

func NewEpisodeWorker(interval time.Duration, mediaUC usecase.MediaUseCase, dispatch *Dispatcher, logger *zerolog.Logger) *EpisodeWorker {
	compLog := logger.With().Str("component", "EpisodeWorker").Logger()
	return &EpisodeWorker{
		interval: interval,
		mediaUC:  mediaUC,
		dispatch: dispatch,
		log:      &compLog,
	}
}

func (w *EpisodeWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting episode worker")
	// Run once on startup, then on every tick
	w.runCheck(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping episode worker")
			return ctx.Err()
		case <-ticker.C:
			w.runCheck(ctx)
		}
	}
}

func (w *EpisodeWorker) runCheck(ctx context.Context) {
	notices, err := w.mediaUC.CheckNewEpisodes(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("episode check failed")
		return
	}
	for _, n := range notices {
		w.dispatch.deliver(n.UserID, application.FormatEpisodeNotice(n.Episode), "episode")
	}
	if len(notices) > 0 {
		w.log.Info().Int("count", len(notices)).Msg("episode notifications queued")
	}
}
