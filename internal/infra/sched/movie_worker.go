// File: internal/infra/sched/movie_worker.go
package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"discord-companion-bot/internal/application"
	"discord-companion-bot/internal/usecase"
)

// MovieWorker notifies subscribers once a watched movie's release date
// has passed.
type MovieWorker struct {
	interval time.Duration
	mediaUC  usecase.MediaUseCase
	dispatch *Dispatcher
	log      *zerolog.Logger
}

func NewMovieWorker(interval time.Duration, mediaUC usecase.MediaUseCase, dispatch *Dispatcher, logger *zerolog.Logger) *MovieWorker {
	compLog := logger.With().Str("component", "MovieWorker").Logger()
	return &MovieWorker{
		interval: interval,
		mediaUC:  mediaUC,
		dispatch: dispatch,
		log:      &compLog,
	}
}

func (w *MovieWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting movie worker")
	w.runCheck(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping movie worker")
			return ctx.Err()
		case <-ticker.C:
			w.runCheck(ctx)
		}
	}
}

func (w *MovieWorker) runCheck(ctx context.Context) {
	notices, err := w.mediaUC.CheckMovieReleases(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("movie release check failed")
		return
	}
	for _, n := range notices {
		w.dispatch.deliver(n.UserID, application.FormatMovieNotice(n.Movie), "movie")
	}
	if len(notices) > 0 {
		w.log.Info().Int("count", len(notices)).Msg("movie notifications queued")
	}
}
