// File: internal/infra/sched/weather_worker.go
package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"discord-companion-bot/internal/application"
	"discord-companion-bot/internal/usecase"
)

// WeatherWorker ticks once a minute and fires the daily weather reports
// whose HH:MM matches the current UTC minute.
type WeatherWorker struct {
	prefsUC  usecase.PrefsUseCase
	dispatch *Dispatcher
	log      *zerolog.Logger
}

func NewWeatherWorker(prefsUC usecase.PrefsUseCase, dispatch *Dispatcher, logger *zerolog.Logger) *WeatherWorker {
	compLog := logger.With().Str("component", "WeatherWorker").Logger()
	return &WeatherWorker{
		prefsUC:  prefsUC,
		dispatch: dispatch,
		log:      &compLog,
	}
}

func (w *WeatherWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting weather worker")

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping weather worker")
			return ctx.Err()
		case now := <-ticker.C:
			w.runCheck(ctx, now)
		}
	}
}

func (w *WeatherWorker) runCheck(ctx context.Context, now time.Time) {
	notices, err := w.prefsUC.DueReports(ctx, now)
	if err != nil {
		w.log.Error().Err(err).Msg("weather schedule check failed")
		return
	}
	for _, n := range notices {
		w.dispatch.deliver(n.UserID, application.FormatWeather(&n.Report), "weather")
	}
	if len(notices) > 0 {
		w.log.Info().Int("count", len(notices)).Msg("weather reports queued")
	}
}
