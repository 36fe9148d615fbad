// File: internal/infra/sched/stock_alert_worker.go
package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"discord-companion-bot/internal/application"
	"discord-companion-bot/internal/usecase"
)

// StockAlertWorker sweeps active price alerts against live quotes.
// Fired alerts are deactivated by the use case, so each one produces
// at most a single notification.
type StockAlertWorker struct {
	interval time.Duration
	stockUC  usecase.StockUseCase
	dispatch *Dispatcher
	log      *zerolog.Logger
}

func NewStockAlertWorker(interval time.Duration, stockUC usecase.StockUseCase, dispatch *Dispatcher, logger *zerolog.Logger) *StockAlertWorker {
	compLog := logger.With().Str("component", "StockAlertWorker").Logger()
	return &StockAlertWorker{
		interval: interval,
		stockUC:  stockUC,
		dispatch: dispatch,
		log:      &compLog,
	}
}

func (w *StockAlertWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting stock alert worker")
	w.runCheck(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping stock alert worker")
			return ctx.Err()
		case <-ticker.C:
			w.runCheck(ctx)
		}
	}
}

func (w *StockAlertWorker) runCheck(ctx context.Context) {
	notices, err := w.stockUC.CheckAlerts(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("alert sweep failed")
		return
	}
	for _, n := range notices {
		w.dispatch.deliver(n.Alert.UserID, application.FormatAlertNotice(n.Alert, n.Quote), "stock_alert")
	}
	if len(notices) > 0 {
		w.log.Info().Int("count", len(notices)).Msg("alert notifications queued")
	}
}
