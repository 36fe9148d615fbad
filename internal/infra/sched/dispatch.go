// File: internal/infra/sched/dispatch.go
package sched

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"discord-companion-bot/internal/domain"
	"discord-companion-bot/internal/domain/ports/adapter"
	"discord-companion-bot/internal/domain/ports/repository"
	"discord-companion-bot/internal/infra/metrics"
	"discord-companion-bot/internal/infra/worker"
)

// Dispatcher fans notification deliveries out to the pool. Users who
// configured a notify channel get the message there instead of a DM.
type Dispatcher struct {
	notifier adapter.DiscordNotifier
	prefs    repository.PrefsRepository
	pool     *worker.Pool
	log      zerolog.Logger
}

func NewDispatcher(notifier adapter.DiscordNotifier, prefs repository.PrefsRepository, pool *worker.Pool, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{notifier: notifier, prefs: prefs, pool: pool, log: log}
}

func (d *Dispatcher) deliver(userID, text, kind string) {
	task := func(ctx context.Context) error {
		channelID := ""
		if d.prefs != nil {
			if p, err := d.prefs.FindPrefs(ctx, userID); err == nil {
				channelID = p.NotifyChannelID
			} else if !errors.Is(err, domain.ErrNotFound) {
				d.log.Warn().Err(err).Str("user_id", userID).Msg("prefs lookup failed, falling back to DM")
			}
		}

		var err error
		if channelID != "" {
			err = d.notifier.SendChannel(ctx, channelID, text)
		} else {
			err = d.notifier.SendDM(ctx, userID, text)
		}
		if err != nil {
			metrics.IncNotificationError(kind)
			return err
		}
		metrics.IncNotificationSent(kind)
		return nil
	}

	if err := d.pool.Submit(task); err != nil {
		d.log.Warn().Err(err).Str("kind", kind).Str("user_id", userID).Msg("notification dropped")
		metrics.IncNotificationError(kind)
	}
}
