package discord

import (
	"context"

	"github.com/rs/zerolog"

	"discord-companion-bot/internal/domain/ports/adapter"
)

var _ adapter.DiscordNotifier = (*NoopBotAdapter)(nil)

// NoopBotAdapter logs deliveries instead of talking to Discord. Used in
// local runs without a bot token and in worker tests.
type NoopBotAdapter struct {
	log zerolog.Logger
}

func NewNoopBotAdapter(logger *zerolog.Logger) *NoopBotAdapter {
	return &NoopBotAdapter{log: logger.With().Str("component", "noop-bot").Logger()}
}

func (n *NoopBotAdapter) SendDM(ctx context.Context, userID, text string) error {
	n.log.Info().Str("user_id", userID).Str("text", text).Msg("dm (noop)")
	return nil
}

func (n *NoopBotAdapter) SendChannel(ctx context.Context, channelID, text string) error {
	n.log.Info().Str("channel_id", channelID).Str("text", text).Msg("channel message (noop)")
	return nil
}
