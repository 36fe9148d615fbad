// File: internal/infra/adapters/discord/real_bot.go
package discord

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"discord-companion-bot/internal/application"
	"discord-companion-bot/internal/config"
	"discord-companion-bot/internal/domain/ports/adapter"
)

const maxMessageLen = 2000 // Discord's hard message limit

var _ adapter.DiscordNotifier = (*RealDiscordBotAdapter)(nil)

// RealDiscordBotAdapter runs the gateway session and routes prefix
// commands to the facade.
type RealDiscordBotAdapter struct {
	session     *discordgo.Session
	cfg         *config.BotConfig
	facade      *application.BotFacade
	rateLimiter adapter.RateLimiter
	log         zerolog.Logger

	adminIDs map[string]struct{}
	cancel   context.CancelFunc
}

func NewRealDiscordBotAdapter(cfg *config.BotConfig, facade *application.BotFacade, rateLimiter adapter.RateLimiter, logger *zerolog.Logger) (*RealDiscordBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if facade == nil {
		return nil, errors.New("bot facade is nil")
	}

	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, err
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	admins := map[string]struct{}{}
	for _, id := range cfg.AdminIDs {
		admins[id] = struct{}{}
	}

	return &RealDiscordBotAdapter{
		session:     session,
		cfg:         cfg,
		facade:      facade,
		rateLimiter: rateLimiter,
		log:         logger.With().Str("component", "discord-bot").Logger(),
		adminIDs:    admins,
	}, nil
}

// Start opens the gateway session and blocks until ctx is cancelled.
func (r *RealDiscordBotAdapter) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		r.handleMessage(ctx, m)
	})

	if err := r.session.Open(); err != nil {
		return err
	}
	r.log.Info().Str("prefix", r.cfg.Prefix).Msg("gateway session open")

	<-ctx.Done()
	if err := r.session.Close(); err != nil {
		r.log.Warn().Err(err).Msg("gateway close failed")
	}
	return ctx.Err()
}

func (r *RealDiscordBotAdapter) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
}

// SendDM opens (or reuses) the user's DM channel and delivers text.
func (r *RealDiscordBotAdapter) SendDM(ctx context.Context, userID, text string) error {
	ch, err := r.session.UserChannelCreate(userID)
	if err != nil {
		return err
	}
	return r.SendChannel(ctx, ch.ID, text)
}

// SendChannel delivers text to a channel, chunked at Discord's limit.
func (r *RealDiscordBotAdapter) SendChannel(ctx context.Context, channelID, text string) error {
	for _, chunk := range splitContent(text, maxMessageLen) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if _, err := r.session.ChannelMessageSend(channelID, chunk); err != nil {
			return err
		}
	}
	return nil
}

// splitContent chunks text at the given limit, preferring newline then
// space boundaries so sentences stay intact. Discord counts the limit
// in characters and rejects invalid UTF-8, so the limit is applied to
// runes and hard cuts always land on a rune boundary.
func splitContent(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	var chunks []string
	for utf8.RuneCountInString(text) > limit {
		window := text[:runeOffset(text, limit)]
		cut := len(window)
		half := runeOffset(text, limit/2)
		if i := strings.LastIndex(window, "\n"); i > half {
			cut = i
		} else if i := strings.LastIndex(window, " "); i > half {
			cut = i
		}
		chunks = append(chunks, strings.TrimSpace(text[:cut]))
		text = strings.TrimSpace(text[cut:])
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}

// runeOffset returns the byte offset of the n-th rune of s, or len(s)
// when s has fewer than n runes.
func runeOffset(s string, n int) int {
	for i := range s {
		if n == 0 {
			return i
		}
		n--
	}
	return len(s)
}
