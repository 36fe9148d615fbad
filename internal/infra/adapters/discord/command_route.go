// File: internal/infra/adapters/discord/command_route.go
package discord

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"discord-companion-bot/internal/domain/model"
	"discord-companion-bot/internal/infra/metrics"
)

type commandHandler func(ctx context.Context, m *discordgo.MessageCreate, args []string) (string, error)

// commandRoutes defines all available bot commands and their handlers.
func (r *RealDiscordBotAdapter) commandRoutes() map[string]commandHandler {
	return map[string]commandHandler{
		"ask":      r.handleAskCommand,
		"new":      r.handleNewCommand,
		"reset":    r.handleResetCommand,
		"tv":       r.handleTVCommand,
		"movie":    r.handleMovieCommand,
		"trending": r.handleTrendingCommand,
		"stock":    r.handleStockCommand,
		"weather":  r.handleWeatherCommand,
		"ping":     r.handlePingCommand,
		"status":   r.handleStatusCommand,
		"help":     r.handleHelpCommand,
	}
}

// aiCommands are subject to the per-user rate limit.
var aiCommands = map[string]bool{"ask": true, "new": true}

func (r *RealDiscordBotAdapter) handleMessage(ctx context.Context, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	content := strings.TrimSpace(m.Content)
	if !strings.HasPrefix(content, r.cfg.Prefix) {
		return
	}
	fields := strings.Fields(strings.TrimPrefix(content, r.cfg.Prefix))
	if len(fields) == 0 {
		return
	}
	command := strings.ToLower(fields[0])
	args := fields[1:]

	handler, ok := r.commandRoutes()[command]
	if !ok {
		return
	}

	if aiCommands[command] && r.rateLimiter != nil {
		allowed, err := r.rateLimiter.Allow(ctx, m.Author.ID)
		if err != nil {
			r.log.Warn().Err(err).Msg("rate limiter unavailable, allowing")
		} else if !allowed {
			metrics.IncRateLimitTriggered()
			_ = r.SendChannel(ctx, m.ChannelID, "You're sending messages too quickly. Give it a minute.")
			return
		}
	}

	reply, err := handler(ctx, m, args)
	outcome := "ok"
	if err != nil {
		outcome = "error"
		r.log.Warn().Err(err).Str("command", command).Str("user_id", m.Author.ID).Msg("command failed")
	}
	metrics.IncCommand(command, outcome)
	if reply == "" {
		return
	}
	if err := r.SendChannel(ctx, m.ChannelID, reply); err != nil {
		r.log.Error().Err(err).Str("channel_id", m.ChannelID).Msg("reply send failed")
	}
}

func sessionKeyFor(m *discordgo.MessageCreate) model.SessionKey {
	return model.SessionKey{
		GuildID:   m.GuildID, // empty in DMs
		ChannelID: m.ChannelID,
		UserID:    m.Author.ID,
	}
}

func (r *RealDiscordBotAdapter) handleAskCommand(ctx context.Context, m *discordgo.MessageCreate, args []string) (string, error) {
	reply, err := r.facade.HandleAsk(ctx, sessionKeyFor(m), strings.Join(args, " "))
	return reply, err
}

func (r *RealDiscordBotAdapter) handleNewCommand(ctx context.Context, m *discordgo.MessageCreate, args []string) (string, error) {
	reply, err := r.facade.HandleNewConversation(ctx, sessionKeyFor(m), strings.Join(args, " "))
	return reply, err
}

func (r *RealDiscordBotAdapter) handleResetCommand(ctx context.Context, m *discordgo.MessageCreate, _ []string) (string, error) {
	return r.facade.HandleResetConversation(ctx, sessionKeyFor(m))
}

func (r *RealDiscordBotAdapter) handleTVCommand(ctx context.Context, m *discordgo.MessageCreate, args []string) (string, error) {
	if len(args) == 0 {
		return "Usage: `tv search <name>` | `tv sub <id>` | `tv unsub <id>` | `tv list` | `tv info <id>`", nil
	}
	sub, rest := strings.ToLower(args[0]), args[1:]
	switch sub {
	case "search":
		return r.facade.HandleTVSearch(ctx, strings.Join(rest, " "))
	case "sub":
		id, ok := parseID(rest)
		if !ok {
			return "Usage: `tv sub <id>` — get ids from `tv search`.", nil
		}
		return r.facade.HandleTVSubscribe(ctx, m.Author.ID, id)
	case "unsub":
		id, ok := parseID(rest)
		if !ok {
			return "Usage: `tv unsub <id>`.", nil
		}
		return r.facade.HandleTVUnsubscribe(ctx, m.Author.ID, id)
	case "list":
		return r.facade.HandleTVList(ctx, m.Author.ID)
	case "info":
		id, ok := parseID(rest)
		if !ok {
			return "Usage: `tv info <id>`.", nil
		}
		return r.facade.HandleShowInfo(ctx, id)
	default:
		// Bare `tv <name>` searches.
		return r.facade.HandleTVSearch(ctx, strings.Join(args, " "))
	}
}

func (r *RealDiscordBotAdapter) handleMovieCommand(ctx context.Context, m *discordgo.MessageCreate, args []string) (string, error) {
	if len(args) == 0 {
		return "Usage: `movie search <name>` | `movie sub <id>` | `movie unsub <id>` | `movie list`", nil
	}
	sub, rest := strings.ToLower(args[0]), args[1:]
	switch sub {
	case "search":
		return r.facade.HandleMovieSearch(ctx, strings.Join(rest, " "))
	case "sub":
		id, ok := parseID(rest)
		if !ok {
			return "Usage: `movie sub <id>` — get ids from `movie search`.", nil
		}
		return r.facade.HandleMovieSubscribe(ctx, m.Author.ID, id)
	case "unsub":
		id, ok := parseID(rest)
		if !ok {
			return "Usage: `movie unsub <id>`.", nil
		}
		return r.facade.HandleMovieUnsubscribe(ctx, m.Author.ID, id)
	case "list":
		return r.facade.HandleMovieList(ctx, m.Author.ID)
	default:
		return r.facade.HandleMovieSearch(ctx, strings.Join(args, " "))
	}
}

func (r *RealDiscordBotAdapter) handleTrendingCommand(ctx context.Context, m *discordgo.MessageCreate, _ []string) (string, error) {
	return r.facade.HandleTrending(ctx)
}

func (r *RealDiscordBotAdapter) handleStockCommand(ctx context.Context, m *discordgo.MessageCreate, args []string) (string, error) {
	if len(args) == 0 {
		return "Usage: `stock quote <sym>` | `stock track <sym> [qty price]` | `stock untrack <sym>` | `stock list` | `stock alert <sym> above|below <target>` | `stock clear <sym>`", nil
	}
	sub, rest := strings.ToLower(args[0]), args[1:]
	switch sub {
	case "quote":
		if len(rest) == 0 {
			return "Usage: `stock quote <symbol>`.", nil
		}
		return r.facade.HandleQuote(ctx, rest[0])
	case "track":
		// Either bare watch (symbol only) or a full position (symbol,
		// quantity, purchase price). A lone quantity has no price to
		// pair with, so anything else gets the usage string.
		if len(rest) != 1 && len(rest) != 3 {
			return "Usage: `stock track <symbol>` or `stock track <symbol> <quantity> <price>`.", nil
		}
		var qty, price float64
		if len(rest) == 3 {
			q, err1 := strconv.ParseFloat(rest[1], 64)
			p, err2 := strconv.ParseFloat(rest[2], 64)
			if err1 != nil || err2 != nil {
				return "Quantity and price must be numbers.", nil
			}
			qty, price = q, p
		}
		return r.facade.HandleStockTrack(ctx, m.Author.ID, rest[0], qty, price)
	case "untrack":
		if len(rest) == 0 {
			return "Usage: `stock untrack <symbol>`.", nil
		}
		return r.facade.HandleStockUntrack(ctx, m.Author.ID, rest[0])
	case "list":
		return r.facade.HandleStockList(ctx, m.Author.ID)
	case "alert":
		if len(rest) != 3 {
			return "Usage: `stock alert <symbol> above|below <target>`.", nil
		}
		target, err := strconv.ParseFloat(rest[2], 64)
		if err != nil {
			return "Target must be a number.", nil
		}
		return r.facade.HandleStockAlert(ctx, m.Author.ID, rest[0], rest[1], target)
	case "clear":
		if len(rest) == 0 {
			return "Usage: `stock clear <symbol>`.", nil
		}
		return r.facade.HandleStockAlertClear(ctx, m.Author.ID, rest[0])
	default:
		// Bare `stock <sym>` quotes.
		return r.facade.HandleQuote(ctx, args[0])
	}
}

func (r *RealDiscordBotAdapter) handleWeatherCommand(ctx context.Context, m *discordgo.MessageCreate, args []string) (string, error) {
	if len(args) == 0 {
		return r.facade.HandleWeather(ctx, m.Author.ID, "")
	}
	sub, rest := strings.ToLower(args[0]), args[1:]
	switch sub {
	case "set":
		return r.facade.HandleWeatherSetLocation(ctx, m.Author.ID, strings.Join(rest, " "))
	case "daily":
		if len(rest) < 2 {
			return "Usage: `weather daily <city> HH:MM`.", nil
		}
		at := rest[len(rest)-1]
		location := strings.Join(rest[:len(rest)-1], " ")
		return r.facade.HandleWeatherSchedule(ctx, m.Author.ID, location, at)
	case "stop":
		return r.facade.HandleWeatherUnschedule(ctx, m.Author.ID)
	default:
		return r.facade.HandleWeather(ctx, m.Author.ID, strings.Join(args, " "))
	}
}

func (r *RealDiscordBotAdapter) handlePingCommand(ctx context.Context, m *discordgo.MessageCreate, _ []string) (string, error) {
	return "pong 🏓 (" + r.session.HeartbeatLatency().Round(time.Millisecond).String() + ")", nil
}

// handleStatusCommand is admin-only and intentionally absent from help.
func (r *RealDiscordBotAdapter) handleStatusCommand(ctx context.Context, m *discordgo.MessageCreate, _ []string) (string, error) {
	if _, ok := r.adminIDs[m.Author.ID]; !ok {
		return "", nil
	}
	return fmt.Sprintf("Active conversations: %d. Gateway latency: %s.",
		r.facade.ConvUC.ActiveSessions(), r.session.HeartbeatLatency().Round(time.Millisecond)), nil
}

func (r *RealDiscordBotAdapter) handleHelpCommand(ctx context.Context, m *discordgo.MessageCreate, _ []string) (string, error) {
	p := r.cfg.Prefix
	return "Commands:\n" +
		"`" + p + "ask <prompt>` — chat with the assistant (remembers context)\n" +
		"`" + p + "new <prompt>` — start a fresh conversation\n" +
		"`" + p + "reset` — clear your conversation\n" +
		"`" + p + "tv search|sub|unsub|list|info` — follow shows, get episode DMs\n" +
		"`" + p + "movie search|sub|unsub|list` — watch movies, get release DMs\n" +
		"`" + p + "trending` — trending shows this week\n" +
		"`" + p + "stock quote|track|untrack|list|alert|clear` — quotes and alerts\n" +
		"`" + p + "weather [city] | set | daily | stop` — reports and schedules\n" +
		"`" + p + "ping` — latency check", nil
}

func parseID(args []string) (int64, bool) {
	if len(args) == 0 {
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
