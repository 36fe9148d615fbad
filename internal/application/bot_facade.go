// File: internal/application/bot_facade.go
package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"discord-companion-bot/internal/domain"
	"discord-companion-bot/internal/domain/model"
	"discord-companion-bot/internal/usecase"
)

// BotFacade composes usecases into high-level bot commands. Facade methods
// return strings so the Discord adapter just forwards them to the channel.
type BotFacade struct {
	ConvUC  usecase.ConversationUseCase
	MediaUC usecase.MediaUseCase
	StockUC usecase.StockUseCase
	PrefsUC usecase.PrefsUseCase
}

func NewBotFacade(convUC usecase.ConversationUseCase, mediaUC usecase.MediaUseCase, stockUC usecase.StockUseCase, prefsUC usecase.PrefsUseCase) *BotFacade {
	return &BotFacade{ConvUC: convUC, MediaUC: mediaUC, StockUC: stockUC, PrefsUC: prefsUC}
}

// ---- Conversation ----

func (b *BotFacade) HandleAsk(ctx context.Context, key model.SessionKey, prompt string) (string, error) {
	reply, err := b.ConvUC.Send(ctx, key, prompt)
	if err != nil {
		return convErrorText(err), err
	}
	return reply, nil
}

func (b *BotFacade) HandleNewConversation(ctx context.Context, key model.SessionKey, prompt string) (string, error) {
	reply, err := b.ConvUC.StartNew(ctx, key, prompt)
	if err != nil {
		return convErrorText(err), err
	}
	return reply, nil
}

func (b *BotFacade) HandleResetConversation(ctx context.Context, key model.SessionKey) (string, error) {
	if err := b.ConvUC.Reset(ctx, key); err != nil {
		return "Failed to reset the conversation.", err
	}
	return "Conversation cleared. Your next message starts fresh.", nil
}

func convErrorText(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return "I need a non-empty prompt. Try: `ask <your question>`."
	case errors.Is(err, domain.ErrRateLimited):
		return "You're sending messages too quickly. Give it a minute."
	case errors.Is(err, domain.ErrAssistantUnavailable):
		return "The assistant is unavailable right now. Your conversation is intact; try again shortly."
	default:
		return "Something went wrong handling that message."
	}
}

// ---- Media ----

func (b *BotFacade) HandleTVSearch(ctx context.Context, query string) (string, error) {
	hits, err := b.MediaUC.SearchTV(ctx, query)
	if err != nil {
		return mediaErrorText(err), err
	}
	if len(hits) == 0 {
		return "No shows matched that search.", nil
	}
	var sb strings.Builder
	sb.WriteString("Matching shows:\n")
	for i, h := range hits {
		if i == 10 {
			break
		}
		sb.WriteString(fmt.Sprintf("- %s (id: %d, first aired %s)\n", h.Name, h.TMDBID, orDash(h.FirstAirDate)))
	}
	sb.WriteString("\nSubscribe with: `tv sub <id>`")
	return sb.String(), nil
}

func (b *BotFacade) HandleTVSubscribe(ctx context.Context, userID string, tmdbID int64) (string, error) {
	sub, err := b.MediaUC.SubscribeTV(ctx, userID, tmdbID)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return "You already follow that show.", nil
		}
		return mediaErrorText(err), err
	}
	return fmt.Sprintf("Subscribed to **%s**. I'll DM you when new episodes air.", sub.ShowName), nil
}

func (b *BotFacade) HandleTVUnsubscribe(ctx context.Context, userID string, tmdbID int64) (string, error) {
	if err := b.MediaUC.UnsubscribeTV(ctx, userID, tmdbID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "You weren't following that show.", nil
		}
		return mediaErrorText(err), err
	}
	return "Unsubscribed.", nil
}

func (b *BotFacade) HandleTVList(ctx context.Context, userID string) (string, error) {
	subs, err := b.MediaUC.ListTV(ctx, userID)
	if err != nil {
		return mediaErrorText(err), err
	}
	if len(subs) == 0 {
		return "You don't follow any shows yet. Find one with `tv search <name>`.", nil
	}
	var sb strings.Builder
	sb.WriteString("Shows you follow:\n")
	for _, s := range subs {
		sb.WriteString(fmt.Sprintf("- %s (id: %d)\n", s.ShowName, s.TMDBID))
	}
	return sb.String(), nil
}

func (b *BotFacade) HandleShowInfo(ctx context.Context, tmdbID int64) (string, error) {
	d, err := b.MediaUC.ShowInfo(ctx, tmdbID)
	if err != nil {
		return mediaErrorText(err), err
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("**%s** — %s\n", d.Name, orDash(d.Status)))
	if d.Overview != "" {
		sb.WriteString(d.Overview + "\n")
	}
	if d.NextEpisode != nil {
		sb.WriteString(fmt.Sprintf("Next episode: S%02dE%02d %s on %s\n",
			d.NextEpisode.Season, d.NextEpisode.Number, d.NextEpisode.Name, orDash(d.NextEpisode.AirDate)))
	}
	if d.LastEpisode != nil {
		sb.WriteString(fmt.Sprintf("Last episode: S%02dE%02d %s on %s\n",
			d.LastEpisode.Season, d.LastEpisode.Number, d.LastEpisode.Name, orDash(d.LastEpisode.AirDate)))
	}
	return sb.String(), nil
}

func (b *BotFacade) HandleTrending(ctx context.Context) (string, error) {
	hits, err := b.MediaUC.TrendingTV(ctx)
	if err != nil {
		return mediaErrorText(err), err
	}
	if len(hits) == 0 {
		return "Nothing trending right now.", nil
	}
	var sb strings.Builder
	sb.WriteString("Trending this week:\n")
	for i, h := range hits {
		if i == 10 {
			break
		}
		sb.WriteString(fmt.Sprintf("%d. %s (id: %d)\n", i+1, h.Name, h.TMDBID))
	}
	return sb.String(), nil
}

func (b *BotFacade) HandleMovieSearch(ctx context.Context, query string) (string, error) {
	hits, err := b.MediaUC.SearchMovies(ctx, query)
	if err != nil {
		return mediaErrorText(err), err
	}
	if len(hits) == 0 {
		return "No movies matched that search.", nil
	}
	var sb strings.Builder
	sb.WriteString("Matching movies:\n")
	for i, h := range hits {
		if i == 10 {
			break
		}
		sb.WriteString(fmt.Sprintf("- %s (id: %d, releases %s)\n", h.Name, h.TMDBID, orDash(h.FirstAirDate)))
	}
	sb.WriteString("\nSubscribe with: `movie sub <id>`")
	return sb.String(), nil
}

func (b *BotFacade) HandleMovieSubscribe(ctx context.Context, userID string, tmdbID int64) (string, error) {
	sub, err := b.MediaUC.SubscribeMovie(ctx, userID, tmdbID)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return "You already watch that movie.", nil
		}
		return mediaErrorText(err), err
	}
	if sub.ReleaseDate == "" {
		return fmt.Sprintf("Watching **%s**. No release date announced yet; I'll DM you when it lands.", sub.Title), nil
	}
	return fmt.Sprintf("Watching **%s** (releases %s). I'll DM you on release day.", sub.Title, sub.ReleaseDate), nil
}

func (b *BotFacade) HandleMovieUnsubscribe(ctx context.Context, userID string, tmdbID int64) (string, error) {
	if err := b.MediaUC.UnsubscribeMovie(ctx, userID, tmdbID); err != nil {
		return mediaErrorText(err), err
	}
	return "Removed from your watchlist.", nil
}

func (b *BotFacade) HandleMovieList(ctx context.Context, userID string) (string, error) {
	subs, err := b.MediaUC.ListMovies(ctx, userID)
	if err != nil {
		return mediaErrorText(err), err
	}
	if len(subs) == 0 {
		return "Your movie watchlist is empty. Find one with `movie search <name>`.", nil
	}
	var sb strings.Builder
	sb.WriteString("Movies you watch:\n")
	for _, s := range subs {
		sb.WriteString(fmt.Sprintf("- %s (id: %d, releases %s)\n", s.Title, s.TMDBID, orDash(s.ReleaseDate)))
	}
	return sb.String(), nil
}

func mediaErrorText(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return "That doesn't look right. Check `help` for the command format."
	case errors.Is(err, domain.ErrNotFound):
		return "I couldn't find that title."
	default:
		return "The metadata service is unavailable right now."
	}
}

// ---- Stocks ----

func (b *BotFacade) HandleQuote(ctx context.Context, symbol string) (string, error) {
	q, err := b.StockUC.Quote(ctx, symbol)
	if err != nil {
		return stockErrorText(err), err
	}
	arrow := "▲"
	if q.Change < 0 {
		arrow = "▼"
	}
	return fmt.Sprintf("**%s** %.2f %s %s %.2f (%.2f%%) — %s", q.Symbol, q.Price, q.Currency, arrow, q.Change, q.ChangePercent, q.Source), nil
}

func (b *BotFacade) HandleStockTrack(ctx context.Context, userID, symbol string, qty, price float64) (string, error) {
	if err := b.StockUC.Track(ctx, userID, symbol, qty, price); err != nil {
		return stockErrorText(err), err
	}
	if qty > 0 {
		return fmt.Sprintf("Tracking %s: %.4f shares @ %.2f.", strings.ToUpper(symbol), qty, price), nil
	}
	return fmt.Sprintf("Watching %s.", strings.ToUpper(symbol)), nil
}

func (b *BotFacade) HandleStockUntrack(ctx context.Context, userID, symbol string) (string, error) {
	if err := b.StockUC.Untrack(ctx, userID, symbol); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "You weren't tracking that symbol.", nil
		}
		return stockErrorText(err), err
	}
	return "Stopped tracking.", nil
}

func (b *BotFacade) HandleStockList(ctx context.Context, userID string) (string, error) {
	tracked, err := b.StockUC.ListTracked(ctx, userID)
	if err != nil {
		return stockErrorText(err), err
	}
	if len(tracked) == 0 {
		return "You don't track any symbols yet. Try `stock track <symbol>`.", nil
	}
	var sb strings.Builder
	sb.WriteString("Your portfolio:\n")
	for _, t := range tracked {
		line := fmt.Sprintf("- %s", t.Symbol)
		if q, err := b.StockUC.Quote(ctx, t.Symbol); err == nil {
			line += fmt.Sprintf(": %.2f", q.Price)
			if t.Quantity > 0 {
				pl := (q.Price - t.PurchasePrice) * t.Quantity
				line += fmt.Sprintf(" (%.4f sh, P/L %+.2f)", t.Quantity, pl)
			}
		}
		sb.WriteString(line + "\n")
	}
	return sb.String(), nil
}

func (b *BotFacade) HandleStockAlert(ctx context.Context, userID, symbol, dirWord string, target float64) (string, error) {
	dir := model.AlertDirection(strings.ToLower(dirWord))
	if err := b.StockUC.SetAlert(ctx, userID, symbol, dir, target); err != nil {
		return stockErrorText(err), err
	}
	return fmt.Sprintf("Alert set: %s %s %.2f. I'll DM you once when it crosses.", strings.ToUpper(symbol), dir, target), nil
}

func (b *BotFacade) HandleStockAlertClear(ctx context.Context, userID, symbol string) (string, error) {
	n, err := b.StockUC.ClearAlerts(ctx, userID, symbol, "")
	if err != nil {
		return stockErrorText(err), err
	}
	if n == 0 {
		return "No alerts to clear for that symbol.", nil
	}
	return fmt.Sprintf("Cleared %d alert(s).", n), nil
}

func stockErrorText(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return "That doesn't look right. Check `help` for the command format."
	case errors.Is(err, domain.ErrQuoteUnavailable):
		return "No quote available for that symbol right now."
	default:
		return "The quote service is unavailable right now."
	}
}

// ---- Weather & prefs ----

func (b *BotFacade) HandleWeather(ctx context.Context, userID, location string) (string, error) {
	r, err := b.PrefsUC.Weather(ctx, userID, location)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			return "Tell me where: `weather <city>`, or save a default with `weather set <city>`.", err
		}
		if errors.Is(err, domain.ErrNotFound) {
			return "I couldn't find that place.", err
		}
		return "The weather service is unavailable right now.", err
	}
	return FormatWeather(r), nil
}

func (b *BotFacade) HandleWeatherSetLocation(ctx context.Context, userID, location string) (string, error) {
	if err := b.PrefsUC.SetWeatherLocation(ctx, userID, location); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "I couldn't find that place, so I didn't save it.", err
		}
		return "Failed to save your location.", err
	}
	return fmt.Sprintf("Default weather location saved: %s.", location), nil
}

func (b *BotFacade) HandleWeatherSchedule(ctx context.Context, userID, location, at string) (string, error) {
	if err := b.PrefsUC.ScheduleWeather(ctx, userID, location, at); err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			return "Usage: `weather daily <city> HH:MM` (24h clock).", err
		}
		return "Failed to schedule the report.", err
	}
	return fmt.Sprintf("Daily report for %s scheduled at %s UTC.", location, at), nil
}

func (b *BotFacade) HandleWeatherUnschedule(ctx context.Context, userID string) (string, error) {
	n, err := b.PrefsUC.UnscheduleWeather(ctx, userID)
	if err != nil {
		return "Failed to remove your schedules.", err
	}
	if n == 0 {
		return "You had no scheduled reports.", nil
	}
	return fmt.Sprintf("Removed %d scheduled report(s).", n), nil
}

// FormatWeather renders a report the way the DM worker and the weather
// command both show it.
func FormatWeather(r *model.WeatherReport) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("**%s**: %s, %.1f°C (feels like %.1f°C), humidity %d%%, wind %.0f km/h\n",
		r.Location, r.Description, r.TempC, r.FeelsLikeC, r.Humidity, r.WindKph))
	for i, f := range r.Forecast {
		if i == 4 {
			break
		}
		sb.WriteString(fmt.Sprintf("%s: %.1f°C, %s\n", f.At.Format("Mon 15:04"), f.TempC, f.Description))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatEpisodeNotice renders the DM for a new-episode notification.
func FormatEpisodeNotice(e model.Episode) string {
	return fmt.Sprintf("📺 **%s** S%02dE%02d \"%s\" airs today (%s).", e.ShowName, e.Season, e.Number, e.Name, e.AirDate)
}

// FormatMovieNotice renders the DM for a movie-release notification.
func FormatMovieNotice(m model.MovieSubscription) string {
	return fmt.Sprintf("🎬 **%s** is out (released %s).", m.Title, m.ReleaseDate)
}

// FormatAlertNotice renders the DM for a fired stock alert.
func FormatAlertNotice(a model.StockAlert, q model.Quote) string {
	return fmt.Sprintf("📈 %s crossed %s %.2f — now %.2f (as of %s).",
		a.Symbol, a.Direction, a.Target, q.Price, q.AsOf.Format(time.Kitchen))
}

func orDash(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
