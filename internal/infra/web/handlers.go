// File: internal/infra/web/handlers.go
package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"discord-companion-bot/internal/domain"
	"discord-companion-bot/internal/domain/model"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDomainErr maps the domain sentinels to HTTP statuses.
func writeDomainErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrAlreadyExists):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrQuoteUnavailable):
		http.Error(w, "quote providers unavailable", http.StatusBadGateway)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// ===== Login flow =====

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	url, err := s.oauth.Begin(w)
	if err != nil {
		s.log.Error().Err(err).Msg("oauth begin failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	identity, err := s.oauth.Complete(r.Context(), r)
	if err != nil {
		s.log.Warn().Err(err).Msg("oauth callback rejected")
		http.Error(w, "login failed", http.StatusUnauthorized)
		return
	}
	if _, err := s.auth.Mint(w, identity.ID, identity.Username); err != nil {
		s.log.Error().Err(err).Msg("session mint failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/api/dashboard", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.Clear(w)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// ===== Dashboard =====

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := claimsFrom(ctx)

	shows, err := s.mediaUC.ListTV(ctx, claims.UserID)
	if err != nil {
		http.Error(w, "Failed to list TV subscriptions", http.StatusInternalServerError)
		return
	}
	movies, err := s.mediaUC.ListMovies(ctx, claims.UserID)
	if err != nil {
		http.Error(w, "Failed to list movie subscriptions", http.StatusInternalServerError)
		return
	}
	stocks, err := s.stockUC.ListTracked(ctx, claims.UserID)
	if err != nil {
		http.Error(w, "Failed to list tracked stocks", http.StatusInternalServerError)
		return
	}
	alerts, err := s.stockUC.ListAlerts(ctx, claims.UserID)
	if err != nil {
		http.Error(w, "Failed to list alerts", http.StatusInternalServerError)
		return
	}
	prefs, err := s.prefsUC.GetPrefs(ctx, claims.UserID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		http.Error(w, "Failed to load preferences", http.StatusInternalServerError)
		return
	}

	response := struct {
		User struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"user"`
		Shows  []*model.TVSubscription    `json:"tv_subscriptions"`
		Movies []*model.MovieSubscription `json:"movie_subscriptions"`
		Stocks []*model.TrackedStock      `json:"tracked_stocks"`
		Alerts []*model.StockAlert        `json:"alerts"`
		Prefs  *model.UserPrefs           `json:"preferences,omitempty"`
	}{
		Shows:  shows,
		Movies: movies,
		Stocks: stocks,
		Alerts: alerts,
		Prefs:  prefs,
	}
	response.User.ID = claims.UserID
	response.User.Username = claims.Username

	writeJSON(w, http.StatusOK, response)
}

// ===== Media =====

func (s *Server) handleSearchTV(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := r.URL.Query().Get("q")
	hits, err := s.mediaUC.SearchTV(ctx, query)
	if err != nil {
		writeDomainErr(w, err)
		return
	}

	response := struct {
		Data []*model.ShowSummary `json:"data"`
	}{Data: hits}
	writeJSON(w, http.StatusOK, response)
}

func tmdbIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "tmdbID"), 10, 64)
}

func (s *Server) handleSubscribeTV(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := claimsFrom(ctx)

	id, err := tmdbIDParam(r)
	if err != nil {
		http.Error(w, "Invalid TMDB id", http.StatusBadRequest)
		return
	}
	sub, err := s.mediaUC.SubscribeTV(ctx, claims.UserID, id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (s *Server) handleUnsubscribeTV(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := claimsFrom(ctx)

	id, err := tmdbIDParam(r)
	if err != nil {
		http.Error(w, "Invalid TMDB id", http.StatusBadRequest)
		return
	}
	if err := s.mediaUC.UnsubscribeTV(ctx, claims.UserID, id); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSubscribeMovie(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := claimsFrom(ctx)

	id, err := tmdbIDParam(r)
	if err != nil {
		http.Error(w, "Invalid TMDB id", http.StatusBadRequest)
		return
	}
	sub, err := s.mediaUC.SubscribeMovie(ctx, claims.UserID, id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (s *Server) handleUnsubscribeMovie(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := claimsFrom(ctx)

	id, err := tmdbIDParam(r)
	if err != nil {
		http.Error(w, "Invalid TMDB id", http.StatusBadRequest)
		return
	}
	if err := s.mediaUC.UnsubscribeMovie(ctx, claims.UserID, id); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ===== Stocks =====

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	q, err := s.stockUC.Quote(ctx, chi.URLParam(r, "symbol"))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

type trackStockRequest struct {
	Quantity      float64 `json:"quantity"`
	PurchasePrice float64 `json:"purchase_price"`
}

func (s *Server) handleTrackStock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := claimsFrom(ctx)

	var req trackStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.stockUC.Track(ctx, claims.UserID, chi.URLParam(r, "symbol"), req.Quantity, req.PurchasePrice); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleUntrackStock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := claimsFrom(ctx)

	if err := s.stockUC.Untrack(ctx, claims.UserID, chi.URLParam(r, "symbol")); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ===== Preferences & weather =====

type locationRequest struct {
	Location string `json:"location"`
}

func (s *Server) handleSetLocation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := claimsFrom(ctx)

	var req locationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.prefsUC.SetWeatherLocation(ctx, claims.UserID, req.Location); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type channelRequest struct {
	ChannelID string `json:"channel_id"`
}

func (s *Server) handleSetChannel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := claimsFrom(ctx)

	var req channelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.prefsUC.SetNotifyChannel(ctx, claims.UserID, req.ChannelID); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type scheduleRequest struct {
	Location string `json:"location"`
	At       string `json:"at"` // "07:30", 24h clock
}

func (s *Server) handleScheduleWeather(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := claimsFrom(ctx)

	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.prefsUC.ScheduleWeather(ctx, claims.UserID, req.Location, req.At); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUnscheduleWeather(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := claimsFrom(ctx)

	n, err := s.prefsUC.UnscheduleWeather(ctx, claims.UserID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}

	response := struct {
		Removed int64 `json:"removed"`
	}{Removed: n}
	writeJSON(w, http.StatusOK, response)
}
