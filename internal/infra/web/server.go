// File: internal/infra/web/server.go
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"discord-companion-bot/internal/usecase"
)

// identityFlow is what the login handlers need from the OAuth dance;
// split out so tests can fake the Discord side.
type identityFlow interface {
	Begin(w http.ResponseWriter) (string, error)
	Complete(ctx context.Context, r *http.Request) (*DiscordIdentity, error)
}

type Server struct {
	mediaUC usecase.MediaUseCase
	stockUC usecase.StockUseCase
	prefsUC usecase.PrefsUseCase
	auth    *AuthManager
	oauth   identityFlow
	log     *zerolog.Logger
}

func NewServer(
	mediaUC usecase.MediaUseCase,
	stockUC usecase.StockUseCase,
	prefsUC usecase.PrefsUseCase,
	auth *AuthManager,
	oauth identityFlow,
	logger *zerolog.Logger,
) *Server {
	compLog := logger.With().Str("component", "dashboard").Logger()
	return &Server{
		mediaUC: mediaUC,
		stockUC: stockUC,
		prefsUC: prefsUC,
		auth:    auth,
		oauth:   oauth,
		log:     &compLog,
	}
}

// Router builds the dashboard routing tree.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(recoverer(s.log))
	r.Use(traceID)
	r.Use(requestLog(s.log))
	r.Use(timeout(15 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/login", s.handleLogin)
	r.Get("/callback", s.handleCallback)
	r.Get("/logout", s.handleLogout)

	r.Route("/api", func(api chi.Router) {
		api.Use(s.auth.RequireUser)

		api.Get("/dashboard", s.handleDashboard)
		api.Get("/search/tv", s.handleSearchTV)

		api.Post("/tv/{tmdbID}", s.handleSubscribeTV)
		api.Delete("/tv/{tmdbID}", s.handleUnsubscribeTV)
		api.Post("/movies/{tmdbID}", s.handleSubscribeMovie)
		api.Delete("/movies/{tmdbID}", s.handleUnsubscribeMovie)

		api.Get("/stocks/quote/{symbol}", s.handleQuote)
		api.Post("/stocks/{symbol}", s.handleTrackStock)
		api.Delete("/stocks/{symbol}", s.handleUntrackStock)

		api.Put("/prefs/location", s.handleSetLocation)
		api.Put("/prefs/channel", s.handleSetChannel)
		api.Put("/weather/schedule", s.handleScheduleWeather)
		api.Delete("/weather/schedule", s.handleUnscheduleWeather)
	})

	return r
}
