package adapter

import (
	"context"

	"discord-companion-bot/internal/domain/model"
)

// MediaClient is the port for show/movie metadata lookups (TMDB).
type MediaClient interface {
	SearchTV(ctx context.Context, query string) ([]*model.ShowSummary, error)
	SearchMovies(ctx context.Context, query string) ([]*model.ShowSummary, error)
	ShowDetails(ctx context.Context, tmdbID int64) (*model.ShowDetails, error)
	MovieDetails(ctx context.Context, tmdbID int64) (*model.ShowSummary, error)
	TrendingTV(ctx context.Context, window string) ([]*model.ShowSummary, error)
}

// QuoteProvider returns a live quote for a symbol. Providers should wrap
// transient upstream failures with domain.ErrQuoteUnavailable so callers
// can try the next provider in line.
type QuoteProvider interface {
	Name() string
	Quote(ctx context.Context, symbol string) (*model.Quote, error)
}

// SymbolSearcher resolves free-text queries to ticker symbols.
type SymbolSearcher interface {
	SearchSymbols(ctx context.Context, query string) ([]model.SymbolMatch, error)
}

// WeatherClient is the port for current conditions plus a short forecast.
type WeatherClient interface {
	Report(ctx context.Context, location string) (*model.WeatherReport, error)
}

// QuoteCache is a read-through cache for quotes (redis-backed in prod).
type QuoteCache interface {
	Get(ctx context.Context, symbol string) (*model.Quote, bool)
	Set(ctx context.Context, q *model.Quote)
}

// RateLimiter gates expensive per-user operations (AI chat commands).
type RateLimiter interface {
	// Allow reports whether userID may perform another action inside the
	// current window.
	Allow(ctx context.Context, userID string) (bool, error)
}
