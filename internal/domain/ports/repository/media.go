package repository

import (
	"context"

	"discord-companion-bot/internal/domain/model"
)

// -----------------------------
// TV / movie subscriptions
// -----------------------------

type MediaRepository interface {
	SaveTV(ctx context.Context, sub *model.TVSubscription) error
	DeleteTV(ctx context.Context, userID string, tmdbID int64) error
	ListTVByUser(ctx context.Context, userID string) ([]*model.TVSubscription, error)
	// ListTVAll returns every subscription, grouped however the caller
	// likes; the episode worker fans out per distinct show.
	ListTVAll(ctx context.Context) ([]*model.TVSubscription, error)

	SaveMovie(ctx context.Context, sub *model.MovieSubscription) error
	DeleteMovie(ctx context.Context, userID string, tmdbID int64) error
	ListMoviesByUser(ctx context.Context, userID string) ([]*model.MovieSubscription, error)
	ListUnnotifiedMovies(ctx context.Context) ([]*model.MovieSubscription, error)
	MarkMovieNotified(ctx context.Context, userID string, tmdbID int64) error
}

// NotificationLogRepository deduplicates episode notifications: one row
// per (user, show, season, episode).
type NotificationLogRepository interface {
	Save(ctx context.Context, userID string, showID int64, season, episode int) error
	Exists(ctx context.Context, userID string, showID int64, season, episode int) (bool, error)
}
