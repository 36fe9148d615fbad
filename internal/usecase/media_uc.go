// File: internal/usecase/media_uc.go
package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"discord-companion-bot/internal/domain"
	"discord-companion-bot/internal/domain/model"
	"discord-companion-bot/internal/domain/ports/adapter"
	"discord-companion-bot/internal/domain/ports/repository"
	"discord-companion-bot/internal/infra/metrics"
)

// EpisodeNotice pairs a subscriber with an episode that aired today.
type EpisodeNotice struct {
	UserID  string
	Episode model.Episode
}

// MovieNotice pairs a subscriber with a movie released today (or earlier).
type MovieNotice struct {
	UserID string
	Movie  model.MovieSubscription
}

// MediaUseCase manages TV/movie subscriptions and drives the release checks.
type MediaUseCase interface {
	SubscribeTV(ctx context.Context, userID string, tmdbID int64) (*model.TVSubscription, error)
	UnsubscribeTV(ctx context.Context, userID string, tmdbID int64) error
	ListTV(ctx context.Context, userID string) ([]*model.TVSubscription, error)

	SubscribeMovie(ctx context.Context, userID string, tmdbID int64) (*model.MovieSubscription, error)
	UnsubscribeMovie(ctx context.Context, userID string, tmdbID int64) error
	ListMovies(ctx context.Context, userID string) ([]*model.MovieSubscription, error)

	SearchTV(ctx context.Context, query string) ([]*model.ShowSummary, error)
	SearchMovies(ctx context.Context, query string) ([]*model.ShowSummary, error)
	ShowInfo(ctx context.Context, tmdbID int64) (*model.ShowDetails, error)
	TrendingTV(ctx context.Context) ([]*model.ShowSummary, error)

	// CheckNewEpisodes returns one notice per (subscriber, episode airing
	// today) that has not been announced before, and logs each returned
	// notice so it is never produced twice.
	CheckNewEpisodes(ctx context.Context) ([]EpisodeNotice, error)
	// CheckMovieReleases returns notices for subscribed movies whose
	// release date has arrived, marking them notified.
	CheckMovieReleases(ctx context.Context) ([]MovieNotice, error)
}

type mediaUC struct {
	media   adapter.MediaClient
	repo    repository.MediaRepository
	noteLog repository.NotificationLogRepository
	log     zerolog.Logger
	now     func() time.Time
}

var _ MediaUseCase = (*mediaUC)(nil)

func NewMediaUseCase(media adapter.MediaClient, repo repository.MediaRepository, noteLog repository.NotificationLogRepository, logger *zerolog.Logger) *mediaUC {
	return &mediaUC{
		media:   media,
		repo:    repo,
		noteLog: noteLog,
		log:     logger.With().Str("component", "media-uc").Logger(),
		now:     time.Now,
	}
}

func (uc *mediaUC) SubscribeTV(ctx context.Context, userID string, tmdbID int64) (*model.TVSubscription, error) {
	if userID == "" || tmdbID <= 0 {
		return nil, fmt.Errorf("%w: user id and tmdb id required", domain.ErrInvalidArgument)
	}
	details, err := uc.media.ShowDetails(ctx, tmdbID)
	if err != nil {
		return nil, err
	}
	sub := &model.TVSubscription{
		UserID:    userID,
		TMDBID:    tmdbID,
		ShowName:  details.Name,
		CreatedAt: uc.now(),
	}
	if err := uc.repo.SaveTV(ctx, sub); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", userID).Int64("tmdb_id", tmdbID).Str("show", details.Name).Msg("tv subscription added")
	return sub, nil
}

func (uc *mediaUC) UnsubscribeTV(ctx context.Context, userID string, tmdbID int64) error {
	return uc.repo.DeleteTV(ctx, userID, tmdbID)
}

func (uc *mediaUC) ListTV(ctx context.Context, userID string) ([]*model.TVSubscription, error) {
	return uc.repo.ListTVByUser(ctx, userID)
}

func (uc *mediaUC) SubscribeMovie(ctx context.Context, userID string, tmdbID int64) (*model.MovieSubscription, error) {
	if userID == "" || tmdbID <= 0 {
		return nil, fmt.Errorf("%w: user id and tmdb id required", domain.ErrInvalidArgument)
	}
	summary, err := uc.media.MovieDetails(ctx, tmdbID)
	if err != nil {
		return nil, err
	}
	sub := &model.MovieSubscription{
		UserID:      userID,
		TMDBID:      tmdbID,
		Title:       summary.Name,
		ReleaseDate: summary.FirstAirDate,
		CreatedAt:   uc.now(),
	}
	if err := uc.repo.SaveMovie(ctx, sub); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", userID).Int64("tmdb_id", tmdbID).Str("title", summary.Name).Msg("movie subscription added")
	return sub, nil
}

func (uc *mediaUC) UnsubscribeMovie(ctx context.Context, userID string, tmdbID int64) error {
	return uc.repo.DeleteMovie(ctx, userID, tmdbID)
}

func (uc *mediaUC) ListMovies(ctx context.Context, userID string) ([]*model.MovieSubscription, error) {
	return uc.repo.ListMoviesByUser(ctx, userID)
}

func (uc *mediaUC) SearchTV(ctx context.Context, query string) ([]*model.ShowSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidArgument)
	}
	return uc.media.SearchTV(ctx, query)
}

func (uc *mediaUC) SearchMovies(ctx context.Context, query string) ([]*model.ShowSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidArgument)
	}
	return uc.media.SearchMovies(ctx, query)
}

func (uc *mediaUC) ShowInfo(ctx context.Context, tmdbID int64) (*model.ShowDetails, error) {
	if tmdbID <= 0 {
		return nil, fmt.Errorf("%w: tmdb id required", domain.ErrInvalidArgument)
	}
	return uc.media.ShowDetails(ctx, tmdbID)
}

func (uc *mediaUC) TrendingTV(ctx context.Context) ([]*model.ShowSummary, error) {
	return uc.media.TrendingTV(ctx, "week")
}

func (uc *mediaUC) CheckNewEpisodes(ctx context.Context) ([]EpisodeNotice, error) {
	subs, err := uc.repo.ListTVAll(ctx)
	if err != nil {
		return nil, err
	}

	// One details fetch per distinct show regardless of subscriber count.
	byShow := map[int64][]*model.TVSubscription{}
	for _, s := range subs {
		byShow[s.TMDBID] = append(byShow[s.TMDBID], s)
	}

	today := uc.now().UTC().Format("2006-01-02")
	var notices []EpisodeNotice
	for showID, watchers := range byShow {
		details, err := uc.media.ShowDetails(ctx, showID)
		if err != nil {
			uc.log.Warn().Err(err).Int64("tmdb_id", showID).Msg("episode check: details fetch failed")
			continue
		}
		ep := airingToday(details, today)
		if ep == nil {
			continue
		}
		for _, w := range watchers {
			sent, err := uc.noteLog.Exists(ctx, w.UserID, showID, ep.Season, ep.Number)
			if err != nil {
				uc.log.Warn().Err(err).Str("user_id", w.UserID).Msg("episode check: dedupe lookup failed")
				continue
			}
			if sent {
				continue
			}
			if err := uc.noteLog.Save(ctx, w.UserID, showID, ep.Season, ep.Number); err != nil {
				uc.log.Warn().Err(err).Str("user_id", w.UserID).Msg("episode check: dedupe save failed")
				continue
			}
			notices = append(notices, EpisodeNotice{UserID: w.UserID, Episode: *ep})
		}
	}
	metrics.AddEpisodeChecks(len(byShow))
	return notices, nil
}

// airingToday picks the episode (next or last) whose air date is today.
func airingToday(d *model.ShowDetails, today string) *model.Episode {
	if d.NextEpisode != nil && d.NextEpisode.AirDate == today {
		return d.NextEpisode
	}
	if d.LastEpisode != nil && d.LastEpisode.AirDate == today {
		return d.LastEpisode
	}
	return nil
}

func (uc *mediaUC) CheckMovieReleases(ctx context.Context) ([]MovieNotice, error) {
	pending, err := uc.repo.ListUnnotifiedMovies(ctx)
	if err != nil {
		return nil, err
	}
	today := uc.now().UTC().Format("2006-01-02")
	var notices []MovieNotice
	for _, m := range pending {
		if m.ReleaseDate == "" || m.ReleaseDate > today {
			continue
		}
		if err := uc.repo.MarkMovieNotified(ctx, m.UserID, m.TMDBID); err != nil {
			uc.log.Warn().Err(err).Str("user_id", m.UserID).Int64("tmdb_id", m.TMDBID).Msg("movie check: mark notified failed")
			continue
		}
		notices = append(notices, MovieNotice{UserID: m.UserID, Movie: *m})
	}
	return notices, nil
}
