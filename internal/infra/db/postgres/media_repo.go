// File: internal/infra/db/postgres/media_repo.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"discord-companion-bot/internal/domain"
	"discord-companion-bot/internal/domain/model"
	"discord-companion-bot/internal/domain/ports/repository"
)

// Ensure interface compliance
var _ repository.MediaRepository = (*MediaRepo)(nil)

type MediaRepo struct {
	pool *pgxpool.Pool
}

func NewMediaRepo(pool *pgxpool.Pool) *MediaRepo {
	return &MediaRepo{pool: pool}
}

func (r *MediaRepo) SaveTV(ctx context.Context, sub *model.TVSubscription) error {
	const sql = `
INSERT INTO tv_subscriptions (user_id, tmdb_id, show_name, created_at)
VALUES ($1, $2, $3, $4);
`
	_, err := r.pool.Exec(ctx, sql, sub.UserID, sub.TMDBID, sub.ShowName, sub.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("SaveTV: %w", err)
	}
	return nil
}

func (r *MediaRepo) DeleteTV(ctx context.Context, userID string, tmdbID int64) error {
	const sql = `DELETE FROM tv_subscriptions WHERE user_id = $1 AND tmdb_id = $2;`
	ct, err := r.pool.Exec(ctx, sql, userID, tmdbID)
	if err != nil {
		return fmt.Errorf("DeleteTV: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MediaRepo) ListTVByUser(ctx context.Context, userID string) ([]*model.TVSubscription, error) {
	const sql = `
SELECT user_id, tmdb_id, show_name, created_at
  FROM tv_subscriptions
 WHERE user_id = $1
 ORDER BY show_name;
`
	return r.scanTV(ctx, sql, userID)
}

func (r *MediaRepo) ListTVAll(ctx context.Context) ([]*model.TVSubscription, error) {
	const sql = `
SELECT user_id, tmdb_id, show_name, created_at
  FROM tv_subscriptions;
`
	return r.scanTV(ctx, sql)
}

func (r *MediaRepo) scanTV(ctx context.Context, sql string, args ...any) ([]*model.TVSubscription, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query tv_subscriptions: %w", err)
	}
	defer rows.Close()
	var out []*model.TVSubscription
	for rows.Next() {
		var s model.TVSubscription
		if err := rows.Scan(&s.UserID, &s.TMDBID, &s.ShowName, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

func (r *MediaRepo) SaveMovie(ctx context.Context, sub *model.MovieSubscription) error {
	const sql = `
INSERT INTO movie_subscriptions (user_id, tmdb_id, title, release_date, notified, created_at)
VALUES ($1, $2, $3, $4, $5, $6);
`
	_, err := r.pool.Exec(ctx, sql, sub.UserID, sub.TMDBID, sub.Title, sub.ReleaseDate, sub.Notified, sub.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("SaveMovie: %w", err)
	}
	return nil
}

func (r *MediaRepo) DeleteMovie(ctx context.Context, userID string, tmdbID int64) error {
	const sql = `DELETE FROM movie_subscriptions WHERE user_id = $1 AND tmdb_id = $2;`
	ct, err := r.pool.Exec(ctx, sql, userID, tmdbID)
	if err != nil {
		return fmt.Errorf("DeleteMovie: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MediaRepo) ListMoviesByUser(ctx context.Context, userID string) ([]*model.MovieSubscription, error) {
	const sql = `
SELECT user_id, tmdb_id, title, release_date, notified, created_at
  FROM movie_subscriptions
 WHERE user_id = $1
 ORDER BY release_date;
`
	return r.scanMovies(ctx, sql, userID)
}

func (r *MediaRepo) ListUnnotifiedMovies(ctx context.Context) ([]*model.MovieSubscription, error) {
	const sql = `
SELECT user_id, tmdb_id, title, release_date, notified, created_at
  FROM movie_subscriptions
 WHERE notified = false;
`
	return r.scanMovies(ctx, sql)
}

func (r *MediaRepo) scanMovies(ctx context.Context, sql string, args ...any) ([]*model.MovieSubscription, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query movie_subscriptions: %w", err)
	}
	defer rows.Close()
	var out []*model.MovieSubscription
	for rows.Next() {
		var s model.MovieSubscription
		if err := rows.Scan(&s.UserID, &s.TMDBID, &s.Title, &s.ReleaseDate, &s.Notified, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

func (r *MediaRepo) MarkMovieNotified(ctx context.Context, userID string, tmdbID int64) error {
	const sql = `
UPDATE movie_subscriptions SET notified = true
 WHERE user_id = $1 AND tmdb_id = $2 AND notified = false;
`
	ct, err := r.pool.Exec(ctx, sql, userID, tmdbID)
	if err != nil {
		return fmt.Errorf("MarkMovieNotified: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
