// File: internal/infra/db/postgres/prefs_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"discord-companion-bot/internal/domain"
	"discord-companion-bot/internal/domain/model"
	"discord-companion-bot/internal/domain/ports/repository"
)

// Ensure interface compliance
var _ repository.PrefsRepository = (*PrefsRepo)(nil)

type PrefsRepo struct {
	pool *pgxpool.Pool
}

func NewPrefsRepo(pool *pgxpool.Pool) *PrefsRepo {
	return &PrefsRepo{pool: pool}
}

func (r *PrefsRepo) SavePrefs(ctx context.Context, p *model.UserPrefs) error {
	const sql = `
INSERT INTO user_preferences (user_id, weather_location, notify_channel_id, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id) DO UPDATE
  SET weather_location  = EXCLUDED.weather_location,
      notify_channel_id = EXCLUDED.notify_channel_id,
      updated_at        = EXCLUDED.updated_at;
`
	_, err := r.pool.Exec(ctx, sql, p.UserID, p.WeatherLocation, p.NotifyChannelID, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("SavePrefs: %w", err)
	}
	return nil
}

func (r *PrefsRepo) FindPrefs(ctx context.Context, userID string) (*model.UserPrefs, error) {
	const sql = `
SELECT user_id, weather_location, notify_channel_id, updated_at
  FROM user_preferences
 WHERE user_id = $1;
`
	var p model.UserPrefs
	err := r.pool.QueryRow(ctx, sql, userID).Scan(&p.UserID, &p.WeatherLocation, &p.NotifyChannelID, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("FindPrefs: %w", err)
	}
	return &p, nil
}

func (r *PrefsRepo) SaveWeatherSchedule(ctx context.Context, s *model.WeatherSchedule) error {
	const sql = `
INSERT INTO weather_schedules (user_id, location, at)
VALUES ($1, $2, $3)
RETURNING id;
`
	if err := r.pool.QueryRow(ctx, sql, s.UserID, s.Location, s.At).Scan(&s.ID); err != nil {
		return fmt.Errorf("SaveWeatherSchedule: %w", err)
	}
	return nil
}

func (r *PrefsRepo) DeleteWeatherSchedules(ctx context.Context, userID string) (int64, error) {
	const sql = `DELETE FROM weather_schedules WHERE user_id = $1;`
	ct, err := r.pool.Exec(ctx, sql, userID)
	if err != nil {
		return 0, fmt.Errorf("DeleteWeatherSchedules: %w", err)
	}
	return ct.RowsAffected(), nil
}

func (r *PrefsRepo) DueWeatherSchedules(ctx context.Context, hhmm string) ([]*model.WeatherSchedule, error) {
	// Due = matches the wall-clock minute and hasn't fired today.
	const sql = `
SELECT id, user_id, location, at, last_sent
  FROM weather_schedules
 WHERE at = $1 AND last_sent < date_trunc('day', now());
`
	rows, err := r.pool.Query(ctx, sql, hhmm)
	if err != nil {
		return nil, fmt.Errorf("DueWeatherSchedules: %w", err)
	}
	defer rows.Close()
	var out []*model.WeatherSchedule
	for rows.Next() {
		var s model.WeatherSchedule
		if err := rows.Scan(&s.ID, &s.UserID, &s.Location, &s.At, &s.LastSent); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

func (r *PrefsRepo) TouchWeatherSchedule(ctx context.Context, id int64) error {
	const sql = `UPDATE weather_schedules SET last_sent = now() WHERE id = $1;`
	ct, err := r.pool.Exec(ctx, sql, id)
	if err != nil {
		return fmt.Errorf("TouchWeatherSchedule: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
