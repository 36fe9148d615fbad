package repository

import (
	"context"

	"discord-companion-bot/internal/domain/model"
)

// -----------------------------
// User preferences & weather schedules
// -----------------------------

type PrefsRepository interface {
	SavePrefs(ctx context.Context, p *model.UserPrefs) error
	FindPrefs(ctx context.Context, userID string) (*model.UserPrefs, error)

	SaveWeatherSchedule(ctx context.Context, s *model.WeatherSchedule) error
	DeleteWeatherSchedules(ctx context.Context, userID string) (int64, error)
	// DueWeatherSchedules returns schedules whose HH:MM equals `hhmm`
	// and which have not been sent today.
	DueWeatherSchedules(ctx context.Context, hhmm string) ([]*model.WeatherSchedule, error)
	TouchWeatherSchedule(ctx context.Context, id int64) error
}
