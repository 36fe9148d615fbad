// File: internal/usecase/prefs_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"discord-companion-bot/internal/domain"
	"discord-companion-bot/internal/domain/model"
	"discord-companion-bot/internal/domain/ports/adapter"
	"discord-companion-bot/internal/domain/ports/repository"
)

var hhmmRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// WeatherNotice pairs a due schedule with its rendered report.
type WeatherNotice struct {
	UserID string
	Report model.WeatherReport
}

// PrefsUseCase manages per-user settings and scheduled weather reports.
type PrefsUseCase interface {
	SetWeatherLocation(ctx context.Context, userID, location string) error
	SetNotifyChannel(ctx context.Context, userID, channelID string) error
	GetPrefs(ctx context.Context, userID string) (*model.UserPrefs, error)

	// Weather fetches a report for the given location, falling back to the
	// user's saved location when location is empty.
	Weather(ctx context.Context, userID, location string) (*model.WeatherReport, error)

	// ScheduleWeather registers a daily report at HH:MM (24h clock).
	ScheduleWeather(ctx context.Context, userID, location, at string) error
	UnscheduleWeather(ctx context.Context, userID string) (int64, error)

	// DueReports returns a report per schedule due at the given wall-clock
	// minute, touching each schedule so it fires once per day.
	DueReports(ctx context.Context, now time.Time) ([]WeatherNotice, error)
}

type prefsUC struct {
	weather adapter.WeatherClient
	repo    repository.PrefsRepository
	log     zerolog.Logger
	now     func() time.Time
}

var _ PrefsUseCase = (*prefsUC)(nil)

func NewPrefsUseCase(weather adapter.WeatherClient, repo repository.PrefsRepository, logger *zerolog.Logger) *prefsUC {
	return &prefsUC{
		weather: weather,
		repo:    repo,
		log:     logger.With().Str("component", "prefs-uc").Logger(),
		now:     time.Now,
	}
}

func (uc *prefsUC) loadOrInit(ctx context.Context, userID string) (*model.UserPrefs, error) {
	p, err := uc.repo.FindPrefs(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &model.UserPrefs{UserID: userID}, nil
		}
		return nil, err
	}
	return p, nil
}

func (uc *prefsUC) SetWeatherLocation(ctx context.Context, userID, location string) error {
	location = strings.TrimSpace(location)
	if userID == "" || location == "" {
		return fmt.Errorf("%w: user id and location required", domain.ErrInvalidArgument)
	}
	// Reject locations the provider cannot resolve up front.
	if _, err := uc.weather.Report(ctx, location); err != nil {
		return err
	}
	p, err := uc.loadOrInit(ctx, userID)
	if err != nil {
		return err
	}
	p.WeatherLocation = location
	p.UpdatedAt = uc.now()
	return uc.repo.SavePrefs(ctx, p)
}

func (uc *prefsUC) SetNotifyChannel(ctx context.Context, userID, channelID string) error {
	if userID == "" {
		return fmt.Errorf("%w: user id required", domain.ErrInvalidArgument)
	}
	p, err := uc.loadOrInit(ctx, userID)
	if err != nil {
		return err
	}
	p.NotifyChannelID = channelID
	p.UpdatedAt = uc.now()
	return uc.repo.SavePrefs(ctx, p)
}

func (uc *prefsUC) GetPrefs(ctx context.Context, userID string) (*model.UserPrefs, error) {
	return uc.repo.FindPrefs(ctx, userID)
}

func (uc *prefsUC) Weather(ctx context.Context, userID, location string) (*model.WeatherReport, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		p, err := uc.repo.FindPrefs(ctx, userID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: no location given and none saved", domain.ErrInvalidArgument)
			}
			return nil, err
		}
		location = p.WeatherLocation
	}
	if location == "" {
		return nil, fmt.Errorf("%w: no location given and none saved", domain.ErrInvalidArgument)
	}
	return uc.weather.Report(ctx, location)
}

func (uc *prefsUC) ScheduleWeather(ctx context.Context, userID, location, at string) error {
	location = strings.TrimSpace(location)
	if userID == "" || location == "" {
		return fmt.Errorf("%w: user id and location required", domain.ErrInvalidArgument)
	}
	if !hhmmRe.MatchString(at) {
		return fmt.Errorf("%w: time must be HH:MM (24h)", domain.ErrInvalidArgument)
	}
	return uc.repo.SaveWeatherSchedule(ctx, &model.WeatherSchedule{
		UserID:   userID,
		Location: location,
		At:       at,
	})
}

func (uc *prefsUC) UnscheduleWeather(ctx context.Context, userID string) (int64, error) {
	return uc.repo.DeleteWeatherSchedules(ctx, userID)
}

func (uc *prefsUC) DueReports(ctx context.Context, now time.Time) ([]WeatherNotice, error) {
	due, err := uc.repo.DueWeatherSchedules(ctx, now.UTC().Format("15:04"))
	if err != nil {
		return nil, err
	}
	var notices []WeatherNotice
	for _, s := range due {
		report, err := uc.weather.Report(ctx, s.Location)
		if err != nil {
			uc.log.Warn().Err(err).Str("user_id", s.UserID).Str("location", s.Location).Msg("scheduled report fetch failed")
			continue
		}
		if err := uc.repo.TouchWeatherSchedule(ctx, s.ID); err != nil {
			uc.log.Warn().Err(err).Int64("schedule_id", s.ID).Msg("schedule touch failed")
			continue
		}
		notices = append(notices, WeatherNotice{UserID: s.UserID, Report: *report})
	}
	return notices, nil
}
