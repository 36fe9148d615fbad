package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"discord-companion-bot/internal/config"
	"discord-companion-bot/internal/domain"
	"discord-companion-bot/internal/domain/model"
	"discord-companion-bot/internal/infra/logging"
)

func newPrefsFixture() (*fakeWeatherClient, *memPrefsRepo, *prefsUC) {
	client := &fakeWeatherClient{reports: map[string]*model.WeatherReport{}}
	repo := newMemPrefsRepo()
	log := logging.New(config.LogConfig{Level: "error", Format: "console"}, true)
	uc := NewPrefsUseCase(client, repo, log)
	return client, repo, uc
}

func TestSetWeatherLocation_ValidatesAgainstProvider(t *testing.T) {
	ctx := context.Background()
	client, _, uc := newPrefsFixture()
	client.reports["Berlin"] = &model.WeatherReport{Location: "Berlin", TempC: 19}

	if err := uc.SetWeatherLocation(ctx, "u1", "Berlin"); err != nil {
		t.Fatalf("SetWeatherLocation: %v", err)
	}
	if err := uc.SetWeatherLocation(ctx, "u1", "Atlantis"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unresolvable location: err = %v, want ErrNotFound", err)
	}

	p, err := uc.GetPrefs(ctx, "u1")
	if err != nil {
		t.Fatalf("GetPrefs: %v", err)
	}
	if p.WeatherLocation != "Berlin" {
		t.Fatalf("saved location = %q, want Berlin (bad location must not overwrite)", p.WeatherLocation)
	}
}

func TestWeather_FallsBackToSavedLocation(t *testing.T) {
	ctx := context.Background()
	client, _, uc := newPrefsFixture()
	client.reports["Berlin"] = &model.WeatherReport{Location: "Berlin", TempC: 19}

	if err := uc.SetWeatherLocation(ctx, "u1", "Berlin"); err != nil {
		t.Fatalf("SetWeatherLocation: %v", err)
	}
	r, err := uc.Weather(ctx, "u1", "")
	if err != nil {
		t.Fatalf("Weather: %v", err)
	}
	if r.Location != "Berlin" {
		t.Fatalf("location = %q, want Berlin", r.Location)
	}
}

func TestWeather_NoLocationAnywhere(t *testing.T) {
	_, _, uc := newPrefsFixture()
	if _, err := uc.Weather(context.Background(), "u1", ""); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestScheduleWeather_TimeFormat(t *testing.T) {
	_, _, uc := newPrefsFixture()
	ctx := context.Background()

	for _, bad := range []string{"7:30", "25:00", "12:60", "noonish", ""} {
		if err := uc.ScheduleWeather(ctx, "u1", "Berlin", bad); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("at=%q: err = %v, want ErrInvalidArgument", bad, err)
		}
	}
	if err := uc.ScheduleWeather(ctx, "u1", "Berlin", "07:30"); err != nil {
		t.Fatalf("valid schedule rejected: %v", err)
	}
}

func TestDueReports_FiresOnlyMatchingMinute(t *testing.T) {
	ctx := context.Background()
	client, _, uc := newPrefsFixture()
	client.reports["Berlin"] = &model.WeatherReport{Location: "Berlin", TempC: 19}
	client.reports["Oslo"] = &model.WeatherReport{Location: "Oslo", TempC: 8}

	if err := uc.ScheduleWeather(ctx, "u1", "Berlin", "07:30"); err != nil {
		t.Fatalf("ScheduleWeather: %v", err)
	}
	if err := uc.ScheduleWeather(ctx, "u2", "Oslo", "08:00"); err != nil {
		t.Fatalf("ScheduleWeather: %v", err)
	}

	at := time.Date(2026, 8, 24, 7, 30, 0, 0, time.UTC)
	notices, err := uc.DueReports(ctx, at)
	if err != nil {
		t.Fatalf("DueReports: %v", err)
	}
	if len(notices) != 1 || notices[0].UserID != "u1" || notices[0].Report.Location != "Berlin" {
		t.Fatalf("notices = %+v, want only u1/Berlin", notices)
	}
}

func TestUnscheduleWeather_RemovesAll(t *testing.T) {
	ctx := context.Background()
	client, _, uc := newPrefsFixture()
	client.reports["Berlin"] = &model.WeatherReport{Location: "Berlin"}

	if err := uc.ScheduleWeather(ctx, "u1", "Berlin", "07:30"); err != nil {
		t.Fatalf("ScheduleWeather: %v", err)
	}
	if err := uc.ScheduleWeather(ctx, "u1", "Berlin", "19:00"); err != nil {
		t.Fatalf("ScheduleWeather: %v", err)
	}
	removed, err := uc.UnscheduleWeather(ctx, "u1")
	if err != nil || removed != 2 {
		t.Fatalf("UnscheduleWeather = %d, %v; want 2, nil", removed, err)
	}
}
