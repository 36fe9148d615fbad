package model

import "time"

// UserPrefs holds per-user settings the dashboard and bot share.
type UserPrefs struct {
	UserID          string
	WeatherLocation string
	NotifyChannelID string // empty means DM
	UpdatedAt       time.Time
}

// WeatherSchedule delivers a daily weather report at HH:MM (24h, UTC
// unless the stored location's offset says otherwise; v1 keeps UTC).
type WeatherSchedule struct {
	ID       int64
	UserID   string
	Location string
	At       string // "07:30"
	LastSent time.Time
}

// WeatherReport condenses current conditions plus a short forecast.
type WeatherReport struct {
	Location    string
	Description string
	TempC       float64
	FeelsLikeC  float64
	Humidity    int
	WindKph     float64
	Forecast    []ForecastSlot
}

type ForecastSlot struct {
	At          time.Time
	TempC       float64
	Description string
}
