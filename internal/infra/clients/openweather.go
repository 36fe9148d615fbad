// File: internal/infra/clients/openweather.go
package clients

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"discord-companion-bot/internal/domain"
	"discord-companion-bot/internal/domain/model"
	"discord-companion-bot/internal/domain/ports/adapter"
)

const openWeatherBaseURL = "https://api.openweathermap.org/data/2.5"

var _ adapter.WeatherClient = (*OpenWeatherClient)(nil)

// OpenWeatherClient fetches current conditions plus the 3-hourly
// forecast and condenses them into one report.
type OpenWeatherClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewOpenWeatherClient(apiKey string) *OpenWeatherClient {
	return &OpenWeatherClient{apiKey: apiKey, baseURL: openWeatherBaseURL, client: newHTTPClient()}
}

type owmCurrent struct {
	Name    string `json:"name"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"` // m/s with metric units
	} `json:"wind"`
}

type owmForecast struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
	} `json:"list"`
}

func (o *OpenWeatherClient) Report(ctx context.Context, location string) (*model.WeatherReport, error) {
	params := url.Values{
		"q":     {location},
		"units": {"metric"},
		"appid": {o.apiKey},
	}

	var cur owmCurrent
	if err := getJSON(ctx, o.client, o.baseURL+"/weather?"+params.Encode(), nil, &cur); err != nil {
		return nil, mapOWMErr(err, location)
	}

	report := &model.WeatherReport{
		Location:   cur.Name,
		TempC:      cur.Main.Temp,
		FeelsLikeC: cur.Main.FeelsLike,
		Humidity:   cur.Main.Humidity,
		WindKph:    cur.Wind.Speed * 3.6,
	}
	if len(cur.Weather) > 0 {
		report.Description = cur.Weather[0].Description
	}

	// Forecast failures degrade to a current-conditions-only report.
	var fc owmForecast
	if err := getJSON(ctx, o.client, o.baseURL+"/forecast?"+params.Encode(), nil, &fc); err == nil {
		// Every 8th slot of the 3-hourly list is one day ahead.
		for i := 0; i < len(fc.List) && len(report.Forecast) < 4; i += 8 {
			slot := fc.List[i]
			f := model.ForecastSlot{
				At:    time.Unix(slot.Dt, 0).UTC(),
				TempC: slot.Main.Temp,
			}
			if len(slot.Weather) > 0 {
				f.Description = slot.Weather[0].Description
			}
			report.Forecast = append(report.Forecast, f)
		}
	}
	return report, nil
}

func mapOWMErr(err error, location string) error {
	var se *statusError
	if errors.As(err, &se) && se.code == http.StatusNotFound {
		return fmt.Errorf("%w: location %q", domain.ErrNotFound, location)
	}
	return err
}
