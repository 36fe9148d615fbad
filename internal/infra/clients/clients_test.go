package clients

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"discord-companion-bot/internal/domain"
)

func TestTMDB_SearchTV(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/tv" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("api_key") != "k" {
			t.Errorf("missing api key")
		}
		if r.URL.Query().Get("query") != "severance" {
			t.Errorf("query = %q", r.URL.Query().Get("query"))
		}
		w.Write([]byte(`{"results":[{"id":42,"name":"Severance","first_air_date":"2022-02-18","overview":"..."}]}`))
	}))
	defer srv.Close()

	c := NewTMDBClient("k")
	c.baseURL = srv.URL

	hits, err := c.SearchTV(context.Background(), "severance")
	if err != nil {
		t.Fatalf("SearchTV: %v", err)
	}
	if len(hits) != 1 || hits[0].TMDBID != 42 || hits[0].Name != "Severance" {
		t.Fatalf("hits = %+v", hits)
	}
}

func TestTMDB_ShowDetails_MapsEpisodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tv/42" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"id":42,"name":"Severance","status":"Returning Series","overview":"...",
			"next_episode_to_air":{"season_number":2,"episode_number":3,"name":"Next","air_date":"2026-08-24"},
			"last_episode_to_air":{"season_number":2,"episode_number":2,"name":"Prev","air_date":"2026-08-17"}
		}`))
	}))
	defer srv.Close()

	c := NewTMDBClient("k")
	c.baseURL = srv.URL

	d, err := c.ShowDetails(context.Background(), 42)
	if err != nil {
		t.Fatalf("ShowDetails: %v", err)
	}
	if d.NextEpisode == nil || d.NextEpisode.Season != 2 || d.NextEpisode.Number != 3 {
		t.Fatalf("next episode = %+v", d.NextEpisode)
	}
	if d.NextEpisode.ShowName != "Severance" {
		t.Fatalf("episode missing show name: %+v", d.NextEpisode)
	}
	if d.LastEpisode == nil || d.LastEpisode.AirDate != "2026-08-17" {
		t.Fatalf("last episode = %+v", d.LastEpisode)
	}
}

func TestTMDB_ShowDetails_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status_message":"not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewTMDBClient("k")
	c.baseURL = srv.URL

	if _, err := c.ShowDetails(context.Background(), 999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestAlphaVantage_Quote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("function") != "GLOBAL_QUOTE" {
			t.Errorf("function = %q", r.URL.Query().Get("function"))
		}
		w.Write([]byte(`{"Global Quote":{"01. symbol":"AAPL","05. price":"210.5000","06. volume":"1000","09. change":"1.2500","10. change percent":"0.5970%"}}`))
	}))
	defer srv.Close()

	c := NewAlphaVantageClient("k")
	c.baseURL = srv.URL

	q, err := c.Quote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if q.Price != 210.5 || q.Change != 1.25 || q.ChangePercent != 0.597 || q.Volume != 1000 {
		t.Fatalf("quote = %+v", q)
	}
	if q.Source != "alphavantage" {
		t.Fatalf("source = %q", q.Source)
	}
}

func TestAlphaVantage_ThrottleNote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Note":"Thank you for using Alpha Vantage! Our standard API call frequency is 25 requests per day."}`))
	}))
	defer srv.Close()

	c := NewAlphaVantageClient("k")
	c.baseURL = srv.URL

	if _, err := c.Quote(context.Background(), "AAPL"); !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("err = %v, want ErrRateLimited", err)
	}
}

func TestYahoo_QuoteAndEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("symbols") {
		case "AAPL":
			w.Write([]byte(`{"quoteResponse":{"result":[{"symbol":"AAPL","regularMarketPrice":210.4,"regularMarketChange":-0.5,"regularMarketChangePercent":-0.23,"regularMarketVolume":500,"currency":"USD"}]}}`))
		default:
			w.Write([]byte(`{"quoteResponse":{"result":[]}}`))
		}
	}))
	defer srv.Close()

	c := NewYahooFinanceClient()
	c.baseURL = srv.URL

	q, err := c.Quote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if q.Price != 210.4 || q.Currency != "USD" || q.Source != "yahoo" {
		t.Fatalf("quote = %+v", q)
	}

	if _, err := c.Quote(context.Background(), "NOPE"); !errors.Is(err, domain.ErrQuoteUnavailable) {
		t.Fatalf("err = %v, want ErrQuoteUnavailable", err)
	}
}

func TestYahoo_SearchSymbols(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/finance/search" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"quotes":[{"symbol":"AAPL","shortname":"Apple Inc.","exchange":"NMS"},{"symbol":"","shortname":"junk"}]}`))
	}))
	defer srv.Close()

	c := NewYahooFinanceClient()
	c.baseURL = srv.URL

	matches, err := c.SearchSymbols(context.Background(), "apple")
	if err != nil {
		t.Fatalf("SearchSymbols: %v", err)
	}
	if len(matches) != 1 || matches[0].Symbol != "AAPL" {
		t.Fatalf("matches = %+v", matches)
	}
}

func TestOpenWeather_ReportWithForecast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/weather":
			w.Write([]byte(`{"name":"Berlin","weather":[{"description":"light rain"}],"main":{"temp":19.2,"feels_like":18.7,"humidity":70},"wind":{"speed":5.0}}`))
		case "/forecast":
			w.Write([]byte(`{"list":[
				{"dt":1756018800,"main":{"temp":20.0},"weather":[{"description":"clouds"}]},
				{"dt":1756029600,"main":{"temp":21.0},"weather":[{"description":"sun"}]}
			]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewOpenWeatherClient("k")
	c.baseURL = srv.URL

	rep, err := c.Report(context.Background(), "Berlin")
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if rep.Location != "Berlin" || rep.Description != "light rain" || rep.Humidity != 70 {
		t.Fatalf("report = %+v", rep)
	}
	if rep.WindKph != 18 {
		t.Fatalf("wind = %v km/h, want 18 (5 m/s)", rep.WindKph)
	}
	if len(rep.Forecast) != 1 || rep.Forecast[0].TempC != 20.0 {
		t.Fatalf("forecast = %+v", rep.Forecast)
	}
}

func TestOpenWeather_UnknownLocation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"cod":"404","message":"city not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewOpenWeatherClient("k")
	c.baseURL = srv.URL

	if _, err := c.Report(context.Background(), "Atlantis"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGetJSON_RetriesTransientFailures(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	var out struct {
		OK bool `json:"ok"`
	}
	if err := getJSON(context.Background(), srv.Client(), srv.URL, nil, &out); err != nil {
		t.Fatalf("getJSON: %v", err)
	}
	if !out.OK || atomic.LoadInt32(&calls) != 3 {
		t.Fatalf("ok=%v calls=%d", out.OK, calls)
	}
}

func TestGetJSON_DoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	var out map[string]any
	if err := getJSON(context.Background(), srv.Client(), srv.URL, nil, &out); err == nil {
		t.Fatal("expected error")
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("calls = %d, want 1 (4xx is permanent)", calls)
	}
}
