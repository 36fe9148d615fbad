//go:build !integration

package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"discord-companion-bot/internal/domain"
	"discord-companion-bot/internal/domain/model"
	"discord-companion-bot/internal/usecase"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// --- Fake use cases (the web layer only sees the interfaces) ---

type fakeMediaUC struct {
	usecase.MediaUseCase // embed interface for forward compatibility

	shows  []*model.TVSubscription
	movies []*model.MovieSubscription
	hits   []*model.ShowSummary

	subscribeErr error
	listErr      error
}

func (f *fakeMediaUC) ListTV(ctx context.Context, userID string) ([]*model.TVSubscription, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.shows, nil
}

func (f *fakeMediaUC) ListMovies(ctx context.Context, userID string) ([]*model.MovieSubscription, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.movies, nil
}

func (f *fakeMediaUC) SearchTV(ctx context.Context, query string) ([]*model.ShowSummary, error) {
	if query == "" {
		return nil, domain.ErrInvalidArgument
	}
	return f.hits, nil
}

func (f *fakeMediaUC) SubscribeTV(ctx context.Context, userID string, tmdbID int64) (*model.TVSubscription, error) {
	if f.subscribeErr != nil {
		return nil, f.subscribeErr
	}
	sub := &model.TVSubscription{UserID: userID, TMDBID: tmdbID, ShowName: "Severance"}
	f.shows = append(f.shows, sub)
	return sub, nil
}

func (f *fakeMediaUC) UnsubscribeTV(ctx context.Context, userID string, tmdbID int64) error {
	for i, s := range f.shows {
		if s.TMDBID == tmdbID && s.UserID == userID {
			f.shows = append(f.shows[:i], f.shows[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeMediaUC) SubscribeMovie(ctx context.Context, userID string, tmdbID int64) (*model.MovieSubscription, error) {
	if f.subscribeErr != nil {
		return nil, f.subscribeErr
	}
	sub := &model.MovieSubscription{UserID: userID, TMDBID: tmdbID, Title: "Dune 3"}
	f.movies = append(f.movies, sub)
	return sub, nil
}

func (f *fakeMediaUC) UnsubscribeMovie(ctx context.Context, userID string, tmdbID int64) error {
	for i, m := range f.movies {
		if m.TMDBID == tmdbID && m.UserID == userID {
			f.movies = append(f.movies[:i], f.movies[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeStockUC struct {
	usecase.StockUseCase

	tracked []*model.TrackedStock
	alerts  []*model.StockAlert
	quotes  map[string]*model.Quote

	trackErr error
}

func (f *fakeStockUC) ListTracked(ctx context.Context, userID string) ([]*model.TrackedStock, error) {
	return f.tracked, nil
}

func (f *fakeStockUC) ListAlerts(ctx context.Context, userID string) ([]*model.StockAlert, error) {
	return f.alerts, nil
}

func (f *fakeStockUC) Quote(ctx context.Context, symbol string) (*model.Quote, error) {
	if q, ok := f.quotes[symbol]; ok {
		return q, nil
	}
	return nil, domain.ErrQuoteUnavailable
}

func (f *fakeStockUC) Track(ctx context.Context, userID, symbol string, quantity, purchasePrice float64) error {
	if f.trackErr != nil {
		return f.trackErr
	}
	f.tracked = append(f.tracked, &model.TrackedStock{UserID: userID, Symbol: symbol, Quantity: quantity, PurchasePrice: purchasePrice})
	return nil
}

func (f *fakeStockUC) Untrack(ctx context.Context, userID, symbol string) error {
	for i, s := range f.tracked {
		if s.Symbol == symbol {
			f.tracked = append(f.tracked[:i], f.tracked[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakePrefsUC struct {
	usecase.PrefsUseCase

	prefs       *model.UserPrefs
	locationErr error
	scheduled   int
}

func (f *fakePrefsUC) GetPrefs(ctx context.Context, userID string) (*model.UserPrefs, error) {
	if f.prefs == nil {
		return nil, domain.ErrNotFound
	}
	return f.prefs, nil
}

func (f *fakePrefsUC) SetWeatherLocation(ctx context.Context, userID, location string) error {
	if f.locationErr != nil {
		return f.locationErr
	}
	f.prefs = &model.UserPrefs{UserID: userID, WeatherLocation: location}
	return nil
}

func (f *fakePrefsUC) SetNotifyChannel(ctx context.Context, userID, channelID string) error {
	if f.prefs == nil {
		f.prefs = &model.UserPrefs{UserID: userID}
	}
	f.prefs.NotifyChannelID = channelID
	return nil
}

func (f *fakePrefsUC) ScheduleWeather(ctx context.Context, userID, location, at string) error {
	f.scheduled++
	return nil
}

func (f *fakePrefsUC) UnscheduleWeather(ctx context.Context, userID string) (int64, error) {
	n := int64(f.scheduled)
	f.scheduled = 0
	return n, nil
}

// fakeOAuth skips the Discord round trip entirely.
type fakeOAuth struct {
	identity *DiscordIdentity
	err      error
}

func (f *fakeOAuth) Begin(w http.ResponseWriter) (string, error) {
	return "https://discord.test/authorize?state=x", nil
}

func (f *fakeOAuth) Complete(ctx context.Context, r *http.Request) (*DiscordIdentity, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.identity == nil {
		return nil, errors.New("no identity configured")
	}
	return f.identity, nil
}

// --- Test server helpers ---

type testServer struct {
	srv   *Server
	media *fakeMediaUC
	stock *fakeStockUC
	prefs *fakePrefsUC
	oauth *fakeOAuth
	auth  *AuthManager
}

func newTestServer() *testServer {
	media := &fakeMediaUC{}
	stock := &fakeStockUC{quotes: map[string]*model.Quote{}}
	prefs := &fakePrefsUC{}
	oauth := &fakeOAuth{identity: &DiscordIdentity{ID: "u1", Username: "tester"}}
	auth := NewAuthManager("test-secret", false, "", time.Hour)
	return &testServer{
		srv:   NewServer(media, stock, prefs, auth, oauth, newTestLogger()),
		media: media,
		stock: stock,
		prefs: prefs,
		oauth: oauth,
		auth:  auth,
	}
}

// sessionCookie mints a valid session outside of any request.
func (ts *testServer) sessionCookie() *http.Cookie {
	rec := &cookieRecorder{}
	tok, err := ts.auth.Mint(rec, "u1", "tester")
	if err != nil {
		panic(err)
	}
	return &http.Cookie{Name: "dashboard_session", Value: tok}
}

type cookieRecorder struct{ hdr http.Header }

func (c *cookieRecorder) Write([]byte) (int, error) { return 0, nil }
func (c *cookieRecorder) WriteHeader(int)           {}
func (c *cookieRecorder) Header() http.Header {
	if c.hdr == nil {
		c.hdr = http.Header{}
	}
	return c.hdr
}
