// File: internal/usecase/mocks_test.go
package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"discord-companion-bot/internal/domain"
	"discord-companion-bot/internal/domain/model"
	"discord-companion-bot/internal/domain/ports/adapter"
	"discord-companion-bot/internal/domain/ports/repository"
)

// ---- media ----

type fakeMediaClient struct {
	shows    map[int64]*model.ShowDetails
	movies   map[int64]*model.ShowSummary
	searchTV []*model.ShowSummary
}

var _ adapter.MediaClient = (*fakeMediaClient)(nil)

func (f *fakeMediaClient) SearchTV(ctx context.Context, q string) ([]*model.ShowSummary, error) {
	return f.searchTV, nil
}

func (f *fakeMediaClient) SearchMovies(ctx context.Context, q string) ([]*model.ShowSummary, error) {
	return f.searchTV, nil
}

func (f *fakeMediaClient) ShowDetails(ctx context.Context, id int64) (*model.ShowDetails, error) {
	d, ok := f.shows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

func (f *fakeMediaClient) MovieDetails(ctx context.Context, id int64) (*model.ShowSummary, error) {
	m, ok := f.movies[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

func (f *fakeMediaClient) TrendingTV(ctx context.Context, window string) ([]*model.ShowSummary, error) {
	return f.searchTV, nil
}

type memMediaRepo struct {
	mu     sync.Mutex
	tv     map[string]*model.TVSubscription    // key user|id
	movies map[string]*model.MovieSubscription // key user|id
}

var _ repository.MediaRepository = (*memMediaRepo)(nil)

func newMemMediaRepo() *memMediaRepo {
	return &memMediaRepo{tv: map[string]*model.TVSubscription{}, movies: map[string]*model.MovieSubscription{}}
}

func mkey(userID string, id int64) string { return fmt.Sprintf("%s|%d", userID, id) }

func (r *memMediaRepo) SaveTV(ctx context.Context, s *model.TVSubscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tv[mkey(s.UserID, s.TMDBID)] = s
	return nil
}

func (r *memMediaRepo) DeleteTV(ctx context.Context, userID string, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tv[mkey(userID, id)]; !ok {
		return domain.ErrNotFound
	}
	delete(r.tv, mkey(userID, id))
	return nil
}

func (r *memMediaRepo) ListTVByUser(ctx context.Context, userID string) ([]*model.TVSubscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.TVSubscription
	for _, s := range r.tv {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memMediaRepo) ListTVAll(ctx context.Context) ([]*model.TVSubscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.TVSubscription
	for _, s := range r.tv {
		out = append(out, s)
	}
	return out, nil
}

func (r *memMediaRepo) SaveMovie(ctx context.Context, s *model.MovieSubscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movies[mkey(s.UserID, s.TMDBID)] = s
	return nil
}

func (r *memMediaRepo) DeleteMovie(ctx context.Context, userID string, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.movies, mkey(userID, id))
	return nil
}

func (r *memMediaRepo) ListMoviesByUser(ctx context.Context, userID string) ([]*model.MovieSubscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.MovieSubscription
	for _, s := range r.movies {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memMediaRepo) ListUnnotifiedMovies(ctx context.Context) ([]*model.MovieSubscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.MovieSubscription
	for _, s := range r.movies {
		if !s.Notified {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memMediaRepo) MarkMovieNotified(ctx context.Context, userID string, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.movies[mkey(userID, id)]
	if !ok {
		return domain.ErrNotFound
	}
	s.Notified = true
	return nil
}

type memNoteLog struct {
	mu   sync.Mutex
	sent map[string]bool
}

var _ repository.NotificationLogRepository = (*memNoteLog)(nil)

func newMemNoteLog() *memNoteLog { return &memNoteLog{sent: map[string]bool{}} }

func nkey(userID string, showID int64, season, episode int) string {
	return fmt.Sprintf("%s|%d|%d|%d", userID, showID, season, episode)
}

func (l *memNoteLog) Save(ctx context.Context, userID string, showID int64, season, episode int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sent[nkey(userID, showID, season, episode)] = true
	return nil
}

func (l *memNoteLog) Exists(ctx context.Context, userID string, showID int64, season, episode int) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sent[nkey(userID, showID, season, episode)], nil
}

// ---- stocks ----

type fakeQuoteProvider struct {
	name   string
	quotes map[string]*model.Quote
	err    error
	calls  int
}

var _ adapter.QuoteProvider = (*fakeQuoteProvider)(nil)

func (p *fakeQuoteProvider) Name() string { return p.name }

func (p *fakeQuoteProvider) Quote(ctx context.Context, symbol string) (*model.Quote, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	q, ok := p.quotes[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s not found", domain.ErrQuoteUnavailable, symbol)
	}
	cp := *q
	cp.Source = p.name
	return &cp, nil
}

type memQuoteCache struct {
	mu    sync.Mutex
	items map[string]*model.Quote
}

var _ adapter.QuoteCache = (*memQuoteCache)(nil)

func newMemQuoteCache() *memQuoteCache { return &memQuoteCache{items: map[string]*model.Quote{}} }

func (c *memQuoteCache) Get(ctx context.Context, symbol string) (*model.Quote, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	q, ok := c.items[symbol]
	return q, ok
}

func (c *memQuoteCache) Set(ctx context.Context, q *model.Quote) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[q.Symbol] = q
}

type memStockRepo struct {
	mu      sync.Mutex
	tracked map[string]*model.TrackedStock
	alerts  []*model.StockAlert
	nextID  int64
}

var _ repository.StockRepository = (*memStockRepo)(nil)

func newMemStockRepo() *memStockRepo {
	return &memStockRepo{tracked: map[string]*model.TrackedStock{}}
}

func (r *memStockRepo) SaveTracked(ctx context.Context, t *model.TrackedStock) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tracked[t.UserID+"|"+t.Symbol] = t
	return nil
}

func (r *memStockRepo) DeleteTracked(ctx context.Context, userID, symbol string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tracked[userID+"|"+symbol]; !ok {
		return domain.ErrNotFound
	}
	delete(r.tracked, userID+"|"+symbol)
	return nil
}

func (r *memStockRepo) ListTrackedByUser(ctx context.Context, userID string) ([]*model.TrackedStock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.TrackedStock
	for _, t := range r.tracked {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memStockRepo) SaveAlert(ctx context.Context, a *model.StockAlert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	a.ID = r.nextID
	r.alerts = append(r.alerts, a)
	return nil
}

func (r *memStockRepo) DeactivateAlert(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.alerts {
		if a.ID == id {
			a.Active = false
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memStockRepo) DeleteAlerts(ctx context.Context, userID, symbol string, dir model.AlertDirection) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []*model.StockAlert
	var removed int64
	for _, a := range r.alerts {
		if a.UserID == userID && a.Symbol == symbol && (dir == "" || a.Direction == dir) {
			removed++
			continue
		}
		kept = append(kept, a)
	}
	r.alerts = kept
	return removed, nil
}

func (r *memStockRepo) ListActiveAlerts(ctx context.Context) ([]*model.StockAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.StockAlert
	for _, a := range r.alerts {
		if a.Active {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memStockRepo) ListAlertsByUser(ctx context.Context, userID string) ([]*model.StockAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.StockAlert
	for _, a := range r.alerts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

// ---- prefs / weather ----

type fakeWeatherClient struct {
	reports map[string]*model.WeatherReport
	calls   int
}

var _ adapter.WeatherClient = (*fakeWeatherClient)(nil)

func (f *fakeWeatherClient) Report(ctx context.Context, location string) (*model.WeatherReport, error) {
	f.calls++
	r, ok := f.reports[location]
	if !ok {
		return nil, fmt.Errorf("%w: unknown location %q", domain.ErrNotFound, location)
	}
	return r, nil
}

type memPrefsRepo struct {
	mu        sync.Mutex
	prefs     map[string]*model.UserPrefs
	schedules []*model.WeatherSchedule
	nextID    int64
}

var _ repository.PrefsRepository = (*memPrefsRepo)(nil)

func newMemPrefsRepo() *memPrefsRepo { return &memPrefsRepo{prefs: map[string]*model.UserPrefs{}} }

func (r *memPrefsRepo) SavePrefs(ctx context.Context, p *model.UserPrefs) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefs[p.UserID] = p
	return nil
}

func (r *memPrefsRepo) FindPrefs(ctx context.Context, userID string) (*model.UserPrefs, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.prefs[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (r *memPrefsRepo) SaveWeatherSchedule(ctx context.Context, s *model.WeatherSchedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	s.ID = r.nextID
	r.schedules = append(r.schedules, s)
	return nil
}

func (r *memPrefsRepo) DeleteWeatherSchedules(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []*model.WeatherSchedule
	var removed int64
	for _, s := range r.schedules {
		if s.UserID == userID {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	r.schedules = kept
	return removed, nil
}

func (r *memPrefsRepo) DueWeatherSchedules(ctx context.Context, hhmm string) ([]*model.WeatherSchedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.WeatherSchedule
	for _, s := range r.schedules {
		if s.At == hhmm {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memPrefsRepo) TouchWeatherSchedule(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.schedules {
		if s.ID == id {
			s.LastSent = time.Now().UTC()
			return nil
		}
	}
	return domain.ErrNotFound
}
