// File: internal/infra/clients/tmdb.go
package clients

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"discord-companion-bot/internal/domain"
	"discord-companion-bot/internal/domain/model"
	"discord-companion-bot/internal/domain/ports/adapter"
)

const tmdbBaseURL = "https://api.themoviedb.org/3"

var _ adapter.MediaClient = (*TMDBClient)(nil)

// TMDBClient looks up show and movie metadata on The Movie Database.
type TMDBClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewTMDBClient(apiKey string) *TMDBClient {
	return &TMDBClient{apiKey: apiKey, baseURL: tmdbBaseURL, client: newHTTPClient()}
}

func (t *TMDBClient) url(path string, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", t.apiKey)
	return t.baseURL + path + "?" + params.Encode()
}

type tmdbSearchHit struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`  // tv
	Title        string `json:"title"` // movie
	FirstAirDate string `json:"first_air_date"`
	ReleaseDate  string `json:"release_date"`
	Overview     string `json:"overview"`
}

type tmdbSearchResponse struct {
	Results []tmdbSearchHit `json:"results"`
}

func (h tmdbSearchHit) toSummary() *model.ShowSummary {
	name, date := h.Name, h.FirstAirDate
	if name == "" {
		name, date = h.Title, h.ReleaseDate
	}
	return &model.ShowSummary{
		TMDBID:       h.ID,
		Name:         name,
		FirstAirDate: date,
		Overview:     h.Overview,
	}
}

func (t *TMDBClient) SearchTV(ctx context.Context, query string) ([]*model.ShowSummary, error) {
	var resp tmdbSearchResponse
	if err := getJSON(ctx, t.client, t.url("/search/tv", url.Values{"query": {query}}), nil, &resp); err != nil {
		return nil, err
	}
	return summaries(resp.Results), nil
}

func (t *TMDBClient) SearchMovies(ctx context.Context, query string) ([]*model.ShowSummary, error) {
	var resp tmdbSearchResponse
	if err := getJSON(ctx, t.client, t.url("/search/movie", url.Values{"query": {query}}), nil, &resp); err != nil {
		return nil, err
	}
	return summaries(resp.Results), nil
}

func (t *TMDBClient) TrendingTV(ctx context.Context, window string) ([]*model.ShowSummary, error) {
	if window == "" {
		window = "week"
	}
	var resp tmdbSearchResponse
	if err := getJSON(ctx, t.client, t.url("/trending/tv/"+window, nil), nil, &resp); err != nil {
		return nil, err
	}
	return summaries(resp.Results), nil
}

func summaries(hits []tmdbSearchHit) []*model.ShowSummary {
	out := make([]*model.ShowSummary, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.toSummary())
	}
	return out
}

type tmdbEpisode struct {
	SeasonNumber  int    `json:"season_number"`
	EpisodeNumber int    `json:"episode_number"`
	Name          string `json:"name"`
	AirDate       string `json:"air_date"`
}

type tmdbShowDetails struct {
	ID                int64        `json:"id"`
	Name              string       `json:"name"`
	Overview          string       `json:"overview"`
	Status            string       `json:"status"`
	NextEpisodeToAir *tmdbEpisode `json:"next_episode_to_air"`
	LastEpisodeToAir *tmdbEpisode `json:"last_episode_to_air"`
}

func (t *TMDBClient) ShowDetails(ctx context.Context, tmdbID int64) (*model.ShowDetails, error) {
	var resp tmdbShowDetails
	path := fmt.Sprintf("/tv/%d", tmdbID)
	err := getJSON(ctx, t.client, t.url(path, url.Values{"append_to_response": {"next_episode_to_air,last_episode_to_air"}}), nil, &resp)
	if err != nil {
		return nil, mapTMDBErr(err)
	}
	d := &model.ShowDetails{
		TMDBID:   resp.ID,
		Name:     resp.Name,
		Overview: resp.Overview,
		Status:   resp.Status,
	}
	if e := resp.NextEpisodeToAir; e != nil {
		d.NextEpisode = toEpisode(resp, e)
	}
	if e := resp.LastEpisodeToAir; e != nil {
		d.LastEpisode = toEpisode(resp, e)
	}
	return d, nil
}

func toEpisode(show tmdbShowDetails, e *tmdbEpisode) *model.Episode {
	return &model.Episode{
		ShowTMDBID: show.ID,
		ShowName:   show.Name,
		Season:     e.SeasonNumber,
		Number:     e.EpisodeNumber,
		Name:       e.Name,
		AirDate:    e.AirDate,
	}
}

type tmdbMovieDetails struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Overview    string `json:"overview"`
	ReleaseDate string `json:"release_date"`
}

func (t *TMDBClient) MovieDetails(ctx context.Context, tmdbID int64) (*model.ShowSummary, error) {
	var resp tmdbMovieDetails
	if err := getJSON(ctx, t.client, t.url(fmt.Sprintf("/movie/%d", tmdbID), nil), nil, &resp); err != nil {
		return nil, mapTMDBErr(err)
	}
	return &model.ShowSummary{
		TMDBID:       resp.ID,
		Name:         resp.Title,
		FirstAirDate: resp.ReleaseDate,
		Overview:     resp.Overview,
	}, nil
}

// TMDB answers 404 for unknown ids; surface that as the domain sentinel.
func mapTMDBErr(err error) error {
	if err == nil {
		return nil
	}
	var se *statusError
	if errors.As(err, &se) && se.code == http.StatusNotFound {
		return fmt.Errorf("%w: %v", domain.ErrNotFound, err)
	}
	return err
}
