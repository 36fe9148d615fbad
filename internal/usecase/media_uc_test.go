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

func newMediaFixture() (*fakeMediaClient, *memMediaRepo, *memNoteLog, *mediaUC) {
	client := &fakeMediaClient{
		shows:  map[int64]*model.ShowDetails{},
		movies: map[int64]*model.ShowSummary{},
	}
	repo := newMemMediaRepo()
	noteLog := newMemNoteLog()
	log := logging.New(config.LogConfig{Level: "error", Format: "console"}, true)
	uc := NewMediaUseCase(client, repo, noteLog, log)
	return client, repo, noteLog, uc
}

func TestSubscribeTV_ResolvesShowName(t *testing.T) {
	ctx := context.Background()
	client, _, _, uc := newMediaFixture()
	client.shows[42] = &model.ShowDetails{TMDBID: 42, Name: "Severance"}

	sub, err := uc.SubscribeTV(ctx, "u1", 42)
	if err != nil {
		t.Fatalf("SubscribeTV: %v", err)
	}
	if sub.ShowName != "Severance" {
		t.Fatalf("show name = %q", sub.ShowName)
	}

	subs, err := uc.ListTV(ctx, "u1")
	if err != nil || len(subs) != 1 {
		t.Fatalf("ListTV = %v, %v", subs, err)
	}
}

func TestSubscribeTV_UnknownShow(t *testing.T) {
	_, _, _, uc := newMediaFixture()
	if _, err := uc.SubscribeTV(context.Background(), "u1", 999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSubscribeTV_Validation(t *testing.T) {
	_, _, _, uc := newMediaFixture()
	if _, err := uc.SubscribeTV(context.Background(), "", 42); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
	if _, err := uc.SubscribeTV(context.Background(), "u1", 0); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestCheckNewEpisodes_DedupesAcrossRuns(t *testing.T) {
	ctx := context.Background()
	client, _, _, uc := newMediaFixture()
	today := time.Now().UTC().Format("2006-01-02")
	client.shows[42] = &model.ShowDetails{
		TMDBID: 42,
		Name:   "Severance",
		NextEpisode: &model.Episode{
			ShowTMDBID: 42, ShowName: "Severance",
			Season: 2, Number: 3, Name: "Who Is Alive?", AirDate: today,
		},
	}

	for _, u := range []string{"u1", "u2"} {
		if _, err := uc.SubscribeTV(ctx, u, 42); err != nil {
			t.Fatalf("SubscribeTV(%s): %v", u, err)
		}
	}

	notices, err := uc.CheckNewEpisodes(ctx)
	if err != nil {
		t.Fatalf("CheckNewEpisodes: %v", err)
	}
	if len(notices) != 2 {
		t.Fatalf("notices = %d, want 2 (one per subscriber)", len(notices))
	}
	for _, n := range notices {
		if n.Episode.Season != 2 || n.Episode.Number != 3 {
			t.Fatalf("unexpected episode in notice: %+v", n.Episode)
		}
	}

	// Second run must be silent: the log already has both rows.
	notices, err = uc.CheckNewEpisodes(ctx)
	if err != nil {
		t.Fatalf("CheckNewEpisodes: %v", err)
	}
	if len(notices) != 0 {
		t.Fatalf("repeat run produced %d notices, want 0", len(notices))
	}
}

func TestCheckNewEpisodes_IgnoresFutureAirDates(t *testing.T) {
	ctx := context.Background()
	client, _, _, uc := newMediaFixture()
	tomorrow := time.Now().UTC().Add(24 * time.Hour).Format("2006-01-02")
	client.shows[42] = &model.ShowDetails{
		TMDBID:      42,
		Name:        "Severance",
		NextEpisode: &model.Episode{ShowTMDBID: 42, Season: 2, Number: 4, AirDate: tomorrow},
	}
	if _, err := uc.SubscribeTV(ctx, "u1", 42); err != nil {
		t.Fatalf("SubscribeTV: %v", err)
	}
	notices, err := uc.CheckNewEpisodes(ctx)
	if err != nil {
		t.Fatalf("CheckNewEpisodes: %v", err)
	}
	if len(notices) != 0 {
		t.Fatalf("future episode produced %d notices", len(notices))
	}
}

func TestCheckMovieReleases_FiresOnceOnOrAfterReleaseDate(t *testing.T) {
	ctx := context.Background()
	client, _, _, uc := newMediaFixture()
	yesterday := time.Now().UTC().Add(-24 * time.Hour).Format("2006-01-02")
	nextYear := time.Now().UTC().Add(365 * 24 * time.Hour).Format("2006-01-02")
	client.movies[7] = &model.ShowSummary{TMDBID: 7, Name: "Released", FirstAirDate: yesterday}
	client.movies[8] = &model.ShowSummary{TMDBID: 8, Name: "Future", FirstAirDate: nextYear}

	if _, err := uc.SubscribeMovie(ctx, "u1", 7); err != nil {
		t.Fatalf("SubscribeMovie: %v", err)
	}
	if _, err := uc.SubscribeMovie(ctx, "u1", 8); err != nil {
		t.Fatalf("SubscribeMovie: %v", err)
	}

	notices, err := uc.CheckMovieReleases(ctx)
	if err != nil {
		t.Fatalf("CheckMovieReleases: %v", err)
	}
	if len(notices) != 1 || notices[0].Movie.Title != "Released" {
		t.Fatalf("notices = %+v, want only the released movie", notices)
	}

	// Notified movies do not fire again.
	notices, err = uc.CheckMovieReleases(ctx)
	if err != nil {
		t.Fatalf("CheckMovieReleases: %v", err)
	}
	if len(notices) != 0 {
		t.Fatalf("repeat run produced %d notices", len(notices))
	}
}

func TestSearchTV_EmptyQuery(t *testing.T) {
	_, _, _, uc := newMediaFixture()
	if _, err := uc.SearchTV(context.Background(), "  "); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}
