//go:build integration

package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"discord-companion-bot/internal/domain"
	"discord-companion-bot/internal/domain/model"
)

// Runs against a live database: DATABASE_URL=postgres://... go test -tags integration ./...

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}
	pool, err := NewPool(context.Background(), url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := EnsureSchema(context.Background(), pool); err != nil {
		t.Fatalf("schema: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func TestMediaRepo_TVRoundTrip(t *testing.T) {
	ctx := context.Background()
	pool := testPool(t)
	repo := NewMediaRepo(pool)

	sub := &model.TVSubscription{UserID: "it-u1", TMDBID: 42, ShowName: "Severance", CreatedAt: time.Now()}
	t.Cleanup(func() { _ = repo.DeleteTV(ctx, sub.UserID, sub.TMDBID) })

	if err := repo.SaveTV(ctx, sub); err != nil {
		t.Fatalf("SaveTV: %v", err)
	}
	if err := repo.SaveTV(ctx, sub); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("duplicate SaveTV err = %v, want ErrAlreadyExists", err)
	}

	subs, err := repo.ListTVByUser(ctx, "it-u1")
	if err != nil || len(subs) != 1 || subs[0].ShowName != "Severance" {
		t.Fatalf("ListTVByUser = %+v, %v", subs, err)
	}

	if err := repo.DeleteTV(ctx, "it-u1", 42); err != nil {
		t.Fatalf("DeleteTV: %v", err)
	}
	if err := repo.DeleteTV(ctx, "it-u1", 42); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second DeleteTV err = %v, want ErrNotFound", err)
	}
}

func TestNotificationLog_UniqueDedupe(t *testing.T) {
	ctx := context.Background()
	pool := testPool(t)
	repo := NewNotificationLogRepo(pool)

	if err := repo.Save(ctx, "it-u1", 42, 2, 3); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := repo.Save(ctx, "it-u1", 42, 2, 3); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("duplicate Save err = %v, want ErrAlreadyExists", err)
	}
	ok, err := repo.Exists(ctx, "it-u1", 42, 2, 3)
	if err != nil || !ok {
		t.Fatalf("Exists = %v, %v", ok, err)
	}
	ok, err = repo.Exists(ctx, "it-u1", 42, 2, 4)
	if err != nil || ok {
		t.Fatalf("Exists(other episode) = %v, %v", ok, err)
	}
}

func TestStockRepo_AlertLifecycle(t *testing.T) {
	ctx := context.Background()
	pool := testPool(t)
	repo := NewStockRepo(pool)

	a := &model.StockAlert{UserID: "it-u1", Symbol: "AAPL", Direction: model.AlertAbove, Target: 210, Active: true, CreatedAt: time.Now()}
	if err := repo.SaveAlert(ctx, a); err != nil {
		t.Fatalf("SaveAlert: %v", err)
	}
	if a.ID == 0 {
		t.Fatal("SaveAlert did not backfill id")
	}
	t.Cleanup(func() { _, _ = repo.DeleteAlerts(ctx, "it-u1", "AAPL", "") })

	if err := repo.DeactivateAlert(ctx, a.ID); err != nil {
		t.Fatalf("DeactivateAlert: %v", err)
	}
	if err := repo.DeactivateAlert(ctx, a.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second DeactivateAlert err = %v, want ErrNotFound", err)
	}
}

func TestPrefsRepo_ScheduleDue(t *testing.T) {
	ctx := context.Background()
	pool := testPool(t)
	repo := NewPrefsRepo(pool)

	s := &model.WeatherSchedule{UserID: "it-u1", Location: "Berlin", At: "07:30"}
	if err := repo.SaveWeatherSchedule(ctx, s); err != nil {
		t.Fatalf("SaveWeatherSchedule: %v", err)
	}
	t.Cleanup(func() { _, _ = repo.DeleteWeatherSchedules(ctx, "it-u1") })

	due, err := repo.DueWeatherSchedules(ctx, "07:30")
	if err != nil {
		t.Fatalf("DueWeatherSchedules: %v", err)
	}
	found := false
	for _, d := range due {
		if d.ID == s.ID {
			found = true
		}
	}
	if !found {
		t.Fatal("fresh schedule not reported due")
	}

	if err := repo.TouchWeatherSchedule(ctx, s.ID); err != nil {
		t.Fatalf("TouchWeatherSchedule: %v", err)
	}
	due, err = repo.DueWeatherSchedules(ctx, "07:30")
	if err != nil {
		t.Fatalf("DueWeatherSchedules: %v", err)
	}
	for _, d := range due {
		if d.ID == s.ID {
			t.Fatal("touched schedule still due")
		}
	}
}
