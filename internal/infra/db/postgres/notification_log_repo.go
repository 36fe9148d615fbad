// File: internal/infra/db/postgres/notification_log_repo.go
package postgres

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/oklog/ulid/v2"

	"discord-companion-bot/internal/domain"
	"discord-companion-bot/internal/domain/ports/repository"
)

var _ repository.NotificationLogRepository = (*notificationLogRepo)(nil)

type notificationLogRepo struct {
	pool *pgxpool.Pool
}

func NewNotificationLogRepo(pool *pgxpool.Pool) repository.NotificationLogRepository {
	return &notificationLogRepo{pool: pool}
}

func (r *notificationLogRepo) Save(ctx context.Context, userID string, showID int64, season, episode int) error {
	const sql = `
INSERT INTO sent_notifications (id, user_id, show_id, season, episode)
VALUES ($1, $2, $3, $4, $5);
`
	// Sortable row ids; the UNIQUE constraint on (user_id, show_id,
	// season, episode) is the real dedupe.
	id := ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
	_, err := r.pool.Exec(ctx, sql, id, userID, showID, season, episode)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("save notification: %w", err)
	}
	return nil
}

func (r *notificationLogRepo) Exists(ctx context.Context, userID string, showID int64, season, episode int) (bool, error) {
	const sql = `
SELECT EXISTS(
    SELECT 1 FROM sent_notifications
    WHERE user_id = $1 AND show_id = $2 AND season = $3 AND episode = $4
);
`
	var exists bool
	if err := r.pool.QueryRow(ctx, sql, userID, showID, season, episode).Scan(&exists); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("notification exists: %w", err)
	}
	return exists, nil
}
