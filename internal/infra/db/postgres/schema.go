// File: internal/infra/db/postgres/schema.go
package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
)

// schemaDDL is idempotent; applied at startup instead of a migration tool.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS tv_subscriptions (
    user_id    TEXT        NOT NULL,
    tmdb_id    BIGINT      NOT NULL,
    show_name  TEXT        NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (user_id, tmdb_id)
);

CREATE TABLE IF NOT EXISTS movie_subscriptions (
    user_id      TEXT        NOT NULL,
    tmdb_id      BIGINT      NOT NULL,
    title        TEXT        NOT NULL,
    release_date TEXT        NOT NULL DEFAULT '',
    notified     BOOLEAN     NOT NULL DEFAULT false,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (user_id, tmdb_id)
);

CREATE TABLE IF NOT EXISTS tracked_stocks (
    user_id        TEXT             NOT NULL,
    symbol         TEXT             NOT NULL,
    quantity       DOUBLE PRECISION NOT NULL DEFAULT 0,
    purchase_price DOUBLE PRECISION NOT NULL DEFAULT 0,
    created_at     TIMESTAMPTZ      NOT NULL DEFAULT now(),
    PRIMARY KEY (user_id, symbol)
);

CREATE TABLE IF NOT EXISTS stock_alerts (
    id         BIGSERIAL        PRIMARY KEY,
    user_id    TEXT             NOT NULL,
    symbol     TEXT             NOT NULL,
    direction  TEXT             NOT NULL,
    target     DOUBLE PRECISION NOT NULL,
    active     BOOLEAN          NOT NULL DEFAULT true,
    created_at TIMESTAMPTZ      NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS stock_alerts_active_idx ON stock_alerts (active) WHERE active;

CREATE TABLE IF NOT EXISTS user_preferences (
    user_id           TEXT        PRIMARY KEY,
    weather_location  TEXT        NOT NULL DEFAULT '',
    notify_channel_id TEXT        NOT NULL DEFAULT '',
    updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS weather_schedules (
    id        BIGSERIAL   PRIMARY KEY,
    user_id   TEXT        NOT NULL,
    location  TEXT        NOT NULL,
    at        TEXT        NOT NULL,
    last_sent TIMESTAMPTZ NOT NULL DEFAULT 'epoch'
);

CREATE TABLE IF NOT EXISTS sent_notifications (
    id      TEXT   PRIMARY KEY,
    user_id TEXT   NOT NULL,
    show_id BIGINT NOT NULL,
    season  INT    NOT NULL,
    episode INT    NOT NULL,
    sent_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (user_id, show_id, season, episode)
);
`

// EnsureSchema creates the tables the repos rely on.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schemaDDL)
	return err
}
