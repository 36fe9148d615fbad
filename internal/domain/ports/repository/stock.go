package repository

import (
	"context"

	"discord-companion-bot/internal/domain/model"
)

// -----------------------------
// Tracked stocks & alerts
// -----------------------------

type StockRepository interface {
	SaveTracked(ctx context.Context, t *model.TrackedStock) error
	DeleteTracked(ctx context.Context, userID, symbol string) error
	ListTrackedByUser(ctx context.Context, userID string) ([]*model.TrackedStock, error)

	SaveAlert(ctx context.Context, a *model.StockAlert) error
	DeactivateAlert(ctx context.Context, id int64) error
	DeleteAlerts(ctx context.Context, userID, symbol string, dir model.AlertDirection) (int64, error)
	ListActiveAlerts(ctx context.Context) ([]*model.StockAlert, error)
	ListAlertsByUser(ctx context.Context, userID string) ([]*model.StockAlert, error)
}
