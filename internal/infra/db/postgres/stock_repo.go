// File: internal/infra/db/postgres/stock_repo.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"discord-companion-bot/internal/domain"
	"discord-companion-bot/internal/domain/model"
	"discord-companion-bot/internal/domain/ports/repository"
)

// Ensure interface compliance
var _ repository.StockRepository = (*StockRepo)(nil)

type StockRepo struct {
	pool *pgxpool.Pool
}

func NewStockRepo(pool *pgxpool.Pool) *StockRepo {
	return &StockRepo{pool: pool}
}

func (r *StockRepo) SaveTracked(ctx context.Context, t *model.TrackedStock) error {
	const sql = `
INSERT INTO tracked_stocks (user_id, symbol, quantity, purchase_price, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (user_id, symbol) DO UPDATE
  SET quantity       = EXCLUDED.quantity,
      purchase_price = EXCLUDED.purchase_price;
`
	_, err := r.pool.Exec(ctx, sql, t.UserID, t.Symbol, t.Quantity, t.PurchasePrice, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("SaveTracked: %w", err)
	}
	return nil
}

func (r *StockRepo) DeleteTracked(ctx context.Context, userID, symbol string) error {
	const sql = `DELETE FROM tracked_stocks WHERE user_id = $1 AND symbol = $2;`
	ct, err := r.pool.Exec(ctx, sql, userID, symbol)
	if err != nil {
		return fmt.Errorf("DeleteTracked: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *StockRepo) ListTrackedByUser(ctx context.Context, userID string) ([]*model.TrackedStock, error) {
	const sql = `
SELECT user_id, symbol, quantity, purchase_price, created_at
  FROM tracked_stocks
 WHERE user_id = $1
 ORDER BY symbol;
`
	rows, err := r.pool.Query(ctx, sql, userID)
	if err != nil {
		return nil, fmt.Errorf("ListTrackedByUser: %w", err)
	}
	defer rows.Close()
	var out []*model.TrackedStock
	for rows.Next() {
		var t model.TrackedStock
		if err := rows.Scan(&t.UserID, &t.Symbol, &t.Quantity, &t.PurchasePrice, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

func (r *StockRepo) SaveAlert(ctx context.Context, a *model.StockAlert) error {
	const sql = `
INSERT INTO stock_alerts (user_id, symbol, direction, target, active, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id;
`
	err := r.pool.QueryRow(ctx, sql, a.UserID, a.Symbol, string(a.Direction), a.Target, a.Active, a.CreatedAt).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("SaveAlert: %w", err)
	}
	return nil
}

func (r *StockRepo) DeactivateAlert(ctx context.Context, id int64) error {
	const sql = `UPDATE stock_alerts SET active = false WHERE id = $1 AND active;`
	ct, err := r.pool.Exec(ctx, sql, id)
	if err != nil {
		return fmt.Errorf("DeactivateAlert: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *StockRepo) DeleteAlerts(ctx context.Context, userID, symbol string, dir model.AlertDirection) (int64, error) {
	sql := `DELETE FROM stock_alerts WHERE user_id = $1 AND symbol = $2`
	args := []any{userID, symbol}
	if dir != "" {
		sql += ` AND direction = $3`
		args = append(args, string(dir))
	}
	ct, err := r.pool.Exec(ctx, sql+";", args...)
	if err != nil {
		return 0, fmt.Errorf("DeleteAlerts: %w", err)
	}
	return ct.RowsAffected(), nil
}

func (r *StockRepo) ListActiveAlerts(ctx context.Context) ([]*model.StockAlert, error) {
	const sql = `
SELECT id, user_id, symbol, direction, target, active, created_at
  FROM stock_alerts
 WHERE active
 ORDER BY symbol;
`
	return r.scanAlerts(ctx, sql)
}

func (r *StockRepo) ListAlertsByUser(ctx context.Context, userID string) ([]*model.StockAlert, error) {
	const sql = `
SELECT id, user_id, symbol, direction, target, active, created_at
  FROM stock_alerts
 WHERE user_id = $1
 ORDER BY created_at;
`
	return r.scanAlerts(ctx, sql, userID)
}

func (r *StockRepo) scanAlerts(ctx context.Context, sql string, args ...any) ([]*model.StockAlert, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query stock_alerts: %w", err)
	}
	defer rows.Close()
	var out []*model.StockAlert
	for rows.Next() {
		var a model.StockAlert
		var dir string
		if err := rows.Scan(&a.ID, &a.UserID, &a.Symbol, &dir, &a.Target, &a.Active, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Direction = model.AlertDirection(dir)
		out = append(out, &a)
	}
	return out, rows.Err()
}
