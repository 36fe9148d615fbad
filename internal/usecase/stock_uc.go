// File: internal/usecase/stock_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"discord-companion-bot/internal/domain"
	"discord-companion-bot/internal/domain/model"
	"discord-companion-bot/internal/domain/ports/adapter"
	"discord-companion-bot/internal/domain/ports/repository"
	"discord-companion-bot/internal/infra/metrics"
)

// AlertNotice reports a fired one-shot alert together with the quote that
// crossed the target.
type AlertNotice struct {
	Alert model.StockAlert
	Quote model.Quote
}

// StockUseCase serves quotes, tracked positions, and price alerts.
type StockUseCase interface {
	Quote(ctx context.Context, symbol string) (*model.Quote, error)
	SearchSymbols(ctx context.Context, query string) ([]model.SymbolMatch, error)

	Track(ctx context.Context, userID, symbol string, quantity, purchasePrice float64) error
	Untrack(ctx context.Context, userID, symbol string) error
	ListTracked(ctx context.Context, userID string) ([]*model.TrackedStock, error)

	SetAlert(ctx context.Context, userID, symbol string, dir model.AlertDirection, target float64) error
	ClearAlerts(ctx context.Context, userID, symbol string, dir model.AlertDirection) (int64, error)
	ListAlerts(ctx context.Context, userID string) ([]*model.StockAlert, error)

	// CheckAlerts evaluates every active alert against a live quote and
	// returns notices for the ones that crossed; fired alerts are
	// deactivated so they never fire twice.
	CheckAlerts(ctx context.Context) ([]AlertNotice, error)
}

type stockUC struct {
	providers []adapter.QuoteProvider // tried in order
	searcher  adapter.SymbolSearcher
	cache     adapter.QuoteCache
	repo      repository.StockRepository
	log       zerolog.Logger
	now       func() time.Time
}

var _ StockUseCase = (*stockUC)(nil)

func NewStockUseCase(providers []adapter.QuoteProvider, searcher adapter.SymbolSearcher, cache adapter.QuoteCache, repo repository.StockRepository, logger *zerolog.Logger) *stockUC {
	return &stockUC{
		providers: providers,
		searcher:  searcher,
		cache:     cache,
		repo:      repo,
		log:       logger.With().Str("component", "stock-uc").Logger(),
		now:       time.Now,
	}
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func (uc *stockUC) Quote(ctx context.Context, symbol string) (*model.Quote, error) {
	symbol = normalizeSymbol(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("%w: empty symbol", domain.ErrInvalidArgument)
	}

	if uc.cache != nil {
		if q, ok := uc.cache.Get(ctx, symbol); ok {
			return q, nil
		}
	}

	var lastErr error
	for _, p := range uc.providers {
		q, err := p.Quote(ctx, symbol)
		if err != nil {
			uc.log.Debug().Err(err).Str("provider", p.Name()).Str("symbol", symbol).Msg("quote provider failed")
			lastErr = err
			continue
		}
		if uc.cache != nil {
			uc.cache.Set(ctx, q)
		}
		return q, nil
	}
	if lastErr == nil {
		lastErr = domain.ErrQuoteUnavailable
	}
	if !errors.Is(lastErr, domain.ErrQuoteUnavailable) {
		lastErr = fmt.Errorf("%w: %v", domain.ErrQuoteUnavailable, lastErr)
	}
	return nil, lastErr
}

func (uc *stockUC) SearchSymbols(ctx context.Context, query string) ([]model.SymbolMatch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidArgument)
	}
	return uc.searcher.SearchSymbols(ctx, query)
}

func (uc *stockUC) Track(ctx context.Context, userID, symbol string, quantity, purchasePrice float64) error {
	symbol = normalizeSymbol(symbol)
	if userID == "" || symbol == "" {
		return fmt.Errorf("%w: user id and symbol required", domain.ErrInvalidArgument)
	}
	if quantity < 0 || purchasePrice < 0 {
		return fmt.Errorf("%w: quantity and purchase price must be non-negative", domain.ErrInvalidArgument)
	}
	// Validate against a live quote so typos don't land in the watchlist.
	if _, err := uc.Quote(ctx, symbol); err != nil {
		return err
	}
	return uc.repo.SaveTracked(ctx, &model.TrackedStock{
		UserID:        userID,
		Symbol:        symbol,
		Quantity:      quantity,
		PurchasePrice: purchasePrice,
		CreatedAt:     uc.now(),
	})
}

func (uc *stockUC) Untrack(ctx context.Context, userID, symbol string) error {
	return uc.repo.DeleteTracked(ctx, userID, normalizeSymbol(symbol))
}

func (uc *stockUC) ListTracked(ctx context.Context, userID string) ([]*model.TrackedStock, error) {
	return uc.repo.ListTrackedByUser(ctx, userID)
}

func (uc *stockUC) SetAlert(ctx context.Context, userID, symbol string, dir model.AlertDirection, target float64) error {
	symbol = normalizeSymbol(symbol)
	if userID == "" || symbol == "" {
		return fmt.Errorf("%w: user id and symbol required", domain.ErrInvalidArgument)
	}
	if dir != model.AlertAbove && dir != model.AlertBelow {
		return fmt.Errorf("%w: direction must be above or below", domain.ErrInvalidArgument)
	}
	if target <= 0 {
		return fmt.Errorf("%w: target must be positive", domain.ErrInvalidArgument)
	}
	return uc.repo.SaveAlert(ctx, &model.StockAlert{
		UserID:    userID,
		Symbol:    symbol,
		Direction: dir,
		Target:    target,
		Active:    true,
		CreatedAt: uc.now(),
	})
}

func (uc *stockUC) ClearAlerts(ctx context.Context, userID, symbol string, dir model.AlertDirection) (int64, error) {
	return uc.repo.DeleteAlerts(ctx, userID, normalizeSymbol(symbol), dir)
}

func (uc *stockUC) ListAlerts(ctx context.Context, userID string) ([]*model.StockAlert, error) {
	return uc.repo.ListAlertsByUser(ctx, userID)
}

func (uc *stockUC) CheckAlerts(ctx context.Context) ([]AlertNotice, error) {
	alerts, err := uc.repo.ListActiveAlerts(ctx)
	if err != nil {
		return nil, err
	}

	// One quote per distinct symbol per sweep.
	quotes := map[string]*model.Quote{}
	var notices []AlertNotice
	for _, a := range alerts {
		q, ok := quotes[a.Symbol]
		if !ok {
			q, err = uc.Quote(ctx, a.Symbol)
			if err != nil {
				uc.log.Warn().Err(err).Str("symbol", a.Symbol).Msg("alert sweep: quote failed")
				quotes[a.Symbol] = nil
				continue
			}
			quotes[a.Symbol] = q
		}
		if q == nil || !crossed(a, q.Price) {
			continue
		}
		if err := uc.repo.DeactivateAlert(ctx, a.ID); err != nil {
			uc.log.Warn().Err(err).Int64("alert_id", a.ID).Msg("alert sweep: deactivate failed")
			continue
		}
		metrics.IncAlertTriggered(string(a.Direction))
		notices = append(notices, AlertNotice{Alert: *a, Quote: *q})
	}
	return notices, nil
}

func crossed(a *model.StockAlert, price float64) bool {
	switch a.Direction {
	case model.AlertAbove:
		return price >= a.Target
	case model.AlertBelow:
		return price <= a.Target
	default:
		return false
	}
}
