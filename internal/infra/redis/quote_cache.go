// File: internal/infra/redis/quote_cache.go
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"discord-companion-bot/internal/domain/model"
	"discord-companion-bot/internal/domain/ports/adapter"
	"discord-companion-bot/internal/infra/metrics"
)

var _ adapter.QuoteCache = (*QuoteCache)(nil)

// QuoteCache keeps quotes warm for a short TTL so the alert sweeper and
// chatty users don't burn the provider budget.
type QuoteCache struct {
	client RedisClient
	ttl    time.Duration
}

func NewQuoteCache(client RedisClient, ttl time.Duration) *QuoteCache {
	return &QuoteCache{client: client, ttl: ttl}
}

func quoteKey(symbol string) string { return "quote:" + symbol }

func (c *QuoteCache) Get(ctx context.Context, symbol string) (*model.Quote, bool) {
	data, err := c.client.Get(ctx, quoteKey(symbol))
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			// Degraded cache is not an error for the caller.
			metrics.IncCacheRequest("quote", "error")
			return nil, false
		}
		metrics.IncCacheRequest("quote", "miss")
		return nil, false
	}
	var q model.Quote
	if err := json.Unmarshal([]byte(data), &q); err != nil {
		metrics.IncCacheRequest("quote", "error")
		return nil, false
	}
	metrics.IncCacheRequest("quote", "hit")
	return &q, true
}

func (c *QuoteCache) Set(ctx context.Context, q *model.Quote) {
	data, err := json.Marshal(q)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, quoteKey(q.Symbol), data, c.ttl)
}
