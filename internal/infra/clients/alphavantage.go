// File: internal/infra/clients/alphavantage.go
package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"discord-companion-bot/internal/domain"
	"discord-companion-bot/internal/domain/model"
	"discord-companion-bot/internal/domain/ports/adapter"
)

const alphaVantageBaseURL = "https://www.alphavantage.co/query"

var _ adapter.QuoteProvider = (*AlphaVantageClient)(nil)

// AlphaVantageClient serves quotes from the free GLOBAL_QUOTE endpoint.
// The free tier is tightly throttled; treat its "Note" payload as a rate
// limit so the caller falls through to the next provider.
type AlphaVantageClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewAlphaVantageClient(apiKey string) *AlphaVantageClient {
	return &AlphaVantageClient{apiKey: apiKey, baseURL: alphaVantageBaseURL, client: newHTTPClient()}
}

func (a *AlphaVantageClient) Name() string { return "alphavantage" }

type alphaVantageGlobalQuote struct {
	GlobalQuote struct {
		Symbol        string `json:"01. symbol"`
		Price         string `json:"05. price"`
		Volume        string `json:"06. volume"`
		Change        string `json:"09. change"`
		ChangePercent string `json:"10. change percent"`
	} `json:"Global Quote"`
	Note        string `json:"Note"`
	Information string `json:"Information"`
}

func (a *AlphaVantageClient) Quote(ctx context.Context, symbol string) (*model.Quote, error) {
	params := url.Values{
		"function": {"GLOBAL_QUOTE"},
		"symbol":   {symbol},
		"apikey":   {a.apiKey},
	}
	var resp alphaVantageGlobalQuote
	if err := getJSON(ctx, a.client, a.baseURL+"?"+params.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrQuoteUnavailable, err)
	}
	if resp.Note != "" || resp.Information != "" {
		return nil, fmt.Errorf("%w: alphavantage throttled", domain.ErrRateLimited)
	}
	gq := resp.GlobalQuote
	if gq.Symbol == "" || gq.Price == "" {
		return nil, fmt.Errorf("%w: no data for %s", domain.ErrQuoteUnavailable, symbol)
	}

	price, err := strconv.ParseFloat(gq.Price, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad price %q", domain.ErrQuoteUnavailable, gq.Price)
	}
	change, _ := strconv.ParseFloat(gq.Change, 64)
	pct, _ := strconv.ParseFloat(strings.TrimSuffix(gq.ChangePercent, "%"), 64)
	volume, _ := strconv.ParseInt(gq.Volume, 10, 64)

	return &model.Quote{
		Symbol:        gq.Symbol,
		Price:         price,
		Change:        change,
		ChangePercent: pct,
		Volume:        volume,
		Currency:      "USD",
		Source:        a.Name(),
		AsOf:          time.Now().UTC(),
	}, nil
}
