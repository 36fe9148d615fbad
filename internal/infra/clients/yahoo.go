// File: internal/infra/clients/yahoo.go
package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"discord-companion-bot/internal/domain"
	"discord-companion-bot/internal/domain/model"
	"discord-companion-bot/internal/domain/ports/adapter"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

var (
	_ adapter.QuoteProvider  = (*YahooFinanceClient)(nil)
	_ adapter.SymbolSearcher = (*YahooFinanceClient)(nil)
)

// YahooFinanceClient is the keyless fallback quote source and the symbol
// search backend.
type YahooFinanceClient struct {
	baseURL string
	client  *http.Client
}

func NewYahooFinanceClient() *YahooFinanceClient {
	return &YahooFinanceClient{baseURL: yahooBaseURL, client: newHTTPClient()}
}

func (y *YahooFinanceClient) Name() string { return "yahoo" }

type yahooQuoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			Symbol                     string  `json:"symbol"`
			RegularMarketPrice         float64 `json:"regularMarketPrice"`
			RegularMarketChange        float64 `json:"regularMarketChange"`
			RegularMarketChangePercent float64 `json:"regularMarketChangePercent"`
			RegularMarketVolume        int64   `json:"regularMarketVolume"`
			Currency                   string  `json:"currency"`
		} `json:"result"`
	} `json:"quoteResponse"`
}

func (y *YahooFinanceClient) Quote(ctx context.Context, symbol string) (*model.Quote, error) {
	u := y.baseURL + "/v7/finance/quote?" + url.Values{"symbols": {symbol}}.Encode()
	header := http.Header{"User-Agent": {"Mozilla/5.0 (compatible; companion-bot)"}}

	var resp yahooQuoteResponse
	if err := getJSON(ctx, y.client, u, header, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrQuoteUnavailable, err)
	}
	if len(resp.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("%w: no data for %s", domain.ErrQuoteUnavailable, symbol)
	}
	r := resp.QuoteResponse.Result[0]
	if r.RegularMarketPrice == 0 {
		return nil, fmt.Errorf("%w: no price for %s", domain.ErrQuoteUnavailable, symbol)
	}
	return &model.Quote{
		Symbol:        r.Symbol,
		Price:         r.RegularMarketPrice,
		Change:        r.RegularMarketChange,
		ChangePercent: r.RegularMarketChangePercent,
		Volume:        r.RegularMarketVolume,
		Currency:      r.Currency,
		Source:        y.Name(),
		AsOf:          time.Now().UTC(),
	}, nil
}

type yahooSearchResponse struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		ShortName string `json:"shortname"`
		Exchange  string `json:"exchange"`
	} `json:"quotes"`
}

func (y *YahooFinanceClient) SearchSymbols(ctx context.Context, query string) ([]model.SymbolMatch, error) {
	u := y.baseURL + "/v1/finance/search?" + url.Values{"q": {query}}.Encode()
	header := http.Header{"User-Agent": {"Mozilla/5.0 (compatible; companion-bot)"}}

	var resp yahooSearchResponse
	if err := getJSON(ctx, y.client, u, header, &resp); err != nil {
		return nil, err
	}
	out := make([]model.SymbolMatch, 0, len(resp.Quotes))
	for _, q := range resp.Quotes {
		if q.Symbol == "" {
			continue
		}
		out = append(out, model.SymbolMatch{Symbol: q.Symbol, Name: q.ShortName, Exchange: q.Exchange})
	}
	return out, nil
}
