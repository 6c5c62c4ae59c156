package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rickgao/findat/internal/api"
)

// DefaultQuoteURL is the Yahoo Finance quote endpoint.
const DefaultQuoteURL = "https://query1.finance.yahoo.com/v7/finance/quote"

type quoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			Symbol        string      `json:"symbol"`
			PreviousClose json.Number `json:"regularMarketPreviousClose"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteResponse"`
}

// PreviousCloses returns the previous close of every symbol. A symbol missing
// from the answer is an error.
func PreviousCloses(ctx context.Context, client *api.Client, endpoint string, symbols []string) (map[string]decimal.Decimal, error) {
	query := url.Values{}
	query.Set("symbols", strings.Join(symbols, ","))

	resp, err := client.Get(ctx, endpoint, query)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, &SourceError{Source: "quote", URL: endpoint, Status: resp.StatusCode}
	}

	var qr quoteResponse
	if err := json.Unmarshal(resp.Body, &qr); err != nil {
		return nil, &SourceError{Source: "quote", URL: endpoint, Err: fmt.Errorf("unmarshal response: %w", err)}
	}
	if e := qr.QuoteResponse.Error; e != nil {
		return nil, &SourceError{Source: "quote", URL: endpoint, Err: fmt.Errorf("%s: %s", e.Code, e.Description)}
	}

	closes := make(map[string]decimal.Decimal, len(symbols))
	for _, r := range qr.QuoteResponse.Result {
		if r.PreviousClose == "" {
			continue
		}
		d, err := decimal.NewFromString(r.PreviousClose.String())
		if err != nil {
			return nil, &SourceError{Source: "quote", URL: endpoint, Err: fmt.Errorf("%s previous close %q: %w", r.Symbol, r.PreviousClose, err)}
		}
		closes[r.Symbol] = d
	}

	var missing []string
	for _, s := range symbols {
		if _, ok := closes[s]; !ok {
			missing = append(missing, s)
		}
	}
	if len(missing) > 0 {
		return nil, &SourceError{Source: "quote", URL: endpoint, Err: errors.New("no previous close for " + strings.Join(missing, ", "))}
	}
	return closes, nil
}
