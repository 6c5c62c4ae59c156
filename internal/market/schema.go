package market

import "github.com/rickgao/findat/internal/model"

// Ticker maps a store column to a quote symbol.
type Ticker struct {
	Column string `yaml:"column"`
	Symbol string `yaml:"symbol"`
}

// DefaultTickers are the quoted columns of the market store.
var DefaultTickers = []Ticker{
	{Column: "SP500", Symbol: "^GSPC"},
	{Column: "ACWI", Symbol: "ACWI"},
	{Column: "VIX", Symbol: "^VIX"},
	{Column: "VIX3M", Symbol: "^VIX3M"},
}

// Ratio maps a store column to a row name of the CBOE table.
type Ratio struct {
	Column string
	Name   string
}

// Ratios are the CBOE put/call rows kept in the store.
var Ratios = []Ratio{
	{Column: "TOTAL_PCR", Name: "TOTAL PUT/CALL RATIO"},
	{Column: "INDEX_PCR", Name: "INDEX PUT/CALL RATIO"},
	{Column: "EQUITY_PCR", Name: "EQUITY PUT/CALL RATIO"},
	{Column: "VIX_PCR", Name: "CBOE VOLATILITY INDEX (VIX) PUT/CALL RATIO"},
}

// FearGreedColumn holds the fear & greed reading.
const FearGreedColumn = "FEAR_AND_GREED"

// Schema returns the market store layout for tickers, keyed by Date.
func Schema(tickers []Ticker) model.Schema {
	cols := []model.Column{{Name: "Date", Type: model.TypeTime}}
	for _, t := range tickers {
		cols = append(cols, model.Column{Name: t.Column, Type: model.TypeFloat})
	}
	for _, r := range Ratios {
		cols = append(cols, model.Column{Name: r.Column, Type: model.TypeFloat})
	}
	cols = append(cols, model.Column{Name: FearGreedColumn, Type: model.TypeInt})
	return model.NewSchema("Date", cols...)
}
