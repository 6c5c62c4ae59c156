package market

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"

	"github.com/rickgao/findat/internal/api"
)

// DefaultCBOEURL is the CBOE daily market statistics page.
const DefaultCBOEURL = "https://markets.cboe.com/us/options/market_statistics/daily/"

// PutCallRatios reads the first table of the CBOE statistics page as
// name/ratio rows and returns the ratios keyed by upper-cased row name.
func PutCallRatios(ctx context.Context, client *api.Client, endpoint string) (map[string]decimal.Decimal, error) {
	resp, err := client.Get(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, &SourceError{Source: "cboe", URL: endpoint, Status: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, &SourceError{Source: "cboe", URL: endpoint, Err: fmt.Errorf("parse html: %w", err)}
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, &SourceError{Source: "cboe", URL: endpoint, Err: fmt.Errorf("no table on page")}
	}

	ratios := make(map[string]decimal.Decimal)
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		name := strings.ToUpper(strings.Join(strings.Fields(cells.Eq(0).Text()), " "))
		d, err := decimal.NewFromString(strings.TrimSpace(cells.Eq(1).Text()))
		if err != nil {
			return
		}
		ratios[name] = d
	})
	return ratios, nil
}
