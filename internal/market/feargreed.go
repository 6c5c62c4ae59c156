package market

import (
	"context"
	"errors"
	"regexp"
	"strconv"

	"github.com/rickgao/findat/internal/api"
)

// DefaultFearGreedURL is the CNN fear & greed page.
const DefaultFearGreedURL = "https://money.cnn.com/data/fear-and-greed/"

var greedNow = regexp.MustCompile(`Greed Now: (\d{1,2})`)

// FearGreed reads the current fear & greed index from the page.
func FearGreed(ctx context.Context, client *api.Client, endpoint string) (int64, error) {
	resp, err := client.Get(ctx, endpoint, nil)
	if err != nil {
		return 0, err
	}
	if !resp.OK() {
		return 0, &SourceError{Source: "fear_greed", URL: endpoint, Status: resp.StatusCode}
	}

	m := greedNow.FindSubmatch(resp.Body)
	if m == nil {
		return 0, &SourceError{Source: "fear_greed", URL: endpoint, Err: errors.New("indicator not found on page")}
	}
	return strconv.ParseInt(string(m[1]), 10, 64)
}
