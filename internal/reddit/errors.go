package reddit

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/rickgao/findat/internal/backfill"
)

// ErrPageLimitExceeded is returned when a window needs more pages than its
// bound allows.
var ErrPageLimitExceeded = errors.New("page limit exceeded")

// PermanentQueryError is a non-200 answer that retrying will not fix.
type PermanentQueryError struct {
	Status int
	URL    string
}

func (e *PermanentQueryError) Error() string {
	return fmt.Sprintf("pushshift query %s: status %d %s", e.URL, e.Status, http.StatusText(e.Status))
}

// FetchError aborts a whole window. No partial batch is returned with it.
type FetchError struct {
	Query  string
	Window backfill.Window
	Pages  int
	Cause  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %q %s aborted after %d pages: %v", e.Query, e.Window, e.Pages, e.Cause)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}
