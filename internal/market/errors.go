package market

import (
	"fmt"
	"net/http"
)

// SourceError is a snapshot source that answered but could not be used.
type SourceError struct {
	Source string
	URL    string
	Status int
	Err    error
}

func (e *SourceError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: status %d %s", e.Source, e.URL, e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("%s %s: %v", e.Source, e.URL, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}
