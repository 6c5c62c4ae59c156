package backfill

import (
	"fmt"
	"time"

	"github.com/rickgao/findat/internal/model"
)

// Window is the half-open interval [Start, End) of one fetch.
type Window struct {
	Start time.Time
	End   time.Time
}

// DayWindow returns the window covering the calendar day of date in date's
// location.
func DayWindow(date time.Time) Window {
	start := midnight(date)
	return Window{Start: start, End: start.AddDate(0, 0, 1)}
}

// Date returns the calendar day the window starts on.
func (w Window) Date() time.Time {
	return midnight(w.Start)
}

func (w Window) String() string {
	return fmt.Sprintf("[%s, %s)", model.FormatTime(w.Start), model.FormatTime(w.End))
}

// Dates returns every calendar day from start to end inclusive.
func Dates(start, end time.Time) []time.Time {
	start, end = midnight(start), midnight(end.In(start.Location()))
	var out []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
