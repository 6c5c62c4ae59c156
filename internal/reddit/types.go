package reddit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Cursor is a Unix-seconds watermark on created_utc.
type Cursor int64

// CursorFromTime converts t to a cursor.
func CursorFromTime(t time.Time) Cursor {
	return Cursor(t.Unix())
}

// Time returns the cursor as a UTC time.
func (c Cursor) Time() time.Time {
	return time.Unix(int64(c), 0).UTC()
}

func (c Cursor) String() string {
	return strconv.FormatInt(int64(c), 10)
}

// UnmarshalJSON accepts integer and float timestamps.
func (c *Cursor) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if string(b) == "null" || len(b) == 0 {
		*c = 0
		return nil
	}
	if i, err := strconv.ParseInt(string(b), 10, 64); err == nil {
		*c = Cursor(i)
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("invalid created_utc %q", b)
	}
	*c = Cursor(int64(f))
	return nil
}

// Submission is one Pushshift submission.
type Submission struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Selftext    *string `json:"selftext"`
	NumComments int64   `json:"num_comments"`
	Score       int64   `json:"score"`
	CreatedUTC  Cursor  `json:"created_utc"`
	Subreddit   string  `json:"subreddit"`
}

// Text returns the self text, or "" when the field was absent.
func (s Submission) Text() string {
	if s.Selftext == nil {
		return ""
	}
	return *s.Selftext
}

// Comment is one Pushshift comment.
type Comment struct {
	ID         string `json:"id"`
	Body       string `json:"body"`
	Score      int64  `json:"score"`
	CreatedUTC Cursor `json:"created_utc"`
}

type submissionsResponse struct {
	Data []Submission `json:"data"`
}

type commentsResponse struct {
	Data []Comment `json:"data"`
}

type countResponse struct {
	Metadata struct {
		TotalResults json.Number `json:"total_results"`
	} `json:"metadata"`
}
