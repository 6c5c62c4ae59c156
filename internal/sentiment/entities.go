package sentiment

import (
	"regexp"
	"strings"
	"unicode"
)

// DefaultBlacklist lists organizations that are mentioned constantly without
// carrying an opinion on a security.
var DefaultBlacklist = []string{"WSB", "Robinhood", "SEC", "Fed", "CNBC", "Citadel", "RH", "FDA", "Fidelity", "Reddit"}

// EntityRecognizer finds organization mentions in a text.
type EntityRecognizer interface {
	Organizations(text string) []string
}

var (
	cashtag   = regexp.MustCompile(`\$([A-Za-z]{1,5})\b`)
	capsToken = regexp.MustCompile(`\b[A-Z]{2,5}\b`)
)

// commonCaps are all-caps tokens that are not organizations.
var commonCaps = map[string]struct{}{
	"I": {}, "A": {}, "OK": {}, "LOL": {}, "LMAO": {}, "YOLO": {}, "IMO": {}, "IMHO": {},
	"DD": {}, "TA": {}, "ATH": {}, "EOD": {}, "EOW": {}, "IPO": {}, "CEO": {}, "CFO": {},
	"USA": {}, "US": {}, "UK": {}, "EU": {}, "GDP": {}, "CPI": {}, "THE": {}, "AND": {},
	"FOR": {}, "NOT": {}, "BUY": {}, "SELL": {}, "HOLD": {}, "MOON": {}, "PUT": {}, "PUTS": {},
	"CALL": {}, "ALL": {}, "IN": {}, "IT": {}, "IS": {}, "TO": {}, "OF": {}, "ON": {},
	"OR": {}, "MY": {}, "ME": {}, "AM": {}, "PM": {}, "ITM": {}, "OTM": {}, "FOMO": {},
	"FUD": {}, "HODL": {}, "TLDR": {}, "EDIT": {}, "WTF": {}, "OMG": {}, "BE": {}, "SO": {},
}

// TickerRecognizer treats cashtags, all-caps tickers and a list of known names
// as organizations.
type TickerRecognizer struct {
	known []string
}

// NewTickerRecognizer returns a recognizer that also matches the given names
// case-insensitively.
func NewTickerRecognizer(known ...string) *TickerRecognizer {
	return &TickerRecognizer{known: known}
}

// Organizations returns the distinct organizations mentioned in text, in
// order of first mention.
func (r *TickerRecognizer) Organizations(text string) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(name string) {
		key := strings.ToUpper(name)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}

	for _, m := range cashtag.FindAllStringSubmatch(text, -1) {
		add(strings.ToUpper(m[1]))
	}
	for _, m := range capsToken.FindAllString(text, -1) {
		if _, common := commonCaps[m]; !common {
			add(m)
		}
	}
	lower := strings.ToLower(text)
	for _, name := range r.known {
		if name != "" && containsWord(lower, strings.ToLower(name)) {
			add(name)
		}
	}
	return out
}

func containsWord(text, word string) bool {
	for from := 0; ; {
		i := strings.Index(text[from:], word)
		if i < 0 {
			return false
		}
		start, end := from+i, from+i+len(word)
		if (start == 0 || !isWordByte(text[start-1])) && (end == len(text) || !isWordByte(text[end])) {
			return true
		}
		from = start + 1
	}
}

func isWordByte(b byte) bool {
	return b == '_' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

// StripEmoji removes emoji and pictographic symbols.
func StripEmoji(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == 0x200D, r == 0xFE0F, r == 0xFE0E:
			return -1
		case r >= 0x1F000 && r <= 0x1FAFF:
			return -1
		case r >= 0x2600 && r <= 0x27BF:
			return -1
		case r >= 0x1F1E6 && r <= 0x1F1FF:
			return -1
		case unicode.Is(unicode.So, r):
			return -1
		}
		return r
	}, s)
}

// blacklist matches organization names case-insensitively.
type blacklist map[string]struct{}

func newBlacklist(names []string) blacklist {
	b := make(blacklist, len(names))
	for _, n := range names {
		b[strings.ToLower(n)] = struct{}{}
	}
	return b
}

func (b blacklist) allows(name string) bool {
	_, banned := b[strings.ToLower(name)]
	return !banned
}
