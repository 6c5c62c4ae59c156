package sentiment

import (
	"math"
	"strings"
	"unicode"
)

const (
	capIncrement   = 0.733
	negationScalar = -0.74
	exclaimWeight  = 0.292
	maxExclaims    = 4
	normAlpha      = 15.0
)

// Scores are the polarity shares of a text and its normalized compound score
// in [-1, 1].
type Scores struct {
	Positive float64
	Neutral  float64
	Negative float64
	Compound float64
}

// Scorer rates the sentiment of a text.
type Scorer interface {
	Score(text string) Scores
}

// Analyzer is a valence lexicon scorer. Its lexicon is fixed at construction.
type Analyzer struct {
	lexicon map[string]float64
}

// NewAnalyzer builds an analyzer from the base lexicon with overrides applied
// on top. overrides is copied and may be reused by the caller.
func NewAnalyzer(overrides map[string]float64) *Analyzer {
	lex := make(map[string]float64, len(baseLexicon)+len(overrides))
	for w, v := range baseLexicon {
		lex[w] = v
	}
	for w, v := range overrides {
		lex[strings.ToLower(w)] = v
	}
	return &Analyzer{lexicon: lex}
}

// Valence returns the lexicon entry for word.
func (a *Analyzer) Valence(word string) (float64, bool) {
	v, ok := a.lexicon[strings.ToLower(word)]
	return v, ok
}

type token struct {
	raw   string
	lower string
}

// Score rates text.
func (a *Analyzer) Score(text string) Scores {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return Scores{}
	}
	capDiff := mixedCase(tokens)

	valences := make([]float64, len(tokens))
	for i, tok := range tokens {
		if _, ok := boosters[tok.lower]; ok {
			continue
		}
		v, ok := a.lexicon[tok.lower]
		if !ok {
			continue
		}
		if capDiff && isShouting(tok.raw) {
			v += math.Copysign(capIncrement, v)
		}

		for j := 1; j <= 3 && i-j >= 0; j++ {
			prev := tokens[i-j]
			if b, ok := boosters[prev.lower]; ok {
				s := b
				if v < 0 {
					s = -s
				}
				if capDiff && isShouting(prev.raw) {
					s += math.Copysign(capIncrement, v)
				}
				switch j {
				case 2:
					s *= 0.95
				case 3:
					s *= 0.9
				}
				v += s
			}
			if negated(prev.lower) {
				v *= negationScalar
			}
		}
		valences[i] = v
	}

	applyBut(tokens, valences)
	return summarize(valences, strings.Count(text, "!"))
}

// applyBut damps sentiment before a "but" and amplifies it after.
func applyBut(tokens []token, valences []float64) {
	at := -1
	for i, tok := range tokens {
		if tok.lower == "but" {
			at = i
			break
		}
	}
	if at < 0 {
		return
	}
	for i := range valences {
		switch {
		case i < at:
			valences[i] *= 0.5
		case i > at:
			valences[i] *= 1.5
		}
	}
}

func summarize(valences []float64, exclaims int) Scores {
	emphasis := float64(min(exclaims, maxExclaims)) * exclaimWeight

	var sum, pos, neg, neu float64
	for _, v := range valences {
		sum += v
		switch {
		case v > 0:
			pos += v + 1
		case v < 0:
			neg += v - 1
		default:
			neu++
		}
	}
	if sum > 0 {
		sum += emphasis
	} else if sum < 0 {
		sum -= emphasis
	}

	if pos > math.Abs(neg) {
		pos += emphasis
	} else if pos < math.Abs(neg) {
		neg -= emphasis
	}

	total := pos + math.Abs(neg) + neu
	if total == 0 {
		return Scores{}
	}
	return Scores{
		Positive: round(math.Abs(pos/total), 3),
		Neutral:  round(math.Abs(neu/total), 3),
		Negative: round(math.Abs(neg/total), 3),
		Compound: round(normalize(sum), 4),
	}
}

func normalize(score float64) float64 {
	n := score / math.Sqrt(score*score+normAlpha)
	return math.Max(-1, math.Min(1, n))
}

func round(f float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(f*p) / p
}

func tokenize(text string) []token {
	fields := strings.Fields(text)
	out := make([]token, 0, len(fields))
	for _, f := range fields {
		raw := strings.TrimFunc(f, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if len([]rune(raw)) < 2 && !strings.EqualFold(raw, "i") {
			continue
		}
		lower := strings.ToLower(raw)
		out = append(out, token{raw: raw, lower: strings.ReplaceAll(lower, "'", "")})
	}
	return out
}

func negated(word string) bool {
	_, ok := negations[word]
	return ok
}

func isShouting(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

func mixedCase(tokens []token) bool {
	var upper, other bool
	for _, t := range tokens {
		if isShouting(t.raw) {
			upper = true
		} else {
			other = true
		}
	}
	return upper && other
}
