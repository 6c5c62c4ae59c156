package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzerPolarity(t *testing.T) {
	a := NewAnalyzer(nil)

	tests := []struct {
		name string
		text string
		sign int
	}{
		{"positive", "This is a great company", 1},
		{"negative", "This is a terrible company", -1},
		{"neutral", "The company reports on Tuesday", 0},
		{"negated positive", "This is not great", -1},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := a.Score(tt.text)
			switch tt.sign {
			case 1:
				assert.Greater(t, s.Compound, 0.0)
			case -1:
				assert.Less(t, s.Compound, 0.0)
			default:
				assert.Zero(t, s.Compound)
			}
			assert.GreaterOrEqual(t, s.Compound, -1.0)
			assert.LessOrEqual(t, s.Compound, 1.0)
		})
	}
}

func TestAnalyzerSharesSumToOne(t *testing.T) {
	s := NewAnalyzer(nil).Score("Great earnings but the guidance was bad")
	assert.InDelta(t, 1.0, s.Positive+s.Neutral+s.Negative, 0.002)
}

func TestAnalyzerIntensifiers(t *testing.T) {
	a := NewAnalyzer(nil)
	plain := a.Score("the results are good").Compound

	assert.Greater(t, a.Score("the results are very good").Compound, plain, "booster")
	assert.Greater(t, a.Score("the results are GOOD").Compound, plain, "caps emphasis")
	assert.Greater(t, a.Score("the results are good!!").Compound, plain, "exclamation")
}

func TestAnalyzerButShiftsWeight(t *testing.T) {
	a := NewAnalyzer(nil)
	assert.Less(t, a.Score("the product is good but the management is bad").Compound, 0.0)
	assert.Greater(t, a.Score("the management is bad but the product is good").Compound, 0.0)
}

func TestAnalyzerOverrides(t *testing.T) {
	base := NewAnalyzer(nil)
	_, ok := base.Valence("moon")
	assert.False(t, ok)

	overrides := DefaultOverrides()
	a := NewAnalyzer(overrides)

	v, ok := a.Valence("moon")
	assert.True(t, ok)
	assert.Equal(t, DefaultWordValence, v)

	v, _ = a.Valence("sell")
	assert.Equal(t, -DefaultWordValence, v)

	// the analyzer keeps its own copy
	overrides["moon"] = -1
	v, _ = a.Valence("moon")
	assert.Equal(t, DefaultWordValence, v)

	assert.Greater(t, a.Score("GME to the moon").Compound, 0.0)
	assert.Less(t, a.Score("time to sell everything").Compound, 0.0)
}

func TestWordValences(t *testing.T) {
	got := WordValences("buy hold", "sell hold", 2)
	assert.Equal(t, map[string]float64{"buy": 2, "sell": -2, "hold": -2}, got)
}
