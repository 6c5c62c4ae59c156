package sentiment

import "strings"

// Finance word lists applied on top of the base lexicon.
const (
	DefaultPositiveWords = "buy bull long support undervalued underpriced cheap upward rising trend moon rocket hold hodl breakout call beat support buying holding high profit stonks yolo"
	DefaultNegativeWords = "sell bear bubble bearish short overvalued overbought overpriced expensive downward falling sold sell low put miss resistance squeeze cover seller loss"

	// DefaultWordValence is the weight given to every word of the lists.
	DefaultWordValence = 5.0
)

// WordValences assigns +valence to every positive word and -valence to every
// negative word. A word in both lists ends up negative.
func WordValences(positive, negative string, valence float64) map[string]float64 {
	out := make(map[string]float64)
	for _, w := range strings.Fields(positive) {
		out[strings.ToLower(w)] = valence
	}
	for _, w := range strings.Fields(negative) {
		out[strings.ToLower(w)] = -valence
	}
	return out
}

// DefaultOverrides returns the finance word lists at DefaultWordValence.
func DefaultOverrides() map[string]float64 {
	return WordValences(DefaultPositiveWords, DefaultNegativeWords, DefaultWordValence)
}

// baseLexicon is a compact general-purpose valence table on a -4..4 scale.
var baseLexicon = map[string]float64{
	"good": 1.9, "great": 3.1, "excellent": 3.2, "amazing": 2.8, "awesome": 3.1,
	"nice": 1.8, "love": 3.2, "like": 1.5, "happy": 2.7, "win": 2.8, "winning": 2.4,
	"gain": 2.4, "gains": 2.4, "strong": 2.3, "best": 3.2, "better": 1.9, "glad": 2.0,
	"wow": 2.8, "lol": 1.8, "haha": 2.0, "fun": 2.3, "safe": 1.9, "free": 1.5,
	"bad": -2.5, "terrible": -2.1, "awful": -2.0, "horrible": -2.5, "worst": -3.1,
	"worse": -2.1, "hate": -2.7, "lose": -1.8, "losing": -1.6, "lost": -1.3,
	"fear": -2.2, "scared": -1.9, "panic": -2.3, "crash": -1.7, "dump": -1.6,
	"fail": -2.5, "failed": -2.3, "weak": -1.9, "sad": -2.1, "angry": -2.3,
	"risk": -1.1, "risky": -1.4, "scam": -2.5, "fraud": -2.8, "broke": -1.8,
	"worthless": -1.9, "rip": -1.3, "pain": -2.3, "dead": -3.3, "wrong": -2.1,
	"stupid": -2.4, "trash": -2.7, "garbage": -2.2, "problem": -1.7,
}

// boosters scale the next sentiment word.
var boosters = map[string]float64{
	"absolutely": 0.293, "completely": 0.293, "extremely": 0.293, "hugely": 0.293,
	"incredibly": 0.293, "really": 0.293, "so": 0.293, "totally": 0.293, "very": 0.293,
	"super": 0.293, "most": 0.293, "more": 0.293,
	"barely": -0.293, "hardly": -0.293, "kinda": -0.293, "slightly": -0.293,
	"somewhat": -0.293, "little": -0.293, "less": -0.293,
}

var negations = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "none": {}, "nobody": {}, "nothing": {},
	"neither": {}, "nor": {}, "without": {}, "cannot": {}, "cant": {}, "dont": {},
	"doesnt": {}, "didnt": {}, "isnt": {}, "arent": {}, "wasnt": {}, "wont": {},
	"shouldnt": {}, "wouldnt": {}, "couldnt": {}, "aint": {},
}
