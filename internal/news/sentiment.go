package news

import "strings"

const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Polarity thresholds: scores inside (-0.1, 0.1) are neutral.
const polarityThreshold = 0.1

// Lexicons for headline-scale sentiment scoring. Financial news leans on a
// fairly narrow vocabulary, so word lists go a long way at this text length.
var positiveWords = map[string]struct{}{
	"beat": {}, "beats": {}, "strong": {}, "strength": {}, "growth": {},
	"surge": {}, "surges": {}, "surged": {}, "rally": {}, "rallies": {},
	"record": {}, "gain": {}, "gains": {}, "gained": {}, "profit": {},
	"profitable": {}, "upgrade": {}, "upgraded": {}, "outperform": {},
	"bullish": {}, "optimistic": {}, "positive": {}, "soar": {}, "soars": {},
	"soared": {}, "jump": {}, "jumps": {}, "jumped": {}, "boost": {},
	"boosts": {}, "boosted": {}, "exceed": {}, "exceeds": {}, "exceeded": {},
	"win": {}, "wins": {}, "success": {}, "successful": {}, "expand": {},
	"expands": {}, "expansion": {}, "breakthrough": {}, "momentum": {},
	"confidence": {}, "recovery": {}, "rebound": {}, "rebounds": {},
}

var negativeWords = map[string]struct{}{
	"miss": {}, "misses": {}, "missed": {}, "weak": {}, "weakness": {},
	"decline": {}, "declines": {}, "declined": {}, "drop": {}, "drops": {},
	"dropped": {}, "fall": {}, "falls": {}, "fell": {}, "loss": {},
	"losses": {}, "downgrade": {}, "downgraded": {}, "underperform": {},
	"bearish": {}, "pessimistic": {}, "negative": {}, "plunge": {},
	"plunges": {}, "plunged": {}, "slump": {}, "slumps": {}, "slumped": {},
	"cut": {}, "cuts": {}, "warning": {}, "warns": {}, "warned": {},
	"lawsuit": {}, "investigation": {}, "recall": {}, "recalls": {},
	"layoff": {}, "layoffs": {}, "bankruptcy": {}, "fraud": {}, "crash": {},
	"crisis": {}, "concern": {}, "concerns": {}, "risk": {}, "risks": {},
	"volatile": {}, "volatility": {}, "fine": {}, "fined": {}, "penalty": {},
}

// ClassifySentiment scores text polarity in [-1, 1] from lexicon hits and
// maps it to positive/negative/neutral.
func ClassifySentiment(text string) string {
	polarity := Polarity(text)
	switch {
	case polarity > polarityThreshold:
		return SentimentPositive
	case polarity < -polarityThreshold:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// Polarity returns (positive hits - negative hits) / total hits, or 0 when
// no lexicon word appears.
func Polarity(text string) float64 {
	var pos, neg int
	for _, word := range tokenize(text) {
		if _, ok := positiveWords[word]; ok {
			pos++
		}
		if _, ok := negativeWords[word]; ok {
			neg++
		}
	}
	total := pos + neg
	if total == 0 {
		return 0
	}
	return float64(pos-neg) / float64(total)
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
}
