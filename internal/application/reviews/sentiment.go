package reviews

import (
	"strings"
	"sync"

	"github.com/jonreiter/govader"
)

const (
	LabelPositive = "Positive"
	LabelNegative = "Negative"
	LabelNeutral  = "Neutral"

	positiveThreshold = 0.05
	negativeThreshold = -0.05
)

// Scorer returns a compound polarity score in [-1, 1] for a piece of text.
type Scorer interface {
	Score(text string) float64
}

// ScorerFunc adapts a plain function to Scorer.
type ScorerFunc func(string) float64

func (f ScorerFunc) Score(text string) float64 { return f(text) }

// Classify maps a compound score to its label.
// Scores at or above 0.05 are positive, at or below -0.05 negative.
func Classify(score float64) string {
	switch {
	case score >= positiveThreshold:
		return LabelPositive
	case score <= negativeThreshold:
		return LabelNegative
	default:
		return LabelNeutral
	}
}

// Analyze scores text and returns both label and score.
func Analyze(s Scorer, text string) (string, float64) {
	score := s.Score(text)
	return Classify(score), score
}

// VaderScorer scores text with the VADER lexicon and rules.
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

var sharedVader = sync.OnceValue(func() *VaderScorer {
	return &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
})

// NewVaderScorer returns the process-wide scorer. The lexicon is loaded on first use.
func NewVaderScorer() *VaderScorer {
	return sharedVader()
}

// Score returns the VADER compound score.
func (v *VaderScorer) Score(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	return v.analyzer.PolarityScores(text).Compound
}
