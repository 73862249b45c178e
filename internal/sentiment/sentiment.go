// Package sentiment scores free text with the VADER lexicon.
package sentiment

import (
	"strings"

	"github.com/goccy/go-json"
	"github.com/jonreiter/govader"

	"crmsynth/internal/exporter"
)

// Sentiment labels
const (
	LabelPositive     = "Positive"
	LabelNegative     = "Negative"
	LabelNeutral      = "Neutral"
	LabelNotSpecified = "Not specified"
)

// compound score thresholds for a polar label
const (
	positiveThreshold = 0.05
	negativeThreshold = -0.05
)

// Result is the scored sentiment of one text
type Result struct {
	Label    string   `json:"sentiment_label"`
	Keywords []string `json:"keywords"`
	Compound float64  `json:"compound_score"`
	Positive float64  `json:"positive_score"`
	Negative float64  `json:"negative_score"`
	Neutral  float64  `json:"neutral_score"`
}

// JSON renders the result for the vader_sentiment_analysis_json column
func (r Result) JSON() (string, error) {
	if r.Keywords == nil {
		r.Keywords = []string{}
	}
	b, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Analyzer wraps a VADER intensity analyzer
type Analyzer struct {
	vader *govader.SentimentIntensityAnalyzer
}

// NewAnalyzer loads the VADER lexicon
func NewAnalyzer() *Analyzer {
	return &Analyzer{vader: govader.NewSentimentIntensityAnalyzer()}
}

// Analyze scores text. Blank text is labelled "Not specified" with zero scores.
func (a *Analyzer) Analyze(text string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{Label: LabelNotSpecified, Keywords: []string{}}
	}

	scores := a.vader.PolarityScores(text)
	return Result{
		Label:    Label(scores.Compound),
		Keywords: []string{},
		Compound: exporter.RoundTo(scores.Compound, 4),
		Positive: exporter.RoundTo(scores.Positive, 4),
		Negative: exporter.RoundTo(scores.Negative, 4),
		Neutral:  exporter.RoundTo(scores.Neutral, 4),
	}
}

// Label maps a compound score to Positive, Negative or Neutral
func Label(compound float64) string {
	switch {
	case compound >= positiveThreshold:
		return LabelPositive
	case compound <= negativeThreshold:
		return LabelNegative
	default:
		return LabelNeutral
	}
}
