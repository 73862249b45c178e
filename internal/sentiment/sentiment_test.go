package sentiment

import (
	"math"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		compound float64
		want     string
	}{
		{0.9, LabelPositive},
		{0.05, LabelPositive},
		{0.0499, LabelNeutral},
		{0, LabelNeutral},
		{-0.0499, LabelNeutral},
		{-0.05, LabelNegative},
		{-0.7, LabelNegative},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Label(tt.compound), "compound %v", tt.compound)
	}
}

func TestAnalyzer_Analyze(t *testing.T) {
	a := NewAnalyzer()

	pos := a.Analyze("Excellent service, I love it. Highly recommend!")
	assert.Equal(t, LabelPositive, pos.Label)
	assert.Greater(t, pos.Compound, 0.05)
	assert.InDelta(t, 1.0, pos.Positive+pos.Negative+pos.Neutral, 0.01)

	neg := a.Analyze("Terrible support, I hate this awful platform.")
	assert.Equal(t, LabelNegative, neg.Label)
	assert.Less(t, neg.Compound, -0.05)

	assert.Empty(t, pos.Keywords)
	assert.NotNil(t, pos.Keywords)
}

func TestAnalyzer_Blank(t *testing.T) {
	r := NewAnalyzer().Analyze("   ")
	assert.Equal(t, LabelNotSpecified, r.Label)
	assert.Zero(t, r.Compound)
	assert.Zero(t, r.Neutral)
}

func TestAnalyzer_RoundsToFourDecimals(t *testing.T) {
	r := NewAnalyzer().Analyze("The platform is very user-friendly and efficient.")
	for _, v := range []float64{r.Compound, r.Positive, r.Negative, r.Neutral} {
		assert.InDelta(t, math.Round(v*1e4), v*1e4, 1e-6)
	}
}

func TestResult_JSON(t *testing.T) {
	s, err := Result{Label: LabelNeutral, Compound: 0.0258, Positive: 0.1, Neutral: 0.9}.JSON()
	require.NoError(t, err)
	assert.Equal(t,
		`{"sentiment_label":"Neutral","keywords":[],"compound_score":0.0258,"positive_score":0.1,"negative_score":0,"neutral_score":0.9}`,
		s)

	var back map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &back))
	assert.Len(t, back, 6)
}
