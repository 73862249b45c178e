package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"crmsynth/internal/config"
	apperrors "crmsynth/internal/errors"
	"crmsynth/internal/infrastructure"
)

type scriptedGenerator struct {
	results []error
	calls   int
	prompts []string
}

func (s *scriptedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	i := s.calls
	s.calls++
	if i < len(s.results) && s.results[i] != nil {
		return "", s.results[i]
	}
	return `{"ok": true}`, nil
}

func testLLMConfig() config.LLMConfig {
	cfg := config.Default().LLM
	cfg.CallInterval = 0
	cfg.MaxAttempts = 3
	cfg.InitialRetryDelay = 3 * time.Second
	cfg.MaxRetryDelay = 30 * time.Second
	return cfg
}

func newTestLimiter(next Generator, cfg config.LLMConfig) (*RateLimitedGenerator, *[]time.Duration) {
	g := NewRateLimitedGenerator(next, cfg, infrastructure.NewLogger(&strings.Builder{}, "error"))
	var waits []time.Duration
	g.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	return g, &waits
}

func TestRateLimitedGenerator_Success(t *testing.T) {
	next := &scriptedGenerator{}
	g, waits := newTestLimiter(next, testLLMConfig())

	text, err := g.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, `{"ok": true}`, text)
	assert.Equal(t, 1, next.calls)
	assert.Empty(t, *waits)
}

func TestRateLimitedGenerator_RetriesWithBackoff(t *testing.T) {
	next := &scriptedGenerator{results: []error{errors.New("boom"), errors.New("boom")}}
	g, waits := newTestLimiter(next, testLLMConfig())

	text, err := g.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.NotEmpty(t, text)
	assert.Equal(t, 3, next.calls)
	assert.Equal(t, []time.Duration{3 * time.Second, 6 * time.Second}, *waits)
}

func TestRateLimitedGenerator_RateLimitPenalty(t *testing.T) {
	limited := apperrors.NewRateLimitError("quota", errors.New("Error 429"))
	next := &scriptedGenerator{results: []error{limited, limited}}
	g, waits := newTestLimiter(next, testLLMConfig())

	_, err := g.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{5 * time.Second, 10 * time.Second}, *waits)
}

func TestRateLimitedGenerator_Exhausted(t *testing.T) {
	cfg := testLLMConfig()
	cfg.MaxAttempts = 2
	last := errors.New("second failure")
	next := &scriptedGenerator{results: []error{errors.New("first failure"), last}}
	g, waits := newTestLimiter(next, cfg)

	_, err := g.Generate(WithTask(context.Background(), "RFQ Analysis"), "prompt")
	assert.Equal(t, last, err)
	assert.Equal(t, 2, next.calls)
	assert.Len(t, *waits, 1)
}

func TestRateLimitedGenerator_MaxDelayCaps(t *testing.T) {
	cfg := testLLMConfig()
	cfg.MaxRetryDelay = 4 * time.Second
	next := &scriptedGenerator{results: []error{errors.New("x"), errors.New("y")}}
	g, waits := newTestLimiter(next, cfg)

	_, err := g.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{3 * time.Second, 4 * time.Second}, *waits)
}

func TestRateLimitedGenerator_Paces(t *testing.T) {
	cfg := testLLMConfig()
	cfg.CallInterval = 40 * time.Millisecond
	next := &scriptedGenerator{}
	g, _ := newTestLimiter(next, cfg)

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := g.Generate(context.Background(), "p")
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 70*time.Millisecond)
}

func TestRateLimitedGenerator_ContextCancelled(t *testing.T) {
	cfg := testLLMConfig()
	cfg.CallInterval = time.Hour
	g, _ := newTestLimiter(&scriptedGenerator{}, cfg)

	_, err := g.Generate(context.Background(), "first")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = g.Generate(ctx, "second")
	assert.Error(t, err)
}

func TestIsRateLimited(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"typed rate limit", apperrors.NewRateLimitError("slow down", nil), true},
		{"api error 429", genai.APIError{Code: 429, Status: "RESOURCE_EXHAUSTED"}, true},
		{"wrapped api error 429", fmt.Errorf("generate: %w", genai.APIError{Code: 429}), true},
		{"api error 500 mentioning 429", genai.APIError{Code: 500, Message: "backend 429 retries"}, false},
		{"api error 400", genai.APIError{Code: 400, Status: "INVALID_ARGUMENT"}, false},
		{"error 429 text", errors.New("Error 429, Message: quota"), true},
		{"status 429 text", errors.New("status 429"), true},
		{"too many requests text", errors.New("429 Too Many Requests"), true},
		{"rate limit text", errors.New("Rate limit exceeded"), true},
		{"resource exhausted text", errors.New("Status: RESOURCE_EXHAUSTED"), true},
		{"unrelated 429 in text", errors.New("parse failed at row 429"), false},
		{"duration containing 429", errors.New("timeout after 4290ms"), false},
		{"invalid argument", errors.New("invalid argument"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRateLimited(tt.err))
		})
	}
}

func TestTaskFrom(t *testing.T) {
	assert.Equal(t, "generate", TaskFrom(context.Background()))
	assert.Equal(t, "Strategic Insights", TaskFrom(WithTask(context.Background(), "Strategic Insights")))
}
