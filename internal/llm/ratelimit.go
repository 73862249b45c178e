package llm

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"crmsynth/internal/config"
	"crmsynth/internal/infrastructure"
)

// rateLimitPenalty is added per attempt when the API reports throttling
const rateLimitPenalty = 2 * time.Second

// RateLimitedGenerator paces calls to another Generator and retries
// failures with exponential backoff.
type RateLimitedGenerator struct {
	next         Generator
	limiter      *rate.Limiter
	maxAttempts  int
	initialDelay time.Duration
	maxDelay     time.Duration
	sleep        func(ctx context.Context, d time.Duration) error
	metrics      *infrastructure.Metrics
	logger       *slog.Logger
}

// NewRateLimitedGenerator wraps next. One call is allowed per
// cfg.CallInterval; a zero interval disables pacing.
func NewRateLimitedGenerator(next Generator, cfg config.LLMConfig, logger *slog.Logger) *RateLimitedGenerator {
	limit := rate.Inf
	if cfg.CallInterval > 0 {
		limit = rate.Every(cfg.CallInterval)
	}
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &RateLimitedGenerator{
		next:         next,
		limiter:      rate.NewLimiter(limit, 1),
		maxAttempts:  attempts,
		initialDelay: cfg.InitialRetryDelay,
		maxDelay:     cfg.MaxRetryDelay,
		sleep:        sleepContext,
		logger:       infrastructure.WithComponent(logger, "llm_limiter"),
	}
}

// WithMetrics attaches LLM call counters
func (g *RateLimitedGenerator) WithMetrics(m *infrastructure.Metrics) *RateLimitedGenerator {
	g.metrics = m
	return g
}

// Generate waits for the limiter before every attempt. After the last
// failed attempt it returns that attempt's error.
func (g *RateLimitedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	task := TaskFrom(ctx)
	delay := g.initialDelay

	var lastErr error
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", err
		}

		g.metrics.RecordLLMCall(ctx, task)
		text, err := g.next.Generate(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err

		rateLimited := IsRateLimited(err)
		g.logger.WarnContext(ctx, "LLM call failed",
			slog.String("task", task),
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", g.maxAttempts),
			slog.Bool("rate_limited", rateLimited),
			slog.String("error", err.Error()))

		if attempt == g.maxAttempts-1 {
			break
		}
		g.metrics.RecordLLMRetry(ctx, task, rateLimited)

		wait := delay
		if rateLimited {
			wait += time.Duration(attempt+1) * rateLimitPenalty
		}
		if g.maxDelay > 0 && wait > g.maxDelay {
			wait = g.maxDelay
		}
		if err := g.sleep(ctx, wait); err != nil {
			return "", err
		}

		delay *= 2
		if g.maxDelay > 0 && delay > g.maxDelay {
			delay = g.maxDelay
		}
	}

	g.metrics.RecordLLMFailure(ctx, task)
	g.logger.ErrorContext(ctx, "max retries reached", slog.String("task", task))
	return "", lastErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
