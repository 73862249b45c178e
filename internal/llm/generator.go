package llm

import (
	"context"
	"errors"
	"net/http"
	"regexp"

	"google.golang.org/genai"

	apperrors "crmsynth/internal/errors"
)

// Generator produces text for a prompt
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate calls f
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

type taskKey struct{}

// WithTask labels calls made with ctx for logs and metrics
func WithTask(ctx context.Context, task string) context.Context {
	return context.WithValue(ctx, taskKey{}, task)
}

// TaskFrom returns the task label of ctx, or "generate"
func TaskFrom(ctx context.Context) string {
	if task, ok := ctx.Value(taskKey{}).(string); ok && task != "" {
		return task
	}
	return "generate"
}

// rateLimitText matches throttling errors from clients that only report text
var rateLimitText = regexp.MustCompile(`(?i)\b(error|status|code)[\s:=]*429\b|\b429 too many requests|rate limit|resource_exhausted`)

// IsRateLimited reports whether err means the remote API throttled us.
// API errors are judged by status code alone; other errors by their text.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	if apperrors.TypeOf(err) == apperrors.ErrTypeRateLimit {
		return true
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests
	}
	return rateLimitText.MatchString(err.Error())
}
