package operations

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigBuilder(t *testing.T) {
	retry := NewRetryConfig()
	retry.MaxAttempts = 5
	retry.InitialDelay = 10 * time.Millisecond

	cfg := NewConfigBuilder().
		WithRetryConfig(retry).
		WithStepTimeout(StepIDEnrich, time.Minute).
		WithContinueOnError(true).
		Build()

	assert.True(t, cfg.ContinueOnError)
	assert.Equal(t, 5, cfg.RetryConfig.MaxAttempts)
	assert.Equal(t, 10*time.Millisecond, cfg.RetryConfig.InitialDelay)
	assert.Equal(t, 30*time.Second, cfg.RetryConfig.MaxDelay)
	assert.Equal(t, time.Minute, cfg.GetStepTimeout(StepIDEnrich))
	assert.Equal(t, DefaultMarketTimeout, cfg.GetStepTimeout(StepIDMarket))
	assert.Equal(t, DefaultStepTimeout, cfg.GetStepTimeout("custom"))
}
