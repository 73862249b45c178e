package operations

import (
	"time"
)

// Config controls how the manager executes steps
type Config struct {
	// Per-step timeouts covering every attempt of the step
	StepTimeouts map[string]time.Duration

	RetryConfig RetryConfig

	// Keep running independent steps after a failure
	ContinueOnError bool
}

// NewConfig returns the default operation configuration
func NewConfig() *Config {
	return &Config{
		StepTimeouts: map[string]time.Duration{
			StepIDMarket:   DefaultMarketTimeout,
			StepIDGenerate: DefaultGenerateTimeout,
			StepIDEnrich:   DefaultEnrichTimeout,
		},
		RetryConfig: NewRetryConfig(),
	}
}

// GetStepTimeout returns the timeout for a step
func (c *Config) GetStepTimeout(stepID string) time.Duration {
	if timeout, ok := c.StepTimeouts[stepID]; ok && timeout > 0 {
		return timeout
	}
	return DefaultStepTimeout
}

// SetStepTimeout sets the timeout for a step
func (c *Config) SetStepTimeout(stepID string, timeout time.Duration) {
	if c.StepTimeouts == nil {
		c.StepTimeouts = make(map[string]time.Duration)
	}
	c.StepTimeouts[stepID] = timeout
}

// ConfigBuilder provides a fluent interface for building a Config
type ConfigBuilder struct {
	config *Config
}

// NewConfigBuilder starts from NewConfig
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{config: NewConfig()}
}

// WithStepTimeout sets the timeout for a step
func (b *ConfigBuilder) WithStepTimeout(stepID string, timeout time.Duration) *ConfigBuilder {
	b.config.SetStepTimeout(stepID, timeout)
	return b
}

// WithRetryConfig sets the retry configuration
func (b *ConfigBuilder) WithRetryConfig(config RetryConfig) *ConfigBuilder {
	b.config.RetryConfig = config
	return b
}

// WithContinueOnError sets whether to continue on errors
func (b *ConfigBuilder) WithContinueOnError(continueOnError bool) *ConfigBuilder {
	b.config.ContinueOnError = continueOnError
	return b
}

// Build returns the built configuration
func (b *ConfigBuilder) Build() *Config {
	return b.config
}
