package operations

import (
	"time"
)

// Step identifiers
const (
	StepIDMarket   = "market"
	StepIDGenerate = "generate"
	StepIDEnrich   = "enrich"
)

// Step names
const (
	StepNameMarket   = "Market Data"
	StepNameGenerate = "Synthetic Records"
	StepNameEnrich   = "NLP Enrichment"
)

// StepAll selects every registered step
const StepAll = "all"

// Context keys under which steps store their results
const (
	ContextKeyMarket   = "market_result"
	ContextKeyGenerate = "generate_result"
	ContextKeyEnrich   = "enrich_result"
)

// Default timeouts
const (
	DefaultStepTimeout     = 30 * time.Minute
	DefaultMarketTimeout   = 10 * time.Minute
	DefaultGenerateTimeout = 10 * time.Minute
	// model calls are paced at about 30 per minute
	DefaultEnrichTimeout = 4 * time.Hour
)

// RetryConfig defines retry behavior for steps
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// NewRetryConfig returns the default retry configuration
func NewRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

// OperationRequest asks the manager to run an operation
type OperationRequest struct {
	ID   string // generated when empty
	Step string // a single step id, or "" / StepAll for every step
}

// OperationResponse reports the outcome of an operation
type OperationResponse struct {
	ID       string
	Status   OperationStatus
	Duration time.Duration
	Steps    []*StepState // in execution order
	Error    string
}
