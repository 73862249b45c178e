package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "crmsynth/internal/errors"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "CRMSYNTH"

// DateLayout is the calendar date format used in configuration and CSV output.
const DateLayout = "2006-01-02"

// Config represents the complete application configuration
type Config struct {
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
	Paths      PathsConfig      `yaml:"paths" envconfig:"PATHS"`
	Market     MarketConfig     `yaml:"market" envconfig:"MARKET"`
	Generator  GeneratorConfig  `yaml:"generator" envconfig:"GENERATOR"`
	Enrichment EnrichmentConfig `yaml:"enrichment" envconfig:"ENRICHMENT"`
	LLM        LLMConfig        `yaml:"llm" envconfig:"LLM"`
	Telemetry  TelemetryConfig  `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" split_words:"true" validate:"oneof=debug info warn warning error"`
	Output string `yaml:"output" split_words:"true" validate:"oneof=both file stdout"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	BaseDir string `yaml:"base_dir" split_words:"true" validate:"required"`
	DataDir string `yaml:"data_dir" split_words:"true" validate:"required"`
	LogsDir string `yaml:"logs_dir" split_words:"true" validate:"required"`
}

// MarketConfig configures the commodity price downloader
type MarketConfig struct {
	BaseURL        string        `yaml:"base_url" split_words:"true" validate:"required,url"`
	UserAgent      string        `yaml:"user_agent" split_words:"true"`
	Years          int           `yaml:"years" split_words:"true" validate:"gte=1,lte=50"`
	RequestTimeout time.Duration `yaml:"request_timeout" split_words:"true" validate:"gt=0"`
	Concurrency    int           `yaml:"concurrency" split_words:"true" validate:"gte=1,lte=16"`
}

// GeneratorConfig configures the synthetic CRM dataset
type GeneratorConfig struct {
	NumCampaigns      int    `yaml:"num_campaigns" split_words:"true" validate:"gte=1"`
	NumUsers          int    `yaml:"num_users" split_words:"true" validate:"gte=1"`
	InteractionTarget int    `yaml:"interaction_target" split_words:"true" validate:"gte=0"`
	StartDate         string `yaml:"start_date" split_words:"true" validate:"required,datetime=2006-01-02"`
	Seed              int64  `yaml:"seed" split_words:"true"`
}

// EnrichmentConfig configures the NLP enrichment run
type EnrichmentConfig struct {
	BatchSize   int  `yaml:"batch_size" split_words:"true" validate:"gte=1"`
	MaxLLMItems int  `yaml:"max_llm_items" split_words:"true" validate:"gte=0"`
	UseLLM      bool `yaml:"use_llm" split_words:"true"`
}

// LLMConfig configures the generative model client
type LLMConfig struct {
	APIKey            string        `yaml:"-" envconfig:"GOOGLE_API_KEY"`
	BaseURL           string        `yaml:"base_url" split_words:"true" validate:"omitempty,url"` // empty uses the public endpoint
	Model             string        `yaml:"model" split_words:"true" validate:"required"`
	Temperature       float32       `yaml:"temperature" split_words:"true" validate:"gte=0,lte=2"`
	TopP              float32       `yaml:"top_p" split_words:"true" validate:"gte=0,lte=1"`
	TopK              float32       `yaml:"top_k" split_words:"true" validate:"gte=0"`
	MaxOutputTokens   int32         `yaml:"max_output_tokens" split_words:"true" validate:"gt=0"`
	CallInterval      time.Duration `yaml:"call_interval" split_words:"true" validate:"gte=0"`
	MaxAttempts       int           `yaml:"max_attempts" split_words:"true" validate:"gte=1"`
	InitialRetryDelay time.Duration `yaml:"initial_retry_delay" split_words:"true" validate:"gte=0"`
	MaxRetryDelay     time.Duration `yaml:"max_retry_delay" split_words:"true" validate:"gte=0"`
	RequestTimeout    time.Duration `yaml:"request_timeout" split_words:"true" validate:"gt=0"`
}

// TelemetryConfig controls the OpenTelemetry trace and metric exporters
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled" split_words:"true"`
	ServiceName string `yaml:"service_name" split_words:"true" validate:"required"`
	TraceFile   string `yaml:"trace_file" split_words:"true"`
	MetricsFile string `yaml:"metrics_file" split_words:"true"`
}

// HasAPIKey reports whether an LLM API key is configured.
func (c LLMConfig) HasAPIKey() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// Start parses StartDate.
func (c GeneratorConfig) Start() (time.Time, error) {
	t, err := time.Parse(DateLayout, c.StartDate)
	if err != nil {
		return time.Time{}, apperrors.NewConfigError("invalid generator start date", err)
	}
	return t, nil
}

// Load loads configuration from a .env file, the config file (if any) and
// environment variables, in that order of increasing precedence.
func Load() (*Config, error) {
	return LoadFile(getConfigFilePath())
}

// LoadFile is Load with an explicit YAML path. An empty path skips the file.
func LoadFile(configFile string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := Default()

	if configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			return nil, apperrors.NewConfigError(fmt.Sprintf("config file %s not readable", configFile), err)
		}
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file", err)
		}
	}

	// Environment overrides file and defaults; unset variables leave fields untouched
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", err)
	}

	if c.LLM.MaxRetryDelay > 0 && c.LLM.InitialRetryDelay > c.LLM.MaxRetryDelay {
		return apperrors.NewConfigError(
			fmt.Sprintf("llm initial_retry_delay %s exceeds max_retry_delay %s",
				c.LLM.InitialRetryDelay, c.LLM.MaxRetryDelay), nil)
	}

	if _, err := c.Generator.Start(); err != nil {
		return err
	}

	if c.Logging.Level == "warning" {
		c.Logging.Level = "warn"
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if p := os.Getenv(EnvPrefix + "_CONFIG"); p != "" {
		return p
	}

	locations := []string{
		"crmsynth.yaml",
		"configs/crmsynth.yaml",
		"../configs/crmsynth.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Output: "both",
		},
		Paths: PathsConfig{
			BaseDir: ".",
			DataDir: "data",
			LogsDir: "logs",
		},
		Market: MarketConfig{
			BaseURL:        "https://query1.finance.yahoo.com",
			UserAgent:      "Mozilla/5.0 (compatible; crmsynth/1.0)",
			Years:          5,
			RequestTimeout: 30 * time.Second,
			Concurrency:    3,
		},
		Generator: GeneratorConfig{
			NumCampaigns:      50,
			NumUsers:          1500,
			InteractionTarget: 15000,
			StartDate:         "2022-01-01",
		},
		Enrichment: EnrichmentConfig{
			BatchSize: 5,
			UseLLM:    true,
		},
		LLM: LLMConfig{
			Model:             "models/gemma-3-4b-it",
			Temperature:       0.4,
			TopP:              1,
			TopK:              1,
			MaxOutputTokens:   2048,
			CallInterval:      2100 * time.Millisecond,
			MaxAttempts:       2,
			InitialRetryDelay: 3 * time.Second,
			MaxRetryDelay:     30 * time.Second,
			RequestTimeout:    2 * time.Minute,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "crmsynth",
		},
	}
}
