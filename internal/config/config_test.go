package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "crmsynth/internal/errors"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "crmsynth.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "both", cfg.Logging.Output)
	assert.Equal(t, 5, cfg.Market.Years)
	assert.Equal(t, 50, cfg.Generator.NumCampaigns)
	assert.Equal(t, 1500, cfg.Generator.NumUsers)
	assert.Equal(t, 15000, cfg.Generator.InteractionTarget)
	assert.Equal(t, "2022-01-01", cfg.Generator.StartDate)
	assert.Equal(t, 5, cfg.Enrichment.BatchSize)
	assert.Equal(t, float32(0.4), cfg.LLM.Temperature)
	assert.Equal(t, int32(2048), cfg.LLM.MaxOutputTokens)
	assert.Equal(t, 2100*time.Millisecond, cfg.LLM.CallInterval)
	assert.Equal(t, 2, cfg.LLM.MaxAttempts)

	require.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		env         map[string]string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "no file uses defaults",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, Default().Generator, cfg.Generator)
			},
		},
		{
			name: "file overrides defaults",
			file: `
generator:
  num_users: 20
  start_date: "2023-06-01"
enrichment:
  batch_size: 3
llm:
  call_interval: 500ms
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 20, cfg.Generator.NumUsers)
				assert.Equal(t, 50, cfg.Generator.NumCampaigns)
				assert.Equal(t, "2023-06-01", cfg.Generator.StartDate)
				assert.Equal(t, 3, cfg.Enrichment.BatchSize)
				assert.Equal(t, 500*time.Millisecond, cfg.LLM.CallInterval)
			},
		},
		{
			name: "env overrides file",
			file: "generator:\n  num_users: 20\n",
			env: map[string]string{
				"CRMSYNTH_GENERATOR_NUM_USERS": "40",
				"CRMSYNTH_LOGGING_LEVEL":       "debug",
				"GOOGLE_API_KEY":               "test-key",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 40, cfg.Generator.NumUsers)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "test-key", cfg.LLM.APIKey)
				assert.True(t, cfg.LLM.HasAPIKey())
			},
		},
		{
			name: "unprefixed variables are ignored",
			env: map[string]string{
				"OUTPUT":   "report.txt",
				"LEVEL":    "verbose",
				"SEED":     "not-a-number",
				"MODEL":    "",
				"YEARS":    "0",
				"ENABLED":  "maybe",
				"BASE_URL": "not a url",
				"DATA_DIR": "",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				def := Default()
				assert.Equal(t, def.Logging, cfg.Logging)
				assert.Equal(t, def.Paths.DataDir, cfg.Paths.DataDir)
				assert.Equal(t, def.Market.BaseURL, cfg.Market.BaseURL)
				assert.Equal(t, def.Market.Years, cfg.Market.Years)
				assert.Equal(t, def.Generator.Seed, cfg.Generator.Seed)
				assert.Equal(t, def.LLM.Model, cfg.LLM.Model)
				assert.False(t, cfg.Telemetry.Enabled)
			},
		},
		{
			name: "prefixed names still apply",
			env: map[string]string{
				"CRMSYNTH_LOGGING_OUTPUT":  "file",
				"CRMSYNTH_MARKET_BASE_URL": "http://127.0.0.1:9999",
				"CRMSYNTH_LLM_TOP_P":       "0.5",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "file", cfg.Logging.Output)
				assert.Equal(t, "http://127.0.0.1:9999", cfg.Market.BaseURL)
				assert.Equal(t, float32(0.5), cfg.LLM.TopP)
			},
		},
		{
			name:    "invalid start date",
			file:    "generator:\n  start_date: \"01/02/2022\"\n",
			wantErr: true,
		},
		{
			name:    "invalid batch size",
			env:     map[string]string{"CRMSYNTH_ENRICHMENT_BATCH_SIZE": "0"},
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			file:    "generator: [",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := ""
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			}

			cfg, err := LoadFile(path)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrConfig)
				return
			}
			require.NoError(t, err)
			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConfig)
}

func TestValidate_RetryDelays(t *testing.T) {
	cfg := Default()
	cfg.LLM.InitialRetryDelay = time.Minute
	cfg.LLM.MaxRetryDelay = time.Second
	assert.Error(t, cfg.Validate())
}

func TestValidate_NormalizesWarning(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "warning"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestGeneratorConfig_Start(t *testing.T) {
	start, err := Default().Generator.Start()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), start)
}
