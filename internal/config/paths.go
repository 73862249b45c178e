package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Well-known file names shared by the tools. The generator writes the first
// three, the enricher reads them and writes the rest.
const (
	CommoditiesFile          = "commodity_prices_en.csv"
	CampaignsFile            = "campaign_details_en.csv"
	UsersFile                = "user_details_en.csv"
	InteractionsFile         = "marketing_interactions_en.csv"
	UsersEnrichedFile        = "user_details_enriched_en.csv"
	InteractionsEnrichedFile = "marketing_interactions_enriched_en.csv"
	InsightsFile             = "strategic_insights_en.csv"
	TasksFile                = "actionable_tasks_en.csv"
	WorkbookFile             = "crmsynth_outputs.xlsx"
	DatabaseFile             = "crmsynth.db"
	MetricsFile              = "crmsynth.prom"
	TraceFile                = "traces.jsonl"
)

// Paths contains all the application paths
// This is the single source of truth for every file the tools read or write
type Paths struct {
	BaseDir string
	DataDir string
	LogsDir string

	CommoditiesCSV          string
	CampaignsCSV            string
	UsersCSV                string
	InteractionsCSV         string
	UsersEnrichedCSV        string
	InteractionsEnrichedCSV string
	InsightsCSV             string
	TasksCSV                string

	WorkbookXLSX   string
	DatabaseSQLite string
	MetricsFile    string
	TraceFile      string
}

// NewPaths resolves the configured directories to absolute paths.
// Relative data and logs directories are taken relative to BaseDir.
func NewPaths(cfg PathsConfig) (*Paths, error) {
	base, err := filepath.Abs(cfg.BaseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory %q: %w", cfg.BaseDir, err)
	}

	dataDir := resolveDir(base, cfg.DataDir)
	logsDir := resolveDir(base, cfg.LogsDir)

	return &Paths{
		BaseDir: base,
		DataDir: dataDir,
		LogsDir: logsDir,

		CommoditiesCSV:          filepath.Join(dataDir, CommoditiesFile),
		CampaignsCSV:            filepath.Join(dataDir, CampaignsFile),
		UsersCSV:                filepath.Join(dataDir, UsersFile),
		InteractionsCSV:         filepath.Join(dataDir, InteractionsFile),
		UsersEnrichedCSV:        filepath.Join(dataDir, UsersEnrichedFile),
		InteractionsEnrichedCSV: filepath.Join(dataDir, InteractionsEnrichedFile),
		InsightsCSV:             filepath.Join(dataDir, InsightsFile),
		TasksCSV:                filepath.Join(dataDir, TasksFile),

		WorkbookXLSX:   filepath.Join(dataDir, WorkbookFile),
		DatabaseSQLite: filepath.Join(dataDir, DatabaseFile),
		MetricsFile:    filepath.Join(logsDir, MetricsFile),
		TraceFile:      filepath.Join(logsDir, TraceFile),
	}, nil
}

// GetPaths returns the default paths rooted at the working directory
func GetPaths() (*Paths, error) {
	return NewPaths(Default().Paths)
}

func resolveDir(base, dir string) string {
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(base, dir)
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.DataDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// LogFile returns the log file path for a tool
func (p *Paths) LogFile(tool string) string {
	return filepath.Join(p.LogsDir, tool+".log")
}

// DataPath returns a path inside the data directory
func (p *Paths) DataPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(p.DataDir, name)
}

// LogPathResolution logs the resolved directories at debug level
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("Path resolution",
		slog.String("base_dir", p.BaseDir),
		slog.String("data_dir", p.DataDir),
		slog.String("logs_dir", p.LogsDir))
}
