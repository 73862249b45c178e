// Package config provides centralized configuration management for the crmsynth tools.
// It handles loading configuration from multiple sources, validation, and path
// resolution for every CSV the tools exchange.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file (crmsynth.yaml or $CRMSYNTH_CONFIG)
//	3. Default values (lowest priority)
//
// A .env file in the working directory is loaded into the environment first.
//
// # Environment Variables
//
// Environment variables follow the pattern CRMSYNTH_<SECTION>_<FIELD>:
//
//	CRMSYNTH_LOGGING_LEVEL=debug
//	CRMSYNTH_GENERATOR_NUM_USERS=200
//	CRMSYNTH_ENRICHMENT_BATCH_SIZE=10
//	CRMSYNTH_LLM_MODEL=models/gemini-1.5-flash-latest
//
// Unprefixed names are ignored, except the LLM API key, which is read from
// GOOGLE_API_KEY.
//
// # Path Management
//
// Paths resolves the data and logs directories once, and exposes the
// well-known file names:
//
//	paths, _ := config.NewPaths(cfg.Paths)
//	users := paths.UsersCSV
//	logFile := paths.LogFile("enrich")
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
