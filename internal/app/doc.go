// Package app wires up what every crmsynth command needs before it can
// do work.
//
// # Initialization Flow
//
//	1. Load configuration from .env, the YAML file and environment variables
//	2. Resolve and create the data and logs directories
//	3. Initialize the JSON logger writing to stdout and logs/<tool>.log
//	4. Initialize OpenTelemetry tracing and metrics when enabled
//
// Close flushes telemetry, writes the metrics textfile and closes the log
// file. SignalContext cancels on SIGINT or SIGTERM so long runs stop
// cleanly.
package app
