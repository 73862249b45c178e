// Package shared holds helpers used by more than one package.
//
// The testutil subpackage provides a capturing slog handler for log
// assertions and helpers that write CSV fixtures into temp directories.
// Nothing here carries domain logic.
package shared
