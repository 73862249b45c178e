package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"crmsynth/internal/config"
)

// TestPaths creates a Paths rooted in a fresh temp directory with its
// directories in place.
func TestPaths(t *testing.T) *config.Paths {
	t.Helper()
	base := t.TempDir()
	paths, err := config.NewPaths(config.PathsConfig{
		BaseDir: base,
		DataDir: filepath.Join(base, "data"),
		LogsDir: filepath.Join(base, "logs"),
	})
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirectories())
	return paths
}

// WriteCSV writes headers and rows to path, creating parent directories
func WriteCSV(t *testing.T, path string, headers []string, rows [][]string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := csv.NewWriter(f)
	require.NoError(t, w.Write(headers))
	require.NoError(t, w.WriteAll(rows))
	w.Flush()
	require.NoError(t, w.Error())
}

// ReadCSV returns every record of path, header included. A leading BOM
// is stripped from the first cell.
func ReadCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = trimBOM(records[0][0])
	}
	return records
}

func trimBOM(s string) string {
	return strings.TrimPrefix(s, "\uFEFF")
}
