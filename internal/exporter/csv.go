package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"crmsynth/internal/config"
	apperrors "crmsynth/internal/errors"
	"crmsynth/internal/infrastructure"
)

// utf8BOM is written in front of every CSV so spreadsheet tools detect UTF-8
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	paths   *config.Paths
	metrics *infrastructure.Metrics
	logger  *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance. Relative file paths are
// resolved against the data directory.
func NewCSVWriter(paths *config.Paths) *CSVWriter {
	return &CSVWriter{
		paths:  paths,
		logger: infrastructure.WithComponent(nil, "exporter"),
	}
}

// WithMetrics counts written rows on m
func (w *CSVWriter) WithMetrics(m *infrastructure.Metrics) *CSVWriter {
	w.metrics = m
	return w
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	fullPath := w.resolvePath(filePath)

	w.logger.Info("Writing CSV file",
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory", err)
	}

	file, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return apperrors.NewStorageError("failed to open file", err).WithContext("path", fullPath)
	}
	defer file.Close()

	if options.BOMPrefix {
		if _, err := file.Write(utf8BOM); err != nil {
			return apperrors.NewStorageError("failed to write BOM", err)
		}
	}

	writer := csv.NewWriter(file)

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return apperrors.NewStorageError("failed to write headers", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("failed to write record %d", i), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.NewStorageError("failed to flush CSV", err)
	}

	w.metrics.RecordRowsWritten(context.Background(), fullPath, len(options.Records))
	return nil
}

// WriteSimpleCSV writes a BOM-prefixed CSV file with headers and records
func (w *CSVWriter) WriteSimpleCSV(filePath string, headers []string, records [][]string) error {
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   headers,
		Records:   records,
		BOMPrefix: true,
	})
}

// StreamWriter provides streaming CSV writing for large datasets
type StreamWriter struct {
	file    *os.File
	writer  *csv.Writer
	path    string
	rows    int
	metrics *infrastructure.Metrics
}

// CreateStreamWriter creates a new BOM-prefixed streaming CSV writer
func (w *CSVWriter) CreateStreamWriter(filePath string, headers []string) (*StreamWriter, error) {
	fullPath := w.resolvePath(filePath)

	w.logger.Info("Creating CSV stream writer",
		slog.String("full_path", fullPath),
		slog.Int("header_count", len(headers)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, apperrors.NewStorageError("failed to create directory", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to create file", err).WithContext("path", fullPath)
	}

	if _, err := file.Write(utf8BOM); err != nil {
		file.Close()
		return nil, apperrors.NewStorageError("failed to write BOM", err)
	}

	writer := csv.NewWriter(file)

	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			file.Close()
			return nil, apperrors.NewStorageError("failed to write headers", err)
		}
	}

	return &StreamWriter{
		file:    file,
		writer:  writer,
		path:    fullPath,
		metrics: w.metrics,
	}, nil
}

// WriteRecord writes a single record to the stream
func (s *StreamWriter) WriteRecord(record []string) error {
	if err := s.writer.Write(record); err != nil {
		return err
	}
	s.rows++
	return nil
}

// Rows returns the number of records written so far
func (s *StreamWriter) Rows() int {
	return s.rows
}

// Close flushes and closes the stream writer
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return apperrors.NewStorageError("failed to flush CSV", err)
	}
	s.metrics.RecordRowsWritten(context.Background(), s.path, s.rows)
	return s.file.Close()
}

// resolvePath resolves a relative path against the data directory
func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) || w.paths == nil {
		return filePath
	}
	return w.paths.DataPath(filePath)
}
