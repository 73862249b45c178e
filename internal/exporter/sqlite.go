package exporter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	apperrors "crmsynth/internal/errors"
	"crmsynth/internal/infrastructure"
)

// SQLiteSink mirrors datasets into tables of a SQLite database file.
// Every column is stored as TEXT; empty cells become NULL.
type SQLiteSink struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// OpenSQLite opens (or creates) the database at path
func OpenSQLite(ctx context.Context, path string) (*SQLiteSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, apperrors.NewStorageError("failed to create directory", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open sqlite database", err).WithContext("path", path)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, apperrors.NewStorageError("failed to connect to sqlite database", err).WithContext("path", path)
	}

	return &SQLiteSink{
		db:     db,
		path:   path,
		logger: infrastructure.WithComponent(nil, "exporter"),
	}, nil
}

// DB exposes the underlying handle for queries
func (s *SQLiteSink) DB() *sql.DB {
	return s.db
}

// WriteTable replaces table ds.Name with the dataset contents
func (s *SQLiteSink) WriteTable(ctx context.Context, ds Dataset) error {
	if len(ds.Headers) == 0 {
		return apperrors.NewValidationError(fmt.Sprintf("table %s has no columns", ds.Name))
	}

	table := TableName(ds.Name)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewStorageError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(table)); err != nil {
		return apperrors.NewStorageError("failed to drop table", err).WithContext("table", table)
	}

	cols := make([]string, len(ds.Headers))
	marks := make([]string, len(ds.Headers))
	for i, h := range ds.Headers {
		cols[i] = quoteIdent(h) + " TEXT"
		marks[i] = "?"
	}

	create := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table), strings.Join(cols, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return apperrors.NewStorageError("failed to create table", err).WithContext("table", table)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoteIdent(table), strings.Join(marks, ", ")))
	if err != nil {
		return apperrors.NewStorageError("failed to prepare insert", err)
	}
	defer stmt.Close()

	args := make([]interface{}, len(ds.Headers))
	for n, rec := range ds.Records {
		for i := range args {
			args[i] = nil
			if i < len(rec) && rec[i] != "" {
				args[i] = rec[i]
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("failed to insert row %d", n), err).WithContext("table", table)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewStorageError("failed to commit", err)
	}

	s.logger.Info("SQLite table written",
		slog.String("path", s.path),
		slog.String("table", table),
		slog.Int("rows", len(ds.Records)))
	return nil
}

// WriteAll writes every dataset, stopping at the first error
func (s *SQLiteSink) WriteAll(ctx context.Context, datasets []Dataset) error {
	for _, ds := range datasets {
		if err := s.WriteTable(ctx, ds); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

// TableName derives a table name from a file or dataset name
func TableName(name string) string {
	name = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	return strings.ToLower(strings.ReplaceAll(name, " ", "_"))
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
