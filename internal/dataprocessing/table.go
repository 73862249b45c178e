package dataprocessing

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	apperrors "crmsynth/internal/errors"
	"crmsynth/internal/exporter"
)

// Table is an in-memory CSV: a header row and string cells addressed by
// column name. Short rows read as empty cells.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]string
	index   map[string]int
}

// NewTable creates an empty table with the given columns
func NewTable(name string, headers []string) *Table {
	t := &Table{Name: name, Headers: append([]string(nil), headers...)}
	t.reindex()
	return t
}

// ReadTable loads a CSV file; a leading UTF-8 BOM is ignored.
func ReadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("input file %s", path))
		}
		return nil, apperrors.NewStorageError("failed to open CSV", err).WithContext("path", path)
	}
	defer f.Close()

	t, err := ParseTable(f)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to parse %s", path), err)
	}
	t.Name = path
	return t, nil
}

// ParseTable reads CSV content from r
func ParseTable(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(3); err == nil && bytes.Equal(head, []byte{0xEF, 0xBB, 0xBF}) {
		_, _ = br.Discard(3)
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("missing header row")
	}

	t := &Table{Headers: records[0], Rows: records[1:]}
	t.reindex()
	return t, nil
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Headers))
	for i, h := range t.Headers {
		if _, dup := t.index[h]; !dup {
			t.index[h] = i
		}
	}
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether the table has a column named name
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Get returns the cell at row for column name, or "" when absent
func (t *Table) Get(row int, name string) string {
	col, ok := t.index[name]
	if !ok || row < 0 || row >= len(t.Rows) || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// Set stores value at row for column name, padding short rows
func (t *Table) Set(row int, name, value string) error {
	col, ok := t.index[name]
	if !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("column %s", name))
	}
	if row < 0 || row >= len(t.Rows) {
		return apperrors.NewValidationError(fmt.Sprintf("row %d out of range", row))
	}
	for len(t.Rows[row]) <= col {
		t.Rows[row] = append(t.Rows[row], "")
	}
	t.Rows[row][col] = value
	return nil
}

// AddColumn appends a column filled with def. An existing column is reset to def.
func (t *Table) AddColumn(name, def string) {
	if col, ok := t.index[name]; ok {
		for i := range t.Rows {
			for len(t.Rows[i]) <= col {
				t.Rows[i] = append(t.Rows[i], "")
			}
			t.Rows[i][col] = def
		}
		return
	}

	t.Headers = append(t.Headers, name)
	t.index[name] = len(t.Headers) - 1
	for i := range t.Rows {
		for len(t.Rows[i]) < len(t.Headers)-1 {
			t.Rows[i] = append(t.Rows[i], "")
		}
		t.Rows[i] = append(t.Rows[i], def)
	}
}

// AppendRow adds a row of cells in header order
func (t *Table) AppendRow(cells []string) {
	t.Rows = append(t.Rows, cells)
}

// Column returns every value of column name
func (t *Table) Column(name string) []string {
	out := make([]string, len(t.Rows))
	for i := range t.Rows {
		out[i] = t.Get(i, name)
	}
	return out
}

// RowsWhere returns the indices of rows matching pred
func (t *Table) RowsWhere(pred func(row int) bool) []int {
	var out []int
	for i := range t.Rows {
		if pred(i) {
			out = append(out, i)
		}
	}
	return out
}

// Dataset converts the table for the workbook and database sinks
func (t *Table) Dataset() exporter.Dataset {
	return exporter.Dataset{Name: t.Name, Headers: t.Headers, Records: t.Rows}
}
