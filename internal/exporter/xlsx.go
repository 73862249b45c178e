package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "crmsynth/internal/errors"
	"crmsynth/internal/infrastructure"
)

// Dataset is one named table of string cells, the unit written by the
// workbook and database sinks.
type Dataset struct {
	Name    string
	Headers []string
	Records [][]string
}

const defaultSheet = "Sheet1"

// maxSheetName is the Excel limit on worksheet name length
const maxSheetName = 31

// XLSXWriter writes datasets as worksheets of one workbook
type XLSXWriter struct {
	logger *slog.Logger
}

// NewXLSXWriter creates a workbook writer
func NewXLSXWriter() *XLSXWriter {
	return &XLSXWriter{logger: infrastructure.WithComponent(nil, "exporter")}
}

// WriteWorkbook writes every dataset to its own sheet and saves the file.
// Numeric cells are stored as numbers.
func (x *XLSXWriter) WriteWorkbook(path string, datasets []Dataset) error {
	if len(datasets) == 0 {
		return apperrors.NewValidationError("workbook needs at least one dataset")
	}

	f := excelize.NewFile()
	defer f.Close()

	usedDefault := false
	for _, ds := range datasets {
		name := SheetName(ds.Name)
		if name == defaultSheet {
			usedDefault = true
		} else if _, err := f.NewSheet(name); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("failed to create sheet %s", name), err)
		}

		if err := writeSheet(f, name, ds); err != nil {
			return err
		}
	}

	if !usedDefault {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return apperrors.NewStorageError("failed to delete default sheet", err)
		}
	}
	if idx, err := f.GetSheetIndex(SheetName(datasets[0].Name)); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create directory", err)
	}
	if err := f.SaveAs(path); err != nil {
		return apperrors.NewStorageError("failed to save workbook", err).WithContext("path", path)
	}

	x.logger.Info("Workbook written",
		slog.String("path", path),
		slog.Int("sheets", len(datasets)))
	return nil
}

func writeSheet(f *excelize.File, sheet string, ds Dataset) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return apperrors.NewStorageError("failed to open sheet stream", err)
	}

	row := 1
	if len(ds.Headers) > 0 {
		if err := setRow(sw, row, ds.Headers, false); err != nil {
			return err
		}
		row++
	}
	for _, rec := range ds.Records {
		if err := setRow(sw, row, rec, true); err != nil {
			return err
		}
		row++
	}

	if err := sw.Flush(); err != nil {
		return apperrors.NewStorageError("failed to flush sheet", err)
	}
	return nil
}

func setRow(sw *excelize.StreamWriter, row int, cells []string, numeric bool) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return apperrors.NewStorageError("invalid cell coordinates", err)
	}

	values := make([]interface{}, len(cells))
	for i, c := range cells {
		if numeric {
			values[i] = cellValue(c)
		} else {
			values[i] = c
		}
	}

	if err := sw.SetRow(cell, values); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to write row %d", row), err)
	}
	return nil
}

// cellValue returns c as a float64 when it is a plain decimal number
func cellValue(c string) interface{} {
	if c == "" || (len(c) > 1 && c[0] == '0' && c[1] != '.') {
		return c
	}
	if v, err := strconv.ParseFloat(c, 64); err == nil && !strings.ContainsAny(c, "eEnN") {
		return v
	}
	return c
}

// SheetName converts a file or table name to a valid worksheet name
func SheetName(name string) string {
	if name == "" {
		return defaultSheet
	}
	name = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, name)
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	if name == "" {
		return defaultSheet
	}
	return name
}
