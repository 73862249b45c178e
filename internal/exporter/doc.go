// Package exporter writes the tools' tabular outputs.
//
// CSVWriter is the primary sink: every CSV is written with a UTF-8 BOM so
// spreadsheet tools detect the encoding, and StreamWriter supports writing
// large tables row by row. XLSXWriter collects several datasets into one
// workbook and SQLiteSink mirrors them into a SQLite database file.
//
// Example usage:
//
//	w := exporter.NewCSVWriter(paths)
//	err := w.WriteSimpleCSV(config.CommoditiesFile, []string{"Date", "Commodity", "Price"}, rows)
//
//	err = exporter.NewXLSXWriter().WriteWorkbook(paths.WorkbookXLSX, datasets)
package exporter
