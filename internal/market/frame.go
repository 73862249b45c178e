package market

import (
	"math"
	"sort"
	"time"

	"crmsynth/internal/config"
	"crmsynth/internal/dataprocessing"
	"crmsynth/internal/exporter"
)

// Frame is a wide price table: one row per date, one column per instrument.
// Missing prices are NaN.
type Frame struct {
	Dates   []time.Time
	Columns []string
	Values  [][]float64 // Values[column][dateIndex]
}

// Align outer-joins the closing prices of series on date. Columns follow
// the order of series.
func Align(series []Series) *Frame {
	seen := make(map[time.Time]struct{})
	for _, s := range series {
		for _, q := range s.Quotes {
			seen[q.Date] = struct{}{}
		}
	}

	dates := make([]time.Time, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	index := make(map[time.Time]int, len(dates))
	for i, d := range dates {
		index[d] = i
	}

	frame := &Frame{
		Dates:   dates,
		Columns: make([]string, len(series)),
		Values:  make([][]float64, len(series)),
	}
	for c, s := range series {
		frame.Columns[c] = s.Instrument.Name
		col := make([]float64, len(dates))
		for i := range col {
			col[i] = math.NaN()
		}
		for _, q := range s.Quotes {
			col[index[q.Date]] = q.Close
		}
		frame.Values[c] = col
	}
	return frame
}

// Fill forward-fills then backward-fills every column
func (f *Frame) Fill() dataprocessing.FillStatistics {
	return dataprocessing.NewForwardFillProcessor().FillColumnsWithStats(f.Values)
}

// FillForward carries the last known price over gaps. It returns the number of cells filled.
func (f *Frame) FillForward() int {
	p := dataprocessing.NewForwardFillProcessor()
	filled := 0
	for _, col := range f.Values {
		filled += p.FillForward(col)
	}
	return filled
}

// FillBackward fills leading gaps from the first known price
func (f *Frame) FillBackward() int {
	p := dataprocessing.NewForwardFillProcessor()
	filled := 0
	for _, col := range f.Values {
		filled += p.FillBackward(col)
	}
	return filled
}

// Melt reshapes the frame to long format, column by column. Cells that
// are still NaN are dropped.
func (f *Frame) Melt() []PriceRow {
	rows := make([]PriceRow, 0, len(f.Dates)*len(f.Columns))
	for c, name := range f.Columns {
		for i, d := range f.Dates {
			v := f.Values[c][i]
			if math.IsNaN(v) {
				continue
			}
			rows = append(rows, PriceRow{Date: d, Commodity: name, Price: v})
		}
	}
	return rows
}

// Records renders price rows as CSV records
func Records(rows []PriceRow) [][]string {
	records := make([][]string, len(rows))
	for i, r := range rows {
		records[i] = []string{exporter.FormatDate(r.Date), r.Commodity, exporter.FormatFloat(r.Price)}
	}
	return records
}

// Dataset wraps price rows for the workbook and database sinks
func Dataset(rows []PriceRow) exporter.Dataset {
	return exporter.Dataset{
		Name:    config.CommoditiesFile,
		Headers: OutputHeaders,
		Records: Records(rows),
	}
}
