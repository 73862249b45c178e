package dataprocessing

import "math"

// ForwardFillProcessor fills gaps (NaN) in aligned numeric series. Series
// are positions on a shared, sorted date index.
type ForwardFillProcessor struct{}

// NewForwardFillProcessor creates a new forward-fill processor
func NewForwardFillProcessor() *ForwardFillProcessor {
	return &ForwardFillProcessor{}
}

// FillForward replaces each NaN with the last known value before it.
// Leading NaNs stay NaN. It returns the number of cells filled.
func (f *ForwardFillProcessor) FillForward(values []float64) int {
	filled := 0
	last := math.NaN()
	for i, v := range values {
		if math.IsNaN(v) {
			if !math.IsNaN(last) {
				values[i] = last
				filled++
			}
			continue
		}
		last = v
	}
	return filled
}

// FillBackward replaces each NaN with the next known value after it.
// Trailing NaNs stay NaN. It returns the number of cells filled.
func (f *ForwardFillProcessor) FillBackward(values []float64) int {
	filled := 0
	next := math.NaN()
	for i := len(values) - 1; i >= 0; i-- {
		if math.IsNaN(values[i]) {
			if !math.IsNaN(next) {
				values[i] = next
				filled++
			}
			continue
		}
		next = values[i]
	}
	return filled
}

// FillStatistics summarises one fill pass over several columns
type FillStatistics struct {
	Columns        int
	Cells          int
	ForwardFilled  int
	BackwardFilled int
	Remaining      int
}

// FillColumnsWithStats forward- then backward-fills every column in place
func (f *ForwardFillProcessor) FillColumnsWithStats(columns [][]float64) FillStatistics {
	stats := FillStatistics{Columns: len(columns)}
	for _, col := range columns {
		stats.Cells += len(col)
		stats.ForwardFilled += f.FillForward(col)
		stats.BackwardFilled += f.FillBackward(col)
		for _, v := range col {
			if math.IsNaN(v) {
				stats.Remaining++
			}
		}
	}
	return stats
}
