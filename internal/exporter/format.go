package exporter

import (
	"math"
	"strconv"
	"time"
)

// Cell formats used by every CSV the tools write. Empty strings stand for
// missing values.
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
)

// FormatFloat formats a float with the shortest representation; NaN is empty.
func FormatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FormatInt formats an int for CSV output
func FormatInt(i int) string {
	return strconv.Itoa(i)
}

// FormatBool formats a boolean as True/False
func FormatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// FormatDate formats a date; the zero time is empty.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// FormatTimestamp formats a timestamp to the second; the zero time is empty.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(TimestampLayout)
}

// RoundTo rounds f to the given number of decimals.
func RoundTo(f float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(f*p) / p
}
