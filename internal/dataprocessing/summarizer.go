package dataprocessing

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"crmsynth/internal/exporter"
)

// Count is one distinct value and how often it occurred
type Count struct {
	Value string
	Count int
}

// Share is one distinct value and its percentage of the total
type Share struct {
	Value   string
	Percent float64
}

// ValueCounts counts non-empty values, most frequent first. Ties keep the
// order in which values were first seen.
func ValueCounts(values []string) []Count {
	seen := make(map[string]int)
	var counts []Count
	for _, v := range values {
		if v == "" {
			continue
		}
		if i, ok := seen[v]; ok {
			counts[i].Count++
			continue
		}
		seen[v] = len(counts)
		counts = append(counts, Count{Value: v, Count: 1})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// TopN returns the n most frequent values
func TopN(values []string, n int) []Count {
	counts := ValueCounts(values)
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// Distribution returns each value's share in percent, rounded to decimals
func Distribution(values []string, decimals int) []Share {
	counts := ValueCounts(values)
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	shares := make([]Share, 0, len(counts))
	for _, c := range counts {
		shares = append(shares, Share{
			Value:   c.Value,
			Percent: exporter.RoundTo(float64(c.Count)*100/float64(total), decimals),
		})
	}
	return shares
}

// Mean averages the numeric cells of values, skipping blanks and text.
// ok is false when nothing was numeric.
func Mean(values []string) (mean float64, ok bool) {
	sum, n := 0.0, 0
	for _, v := range values {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			continue
		}
		sum += f
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// FormatCounts renders counts as {'a': 3, 'b': 1}
func FormatCounts(counts []Count) string {
	parts := make([]string, len(counts))
	for i, c := range counts {
		parts[i] = fmt.Sprintf("'%s': %d", c.Value, c.Count)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// FormatShares renders shares as {'Positive': 60.0, 'Negative': 40.0}
func FormatShares(shares []Share) string {
	parts := make([]string, len(shares))
	for i, s := range shares {
		parts[i] = fmt.Sprintf("'%s': %.1f", s.Value, s.Percent)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
