package enrichment

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"crmsynth/internal/config"
	"crmsynth/internal/dataprocessing"
	"crmsynth/internal/exporter"
)

// Insight is one strategic observation about the dataset
type Insight struct {
	ID          string
	Title       string
	Explanation string
}

// Task is one follow-up action derived from the insights
type Task struct {
	ID          string
	Description string
	Importance  int // 1 (low) .. 5 (very high)
}

// Output headers of the insight and task files
var (
	InsightHeaders = []string{"insight_id", "insight_title", "insight_explanation"}
	TaskHeaders    = []string{"task_id", "task_description", "task_importance"}
)

const (
	minImportance = 1
	maxImportance = 5
)

// Summary aggregates the enriched tables for the insights prompt
type Summary struct {
	RFQsAnalyzed          int
	RFQsTotal             int
	TopRFQTypes           []dataprocessing.Count
	TopSupplierCategories []dataprocessing.Count
	Sentiment             []dataprocessing.Share
	Campaigns             int
	AvgBudget             float64
	AvgSpend              float64
}

// Summarize collects RFQ types, supplier categories, sentiment labels and
// campaign spend from the enriched tables.
func Summarize(users, interactions, campaigns *dataprocessing.Table) Summary {
	var s Summary

	var rfqTypes []string
	for i := 0; i < interactions.Len(); i++ {
		if interactions.Get(i, colEventName) == config.EventRFQSubmitted {
			s.RFQsTotal++
		}
		obj := parseObject(interactions.Get(i, ColumnRFQAnalysis))
		if t := stringField(obj, "service_product_type"); t != "" {
			rfqTypes = append(rfqTypes, t)
		}
	}
	s.RFQsAnalyzed = len(rfqTypes)
	s.TopRFQTypes = dataprocessing.TopN(rfqTypes, 3)

	var categories, labels []string
	for i := 0; i < users.Len(); i++ {
		caps := parseObject(users.Get(i, ColumnSupplierCapability))
		if list, ok := caps["main_categories"].([]any); ok {
			for _, c := range list {
				if str, ok := c.(string); ok && str != "" {
					categories = append(categories, str)
				}
			}
		}
		if label := stringField(parseObject(users.Get(i, ColumnVaderSentiment)), "sentiment_label"); label != "" {
			labels = append(labels, label)
		}
	}
	s.TopSupplierCategories = dataprocessing.TopN(categories, 3)
	s.Sentiment = dataprocessing.Distribution(labels, 1)

	s.Campaigns = campaigns.Len()
	s.AvgBudget, _ = dataprocessing.Mean(campaigns.Column(colBudget))
	s.AvgSpend, _ = dataprocessing.Mean(campaigns.Column(colSpend))
	return s
}

// String renders the summary as sent to the model
func (s Summary) String() string {
	var b strings.Builder
	b.WriteString("Business Data Summary:\n")
	fmt.Fprintf(&b, "- Total RFQs Processed for Type: %d (out of %d total RFQs submitted)\n", s.RFQsAnalyzed, s.RFQsTotal)
	fmt.Fprintf(&b, "- Top 3 RFQ Service/Product Types: %s\n",
		countsOr(s.TopRFQTypes, "N/A or No RFQs Analyzed"))
	fmt.Fprintf(&b, "- Top 3 Supplier Main Categories from Processed Suppliers: %s\n",
		countsOr(s.TopSupplierCategories, "N/A or No Suppliers Analyzed"))
	sentiment := "N/A or No Feedback Analyzed"
	if len(s.Sentiment) > 0 {
		sentiment = dataprocessing.FormatShares(s.Sentiment)
	}
	fmt.Fprintf(&b, "- User Feedback Sentiment Distribution (%% of analyzed feedback): %s\n", sentiment)
	fmt.Fprintf(&b, "- Total Campaigns: %d\n", s.Campaigns)
	fmt.Fprintf(&b, "- Average Campaign Budget: $%.0f\n", s.AvgBudget)
	fmt.Fprintf(&b, "- Average Campaign Spend: $%.0f\n", s.AvgSpend)
	return b.String()
}

func countsOr(counts []dataprocessing.Count, fallback string) string {
	if len(counts) == 0 {
		return fallback
	}
	return dataprocessing.FormatCounts(counts)
}

// ParseInsights reads a JSON list of insights, or a single insight object.
// Missing ids are numbered INS001 upwards.
func ParseInsights(raw string) ([]Insight, error) {
	objects, err := parseObjects(raw)
	if err != nil {
		return nil, err
	}
	insights := make([]Insight, 0, len(objects))
	for i, obj := range objects {
		in := Insight{
			ID:          stringField(obj, "insight_id"),
			Title:       stringField(obj, "insight_title"),
			Explanation: stringField(obj, "insight_explanation"),
		}
		if in.ID == "" {
			in.ID = fmt.Sprintf("INS%03d", i+1)
		}
		insights = append(insights, in)
	}
	return insights, nil
}

// ParseTasks reads a JSON list of tasks, or a single task object.
// Importance is clamped to 1..5.
func ParseTasks(raw string) ([]Task, error) {
	objects, err := parseObjects(raw)
	if err != nil {
		return nil, err
	}
	tasks := make([]Task, 0, len(objects))
	for i, obj := range objects {
		t := Task{
			ID:          stringField(obj, "task_id"),
			Description: stringField(obj, "task_description"),
			Importance:  clampImportance(obj["task_importance"]),
		}
		if t.ID == "" {
			t.ID = fmt.Sprintf("TASK%03d", i+1)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// InsightRecords renders insights as CSV records
func InsightRecords(insights []Insight) [][]string {
	records := make([][]string, len(insights))
	for i, in := range insights {
		records[i] = []string{in.ID, in.Title, in.Explanation}
	}
	return records
}

// TaskRecords renders tasks as CSV records
func TaskRecords(tasks []Task) [][]string {
	records := make([][]string, len(tasks))
	for i, t := range tasks {
		records[i] = []string{t.ID, t.Description, exporter.FormatInt(t.Importance)}
	}
	return records
}

// parseObjects accepts a list of objects or one non-empty object
func parseObjects(raw string) ([]map[string]any, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, err
	}
	switch val := v.(type) {
	case []any:
		var out []map[string]any
		for _, item := range val {
			if obj, ok := item.(map[string]any); ok && len(obj) > 0 {
				out = append(out, obj)
			}
		}
		return out, nil
	case map[string]any:
		if len(val) == 0 {
			return nil, nil
		}
		return []map[string]any{val}, nil
	default:
		return nil, fmt.Errorf("expected a JSON list or object, got %T", v)
	}
}

// parseObject decodes a JSON object cell; anything else is empty
func parseObject(cell string) map[string]any {
	if cell == "" || cell == "{}" {
		return nil
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(cell), &obj); err != nil {
		return nil
	}
	return obj
}

func stringField(obj map[string]any, key string) string {
	switch v := obj[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return exporter.FormatFloat(v)
	default:
		return fmt.Sprint(v)
	}
}

func clampImportance(v any) int {
	var n int
	switch val := v.(type) {
	case float64:
		n = int(math.Round(val))
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			n = int(math.Round(f))
		}
	}
	return max(minImportance, min(maxImportance, n))
}
