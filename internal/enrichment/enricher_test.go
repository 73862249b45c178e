package enrichment

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmsynth/internal/config"
	"crmsynth/internal/dataprocessing"
	"crmsynth/internal/exporter"
	"crmsynth/internal/llm"
	"crmsynth/internal/sentiment"
	"crmsynth/internal/shared/testutil"
)

func testInput() *Input {
	users := dataprocessing.NewTable("users", []string{colUserID, colUserType, colFeedback, colSupplierCapabilities})
	users.AppendRow([]string{"USER00001", config.UserTypeBuyer, "Excellent platform, very helpful and fast!", ""})
	users.AppendRow([]string{"USER00002", config.UserTypeSupplier, "Terrible support, slow and frustrating.", "Hot rolled steel coils and plates"})
	users.AppendRow([]string{"USER00003", config.UserTypeProspect, "", ""})
	users.AppendRow([]string{"USER00004", config.UserTypeSupplier, "", "CNC machining of aluminium parts"})

	interactions := dataprocessing.NewTable("interactions", []string{colInteractionID, colEventName, colDetails})
	interactions.AppendRow([]string{"INT0000001", config.EventRFQSubmitted, "Need 200 tons of HRC steel ASAP"})
	interactions.AppendRow([]string{"INT0000002", config.EventRFQSubmitted, ""})
	interactions.AppendRow([]string{"INT0000003", "Page View", "Viewed: pricing page"})
	interactions.AppendRow([]string{"INT0000004", config.EventRFQSubmitted, "Budgetary quote for copper wire"})

	campaigns := dataprocessing.NewTable("campaigns", []string{"campaign_id", colBudget, colSpend})
	campaigns.AppendRow([]string{"CAMP0001", "1000.00", "900.00"})
	campaigns.AppendRow([]string{"CAMP0002", "3000.00", "1500.00"})

	return &Input{Users: users, Interactions: interactions, Campaigns: campaigns}
}

// fakeModel answers each task with a canned response and records the
// order of calls.
type fakeModel struct {
	mu        sync.Mutex
	tasks     []string
	responses map[string]string
	failures  map[string]error
}

func newFakeModel() *fakeModel {
	return &fakeModel{responses: map[string]string{
		TaskCapabilities: "```json\n{\"capability_summary\": \"Steel supplier\", \"main_categories\": [\"Steel\", \"Metals\"]}\n```",
		TaskRFQ:          `Sure! {"service_product_type": "Steel Coils", "implied_urgency": "High", "key_specifications": ["200 tons"]}`,
		TaskInsights:     `[{"insight_id": "INS001", "insight_title": "Steel demand", "insight_explanation": "Steel dominates RFQs."}, {"insight_title": "Negative feedback", "insight_explanation": "Support is slow."}]`,
		TaskActions:      `[{"task_id": "TASK001", "task_description": "Recruit steel suppliers", "task_importance": 9}, {"task_description": "Improve support", "task_importance": "3"}]`,
	}}
}

func (f *fakeModel) Generate(ctx context.Context, _ string) (string, error) {
	task := llm.TaskFrom(ctx)
	f.mu.Lock()
	f.tasks = append(f.tasks, task)
	f.mu.Unlock()
	if err := f.failures[task]; err != nil {
		return "", err
	}
	return f.responses[task], nil
}

func enrichmentConfig(batch int) config.EnrichmentConfig {
	return config.EnrichmentConfig{BatchSize: batch, UseLLM: true}
}

func TestEnricher_Run(t *testing.T) {
	model := newFakeModel()
	logger, _ := testutil.NewTestLogger(nil)
	e := New(sentiment.NewAnalyzer(), model, enrichmentConfig(5), logger)
	in := testInput()

	res, err := e.Run(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, 2, res.VaderCount)
	assert.Equal(t, 2+2+2, res.LLMCalls)

	users := res.Users
	assert.Contains(t, users.Get(0, ColumnVaderSentiment), `"sentiment_label":"Positive"`)
	assert.Contains(t, users.Get(1, ColumnVaderSentiment), `"sentiment_label":"Negative"`)
	assert.Equal(t, "{}", users.Get(2, ColumnVaderSentiment))
	assert.Equal(t, "{}", users.Get(0, ColumnSupplierCapability))
	assert.Contains(t, users.Get(1, ColumnSupplierCapability), `"main_categories"`)
	assert.Contains(t, users.Get(3, ColumnSupplierCapability), `"Steel supplier"`)

	interactions := res.Interactions
	assert.Contains(t, interactions.Get(0, ColumnRFQAnalysis), `"Steel Coils"`)
	assert.Equal(t, "{}", interactions.Get(1, ColumnRFQAnalysis))
	assert.Equal(t, "{}", interactions.Get(2, ColumnRFQAnalysis))
	assert.Contains(t, interactions.Get(3, ColumnRFQAnalysis), `"implied_urgency"`)

	require.NotNil(t, res.Summary)
	assert.Equal(t, 2, res.Summary.RFQsAnalyzed)
	assert.Equal(t, 3, res.Summary.RFQsTotal)
	assert.Equal(t, 2, res.Summary.Campaigns)
	assert.InDelta(t, 2000.0, res.Summary.AvgBudget, 1e-9)

	require.Len(t, res.Insights, 2)
	assert.Equal(t, "INS001", res.Insights[0].ID)
	assert.Equal(t, "INS002", res.Insights[1].ID)
	require.Len(t, res.Tasks, 2)
	assert.Equal(t, 5, res.Tasks[0].Importance)
	assert.Equal(t, 3, res.Tasks[1].Importance)
	assert.Equal(t, "TASK002", res.Tasks[1].ID)
}

func TestEnricher_RoundRobinOrder(t *testing.T) {
	model := newFakeModel()
	e := New(sentiment.NewAnalyzer(), model, enrichmentConfig(1), nil)

	_, err := e.Run(context.Background(), testInput())
	require.NoError(t, err)

	assert.Equal(t, []string{
		TaskCapabilities, TaskRFQ,
		TaskCapabilities, TaskRFQ,
		TaskInsights, TaskActions,
	}, model.tasks)
}

func TestEnricher_MaxLLMItems(t *testing.T) {
	model := newFakeModel()
	cfg := enrichmentConfig(5)
	cfg.MaxLLMItems = 1
	e := New(sentiment.NewAnalyzer(), model, cfg, nil)

	res, err := e.Run(context.Background(), testInput())
	require.NoError(t, err)

	assert.Equal(t, 2, res.VaderCount, "feedback is never capped")
	assert.Equal(t, "{}", res.Users.Get(3, ColumnSupplierCapability))
	assert.Equal(t, "{}", res.Interactions.Get(3, ColumnRFQAnalysis))
	assert.Equal(t, 1+1+2, res.LLMCalls)
}

func TestEnricher_WithoutModel(t *testing.T) {
	tests := []struct {
		name  string
		model llm.Generator
		cfg   config.EnrichmentConfig
	}{
		{"nil generator", nil, enrichmentConfig(5)},
		{"disabled", newFakeModel(), config.EnrichmentConfig{BatchSize: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(sentiment.NewAnalyzer(), tt.model, tt.cfg, nil)
			assert.False(t, e.UsesLLM())

			res, err := e.Run(context.Background(), testInput())
			require.NoError(t, err)

			assert.Equal(t, 2, res.VaderCount)
			assert.Zero(t, res.LLMCalls)
			assert.Nil(t, res.Summary)
			assert.Empty(t, res.Insights)
			assert.Equal(t, "{}", res.Users.Get(1, ColumnSupplierCapability))
			assert.Equal(t, "{}", res.Interactions.Get(0, ColumnRFQAnalysis))
		})
	}
}

func TestEnricher_ModelFailureKeepsDefault(t *testing.T) {
	model := newFakeModel()
	model.failures = map[string]error{TaskRFQ: errors.New("429 resource exhausted")}
	logger, logs := testutil.NewTestLogger(nil)
	e := New(sentiment.NewAnalyzer(), model, enrichmentConfig(5), logger)

	res, err := e.Run(context.Background(), testInput())
	require.NoError(t, err)

	assert.Equal(t, "{}", res.Interactions.Get(0, ColumnRFQAnalysis))
	assert.Equal(t, "{}", res.Interactions.Get(3, ColumnRFQAnalysis))
	assert.Contains(t, res.Users.Get(1, ColumnSupplierCapability), "Steel")
	assert.Zero(t, res.Summary.RFQsAnalyzed)
	testutil.AssertLogContains(t, logs, slog.LevelWarn, "model call gave up")
}

func TestEnricher_UnparseableInsights(t *testing.T) {
	model := newFakeModel()
	model.responses[TaskInsights] = "I cannot help with that."
	logger, logs := testutil.NewTestLogger(nil)
	e := New(sentiment.NewAnalyzer(), model, enrichmentConfig(5), logger)

	res, err := e.Run(context.Background(), testInput())
	require.NoError(t, err)

	assert.Empty(t, res.Insights)
	assert.Empty(t, res.Tasks)
	assert.NotContains(t, model.tasks, TaskActions)
	assert.True(t, logs.ContainsMessage("no strategic insights"))
}

func TestEnricher_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := New(sentiment.NewAnalyzer(), newFakeModel(), enrichmentConfig(5), nil)
	_, err := e.Run(ctx, testInput())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResult_Save(t *testing.T) {
	paths := testutil.TestPaths(t)
	e := New(sentiment.NewAnalyzer(), newFakeModel(), enrichmentConfig(5), nil)
	res, err := e.Run(context.Background(), testInput())
	require.NoError(t, err)

	require.NoError(t, res.Save(exporter.NewCSVWriter(paths)))

	users := testutil.ReadCSV(t, paths.UsersEnrichedCSV)
	require.Len(t, users, 5)
	assert.Equal(t, ColumnSupplierCapability, users[0][len(users[0])-1])

	tasks := testutil.ReadCSV(t, paths.TasksCSV)
	assert.Equal(t, TaskHeaders, tasks[0])
	assert.Equal(t, []string{"TASK001", "Recruit steel suppliers", "5"}, tasks[1])
	assert.FileExists(t, paths.InsightsCSV)
	assert.FileExists(t, paths.InteractionsEnrichedCSV)
}

func TestResult_SaveSkipsEmptyInsights(t *testing.T) {
	paths := testutil.TestPaths(t)
	e := New(sentiment.NewAnalyzer(), nil, enrichmentConfig(5), nil)
	res, err := e.Run(context.Background(), testInput())
	require.NoError(t, err)

	require.NoError(t, res.Save(exporter.NewCSVWriter(paths)))

	assert.FileExists(t, paths.UsersEnrichedCSV)
	assert.NoFileExists(t, paths.InsightsCSV)
	assert.NoFileExists(t, paths.TasksCSV)
	assert.Len(t, res.Datasets(), 2)
	assert.True(t, strings.HasPrefix(res.Datasets()[0].Name, "user_details_enriched"))
}
