package enrichment

import (
	"fmt"

	"crmsynth/internal/config"
	"crmsynth/internal/exporter"
)

// Datasets returns the enriched tables plus any insights and tasks, keyed
// by their output file names.
func (r *Result) Datasets() []exporter.Dataset {
	users := r.Users.Dataset()
	users.Name = config.UsersEnrichedFile
	interactions := r.Interactions.Dataset()
	interactions.Name = config.InteractionsEnrichedFile

	out := []exporter.Dataset{users, interactions}
	if len(r.Insights) > 0 {
		out = append(out, exporter.Dataset{Name: config.InsightsFile, Headers: InsightHeaders, Records: InsightRecords(r.Insights)})
	}
	if len(r.Tasks) > 0 {
		out = append(out, exporter.Dataset{Name: config.TasksFile, Headers: TaskHeaders, Records: TaskRecords(r.Tasks)})
	}
	return out
}

// Save writes the enriched CSV files into the data directory. Insight and
// task files are only written when non-empty.
func (r *Result) Save(w *exporter.CSVWriter) error {
	for _, ds := range r.Datasets() {
		if err := w.WriteSimpleCSV(ds.Name, ds.Headers, ds.Records); err != nil {
			return fmt.Errorf("failed to write %s: %w", ds.Name, err)
		}
	}
	return nil
}
