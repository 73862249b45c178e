// Package enrichment adds sentiment and model-derived analyses to the
// generated CRM tables.
//
// A run loads the users, interactions and campaigns CSVs, scores user
// feedback with VADER, and, when a generator is configured, asks the model
// to summarise supplier capabilities and classify RFQ details. Work is
// interleaved round robin so a long feedback list does not starve the
// model-backed lists. With a model, the enriched data is summarised into
// strategic insights and those into actionable tasks.
//
// Model failures never abort the run: the affected cell keeps "{}".
package enrichment
