// Package operations runs the data steps of crmsynth as one operation.
//
// A Manager executes the steps held by a Registry in dependency order:
//
//	market    downloads commodity prices
//	generate  writes the synthetic campaigns, users and interactions
//	enrich    scores and analyses the generated records (needs generate)
//
// Each step runs under its own timeout and is retried with exponential
// backoff when it fails with a retryable error (network, rate limit or
// upstream API failures). A failed step stops the operation unless
// ContinueOnError is set, in which case only the steps depending on it
// are skipped. A request may name a single step to run on its own.
//
// Every operation and step is traced with an OpenTelemetry span, and step
// durations are recorded through infrastructure.Metrics.
//
// Example usage:
//
//	env := &operations.Environment{Config: cfg, Paths: paths, Logger: logger}
//	registry, err := operations.DefaultRegistry(env, generator)
//	manager := operations.NewManager(registry, operations.NewConfig(), logger)
//	resp, err := manager.Execute(ctx, operations.OperationRequest{})
package operations
