// Package oteladapters provides OpenTelemetry implementations of the uifilter observability interfaces.
//
// Wire them into a uifilter.Service with uifilter.WithTracing, uifilter.WithMetrics and
// uifilter.WithContextualLogger; the executors accept the contextual loggers as well.
package oteladapters
