// Package helper provides test doubles and fixtures shared by the uifilter test suites:
// a capturing slog.Handler, spies for the metrics, tracing and contextual logging interfaces,
// and a small set of hero records with a matching field resolver.
package helper
