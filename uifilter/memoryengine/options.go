package memoryengine

import (
	"github.com/AntonStoeckl/uifilter-go/uifilter"
)

// Option defines a functional option for configuring an Executor.
type Option func(*Executor) error

// WithLogger sets the logger for the Executor.
//
// Debug level: evaluated plans with scanned and matched record counts.
func WithLogger(logger uifilter.Logger) Option {
	return func(e *Executor) error {
		e.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Executor.
func WithContextualLogger(logger uifilter.ContextualLogger) Option {
	return func(e *Executor) error {
		e.contextualLogger = logger
		return nil
	}
}
