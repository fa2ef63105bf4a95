package postgresengine

import (
	"strings"

	"github.com/AntonStoeckl/uifilter-go/uifilter"
)

// Option defines a functional option for configuring an Executor.
type Option func(*Executor) error

// WithTableName sets the table (or view) the Executor queries.
func WithTableName(tableName string) Option {
	return func(e *Executor) error {
		if strings.TrimSpace(tableName) == "" {
			return ErrEmptyTableName
		}

		e.tableName = tableName

		return nil
	}
}

// WithSchema sets the schema of the table. Without it, the table name is not qualified.
func WithSchema(schema string) Option {
	return func(e *Executor) error {
		e.schema = schema
		return nil
	}
}

// WithColumnMapping maps filter field names to column names, e.g. "alterEgo" to "alter_ego".
// Unmapped fields are used as column names unchanged. Result records are keyed by field name.
func WithColumnMapping(fieldToColumn map[string]string) Option {
	return func(e *Executor) error {
		for field, column := range fieldToColumn {
			if strings.TrimSpace(column) == "" {
				return ErrEmptyColumnName
			}

			e.columns[field] = column
			e.fields[column] = field
		}

		return nil
	}
}

// WithSelectedFields restricts the result records to the given fields. Without it, all columns are selected.
func WithSelectedFields(fields ...string) Option {
	return func(e *Executor) error {
		e.selectedFields = append(e.selectedFields[:0], fields...)
		return nil
	}
}

// WithLogger sets the logger for the Executor.
//
// Debug level: SQL statements with execution timing (development use)
// Warn level: non-critical issues like cleanup failures
// Error level: query failures.
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
