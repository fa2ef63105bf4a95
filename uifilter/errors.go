package uifilter

import (
	"errors"
)

// Compilation errors. They are derived from the request alone, so retrying never helps.
var (
	// ErrFieldResolution is returned when a filter references a field the FieldResolver cannot locate.
	ErrFieldResolution = errors.New("field could not be resolved")

	// ErrUnsupportedMatchMode is returned when a match mode is not applicable to the field's value category.
	ErrUnsupportedMatchMode = errors.New("match mode is not supported for this field")

	// ErrValueShape is returned when a criterion value does not have the shape its match mode requires.
	ErrValueShape = errors.New("filter value has the wrong shape")
)

// Filter model errors.
var (
	ErrNegativeOffset    = errors.New("offset must not be negative")
	ErrNegativePageSize  = errors.New("page size must not be negative")
	ErrEmptySortField    = errors.New("sort field must not be empty")
	ErrEmptyFieldName    = errors.New("filter field name must not be empty")
	ErrUnknownMatchMode  = errors.New("unknown match mode")
	ErrUnknownOperator   = errors.New("unknown filter operator")
	ErrInvalidFilterJSON = errors.New("filter json is not valid")
)

// Service errors.
var (
	ErrNilQueryExecutor      = errors.New("nil query executor supplied")
	ErrNilFieldResolver      = errors.New("nil field resolver supplied")
	ErrQueryingRecordsFailed = errors.New("querying records failed")
	ErrCountingRecordsFailed = errors.New("counting records failed")
)
