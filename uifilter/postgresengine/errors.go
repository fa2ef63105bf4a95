package postgresengine

import "errors"

// ErrNilDatabaseConnection is returned when a nil database connection is supplied.
var ErrNilDatabaseConnection = errors.New("database connection must not be nil")

// ErrEmptyTableName is returned when an empty table name is supplied.
var ErrEmptyTableName = errors.New("table name must not be empty")

// ErrEmptyColumnName is returned when a column mapping maps a field to an empty column name.
var ErrEmptyColumnName = errors.New("column name must not be empty")

// ErrBuildingQueryFailed is returned when a query cannot be lowered into SQL.
var ErrBuildingQueryFailed = errors.New("building query failed")

// ErrUnsupportedPredicate is returned when a predicate node or comparison operator has no SQL form.
var ErrUnsupportedPredicate = errors.New("predicate cannot be expressed in SQL")

// ErrQueryingDatabaseFailed is returned when the database rejects a query.
var ErrQueryingDatabaseFailed = errors.New("querying database failed")

// ErrScanningDBRowFailed is returned when scanning a database row fails.
var ErrScanningDBRowFailed = errors.New("scanning db row failed")

// ErrNoTablesGiven is returned when a column catalog is requested without any table.
var ErrNoTablesGiven = errors.New("at least one table is required")

// ErrNoColumnsFound is returned when none of the requested tables has any column.
var ErrNoColumnsFound = errors.New("no columns found for the requested tables")
