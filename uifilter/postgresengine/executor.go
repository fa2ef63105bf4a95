package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/uifilter-go/uifilter"
	"github.com/AntonStoeckl/uifilter-go/uifilter/postgresengine/internal/adapters"
)

const (
	logMsgBuildSelectQueryFailed = "failed to build select query"
	logMsgBuildCountQueryFailed  = "failed to build count query"
	logMsgBuildCatalogFailed     = "failed to build column catalog query"
	logMsgDBQueryFailed          = "database query execution failed"
	logMsgCloseRowsFailed        = "failed to close database rows"
	logMsgScanRowFailed          = "failed to scan database row"
	logMsgSQLExecuted            = "executed sql for: "
	logAttrError                 = "error"
	logAttrQuery                 = "query"
	logAttrDurationMS            = "duration_ms"
	logAttrTable                 = "table"
	logActionFind                = "find"
	logActionCount               = "count"
	logActionCatalog             = "catalog"
	dialectPostgres              = "postgres"
)

type (
	sqlQueryString = string
	queryDuration  = time.Duration
)

// Executor is a uifilter.QueryExecutor on top of a PostgreSQL table or view.
//
// It lowers the compiled plan into a single SQL statement with goqu and runs it through
// one of the supported database adapters. Records are keyed by field name.
type Executor struct {
	db               adapters.DBAdapter
	tableName        string
	schema           string
	columns          map[string]string // field -> column
	fields           map[string]string // column -> field
	selectedFields   []string
	logger           uifilter.Logger
	contextualLogger uifilter.ContextualLogger
}

// NewExecutorFromPGXPool creates a new Executor using a pgx Pool with optional configuration.
func NewExecutorFromPGXPool(db *pgxpool.Pool, tableName string, options ...Option) (*Executor, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newExecutor(adapters.NewPGXAdapter(db), tableName, options...)
}

// NewExecutorFromPGXPoolWithReplica creates a new Executor that sends its (read-only) queries to the replica pool.
func NewExecutorFromPGXPoolWithReplica(
	primary *pgxpool.Pool,
	replica *pgxpool.Pool,
	tableName string,
	options ...Option,
) (*Executor, error) {

	if primary == nil || replica == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newExecutor(adapters.NewPGXAdapterWithReplica(primary, replica), tableName, options...)
}

// NewExecutorFromSQLDB creates a new Executor using a sql.DB with optional configuration.
func NewExecutorFromSQLDB(db *sql.DB, tableName string, options ...Option) (*Executor, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newExecutor(adapters.NewSQLAdapter(db), tableName, options...)
}

// NewExecutorFromSQLX creates a new Executor using a sqlx.DB with optional configuration.
func NewExecutorFromSQLX(db *sqlx.DB, tableName string, options ...Option) (*Executor, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newExecutor(adapters.NewSQLXAdapter(db), tableName, options...)
}

func newExecutor(db adapters.DBAdapter, tableName string, options ...Option) (*Executor, error) {
	e := &Executor{
		db:      db,
		columns: make(map[string]string),
		fields:  make(map[string]string),
	}

	allOptions := append([]Option{WithTableName(tableName)}, options...)

	for _, option := range allOptions {
		if err := option(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Find returns the records matching plan.Predicate, ordered by plan.Sort and limited to plan.Page.
func (e *Executor) Find(ctx context.Context, plan uifilter.QueryPlan) (uifilter.Records, error) {
	sqlQuery, buildErr := e.ToSelectSQL(plan)
	if buildErr != nil {
		e.logError(ctx, logMsgBuildSelectQueryFailed, buildErr)
		return nil, buildErr
	}

	rows, _, queryErr := e.executeQuery(ctx, sqlQuery, logActionFind)
	if queryErr != nil {
		return nil, queryErr
	}
	defer e.closeRows(ctx, rows)

	return e.scanRecords(ctx, rows)
}

// Count returns the number of records matching predicate.
func (e *Executor) Count(ctx context.Context, predicate uifilter.Predicate) (int64, error) {
	sqlQuery, buildErr := e.ToCountSQL(predicate)
	if buildErr != nil {
		e.logError(ctx, logMsgBuildCountQueryFailed, buildErr)
		return 0, buildErr
	}

	rows, _, queryErr := e.executeQuery(ctx, sqlQuery, logActionCount)
	if queryErr != nil {
		return 0, queryErr
	}
	defer e.closeRows(ctx, rows)

	var count int64

	if rows.Next() {
		if scanErr := rows.Scan(&count); scanErr != nil {
			e.logError(ctx, logMsgScanRowFailed, scanErr)
			return 0, errors.Join(ErrScanningDBRowFailed, scanErr)
		}
	}

	if iterErr := rows.Err(); iterErr != nil {
		e.logError(ctx, logMsgScanRowFailed, iterErr)
		return 0, errors.Join(ErrScanningDBRowFailed, iterErr)
	}

	return count, nil
}

// executeQuery executes the SQL query and returns rows with timing information.
func (e *Executor) executeQuery(ctx context.Context, sqlQuery sqlQueryString, action string) (
	adapters.DBRows,
	queryDuration,
	error,
) {

	start := time.Now()
	rows, queryErr := e.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	e.logQueryWithDuration(ctx, sqlQuery, action, duration)

	if queryErr != nil {
		e.logError(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		return nil, duration, errors.Join(ErrQueryingDatabaseFailed, queryErr)
	}

	return rows, duration, nil
}

// closeRows closes database rows and logs any errors.
func (e *Executor) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		e.logWarn(ctx, logMsgCloseRowsFailed, closeErr)
	}
}

// scanRecords converts every row into a Record keyed by field name.
func (e *Executor) scanRecords(ctx context.Context, rows adapters.DBRows) (uifilter.Records, error) {
	columns, columnsErr := rows.Columns()
	if columnsErr != nil {
		e.logError(ctx, logMsgScanRowFailed, columnsErr)
		return nil, errors.Join(ErrScanningDBRowFailed, columnsErr)
	}

	records := make(uifilter.Records, 0)
	values := make([]any, len(columns))
	dest := make([]any, len(columns))

	for i := range values {
		dest[i] = &values[i]
	}

	for rows.Next() {
		if scanErr := rows.Scan(dest...); scanErr != nil {
			e.logError(ctx, logMsgScanRowFailed, scanErr)
			return nil, errors.Join(ErrScanningDBRowFailed, scanErr)
		}

		record := make(uifilter.Record, len(columns))
		for i, column := range columns {
			record[e.fieldFor(column)] = normalizeColumnValue(values[i])
		}

		records = append(records, record)
	}

	if iterErr := rows.Err(); iterErr != nil {
		e.logError(ctx, logMsgScanRowFailed, iterErr)
		return nil, errors.Join(ErrScanningDBRowFailed, iterErr)
	}

	return records, nil
}

func (e *Executor) columnFor(field string) string {
	if column, ok := e.columns[field]; ok {
		return column
	}

	return field
}

func (e *Executor) fieldFor(column string) string {
	if field, ok := e.fields[column]; ok {
		return field
	}

	return column
}

// normalizeColumnValue converts driver specific values into plain Go values.
func normalizeColumnValue(value any) any {
	switch v := value.(type) {
	case []byte:
		return string(v)

	case [16]byte:
		return uuid.UUID(v)

	case pgtype.Numeric:
		if f, err := v.Float64Value(); err == nil && f.Valid {
			return f.Float64
		}

		return v

	default:
		return value
	}
}
