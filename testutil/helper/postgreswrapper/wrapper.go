package postgreswrapper

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // postgres dialect
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/uifilter-go/testutil/helper"
	"github.com/AntonStoeckl/uifilter-go/uifilter"
	. "github.com/AntonStoeckl/uifilter-go/uifilter/postgresengine" //nolint:revive
)

// Adapter type constants, as given in the ADAPTER_TYPE environment variable.
const (
	TypePGXPool = "pgxpool"
	TypeSQLDB   = "sqldb"
	TypeSQLX    = "sqlx"
)

const (
	envAdapterType = "ADAPTER_TYPE"
	envTestDSN     = "UIFILTER_TEST_POSTGRES_DSN"
	columnAlterEgo = "alter_ego"
)

const createHeroTable = `CREATE TABLE %s (
	id uuid PRIMARY KEY,
	name text NOT NULL,
	power text NOT NULL,
	alter_ego text NOT NULL,
	state text NOT NULL,
	age integer NOT NULL,
	birthday date NOT NULL,
	status text NOT NULL
)`

// Wrapper abstracts over the database handles of the different adapter types.
type Wrapper interface {
	AdapterType() string
	NewExecutor(table string, options ...Option) (*Executor, error)
	Exec(ctx context.Context, query string, args ...any) error
	Close()
}

// PGXPoolWrapper wraps a pgxpool.Pool.
type PGXPoolWrapper struct {
	pool *pgxpool.Pool
}

func (w *PGXPoolWrapper) AdapterType() string {
	return TypePGXPool
}

func (w *PGXPoolWrapper) NewExecutor(table string, options ...Option) (*Executor, error) {
	return NewExecutorFromPGXPool(w.pool, table, options...)
}

func (w *PGXPoolWrapper) Exec(ctx context.Context, query string, args ...any) error {
	_, err := w.pool.Exec(ctx, query, args...)
	return err
}

func (w *PGXPoolWrapper) Close() {
	w.pool.Close()
}

// SQLDBWrapper wraps a sql.DB.
type SQLDBWrapper struct {
	db *sql.DB
}

func (w *SQLDBWrapper) AdapterType() string {
	return TypeSQLDB
}

func (w *SQLDBWrapper) NewExecutor(table string, options ...Option) (*Executor, error) {
	return NewExecutorFromSQLDB(w.db, table, options...)
}

func (w *SQLDBWrapper) Exec(ctx context.Context, query string, args ...any) error {
	_, err := w.db.ExecContext(ctx, query, args...)
	return err
}

func (w *SQLDBWrapper) Close() {
	_ = w.db.Close() // ignore error
}

// SQLXWrapper wraps a sqlx.DB.
type SQLXWrapper struct {
	db *sqlx.DB
}

func (w *SQLXWrapper) AdapterType() string {
	return TypeSQLX
}

func (w *SQLXWrapper) NewExecutor(table string, options ...Option) (*Executor, error) {
	return NewExecutorFromSQLX(w.db, table, options...)
}

func (w *SQLXWrapper) Exec(ctx context.Context, query string, args ...any) error {
	_, err := w.db.ExecContext(ctx, query, args...)
	return err
}

func (w *SQLXWrapper) Close() {
	_ = w.db.Close() // ignore error
}

// TestDSN returns the DSN from UIFILTER_TEST_POSTGRES_DSN and skips the test when it is not set.
func TestDSN(t testing.TB) string {
	dsn := os.Getenv(envTestDSN)
	if dsn == "" {
		t.Skipf("%s is not set", envTestDSN)
	}

	return dsn
}

// AdapterTypesFromEnv returns the adapter type from ADAPTER_TYPE, or all adapter types when it is empty.
func AdapterTypesFromEnv() []string {
	if adapterType := strings.ToLower(os.Getenv(envAdapterType)); adapterType != "" {
		return []string{adapterType}
	}

	return []string{TypePGXPool, TypeSQLDB, TypeSQLX}
}

// CreateWrapper connects to dsn with the given adapter type. The connection is closed when the test ends.
func CreateWrapper(t testing.TB, adapterType, dsn string) Wrapper {
	ctx := context.Background()

	var wrapper Wrapper

	switch adapterType {
	case TypePGXPool:
		pool, err := pgxpool.New(ctx, dsn)
		require.NoError(t, err, "error connecting to DB pool in test setup")
		wrapper = &PGXPoolWrapper{pool: pool}

	case TypeSQLDB:
		db, err := sql.Open("postgres", dsn)
		require.NoError(t, err, "error connecting to DB in test setup")
		wrapper = &SQLDBWrapper{db: db}

	case TypeSQLX:
		db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
		require.NoError(t, err, "error connecting to DB in test setup")
		wrapper = &SQLXWrapper{db: db}

	default:
		panic(fmt.Sprintf("unsupported wrapper type: %s", adapterType))
	}

	t.Cleanup(wrapper.Close)

	return wrapper
}

// GivenHeroTable creates a fresh hero table, fills it with the hero fixtures and returns its name.
// The alterEgo field is stored in the alter_ego column. The table is dropped when the test ends.
func GivenHeroTable(t testing.TB, wrapper Wrapper) (string, uifilter.Records) {
	ctx := context.Background()
	table := fmt.Sprintf("heroes_%s_%d", wrapper.AdapterType(), time.Now().UnixNano())
	quoted := pgx.Identifier{table}.Sanitize()

	require.NoError(t, wrapper.Exec(ctx, fmt.Sprintf(createHeroTable, quoted)), "error in arranging test data")

	t.Cleanup(func() {
		assert.NoError(t, wrapper.Exec(context.Background(), "DROP TABLE IF EXISTS "+quoted), "error cleaning up the hero table")
	})

	heroes := helper.GivenHeroes(t)
	rows := make([]any, 0, len(heroes))

	for _, hero := range heroes {
		rows = append(rows, goqu.Record{
			helper.FieldID:       fmt.Sprint(hero[helper.FieldID]),
			helper.FieldName:     hero[helper.FieldName],
			helper.FieldPower:    hero[helper.FieldPower],
			columnAlterEgo:       hero[helper.FieldAlterEgo],
			helper.FieldState:    hero[helper.FieldState],
			helper.FieldAge:      hero[helper.FieldAge],
			helper.FieldBirthday: hero[helper.FieldBirthday],
			helper.FieldStatus:   hero[helper.FieldStatus],
		})
	}

	insertSQL, args, err := goqu.Dialect("postgres").Insert(goqu.T(table)).Prepared(true).Rows(rows...).ToSQL()
	require.NoError(t, err, "error in arranging test data")
	require.NoError(t, wrapper.Exec(ctx, insertSQL, args...), "error in arranging test data")

	return table, heroes
}

// HeroColumnMapping maps the hero fields to the columns of GivenHeroTable.
func HeroColumnMapping() Option {
	return WithColumnMapping(map[string]string{helper.FieldAlterEgo: columnAlterEgo})
}
