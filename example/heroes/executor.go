package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AntonStoeckl/uifilter-go/example/heroes/config"
	"github.com/AntonStoeckl/uifilter-go/uifilter"
	"github.com/AntonStoeckl/uifilter-go/uifilter/postgresengine"
)

const (
	fieldID       = "id"
	fieldName     = "name"
	fieldPower    = "power"
	fieldAlterEgo = "alterEgo"
	fieldState    = "state"
	fieldAge      = "age"
	fieldBirthday = "birthday"
	fieldStatus   = "status"
)

// heroColumns maps the filter fields that differ from their column names.
var heroColumns = map[string]string{fieldAlterEgo: "alter_ego"}

// heroCatalog is used when the field catalog is not read from information_schema.
var heroCatalog = uifilter.StaticFieldResolver{
	fieldID:       uifilter.CategoryOpaque,
	fieldName:     uifilter.CategoryText,
	fieldPower:    uifilter.CategoryText,
	fieldAlterEgo: uifilter.CategoryText,
	fieldState:    uifilter.CategoryText,
	fieldAge:      uifilter.CategoryOrdered,
	fieldBirthday: uifilter.CategoryOrdered,
	fieldStatus:   uifilter.CategoryOpaque,
}

func executorOptions(obsConfig ObservabilityConfig) []postgresengine.Option {
	options := []postgresengine.Option{postgresengine.WithColumnMapping(heroColumns)}

	if obsConfig.Logger != nil {
		options = append(options, postgresengine.WithLogger(obsConfig.Logger))
	}

	if obsConfig.ContextualLogger != nil {
		options = append(options, postgresengine.WithContextualLogger(obsConfig.ContextualLogger))
	}

	return options
}

// initializeExecutor connects with the configured adapter and returns the executor with a cleanup func.
func initializeExecutor(
	ctx context.Context,
	cfg Config,
	obsConfig ObservabilityConfig,
) (*postgresengine.Executor, func(), error) {

	options := executorOptions(obsConfig)

	switch cfg.Adapter {
	case adapterSQL:
		db, err := config.PostgresSQLDBConfig(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect with database/sql: %w", err)
		}

		executor, err := postgresengine.NewExecutorFromSQLDB(db, cfg.TableName, options...)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		return executor, closeWithLog("sql.DB", db.Close), nil

	case adapterSQLX:
		db, err := config.PostgresSQLXConfig(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect with sqlx: %w", err)
		}

		executor, err := postgresengine.NewExecutorFromSQLX(db, cfg.TableName, options...)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		return executor, closeWithLog("sqlx.DB", db.Close), nil

	default:
		return initializePGXExecutor(ctx, cfg, options)
	}
}

func initializePGXExecutor(
	ctx context.Context,
	cfg Config,
	options []postgresengine.Option,
) (*postgresengine.Executor, func(), error) {

	primary, err := newPGXPool(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to primary database: %w", err)
	}

	if cfg.ReplicaDSN == "" {
		executor, executorErr := postgresengine.NewExecutorFromPGXPool(primary, cfg.TableName, options...)
		if executorErr != nil {
			primary.Close()
			return nil, nil, executorErr
		}

		return executor, primary.Close, nil
	}

	replica, err := newPGXPool(ctx, cfg.ReplicaDSN)
	if err != nil {
		primary.Close()
		return nil, nil, fmt.Errorf("failed to connect to replica database: %w", err)
	}

	closePools := func() {
		replica.Close()
		primary.Close()
	}

	executor, err := postgresengine.NewExecutorFromPGXPoolWithReplica(primary, replica, cfg.TableName, options...)
	if err != nil {
		closePools()
		return nil, nil, err
	}

	return executor, closePools, nil
}

func newPGXPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	poolConfig, err := config.PostgresPGXPoolConfig(dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}

	if pingErr := pool.Ping(ctx); pingErr != nil {
		pool.Close()
		return nil, pingErr
	}

	return pool, nil
}

// initializeService builds the service with the global search over name, power and alter ego.
func initializeService(
	ctx context.Context,
	cfg Config,
	executor *postgresengine.Executor,
	obsConfig ObservabilityConfig,
) (*uifilter.Service, error) {

	resolver := uifilter.FieldResolver(heroCatalog)

	if !cfg.StaticResolver {
		catalog, err := executor.LoadColumnCatalog(ctx, cfg.TableName)
		if err != nil {
			return nil, fmt.Errorf("failed to load the column catalog: %w", err)
		}

		resolver = catalog
	}

	options := []uifilter.Option{
		uifilter.WithGlobalAttributes(fieldName, fieldPower, fieldAlterEgo),
		uifilter.WithDefaultSortField(fieldName),
	}

	if obsConfig.Logger != nil {
		options = append(options, uifilter.WithLogger(obsConfig.Logger))
	}

	if obsConfig.ContextualLogger != nil {
		options = append(options, uifilter.WithContextualLogger(obsConfig.ContextualLogger))
	}

	if obsConfig.MetricsCollector != nil {
		options = append(options, uifilter.WithMetrics(obsConfig.MetricsCollector))
	}

	if obsConfig.TracingCollector != nil {
		options = append(options, uifilter.WithTracing(obsConfig.TracingCollector))
	}

	return uifilter.NewService(executor, resolver, options...)
}

func closeWithLog(name string, closeFn func() error) func() {
	return func() {
		if err := closeFn(); err != nil {
			log.Printf("failed to close %s: %v", name, err)
		}
	}
}
