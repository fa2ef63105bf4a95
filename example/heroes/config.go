package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"

	"github.com/AntonStoeckl/uifilter-go/example/heroes/config"
	"github.com/AntonStoeckl/uifilter-go/uifilter"
	"github.com/AntonStoeckl/uifilter-go/uifilter/oteladapters"
)

const (
	adapterPGX  = "pgx"
	adapterSQL  = "sql"
	adapterSQLX = "sqlx"

	defaultTableName = "heroes"
	defaultFilter    = `{"first":0,"rows":10}`
	instrumentation  = "uifilter-heroes-example"
)

var errUnknownAdapter = errors.New("unknown database adapter")

// Config holds the command-line configuration of the heroes example.
type Config struct {
	DSN                  string
	ReplicaDSN           string
	Adapter              string
	TableName            string
	FilterJSON           string
	FilterFile           string
	Seed                 bool
	StaticResolver       bool
	Verbose              bool
	ObservabilityEnabled bool
}

// ObservabilityConfig holds the observability adapters for the service and the executor.
type ObservabilityConfig struct {
	Logger           uifilter.Logger
	ContextualLogger uifilter.ContextualLogger
	MetricsCollector uifilter.MetricsCollector
	TracingCollector uifilter.TracingCollector
}

func parseConfig(args []string) (Config, error) {
	replicaDSN, _ := config.PostgresReplicaDSN()

	cfg := Config{}
	flags := flag.NewFlagSet("heroes", flag.ContinueOnError)

	flags.StringVar(&cfg.DSN, "dsn", config.PostgresDSN(), "PostgreSQL DSN (env HEROES_POSTGRES_DSN)")
	flags.StringVar(&cfg.ReplicaDSN, "replica-dsn", replicaDSN, "read replica DSN, pgx only (env HEROES_POSTGRES_REPLICA_DSN)")
	flags.StringVar(&cfg.Adapter, "adapter", adapterPGX, "database adapter: pgx, sql or sqlx")
	flags.StringVar(&cfg.TableName, "table", defaultTableName, "table to query")
	flags.StringVar(&cfg.FilterJSON, "filter", defaultFilter, "filter request as JSON")
	flags.StringVar(&cfg.FilterFile, "filter-file", "", "read the filter request from a file, - for stdin")
	flags.BoolVar(&cfg.Seed, "seed", false, "(re)create the table and fill it with demo heroes")
	flags.BoolVar(&cfg.StaticResolver, "static-resolver", false, "use the built-in field catalog instead of reading information_schema")
	flags.BoolVar(&cfg.Verbose, "verbose", false, "log compiled plans and SQL to stderr")
	flags.BoolVar(&cfg.ObservabilityEnabled, "observability-enabled", false, "report through the global OpenTelemetry providers")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	switch cfg.Adapter {
	case adapterPGX, adapterSQL, adapterSQLX:
	default:
		return Config{}, fmt.Errorf("%w: %q", errUnknownAdapter, cfg.Adapter)
	}

	return cfg, nil
}

// readFilter decodes the filter request from FilterFile if set, else from FilterJSON.
func (c Config) readFilter() (uifilter.Filter, error) {
	data := []byte(c.FilterJSON)

	switch c.FilterFile {
	case "":
	case "-":
		stdin, err := io.ReadAll(os.Stdin)
		if err != nil {
			return uifilter.Filter{}, fmt.Errorf("failed to read filter from stdin: %w", err)
		}

		data = stdin

	default:
		file, err := os.ReadFile(c.FilterFile)
		if err != nil {
			return uifilter.Filter{}, fmt.Errorf("failed to read filter file: %w", err)
		}

		data = file
	}

	return uifilter.DecodeFilter(data)
}

func (c Config) newObservabilityConfig() ObservabilityConfig {
	obsConfig := ObservabilityConfig{}

	if c.Verbose {
		obsConfig.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	if c.ObservabilityEnabled {
		obsConfig.ContextualLogger = oteladapters.NewSlogBridgeLogger(instrumentation)
		obsConfig.MetricsCollector = oteladapters.NewMetricsCollector(otel.Meter(instrumentation))
		obsConfig.TracingCollector = oteladapters.NewTracingCollector(otel.Tracer(instrumentation))
	}

	return obsConfig
}
