// Command heroes runs a UI filter request against a table of heroes in PostgreSQL
// and prints the requested page as JSON.
//
// Usage:
//
//	heroes -seed -filter '{"first":0,"rows":5,"sortFields":[{"field":"age","order":-1}],"filters":{"state":[{"value":"Massachusetts"}]}}'
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("heroes failed: %v", err)
	}
}

func run(args []string) error {
	cfg, err := parseConfig(args)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.Seed {
		if seedErr := seedHeroes(ctx, cfg); seedErr != nil {
			return fmt.Errorf("failed to seed heroes: %w", seedErr)
		}
	}

	obsConfig := cfg.newObservabilityConfig()

	executor, closeDB, err := initializeExecutor(ctx, cfg, obsConfig)
	if err != nil {
		return fmt.Errorf("failed to create executor: %w", err)
	}
	defer closeDB()

	service, err := initializeService(ctx, cfg, executor, obsConfig)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	filter, err := cfg.readFilter()
	if err != nil {
		return err
	}

	result, err := service.FindPage(ctx, filter)
	if err != nil {
		return err
	}

	return writeResult(os.Stdout, result)
}
