// Package config provides database configuration helpers for the heroes example.
//
// It contains factory functions for PostgreSQL connections with the three supported
// drivers (pgx.Pool, sql.DB, sqlx.DB). DSNs are read from the environment with local defaults.
package config
