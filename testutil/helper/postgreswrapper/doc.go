// Package postgreswrapper runs the PostgreSQL executor tests against each database adapter.
//
// The adapter types to test are taken from the ADAPTER_TYPE environment variable
// (pgxpool, sqldb or sqlx); all of them are tested when it is empty.
package postgreswrapper
