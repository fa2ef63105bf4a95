// Package memoryengine provides an in-memory implementation of the uifilter.QueryExecutor interface.
//
// It evaluates compiled predicates directly against records held in memory, with the same
// semantics the SQL engine gets from PostgreSQL: missing or nil values never match a comparison,
// LIKE patterns support the % and _ wildcards, and nil values sort last in ascending order.
// It is useful for tests, for small reference tables and for data that was already loaded.
package memoryengine
