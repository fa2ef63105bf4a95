// Package postgresengine provides a PostgreSQL implementation of the uifilter.QueryExecutor interface.
//
// A compiled uifilter.QueryPlan is lowered into one SQL statement with goqu: the predicate tree
// becomes the WHERE clause (case-insensitive comparisons compare LOWER(column)), the sort
// specification becomes ORDER BY and the page window becomes LIMIT/OFFSET. The statement is
// executed through one of the supported database adapters (pgx.Pool with an optional read
// replica, sql.DB, sqlx.DB).
//
// Key features:
//   - Multiple database adapter support (PGX, SQL, SQLX)
//   - Field to column mapping, so UI field names do not need to match column names
//   - Column catalog loaded from information_schema as a uifilter.FieldResolver
//   - Dual-logger support (plain and contextual)
//
// Usage examples:
//
//	db, _ := pgxpool.New(context.Background(), dsn)
//	executor, _ := postgresengine.NewExecutorFromPGXPool(
//		db,
//		"heroes",
//		postgresengine.WithColumnMapping(map[string]string{"alterEgo": "alter_ego"}),
//	)
//
//	resolver, _ := executor.LoadColumnCatalog(ctx, "heroes")
//	service, _ := uifilter.NewService(executor, resolver, uifilter.WithGlobalAttributes("name", "power"))
//	page, _ := service.FindPage(ctx, filter)
package postgresengine
