package postgresengine

import (
	"context"
	"errors"
	"strings"

	"github.com/doug-martin/goqu/v9"

	"github.com/AntonStoeckl/uifilter-go/uifilter"
)

const (
	defaultCatalogSchema = "public"
	infoSchema           = "information_schema"
	infoColumnsTable     = "columns"
	colTableSchema       = "table_schema"
	colTableName         = "table_name"
	colColumnName        = "column_name"
	colDataType          = "data_type"
	colOrdinalPosition   = "ordinal_position"
)

// CategoryForDataType maps a PostgreSQL data type, as reported by information_schema.columns, to a field category.
//
// Character types are text, numeric, date and time types are ordered, everything else
// (uuid, boolean, json, enums, arrays, ...) is opaque.
func CategoryForDataType(dataType string) uifilter.FieldValueCategory {
	switch strings.ToLower(strings.TrimSpace(dataType)) {
	case "text", "character varying", "varchar", "character", "char", "citext", "name":
		return uifilter.CategoryText

	case "smallint", "integer", "bigint", "numeric", "decimal", "real", "double precision", "money",
		"date", "interval", "time without time zone", "time with time zone",
		"timestamp without time zone", "timestamp with time zone":
		return uifilter.CategoryOrdered

	default:
		return uifilter.CategoryOpaque
	}
}

// ResolverFromDataTypes builds a FieldResolver from a column name to data type map.
// Mapped columns resolve under their field name.
func (e *Executor) ResolverFromDataTypes(dataTypes map[string]string) uifilter.StaticFieldResolver {
	resolver := make(uifilter.StaticFieldResolver, len(dataTypes))

	for column, dataType := range dataTypes {
		resolver[e.fieldFor(column)] = CategoryForDataType(dataType)
	}

	return resolver
}

// LoadColumnCatalog reads the columns of the given tables from information_schema and returns
// a FieldResolver over them. When several tables have a column of the same name, the table given
// first wins. Without WithSchema, tables are looked up in the public schema.
func (e *Executor) LoadColumnCatalog(ctx context.Context, tables ...string) (uifilter.FieldResolver, error) {
	if len(tables) == 0 {
		return nil, ErrNoTablesGiven
	}

	sqlQuery, buildErr := e.ToCatalogSQL(tables...)
	if buildErr != nil {
		e.logError(ctx, logMsgBuildCatalogFailed, buildErr)
		return nil, buildErr
	}

	rows, _, queryErr := e.executeQuery(ctx, sqlQuery, logActionCatalog)
	if queryErr != nil {
		return nil, queryErr
	}
	defer e.closeRows(ctx, rows)

	dataTypesPerTable := make(map[string]map[string]string, len(tables))

	for rows.Next() {
		var table, columnName, dataType string

		if scanErr := rows.Scan(&table, &columnName, &dataType); scanErr != nil {
			e.logError(ctx, logMsgScanRowFailed, scanErr, logAttrTable, table)
			return nil, errors.Join(ErrScanningDBRowFailed, scanErr)
		}

		if dataTypesPerTable[table] == nil {
			dataTypesPerTable[table] = make(map[string]string)
		}

		dataTypesPerTable[table][columnName] = dataType
	}

	if iterErr := rows.Err(); iterErr != nil {
		e.logError(ctx, logMsgScanRowFailed, iterErr)
		return nil, errors.Join(ErrScanningDBRowFailed, iterErr)
	}

	if len(dataTypesPerTable) == 0 {
		return nil, ErrNoColumnsFound
	}

	resolvers := make([]uifilter.FieldResolver, 0, len(tables))
	for _, table := range tables {
		if dataTypes, ok := dataTypesPerTable[table]; ok {
			resolvers = append(resolvers, e.ResolverFromDataTypes(dataTypes))
		}
	}

	return uifilter.ChainFieldResolvers(resolvers...), nil
}

// ToCatalogSQL builds the information_schema query LoadColumnCatalog runs.
func (e *Executor) ToCatalogSQL(tables ...string) (sqlQueryString, error) {
	schema := e.schema
	if schema == "" {
		schema = defaultCatalogSchema
	}

	catalogStmt := goqu.Dialect(dialectPostgres).
		From(goqu.S(infoSchema).Table(infoColumnsTable)).
		Select(colTableName, colColumnName, colDataType).
		Where(goqu.Ex{
			colTableSchema: schema,
			colTableName:   tables,
		}).
		Order(goqu.I(colTableName).Asc(), goqu.I(colOrdinalPosition).Asc())

	sqlQuery, _, toSQLErr := catalogStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}
