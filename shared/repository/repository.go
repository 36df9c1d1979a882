// Package repository is the sqlx backed CRUD base embedded by the domain
// repositories. Columns come from the `db` tags of the model; fields tagged
// `table:"other" column:"name"` are read through the model's GetJoinQuery and
// never written.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/jmoiron/sqlx"

	"hostel/infras/otel"
	"hostel/infras/postgres"
	"hostel/shared/constant"
	"hostel/shared/dto"
	"hostel/shared/logger"
)

var errRequiredFilter = errors.New("required filter")

type column struct {
	name  string
	table string
	alias string
}

// key is the name the column is scanned into.
func (c column) key() string {
	if c.alias != "" {
		return c.alias
	}

	return c.name
}

func (c column) selectExpr() string {
	if c.alias != "" {
		return fmt.Sprintf("%s.%s AS %s", c.table, c.name, c.alias)
	}

	return fmt.Sprintf("%s.%s", c.table, c.name)
}

type namedExecer interface {
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
}

type namedPreparer interface {
	PrepareNamedContext(ctx context.Context, query string) (*sqlx.NamedStmt, error)
}

type Repository[T any] struct {
	db            *postgres.Connection
	otel          otel.Otel
	table         string
	entity        string
	primaryColumn string
	columns       []column
	join          string
	insertQuery   string
	InsertColumns []string
}

func NewRepository[T any](entityName, tableName, primaryColumn string, dbConnection *postgres.Connection, otl otel.Otel) Repository[T] {
	var zero T

	columns, insertColumns := getColumns(tableName, reflect.TypeOf(zero))

	join := ""
	if joiner, ok := any(zero).(interface{ GetJoinQuery() string }); ok {
		join = joiner.GetJoinQuery()
	}

	placeholders := make([]string, len(insertColumns))
	for i, col := range insertColumns {
		placeholders[i] = ":" + col
	}

	return Repository[T]{
		db:            dbConnection,
		otel:          otl,
		table:         tableName,
		entity:        entityName,
		primaryColumn: primaryColumn,
		columns:       columns,
		join:          join,
		insertQuery:   fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", tableName, strings.Join(insertColumns, ", "), strings.Join(placeholders, ", ")),
		InsertColumns: insertColumns,
	}
}

func (repo *Repository[T]) scope(ctx context.Context, op string) (context.Context, otel.Scope) {
	return repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.entity, op))
}

// fail records err on the scope and wraps it with the operation name.
func (repo *Repository[T]) fail(scope otel.Scope, op string, err error) error {
	logger.ErrorWithStack(err)
	scope.TraceError(err)

	return fmt.Errorf("failed to %s (%s): %w", op, repo.entity, err)
}

// read runs a named query against the read pool; dest is filled with get or
// select semantics.
func (repo *Repository[T]) read(ctx context.Context, scope otel.Scope, query string, args map[string]any, dest any, many bool) error {
	return repo.readFrom(ctx, repo.db.Read, scope, query, args, dest, many)
}

func (repo *Repository[T]) readFrom(ctx context.Context, from namedPreparer, scope otel.Scope, query string, args map[string]any, dest any, many bool) error {
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	stmt, err := from.PrepareNamedContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	if many {
		return stmt.SelectContext(ctx, dest, args) //nolint:wrapcheck
	}

	return stmt.GetContext(ctx, dest, args) //nolint:wrapcheck
}

func (repo *Repository[T]) Insert(ctx context.Context, model T) error {
	return repo.insert(ctx, "Insert", repo.db.Write, model)
}

func (repo *Repository[T]) InsertTx(ctx context.Context, tx *sqlx.Tx, model T) error {
	return repo.insert(ctx, "InsertTx", tx, model)
}

func (repo *Repository[T]) insert(ctx context.Context, op string, exec namedExecer, model T) error {
	ctx, scope := repo.scope(ctx, op)
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, repo.insertQuery)

	if _, err := exec.NamedExecContext(ctx, repo.insertQuery, model); err != nil {
		return repo.fail(scope, "insert data", err)
	}

	return nil
}

func (repo *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	ctx, scope := repo.scope(ctx, "Exist")
	defer scope.End()

	where, args := repo.BuildWhereClause(filter)
	if where == "" {
		return false, errRequiredFilter
	}

	var exist bool

	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s %s)", repo.table, where)
	if err := repo.read(ctx, scope, query, args, &exist, false); err != nil {
		return false, repo.fail(scope, "check exist data", err)
	}

	return exist, nil
}

// Get returns the first matching row, or the zero value when none matches.
func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	return repo.get(ctx, "Get", repo.db.Read, filter, columns...)
}

// GetTx is Get inside tx, so it sees the transaction's own writes and never
// lags behind on a replica.
func (repo *Repository[T]) GetTx(ctx context.Context, tx *sqlx.Tx, filter dto.FilterGroup, columns ...string) (T, error) {
	return repo.get(ctx, "GetTx", tx, filter, columns...)
}

func (repo *Repository[T]) get(ctx context.Context, op string, from namedPreparer, filter dto.FilterGroup, columns ...string) (T, error) {
	ctx, scope := repo.scope(ctx, op)
	defer scope.End()

	where, args := repo.BuildWhereClause(filter)

	var model T

	query := fmt.Sprintf("SELECT %s FROM %s %s %s", repo.selectClause(columns...), repo.table, repo.join, where)

	err := repo.readFrom(ctx, from, scope, query, args, &model, false)
	if errors.Is(err, sql.ErrNoRows) {
		return model, nil
	}

	if err != nil {
		return model, repo.fail(scope, "get data", err)
	}

	return model, nil
}

// GetAll lists matching rows. Page and limit are ignored when zero; the
// sort key must name a column of the base table.
func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	ctx, scope := repo.scope(ctx, "GetAll")
	defer scope.End()

	where, args := repo.BuildWhereClause(filter)

	var ordering, pagination string

	if params.Limit > 0 {
		args["limit"] = params.Limit
		pagination = "LIMIT :limit"

		if params.Page > 0 {
			args["offset"] = (params.Page - 1) * params.Limit
			pagination += " OFFSET :offset"
		}
	}

	if column := repo.sortColumn(params.SortBy); column != "" {
		dir := dto.SortDirAsc
		if params.SortDir == dto.SortDirDesc {
			dir = dto.SortDirDesc
		}

		ordering = fmt.Sprintf("ORDER BY %s %s", column, dir)
	}

	query := fmt.Sprintf("SELECT %s FROM %s %s %s %s %s", repo.selectClause(columns...), repo.table, repo.join, where, ordering, pagination)

	models := []T{}
	if err := repo.read(ctx, scope, query, args, &models, true); err != nil {
		return models, repo.fail(scope, "get all data", err)
	}

	return models, nil
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	ctx, scope := repo.scope(ctx, "Count")
	defer scope.End()

	where, args := repo.BuildWhereClause(filter)

	var count int

	query := fmt.Sprintf("SELECT COUNT(%s.%s) FROM %s %s %s", repo.table, repo.primaryColumn, repo.table, repo.join, where)
	if err := repo.read(ctx, scope, query, args, &count, false); err != nil {
		return 0, repo.fail(scope, "count data", err)
	}

	return count, nil
}

func (repo *Repository[T]) Delete(ctx context.Context, filter dto.FilterGroup) error {
	return repo.delete(ctx, "Delete", repo.db.Write, filter)
}

func (repo *Repository[T]) DeleteTx(ctx context.Context, tx *sqlx.Tx, filter dto.FilterGroup) error {
	return repo.delete(ctx, "DeleteTx", tx, filter)
}

func (repo *Repository[T]) delete(ctx context.Context, op string, exec namedExecer, filter dto.FilterGroup) error {
	ctx, scope := repo.scope(ctx, op)
	defer scope.End()

	where, args := repo.BuildWhereClause(filter)
	if where == "" {
		return errRequiredFilter
	}

	query := fmt.Sprintf("DELETE FROM %s %s", repo.table, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := exec.NamedExecContext(ctx, query, args); err != nil {
		return repo.fail(scope, "delete data", err)
	}

	return nil
}

func (repo *Repository[T]) Update(ctx context.Context, fields map[string]any, filter dto.FilterGroup) error {
	return repo.update(ctx, "Update", repo.db.Write, fields, filter)
}

func (repo *Repository[T]) UpdateTx(ctx context.Context, tx *sqlx.Tx, fields map[string]any, filter dto.FilterGroup) error {
	return repo.update(ctx, "UpdateTx", tx, fields, filter)
}

// update sets fields on every matching row. Values bind as set_<column> so
// they never collide with filter arguments.
func (repo *Repository[T]) update(ctx context.Context, op string, exec namedExecer, fields map[string]any, filter dto.FilterGroup) error {
	ctx, scope := repo.scope(ctx, op)
	defer scope.End()

	where, args := repo.BuildWhereClause(filter)
	if where == "" {
		return errRequiredFilter
	}

	names := slices.Sorted(maps.Keys(fields))
	assignments := make([]string, len(names))

	for i, name := range names {
		assignments[i] = fmt.Sprintf("%s = :set_%s", name, name)
		args["set_"+name] = fields[name]
	}

	query := fmt.Sprintf("UPDATE %s SET %s %s", repo.table, strings.Join(assignments, ", "), where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := exec.NamedExecContext(ctx, query, args); err != nil {
		return repo.fail(scope, "update data", err)
	}

	return nil
}

func (repo *Repository[T]) selectClause(only ...string) string {
	exprs := make([]string, 0, len(repo.columns))

	for _, col := range repo.columns {
		if len(only) > 0 && !slices.Contains(only, col.key()) {
			continue
		}

		exprs = append(exprs, col.selectExpr())
	}

	return strings.Join(exprs, ", ")
}

// sortColumn resolves a client supplied sort key to a qualified column of the
// base table. Unknown keys yield an empty string.
func (repo *Repository[T]) sortColumn(sortBy string) string {
	if sortBy == "" {
		return ""
	}

	for _, col := range repo.columns {
		if col.table == repo.table && col.name == sortBy {
			return col.selectExpr()
		}
	}

	return ""
}

// BuildWhereClause renders filter as a WHERE clause with named arguments.
func (repo *Repository[T]) BuildWhereClause(filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()
	if where == "" {
		return "", map[string]any{}
	}

	return fmt.Sprintf(" WHERE %s ", where), args
}

func getColumns(table string, reflectType reflect.Type) (columns []column, insertColumns []string) {
	for i := range reflectType.NumField() {
		field := reflectType.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			embedded, embeddedInsert := getColumns(table, field.Type)
			columns = append(columns, embedded...)
			insertColumns = append(insertColumns, embeddedInsert...)

			continue
		}

		dbTag := field.Tag.Get("db")
		if dbTag == "" || dbTag == "-" {
			continue
		}

		source := field.Tag.Get("table")
		if source == "" || source == table {
			columns = append(columns, column{name: dbTag, table: table})
			insertColumns = append(insertColumns, dbTag)

			continue
		}

		name := field.Tag.Get("column")
		if name == "" {
			name = dbTag
		}

		columns = append(columns, column{name: name, table: source, alias: dbTag})
	}

	return columns, insertColumns
}
