// Package database builds parameterized SELECT statements with sanitized identifiers.
// Placeholders are emitted PostgreSQL style ($1, $2, ...); callers targeting other
// dialects rebind them before execution.
package database

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
)

type ConditionType string

const (
	Equal        ConditionType = "="
	In           ConditionType = "IN"
	defaultLimit               = -1
	// maxAliasParts is the maximum number of parts when splitting on " AS ".
	maxAliasParts = 2
)

var asRegex = regexp.MustCompile(`(?i)\s+AS\s+`)

type Condition struct {
	Field string
	Type  ConditionType
	Value any
}

func WhereCond(field string, condType ConditionType, value any) Condition {
	return Condition{
		Field: field,
		Type:  condType,
		Value: value,
	}
}

// JoinType selects the SQL join flavor.
type JoinType string

const InnerJoin JoinType = "JOIN"

// Join describes "<Type> Table ON Left = Right" with qualified column references.
type Join struct {
	Type  JoinType
	Table string
	Left  string
	Right string
}

type ListQueryOptions struct {
	Table      string
	Columns    []string
	Joins      []Join
	Conditions []Condition
	OrderBy    []string
	OrderDir   string
	Limit      int
}

type ListQueryOption func(*ListQueryOptions)

func NewListQueryOptions(table string, opts ...ListQueryOption) *ListQueryOptions {
	options := &ListQueryOptions{
		Table:      table,
		Columns:    []string{},
		Conditions: []Condition{},
		Limit:      defaultLimit,
	}

	for _, opt := range opts {
		opt(options)
	}
	return options
}

// WithColumns sets the columns to select.
func WithColumns(cols ...string) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.Columns = cols
	}
}

// WithJoin appends a join on left = right.
func WithJoin(joinType JoinType, table, left, right string) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.Joins = append(o.Joins, Join{Type: joinType, Table: table, Left: left, Right: right})
	}
}

// WithCondition adds a single condition.
func WithCondition(cond Condition) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.Conditions = append(o.Conditions, cond)
	}
}

// WithConditions sets the entire list of conditions.
func WithConditions(conds ...Condition) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.Conditions = conds
	}
}

// WithOrderBy sets the ordering columns and a direction applied to the last column.
func WithOrderBy(direction string, columns ...string) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.OrderBy = columns
		o.OrderDir = direction
	}
}

// WithLimit sets the limit. Accepts 0.
func WithLimit(limit int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if limit >= 0 {
			o.Limit = limit
		}
	}
}

// sanitizeIdentifier sanitizes qualified identifiers like "table.column" by quoting each part.
func sanitizeIdentifier(ident string) string {
	return pgx.Identifier(strings.Split(ident, ".")).Sanitize()
}

// processColumnSpec handles "column" and "table.column AS alias" forms.
func processColumnSpec(columnSpec string) string {
	if asRegex.MatchString(columnSpec) {
		parts := asRegex.Split(columnSpec, maxAliasParts)
		if len(parts) == maxAliasParts {
			expr := sanitizeIdentifier(strings.TrimSpace(parts[0]))
			alias := pgx.Identifier{strings.TrimSpace(parts[1])}.Sanitize()
			return fmt.Sprintf("%s AS %s", expr, alias)
		}
	}
	return sanitizeIdentifier(columnSpec)
}

// buildSelectClause generates the SELECT part of the query with sanitized columns.
func buildSelectClause(options *ListQueryOptions) string {
	if len(options.Columns) == 0 {
		return "SELECT * "
	}

	processedColumns := make([]string, len(options.Columns))
	for i, col := range options.Columns {
		processedColumns[i] = processColumnSpec(col)
	}

	return fmt.Sprintf("SELECT %s ", strings.Join(processedColumns, ", "))
}

func buildJoinClause(joins []Join) string {
	var clause strings.Builder
	for _, j := range joins {
		if j.Table == "" || j.Left == "" || j.Right == "" {
			continue
		}
		fmt.Fprintf(&clause, " %s %s ON %s = %s",
			InnerJoin, sanitizeIdentifier(j.Table), sanitizeIdentifier(j.Left), sanitizeIdentifier(j.Right))
	}
	return clause.String()
}

// buildPaginationAndOrderClause generates ORDER BY and LIMIT parts with sanitized OrderBy and validated OrderDir.
func buildPaginationAndOrderClause(
	options *ListQueryOptions,
	startParamIndex int,
	initialArgs []any,
) (string, []any) {
	var clause strings.Builder
	args := initialArgs
	paramCount := startParamIndex

	if len(options.OrderBy) > 0 {
		cols := make([]string, len(options.OrderBy))
		for i, c := range options.OrderBy {
			cols[i] = sanitizeIdentifier(c)
		}
		clause.WriteString(" ORDER BY ")
		clause.WriteString(strings.Join(cols, ", "))
		upperOrderDir := strings.ToUpper(options.OrderDir)
		if upperOrderDir == "ASC" || upperOrderDir == "DESC" {
			clause.WriteString(" ")
			clause.WriteString(upperOrderDir)
		}
	}

	if options.Limit != defaultLimit {
		fmt.Fprintf(&clause, " LIMIT $%d", paramCount)
		args = append(args, options.Limit)
	}

	return clause.String(), args
}

// BuildListQuery constructs a SQL query string and arguments from options, sanitizing identifiers.
// It handles SELECT, JOIN, WHERE, ORDER BY and LIMIT clauses.
//
// Example usage:
//
//	options := NewListQueryOptions("working_document",
//		WithColumns("working_document.id", "job.title AS job_title"),
//		WithJoin(InnerJoin, "job_document_relation", "job_document_relation.document_id", "working_document.id"),
//		WithJoin(InnerJoin, "job", "job.id", "job_document_relation.job_id"),
//		WithCondition(WhereCond("job.id", In, []int64{1, 2})),
//		WithOrderBy("ASC", "working_document.id", "job.id"),
//	)
//
//	query, args := BuildListQuery(options)
func BuildListQuery(options *ListQueryOptions) (string, []any) {
	if options == nil {
		return "", nil
	}

	var query strings.Builder

	query.WriteString(buildSelectClause(options))
	query.WriteString("FROM ")
	query.WriteString(sanitizeIdentifier(options.Table))
	query.WriteString(buildJoinClause(options.Joins))

	whereClause, whereArgs, nextParamCount := buildWhereClause(options.Conditions, 1)
	if whereClause != "" {
		query.WriteString(" ")
		query.WriteString(whereClause)
	}

	paginationOrderClause, finalArgs := buildPaginationAndOrderClause(
		options,
		nextParamCount,
		whereArgs,
	)
	query.WriteString(paginationOrderClause)

	return query.String(), finalArgs
}

func handleStandardCondition(
	cond Condition,
	sanitizedField string,
	paramCount int,
) (string, []any, int) {
	conditionStr := fmt.Sprintf("%s %s $%d", sanitizedField, cond.Type, paramCount)
	return conditionStr, []any{cond.Value}, paramCount + 1
}

// handleInCondition emits one placeholder per element; an empty slice matches nothing.
func handleInCondition(cond Condition, sanitizedField string, paramCount int) (string, []any, int) {
	rv := reflect.ValueOf(cond.Value)
	if rv.Kind() != reflect.Slice {
		return "", []any{}, paramCount
	}
	if rv.Len() == 0 {
		return "1 = 0", []any{}, paramCount
	}

	placeholders := make([]string, rv.Len())
	args := make([]any, rv.Len())
	currentParam := paramCount
	for i := range rv.Len() {
		placeholders[i] = fmt.Sprintf("$%d", currentParam)
		args[i] = rv.Index(i).Interface()
		currentParam++
	}
	conditionStr := fmt.Sprintf("%s IN (%s)", sanitizedField, strings.Join(placeholders, ", "))
	return conditionStr, args, currentParam
}

// processCondition processes a single condition and returns the SQL string, args, and next param count.
func processCondition(cond Condition, paramCount int) (string, []any, int) {
	if cond.Field == "" {
		return "", []any{}, paramCount
	}
	sanitizedField := sanitizeIdentifier(cond.Field)

	switch cond.Type {
	case In:
		return handleInCondition(cond, sanitizedField, paramCount)
	case Equal:
		return handleStandardCondition(cond, sanitizedField, paramCount)
	}
	return "", []any{}, paramCount
}

// buildWhereClause generates the WHERE part of the query with sanitized fields and manages parameters.
func buildWhereClause(inputConditions []Condition, startParamIndex int) (string, []any, int) {
	conditions := make([]string, 0, len(inputConditions))
	args := []any{}
	paramCount := startParamIndex

	for _, cond := range inputConditions {
		conditionStr, newArgs, nextParamCount := processCondition(cond, paramCount)
		if conditionStr != "" {
			conditions = append(conditions, conditionStr)
			args = append(args, newArgs...)
			paramCount = nextParamCount
		}
	}

	if len(conditions) == 0 {
		return "", args, paramCount
	}
	return "WHERE " + strings.Join(conditions, " AND "), args, paramCount
}
