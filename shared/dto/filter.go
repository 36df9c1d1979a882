package dto

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
)

const (
	FilterOperatorEq        = "eq"
	FilterOperatorNotEq     = "not_eq"
	FilterOperatorLessEq    = "less_eq"
	FilterOperatorGreaterEq = "greater_eq"
	FilterOperatorLike      = "like"
	FilterOperatorIn        = "in"
	FilterOperatorIsNull    = "is_null"
)

const (
	FilterGroupOperatorAnd = "AND"
	FilterGroupOperatorOr  = "OR"
)

var comparisons = map[string]string{
	FilterOperatorEq:        "=",
	FilterOperatorNotEq:     "!=",
	FilterOperatorLessEq:    "<=",
	FilterOperatorGreaterEq: ">=",
}

// Filter is a single predicate on a column. ArgName defaults to Field and
// must be unique within a group.
type Filter struct {
	ArgName  string
	Field    string
	Value    any
	Operator string
	Table    string
}

func (f *Filter) column() string {
	if f.Table == "" {
		return f.Field
	}

	return f.Table + "." + f.Field
}

func (f *Filter) argName() string {
	if f.ArgName == "" {
		return f.Field
	}

	return f.ArgName
}

// GetWhereClause renders the predicate with named parameters. Unknown
// operators render nothing.
func (f *Filter) GetWhereClause() (string, map[string]any) {
	args := map[string]any{}
	name := f.argName()

	if symbol, ok := comparisons[f.Operator]; ok {
		args[name] = f.Value

		return fmt.Sprintf("%s %s :%s", f.column(), symbol, name), args
	}

	switch f.Operator {
	case FilterOperatorLike:
		args[name] = fmt.Sprintf("%%%v%%", f.Value)

		return fmt.Sprintf("LOWER(%s) LIKE LOWER(:%s)", f.column(), name), args
	case FilterOperatorIn:
		return f.in(name, args)
	case FilterOperatorIsNull:
		return f.column() + " IS NULL", args
	}

	return "", args
}

// in expands a slice value into one parameter per element. An empty slice
// matches nothing.
func (f *Filter) in(name string, args map[string]any) (string, map[string]any) {
	values := reflect.ValueOf(f.Value)
	if kind := values.Kind(); kind != reflect.Slice && kind != reflect.Array {
		return "", args
	}

	if values.Len() == 0 {
		return "FALSE", args
	}

	placeholders := make([]string, values.Len())

	for i := range values.Len() {
		arg := fmt.Sprintf("%s_%d", name, i)
		args[arg] = values.Index(i).Interface()
		placeholders[i] = ":" + arg
	}

	return fmt.Sprintf("%s IN (%s)", f.column(), strings.Join(placeholders, ", ")), args
}

// FilterGroup joins Filter and nested FilterGroup values with Operator,
// which defaults to AND.
type FilterGroup struct {
	Filters  []any
	Operator string
}

func And(filters ...any) FilterGroup {
	return FilterGroup{Filters: filters, Operator: FilterGroupOperatorAnd}
}

func Or(filters ...any) FilterGroup {
	return FilterGroup{Filters: filters, Operator: FilterGroupOperatorOr}
}

// Key renders the group deterministically, for use in cache keys.
func (f *FilterGroup) Key() string {
	where, args := f.GetWhereClause()

	names := slices.Sorted(maps.Keys(args))
	parts := make([]string, len(names))

	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%v", name, args[name])
	}

	return where + "|" + strings.Join(parts, "&")
}

func (f *FilterGroup) GetWhereClause() (string, map[string]any) {
	args := map[string]any{}
	clauses := []string{}

	for _, item := range f.Filters {
		var (
			clause string
			arg    map[string]any
		)

		switch v := item.(type) {
		case Filter:
			clause, arg = v.GetWhereClause()
		case FilterGroup:
			clause, arg = v.GetWhereClause()
		}

		if clause != "" {
			clauses = append(clauses, clause)
			maps.Copy(args, arg)
		}
	}

	if len(clauses) == 0 {
		return "", args
	}

	operator := f.Operator
	if operator == "" {
		operator = FilterGroupOperatorAnd
	}

	return "(" + strings.Join(clauses, " "+operator+" ") + ")", args
}
