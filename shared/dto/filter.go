package dto

import (
	"fmt"
	"maps"
	"reflect"
	"strings"
)

const (
	FilterOperatorEq        = "eq"
	FilterOperatorLike      = "like"
	FilterOperatorIn        = "in"
	FilterOperatorNotEq     = "not_eq"
	FilterOperatorLessEq    = "less_eq"
	FilterOperatorGreaterEq = "greater_eq"
	FilterPlainQuery        = "plan"
	FilterIsNotNull         = "is_not_null"
	FilterIsNull            = "is_null"
)

const (
	FilterGroupOperatorAnd = "AND"
	FilterGroupOperatorOr  = "OR"
)

type Filter struct {
	ArgName  string
	Field    string
	Value    any
	Operator string `validate:"required,oneof=eq like in not_eq less_eq greater_eq"`
	Table    string
}

func (f *Filter) GetWhereClause() (string, map[string]any) {
	args := map[string]any{}

	column := f.Field
	if f.Table != "" {
		column = fmt.Sprintf("%s.%s", f.Table, f.Field)
	}

	argName := f.ArgName
	if argName == "" {
		argName = f.Field
	}

	switch f.Operator {
	case FilterOperatorEq:
		args[argName] = f.Value

		return fmt.Sprintf("%s = :%s", column, argName), args
	case FilterOperatorLike:
		args[argName] = fmt.Sprintf("%%%s%%", f.Value)

		return fmt.Sprintf("LOWER(%s) LIKE LOWER(:%s) ", column, argName), args
	case FilterOperatorIn:
		val := reflect.ValueOf(f.Value)
		vType := val.Type()

		switch vType.Kind() {
		case reflect.Array, reflect.Slice:
			named := make([]string, val.Len())

			for idx := range val.Len() {
				args[fmt.Sprintf("%s_%d", argName, idx)] = val.Index(idx).Interface()

				named[idx] = fmt.Sprintf(":%s_%d", argName, idx)
			}

			return fmt.Sprintf("%s IN (%s) ", column, strings.Join(named, ", ")), args
		default:
			return fmt.Sprintf("%s IN (%s) ", column, f.Value), args
		}
	case FilterOperatorNotEq:
		args[argName] = f.Value

		return fmt.Sprintf("%s != :%s", column, argName), args
	case FilterOperatorLessEq:
		args[argName] = f.Value

		return fmt.Sprintf("%s <= :%s", column, argName), args
	case FilterOperatorGreaterEq:
		args[argName] = f.Value

		return fmt.Sprintf("%s >= :%s", column, argName), args
	case FilterPlainQuery:
		query, _ := f.Value.(string)

		return fmt.Sprintf("(%s)", query), args
	case FilterIsNotNull:
		return column + " IS NOT NULL", args
	case FilterIsNull:
		return column + " IS NULL", args
	default:
		return "", args
	}
}

type FilterGroup struct {
	Filters  []any
	Operator string
}

// NewFilterGroup returns an empty group joined with operator.
func NewFilterGroup(operator string) FilterGroup {
	return FilterGroup{
		Operator: operator,
		Filters:  []any{},
	}
}

// Add appends filters or nested groups.
func (f *FilterGroup) Add(filters ...any) *FilterGroup {
	f.Filters = append(f.Filters, filters...)

	return f
}

// Empty reports whether the group produces no where clause.
func (f *FilterGroup) Empty() bool {
	return len(f.Filters) == 0
}

func Eq(table, field string, value any) Filter {
	return Filter{Table: table, Field: field, Operator: FilterOperatorEq, Value: value}
}

func Like(table, field string, value any) Filter {
	return Filter{Table: table, Field: field, Operator: FilterOperatorLike, Value: value}
}

func In(table, field string, value any) Filter {
	return Filter{Table: table, Field: field, Operator: FilterOperatorIn, Value: value}
}

// Gte and Lte take an explicit arg name so both bounds of one column can share a query.
func Gte(table, field, argName string, value any) Filter {
	return Filter{Table: table, Field: field, ArgName: argName, Operator: FilterOperatorGreaterEq, Value: value}
}

func Lte(table, field, argName string, value any) Filter {
	return Filter{Table: table, Field: field, ArgName: argName, Operator: FilterOperatorLessEq, Value: value}
}

// AnyLike matches value against any of the given columns.
func AnyLike(table string, value any, fields ...string) FilterGroup {
	group := NewFilterGroup(FilterGroupOperatorOr)

	for _, field := range fields {
		group.Add(Filter{
			Table:    table,
			Field:    field,
			ArgName:  "search_" + field,
			Operator: FilterOperatorLike,
			Value:    value,
		})
	}

	return group
}

func (f *FilterGroup) GetWhereClause() (string, map[string]any) {
	args := map[string]any{}
	whereClause := []string{}

	for _, filter := range f.Filters {
		switch fill := filter.(type) {
		case Filter:
			where, arg := fill.GetWhereClause()
			whereClause = append(whereClause, where)

			maps.Copy(args, arg)
		case FilterGroup:
			where, arg := fill.GetWhereClause()
			whereClause = append(whereClause, where)

			maps.Copy(args, arg)
		}
	}

	if len(whereClause) == 0 {
		return "", args
	}

	return fmt.Sprintf("(%s)", strings.Join(whereClause, " "+f.Operator+" ")), args
}
