// Curator - Product Recommendation and Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package query

import (
	"strings"
)

// WhereBuilder constructs SQL WHERE clauses with positional arguments.
// Column names are written verbatim and must be constants, never input.
//
//	wb := query.NewWhereBuilder().
//		AddIn("category", []string{"Books", "Kitchen"}).
//		AddNotIn("id", []string{"p-1"})
//	where, args := wb.BuildWithPrefix()
//	// WHERE category IN (?, ?) AND id NOT IN (?)
type WhereBuilder struct {
	clauses []string
	args    []interface{}
}

// NewWhereBuilder creates an empty builder.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{}
}

// AddClause adds a raw condition with its arguments.
func (wb *WhereBuilder) AddClause(clause string, args ...interface{}) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// AddIn adds "column IN (...)". An empty values slice adds nothing, so the
// filter is optional.
func (wb *WhereBuilder) AddIn(column string, values []string) *WhereBuilder {
	if len(values) == 0 {
		return wb
	}
	return wb.AddClause(column+" IN ("+Placeholders(len(values))+")", StringArgs(values)...)
}

// AddNotIn adds "column NOT IN (...)". An empty values slice adds nothing.
func (wb *WhereBuilder) AddNotIn(column string, values []string) *WhereBuilder {
	if len(values) == 0 {
		return wb
	}
	return wb.AddClause(column+" NOT IN ("+Placeholders(len(values))+")", StringArgs(values)...)
}

// AddEitherIn adds "(a IN (...) OR b IN (...))", binding values twice.
// Used for symmetric pair tables.
func (wb *WhereBuilder) AddEitherIn(a, b string, values []string) *WhereBuilder {
	if len(values) == 0 {
		return wb
	}
	in := Placeholders(len(values))
	args := make([]interface{}, 0, 2*len(values))
	args = append(args, StringArgs(values)...)
	args = append(args, StringArgs(values)...)
	return wb.AddClause("("+a+" IN ("+in+") OR "+b+" IN ("+in+"))", args...)
}

// Build joins the clauses with AND. It returns ("1=1", nil) when empty.
func (wb *WhereBuilder) Build() (string, []interface{}) {
	if len(wb.clauses) == 0 {
		return "1=1", nil
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// BuildWithPrefix is Build with a leading "WHERE ", or "" when empty.
func (wb *WhereBuilder) BuildWithPrefix() (string, []interface{}) {
	if wb.IsEmpty() {
		return "", nil
	}
	clause, args := wb.Build()
	return "WHERE " + clause, args
}

// Count returns the number of clauses.
func (wb *WhereBuilder) Count() int {
	return len(wb.clauses)
}

// IsEmpty reports whether no clause was added.
func (wb *WhereBuilder) IsEmpty() bool {
	return len(wb.clauses) == 0
}

// Placeholders returns n comma separated "?" markers.
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// StringArgs converts values to query arguments.
func StringArgs(values []string) []interface{} {
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}
