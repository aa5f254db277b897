// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package datatable

import (
	"fmt"
	"strconv"
	"strings"
)

// Filter decides whether a row is kept.
type Filter interface {
	// Evaluate reports whether row passes. columnNames parallels row.
	Evaluate(row []Value, columnNames []string) (bool, error)

	// Description returns a human-readable form of the filter.
	Description() string
}

// CompOp is a comparison operator.
type CompOp int

const (
	OpEqual CompOp = iota
	OpNotEqual
	OpGreater
	OpLess
	OpGreaterEqual
	OpLessEqual
	OpContains
)

var opSymbols = []struct {
	op     CompOp
	symbol string
}{
	{OpGreaterEqual, ">="},
	{OpLessEqual, "<="},
	{OpNotEqual, "!="},
	{OpEqual, "="},
	{OpGreater, ">"},
	{OpLess, "<"},
	{OpContains, "~"},
}

// String returns the operator symbol.
func (op CompOp) String() string {
	for _, s := range opSymbols {
		if s.op == op {
			return s.symbol
		}
	}
	return fmt.Sprintf("op(%d)", int(op))
}

// Comparison compares one column, or every column when Column is empty,
// against a literal. Values are compared through their formatted text.
type Comparison struct {
	Column   string
	Operator CompOp
	Value    string
}

// Evaluate implements Filter.
func (c *Comparison) Evaluate(row []Value, columnNames []string) (bool, error) {
	if c.Column == "" {
		needle := strings.ToLower(c.Value)
		for _, v := range row {
			if strings.Contains(strings.ToLower(v.Formatted), needle) {
				return true, nil
			}
		}
		return false, nil
	}

	idx := -1
	for i, name := range columnNames {
		if strings.EqualFold(name, c.Column) {
			idx = i
			break
		}
	}
	if idx < 0 || idx >= len(row) {
		return false, fmt.Errorf("%w: %s", ErrColumnNotFound, c.Column)
	}
	cell := row[idx].Formatted

	switch c.Operator {
	case OpEqual:
		return strings.EqualFold(cell, c.Value), nil
	case OpNotEqual:
		return !strings.EqualFold(cell, c.Value), nil
	case OpContains:
		return strings.Contains(strings.ToLower(cell), strings.ToLower(c.Value)), nil
	default:
		return compareOrdered(cell, c.Value, c.Operator), nil
	}
}

// Description implements Filter.
func (c *Comparison) Description() string {
	if c.Column == "" {
		return fmt.Sprintf("any ~ %q", c.Value)
	}
	return fmt.Sprintf("%s %s %q", c.Column, c.Operator, c.Value)
}

// compareOrdered compares numerically when both sides are numbers and
// falls back to case-insensitive text order.
func compareOrdered(cell, literal string, op CompOp) bool {
	var cmp int
	a, errA := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	b, errB := strconv.ParseFloat(strings.TrimSpace(literal), 64)
	if errA == nil && errB == nil {
		switch {
		case a < b:
			cmp = -1
		case a > b:
			cmp = 1
		}
	} else {
		cmp = strings.Compare(strings.ToLower(cell), strings.ToLower(literal))
	}

	switch op {
	case OpGreater:
		return cmp > 0
	case OpLess:
		return cmp < 0
	case OpGreaterEqual:
		return cmp >= 0
	case OpLessEqual:
		return cmp <= 0
	}
	return false
}

// LogicOp represents a logical operator for combining filters.
type LogicOp int

const (
	// LogicAND requires all filters to pass.
	LogicAND LogicOp = iota
	// LogicOR requires at least one filter to pass.
	LogicOR
)

// String returns the string representation of a LogicOp.
func (op LogicOp) String() string {
	switch op {
	case LogicAND:
		return "AND"
	case LogicOR:
		return "OR"
	default:
		return fmt.Sprintf("unknown(%d)", op)
	}
}

// CompositeFilter combines multiple filters with AND or OR logic.
type CompositeFilter struct {
	Filters []Filter
	Logic   LogicOp
}

// Evaluate implements Filter.
func (f *CompositeFilter) Evaluate(row []Value, columnNames []string) (bool, error) {
	if len(f.Filters) == 0 {
		return true, nil
	}

	switch f.Logic {
	case LogicAND:
		for _, filter := range f.Filters {
			passes, err := filter.Evaluate(row, columnNames)
			if err != nil || !passes {
				return false, err
			}
		}
		return true, nil

	case LogicOR:
		for _, filter := range f.Filters {
			passes, err := filter.Evaluate(row, columnNames)
			if err != nil {
				return false, err
			}
			if passes {
				return true, nil
			}
		}
		return false, nil

	default:
		return false, fmt.Errorf("%w: unknown logic operator %d", ErrInvalidFilter, f.Logic)
	}
}

// Description implements Filter.
func (f *CompositeFilter) Description() string {
	if len(f.Filters) == 0 {
		return "empty filter"
	}
	parts := make([]string, len(f.Filters))
	for i, filter := range f.Filters {
		parts[i] = filter.Description()
	}
	return "(" + strings.Join(parts, " "+f.Logic.String()+" ") + ")"
}

// ParseQuery parses expressions such as `id > 2 AND name ~ foo OR bar`.
// AND binds tighter than OR. A term without an operator matches any
// column containing it. Column names are validated against columns.
// An empty query returns a nil filter.
func ParseQuery(query string, columns []string) (Filter, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	known := make(map[string]bool, len(columns))
	for _, c := range columns {
		known[strings.ToLower(c)] = true
	}

	var groups []Filter
	for _, orPart := range splitKeyword(query, "OR") {
		var terms []Filter
		for _, andPart := range splitKeyword(orPart, "AND") {
			if strings.TrimSpace(andPart) == "" {
				return nil, fmt.Errorf("%w: dangling operator in %q", ErrInvalidFilter, query)
			}
			cmp, err := parseComparison(andPart, known)
			if err != nil {
				return nil, err
			}
			terms = append(terms, cmp)
		}
		if len(terms) == 1 {
			groups = append(groups, terms[0])
		} else {
			groups = append(groups, &CompositeFilter{Filters: terms, Logic: LogicAND})
		}
	}
	if len(groups) == 1 {
		return groups[0], nil
	}
	return &CompositeFilter{Filters: groups, Logic: LogicOR}, nil
}

func parseComparison(expr string, known map[string]bool) (*Comparison, error) {
	expr = strings.TrimSpace(expr)
	// The operator is the first one in the text; the value may contain
	// further operator characters.
	at, op, width := -1, OpContains, 0
	for _, s := range opSymbols {
		idx := strings.Index(expr, s.symbol)
		if idx <= 0 {
			continue
		}
		if at < 0 || idx < at || (idx == at && len(s.symbol) > width) {
			at, op, width = idx, s.op, len(s.symbol)
		}
	}
	if at < 0 {
		return &Comparison{Operator: OpContains, Value: strings.Trim(expr, "\"'")}, nil
	}
	column := strings.TrimSpace(expr[:at])
	value := strings.Trim(strings.TrimSpace(expr[at+width:]), "\"'")
	if !known[strings.ToLower(column)] {
		return nil, fmt.Errorf("%w: unknown column %s", ErrInvalidFilter, column)
	}
	return &Comparison{Column: column, Operator: op, Value: value}, nil
}

// splitKeyword splits s on a whitespace-delimited, case-insensitive keyword.
func splitKeyword(s, keyword string) []string {
	fields := strings.Fields(s)
	var parts []string
	var current []string
	for _, f := range fields {
		if strings.EqualFold(f, keyword) {
			parts = append(parts, strings.Join(current, " "))
			current = nil
			continue
		}
		current = append(current, f)
	}
	return append(parts, strings.Join(current, " "))
}
