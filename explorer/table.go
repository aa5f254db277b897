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

package explorer

import (
	"matview/datatable"
)

// Table is the view of one variable: a data source narrowed by an optional
// row filter and capped at a row limit.
type Table struct {
	Variable string

	source  datatable.DataSource
	columns []string
	limit   int
	visible []int
	query   string
}

// NewTable shows src with at most limit rows. A limit of zero or less
// shows every row.
func NewTable(variable string, src datatable.DataSource, limit int) *Table {
	t := &Table{
		Variable: variable,
		source:   src,
		columns:  datatable.ColumnNames(src),
		limit:    limit,
	}
	t.visible = t.allRows()
	return t
}

func (t *Table) allRows() []int {
	rows := make([]int, t.source.RowCount())
	for i := range rows {
		rows[i] = i
	}
	return rows
}

// Columns returns the column headers.
func (t *Table) Columns() []string { return t.columns }

// Source returns the underlying data source.
func (t *Table) Source() datatable.DataSource { return t.source }

// RowCount returns the number of rows shown.
func (t *Table) RowCount() int {
	if t.limit > 0 && len(t.visible) > t.limit {
		return t.limit
	}
	return len(t.visible)
}

// TotalRows returns the number of rows of the source.
func (t *Table) TotalRows() int { return t.source.RowCount() }

// Matched returns the number of rows that pass the filter.
func (t *Table) Matched() int { return len(t.visible) }

// Truncated reports whether rows were cut off by the row limit.
func (t *Table) Truncated() bool { return t.RowCount() < len(t.visible) }

// Query returns the active filter expression.
func (t *Table) Query() string { return t.query }

// Cell returns the value at a shown row.
func (t *Table) Cell(row, col int) (datatable.Value, error) {
	if row < 0 || row >= t.RowCount() {
		return datatable.Value{}, datatable.ErrInvalidRow
	}
	return t.source.Cell(t.visible[row], col)
}

// Summary returns the table text of a shown cell, or "" when out of range.
func (t *Table) Summary(row, col int) string {
	v, err := t.Cell(row, col)
	if err != nil || v.IsNull {
		return ""
	}
	return v.Formatted
}

// Row returns every value of a shown row.
func (t *Table) Row(row int) ([]datatable.Value, error) {
	if row < 0 || row >= t.RowCount() {
		return nil, datatable.ErrInvalidRow
	}
	return t.source.Row(t.visible[row])
}

// SetFilter narrows the rows to those matching query. An empty query
// clears the filter. On error the previous filter stays in place.
func (t *Table) SetFilter(query string) error {
	f, err := datatable.ParseQuery(query, t.columns)
	if err != nil {
		return err
	}
	if f == nil {
		t.visible = t.allRows()
		t.query = ""
		return nil
	}

	var visible []int
	for i := 0; i < t.source.RowCount(); i++ {
		row, err := t.source.Row(i)
		if err != nil {
			return err
		}
		ok, err := f.Evaluate(row, t.columns)
		if err != nil {
			return err
		}
		if ok {
			visible = append(visible, i)
		}
	}
	t.visible = visible
	t.query = query
	return nil
}

// Release frees resources held by the source.
func (t *Table) Release() {
	if r, ok := t.source.(interface{ Release() }); ok {
		r.Release()
	}
}
