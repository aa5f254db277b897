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

import "fmt"

// DataSource provides read-only access to tabular data.
// Implementations must be safe for concurrent reads.
type DataSource interface {
	// RowCount returns the total number of rows in the data source.
	RowCount() int

	// ColumnCount returns the total number of columns in the data source.
	ColumnCount() int

	// ColumnName returns the name of the column at the given index.
	// Returns ErrInvalidColumn if col is out of range.
	ColumnName(col int) (string, error)

	// Cell returns the value at the specified row and column.
	// Returns ErrInvalidRow or ErrInvalidColumn when out of range.
	Cell(row, col int) (Value, error)

	// Row returns all values for the specified row.
	// Returns ErrInvalidRow if row is out of range.
	Row(row int) ([]Value, error)

	// Metadata returns optional metadata about the data source.
	Metadata() Metadata
}

// ColumnNames returns every column name of src.
func ColumnNames(src DataSource) []string {
	names := make([]string, src.ColumnCount())
	for i := range names {
		names[i], _ = src.ColumnName(i)
	}
	return names
}

// ColumnSource is a DataSource over column slices of pre-built values.
type ColumnSource struct {
	names    []string
	columns  [][]Value
	rows     int
	metadata Metadata
}

// NewColumnSource builds a source from named columns. Every column must have
// the same number of values; otherwise ErrColumnLength is returned and no
// table is produced.
func NewColumnSource(names []string, columns [][]Value) (*ColumnSource, error) {
	if len(names) != len(columns) {
		return nil, fmt.Errorf("%d names for %d columns", len(names), len(columns))
	}
	rows := 0
	for i, col := range columns {
		if i == 0 {
			rows = len(col)
			continue
		}
		if len(col) != rows {
			return nil, fmt.Errorf("%w: column %q has %d values, column %q has %d",
				ErrColumnLength, names[i], len(col), names[0], rows)
		}
	}
	return &ColumnSource{
		names:    names,
		columns:  columns,
		rows:     rows,
		metadata: Metadata{},
	}, nil
}

// RowCount implements DataSource.
func (s *ColumnSource) RowCount() int { return s.rows }

// ColumnCount implements DataSource.
func (s *ColumnSource) ColumnCount() int { return len(s.names) }

// ColumnName implements DataSource.
func (s *ColumnSource) ColumnName(col int) (string, error) {
	if col < 0 || col >= len(s.names) {
		return "", ErrInvalidColumn
	}
	return s.names[col], nil
}

// Cell implements DataSource.
func (s *ColumnSource) Cell(row, col int) (Value, error) {
	if col < 0 || col >= len(s.columns) {
		return Value{}, ErrInvalidColumn
	}
	if row < 0 || row >= s.rows {
		return Value{}, ErrInvalidRow
	}
	return s.columns[col][row], nil
}

// Row implements DataSource.
func (s *ColumnSource) Row(row int) ([]Value, error) {
	if row < 0 || row >= s.rows {
		return nil, ErrInvalidRow
	}
	out := make([]Value, len(s.columns))
	for c := range s.columns {
		out[c] = s.columns[c][row]
	}
	return out, nil
}

// Metadata implements DataSource.
func (s *ColumnSource) Metadata() Metadata { return s.metadata }

// SetMetadata records a metadata entry.
func (s *ColumnSource) SetMetadata(key string, value interface{}) {
	s.metadata[key] = value
}
