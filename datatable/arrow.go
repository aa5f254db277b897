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

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// RecordSource is a DataSource backed by an Arrow record.
type RecordSource struct {
	record arrow.Record
}

// NewRecordSource wraps rec. The source retains the record until Release.
func NewRecordSource(rec arrow.Record) (*RecordSource, error) {
	if rec == nil {
		return nil, ErrNoDataSource
	}
	rec.Retain()
	return &RecordSource{record: rec}, nil
}

// Release drops the reference to the underlying record.
func (s *RecordSource) Release() {
	if s.record != nil {
		s.record.Release()
		s.record = nil
	}
}

// RowCount implements DataSource.
func (s *RecordSource) RowCount() int {
	if s.record == nil {
		return 0
	}
	return int(s.record.NumRows())
}

// ColumnCount implements DataSource.
func (s *RecordSource) ColumnCount() int {
	if s.record == nil {
		return 0
	}
	return int(s.record.NumCols())
}

// ColumnName implements DataSource.
func (s *RecordSource) ColumnName(col int) (string, error) {
	if col < 0 || col >= s.ColumnCount() {
		return "", ErrInvalidColumn
	}
	return s.record.ColumnName(col), nil
}

// Cell implements DataSource.
func (s *RecordSource) Cell(row, col int) (Value, error) {
	if col < 0 || col >= s.ColumnCount() {
		return Value{}, ErrInvalidColumn
	}
	if row < 0 || row >= s.RowCount() {
		return Value{}, ErrInvalidRow
	}
	return arrowValue(s.record.Column(col), row), nil
}

// Row implements DataSource.
func (s *RecordSource) Row(row int) ([]Value, error) {
	if row < 0 || row >= s.RowCount() {
		return nil, ErrInvalidRow
	}
	out := make([]Value, s.ColumnCount())
	for c := range out {
		out[c] = arrowValue(s.record.Column(c), row)
	}
	return out, nil
}

// Metadata implements DataSource.
func (s *RecordSource) Metadata() Metadata {
	md := Metadata{}
	if s.record == nil {
		return md
	}
	meta := s.record.Schema().Metadata()
	for i, k := range meta.Keys() {
		md[k] = meta.Values()[i]
	}
	return md
}

// arrowValue converts one Arrow array element to a Value.
func arrowValue(col arrow.Array, pos int) Value {
	if col.IsNull(pos) {
		return NewNullValue(arrowType(col.DataType()))
	}
	switch c := col.(type) {
	case *array.Float64:
		return NewValue(c.Value(pos), TypeFloat)
	case *array.Float32:
		return NewValue(float64(c.Value(pos)), TypeFloat)
	case *array.Int64:
		return NewValue(c.Value(pos), TypeInt)
	case *array.Int32:
		return NewValue(int64(c.Value(pos)), TypeInt)
	case *array.Uint64:
		return NewFormattedValue(c.Value(pos), TypeInt, fmt.Sprint(c.Value(pos)))
	case *array.Boolean:
		return NewValue(c.Value(pos), TypeBool)
	case *array.String:
		return NewValue(c.Value(pos), TypeString)
	default:
		return NewFormattedValue(col.ValueStr(pos), TypeString, col.ValueStr(pos))
	}
}

func arrowType(dt arrow.DataType) DataType {
	switch dt.ID() {
	case arrow.FLOAT16, arrow.FLOAT32, arrow.FLOAT64:
		return TypeFloat
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64:
		return TypeInt
	case arrow.BOOL:
		return TypeBool
	case arrow.STRUCT:
		return TypeStruct
	case arrow.LIST, arrow.LARGE_LIST, arrow.FIXED_SIZE_LIST:
		return TypeList
	default:
		return TypeString
	}
}
