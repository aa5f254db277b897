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
	"fmt"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"matview/datatable"
	"matview/matfile"
)

// Flatten turns a variable into a table.
//
// Struct arrays give one row per element and one column per field. A 1x1
// struct gives one column per field, each as long as the field's vector
// length. Real numeric and logical matrices become an Arrow record with
// columns "0".."n-1". Complex matrices and cell arrays give one Cell per
// element, and char arrays one string per row.
func Flatten(a *matfile.Array, lim Limits) (datatable.DataSource, error) {
	if a == nil {
		return nil, datatable.ErrNoDataSource
	}
	if !a.HasData() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedClass, a.Class)
	}
	if a.Rank() > 2 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedShape, a.Shape())
	}

	switch {
	case a.Class.IsRecord() && a.Numel() == 1:
		return structOfColumns(a, lim)
	case a.Class.IsRecord():
		return structRows(a, lim)
	case a.Class == matfile.ClassChar:
		return charRows(a, lim)
	case a.Class == matfile.ClassCell, a.Complex:
		return cellMatrix(a, lim)
	default:
		return numericRecord(a)
	}
}

// rowsCols returns the 2-D extent of a, folding any singleton dimensions.
func rowsCols(a *matfile.Array) (int, int) {
	var ext []int
	for _, d := range a.Dims {
		if d != 1 {
			ext = append(ext, d)
		}
	}
	switch {
	case a.IsEmpty():
		return 0, 0
	case len(ext) == 0:
		return 1, 1
	case len(a.Dims) == 2:
		return a.Dims[0], a.Dims[1]
	case len(ext) == 1:
		return 1, ext[0]
	default:
		return ext[0], ext[1]
	}
}

func columnNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = strconv.Itoa(i)
	}
	return names
}

func structRows(a *matfile.Array, lim Limits) (datatable.DataSource, error) {
	n := a.Numel()
	columns := make([][]datatable.Value, len(a.Fields))
	for f := range a.Fields {
		col := make([]datatable.Value, n)
		for i := 0; i < n; i++ {
			var v *matfile.Array
			if i < len(a.Elements) && f < len(a.Elements[i]) {
				v = a.Elements[i][f]
			}
			col[i] = NewCell(v, lim.LargeArray).Value(lim.TextLimit)
		}
		columns[f] = col
	}
	return newSource(a, append([]string(nil), a.Fields...), columns)
}

// structOfColumns lays out a 1x1 struct with each field as a column.
func structOfColumns(a *matfile.Array, lim Limits) (datatable.DataSource, error) {
	columns := make([][]datatable.Value, len(a.Fields))
	for f := range a.Fields {
		var v *matfile.Array
		if len(a.Elements) > 0 && f < len(a.Elements[0]) {
			v = a.Elements[0][f]
		}
		cells := fieldColumn(v, lim.LargeArray)
		col := make([]datatable.Value, len(cells))
		for i, c := range cells {
			col[i] = c.Value(lim.TextLimit)
		}
		columns[f] = col
	}
	return newSource(a, append([]string(nil), a.Fields...), columns)
}

// fieldColumn splits one field value into the cells of its column.
func fieldColumn(v *matfile.Array, largeArray int) []Cell {
	if v == nil || v.IsEmpty() || !v.HasData() {
		return []Cell{NewCell(v, largeArray)}
	}
	if v.Class == matfile.ClassChar {
		rows := v.Strings()
		cells := make([]Cell, len(rows))
		for i, s := range rows {
			cells[i] = textCell(s)
		}
		return cells
	}
	if v.IsVector() || v.Rank() <= 1 {
		n := v.Numel()
		cells := make([]Cell, n)
		for i := 0; i < n; i++ {
			cells[i] = NewCell(v.Element(i), largeArray)
		}
		return cells
	}
	if len(v.Dims) == 2 {
		cells := make([]Cell, v.Dims[0])
		for r := range cells {
			cells[r] = NewCell(v.Row(r), largeArray)
		}
		return cells
	}
	return []Cell{NewCell(v, largeArray)}
}

func charRows(a *matfile.Array, lim Limits) (datatable.DataSource, error) {
	rows := a.Strings()
	col := make([]datatable.Value, len(rows))
	for i, s := range rows {
		col[i] = textCell(s).Value(lim.TextLimit)
	}
	return newSource(a, []string{"0"}, [][]datatable.Value{col})
}

func cellMatrix(a *matfile.Array, lim Limits) (datatable.DataSource, error) {
	rows, cols := rowsCols(a)
	columns := make([][]datatable.Value, cols)
	for c := 0; c < cols; c++ {
		col := make([]datatable.Value, rows)
		for r := 0; r < rows; r++ {
			col[r] = NewCell(a.Element(r+rows*c), lim.LargeArray).Value(lim.TextLimit)
		}
		columns[c] = col
	}
	return newSource(a, columnNames(cols), columns)
}

func textCell(s string) Cell {
	return Cell{Kind: KindScalar, Scalar: Scalar{Kind: ScalarText, Text: s}}
}

func newSource(a *matfile.Array, names []string, columns [][]datatable.Value) (datatable.DataSource, error) {
	src, err := datatable.NewColumnSource(names, columns)
	if err != nil {
		return nil, err
	}
	src.SetMetadata("class", a.TypeName())
	src.SetMetadata("shape", a.Shape())
	return src, nil
}

// numericRecord builds an Arrow record from a real numeric or logical matrix.
func numericRecord(a *matfile.Array) (datatable.DataSource, error) {
	rows, cols := rowsCols(a)

	var typ arrow.DataType
	switch {
	case a.Logical:
		typ = arrow.FixedWidthTypes.Boolean
	case a.Class == matfile.ClassUint64:
		typ = arrow.PrimitiveTypes.Uint64
	case a.Class.IsInteger():
		typ = arrow.PrimitiveTypes.Int64
	default:
		typ = arrow.PrimitiveTypes.Float64
	}

	fields := make([]arrow.Field, cols)
	for c, name := range columnNames(cols) {
		fields[c] = arrow.Field{Name: name, Type: typ}
	}
	md := arrow.NewMetadata([]string{"class", "shape"}, []string{a.TypeName(), a.Shape()})
	schema := arrow.NewSchema(fields, &md)

	b := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer b.Release()

	for c := 0; c < cols; c++ {
		start := rows * c
		if start+rows > len(a.Real) {
			return nil, fmt.Errorf("%w: column %d", datatable.ErrColumnLength, c)
		}
		data := a.Real[start : start+rows]
		switch fb := b.Field(c).(type) {
		case *array.BooleanBuilder:
			for _, x := range data {
				fb.Append(x != 0)
			}
		case *array.Int64Builder:
			for _, x := range data {
				fb.Append(wholeInt(x))
			}
		case *array.Uint64Builder:
			for _, x := range data {
				fb.Append(wholeUint(x))
			}
		case *array.Float64Builder:
			fb.AppendValues(data, nil)
		}
	}

	rec := b.NewRecord()
	defer rec.Release()
	return datatable.NewRecordSource(rec)
}
