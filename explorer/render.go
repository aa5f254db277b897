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
	"strconv"
	"strings"

	"matview/datatable"
	"matview/matfile"
)

// TruncatedMarker follows the preview of a large array in the detail pane.
const TruncatedMarker = "[TRUNCATED]"

const maxRenderDepth = 32

// DetailText renders every value of a row in full, one "column: value"
// line per column.
func DetailText(columns []string, row []datatable.Value, lim Limits) string {
	lines := make([]string, len(row))
	for i, v := range row {
		name := strconv.Itoa(i)
		if i < len(columns) {
			name = columns[i]
		}
		lines[i] = name + ": " + RenderValue(v, lim)
	}
	return strings.Join(lines, "\n")
}

// RenderValue renders one table value in full.
func RenderValue(v datatable.Value, lim Limits) string {
	if c, ok := v.Raw.(Cell); ok {
		return RenderCell(c, lim)
	}
	if v.IsNull {
		return ""
	}
	return datatable.FormatScalar(v.Raw)
}

// RenderCell formats a cell in full. Arrays become nested lists in row
// order; arrays above lim.LargeArray elements show only the first
// lim.Preview elements followed by TruncatedMarker and the element count.
func RenderCell(c Cell, lim Limits) string {
	r := renderer{lim: lim}
	r.cell(c, 0, false)
	return r.b.String()
}

type renderer struct {
	lim Limits
	b   strings.Builder
}

func (r *renderer) cell(c Cell, depth int, nested bool) {
	if c.Kind == KindScalar {
		if nested && c.Scalar.Kind == ScalarText {
			r.b.WriteString(strconv.Quote(c.Scalar.Text))
			return
		}
		r.b.WriteString(c.Scalar.String())
		return
	}
	r.array(c.Array, depth)
}

func (r *renderer) array(a *matfile.Array, depth int) {
	switch {
	case depth > maxRenderDepth:
		r.b.WriteString(Ellipsis)
	case a == nil || a.IsEmpty():
		r.b.WriteString("[]")
	case !a.HasData():
		r.b.WriteString(ShapeSummary(a))
	case a.Numel() > r.lim.LargeArray:
		r.large(a, depth)
	case a.Class.IsRecord() && a.Numel() == 1 && len(a.Elements) == 1:
		r.record(a.Fields, a.Elements[0], depth)
	case a.Class == matfile.ClassChar && len(a.Dims) == 2:
		r.chars(a)
	default:
		r.nested(a, depth)
	}
}

// nested writes a as nested lists, outermost dimension first.
func (r *renderer) nested(a *matfile.Array, depth int) {
	strides := columnStrides(a.Dims)
	var walk func(d, offset int)
	walk = func(d, offset int) {
		r.b.WriteByte('[')
		for i := 0; i < a.Dims[d]; i++ {
			if i > 0 {
				r.b.WriteString(", ")
			}
			off := offset + i*strides[d]
			if d == len(a.Dims)-1 {
				r.element(a, off, depth)
			} else {
				walk(d+1, off)
			}
		}
		r.b.WriteByte(']')
	}
	walk(0, 0)
}

// large writes the first elements of a in row order without visiting the rest.
func (r *renderer) large(a *matfile.Array, depth int) {
	n := a.Numel()
	k := r.lim.Preview
	if k > n {
		k = n
	}
	r.b.WriteByte('[')
	for j := 0; j < k; j++ {
		if j > 0 {
			r.b.WriteString(", ")
		}
		r.element(a, rowMajorOffset(a.Dims, j), depth)
	}
	r.b.WriteString(", ...] ")
	r.b.WriteString(TruncatedMarker)
	r.b.WriteString(" ")
	r.b.WriteString(strconv.Itoa(n))
	r.b.WriteString(" elements")
}

func (r *renderer) element(a *matfile.Array, i int, depth int) {
	switch {
	case a.Class.IsNumeric():
		if i < len(a.Real) {
			r.b.WriteString(scalarOf(a, i).String())
		}
	case a.Class == matfile.ClassChar:
		if i < len(a.Runes) {
			r.b.WriteString(strconv.Quote(string(a.Runes[i])))
		}
	case a.Class == matfile.ClassCell:
		if i < len(a.Cells) {
			r.cell(NewCell(a.Cells[i], r.lim.LargeArray), depth+1, true)
		}
	case a.Class.IsRecord():
		if i < len(a.Elements) {
			r.record(a.Fields, a.Elements[i], depth+1)
		}
	}
}

func (r *renderer) record(fields []string, values []*matfile.Array, depth int) {
	if depth > maxRenderDepth {
		r.b.WriteString(Ellipsis)
		return
	}
	r.b.WriteByte('{')
	for f, name := range fields {
		if f > 0 {
			r.b.WriteString(", ")
		}
		r.b.WriteString(name)
		r.b.WriteString(": ")
		if f < len(values) {
			r.cell(NewCell(values[f], r.lim.LargeArray), depth+1, true)
		}
	}
	r.b.WriteByte('}')
}

// chars writes a char matrix as its quoted rows.
func (r *renderer) chars(a *matfile.Array) {
	rows := a.Strings()
	if len(rows) == 1 {
		r.b.WriteString(strconv.Quote(rows[0]))
		return
	}
	r.b.WriteByte('[')
	for i, s := range rows {
		if i > 0 {
			r.b.WriteString(", ")
		}
		r.b.WriteString(strconv.Quote(s))
	}
	r.b.WriteByte(']')
}

// columnStrides returns the column-major stride of every dimension.
func columnStrides(dims []int) []int {
	strides := make([]int, len(dims))
	s := 1
	for k, d := range dims {
		strides[k] = s
		s *= d
	}
	return strides
}

// rowMajorOffset maps the j-th element in row order to its column-major
// storage offset.
func rowMajorOffset(dims []int, j int) int {
	strides := columnStrides(dims)
	off := 0
	for k := len(dims) - 1; k >= 0; k-- {
		if dims[k] == 0 {
			return 0
		}
		off += (j % dims[k]) * strides[k]
		j /= dims[k]
	}
	return off
}
