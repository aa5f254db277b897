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

package matfile

import (
	"fmt"
	"strconv"
	"strings"
)

// Class is the MATLAB array class stored in the array flags of a matrix element.
type Class uint8

const (
	ClassUnknown  Class = 0
	ClassCell     Class = 1
	ClassStruct   Class = 2
	ClassObject   Class = 3
	ClassChar     Class = 4
	ClassSparse   Class = 5
	ClassDouble   Class = 6
	ClassSingle   Class = 7
	ClassInt8     Class = 8
	ClassUint8    Class = 9
	ClassInt16    Class = 10
	ClassUint16   Class = 11
	ClassInt32    Class = 12
	ClassUint32   Class = 13
	ClassInt64    Class = 14
	ClassUint64   Class = 15
	ClassFunction Class = 16
	ClassOpaque   Class = 17
)

// String returns the MATLAB name of the class.
func (c Class) String() string {
	switch c {
	case ClassCell:
		return "cell"
	case ClassStruct:
		return "struct"
	case ClassObject:
		return "object"
	case ClassChar:
		return "char"
	case ClassSparse:
		return "sparse"
	case ClassDouble:
		return "double"
	case ClassSingle:
		return "single"
	case ClassInt8:
		return "int8"
	case ClassUint8:
		return "uint8"
	case ClassInt16:
		return "int16"
	case ClassUint16:
		return "uint16"
	case ClassInt32:
		return "int32"
	case ClassUint32:
		return "uint32"
	case ClassInt64:
		return "int64"
	case ClassUint64:
		return "uint64"
	case ClassFunction:
		return "function_handle"
	case ClassOpaque:
		return "opaque"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// IsNumeric reports whether arrays of this class carry numeric data.
func (c Class) IsNumeric() bool {
	return c >= ClassDouble && c <= ClassUint64
}

// IsInteger reports whether the class is one of the integer classes.
func (c Class) IsInteger() bool {
	return c >= ClassInt8 && c <= ClassUint64
}

// IsRecord reports whether the class has named fields.
func (c Class) IsRecord() bool {
	return c == ClassStruct || c == ClassObject
}

// Array is one decoded MATLAB array. Element data is kept in MATLAB's
// column-major order.
type Array struct {
	Name    string
	Class   Class
	Dims    []int
	Complex bool
	Logical bool
	Global  bool

	// Real and Imag hold numeric and logical data converted to float64.
	Real []float64
	Imag []float64

	// Runes holds char data.
	Runes []rune

	// Cells holds the elements of a cell array.
	Cells []*Array

	// Fields and Elements hold struct and object data; Elements[i][f] is
	// field f of element i.
	Fields    []string
	Elements  [][]*Array
	ClassName string
}

// Numel returns the number of elements described by the dimensions.
func (a *Array) Numel() int {
	if len(a.Dims) == 0 {
		return 0
	}
	n := 1
	for _, d := range a.Dims {
		n *= d
	}
	return n
}

// IsEmpty reports whether the array has no elements.
func (a *Array) IsEmpty() bool {
	return a.Numel() == 0
}

// Rank returns the number of dimensions that are not singleton.
func (a *Array) Rank() int {
	r := 0
	for _, d := range a.Dims {
		if d != 1 {
			r++
		}
	}
	return r
}

// IsVector reports whether the array is 2-D with at least one singleton dimension.
func (a *Array) IsVector() bool {
	return len(a.Dims) == 2 && (a.Dims[0] == 1 || a.Dims[1] == 1)
}

// HasData reports whether element payload was decoded for this array.
// Sparse, function handle and opaque arrays only carry their shape.
func (a *Array) HasData() bool {
	switch {
	case a.Class.IsNumeric():
		return true
	case a.Class == ClassChar, a.Class == ClassCell, a.Class.IsRecord():
		return true
	default:
		return false
	}
}

// Shape returns the dimensions joined with "x", e.g. "3x4".
func (a *Array) Shape() string {
	if len(a.Dims) == 0 {
		return "0x0"
	}
	parts := make([]string, len(a.Dims))
	for i, d := range a.Dims {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, "x")
}

// TypeName describes the element type the way MATLAB's whos does.
func (a *Array) TypeName() string {
	switch {
	case a.Class == ClassObject && a.ClassName != "":
		return a.ClassName
	case a.Logical:
		return "logical"
	case a.Complex:
		return "complex " + a.Class.String()
	default:
		return a.Class.String()
	}
}

// FieldIndex returns the position of the named field or -1.
func (a *Array) FieldIndex(name string) int {
	for i, f := range a.Fields {
		if f == name {
			return i
		}
	}
	return -1
}

// Field returns field name of element i, or nil when absent.
func (a *Array) Field(i int, name string) *Array {
	f := a.FieldIndex(name)
	if f < 0 || i < 0 || i >= len(a.Elements) {
		return nil
	}
	return a.Elements[i][f]
}

// Strings returns the rows of a char array as strings.
func (a *Array) Strings() []string {
	if a.Class != ClassChar || len(a.Dims) == 0 {
		return nil
	}
	rows := a.Dims[0]
	if rows == 0 {
		return nil
	}
	cols := len(a.Runes) / rows
	out := make([]string, rows)
	buf := make([]rune, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			buf[c] = a.Runes[r+rows*c]
		}
		out[r] = strings.TrimRight(string(buf), "\x00")
	}
	return out
}

// Element returns element i of the array as a 1x1 array. Cell arrays
// return the contained array itself.
func (a *Array) Element(i int) *Array {
	if i < 0 || i >= a.Numel() {
		return nil
	}
	switch {
	case a.Class == ClassCell:
		if i >= len(a.Cells) {
			return nil
		}
		return a.Cells[i]
	case a.Class.IsRecord():
		if i >= len(a.Elements) {
			return nil
		}
		return &Array{
			Class:     a.Class,
			Dims:      []int{1, 1},
			Fields:    a.Fields,
			Elements:  [][]*Array{a.Elements[i]},
			ClassName: a.ClassName,
		}
	case a.Class == ClassChar:
		if i >= len(a.Runes) {
			return nil
		}
		return &Array{Class: ClassChar, Dims: []int{1, 1}, Runes: []rune{a.Runes[i]}}
	case a.Class.IsNumeric():
		if i >= len(a.Real) {
			return nil
		}
		el := &Array{
			Class:   a.Class,
			Dims:    []int{1, 1},
			Logical: a.Logical,
			Complex: a.Complex,
			Real:    []float64{a.Real[i]},
		}
		if a.Complex && i < len(a.Imag) {
			el.Imag = []float64{a.Imag[i]}
		}
		return el
	default:
		return nil
	}
}

// Row returns row r of a 2-D array as a 1xN array.
func (a *Array) Row(r int) *Array {
	if len(a.Dims) != 2 || r < 0 || r >= a.Dims[0] {
		return nil
	}
	rows, cols := a.Dims[0], a.Dims[1]
	out := &Array{
		Class:     a.Class,
		Dims:      []int{1, cols},
		Logical:   a.Logical,
		Complex:   a.Complex,
		Fields:    a.Fields,
		ClassName: a.ClassName,
	}
	for c := 0; c < cols; c++ {
		i := r + rows*c
		switch {
		case a.Class == ClassCell:
			out.Cells = append(out.Cells, a.Cells[i])
		case a.Class.IsRecord():
			out.Elements = append(out.Elements, a.Elements[i])
		case a.Class == ClassChar:
			out.Runes = append(out.Runes, a.Runes[i])
		case a.Class.IsNumeric():
			out.Real = append(out.Real, a.Real[i])
			if a.Complex {
				out.Imag = append(out.Imag, a.Imag[i])
			}
		}
	}
	return out
}
