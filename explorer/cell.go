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

// Package explorer turns decoded MAT-file variables into tables and keeps
// the state of one browsing session. It has no UI dependencies; the
// desktop, terminal and command line front ends all drive a Session.
package explorer

import (
	"math"
	"strconv"
	"strings"

	"matview/datatable"
	"matview/matfile"
)

// Kind classifies a table cell.
type Kind int

const (
	KindScalar Kind = iota
	KindSmallArray
	KindLargeArray
	KindRecord
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindSmallArray:
		return "array"
	case KindLargeArray:
		return "large array"
	case KindRecord:
		return "record"
	}
	return "unknown"
}

// ScalarKind tells which field of a Scalar is meaningful.
type ScalarKind int

const (
	ScalarNumber ScalarKind = iota
	ScalarInteger
	ScalarLogical
	ScalarComplex
	ScalarText
)

// Scalar is a single value: a number, a logical, a complex number or a
// line of text.
type Scalar struct {
	Kind ScalarKind
	Real float64
	Imag float64
	Text string
}

// String formats the scalar in full.
func (s Scalar) String() string {
	switch s.Kind {
	case ScalarInteger:
		if s.Real >= 1<<63 {
			return strconv.FormatUint(wholeUint(s.Real), 10)
		}
		return strconv.FormatInt(wholeInt(s.Real), 10)
	case ScalarLogical:
		return strconv.FormatBool(s.Real != 0)
	case ScalarComplex:
		return datatable.FormatComplex(s.Real, s.Imag)
	case ScalarText:
		return s.Text
	default:
		return datatable.FormatScalar(s.Real)
	}
}

// Raw returns the scalar as a plain Go value.
func (s Scalar) Raw() interface{} {
	switch s.Kind {
	case ScalarInteger:
		if s.Real >= 1<<63 {
			return wholeUint(s.Real)
		}
		return wholeInt(s.Real)
	case ScalarLogical:
		return s.Real != 0
	case ScalarComplex:
		return complex(s.Real, s.Imag)
	case ScalarText:
		return s.Text
	default:
		return s.Real
	}
}

// wholeInt converts an integer-class value, saturating at the int64 range.
func wholeInt(x float64) int64 {
	switch {
	case x >= 1<<63:
		return math.MaxInt64
	case x < -(1 << 63):
		return math.MinInt64
	}
	return int64(x)
}

// wholeUint converts a uint64-class value, saturating at the uint64 range.
func wholeUint(x float64) uint64 {
	switch {
	case x <= 0:
		return 0
	case x >= 1<<64:
		return math.MaxUint64
	}
	return uint64(x)
}

// Cell is one table cell. Scalar cells carry their value; every other
// kind keeps the array it came from and is formatted on demand.
type Cell struct {
	Kind   Kind
	Scalar Scalar
	Array  *matfile.Array
}

// Limits bound what is shown in the table and the detail pane.
type Limits struct {
	// RowLimit caps the number of rows shown.
	RowLimit int
	// TextLimit caps the characters of text shown in a table cell.
	TextLimit int
	// LargeArray is the element count above which an array is large.
	LargeArray int
	// Preview is the number of elements of a large array shown in details.
	Preview int
}

// DefaultLimits returns the limits used when nothing is configured.
func DefaultLimits() Limits {
	return Limits{
		RowLimit:   1000,
		TextLimit:  50,
		LargeArray: 10000,
		Preview:    100,
	}
}

// NewCell classifies a field value. 1x1 cell wrappers are removed and
// single element arrays become scalars.
func NewCell(a *matfile.Array, largeArray int) Cell {
	a = unwrap(a)
	switch {
	case a == nil || a.IsEmpty():
		return Cell{Kind: KindSmallArray, Array: a}
	case a.Class.IsRecord():
		return Cell{Kind: KindRecord, Array: a}
	case a.Class == matfile.ClassChar && len(a.Dims) == 2 && a.Dims[0] == 1:
		return Cell{Kind: KindScalar, Scalar: Scalar{Kind: ScalarText, Text: strings.TrimRight(string(a.Runes), "\x00")}}
	case a.Class.IsNumeric() && a.Numel() == 1 && len(a.Real) == 1:
		return Cell{Kind: KindScalar, Scalar: scalarOf(a, 0)}
	case a.Numel() > largeArray:
		return Cell{Kind: KindLargeArray, Array: a}
	default:
		return Cell{Kind: KindSmallArray, Array: a}
	}
}

func unwrap(a *matfile.Array) *matfile.Array {
	for a != nil && a.Class == matfile.ClassCell && a.Numel() == 1 && len(a.Cells) == 1 {
		a = a.Cells[0]
	}
	return a
}

// scalarOf returns element i of a numeric array.
func scalarOf(a *matfile.Array, i int) Scalar {
	s := Scalar{Real: a.Real[i]}
	switch {
	case a.Logical:
		s.Kind = ScalarLogical
	case a.Complex:
		s.Kind = ScalarComplex
		if i < len(a.Imag) {
			s.Imag = a.Imag[i]
		}
	case a.Class.IsInteger():
		s.Kind = ScalarInteger
	default:
		s.Kind = ScalarNumber
	}
	return s
}

// IsEmpty reports whether the cell holds no data.
func (c Cell) IsEmpty() bool {
	return c.Kind != KindScalar && (c.Array == nil || c.Array.IsEmpty())
}

// DataType maps the cell to a datatable type.
func (c Cell) DataType() datatable.DataType {
	switch c.Kind {
	case KindScalar:
		switch c.Scalar.Kind {
		case ScalarInteger:
			return datatable.TypeInt
		case ScalarLogical:
			return datatable.TypeBool
		case ScalarComplex:
			return datatable.TypeComplex
		case ScalarText:
			return datatable.TypeString
		}
		return datatable.TypeFloat
	case KindRecord:
		return datatable.TypeStruct
	}
	return datatable.TypeList
}

// Value wraps the cell for a table. The formatted text is the summary
// and the raw value is the cell itself, so details can be rendered later.
func (c Cell) Value(textLimit int) datatable.Value {
	return datatable.NewFormattedValue(c, c.DataType(), Summarize(c, textLimit))
}
