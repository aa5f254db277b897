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

// Package datatable provides the read-only table abstraction shared by the
// desktop, terminal and command line views.
package datatable

import (
	"fmt"
	"strconv"
)

// DataType represents the type of data held by a cell.
type DataType int

const (
	// TypeString represents text.
	TypeString DataType = iota
	// TypeInt represents integer data (any size).
	TypeInt
	// TypeFloat represents floating-point data (any precision).
	TypeFloat
	// TypeBool represents logical data.
	TypeBool
	// TypeComplex represents complex numbers.
	TypeComplex
	// TypeStruct represents structured data (nested fields).
	TypeStruct
	// TypeList represents array data.
	TypeList
)

// String returns the string representation of a DataType.
func (dt DataType) String() string {
	switch dt {
	case TypeString:
		return "String"
	case TypeInt:
		return "Int"
	case TypeFloat:
		return "Float"
	case TypeBool:
		return "Bool"
	case TypeComplex:
		return "Complex"
	case TypeStruct:
		return "Struct"
	case TypeList:
		return "List"
	default:
		return fmt.Sprintf("Unknown(%d)", dt)
	}
}

// Value is a typed container for cell values.
// It holds the raw value, type information, and a pre-formatted string for display.
type Value struct {
	// Raw holds the underlying value.
	Raw interface{}

	// Type indicates the data type of this value.
	Type DataType

	// IsNull indicates whether this value is null/nil.
	IsNull bool

	// Formatted is the string shown in table views. It is computed once so
	// that rendering a row never has to look at the raw value again.
	Formatted string
}

// NewValue creates a new Value from a raw value and type.
func NewValue(raw interface{}, dataType DataType) Value {
	if raw == nil {
		return NewNullValue(dataType)
	}
	return Value{
		Raw:       raw,
		Type:      dataType,
		Formatted: FormatScalar(raw),
	}
}

// NewFormattedValue creates a Value whose display text was produced by the caller.
func NewFormattedValue(raw interface{}, dataType DataType, formatted string) Value {
	return Value{
		Raw:       raw,
		Type:      dataType,
		IsNull:    raw == nil,
		Formatted: formatted,
	}
}

// NewNullValue creates a null value of the specified type.
func NewNullValue(dataType DataType) Value {
	return Value{
		Type:   dataType,
		IsNull: true,
	}
}

// FormatScalar converts a scalar to the text used everywhere in the UI.
// Floats use the shortest representation that round-trips, so 1.0 is "1".
func FormatScalar(raw interface{}) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	case complex128:
		return FormatComplex(real(v), imag(v))
	default:
		return fmt.Sprintf("%v", raw)
	}
}

// FormatComplex renders a complex number as "a+bi".
func FormatComplex(re, im float64) string {
	sign := "+"
	if im < 0 {
		sign = "-"
		im = -im
	}
	return strconv.FormatFloat(re, 'g', -1, 64) + sign + strconv.FormatFloat(im, 'g', -1, 64) + "i"
}

// Metadata holds optional metadata about a data source.
type Metadata map[string]interface{}
