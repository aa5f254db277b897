// Package matfiletest builds level 5 MAT-files for tests.
package matfiletest

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf16"

	"github.com/klauspost/compress/zlib"

	"matview/matfile"
)

const (
	miINT8       = 1
	miUINT8      = 2
	miUINT16     = 4
	miINT32      = 5
	miUINT32     = 6
	miDOUBLE     = 9
	miMATRIX     = 14
	miCOMPRESSED = 15
)

// Options controls how variables are encoded.
type Options struct {
	// Compress wraps every variable in an miCOMPRESSED element.
	Compress bool
	// Description overrides the header text.
	Description string
}

// Encode returns the bytes of a MAT-file holding vars.
func Encode(vars []*matfile.Array, opts Options) []byte {
	var out bytes.Buffer
	desc := opts.Description
	if desc == "" {
		desc = "MATLAB 5.0 MAT-file, Platform: GLNXA64, Created by: matfiletest"
	}
	header := make([]byte, matfile.HeaderSize)
	for i := range header[:116] {
		header[i] = ' '
	}
	copy(header, desc)
	binary.LittleEndian.PutUint16(header[124:], 0x0100)
	header[126], header[127] = 'I', 'M'
	out.Write(header)

	for _, v := range vars {
		el := matrix(v)
		if opts.Compress {
			var z bytes.Buffer
			zw := zlib.NewWriter(&z)
			_, _ = zw.Write(el)
			_ = zw.Close()
			tag := make([]byte, 8)
			binary.LittleEndian.PutUint32(tag, miCOMPRESSED)
			binary.LittleEndian.PutUint32(tag[4:], uint32(z.Len()))
			out.Write(tag)
			out.Write(z.Bytes())
			continue
		}
		out.Write(el)
	}
	return out.Bytes()
}

// WriteFile encodes vars into a file under t.TempDir and returns its path.
func WriteFile(t testing.TB, name string, opts Options, vars ...*matfile.Array) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, Encode(vars, opts), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// element encodes one tagged element, using the small format when it fits.
func element(typ uint32, data []byte) []byte {
	if len(data) <= 4 && len(data) > 0 {
		b := make([]byte, 8)
		binary.LittleEndian.PutUint32(b, uint32(len(data))<<16|typ)
		copy(b[4:], data)
		return b
	}
	pad := (8 - len(data)%8) % 8
	b := make([]byte, 8, 8+len(data)+pad)
	binary.LittleEndian.PutUint32(b, typ)
	binary.LittleEndian.PutUint32(b[4:], uint32(len(data)))
	b = append(b, data...)
	return append(b, make([]byte, pad)...)
}

func matrix(a *matfile.Array) []byte {
	var body bytes.Buffer

	flags := make([]byte, 8)
	var bits uint32
	if a.Complex {
		bits |= 0x08
	}
	if a.Global {
		bits |= 0x04
	}
	if a.Logical {
		bits |= 0x02
	}
	binary.LittleEndian.PutUint32(flags, bits<<8|uint32(a.Class))
	body.Write(element(miUINT32, flags))

	dims := make([]byte, 4*len(a.Dims))
	for i, d := range a.Dims {
		binary.LittleEndian.PutUint32(dims[4*i:], uint32(int32(d)))
	}
	body.Write(element(miINT32, dims))
	body.Write(element(miINT8, []byte(a.Name)))

	switch {
	case a.Class.IsNumeric():
		body.Write(element(miDOUBLE, doubles(a.Real)))
		if a.Complex {
			body.Write(element(miDOUBLE, doubles(a.Imag)))
		}
	case a.Class == matfile.ClassChar:
		units := utf16.Encode(a.Runes)
		raw := make([]byte, 2*len(units))
		for i, u := range units {
			binary.LittleEndian.PutUint16(raw[2*i:], u)
		}
		body.Write(element(miUINT16, raw))
	case a.Class == matfile.ClassCell:
		for _, c := range a.Cells {
			body.Write(matrix(c))
		}
	case a.Class.IsRecord():
		if a.Class == matfile.ClassObject {
			body.Write(element(miINT8, []byte(a.ClassName)))
		}
		width := 1
		for _, f := range a.Fields {
			width = max(width, len(f)+1)
		}
		w := make([]byte, 4)
		binary.LittleEndian.PutUint32(w, uint32(width))
		body.Write(element(miINT32, w))
		names := make([]byte, width*len(a.Fields))
		for i, f := range a.Fields {
			copy(names[i*width:], f)
		}
		body.Write(element(miINT8, names))
		for _, el := range a.Elements {
			for _, v := range el {
				body.Write(matrix(v))
			}
		}
	}

	tag := make([]byte, 8)
	binary.LittleEndian.PutUint32(tag, miMATRIX)
	binary.LittleEndian.PutUint32(tag[4:], uint32(body.Len()))
	return append(tag, body.Bytes()...)
}

func doubles(v []float64) []byte {
	b := make([]byte, 8*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint64(b[8*i:], math.Float64bits(x))
	}
	return b
}

// Double returns a double array with the given dims and column-major data.
func Double(name string, dims []int, data ...float64) *matfile.Array {
	return &matfile.Array{Name: name, Class: matfile.ClassDouble, Dims: dims, Real: data}
}

// Row returns a 1xN double row vector.
func Row(name string, data ...float64) *matfile.Array {
	return Double(name, []int{1, len(data)}, data...)
}

// Scalar returns a 1x1 double.
func Scalar(name string, v float64) *matfile.Array {
	return Double(name, []int{1, 1}, v)
}

// Int32 returns an int32 array.
func Int32(name string, dims []int, data ...float64) *matfile.Array {
	return &matfile.Array{Name: name, Class: matfile.ClassInt32, Dims: dims, Real: data}
}

// Uint64 returns a uint64 array. Values travel as doubles, so only those a
// float64 holds exactly round-trip.
func Uint64(name string, dims []int, data ...float64) *matfile.Array {
	return &matfile.Array{Name: name, Class: matfile.ClassUint64, Dims: dims, Real: data}
}

// Logical returns a logical array stored as uint8.
func Logical(name string, dims []int, data ...bool) *matfile.Array {
	a := &matfile.Array{Name: name, Class: matfile.ClassUint8, Dims: dims, Logical: true}
	for _, b := range data {
		if b {
			a.Real = append(a.Real, 1)
		} else {
			a.Real = append(a.Real, 0)
		}
	}
	return a
}

// Complex returns a complex double array.
func Complex(name string, dims []int, re, im []float64) *matfile.Array {
	return &matfile.Array{Name: name, Class: matfile.ClassDouble, Dims: dims, Complex: true, Real: re, Imag: im}
}

// Char returns a 1xN char array.
func Char(name, s string) *matfile.Array {
	r := []rune(s)
	return &matfile.Array{Name: name, Class: matfile.ClassChar, Dims: []int{1, len(r)}, Runes: r}
}

// CharRows returns a char matrix with one row per string. All rows must
// have the same length.
func CharRows(name string, rows ...string) *matfile.Array {
	if len(rows) == 0 {
		return &matfile.Array{Name: name, Class: matfile.ClassChar, Dims: []int{0, 0}}
	}
	cols := len([]rune(rows[0]))
	a := &matfile.Array{Name: name, Class: matfile.ClassChar, Dims: []int{len(rows), cols}}
	a.Runes = make([]rune, len(rows)*cols)
	for r, s := range rows {
		for c, ch := range []rune(s) {
			a.Runes[r+len(rows)*c] = ch
		}
	}
	return a
}

// Cell returns a 1xN cell array.
func Cell(name string, items ...*matfile.Array) *matfile.Array {
	return &matfile.Array{Name: name, Class: matfile.ClassCell, Dims: []int{1, len(items)}, Cells: items}
}

// Strings returns a 1xN cell array of char rows.
func Strings(name string, items ...string) *matfile.Array {
	cells := make([]*matfile.Array, len(items))
	for i, s := range items {
		cells[i] = Char("", s)
	}
	return Cell(name, cells...)
}

// Struct returns a struct array with the given dims. values[i] holds the
// field values of element i in field order.
func Struct(name string, dims []int, fields []string, values ...[]*matfile.Array) *matfile.Array {
	return &matfile.Array{Name: name, Class: matfile.ClassStruct, Dims: dims, Fields: fields, Elements: values}
}

// Record returns a 1x1 struct.
func Record(name string, fields []string, values ...*matfile.Array) *matfile.Array {
	return Struct(name, []int{1, 1}, fields, values)
}
