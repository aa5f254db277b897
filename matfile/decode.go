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

// Package matfile decodes MATLAB level 5 MAT-files (versions 5 through 7).
package matfile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf16"

	"github.com/klauspost/compress/zlib"
)

// Errors returned while decoding.
var (
	// ErrNotMAT is returned when the input has no MAT-file header.
	ErrNotMAT = errors.New("not a MAT-file")

	// ErrUnsupportedVersion is returned for level 4 and HDF5 based (v7.3) files.
	ErrUnsupportedVersion = errors.New("unsupported MAT-file version")

	// ErrMalformed is returned when the element stream is truncated or inconsistent.
	ErrMalformed = errors.New("malformed MAT-file")
)

// HeaderSize is the size of the fixed level 5 header.
const HeaderSize = 128

// maxDepth bounds nesting of cells and structs.
const maxDepth = 64

// maxFieldlessElements bounds struct arrays that have no fields and so no
// payload to check their size against.
const maxFieldlessElements = 1 << 16

// Data element types.
const (
	miINT8       = 1
	miUINT8      = 2
	miINT16      = 3
	miUINT16     = 4
	miINT32      = 5
	miUINT32     = 6
	miSINGLE     = 7
	miDOUBLE     = 9
	miINT64      = 12
	miUINT64     = 13
	miMATRIX     = 14
	miCOMPRESSED = 15
	miUTF8       = 16
	miUTF16      = 17
	miUTF32      = 18
)

// Array flag bits, counted within the flags byte.
const (
	flagComplex = 0x08
	flagGlobal  = 0x04
	flagLogical = 0x02
)

// File is a decoded MAT-file.
type File struct {
	// Description is the descriptive text at the start of the header.
	Description string
	Version     uint16
	ByteOrder   binary.ByteOrder
	Variables   []*Array
}

// Lookup returns the variable with the given name.
func (f *File) Lookup(name string) (*Array, bool) {
	for _, v := range f.Variables {
		if v.Name == name {
			return v, true
		}
	}
	return nil, false
}

// Open reads and decodes the MAT-file at path.
func Open(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Read decodes a MAT-file from r.
func Read(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Header describes the fixed part of a MAT-file.
type Header struct {
	Description string
	Version     uint16
	ByteOrder   binary.ByteOrder
}

// ParseHeader validates the 128-byte header.
func ParseHeader(data []byte) (Header, error) {
	var h Header
	if len(data) < HeaderSize {
		return h, ErrNotMAT
	}
	text := string(data[:116])
	if !strings.HasPrefix(text, "MATLAB") {
		return h, ErrNotMAT
	}
	h.Description = strings.TrimRight(text, " \x00")
	switch string(data[126:128]) {
	case "IM":
		h.ByteOrder = binary.LittleEndian
	case "MI":
		h.ByteOrder = binary.BigEndian
	default:
		return h, fmt.Errorf("%w: bad endian indicator", ErrNotMAT)
	}
	h.Version = h.ByteOrder.Uint16(data[124:126])
	if strings.HasPrefix(text, "MATLAB 7.3") || h.Version == 0x0200 {
		return h, fmt.Errorf("%w: v7.3 (HDF5) files are not supported", ErrUnsupportedVersion)
	}
	if h.Version != 0x0100 {
		return h, fmt.Errorf("%w: 0x%04x", ErrUnsupportedVersion, h.Version)
	}
	return h, nil
}

// Decode decodes a complete MAT-file held in memory.
func Decode(data []byte) (*File, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	f := &File{
		Description: h.Description,
		Version:     h.Version,
		ByteOrder:   h.ByteOrder,
	}
	r := &reader{buf: data, pos: HeaderSize, order: h.ByteOrder}
	for {
		typ, payload, err := r.element()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		arr, err := r.topLevel(typ, payload)
		if err != nil {
			return nil, err
		}
		if arr != nil {
			f.Variables = append(f.Variables, arr)
		}
	}
	return f, nil
}

type reader struct {
	buf   []byte
	pos   int
	order binary.ByteOrder
}

func (r *reader) sub(data []byte) *reader {
	return &reader{buf: data, order: r.order}
}

// element reads the next tagged data element.
func (r *reader) element() (uint32, []byte, error) {
	if r.pos >= len(r.buf) {
		return 0, nil, io.EOF
	}
	if len(r.buf)-r.pos < 8 {
		// Trailing padding shorter than a tag.
		if allZero(r.buf[r.pos:]) {
			r.pos = len(r.buf)
			return 0, nil, io.EOF
		}
		return 0, nil, fmt.Errorf("%w: truncated tag at offset %d", ErrMalformed, r.pos)
	}
	word := r.order.Uint32(r.buf[r.pos:])
	if word>>16 != 0 {
		// Small data element: size and type share the first word.
		typ, n := word&0xffff, int(word>>16)
		if n > 4 {
			return 0, nil, fmt.Errorf("%w: small element of %d bytes", ErrMalformed, n)
		}
		data := r.buf[r.pos+4 : r.pos+4+n]
		r.pos += 8
		return typ, data, nil
	}
	typ := word
	n := int(r.order.Uint32(r.buf[r.pos+4:]))
	r.pos += 8
	if n < 0 || n > len(r.buf)-r.pos {
		return 0, nil, fmt.Errorf("%w: element of %d bytes exceeds input", ErrMalformed, n)
	}
	data := r.buf[r.pos : r.pos+n]
	r.pos += n
	if typ != miCOMPRESSED {
		if pad := (8 - n%8) % 8; pad > 0 {
			r.pos = min(r.pos+pad, len(r.buf))
		}
	}
	return typ, data, nil
}

func (r *reader) topLevel(typ uint32, payload []byte) (*Array, error) {
	switch typ {
	case miCOMPRESSED:
		inflated, err := inflate(payload)
		if err != nil {
			return nil, err
		}
		inner := r.sub(inflated)
		t, p, err := inner.element()
		if err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("%w: empty compressed element", ErrMalformed)
			}
			return nil, err
		}
		return inner.topLevel(t, p)
	case miMATRIX:
		return r.matrix(payload, 0)
	default:
		// Only matrices carry variables; anything else at top level is ignored.
		return nil, nil
	}
}

func inflate(payload []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return out, nil
}

// matrix decodes the payload of an miMATRIX element.
func (r *reader) matrix(payload []byte, depth int) (*Array, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("%w: nesting deeper than %d", ErrMalformed, maxDepth)
	}
	if len(payload) == 0 {
		return &Array{Class: ClassDouble, Dims: []int{0, 0}}, nil
	}
	m := r.sub(payload)

	typ, flags, err := m.element()
	if err != nil || typ != miUINT32 || len(flags) < 8 {
		return nil, fmt.Errorf("%w: bad array flags", ErrMalformed)
	}
	word := m.order.Uint32(flags)
	bits := byte(word >> 8)
	a := &Array{
		Class:   Class(word & 0xff),
		Complex: bits&flagComplex != 0,
		Global:  bits&flagGlobal != 0,
		Logical: bits&flagLogical != 0,
	}

	typ, raw, err := m.element()
	if err != nil {
		return nil, fmt.Errorf("%w: missing dimensions", ErrMalformed)
	}
	dims, err := m.numbers(typ, raw)
	if err != nil {
		return nil, err
	}
	if len(dims) < 2 {
		return nil, fmt.Errorf("%w: %d dimensions", ErrMalformed, len(dims))
	}
	a.Dims = make([]int, len(dims))
	for i, d := range dims {
		if d < 0 || d > math.MaxInt32 {
			return nil, fmt.Errorf("%w: dimension %g out of range", ErrMalformed, d)
		}
		a.Dims[i] = int(d)
	}
	if _, ok := checkedNumel(a.Dims); !ok {
		return nil, fmt.Errorf("%w: %s array is too large", ErrMalformed, a.Shape())
	}

	_, name, err := m.element()
	if err != nil {
		return nil, fmt.Errorf("%w: missing array name", ErrMalformed)
	}
	a.Name = string(name)

	switch {
	case a.Class.IsNumeric():
		err = m.numeric(a)
	case a.Class == ClassChar:
		err = m.chars(a)
	case a.Class == ClassCell:
		err = m.cells(a, depth)
	case a.Class.IsRecord():
		err = m.record(a, depth)
	default:
		// Sparse, function handle and opaque payloads are not decoded.
	}
	if err != nil {
		return nil, fmt.Errorf("variable %q: %w", a.Name, err)
	}
	return a, nil
}

func (r *reader) numeric(a *Array) error {
	typ, raw, err := r.element()
	if err != nil {
		if err == io.EOF && a.IsEmpty() {
			return nil
		}
		return fmt.Errorf("%w: missing real part", ErrMalformed)
	}
	if a.Real, err = r.numbers(typ, raw); err != nil {
		return err
	}
	if len(a.Real) != a.Numel() {
		return fmt.Errorf("%w: %d values for %s array", ErrMalformed, len(a.Real), a.Shape())
	}
	if a.Complex {
		typ, raw, err = r.element()
		if err != nil {
			return fmt.Errorf("%w: missing imaginary part", ErrMalformed)
		}
		if a.Imag, err = r.numbers(typ, raw); err != nil {
			return err
		}
		if len(a.Imag) != len(a.Real) {
			return fmt.Errorf("%w: imaginary part length mismatch", ErrMalformed)
		}
	}
	return nil
}

func (r *reader) chars(a *Array) error {
	typ, raw, err := r.element()
	if err != nil {
		if err == io.EOF && a.IsEmpty() {
			return nil
		}
		return fmt.Errorf("%w: missing char data", ErrMalformed)
	}
	switch typ {
	case miUTF8:
		a.Runes = []rune(string(raw))
	case miUINT16, miUTF16:
		units := make([]uint16, len(raw)/2)
		for i := range units {
			units[i] = r.order.Uint16(raw[2*i:])
		}
		a.Runes = utf16.Decode(units)
	default:
		vals, err := r.numbers(typ, raw)
		if err != nil {
			return err
		}
		a.Runes = make([]rune, len(vals))
		for i, v := range vals {
			a.Runes[i] = rune(v)
		}
	}
	if len(a.Runes) != a.Numel() {
		return fmt.Errorf("%w: %d characters for %s char array", ErrMalformed, len(a.Runes), a.Shape())
	}
	return nil
}

// checkedNumel multiplies dims, reporting false on overflow.
func checkedNumel(dims []int) (int, bool) {
	for _, d := range dims {
		if d == 0 {
			return 0, true
		}
	}
	n := 1
	for _, d := range dims {
		if n > math.MaxInt/d {
			return 0, false
		}
		n *= d
	}
	return n, true
}

// remainingElements is an upper bound on the data elements left in r, each
// of which takes at least one 8-byte tag.
func (r *reader) remainingElements() int {
	return (len(r.buf) - r.pos) / 8
}

func (r *reader) cells(a *Array, depth int) error {
	n := a.Numel()
	if n > r.remainingElements() {
		return fmt.Errorf("%w: %s cell array exceeds its payload", ErrMalformed, a.Shape())
	}
	var cells []*Array
	for i := 0; i < n; i++ {
		typ, payload, err := r.element()
		if err != nil || typ != miMATRIX {
			return fmt.Errorf("%w: cell %d is not a matrix", ErrMalformed, i)
		}
		el, err := r.matrix(payload, depth+1)
		if err != nil {
			return err
		}
		cells = append(cells, el)
	}
	a.Cells = cells
	return nil
}

func (r *reader) record(a *Array, depth int) error {
	if a.Class == ClassObject {
		_, name, err := r.element()
		if err != nil {
			return fmt.Errorf("%w: missing class name", ErrMalformed)
		}
		a.ClassName = string(name)
	}

	typ, raw, err := r.element()
	if err != nil {
		return fmt.Errorf("%w: missing field name length", ErrMalformed)
	}
	width, err := r.numbers(typ, raw)
	if err != nil || len(width) != 1 || width[0] <= 0 {
		return fmt.Errorf("%w: bad field name length", ErrMalformed)
	}
	_, names, err := r.element()
	if err != nil {
		return fmt.Errorf("%w: missing field names", ErrMalformed)
	}
	w := int(width[0])
	for off := 0; off+w <= len(names); off += w {
		name := names[off : off+w]
		if i := bytes.IndexByte(name, 0); i >= 0 {
			name = name[:i]
		}
		a.Fields = append(a.Fields, string(name))
	}

	n := a.Numel()
	if len(a.Fields) == 0 {
		if n > maxFieldlessElements {
			return fmt.Errorf("%w: %s struct array without fields", ErrMalformed, a.Shape())
		}
	} else if n > r.remainingElements()/len(a.Fields) {
		return fmt.Errorf("%w: %s struct array exceeds its payload", ErrMalformed, a.Shape())
	}
	a.Elements = make([][]*Array, n)
	for i := 0; i < n; i++ {
		a.Elements[i] = make([]*Array, len(a.Fields))
		for f := range a.Fields {
			typ, payload, err := r.element()
			if err != nil || typ != miMATRIX {
				return fmt.Errorf("%w: field %q of element %d", ErrMalformed, a.Fields[f], i)
			}
			el, err := r.matrix(payload, depth+1)
			if err != nil {
				return err
			}
			a.Elements[i][f] = el
		}
	}
	return nil
}

// numbers converts a numeric data element to float64 values.
func (r *reader) numbers(typ uint32, raw []byte) ([]float64, error) {
	size := 0
	switch typ {
	case miINT8, miUINT8:
		size = 1
	case miINT16, miUINT16:
		size = 2
	case miINT32, miUINT32, miSINGLE:
		size = 4
	case miDOUBLE, miINT64, miUINT64:
		size = 8
	default:
		return nil, fmt.Errorf("%w: element type %d is not numeric", ErrMalformed, typ)
	}
	if len(raw)%size != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrMalformed, len(raw), size)
	}
	out := make([]float64, len(raw)/size)
	o := r.order
	for i := range out {
		b := raw[i*size:]
		switch typ {
		case miINT8:
			out[i] = float64(int8(b[0]))
		case miUINT8:
			out[i] = float64(b[0])
		case miINT16:
			out[i] = float64(int16(o.Uint16(b)))
		case miUINT16:
			out[i] = float64(o.Uint16(b))
		case miINT32:
			out[i] = float64(int32(o.Uint32(b)))
		case miUINT32:
			out[i] = float64(o.Uint32(b))
		case miSINGLE:
			out[i] = float64(math.Float32frombits(o.Uint32(b)))
		case miDOUBLE:
			out[i] = math.Float64frombits(o.Uint64(b))
		case miINT64:
			out[i] = float64(int64(o.Uint64(b)))
		case miUINT64:
			out[i] = float64(o.Uint64(b))
		}
	}
	return out, nil
}

func allZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
