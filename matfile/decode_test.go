package matfile_test

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matview/matfile"
	mt "matview/matfile/matfiletest"
)

func TestDecodeNumeric(t *testing.T) {
	for _, compress := range []bool{false, true} {
		data := mt.Encode([]*matfile.Array{
			mt.Double("m", []int{2, 3}, 1, 4, 2, 5, 3, 6),
			mt.Scalar("x", 42),
			mt.Int32("n", []int{1, 2}, -7, 9),
		}, mt.Options{Compress: compress})

		f, err := matfile.Decode(data)
		require.NoError(t, err)
		require.Len(t, f.Variables, 3)
		assert.Equal(t, binary.ByteOrder(binary.LittleEndian), f.ByteOrder)

		m, ok := f.Lookup("m")
		require.True(t, ok)
		assert.Equal(t, matfile.ClassDouble, m.Class)
		assert.Equal(t, []int{2, 3}, m.Dims)
		assert.Equal(t, []float64{1, 4, 2, 5, 3, 6}, m.Real)
		assert.Equal(t, "2x3", m.Shape())

		n, _ := f.Lookup("n")
		assert.Equal(t, []float64{-7, 9}, n.Real)
		assert.Equal(t, "int32", n.TypeName())
	}
}

func TestDecodeCharCellStruct(t *testing.T) {
	s := mt.Struct("s", []int{1, 2}, []string{"id", "label"},
		[]*matfile.Array{mt.Scalar("", 1), mt.Char("", "first")},
		[]*matfile.Array{mt.Scalar("", 2), mt.Char("", "second")},
	)
	data := mt.Encode([]*matfile.Array{
		mt.Char("greeting", "héllo"),
		mt.CharRows("rows", "abc", "def"),
		mt.Strings("names", "a", "bb"),
		s,
	}, mt.Options{Compress: true})

	f, err := matfile.Decode(data)
	require.NoError(t, err)

	g, _ := f.Lookup("greeting")
	assert.Equal(t, []string{"héllo"}, g.Strings())

	rows, _ := f.Lookup("rows")
	assert.Equal(t, []string{"abc", "def"}, rows.Strings())

	names, _ := f.Lookup("names")
	require.Len(t, names.Cells, 2)
	assert.Equal(t, []string{"bb"}, names.Cells[1].Strings())

	st, _ := f.Lookup("s")
	assert.Equal(t, []string{"id", "label"}, st.Fields)
	require.Len(t, st.Elements, 2)
	assert.Equal(t, []string{"second"}, st.Field(1, "label").Strings())
	assert.Nil(t, st.Field(0, "missing"))
}

func TestDecodeLogicalAndComplex(t *testing.T) {
	data := mt.Encode([]*matfile.Array{
		mt.Logical("flags", []int{1, 3}, true, false, true),
		mt.Complex("z", []int{1, 2}, []float64{1, 3}, []float64{2, -4}),
	}, mt.Options{})

	f, err := matfile.Decode(data)
	require.NoError(t, err)

	flags, _ := f.Lookup("flags")
	assert.True(t, flags.Logical)
	assert.Equal(t, "logical", flags.TypeName())
	assert.Equal(t, []float64{1, 0, 1}, flags.Real)

	z, _ := f.Lookup("z")
	assert.True(t, z.Complex)
	assert.Equal(t, []float64{2, -4}, z.Imag)
	assert.Equal(t, "complex double", z.TypeName())
}

func TestDecodeRejectsBadInput(t *testing.T) {
	_, err := matfile.Decode([]byte("hello"))
	assert.ErrorIs(t, err, matfile.ErrNotMAT)

	v73 := mt.Encode(nil, mt.Options{Description: "MATLAB 7.3 MAT-file, Platform: GLNXA64"})
	binary.LittleEndian.PutUint16(v73[124:], 0x0200)
	_, err = matfile.Decode(v73)
	assert.ErrorIs(t, err, matfile.ErrUnsupportedVersion)

	good := mt.Encode([]*matfile.Array{mt.Row("v", 1, 2, 3)}, mt.Options{})
	_, err = matfile.Decode(good[:len(good)-12])
	assert.ErrorIs(t, err, matfile.ErrMalformed)
}

func TestDecodeRejectsOversizedArrays(t *testing.T) {
	huge := []int{1 << 30, 1 << 30}

	cell := mt.Cell("c", mt.Scalar("", 1))
	cell.Dims = huge
	record := mt.Record("s", []string{"a"}, mt.Scalar("", 1))
	record.Dims = huge
	fieldless := mt.Record("e", nil)
	fieldless.Dims = huge
	overflow := mt.Cell("o")
	overflow.Dims = []int{1 << 30, 1 << 30, 1 << 30, 1 << 30}

	tests := []struct {
		name string
		arr  *matfile.Array
	}{
		{"cell", cell},
		{"struct", record},
		{"struct without fields", fieldless},
		{"element count overflow", overflow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, compress := range []bool{false, true} {
				data := mt.Encode([]*matfile.Array{tt.arr}, mt.Options{Compress: compress})
				_, err := matfile.Decode(data)
				assert.ErrorIs(t, err, matfile.ErrMalformed)
			}
		})
	}
}

func TestDecodeBigEndianHeader(t *testing.T) {
	data := make([]byte, matfile.HeaderSize)
	copy(data, "MATLAB 5.0 MAT-file")
	binary.BigEndian.PutUint16(data[124:], 0x0100)
	data[126], data[127] = 'M', 'I'

	// A 1x1 double named "x" written big-endian.
	el := []byte{}
	put := func(b []byte) { el = append(el, b...) }
	u32 := func(v uint32) []byte { b := make([]byte, 4); binary.BigEndian.PutUint32(b, v); return b }
	put(u32(6))
	put(u32(8))
	put(u32(uint32(matfile.ClassDouble)))
	put(u32(0))
	put(u32(5))
	put(u32(8))
	put(u32(1))
	put(u32(1))
	put(u32(1<<16 | 1))
	put([]byte{'x', 0, 0, 0})
	put(u32(9))
	put(u32(8))
	f := make([]byte, 8)
	binary.BigEndian.PutUint64(f, math.Float64bits(2.5))
	put(f)
	data = append(data, u32(14)...)
	data = append(data, u32(uint32(len(el)))...)
	data = append(data, el...)

	file, err := matfile.Decode(data)
	require.NoError(t, err)
	x, ok := file.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, []float64{2.5}, x.Real)
}

func TestArrayHelpers(t *testing.T) {
	m := mt.Double("m", []int{2, 3}, 1, 4, 2, 5, 3, 6)
	assert.Equal(t, []float64{4, 5, 6}, m.Row(1).Real)
	assert.Equal(t, []float64{2}, m.Element(2).Real)
	assert.Nil(t, m.Row(5))
	assert.False(t, m.IsVector())
	assert.Equal(t, 2, m.Rank())

	v := mt.Row("v", 1, 2)
	assert.True(t, v.IsVector())

	empty := mt.Double("e", []int{0, 0})
	assert.True(t, empty.IsEmpty())
	assert.Equal(t, "0x0", empty.Shape())

	sp := &matfile.Array{Class: matfile.ClassSparse, Dims: []int{4, 4}}
	assert.False(t, sp.HasData())
	assert.Equal(t, "sparse", sp.TypeName())
}
