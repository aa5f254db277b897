package explorer

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"matview/datatable"
	"matview/matfile"
	mt "matview/matfile/matfiletest"
)

func TestNewCell(t *testing.T) {
	large := DefaultLimits().LargeArray

	tests := []struct {
		name    string
		in      *matfile.Array
		kind    Kind
		summary string
	}{
		{"nil", nil, KindSmallArray, ""},
		{"empty", mt.Double("", []int{0, 0}), KindSmallArray, ""},
		{"scalar", mt.Scalar("", 3.5), KindScalar, "3.5"},
		{"whole number", mt.Scalar("", 1), KindScalar, "1"},
		{"integer", mt.Int32("", []int{1, 1}, -4), KindScalar, "-4"},
		{"large uint64", mt.Uint64("", []int{1, 1}, 1<<63), KindScalar, "9223372036854775808"},
		{"logical", mt.Logical("", []int{1, 1}, true), KindScalar, "true"},
		{"complex", mt.Complex("", []int{1, 1}, []float64{1}, []float64{-2}), KindScalar, "1-2i"},
		{"text", mt.Char("", "hello"), KindScalar, "hello"},
		{"wrapped scalar", mt.Cell("", mt.Cell("", mt.Scalar("", 7))), KindScalar, "7"},
		{"vector", mt.Row("", 1, 2, 3), KindSmallArray, "<1x3 double>"},
		{"cell vector", mt.Strings("", "a", "b"), KindSmallArray, "<1x2 cell>"},
		{"record", mt.Record("", []string{"a"}, mt.Scalar("", 1)), KindRecord, "<1x1 struct>"},
		{"char matrix", mt.CharRows("", "ab", "cd"), KindSmallArray, "<2x2 char>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCell(tt.in, large)
			assert.Equal(t, tt.kind, c.Kind)
			assert.Equal(t, tt.summary, Summarize(c, 50))
		})
	}
}

func TestScalarIntegerRange(t *testing.T) {
	s := NewCell(mt.Uint64("", []int{1, 1}, 1<<64), 10).Scalar
	assert.Equal(t, "18446744073709551615", s.String())
	assert.Equal(t, uint64(math.MaxUint64), s.Raw())

	s = NewCell(mt.Uint64("", []int{1, 1}, 42), 10).Scalar
	assert.Equal(t, "42", s.String())
	assert.Equal(t, int64(42), s.Raw())
}

func TestNewCellLargeArray(t *testing.T) {
	a := mt.Double("", []int{1, 11}, make([]float64, 11)...)
	assert.Equal(t, KindLargeArray, NewCell(a, 10).Kind)
	assert.Equal(t, KindSmallArray, NewCell(a, 11).Kind)
	assert.Equal(t, "<1x11 double>", Summarize(NewCell(a, 10), 50))
}

func TestSummarizeObjectShowsClassName(t *testing.T) {
	obj := mt.Record("", []string{"x"}, mt.Scalar("", 1))
	obj.Class = matfile.ClassObject
	obj.ClassName = "Point"
	assert.Equal(t, "<1x1 Point>", Summarize(NewCell(obj, 10), 50))
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("x", 120)
	got := Truncate(long, 50)
	assert.Equal(t, strings.Repeat("x", 50)+"…", got)
	assert.Equal(t, "short", Truncate("short", 50))
	assert.Equal(t, "ééé…", Truncate("éééé", 3))
	assert.Equal(t, long, Truncate(long, 0))
}

func TestCellValue(t *testing.T) {
	c := NewCell(mt.Char("", strings.Repeat("y", 120)), 10)
	v := c.Value(50)
	assert.Equal(t, datatable.TypeString, v.Type)
	assert.Equal(t, 51, len([]rune(v.Formatted)))
	assert.Equal(t, strings.Repeat("y", 120), RenderValue(v, DefaultLimits()))
}
