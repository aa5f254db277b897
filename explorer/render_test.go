package explorer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"matview/datatable"
	"matview/matfile"
	mt "matview/matfile/matfiletest"
)

func render(a *matfile.Array) string {
	lim := DefaultLimits()
	return RenderCell(NewCell(a, lim.LargeArray), lim)
}

func TestRenderCell(t *testing.T) {
	tests := []struct {
		name string
		in   *matfile.Array
		want string
	}{
		{"scalar", mt.Scalar("", 2), "2"},
		{"row", mt.Row("", 1, 2, 3), "[[1, 2, 3]]"},
		// column-major storage, row order output
		{"matrix", mt.Double("", []int{2, 3}, 1, 4, 2, 5, 3, 6), "[[1, 2, 3], [4, 5, 6]]"},
		{"logical", mt.Logical("", []int{1, 2}, true, false), "[[true, false]]"},
		{"cell", mt.Cell("", mt.Char("", "a"), mt.Row("", 1, 2)), `[["a", [[1, 2]]]]`},
		{"record", mt.Record("", []string{"x", "s"}, mt.Scalar("", 1), mt.Char("", "hi")), `{x: 1, s: "hi"}`},
		{"char rows", mt.CharRows("", "ab", "cd"), `["ab", "cd"]`},
		{"empty", mt.Double("", []int{0, 0}), "[]"},
		{"text", mt.Char("", "plain"), "plain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(tt.in))
		})
	}
}

func TestRenderEmptyInsideList(t *testing.T) {
	c := mt.Cell("", mt.Double("", []int{0, 0}), mt.Scalar("", 1))
	assert.Equal(t, "[[[], 1]]", render(c))
}

func TestRenderStructArray(t *testing.T) {
	s := mt.Struct("", []int{1, 2}, []string{"a"},
		[]*matfile.Array{mt.Scalar("", 1)},
		[]*matfile.Array{mt.Scalar("", 2)},
	)
	assert.Equal(t, "[[{a: 1}, {a: 2}]]", render(s))
}

func TestRenderLargeArray(t *testing.T) {
	data := make([]float64, 1000000)
	for i := range data {
		data[i] = float64(i)
	}
	big := mt.Double("", []int{1, len(data)}, data...)

	got := render(big)
	assert.Contains(t, got, TruncatedMarker)
	assert.Contains(t, got, "1000000")
	assert.True(t, strings.HasPrefix(got, "[0, 1, 2, "))
	assert.Contains(t, got, ", 99, ...]")
	assert.NotContains(t, got, ", 100,")
}

func TestRenderLargeMatrixRowOrder(t *testing.T) {
	// 3x4 stored column-major: row 0 is 0, 3, 6, 9.
	m := mt.Double("", []int{3, 4}, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11)
	lim := Limits{LargeArray: 5, Preview: 4, TextLimit: 50}
	got := RenderCell(NewCell(m, lim.LargeArray), lim)
	assert.Equal(t, "[0, 3, 6, 9, ...] [TRUNCATED] 12 elements", got)
}

func TestRenderDepthGuard(t *testing.T) {
	a := mt.Scalar("", 1)
	for i := 0; i < 40; i++ {
		a = mt.Cell("", a, mt.Scalar("", 0))
	}
	got := render(a)
	assert.Contains(t, got, Ellipsis)
}

func TestDetailText(t *testing.T) {
	lim := DefaultLimits()
	row := []datatable.Value{
		NewCell(mt.Row("", 1, 2), lim.LargeArray).Value(lim.TextLimit),
		datatable.NewValue(int64(5), datatable.TypeInt),
		datatable.NewNullValue(datatable.TypeFloat),
	}
	got := DetailText([]string{"v", "n", "z"}, row, lim)
	assert.Equal(t, "v: [[1, 2]]\nn: 5\nz: ", got)
}
