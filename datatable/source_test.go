package datatable

import (
	"errors"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnSource(t *testing.T) {
	src, err := NewColumnSource(
		[]string{"id", "name"},
		[][]Value{
			{NewValue(1.0, TypeFloat), NewValue(2.0, TypeFloat)},
			{NewValue("a", TypeString), NewValue("b", TypeString)},
		},
	)
	require.NoError(t, err)

	assert.Equal(t, 2, src.RowCount())
	assert.Equal(t, 2, src.ColumnCount())
	assert.Equal(t, []string{"id", "name"}, ColumnNames(src))

	v, err := src.Cell(1, 0)
	require.NoError(t, err)
	assert.Equal(t, "2", v.Formatted)

	row, err := src.Row(0)
	require.NoError(t, err)
	assert.Equal(t, "1", row[0].Formatted)
	assert.Equal(t, "a", row[1].Formatted)

	_, err = src.Cell(2, 0)
	assert.ErrorIs(t, err, ErrInvalidRow)
	_, err = src.Cell(0, 5)
	assert.ErrorIs(t, err, ErrInvalidColumn)
	_, err = src.ColumnName(-1)
	assert.ErrorIs(t, err, ErrInvalidColumn)
}

func TestColumnSourceRejectsRaggedColumns(t *testing.T) {
	_, err := NewColumnSource(
		[]string{"a", "b"},
		[][]Value{
			{NewValue(1.0, TypeFloat), NewValue(2.0, TypeFloat), NewValue(3.0, TypeFloat)},
			{NewValue(1.0, TypeFloat), NewValue(2.0, TypeFloat)},
		},
	)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrColumnLength))
	assert.Contains(t, err.Error(), `column "b" has 2 values`)
}

func TestFormatScalar(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string
	}{
		{1.0, "1"},
		{2.5, "2.5"},
		{int64(-7), "-7"},
		{true, "true"},
		{"text", "text"},
		{complex(1, -2), "1-2i"},
		{nil, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatScalar(tt.in))
	}
	assert.Equal(t, "0.5+3i", FormatComplex(0.5, 3))
}

func TestRecordSource(t *testing.T) {
	pool := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer pool.AssertSize(t, 0)

	schema := arrow.NewSchema([]arrow.Field{
		{Name: "0", Type: arrow.PrimitiveTypes.Float64},
		{Name: "1", Type: arrow.PrimitiveTypes.Int64},
		{Name: "2", Type: arrow.FixedWidthTypes.Boolean},
	}, nil)
	b := array.NewRecordBuilder(pool, schema)
	defer b.Release()
	b.Field(0).(*array.Float64Builder).AppendValues([]float64{1.5, 2}, nil)
	b.Field(1).(*array.Int64Builder).AppendValues([]int64{10, 20}, nil)
	b.Field(2).(*array.BooleanBuilder).AppendValues([]bool{true, false}, nil)
	rec := b.NewRecord()

	src, err := NewRecordSource(rec)
	require.NoError(t, err)
	rec.Release()

	assert.Equal(t, 2, src.RowCount())
	assert.Equal(t, 3, src.ColumnCount())
	assert.Equal(t, []string{"0", "1", "2"}, ColumnNames(src))

	row, err := src.Row(1)
	require.NoError(t, err)
	assert.Equal(t, "2", row[0].Formatted)
	assert.Equal(t, TypeFloat, row[0].Type)
	assert.Equal(t, "20", row[1].Formatted)
	assert.Equal(t, TypeInt, row[1].Type)
	assert.Equal(t, "false", row[2].Formatted)

	_, err = src.Cell(2, 0)
	assert.ErrorIs(t, err, ErrInvalidRow)

	src.Release()
	assert.Equal(t, 0, src.RowCount())
}

func TestNewRecordSourceNil(t *testing.T) {
	_, err := NewRecordSource(nil)
	assert.ErrorIs(t, err, ErrNoDataSource)
}
