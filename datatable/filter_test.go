package datatable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRow(id float64, name string) []Value {
	return []Value{NewValue(id, TypeFloat), NewValue(name, TypeString)}
}

func TestParseQuery(t *testing.T) {
	cols := []string{"id", "name"}

	tests := []struct {
		name  string
		query string
		rows  map[string]bool
	}{
		{"equal", "name = b", map[string]bool{"a": false, "b": true, "c": false}},
		{"not equal", "name != b", map[string]bool{"a": true, "b": false}},
		{"numeric greater", "id > 2", map[string]bool{"a": false, "b": false, "c": true}},
		{"numeric not lexical", "id >= 10", map[string]bool{"a": false, "j": true}},
		{"contains", "name ~ B", map[string]bool{"a": false, "b": true}},
		{"bare word", "c", map[string]bool{"a": false, "c": true}},
		{"and", "id > 1 AND name != c", map[string]bool{"a": false, "b": true, "c": false}},
		{"or", "name = a or name = c", map[string]bool{"a": true, "b": false, "c": true}},
		{"and binds tighter", "name = a OR id > 1 AND id < 3", map[string]bool{"a": true, "b": true, "c": false}},
		{"quoted", `name = "b"`, map[string]bool{"b": true}},
	}

	ids := map[string]float64{"a": 1, "b": 2, "c": 3, "j": 10}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseQuery(tt.query, cols)
			require.NoError(t, err)
			require.NotNil(t, f)
			for name, want := range tt.rows {
				got, err := f.Evaluate(testRow(ids[name], name), cols)
				require.NoError(t, err)
				assert.Equal(t, want, got, "row %s", name)
			}
		})
	}
}

func TestParseQueryValueWithOperators(t *testing.T) {
	cols := []string{"name", "expr"}

	tests := []struct {
		query string
		want  Comparison
	}{
		{"name ~ a=b", Comparison{Column: "name", Operator: OpContains, Value: "a=b"}},
		{"expr = x>=1", Comparison{Column: "expr", Operator: OpEqual, Value: "x>=1"}},
		{"expr != <none>", Comparison{Column: "expr", Operator: OpNotEqual, Value: "<none>"}},
		{"expr >= 2", Comparison{Column: "expr", Operator: OpGreaterEqual, Value: "2"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			f, err := ParseQuery(tt.query, cols)
			require.NoError(t, err)
			assert.Equal(t, &tt.want, f)
		})
	}
}

func TestParseQueryErrors(t *testing.T) {
	cols := []string{"id"}

	_, err := ParseQuery("missing = 1", cols)
	assert.ErrorIs(t, err, ErrInvalidFilter)

	_, err = ParseQuery("id = 1 AND", cols)
	assert.ErrorIs(t, err, ErrInvalidFilter)

	f, err := ParseQuery("   ", cols)
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestCompositeFilterDescription(t *testing.T) {
	f, err := ParseQuery("id > 1 AND name ~ x", []string{"id", "name"})
	require.NoError(t, err)
	assert.Equal(t, `(id > "1" AND name ~ "x")`, f.Description())

	empty := &CompositeFilter{}
	ok, err := empty.Evaluate(nil, nil)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "empty filter", empty.Description())
}
