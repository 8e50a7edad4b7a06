package columnar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ajitpratap0/statimport/pkg/errors"
)

func buildTable(t *testing.T, rows [][]string, opts ...Option) *Table {
	t.Helper()
	opts = append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)
	store := NewStore(opts...)
	for _, row := range rows {
		require.NoError(t, store.AddRow(row))
	}
	return store.Table()
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		name   string
		field  string
		number bool
		value  float64
	}{
		{"integer", "20", true, 20},
		{"decimal", "-3.25", true, -3.25},
		{"exponent", "1e3", true, 1000},
		{"padded", " 7 ", true, 7},
		{"word", "al", false, 0},
		{"empty", "", false, 0},
		{"nan is text", "NaN", false, 0},
		{"inf is text", "Inf", false, 0},
		{"negative infinity is text", "-Infinity", false, 0},
		{"leading tab", "\t20", true, 20},
		{"thousands separator", "1,000", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cell := Coerce(tt.field)
			assert.Equal(t, tt.number, cell.IsNumber())
			assert.Equal(t, tt.field, cell.String())
			if tt.number {
				v, ok := cell.Float()
				assert.True(t, ok)
				assert.Equal(t, tt.value, v)
			}
		})
	}
}

func TestCellLabelNormalisesNumbers(t *testing.T) {
	assert.Equal(t, "20", Coerce("20.0").Label())
	assert.Equal(t, "20.0", Coerce("20.0").String())
	assert.Equal(t, "bo", Coerce("bo").Label())
}

func TestStoreAddRow(t *testing.T) {
	table := buildTable(t, [][]string{
		{"al", "20"},
		{"bo", "30"},
	})

	require.Equal(t, 2, table.Width())
	require.Equal(t, 2, table.RowCount())

	cols := table.Columns(Native)
	assert.Equal(t, Column{Text("al"), Text("bo")}, cols[0])

	v0, _ := cols[1][0].Float()
	v1, _ := cols[1][1].Float()
	assert.Equal(t, []float64{20, 30}, []float64{v0, v1})
}

func TestStoreRejectsRaggedRows(t *testing.T) {
	store := NewStore(WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, store.AddRow([]string{"1", "2", "3"}))
	require.NoError(t, store.AddRow([]string{"4", "5", "6"}))

	err := store.AddRow([]string{"7", "8"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeMalformedInput))

	var typed *errors.Error
	require.ErrorAs(t, err, &typed)
	row, ok := typed.Detail("row")
	require.True(t, ok)
	assert.Equal(t, 3, row)

	assert.Equal(t, 2, store.Table().RowCount(), "rejected row must not be stored")
}

func TestStorePadsShortRows(t *testing.T) {
	store := NewStore(WithLogger(zaptest.NewLogger(t)), WithRaggedPolicy(RaggedPad))
	require.NoError(t, store.AddRow([]string{"a", "b", "c"}))
	require.NoError(t, store.AddRow([]string{"d"}))

	table := store.Table()
	assert.Equal(t, [][]string{{"a", "b", "c"}, {"d", "", ""}}, table.Rows())

	err := store.AddRow([]string{"e", "f", "g", "h"})
	assert.True(t, errors.IsType(err, errors.ErrorTypeMalformedInput), "long rows are rejected even when padding")
}

func TestParseRaggedPolicy(t *testing.T) {
	p, err := ParseRaggedPolicy("")
	require.NoError(t, err)
	assert.Equal(t, RaggedReject, p)

	p, err = ParseRaggedPolicy("pad")
	require.NoError(t, err)
	assert.Equal(t, RaggedPad, p)

	_, err = ParseRaggedPolicy("truncate")
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidParameter))
}

func TestStoreInstancesDoNotShareState(t *testing.T) {
	a := NewStore(WithLogger(zaptest.NewLogger(t)))
	b := NewStore(WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, a.AddRow([]string{"x", "y"}))

	assert.Equal(t, 0, b.Table().Width())
	assert.Equal(t, 0, b.Table().RowCount())
}

func TestEmptyStore(t *testing.T) {
	table := NewStore(WithLogger(zaptest.NewLogger(t))).Table()
	assert.Equal(t, 0, table.Width())
	assert.Equal(t, 0, table.RowCount())
	assert.Empty(t, table.Rows())
	assert.Empty(t, table.Columns(AsNumeric))
}

func TestStoreHeadersFixWidth(t *testing.T) {
	store := NewStore(WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, store.SetHeaders([]string{"name", "age"}))

	table := store.Table()
	assert.Equal(t, 2, table.Width())
	assert.Zero(t, table.RowCount())
	assert.Equal(t, []string{"name", "age"}, table.Headers())

	err := store.AddRow([]string{"al"})
	assert.True(t, errors.IsType(err, errors.ErrorTypeMalformedInput))
	require.NoError(t, store.AddRow([]string{"al", "20"}))
	assert.Equal(t, 1, store.Table().RowCount())

	err = table.SetHeaders([]string{"only"})
	assert.True(t, errors.IsType(err, errors.ErrorTypeMalformedInput), "width is fixed once set")
}

func TestTableHeadersAndLookup(t *testing.T) {
	table := buildTable(t, [][]string{{"al", "20"}})

	err := table.SetHeaders([]string{"name"})
	assert.True(t, errors.IsType(err, errors.ErrorTypeMalformedInput))

	require.NoError(t, table.SetHeaders([]string{"name", "age"}))
	assert.Equal(t, []string{"name", "age"}, table.Headers())

	i, err := table.ColumnIndex("age")
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	i, err = table.ColumnIndex("0")
	require.NoError(t, err)
	assert.Equal(t, 0, i)

	_, err = table.ColumnIndex("height")
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidParameter))

	_, err = table.Column(5)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidParameter))
}

func TestNewTableChecksLengths(t *testing.T) {
	_, err := NewTable([]Column{{Number(1)}, {Number(1), Number(2)}}, nil)
	assert.True(t, errors.IsType(err, errors.ErrorTypeMalformedInput))

	table, err := NewTable([]Column{{Number(1)}, {Text("a")}}, []string{"n", "s"})
	require.NoError(t, err)
	assert.Equal(t, "n", table.ColumnName(0))
}
