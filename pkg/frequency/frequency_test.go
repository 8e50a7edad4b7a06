package frequency

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/statimport/pkg/columnar"
	"github.com/ajitpratap0/statimport/pkg/errors"
)

func column(fields ...string) columnar.Column {
	col := make(columnar.Column, len(fields))
	for i, f := range fields {
		col[i] = columnar.Coerce(f)
	}
	return col
}

func numbers(values ...float64) columnar.Column {
	col := make(columnar.Column, len(values))
	for i, v := range values {
		col[i] = columnar.Number(v)
	}
	return col
}

func sum(counts []int) int {
	total := 0
	for _, c := range counts {
		total += c
	}
	return total
}

func TestStringFrequencies(t *testing.T) {
	counts, labels := StringFrequencies(column("red", "blue", "red", "green", "blue", "red"))
	assert.Equal(t, []string{"red", "blue", "green"}, labels)
	assert.Equal(t, []int{3, 2, 1}, counts)
}

func TestStringFrequenciesNormalizesNumbers(t *testing.T) {
	counts, labels := StringFrequencies(column("x", "1.0", "1", "01"))
	assert.Equal(t, []string{"x", "1"}, labels)
	assert.Equal(t, []int{1, 3}, counts)
}

func TestNumericFrequenciesSplitsAtMidpoint(t *testing.T) {
	for _, mode := range []BoundaryMode{BoundaryHalfOpen, BoundaryInclusive} {
		t.Run(mode.String(), func(t *testing.T) {
			counts, labels, err := NumericFrequencies(numbers(0, 1, 2, 3, 4, 5, 6, 7, 8, 9), 2, mode)
			require.NoError(t, err)
			assert.Equal(t, []string{"0.00 - 4.50", "4.50 - 9.00"}, labels)
			assert.Equal(t, []int{5, 5}, counts)
			assert.Equal(t, 10, sum(counts))
		})
	}
}

func TestNumericFrequenciesSharedBoundary(t *testing.T) {
	col := numbers(0, 1, 2, 3, 4)

	counts, labels, err := NumericFrequencies(col, 2, BoundaryHalfOpen)
	require.NoError(t, err)
	assert.Equal(t, []string{"0.00 - 2.00", "2.00 - 4.00"}, labels)
	assert.Equal(t, []int{2, 3}, counts)
	assert.Equal(t, col.Len(), sum(counts))

	counts, _, err = NumericFrequencies(col, 2, BoundaryInclusive)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 3}, counts, "edge value counted in both buckets")
}

func TestNumericFrequenciesMaxLandsInLastBucket(t *testing.T) {
	counts, _, err := NumericFrequencies(numbers(0.1, 0.2, 0.3), 3, BoundaryHalfOpen)
	require.NoError(t, err)
	assert.Equal(t, 3, sum(counts))
	assert.Equal(t, 1, counts[2])
}

func TestNumericFrequenciesSingleValue(t *testing.T) {
	counts, labels, err := NumericFrequencies(numbers(7, 7, 7), 4, BoundaryHalfOpen)
	require.NoError(t, err)
	assert.Equal(t, []string{"7.00 - 7.00"}, labels)
	assert.Equal(t, []int{3}, counts)
}

func TestNumericFrequenciesIgnoresText(t *testing.T) {
	counts, _, err := NumericFrequencies(column("1", "n/a", "3"), 2, BoundaryHalfOpen)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1}, counts)
}

func TestNumericFrequenciesErrors(t *testing.T) {
	tests := []struct {
		name    string
		col     columnar.Column
		split   int
		errType errors.ErrorType
	}{
		{"split one", numbers(1, 2), 1, errors.ErrorTypeInvalidParameter},
		{"split zero", numbers(1, 2), 0, errors.ErrorTypeInvalidParameter},
		{"empty", nil, 2, errors.ErrorTypeEmptyDataset},
		{"only text", column("a", "b"), 2, errors.ErrorTypeEmptyDataset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := NumericFrequencies(tt.col, tt.split, BoundaryHalfOpen)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, tt.errType), err.Error())
		})
	}
}

func TestFrequencies(t *testing.T) {
	tests := []struct {
		name   string
		col    columnar.Column
		unit   Unit
		labels []string
		values []float64
	}{
		{
			name:   "text in degrees",
			col:    column("a", "b", "a", "a"),
			unit:   Degrees,
			labels: []string{"a", "b"},
			values: []float64{270, 90},
		},
		{
			name:   "text in decimal",
			col:    column("x", "y", "y"),
			unit:   Decimal,
			labels: []string{"x", "y"},
			values: []float64{0.33, 0.67},
		},
		{
			name:   "numbers in percentage",
			col:    numbers(0, 1, 2, 3, 4, 5, 6, 7, 8, 9),
			unit:   Percentage,
			labels: []string{"0.00 - 4.50", "4.50 - 9.00"},
			values: []float64{50, 50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := Frequencies(tt.col, tt.unit, WithSplit(2))
			require.NoError(t, err)
			assert.Equal(t, tt.unit, h.Unit)
			assert.Equal(t, tt.labels, h.Labels())
			assert.Equal(t, tt.values, h.Values())
			assert.Equal(t, tt.col.Len(), h.Total())
		})
	}
}

func TestFrequenciesDispatchesOnFirstCell(t *testing.T) {
	// A text first cell forces distinct-value counting even for numbers.
	h, err := Frequencies(column("n/a", "1", "2", "1"), Decimal)
	require.NoError(t, err)
	assert.Equal(t, []string{"n/a", "1", "2"}, h.Labels())
}

func TestFrequenciesPercentageTolerance(t *testing.T) {
	cols := []columnar.Column{
		column("a", "b", "c"),
		column("a", "b", "c", "d", "e", "f", "g"),
		numbers(1, 2, 2, 3, 3, 3, 5, 8, 13, 21, 34),
	}

	for i, col := range cols {
		for split := MinSplit; split <= 7; split++ {
			t.Run(strconv.Itoa(i)+"/"+strconv.Itoa(split), func(t *testing.T) {
				h, err := Frequencies(col, Percentage, WithSplit(split))
				require.NoError(t, err)

				total := 0.0
				for _, v := range h.Values() {
					total += v
				}
				assert.LessOrEqual(t, math.Abs(total-100), 0.01*float64(len(h.Buckets))+1e-9)
			})
		}
	}
}

func TestFrequenciesInclusiveStillNormalizes(t *testing.T) {
	h, err := Frequencies(numbers(0, 1, 2, 3, 4), Percentage, WithSplit(2), WithBoundary(BoundaryInclusive))
	require.NoError(t, err)
	assert.Equal(t, 6, h.Total())
	assert.Equal(t, []float64{50, 50}, h.Values())
}

func TestFrequenciesErrors(t *testing.T) {
	_, err := Frequencies(nil, Percentage)
	assert.True(t, errors.IsType(err, errors.ErrorTypeEmptyDataset))

	_, err = Frequencies(numbers(1, 2), Percentage, WithSplit(1))
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidParameter))

	text := columnar.Column{columnar.Text("a"), columnar.Text("b")}
	for _, split := range []int{1, 0, -5} {
		_, err = Frequencies(text, Percentage, WithSplit(split))
		assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidParameter), "split %d on a text column", split)
	}

	_, err = Frequencies(numbers(1, 2), Unit(9))
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidParameter))
}

func TestParseUnit(t *testing.T) {
	for in, want := range map[string]Unit{"decimal": Decimal, "Percentage": Percentage, "%": Percentage, "deg": Degrees} {
		got, err := ParseUnit(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseUnit("radians")
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidParameter))
}

func TestParseBoundaryMode(t *testing.T) {
	m, err := ParseBoundaryMode("inclusive")
	require.NoError(t, err)
	assert.Equal(t, BoundaryInclusive, m)

	m, err = ParseBoundaryMode("")
	require.NoError(t, err)
	assert.Equal(t, BoundaryHalfOpen, m)

	_, err = ParseBoundaryMode("open")
	assert.Error(t, err)
}
