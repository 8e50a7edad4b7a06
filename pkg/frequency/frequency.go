// Package frequency turns a column into category buckets normalized to a
// unit total.
//
// Text columns are counted by distinct value in first-seen order. Numeric
// columns are split into equal-width bins between their minimum and maximum.
// Normalized values are rounded to two decimals per bucket and the rounding
// drift is left in place, so a percentage histogram sums to 100 only within
// 0.01 per bucket.
package frequency

import (
	"fmt"
	"math"

	"github.com/ajitpratap0/statimport/pkg/columnar"
	"github.com/ajitpratap0/statimport/pkg/errors"
)

// MinSplit is the smallest number of bins accepted by NumericFrequencies
const MinSplit = 2

// StringFrequencies counts each distinct cell label, keeping first-seen order
func StringFrequencies(col columnar.Column) (counts []int, labels []string) {
	index := make(map[string]int, len(col))
	for _, cell := range col {
		label := cell.Label()
		i, ok := index[label]
		if !ok {
			i = len(labels)
			index[label] = i
			labels = append(labels, label)
			counts = append(counts, 0)
		}
		counts[i]++
	}
	return counts, labels
}

// NumericFrequencies bins the numeric cells of col into split equal-width
// buckets. Text cells are ignored. When every value is equal a single bucket
// holds them all.
func NumericFrequencies(col columnar.Column, split int, mode BoundaryMode) (counts []int, labels []string, err error) {
	if split < MinSplit {
		return nil, nil, errors.Newf(errors.ErrorTypeInvalidParameter, "split must be at least %d", MinSplit).
			WithDetail("split", split)
	}

	values := col.Floats()
	if len(values) == 0 {
		return nil, nil, errors.New(errors.ErrorTypeEmptyDataset, "column has no numeric values").
			WithDetail("cells", len(col))
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	if lo == hi {
		return []int{len(values)}, []string{rangeLabel(lo, hi)}, nil
	}

	edges := make([]float64, split+1)
	width := (hi - lo) / float64(split)
	for i := range edges {
		edges[i] = lo + float64(i)*width
	}
	edges[split] = hi

	counts = make([]int, split)
	labels = make([]string, split)
	for i := 0; i < split; i++ {
		labels[i] = rangeLabel(edges[i], edges[i+1])
	}

	for _, v := range values {
		for i := 0; i < split; i++ {
			if inBucket(v, edges[i], edges[i+1], i == split-1, mode) {
				counts[i]++
				if mode == BoundaryHalfOpen {
					break
				}
			}
		}
	}

	return counts, labels, nil
}

func inBucket(v, lo, hi float64, last bool, mode BoundaryMode) bool {
	if v < lo {
		return false
	}
	if mode == BoundaryInclusive || last {
		return v <= hi
	}
	return v < hi
}

func rangeLabel(lo, hi float64) string {
	return fmt.Sprintf("%.2f - %.2f", lo, hi)
}

// round2 rounds half away from zero to two decimals
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
