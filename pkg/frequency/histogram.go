package frequency

import (
	"github.com/ajitpratap0/statimport/pkg/columnar"
	"github.com/ajitpratap0/statimport/pkg/errors"
)

// DefaultSplit is the bin count used for numeric columns when none is given
const DefaultSplit = 5

// Bucket is one category of a histogram
type Bucket struct {
	Label    string  `json:"label"`
	RawCount int     `json:"raw_count"`
	Value    float64 `json:"value"`
}

// Histogram is an ordered set of buckets normalized to Unit
type Histogram struct {
	Buckets []Bucket `json:"buckets"`
	Unit    Unit     `json:"unit"`
}

// Labels returns the bucket labels in order
func (h *Histogram) Labels() []string {
	labels := make([]string, len(h.Buckets))
	for i, b := range h.Buckets {
		labels[i] = b.Label
	}
	return labels
}

// Values returns the normalized bucket values in order
func (h *Histogram) Values() []float64 {
	values := make([]float64, len(h.Buckets))
	for i, b := range h.Buckets {
		values[i] = b.Value
	}
	return values
}

// Total returns the sum of the raw counts
func (h *Histogram) Total() int {
	total := 0
	for _, b := range h.Buckets {
		total += b.RawCount
	}
	return total
}

type options struct {
	split    int
	boundary BoundaryMode
}

// Option configures Frequencies
type Option func(*options)

// WithSplit sets the bin count for numeric columns
func WithSplit(split int) Option {
	return func(o *options) { o.split = split }
}

// WithBoundary sets how numeric bucket edges are counted
func WithBoundary(mode BoundaryMode) Option {
	return func(o *options) { o.boundary = mode }
}

// Frequencies builds a histogram of col. A column whose first cell is a
// number is binned, any other column is counted by distinct value. The split
// is validated for both kinds.
func Frequencies(col columnar.Column, unit Unit, opts ...Option) (*Histogram, error) {
	o := options{split: DefaultSplit, boundary: BoundaryHalfOpen}
	for _, opt := range opts {
		opt(&o)
	}

	multiplier, err := unit.Multiplier()
	if err != nil {
		return nil, err
	}
	if o.split < MinSplit {
		return nil, errors.Newf(errors.ErrorTypeInvalidParameter, "split must be at least %d", MinSplit).
			WithDetail("split", o.split)
	}
	if col.Len() == 0 {
		return nil, errors.New(errors.ErrorTypeEmptyDataset, "column is empty")
	}

	var (
		counts []int
		labels []string
	)
	if col.IsNumeric() {
		counts, labels, err = NumericFrequencies(col, o.split, o.boundary)
		if err != nil {
			return nil, err
		}
	} else {
		counts, labels = StringFrequencies(col)
	}

	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return nil, errors.New(errors.ErrorTypeEmptyDataset, "histogram total is zero")
	}

	h := &Histogram{
		Buckets: make([]Bucket, len(counts)),
		Unit:    unit,
	}
	for i, c := range counts {
		h.Buckets[i] = Bucket{
			Label:    labels[i],
			RawCount: c,
			Value:    round2(float64(c) / float64(total) * multiplier),
		}
	}
	return h, nil
}
