// Package columnar provides columnar storage for imported statistical data
package columnar

import (
	"math"
	"strconv"
	"strings"
)

// Kind represents the variant held by a Cell
type Kind uint8

const (
	// KindNumber marks a cell whose field parsed as a float
	KindNumber Kind = iota
	// KindText marks any other cell
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Cell is a single coerced field: Number(float64) or Text(string).
// The raw field text is kept so a table can be written back unchanged.
type Cell struct {
	kind Kind
	num  float64
	raw  string
}

// Number creates a numeric cell
func Number(v float64) Cell {
	return Cell{kind: KindNumber, num: v, raw: formatNumber(v)}
}

// Text creates a text cell
func Text(s string) Cell {
	return Cell{kind: KindText, raw: s}
}

// Coerce converts a raw field into a Cell. It never fails: a field is a
// Number iff it parses as a finite floating-point literal, else Text.
func Coerce(field string) Cell {
	if v, ok := ParseNumber(field); ok {
		return Cell{kind: KindNumber, num: v, raw: field}
	}
	return Text(field)
}

// ParseNumber reports whether field is a finite floating-point literal.
// Surrounding whitespace is ignored.
func ParseNumber(field string) (float64, bool) {
	s := strings.TrimSpace(field)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// IsNumber reports whether field would coerce to a Number cell
func IsNumber(field string) bool {
	_, ok := ParseNumber(field)
	return ok
}

func (c Cell) Kind() Kind     { return c.kind }
func (c Cell) IsNumber() bool { return c.kind == KindNumber }

// Float returns the numeric value and whether the cell is a Number
func (c Cell) Float() (float64, bool) {
	return c.num, c.kind == KindNumber
}

// String returns the raw field text
func (c Cell) String() string { return c.raw }

// Label is the canonical category label of the cell. Numbers are
// normalised so "20" and "20.0" fall into the same category.
func (c Cell) Label() string {
	if c.kind == KindNumber {
		return formatNumber(c.num)
	}
	return c.raw
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Column is an ordered sequence of cells. Mixed kinds are legal.
type Column []Cell

// Len returns the number of cells
func (c Column) Len() int { return len(c) }

// IsNumeric reports whether the column's first cell is a Number.
// An empty column is not numeric.
func (c Column) IsNumeric() bool {
	return len(c) > 0 && c[0].IsNumber()
}

// AllNumeric reports whether every cell is a Number
func (c Column) AllNumeric() bool {
	if len(c) == 0 {
		return false
	}
	for _, cell := range c {
		if !cell.IsNumber() {
			return false
		}
	}
	return true
}

// Floats returns the values of the numeric cells, skipping text cells
func (c Column) Floats() []float64 {
	out := make([]float64, 0, len(c))
	for _, cell := range c {
		if v, ok := cell.Float(); ok {
			out = append(out, v)
		}
	}
	return out
}

// Clone returns an independent copy of the column
func (c Column) Clone() Column {
	out := make(Column, len(c))
	copy(out, c)
	return out
}
