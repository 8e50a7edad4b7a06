package frequency

import (
	"strings"

	"github.com/ajitpratap0/statimport/pkg/errors"
)

// Unit selects the total a histogram's values are normalized to
type Unit int

const (
	Decimal Unit = iota
	Percentage
	Degrees
)

func (u Unit) String() string {
	switch u {
	case Decimal:
		return "decimal"
	case Percentage:
		return "percentage"
	case Degrees:
		return "degrees"
	default:
		return "unknown"
	}
}

// Multiplier returns the unit total: 1, 100 or 360
func (u Unit) Multiplier() (float64, error) {
	switch u {
	case Decimal:
		return 1, nil
	case Percentage:
		return 100, nil
	case Degrees:
		return 360, nil
	default:
		return 0, errors.Newf(errors.ErrorTypeInvalidParameter, "unknown unit %d", int(u))
	}
}

// MarshalText implements encoding.TextMarshaler
func (u Unit) MarshalText() ([]byte, error) {
	if _, err := u.Multiplier(); err != nil {
		return nil, err
	}
	return []byte(u.String()), nil
}

// ParseUnit parses decimal, percentage or degrees
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "decimal", "dec", "":
		return Decimal, nil
	case "percentage", "percent", "pct", "%":
		return Percentage, nil
	case "degrees", "degree", "deg":
		return Degrees, nil
	default:
		return 0, errors.Newf(errors.ErrorTypeInvalidParameter, "unknown unit %q", s).
			WithDetail("valid", "decimal, percentage, degrees")
	}
}

// BoundaryMode controls how values on a shared bucket edge are counted
type BoundaryMode int

const (
	// BoundaryHalfOpen counts lo <= v < hi, with the last bucket closed.
	// Every value lands in exactly one bucket.
	BoundaryHalfOpen BoundaryMode = iota
	// BoundaryInclusive counts lo <= v <= hi, so a value on a shared edge
	// is counted in both neighbouring buckets.
	BoundaryInclusive
)

func (m BoundaryMode) String() string {
	switch m {
	case BoundaryHalfOpen:
		return "half-open"
	case BoundaryInclusive:
		return "inclusive"
	default:
		return "unknown"
	}
}

// ParseBoundaryMode parses half-open or inclusive
func ParseBoundaryMode(s string) (BoundaryMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "half-open", "halfopen", "":
		return BoundaryHalfOpen, nil
	case "inclusive":
		return BoundaryInclusive, nil
	default:
		return 0, errors.Newf(errors.ErrorTypeInvalidParameter, "unknown boundary mode %q", s)
	}
}
