package timeline

import (
	"math"

	"github.com/ajitpratap0/statimport/pkg/errors"
)

// DefaultOffset is the FixedSubtract offset used when none is set
const DefaultOffset = 1

// FixedSubtract starts items Offset frames apart and gives each a window of
// duration - Offset*itemCount frames. A zero Offset means DefaultOffset.
type FixedSubtract struct {
	Offset int
}

func (FixedSubtract) Name() string { return StrategyFixedSubtract }

// Allocate implements Strategy
func (s FixedSubtract) Allocate(cur Cursor, duration, itemCount int) ([]Window, error) {
	if err := validate(duration, itemCount); err != nil {
		return nil, err
	}

	offset := s.Offset
	if offset == 0 {
		offset = DefaultOffset
	}
	if offset < 0 {
		return nil, errors.New(errors.ErrorTypeInvalidParameter, "offset must not be negative").
			WithDetail("offset", offset)
	}

	windows := make([]Window, 0, itemCount)
	if itemCount == 0 {
		return windows, nil
	}

	available := duration - offset*itemCount
	if available < 0 {
		return nil, errors.Newf(errors.ErrorTypeSchedulingInfeasible,
			"%d items need at least %d frames, have %d", itemCount, offset*itemCount, duration).
			WithDetail("duration", duration).
			WithDetail("item_count", itemCount).
			WithDetail("offset", offset)
	}

	for i := 0; i < itemCount; i++ {
		start := cur.Frame + i*offset
		windows = append(windows, Window{StartFrame: start, EndFrame: start + available})
	}
	return windows, nil
}

// FractionalAccumulate advances a frame pointer by duration/itemCount per
// item, moving only once the accumulated step exceeds one frame. The pointer
// never passes cur+duration.
type FractionalAccumulate struct {
	// CarryRemainder places each end at the rounded running total
	// (i+1)*step instead of resetting the accumulator after each advance,
	// so the last window always ends at cur+duration.
	CarryRemainder bool
}

func (s FractionalAccumulate) Name() string {
	if s.CarryRemainder {
		return StrategyFractionalCarry
	}
	return StrategyFractional
}

// Allocate implements Strategy
func (s FractionalAccumulate) Allocate(cur Cursor, duration, itemCount int) ([]Window, error) {
	if err := validate(duration, itemCount); err != nil {
		return nil, err
	}

	windows := make([]Window, 0, itemCount)
	if itemCount == 0 {
		return windows, nil
	}

	step := float64(duration) / float64(itemCount)
	limit := cur.Frame + duration
	pointer := cur.Frame
	acc := 0.0

	for i := 0; i < itemCount; i++ {
		start := pointer
		if s.CarryRemainder {
			// Rounding the running total keeps the last end on limit.
			pointer = cur.Frame + int(math.Round(float64(i+1)*step))
		} else {
			acc += step
			if acc > 1 {
				pointer += int(math.Round(acc))
				acc = 0
			}
		}
		if pointer > limit {
			pointer = limit
		}
		windows = append(windows, Window{StartFrame: start, EndFrame: pointer})
	}
	return windows, nil
}
