// Package timeline spreads a number of items over a frame budget and returns
// one keyframe window per item.
//
// Scheduling is a pure computation relative to a Cursor supplied by the
// caller. No strategy reads or mutates any shared frame state, so the caller's
// notion of the current frame is the same before and after a call.
//
// Two strategies are provided:
//
//   - FixedSubtract gives every item a window of the same length and starts
//     consecutive items a fixed offset apart.
//   - FractionalAccumulate spaces item starts by duration/itemCount frames,
//     accumulating the fractional part. The legacy variant discards the
//     remainder each time the pointer advances; the carrying variant keeps
//     it, which removes the drift over long runs.
package timeline

import (
	"fmt"
	"strings"

	"github.com/ajitpratap0/statimport/pkg/errors"
)

// Cursor is the caller's current frame. Strategies take it by value.
type Cursor struct {
	Frame int `json:"frame"`
}

// Window is the keyframe range assigned to one item
type Window struct {
	StartFrame int `json:"start_frame"`
	EndFrame   int `json:"end_frame"`
}

// Len returns the number of frames between start and end
func (w Window) Len() int { return w.EndFrame - w.StartFrame }

func (w Window) String() string {
	return fmt.Sprintf("[%d, %d]", w.StartFrame, w.EndFrame)
}

// Strategy allocates windows for itemCount items within duration frames
// starting at cur. Windows are returned in item order.
type Strategy interface {
	Name() string
	Allocate(cur Cursor, duration, itemCount int) ([]Window, error)
}

const (
	StrategyFixedSubtract   = "fixed-subtract"
	StrategyFractional      = "fractional"
	StrategyFractionalCarry = "fractional-carry"
)

// Names lists the strategies accepted by New
func Names() []string {
	return []string{StrategyFixedSubtract, StrategyFractional, StrategyFractionalCarry}
}

type options struct {
	offset int
}

// Option configures a strategy built by New
type Option func(*options)

// WithOffset sets the per-item offset used by FixedSubtract
func WithOffset(frames int) Option {
	return func(o *options) { o.offset = frames }
}

// New resolves a strategy by name
func New(name string, opts ...Option) (Strategy, error) {
	o := options{offset: DefaultOffset}
	for _, opt := range opts {
		opt(&o)
	}

	switch strings.ToLower(strings.TrimSpace(name)) {
	case StrategyFixedSubtract, "fixed":
		return FixedSubtract{Offset: o.offset}, nil
	case StrategyFractional:
		return FractionalAccumulate{}, nil
	case StrategyFractionalCarry:
		return FractionalAccumulate{CarryRemainder: true}, nil
	default:
		return nil, errors.Newf(errors.ErrorTypeInvalidParameter, "unknown scheduling strategy %q", name).
			WithDetail("valid", strings.Join(Names(), ", "))
	}
}

func validate(duration, itemCount int) error {
	if duration < 0 {
		return errors.New(errors.ErrorTypeInvalidParameter, "duration must not be negative").
			WithDetail("duration", duration)
	}
	if itemCount < 0 {
		return errors.New(errors.ErrorTypeInvalidParameter, "item count must not be negative").
			WithDetail("item_count", itemCount)
	}
	return nil
}
