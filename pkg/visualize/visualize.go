// Package visualize builds render plans from imported tables.
//
// A plan is everything a scene renderer needs to place and animate elements
// for one visualization: point positions, pie slices or histogram bars, and
// one keyframe window per animated element. The set of visualizations is
// closed; New resolves a Kind to its Visualizer.
package visualize

import (
	"strings"

	"go.uber.org/zap"

	"github.com/ajitpratap0/statimport/pkg/columnar"
	"github.com/ajitpratap0/statimport/pkg/errors"
	"github.com/ajitpratap0/statimport/pkg/frequency"
	"github.com/ajitpratap0/statimport/pkg/logger"
	"github.com/ajitpratap0/statimport/pkg/timeline"
)

// Kind identifies a visualization
type Kind int

const (
	Scatter Kind = iota
	Pie
	Histogram
	Object
)

var kindNames = map[Kind]string{
	Scatter:   "scatter",
	Pie:       "pie",
	Histogram: "histogram",
	Object:    "object",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler
func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, errors.Newf(errors.ErrorTypeInvalidParameter, "unknown visualization kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// ParseKind parses scatter, pie, histogram or object
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, errors.Newf(errors.ErrorTypeInvalidParameter, "unknown visualization kind %q", s).
		WithDetail("valid", "scatter, pie, histogram, object")
}

// Point is one element placed in the scene. Animated points move from
// (X, 0, 0) to (X, Y, Z) over their window.
type Point struct {
	Name  string  `json:"name"`
	Label string  `json:"label,omitempty"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
}

// Slice is one pie segment, in degrees
type Slice struct {
	Label      string  `json:"label"`
	StartAngle float64 `json:"start_angle"`
	Angle      float64 `json:"angle"`
}

// Bar is one histogram bar
type Bar struct {
	Label string  `json:"label"`
	Count int     `json:"count"`
	Value float64 `json:"value"`
}

// Plan is the output of a Visualizer
type Plan struct {
	Kind    Kind              `json:"kind"`
	Unit    *frequency.Unit   `json:"unit,omitempty"`
	Points  []Point           `json:"points,omitempty"`
	Slices  []Slice           `json:"slices,omitempty"`
	Bars    []Bar             `json:"bars,omitempty"`
	Windows []timeline.Window `json:"windows,omitempty"`
}

// Elements returns the number of scene elements the plan creates
func (p *Plan) Elements() int {
	return len(p.Points) + len(p.Slices) + len(p.Bars)
}

// Options configures a Visualizer
type Options struct {
	// Column selects the column for pie, histogram and object plans, by
	// header name or index. Empty means the first column.
	Column string
	// Unit overrides the histogram unit. Pie plans are always in degrees.
	Unit string
	// Split is the bin count for numeric columns
	Split    int
	Boundary frequency.BoundaryMode

	Animate  bool
	Duration int
	Cursor   timeline.Cursor
	// Strategy allocates animation windows. Nil means FixedSubtract.
	Strategy timeline.Strategy

	Logger *zap.Logger
}

// Visualizer turns a table into a plan
type Visualizer interface {
	Kind() Kind
	Plan(t *columnar.Table) (*Plan, error)
}

// New returns the Visualizer for kind
func New(kind Kind, opts Options) (Visualizer, error) {
	if opts.Logger == nil {
		opts.Logger = logger.Get()
	}
	opts.Logger = opts.Logger.With(zap.String("visualizer", kind.String()))
	if opts.Split == 0 {
		opts.Split = frequency.DefaultSplit
	}

	switch kind {
	case Scatter:
		return &scatter{opts: opts}, nil
	case Pie:
		return &chart{kind: Pie, opts: opts}, nil
	case Histogram:
		return &chart{kind: Histogram, opts: opts}, nil
	case Object:
		return &object{opts: opts}, nil
	default:
		return nil, errors.Newf(errors.ErrorTypeInvalidParameter, "unknown visualization kind %d", int(kind))
	}
}

func selectColumn(t *columnar.Table, ref string) (int, error) {
	if ref == "" {
		if t.Width() == 0 {
			return 0, errors.New(errors.ErrorTypeEmptyDataset, "table has no columns")
		}
		return 0, nil
	}
	return t.ColumnIndex(ref)
}

func requireRows(t *columnar.Table) error {
	if t.RowCount() == 0 {
		return errors.New(errors.ErrorTypeEmptyDataset, "table has no rows")
	}
	return nil
}

// animate allocates one window per element when animation is enabled
func animate(opts Options, elements int) ([]timeline.Window, error) {
	if !opts.Animate {
		return nil, nil
	}
	strategy := opts.Strategy
	if strategy == nil {
		strategy = timeline.FixedSubtract{}
	}
	windows, err := strategy.Allocate(opts.Cursor, opts.Duration, elements)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("allocated animation windows",
		zap.String("strategy", strategy.Name()),
		zap.Int("duration", opts.Duration),
		zap.Int("elements", elements))
	return windows, nil
}
