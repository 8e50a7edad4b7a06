package visualize

import (
	"go.uber.org/zap"

	"github.com/ajitpratap0/statimport/pkg/columnar"
	"github.com/ajitpratap0/statimport/pkg/errors"
	"github.com/ajitpratap0/statimport/pkg/frequency"
)

// chart builds pie and histogram plans from the frequencies of one column
type chart struct {
	kind Kind
	opts Options
}

func (c *chart) Kind() Kind { return c.kind }

func (c *chart) unit() (frequency.Unit, error) {
	if c.kind == Pie {
		return frequency.Degrees, nil
	}
	if c.opts.Unit == "" {
		return frequency.Percentage, nil
	}
	return frequency.ParseUnit(c.opts.Unit)
}

func (c *chart) Plan(t *columnar.Table) (*Plan, error) {
	if err := requireRows(t); err != nil {
		return nil, err
	}

	idx, err := selectColumn(t, c.opts.Column)
	if err != nil {
		return nil, err
	}
	col, err := t.Column(idx)
	if err != nil {
		return nil, err
	}

	unit, err := c.unit()
	if err != nil {
		return nil, err
	}

	h, err := frequency.Frequencies(col, unit,
		frequency.WithSplit(c.opts.Split),
		frequency.WithBoundary(c.opts.Boundary))
	if err != nil {
		return nil, errors.Wrap(err, errors.TypeOf(err), "failed to compute frequencies").
			WithDetail("column", t.ColumnName(idx))
	}

	plan := &Plan{Kind: c.kind, Unit: &h.Unit}
	switch c.kind {
	case Pie:
		start := 0.0
		for _, b := range h.Buckets {
			plan.Slices = append(plan.Slices, Slice{Label: b.Label, StartAngle: start, Angle: b.Value})
			start += b.Value
		}
	default:
		for _, b := range h.Buckets {
			plan.Bars = append(plan.Bars, Bar{Label: b.Label, Count: b.RawCount, Value: b.Value})
		}
	}

	plan.Windows, err = animate(c.opts, plan.Elements())
	if err != nil {
		return nil, err
	}

	c.opts.Logger.Debug("built chart plan",
		zap.String("column", t.ColumnName(idx)),
		zap.Stringer("unit", h.Unit),
		zap.Int("buckets", len(h.Buckets)))
	return plan, nil
}
