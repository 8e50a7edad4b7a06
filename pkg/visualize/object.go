package visualize

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ajitpratap0/statimport/pkg/columnar"
)

// object creates one element per row, spaced along X and labelled by the
// selected column. Y carries the column's numeric projection.
type object struct {
	opts Options
}

func (o *object) Kind() Kind { return Object }

func (o *object) Plan(t *columnar.Table) (*Plan, error) {
	if err := requireRows(t); err != nil {
		return nil, err
	}

	idx, err := selectColumn(t, o.opts.Column)
	if err != nil {
		return nil, err
	}
	raw, err := t.Column(idx)
	if err != nil {
		return nil, err
	}
	projected := t.Columns(columnar.AsNumeric)[idx]

	points := make([]Point, len(raw))
	for i, cell := range raw {
		y, _ := projected[i].Float()
		points[i] = Point{
			Name:  fmt.Sprintf("object%d", i),
			Label: cell.String(),
			X:     float64(i),
			Y:     y,
		}
	}

	windows, err := animate(o.opts, len(points))
	if err != nil {
		return nil, err
	}

	o.opts.Logger.Debug("built object plan",
		zap.String("column", t.ColumnName(idx)),
		zap.Int("objects", len(points)))
	return &Plan{Kind: Object, Points: points, Windows: windows}, nil
}
