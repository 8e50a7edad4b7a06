package visualize

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ajitpratap0/statimport/pkg/columnar"
)

// scatter places one point per row using the first three columns as X, Y
// and Z. Text columns use their categorical encoding.
type scatter struct {
	opts Options
}

func (s *scatter) Kind() Kind { return Scatter }

func (s *scatter) Plan(t *columnar.Table) (*Plan, error) {
	if err := requireRows(t); err != nil {
		return nil, err
	}

	cols := t.Columns(columnar.AsNumeric)
	points := make([]Point, t.RowCount())
	for i := range points {
		points[i] = Point{
			Name: fmt.Sprintf("dataPoint%d", i),
			X:    axis(cols, 0, i),
			Y:    axis(cols, 1, i),
			Z:    axis(cols, 2, i),
		}
	}

	windows, err := animate(s.opts, len(points))
	if err != nil {
		return nil, err
	}

	s.opts.Logger.Debug("built scatter plan", zap.Int("points", len(points)))
	return &Plan{Kind: Scatter, Points: points, Windows: windows}, nil
}

// axis returns the value of column c at row i, or 0 when the column is
// missing or the cell is not numeric.
func axis(cols []columnar.Column, c, i int) float64 {
	if c >= len(cols) || i >= len(cols[c]) {
		return 0
	}
	v, _ := cols[c][i].Float()
	return v
}
