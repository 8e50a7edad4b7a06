package columnar

import (
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/ajitpratap0/statimport/pkg/errors"
	"github.com/ajitpratap0/statimport/pkg/logger"
)

// RaggedPolicy decides what happens to rows whose width differs from the first row
type RaggedPolicy string

const (
	// RaggedReject fails the row with a malformed_input error
	RaggedReject RaggedPolicy = "reject"
	// RaggedPad pads short rows with empty text cells. Long rows are still rejected.
	RaggedPad RaggedPolicy = "pad"
)

// ParseRaggedPolicy converts a configuration value into a RaggedPolicy
func ParseRaggedPolicy(s string) (RaggedPolicy, error) {
	switch RaggedPolicy(s) {
	case RaggedReject, "":
		return RaggedReject, nil
	case RaggedPad:
		return RaggedPad, nil
	default:
		return "", errors.Newf(errors.ErrorTypeInvalidParameter, "unknown ragged row policy %q", s).
			WithDetail("allowed", []string{string(RaggedReject), string(RaggedPad)})
	}
}

// Table is column-oriented storage of parsed data with optional header labels.
// All columns have the same length.
type Table struct {
	mu      sync.Mutex
	columns []Column
	headers []string
	vocab   map[int][]string
}

// NewTable builds a table from already coerced columns. Columns must share one length.
func NewTable(columns []Column, headers []string) (*Table, error) {
	t := &Table{columns: columns}
	for i := 1; i < len(columns); i++ {
		if len(columns[i]) != len(columns[0]) {
			return nil, errors.New(errors.ErrorTypeMalformedInput, "columns have different lengths").
				WithDetail("column", i).
				WithDetail("length", len(columns[i])).
				WithDetail("expected", len(columns[0]))
		}
	}
	if headers != nil {
		if err := t.SetHeaders(headers); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Width returns the number of columns
func (t *Table) Width() int { return len(t.columns) }

// RowCount returns the number of data rows
func (t *Table) RowCount() int {
	if len(t.columns) == 0 {
		return 0
	}
	return len(t.columns[0])
}

// HasHeaders reports whether header labels were set
func (t *Table) HasHeaders() bool { return t.headers != nil }

// Headers returns a copy of the header labels, or nil
func (t *Table) Headers() []string {
	if t.headers == nil {
		return nil
	}
	out := make([]string, len(t.headers))
	copy(out, t.headers)
	return out
}

// SetHeaders assigns one header per column. A table without columns takes
// its width from the headers and gets one empty column per header.
func (t *Table) SetHeaders(headers []string) error {
	if len(t.columns) == 0 {
		t.columns = make([]Column, len(headers))
		for i := range t.columns {
			t.columns[i] = make(Column, 0, 64)
		}
		t.vocab = nil
	} else if len(headers) != len(t.columns) {
		return errors.New(errors.ErrorTypeMalformedInput, "header count does not match column count").
			WithDetail("headers", len(headers)).
			WithDetail("columns", len(t.columns))
	}
	t.headers = make([]string, len(headers))
	copy(t.headers, headers)
	return nil
}

// ColumnName returns the header of column i, or "column_<i>" without headers
func (t *Table) ColumnName(i int) string {
	if t.headers != nil && i < len(t.headers) && t.headers[i] != "" {
		return t.headers[i]
	}
	return "column_" + strconv.Itoa(i)
}

// Column returns a copy of column i
func (t *Table) Column(i int) (Column, error) {
	if i < 0 || i >= len(t.columns) {
		return nil, errors.Newf(errors.ErrorTypeInvalidParameter, "column index %d out of range [0, %d)", i, len(t.columns))
	}
	return t.columns[i].Clone(), nil
}

// ColumnIndex resolves a column reference: an exact header name first,
// then a 0-based index.
func (t *Table) ColumnIndex(ref string) (int, error) {
	for i, h := range t.headers {
		if h == ref {
			return i, nil
		}
	}
	if i, err := strconv.Atoi(ref); err == nil && i >= 0 && i < len(t.columns) {
		return i, nil
	}
	return -1, errors.Newf(errors.ErrorTypeInvalidParameter, "unknown column %q", ref).
		WithDetail("width", len(t.columns))
}

// Rows returns the raw field text in row-major order
func (t *Table) Rows() [][]string {
	rows := make([][]string, t.RowCount())
	for y := range rows {
		row := make([]string, len(t.columns))
		for x, col := range t.columns {
			row[x] = col[y].String()
		}
		rows[y] = row
	}
	return rows
}

// Store builds a Table one row at a time
type Store struct {
	table  *Table
	policy RaggedPolicy
	rows   int
	logger *zap.Logger
}

// Option configures a Store
type Option func(*Store)

// WithRaggedPolicy sets how rows of the wrong width are handled
func WithRaggedPolicy(p RaggedPolicy) Option {
	return func(s *Store) { s.policy = p }
}

// WithLogger sets the store logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore creates an empty store
func NewStore(opts ...Option) *Store {
	s := &Store{
		table:  &Table{},
		policy: RaggedReject,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	return s
}

// AddRow coerces fields and appends them column-wise. The first row fixes
// the column count.
func (s *Store) AddRow(fields []string) error {
	s.rows++

	if s.table.columns == nil {
		s.table.columns = make([]Column, len(fields))
		for i := range s.table.columns {
			s.table.columns[i] = make(Column, 0, 64)
		}
	}

	width := len(s.table.columns)
	switch {
	case len(fields) > width:
		return s.raggedError(len(fields), width)
	case len(fields) < width:
		if s.policy != RaggedPad {
			return s.raggedError(len(fields), width)
		}
		s.logger.Debug("padding short row",
			zap.Int("row", s.rows),
			zap.Int("width", len(fields)),
			zap.Int("expected", width))
	}

	for j := range s.table.columns {
		cell := Text("")
		if j < len(fields) {
			cell = Coerce(fields[j])
		}
		s.table.columns[j] = append(s.table.columns[j], cell)
	}
	return nil
}

func (s *Store) raggedError(got, want int) error {
	return errors.Newf(errors.ErrorTypeMalformedInput, "row %d has %d fields, expected %d", s.rows, got, want).
		WithDetail("row", s.rows).
		WithDetail("width", got).
		WithDetail("expected", want)
}

// SetHeaders labels the columns. Called before any row, it fixes the column
// count, so data rows are checked against the header width.
func (s *Store) SetHeaders(headers []string) error {
	return s.table.SetHeaders(headers)
}

// Rows returns the number of rows added so far
func (s *Store) Rows() int { return s.rows }

// Table returns the table built so far
func (s *Store) Table() *Table {
	if s.table.columns == nil {
		s.table.columns = []Column{}
	}
	return s.table
}
