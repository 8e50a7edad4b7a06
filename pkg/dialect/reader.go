package dialect

import (
	"bufio"
	"io"
	"strings"

	"github.com/ajitpratap0/statimport/pkg/errors"
)

// Reader reads delimited records using an arbitrary delimiter and quote
// character. A quote character opens a quoted field only at the start of a
// field; inside it, a doubled quote is a literal quote and delimiters and
// line breaks are kept. Blank lines are skipped and CRLF is accepted.
type Reader struct {
	br         *bufio.Reader
	dialect    Dialect
	line       int
	recordLine int
}

// NewReader returns a Reader reading from r with dialect d
func NewReader(r io.Reader, d Dialect) *Reader {
	return &Reader{
		br:      bufio.NewReader(r),
		dialect: d,
	}
}

// Line returns the 1-based line on which the last record returned by Read started
func (r *Reader) Line() int { return r.recordLine }

// Read returns the next record. It returns io.EOF when the input is exhausted.
func (r *Reader) Read() ([]string, error) {
	var (
		fields   []string
		field    strings.Builder
		inQuotes bool
		quoted   bool // current field opened with a quote
		started  bool
	)

	delim, quote := r.dialect.Delimiter, r.dialect.QuoteChar

	endField := func() {
		fields = append(fields, field.String())
		field.Reset()
		quoted = false
	}

	for {
		c, _, err := r.br.ReadRune()
		if err == io.EOF {
			if inQuotes {
				return nil, r.malformed("unterminated quoted field")
			}
			if !started {
				return nil, io.EOF
			}
			endField()
			r.line++
			return fields, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to read record")
		}

		if !started {
			if c == '\n' || c == '\r' {
				// Blank line.
				if c == '\r' {
					r.skipLF()
				}
				r.line++
				continue
			}
			started = true
			r.recordLine = r.line + 1
		}

		if inQuotes {
			if c == quote {
				next, _, err := r.br.ReadRune()
				if err == nil && next == quote {
					field.WriteRune(quote)
					continue
				}
				if err == nil {
					_ = r.br.UnreadRune()
				}
				inQuotes = false
				continue
			}
			if c == '\n' {
				r.line++
			}
			field.WriteRune(c)
			continue
		}

		switch {
		case c == quote && field.Len() == 0 && !quoted:
			inQuotes = true
			quoted = true
		case c == delim:
			endField()
		case c == '\r':
			r.skipLF()
			endField()
			r.line++
			return fields, nil
		case c == '\n':
			endField()
			r.line++
			return fields, nil
		default:
			field.WriteRune(c)
		}
	}
}

// ReadAll reads the remaining records
func (r *Reader) ReadAll() ([][]string, error) {
	var records [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
}

func (r *Reader) skipLF() {
	next, _, err := r.br.ReadRune()
	if err == nil && next != '\n' {
		_ = r.br.UnreadRune()
	}
}

func (r *Reader) malformed(msg string) error {
	return errors.New(errors.ErrorTypeMalformedInput, msg).
		WithDetail("line", r.recordLine)
}
