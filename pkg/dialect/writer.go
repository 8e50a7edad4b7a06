package dialect

import (
	"bufio"
	"io"
	"strings"

	"github.com/ajitpratap0/statimport/pkg/errors"
)

// Writer writes records under a dialect. Fields are quoted only when they
// contain the delimiter, the quote character or a line break.
type Writer struct {
	w       *bufio.Writer
	dialect Dialect
	// UseCRLF terminates records with \r\n instead of \n
	UseCRLF bool
}

// NewWriter returns a Writer writing to w with dialect d
func NewWriter(w io.Writer, d Dialect) *Writer {
	return &Writer{
		w:       bufio.NewWriter(w),
		dialect: d,
	}
}

// Write writes a single record
func (w *Writer) Write(record []string) error {
	if err := w.dialect.Validate(); err != nil {
		return err
	}

	// A record holding one empty field would otherwise read back as a blank line.
	if len(record) == 1 && record[0] == "" {
		return w.writeString(strings.Repeat(string(w.dialect.QuoteChar), 2) + w.eol())
	}

	for i, field := range record {
		if i > 0 {
			if _, err := w.w.WriteRune(w.dialect.Delimiter); err != nil {
				return errors.Wrap(err, errors.ErrorTypeFile, "failed to write record")
			}
		}
		if err := w.writeField(field); err != nil {
			return err
		}
	}
	return w.writeString(w.eol())
}

// WriteAll writes records and flushes
func (w *Writer) WriteAll(records [][]string) error {
	for _, record := range records {
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Flush writes any buffered data to the underlying writer
func (w *Writer) Flush() error {
	if err := w.w.Flush(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to flush records")
	}
	return nil
}

func (w *Writer) writeField(field string) error {
	quote := string(w.dialect.QuoteChar)
	if !w.needsQuotes(field) {
		return w.writeString(field)
	}
	return w.writeString(quote + strings.ReplaceAll(field, quote, quote+quote) + quote)
}

func (w *Writer) needsQuotes(field string) bool {
	if field == "" {
		return false
	}
	return strings.ContainsRune(field, w.dialect.Delimiter) ||
		strings.ContainsRune(field, w.dialect.QuoteChar) ||
		strings.ContainsAny(field, "\r\n")
}

func (w *Writer) writeString(s string) error {
	if _, err := w.w.WriteString(s); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write record")
	}
	return nil
}

func (w *Writer) eol() string {
	if w.UseCRLF {
		return "\r\n"
	}
	return "\n"
}
