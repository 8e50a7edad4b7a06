// Package dialect infers the syntactic parameters of a delimited text file
// (delimiter, quote character, header presence) from a bounded sample, and
// reads and writes records under such a dialect.
package dialect

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ajitpratap0/statimport/pkg/columnar"
	"github.com/ajitpratap0/statimport/pkg/errors"
)

// SampleLines is the number of leading lines inspected when sniffing
const SampleLines = 21

const (
	Comma     = ','
	Semicolon = ';'
	Tab       = '\t'

	DoubleQuote = '"'
	SingleQuote = '\''
)

// Dialect describes a delimited file. It is a value and never changes once
// sniffed.
type Dialect struct {
	Delimiter rune `json:"delimiter" yaml:"delimiter"`
	QuoteChar rune `json:"quote_char" yaml:"quote_char"`
	HasHeader bool `json:"has_header" yaml:"has_header"`
}

// Default is the dialect assumed for empty input
var Default = Dialect{Delimiter: Comma, QuoteChar: DoubleQuote}

func (d Dialect) String() string {
	return fmt.Sprintf("delimiter=%s quote=%q header=%t", DelimiterName(d.Delimiter), d.QuoteChar, d.HasHeader)
}

// Validate checks that the dialect can drive a Reader
func (d Dialect) Validate() error {
	switch {
	case d.Delimiter == 0 || d.QuoteChar == 0:
		return errors.New(errors.ErrorTypeInvalidParameter, "dialect delimiter and quote char must be set")
	case d.Delimiter == d.QuoteChar:
		return errors.Newf(errors.ErrorTypeInvalidParameter, "delimiter and quote char are both %q", d.Delimiter)
	case d.Delimiter == '\r' || d.Delimiter == '\n' || d.QuoteChar == '\r' || d.QuoteChar == '\n':
		return errors.New(errors.ErrorTypeInvalidParameter, "line breaks cannot delimit or quote fields")
	}
	return nil
}

// DelimiterName returns a readable name for the common delimiters
func DelimiterName(r rune) string {
	switch r {
	case Comma:
		return "comma"
	case Semicolon:
		return "semicolon"
	case Tab:
		return "tab"
	default:
		return fmt.Sprintf("%q", r)
	}
}

// ParseDelimiter accepts a single character or one of comma, semicolon, tab
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "comma", ",":
		return Comma, nil
	case "semicolon", ";":
		return Semicolon, nil
	case "tab", "\\t", "\t":
		return Tab, nil
	}
	r := []rune(s)
	if len(r) != 1 {
		return 0, errors.Newf(errors.ErrorTypeInvalidParameter, "delimiter must be a single character, got %q", s)
	}
	return r[0], nil
}

// window returns at most the first SampleLines lines
func window(lines []string) []string {
	if len(lines) > SampleLines {
		return lines[:SampleLines]
	}
	return lines
}

// DetectDelimiter counts commas, semicolons and tabs over the sample window
// and returns the one that strictly exceeds both others, else comma.
func DetectDelimiter(lines []string) rune {
	var commas, semicolons, tabs int
	for _, line := range window(lines) {
		commas += strings.Count(line, ",")
		semicolons += strings.Count(line, ";")
		tabs += strings.Count(line, "\t")
	}

	switch {
	case semicolons > commas && semicolons > tabs:
		return Semicolon
	case tabs > commas && tabs > semicolons:
		return Tab
	default:
		return Comma
	}
}

// DetectQuoteChar returns a single quote only if it strictly outnumbers
// double quotes in the sample window.
func DetectQuoteChar(lines []string) rune {
	var double, single int
	for _, line := range window(lines) {
		double += strings.Count(line, `"`)
		single += strings.Count(line, "'")
	}
	if single > double {
		return SingleQuote
	}
	return DoubleQuote
}

// DetectHeader decides whether the first of the sampled rows is a header.
//
// No header when every column's first cell is numeric. Otherwise the first
// cell of each column is compared with every later cell of that column; if
// the number of exact matches exceeds the row count the first row is taken
// to be data, since header labels rarely repeat as values.
func DetectHeader(rows [][]string) bool {
	rows = sampleRows(rows)
	if len(rows) == 0 {
		return false
	}

	first := rows[0]
	nonDigits := 0
	for _, field := range first {
		if !columnar.IsNumber(field) {
			nonDigits++
		}
	}
	if nonDigits == 0 {
		return false
	}

	matches := 0
	for x, head := range first {
		for y := 1; y < len(rows); y++ {
			if x < len(rows[y]) && rows[y][x] == head {
				matches++
			}
		}
	}

	return matches <= len(rows)
}

// SplitHeader applies DetectHeader and separates the header from the rows
func SplitHeader(rows [][]string) (headers []string, body [][]string, ok bool) {
	if !DetectHeader(rows) {
		return nil, rows, false
	}
	return rows[0], rows[1:], true
}

func sampleRows(rows [][]string) [][]string {
	if len(rows) > SampleLines {
		return rows[:SampleLines]
	}
	return rows
}

// ReadSample reads at most SampleLines lines from r
func ReadSample(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lines := make([]string, 0, SampleLines)
	for len(lines) < SampleLines && scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to read sample")
	}
	return lines, nil
}

const maxLineBytes = 16 * 1024 * 1024

// Sniff reads a bounded sample from r and infers its dialect.
func Sniff(r io.Reader) (Dialect, error) {
	lines, err := ReadSample(r)
	if err != nil {
		return Dialect{}, err
	}
	return SniffLines(lines), nil
}

// SniffLines infers a dialect from already sampled lines. Empty input
// yields the default dialect without a header.
func SniffLines(lines []string) Dialect {
	if len(lines) == 0 {
		return Default
	}

	d := Dialect{
		Delimiter: DetectDelimiter(lines),
		QuoteChar: DetectQuoteChar(lines),
	}

	// The sample may end inside a quoted field; header detection only needs
	// the rows that parsed cleanly.
	reader := NewReader(strings.NewReader(strings.Join(window(lines), "\n")), d)
	rows := make([][]string, 0, SampleLines)
	for {
		record, err := reader.Read()
		if err != nil {
			break
		}
		rows = append(rows, record)
	}

	d.HasHeader = DetectHeader(rows)
	return d
}
