package config

import (
	"strings"

	"github.com/ajitpratap0/statimport/pkg/compression"
	"github.com/ajitpratap0/statimport/pkg/dialect"
)

// Export formats
const (
	FormatCSV   = "csv"
	FormatArrow = "arrow"
)

// ExportConfig controls how a parsed table is written back out
type ExportConfig struct {
	// Format is csv or arrow
	Format string `yaml:"format" json:"format"`
	// OutputPath is the destination file; empty means stdout
	OutputPath string `yaml:"output_path" json:"output_path"`
	// Delimiter overrides the detected delimiter for csv output
	Delimiter string `yaml:"delimiter" json:"delimiter"`
	// WriteHeader writes the header row when the table has one
	WriteHeader bool `yaml:"write_header" json:"write_header"`
	// LineTerminator is "\n" or "\r\n"
	LineTerminator string `yaml:"line_terminator" json:"line_terminator"`
	// Compression is auto (by output extension) or a codec name
	Compression string `yaml:"compression" json:"compression"`
}

// Algorithm resolves the output codec. Stdout output is never compressed
// automatically.
func (e ExportConfig) Algorithm() (compression.Algorithm, error) {
	if e.Compression == "" || strings.EqualFold(e.Compression, DecompressAuto) {
		return compression.Detect(e.OutputPath), nil
	}
	alg, err := compression.ParseAlgorithm(e.Compression)
	if err != nil {
		return "", wrapConfig(err, "export.compression")
	}
	return alg, nil
}

// UseCRLF reports whether records end with \r\n
func (e ExportConfig) UseCRLF() bool {
	return e.LineTerminator == "\r\n"
}

// Dialect returns the dialect to write csv output with, starting from the
// one detected on input.
func (e ExportConfig) Dialect(detected dialect.Dialect) (dialect.Dialect, error) {
	if e.Delimiter == "" {
		return detected, nil
	}
	r, err := dialect.ParseDelimiter(e.Delimiter)
	if err != nil {
		return detected, wrapConfig(err, "export.delimiter")
	}
	detected.Delimiter = r
	if err := detected.Validate(); err != nil {
		return detected, wrapConfig(err, "export.delimiter")
	}
	return detected, nil
}

func (e ExportConfig) validate() error {
	switch strings.ToLower(e.Format) {
	case FormatCSV, FormatArrow:
	default:
		return configError("export.format", "must be csv or arrow", e.Format)
	}
	switch e.LineTerminator {
	case "", "\n", "\r\n":
	default:
		return configError("export.line_terminator", `must be "\n" or "\r\n"`, e.LineTerminator)
	}
	if _, err := e.Dialect(dialect.Default); err != nil {
		return err
	}
	if _, err := e.Algorithm(); err != nil {
		return err
	}
	return nil
}
