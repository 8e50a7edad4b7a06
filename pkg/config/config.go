// Package config provides the configuration for statimport.
// It defines a single ImportConfig structure shared by the CLI and the
// import pipeline.
//
// The configuration is organized into logical sections:
//   - Sniffer: forced dialect parameters that bypass detection
//   - Parse: how rows of the wrong width are handled
//   - Frequency: histogram unit, bin count and boundary handling
//   - Timeline: animation scheduling strategy and frame budget
//   - Visualize: which render plan to build
//   - Input: file size limit and decompression
//   - Export: csv or Arrow output of the parsed table
//   - Observability: logging, metrics and tracing
//
// Example usage:
//
//	cfg := config.NewImportConfig()
//	cfg.Frequency.Unit = "degrees"
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

import (
	"strings"

	"github.com/ajitpratap0/statimport/pkg/columnar"
	"github.com/ajitpratap0/statimport/pkg/compression"
	"github.com/ajitpratap0/statimport/pkg/dialect"
	"github.com/ajitpratap0/statimport/pkg/errors"
	"github.com/ajitpratap0/statimport/pkg/frequency"
	"github.com/ajitpratap0/statimport/pkg/timeline"
	"github.com/ajitpratap0/statimport/pkg/visualize"
)

// ImportConfig is the complete configuration of an import run
type ImportConfig struct {
	// Sniffer overrides detected dialect parameters
	Sniffer SnifferConfig `yaml:"sniffer" json:"sniffer"`

	// Parse controls table construction
	Parse ParseConfig `yaml:"parse" json:"parse"`

	// Frequency controls histogram computation
	Frequency FrequencyConfig `yaml:"frequency" json:"frequency"`

	// Timeline controls animation window allocation
	Timeline TimelineConfig `yaml:"timeline" json:"timeline"`

	// Visualize selects the render plan
	Visualize VisualizeConfig `yaml:"visualize" json:"visualize"`

	// Input controls how the file is read
	Input InputConfig `yaml:"input" json:"input"`

	// Export controls how a parsed table is written back out
	Export ExportConfig `yaml:"export" json:"export"`

	// Observability settings for logging, metrics and tracing
	Observability ObservabilityConfig `yaml:"observability" json:"observability"`
}

// Header values for SnifferConfig.Header
const (
	HeaderAuto    = "auto"
	HeaderPresent = "present"
	HeaderAbsent  = "absent"
)

// SnifferConfig forces dialect parameters. Empty values keep the detected ones.
type SnifferConfig struct {
	// Delimiter is a single character or comma, semicolon, tab
	Delimiter string `yaml:"delimiter" json:"delimiter"`
	// QuoteChar is a single character
	QuoteChar string `yaml:"quote_char" json:"quote_char"`
	// Header is auto, present or absent
	Header string `yaml:"header" json:"header"`
}

// ParseConfig controls how parsed rows become a table
type ParseConfig struct {
	// RaggedRows is reject or pad
	RaggedRows string `yaml:"ragged_rows" json:"ragged_rows"`
}

// FrequencyConfig controls histogram computation
type FrequencyConfig struct {
	// Unit is decimal, percentage or degrees
	Unit string `yaml:"unit" json:"unit"`
	// Split is the number of bins for numeric columns
	Split int `yaml:"split" json:"split"`
	// Boundary is half-open or inclusive
	Boundary string `yaml:"boundary" json:"boundary"`
}

// TimelineConfig controls animation window allocation
type TimelineConfig struct {
	// Strategy is fixed-subtract, fractional or fractional-carry
	Strategy string `yaml:"strategy" json:"strategy"`
	// Duration is the frame budget
	Duration int `yaml:"duration" json:"duration"`
	// Offset is the per-item offset for fixed-subtract
	Offset int `yaml:"offset" json:"offset"`
	// StartFrame is the cursor windows are relative to
	StartFrame int `yaml:"start_frame" json:"start_frame"`
}

// VisualizeConfig selects the render plan
type VisualizeConfig struct {
	// Kind is scatter, pie, histogram or object
	Kind string `yaml:"kind" json:"kind"`
	// Column is a header name or 0-based index
	Column  string `yaml:"column" json:"column"`
	Animate bool   `yaml:"animate" json:"animate"`
}

// DecompressAuto selects the codec from the input file extension
const DecompressAuto = "auto"

// InputConfig controls how the input file is read
type InputConfig struct {
	// MaxFileSizeBytes caps the decompressed input size
	MaxFileSizeBytes int64 `yaml:"max_file_size_bytes" json:"max_file_size_bytes"`
	// Decompression is auto (by extension) or a codec name: none, gzip,
	// zstd, lz4, snappy, s2
	Decompression string `yaml:"decompression" json:"decompression"`
	// MemoryMap maps uncompressed inputs instead of reading them onto the heap
	MemoryMap bool `yaml:"memory_map" json:"memory_map"`
}

// Algorithm resolves the codec for the input at path
func (c InputConfig) Algorithm(path string) (compression.Algorithm, error) {
	if c.Decompression == "" || strings.EqualFold(c.Decompression, DecompressAuto) {
		return compression.Detect(path), nil
	}
	alg, err := compression.ParseAlgorithm(c.Decompression)
	if err != nil {
		return "", wrapConfig(err, "input.decompression")
	}
	return alg, nil
}

// ObservabilityConfig contains logging, metrics and tracing settings
type ObservabilityConfig struct {
	// LogLevel sets logging verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level" json:"log_level"`
	// LogEncoding is json or console
	LogEncoding string `yaml:"log_encoding" json:"log_encoding"`
	// EnableMetrics activates Prometheus collectors
	EnableMetrics bool `yaml:"enable_metrics" json:"enable_metrics"`
	// EnableTracing exports spans to stdout
	EnableTracing bool `yaml:"enable_tracing" json:"enable_tracing"`
	// ServiceName is reported on traces
	ServiceName string `yaml:"service_name" json:"service_name"`
}

// NewImportConfig creates an ImportConfig with defaults
func NewImportConfig() *ImportConfig {
	return &ImportConfig{
		Sniffer: SnifferConfig{
			Header: HeaderAuto,
		},
		Parse: ParseConfig{
			RaggedRows: string(columnar.RaggedReject),
		},
		Frequency: FrequencyConfig{
			Unit:     frequency.Percentage.String(),
			Split:    frequency.DefaultSplit,
			Boundary: frequency.BoundaryHalfOpen.String(),
		},
		Timeline: TimelineConfig{
			Strategy: timeline.StrategyFixedSubtract,
			Duration: 100,
			Offset:   timeline.DefaultOffset,
		},
		Visualize: VisualizeConfig{
			Kind: visualize.Scatter.String(),
		},
		Input: InputConfig{
			MaxFileSizeBytes: 256 << 20,
			Decompression:    DecompressAuto,
		},
		Export: ExportConfig{
			Format:         FormatCSV,
			WriteHeader:    true,
			LineTerminator: "\n",
			Compression:    DecompressAuto,
		},
		Observability: ObservabilityConfig{
			LogLevel:      "info",
			LogEncoding:   "json",
			EnableMetrics: true,
			EnableTracing: false,
			ServiceName:   "statimport",
		},
	}
}

// Validate checks every section and returns the first problem as a config error
func (c *ImportConfig) Validate() error {
	if _, err := c.Sniffer.Apply(dialect.Default); err != nil {
		return err
	}
	if _, err := c.Parse.Policy(); err != nil {
		return err
	}
	if _, _, err := c.Frequency.Resolve(); err != nil {
		return err
	}
	if _, err := c.Timeline.Resolve(); err != nil {
		return err
	}
	if c.Timeline.Duration < 0 {
		return configError("timeline.duration", "cannot be negative", c.Timeline.Duration)
	}
	if _, err := visualize.ParseKind(c.Visualize.Kind); err != nil {
		return wrapConfig(err, "visualize.kind")
	}
	if c.Input.MaxFileSizeBytes <= 0 {
		return configError("input.max_file_size_bytes", "must be positive", c.Input.MaxFileSizeBytes)
	}
	if _, err := c.Input.Algorithm(""); err != nil {
		return err
	}
	if err := c.Export.validate(); err != nil {
		return err
	}
	switch strings.ToLower(c.Observability.LogEncoding) {
	case "", "json", "console":
	default:
		return configError("observability.log_encoding", "must be json or console", c.Observability.LogEncoding)
	}
	return nil
}

// Apply returns d with the forced parameters substituted
func (s SnifferConfig) Apply(d dialect.Dialect) (dialect.Dialect, error) {
	if s.Delimiter != "" {
		r, err := dialect.ParseDelimiter(s.Delimiter)
		if err != nil {
			return d, wrapConfig(err, "sniffer.delimiter")
		}
		d.Delimiter = r
	}
	if s.QuoteChar != "" {
		r := []rune(s.QuoteChar)
		if len(r) != 1 {
			return d, configError("sniffer.quote_char", "must be a single character", s.QuoteChar)
		}
		d.QuoteChar = r[0]
	}

	switch strings.ToLower(s.Header) {
	case "", HeaderAuto:
	case HeaderPresent:
		d.HasHeader = true
	case HeaderAbsent:
		d.HasHeader = false
	default:
		return d, configError("sniffer.header", "must be auto, present or absent", s.Header)
	}

	if err := d.Validate(); err != nil {
		return d, wrapConfig(err, "sniffer")
	}
	return d, nil
}

// Policy returns the ragged-row policy
func (p ParseConfig) Policy() (columnar.RaggedPolicy, error) {
	policy, err := columnar.ParseRaggedPolicy(p.RaggedRows)
	if err != nil {
		return policy, wrapConfig(err, "parse.ragged_rows")
	}
	return policy, nil
}

// Resolve returns the unit and options to pass to frequency.Frequencies
func (f FrequencyConfig) Resolve() (frequency.Unit, []frequency.Option, error) {
	unit, err := frequency.ParseUnit(f.Unit)
	if err != nil {
		return unit, nil, wrapConfig(err, "frequency.unit")
	}
	boundary, err := frequency.ParseBoundaryMode(f.Boundary)
	if err != nil {
		return unit, nil, wrapConfig(err, "frequency.boundary")
	}
	if f.Split < frequency.MinSplit {
		return unit, nil, configError("frequency.split", "must be at least 2", f.Split)
	}
	return unit, []frequency.Option{frequency.WithSplit(f.Split), frequency.WithBoundary(boundary)}, nil
}

// Resolve returns the configured scheduling strategy
func (t TimelineConfig) Resolve() (timeline.Strategy, error) {
	if t.Offset < 0 {
		return nil, configError("timeline.offset", "cannot be negative", t.Offset)
	}
	strategy, err := timeline.New(t.Strategy, timeline.WithOffset(t.Offset))
	if err != nil {
		return nil, wrapConfig(err, "timeline.strategy")
	}
	return strategy, nil
}

// Cursor returns the configured start frame
func (t TimelineConfig) Cursor() timeline.Cursor {
	return timeline.Cursor{Frame: t.StartFrame}
}

func configError(field, msg string, value interface{}) error {
	return errors.Newf(errors.ErrorTypeConfig, "%s %s", field, msg).
		WithDetail("field", field).
		WithDetail("value", value)
}

func wrapConfig(err error, field string) error {
	return errors.Wrap(err, errors.ErrorTypeConfig, "invalid "+field).
		WithDetail("field", field)
}
