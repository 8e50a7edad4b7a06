package config

import (
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. STATIMPORT_FREQUENCY_UNIT
const EnvPrefix = "STATIMPORT"

// Override keys, in viper's dotted form
const (
	KeyDelimiter       = "sniffer.delimiter"
	KeyQuoteChar       = "sniffer.quote_char"
	KeyHeader          = "sniffer.header"
	KeyRaggedRows      = "parse.ragged_rows"
	KeyUnit            = "frequency.unit"
	KeySplit           = "frequency.split"
	KeyBoundary        = "frequency.boundary"
	KeyStrategy        = "timeline.strategy"
	KeyDuration        = "timeline.duration"
	KeyOffset          = "timeline.offset"
	KeyStartFrame      = "timeline.start_frame"
	KeyKind            = "visualize.kind"
	KeyColumn          = "visualize.column"
	KeyAnimate         = "visualize.animate"
	KeyMaxFileSize     = "input.max_file_size_bytes"
	KeyDecompression   = "input.decompression"
	KeyMemoryMap       = "input.memory_map"
	KeyFormat          = "export.format"
	KeyOutputPath      = "export.output_path"
	KeyCompression     = "export.compression"
	KeyExportDelimiter = "export.delimiter"
	KeyLogLevel        = "observability.log_level"
	KeyLogEncoding     = "observability.log_encoding"
	KeyMetrics         = "observability.enable_metrics"
	KeyTracing         = "observability.enable_tracing"
)

// NewViper returns a viper instance reading STATIMPORT_* environment variables
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ApplyOverrides copies every key set in v (by flag, environment or Set)
// onto cfg. Unset keys leave cfg untouched.
func ApplyOverrides(cfg *ImportConfig, v *viper.Viper) {
	str := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	num := func(key string, dst *int) {
		if v.IsSet(key) {
			*dst = v.GetInt(key)
		}
	}
	flag := func(key string, dst *bool) {
		if v.IsSet(key) {
			*dst = v.GetBool(key)
		}
	}

	str(KeyDelimiter, &cfg.Sniffer.Delimiter)
	str(KeyQuoteChar, &cfg.Sniffer.QuoteChar)
	str(KeyHeader, &cfg.Sniffer.Header)
	str(KeyRaggedRows, &cfg.Parse.RaggedRows)
	str(KeyUnit, &cfg.Frequency.Unit)
	num(KeySplit, &cfg.Frequency.Split)
	str(KeyBoundary, &cfg.Frequency.Boundary)
	str(KeyStrategy, &cfg.Timeline.Strategy)
	num(KeyDuration, &cfg.Timeline.Duration)
	num(KeyOffset, &cfg.Timeline.Offset)
	num(KeyStartFrame, &cfg.Timeline.StartFrame)
	str(KeyKind, &cfg.Visualize.Kind)
	str(KeyColumn, &cfg.Visualize.Column)
	flag(KeyAnimate, &cfg.Visualize.Animate)
	if v.IsSet(KeyMaxFileSize) {
		cfg.Input.MaxFileSizeBytes = v.GetInt64(KeyMaxFileSize)
	}
	str(KeyDecompression, &cfg.Input.Decompression)
	flag(KeyMemoryMap, &cfg.Input.MemoryMap)
	str(KeyFormat, &cfg.Export.Format)
	str(KeyOutputPath, &cfg.Export.OutputPath)
	str(KeyCompression, &cfg.Export.Compression)
	str(KeyExportDelimiter, &cfg.Export.Delimiter)
	str(KeyLogLevel, &cfg.Observability.LogLevel)
	str(KeyLogEncoding, &cfg.Observability.LogEncoding)
	flag(KeyMetrics, &cfg.Observability.EnableMetrics)
	flag(KeyTracing, &cfg.Observability.EnableTracing)
}
