// Package statimport reads delimited text files into typed, column-oriented
// tables and derives the data behind simple animated charts: frequency
// histograms, animation schedules and render plans.
//
// # Architecture
//
// An import moves through four stages:
//
// 1. Input: the file is opened, decompressed according to its extension
// (gzip, zstd, lz4, snappy, s2) and read into memory, or memory-mapped when
// it is uncompressed and input.memory_map is set.
//
// 2. Sniffing: the delimiter, quote character and header presence are
// guessed from the first lines. Any of them can be forced by configuration.
//
// 3. Parsing: records are split with the sniffed dialect and stored column
// by column. Cells that parse as numbers are kept as float64, everything
// else as text.
//
// 4. Analysis: histograms, animation windows and chart plans are computed
// from the stored columns on demand.
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/ajitpratap0/statimport/internal/pipeline"
//	    "github.com/ajitpratap0/statimport/pkg/config"
//	    "github.com/ajitpratap0/statimport/pkg/frequency"
//	)
//
//	cfg := config.NewImportConfig()
//	result, err := pipeline.NewImporter(pipeline.WithConfig(cfg)).
//	    Import(context.Background(), "survey.csv.gz")
//	if err != nil {
//	    return err
//	}
//
//	col, _ := result.Table.Column(1)
//	hist, err := frequency.Frequencies(col, frequency.Percentage,
//	    frequency.WithSplit(4))
//
// # Key Packages
//
//	internal/pipeline - Import engine: read, sniff, parse
//	pkg/dialect       - Dialect sniffing and the quote-aware record reader
//	pkg/columnar      - Column store, numeric detection and label encoding
//	pkg/frequency     - Frequency histograms over text and numeric columns
//	pkg/timeline      - Animation window scheduling
//	pkg/visualize     - Chart render plans
//	pkg/compression   - Stream codecs for compressed inputs and exports
//	pkg/mmap          - Read-only memory mapping of input files
//	pkg/config        - YAML configuration with env and flag overrides
//	pkg/errors        - Typed errors
//	pkg/logger        - Structured logging on zap
//	pkg/metrics       - Prometheus collectors
//	pkg/observability - Tracing spans and error reporting
//
// # Command Line
//
// The statimport binary exposes every stage:
//
//	statimport sniff survey.csv
//	statimport import survey.csv.gz
//	statimport freq survey.csv --column city --unit degrees
//	statimport schedule --items 5 --duration 17 --strategy fractional-carry
//	statimport plan survey.csv --kind pie --column city --animate
//	statimport export survey.csv --out survey.csv.zst --export-delimiter tab
//
// Options are read from a YAML file (--config), STATIMPORT_* environment
// variables and flags, in increasing order of precedence.
package statimport
