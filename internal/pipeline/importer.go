// Package pipeline provides the import engine for statimport, turning a
// delimited file on disk into a column-oriented Table.
//
// # Overview
//
// An import is one scoped pass over a single file:
//   - open the file and pick a decompressor from its extension
//   - read it into memory, bounded by the configured size limit
//   - sniff the dialect from the first lines, then apply forced overrides
//   - parse every record and build the Table column by column
//
// Every import gets a correlation ID, is logged with zap, counted in the
// Prometheus collectors and wrapped in a tracing span.
//
// # Basic Usage
//
//	importer := pipeline.NewImporter(
//	    pipeline.WithConfig(cfg),
//	    pipeline.WithLogger(logger),
//	)
//
//	result, err := importer.Import(ctx, "survey.csv.gz")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Table.RowCount())
package pipeline

import (
	"bytes"
	"context"
	"io"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ajitpratap0/statimport/pkg/columnar"
	"github.com/ajitpratap0/statimport/pkg/compression"
	"github.com/ajitpratap0/statimport/pkg/config"
	"github.com/ajitpratap0/statimport/pkg/dialect"
	"github.com/ajitpratap0/statimport/pkg/errors"
	"github.com/ajitpratap0/statimport/pkg/logger"
	"github.com/ajitpratap0/statimport/pkg/metrics"
	"github.com/ajitpratap0/statimport/pkg/mmap"
	"github.com/ajitpratap0/statimport/pkg/observability"
)

// cancelCheckInterval is how many rows are parsed between context checks
const cancelCheckInterval = 4096

// Result is the outcome of a successful import
type Result struct {
	ImportID    string                `json:"import_id"`
	Path        string                `json:"path"`
	Compression compression.Algorithm `json:"compression"`
	// Bytes is the decompressed input size
	Bytes   int64           `json:"bytes"`
	Dialect dialect.Dialect `json:"dialect"`
	Table   *columnar.Table `json:"-"`
}

// Importer reads delimited files into tables. An Importer holds no per-import
// state and may be used for any number of imports.
type Importer struct {
	cfg    *config.ImportConfig
	logger *zap.Logger
}

// Option configures an Importer
type Option func(*Importer)

// WithConfig sets the import configuration
func WithConfig(cfg *config.ImportConfig) Option {
	return func(i *Importer) { i.cfg = cfg }
}

// WithLogger sets the importer logger
func WithLogger(l *zap.Logger) Option {
	return func(i *Importer) { i.logger = l }
}

// NewImporter creates an importer. Without options it uses the default
// configuration and the global logger.
func NewImporter(opts ...Option) *Importer {
	i := &Importer{}
	for _, opt := range opts {
		opt(i)
	}
	if i.cfg == nil {
		i.cfg = config.NewImportConfig()
	}
	if i.logger == nil {
		i.logger = logger.Get()
	}
	return i
}

// Import reads, sniffs and parses the file at path. The file is closed on
// every return path. Open, read and decompression failures are File errors;
// records that cannot be parsed are MalformedInput errors.
func (i *Importer) Import(ctx context.Context, path string) (*Result, error) {
	importID := uuid.NewString()
	ctx = context.WithValue(ctx, logger.ImportIDKey, importID)
	ctx = context.WithValue(ctx, logger.FileKey, path)
	log := i.logger.With(zap.String("import_id", importID), zap.String("file", path))

	timer := metrics.NewTimer("import")
	var result *Result
	err := observability.Trace(ctx, "import", func(ctx context.Context, span *observability.Span) error {
		span.SetAttribute("import_id", importID)
		span.SetAttribute("file", path)

		r, err := i.run(ctx, path, log, span)
		if err != nil {
			return err
		}
		r.ImportID = importID
		result = r
		return nil
	})

	i.observe(func() {
		timer.ObserveStage()
		metrics.ImportsTotal.WithLabelValues(metrics.Status(err)).Inc()
	})
	if err != nil {
		observability.ReportError(log, err, "import")
		return nil, err
	}

	log.Info("import complete",
		zap.Int("rows", result.Table.RowCount()),
		zap.Int("columns", result.Table.Width()),
		zap.String("dialect", result.Dialect.String()),
		zap.Bool("header", result.Dialect.HasHeader),
		zap.Duration("duration", timer.Stop()))
	return result, nil
}

func (i *Importer) run(ctx context.Context, path string, log *zap.Logger, span *observability.Span) (*Result, error) {
	alg, err := i.cfg.Input.Algorithm(path)
	if err != nil {
		return nil, err
	}
	policy, err := i.cfg.Parse.Policy()
	if err != nil {
		return nil, err
	}

	stage := metrics.NewTimer("read")
	data, release, err := i.read(path, alg)
	if err != nil {
		return nil, err
	}
	defer release()
	i.observe(func() {
		stage.ObserveStage()
		metrics.InputBytes.WithLabelValues(string(alg)).Add(float64(len(data)))
	})
	span.SetAttribute("compression", string(alg))
	span.SetAttribute("bytes", len(data))
	log.Debug("input read", zap.String("compression", string(alg)), zap.Int("bytes", len(data)))

	stage = metrics.NewTimer("sniff")
	detected, err := dialect.Sniff(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	d, err := i.cfg.Sniffer.Apply(detected)
	if err != nil {
		return nil, err
	}
	i.observe(func() { stage.ObserveStage() })
	span.AddEvent("sniffed")
	log.Debug("dialect sniffed",
		zap.String("detected", detected.String()),
		zap.String("dialect", d.String()),
		zap.Bool("header", d.HasHeader))

	if err := ctx.Err(); err != nil {
		return nil, cancelled(err)
	}

	stage = metrics.NewTimer("parse")
	table, err := i.parse(ctx, data, d, policy, log)
	if err != nil {
		return nil, err
	}
	i.observe(func() {
		stage.ObserveStage()
		metrics.RowsParsed.Add(float64(table.RowCount()))
	})
	span.SetAttribute("rows", table.RowCount())
	span.SetAttribute("columns", table.Width())

	return &Result{
		Path:        path,
		Compression: alg,
		Bytes:       int64(len(data)),
		Dialect:     d,
		Table:       table,
	}, nil
}

// read returns the decompressed file contents, at most MaxFileSizeBytes.
// Uncompressed inputs are memory-mapped when MemoryMap is set; release must
// be called once the contents are no longer referenced.
func (i *Importer) read(path string, alg compression.Algorithm) ([]byte, func(), error) {
	limit := i.cfg.Input.MaxFileSizeBytes
	if alg == compression.None && i.cfg.Input.MemoryMap {
		m, err := mmap.Open(path, limit)
		if err != nil {
			return nil, nil, err
		}
		release := func() {
			if err := m.Close(); err != nil {
				i.logger.Warn("failed to unmap input", zap.String("file", path), zap.Error(err))
			}
		}
		return m.Bytes(), release, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open input").
			WithDetail("path", path)
	}
	defer f.Close()

	r, err := compression.NewReader(f, alg)
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.TypeOf(err), "failed to decompress input").
			WithDetail("path", path)
	}
	defer r.Close()

	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to read input").
			WithDetail("path", path).
			WithDetail("compression", string(alg))
	}
	if int64(len(data)) > limit {
		return nil, nil, errors.Newf(errors.ErrorTypeFile, "input exceeds %d bytes", limit).
			WithDetail("path", path).
			WithDetail("limit", limit)
	}
	return data, func() {}, nil
}

func (i *Importer) parse(ctx context.Context, data []byte, d dialect.Dialect, policy columnar.RaggedPolicy, log *zap.Logger) (*columnar.Table, error) {
	reader := dialect.NewReader(bytes.NewReader(data), d)
	store := columnar.NewStore(columnar.WithRaggedPolicy(policy), columnar.WithLogger(log))

	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if first {
			first = false
			if d.HasHeader {
				if err := store.SetHeaders(record); err != nil {
					return nil, errors.Wrap(err, errors.TypeOf(err), "failed to parse header").
						WithDetail("line", reader.Line())
				}
				continue
			}
		}

		if err := store.AddRow(record); err != nil {
			return nil, errors.Wrap(err, errors.TypeOf(err), "failed to parse input").
				WithDetail("line", reader.Line())
		}
		if store.Rows()%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, cancelled(err)
			}
		}
	}

	return store.Table(), nil
}

func (i *Importer) observe(fn func()) {
	if i.cfg.Observability.EnableMetrics {
		fn()
	}
}

func cancelled(err error) error {
	return errors.Wrap(err, errors.ErrorTypeInternal, "import cancelled")
}
