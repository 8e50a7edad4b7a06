package main

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/statimport/internal/pipeline"
	"github.com/ajitpratap0/statimport/pkg/columnar"
	"github.com/ajitpratap0/statimport/pkg/compression"
	"github.com/ajitpratap0/statimport/pkg/config"
	"github.com/ajitpratap0/statimport/pkg/dialect"
	"github.com/ajitpratap0/statimport/pkg/errors"
	"github.com/ajitpratap0/statimport/pkg/frequency"
	"github.com/ajitpratap0/statimport/pkg/metrics"
	"github.com/ajitpratap0/statimport/pkg/observability"
	"github.com/ajitpratap0/statimport/pkg/timeline"
	"github.com/ajitpratap0/statimport/pkg/visualize"
)

func newSniffCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sniff FILE",
		Short: "Detect the dialect of a delimited file",
		Long: `Detect the delimiter, quote character and header presence of FILE from
its first 21 lines. Forced parameters (--delimiter, --quote-char, --header)
replace the detected ones.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detected, err := a.sniff(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			d, err := a.cfg.Sniffer.Apply(detected)
			if err != nil {
				return err
			}
			return writeJSON(a.out, sniffView{Path: args[0], Detected: newDialectView(detected), Dialect: newDialectView(d)})
		},
	}
	inputFlags(cmd.Flags())
	return cmd
}

// sniff reads only the sample lines of path
func (a *app) sniff(ctx context.Context, path string) (dialect.Dialect, error) {
	var d dialect.Dialect
	err := observability.Trace(ctx, "sniff", func(_ context.Context, span *observability.Span) error {
		span.SetAttribute("file", path)

		alg, err := a.cfg.Input.Algorithm(path)
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to open input").WithDetail("path", path)
		}
		defer f.Close()

		r, err := compression.NewReader(f, alg)
		if err != nil {
			return err
		}
		defer r.Close()

		d, err = dialect.Sniff(r)
		return err
	})
	return d, err
}

func newImportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Parse a delimited file and summarize its columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.importFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(a.out, newImportView(result))
		},
	}
	inputFlags(cmd.Flags())
	return cmd
}

func (a *app) importFile(ctx context.Context, path string) (*pipeline.Result, error) {
	importer := pipeline.NewImporter(pipeline.WithConfig(a.cfg), pipeline.WithLogger(a.log))
	return importer.Import(ctx, path)
}

func newFreqCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "freq FILE",
		Short: "Compute the frequency histogram of one column",
		Long: `Compute the frequency histogram of one column of FILE. Numeric columns
are split into equal-width bins, text columns are counted per distinct value.

Example:
  statimport freq survey.csv --column age --unit percentage --split 4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.importFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			view, err := a.frequencies(result.Table)
			if err != nil {
				return err
			}
			return writeJSON(a.out, view)
		},
	}
	inputFlags(cmd.Flags())
	cmd.Flags().String("column", "", "Column header name or 0-based index (default first column)")
	cmd.Flags().String("unit", "", "Histogram unit (decimal, percentage, degrees)")
	cmd.Flags().Int("split", 0, "Number of bins for numeric columns")
	cmd.Flags().String("boundary", "", "Bin edge handling (half-open, inclusive)")
	return cmd
}

func (a *app) frequencies(table *columnar.Table) (view *freqView, err error) {
	unit, opts, err := a.cfg.Frequency.Resolve()
	if err != nil {
		return nil, err
	}

	kind := "text"
	defer func() {
		if a.cfg.Observability.EnableMetrics {
			status, _ := metrics.Status(err)
			metrics.HistogramRequests.WithLabelValues(unit.String(), kind, status).Inc()
		}
	}()

	idx, err := columnIndex(table, a.cfg.Visualize.Column)
	if err != nil {
		return nil, err
	}
	col, err := table.Column(idx)
	if err != nil {
		return nil, err
	}
	if col.IsNumeric() {
		kind = "numeric"
	}

	hist, err := frequency.Frequencies(col, unit, opts...)
	if err != nil {
		return nil, err
	}
	a.log.Debug("histogram computed",
		zap.String("column", table.ColumnName(idx)),
		zap.String("unit", unit.String()),
		zap.Int("buckets", len(hist.Buckets)))

	return &freqView{
		Column: table.ColumnName(idx),
		Kind:   kind,
		Unit:   hist.Unit,
		Labels: hist.Labels(),
		Values: hist.Values(),
		Total:  hist.Total(),
	}, nil
}

func columnIndex(table *columnar.Table, ref string) (int, error) {
	if ref == "" {
		if table.Width() == 0 {
			return 0, errors.New(errors.ErrorTypeEmptyDataset, "table has no columns")
		}
		return 0, nil
	}
	return table.ColumnIndex(ref)
}

func newScheduleCmd(a *app) *cobra.Command {
	var items int
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Allocate animation windows for a number of items",
		Long: `Allocate one animation window per item inside a frame budget.

Strategies:
  fixed-subtract    equal windows, each shortened by --offset frames
  fractional        fractional steps rounded to whole frames
  fractional-carry  like fractional, carrying the rounding remainder

Example:
  statimport schedule --duration 17 --items 5 --strategy fractional-carry`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			windows, err := a.schedule(items)
			if err != nil {
				return err
			}
			return writeJSON(a.out, scheduleView{
				Strategy: a.cfg.Timeline.Strategy,
				Duration: a.cfg.Timeline.Duration,
				Items:    items,
				Start:    a.cfg.Timeline.StartFrame,
				Windows:  windows,
			})
		},
	}
	cmd.Flags().IntVar(&items, "items", 0, "Number of items to schedule")
	cmd.Flags().Int("duration", 0, "Frame budget")
	cmd.Flags().String("strategy", "", "Scheduling strategy (fixed-subtract, fractional, fractional-carry)")
	cmd.Flags().Int("offset", 0, "Per-item offset for fixed-subtract")
	cmd.Flags().Int("start", 0, "Cursor frame the windows start from")
	_ = cmd.MarkFlagRequired("items")
	return cmd
}

func (a *app) schedule(items int) (windows []timeline.Window, err error) {
	strategy, err := a.cfg.Timeline.Resolve()
	if err != nil {
		return nil, err
	}
	defer func() {
		if a.cfg.Observability.EnableMetrics {
			status, _ := metrics.Status(err)
			metrics.ScheduleRequests.WithLabelValues(strategy.Name(), status).Inc()
		}
	}()
	return strategy.Allocate(a.cfg.Timeline.Cursor(), a.cfg.Timeline.Duration, items)
}

func newPlanCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan FILE",
		Short: "Build a render plan for a visualization",
		Long: `Build the render plan of one visualization kind for FILE:

  scatter    one point per row from the first three numeric projections
  pie        one slice per histogram bucket, angles in degrees
  histogram  one bar per bucket of the selected column
  object     one labelled object per row of the selected column

With --animate every element also gets an animation window.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.importFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			plan, err := a.plan(result.Table)
			if err != nil {
				return err
			}
			return writeJSON(a.out, plan)
		},
	}
	inputFlags(cmd.Flags())
	cmd.Flags().String("kind", "", "Visualization kind (scatter, pie, histogram, object)")
	cmd.Flags().String("column", "", "Column header name or 0-based index")
	cmd.Flags().String("unit", "", "Histogram unit (decimal, percentage, degrees)")
	cmd.Flags().Int("split", 0, "Number of bins for numeric columns")
	cmd.Flags().String("boundary", "", "Bin edge handling (half-open, inclusive)")
	cmd.Flags().Bool("animate", false, "Allocate an animation window per element")
	cmd.Flags().Int("duration", 0, "Animation frame budget")
	cmd.Flags().String("strategy", "", "Scheduling strategy for animation windows")
	return cmd
}

func (a *app) plan(table *columnar.Table) (*visualize.Plan, error) {
	kind, err := visualize.ParseKind(a.cfg.Visualize.Kind)
	if err != nil {
		return nil, err
	}
	boundary, err := frequency.ParseBoundaryMode(a.cfg.Frequency.Boundary)
	if err != nil {
		return nil, err
	}
	strategy, err := a.cfg.Timeline.Resolve()
	if err != nil {
		return nil, err
	}

	v, err := visualize.New(kind, visualize.Options{
		Column:   a.cfg.Visualize.Column,
		Unit:     a.cfg.Frequency.Unit,
		Split:    a.cfg.Frequency.Split,
		Boundary: boundary,
		Animate:  a.cfg.Visualize.Animate,
		Duration: a.cfg.Timeline.Duration,
		Cursor:   a.cfg.Timeline.Cursor(),
		Strategy: strategy,
		Logger:   a.log,
	})
	if err != nil {
		return nil, err
	}
	return v.Plan(table)
}

func newExportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Parse a delimited file and write it back as csv or Arrow",
		Long: `Parse FILE and write the table to --out (stdout when empty).

csv output uses the detected dialect unless --export-delimiter is set and is
compressed when --out ends in .gz, .zst, .lz4, .sz or .s2. arrow output is an
Arrow IPC file with one float64 or utf8 field per column.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.importFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.export(result)
		},
	}
	inputFlags(cmd.Flags())
	cmd.Flags().String("format", "", "Output format (csv, arrow)")
	cmd.Flags().StringP("out", "o", "", "Output file (default stdout)")
	cmd.Flags().String("compression", "", "Output codec (auto, none, gzip, zstd, lz4, snappy, s2)")
	cmd.Flags().String("export-delimiter", "", "Delimiter of csv output")
	return cmd
}

func (a *app) export(result *pipeline.Result) (err error) {
	exp := a.cfg.Export
	alg, err := exp.Algorithm()
	if err != nil {
		return err
	}

	var dst io.Writer = a.out
	if exp.OutputPath != "" {
		f, err := os.Create(exp.OutputPath)
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to create output").
				WithDetail("path", exp.OutputPath)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = errors.Wrap(cerr, errors.ErrorTypeFile, "failed to close output")
			}
		}()
		dst = f
	}

	buf := bufio.NewWriter(dst)
	w, err := compression.NewWriter(buf, alg, compression.Default)
	if err != nil {
		return err
	}

	switch exp.Format {
	case config.FormatArrow:
		err = columnar.WriteArrowIPC(w, result.Table)
	default:
		err = a.writeCSV(w, exp, result)
	}
	if err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to finish compressed output")
	}
	if err := buf.Flush(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write output")
	}

	a.log.Info("table exported",
		zap.String("format", exp.Format),
		zap.String("compression", string(alg)),
		zap.String("output", exp.OutputPath),
		zap.Int("rows", result.Table.RowCount()))
	return nil
}

func (a *app) writeCSV(w io.Writer, exp config.ExportConfig, result *pipeline.Result) error {
	d, err := exp.Dialect(result.Dialect)
	if err != nil {
		return err
	}
	cw := dialect.NewWriter(w, d)
	cw.UseCRLF = exp.UseCRLF()

	if exp.WriteHeader && result.Table.HasHeaders() {
		if err := cw.Write(result.Table.Headers()); err != nil {
			return err
		}
	}
	return cw.WriteAll(result.Table.Rows())
}

func newConfigCmd(a *app) *cobra.Command {
	var save string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration after the config file, STATIMPORT_* environment
variables and flags have been applied, as YAML. With --save the result is
written to a file that can be passed back through --config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if save != "" {
				if err := config.Save(save, a.cfg); err != nil {
					return err
				}
				a.log.Info("configuration saved", zap.String("path", save))
				return nil
			}
			return config.Encode(a.out, a.cfg)
		},
	}
	cmd.Flags().StringVar(&save, "save", "", "Write the configuration to this file instead of stdout")
	inputFlags(cmd.Flags())
	return cmd
}
