package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ajitpratap0/statimport/pkg/config"
	"github.com/ajitpratap0/statimport/pkg/logger"
	"github.com/ajitpratap0/statimport/pkg/metrics"
	"github.com/ajitpratap0/statimport/pkg/observability"
)

var version = "0.1.0"

// flagKeys maps command line flags to config override keys. A flag is bound
// only for the command that defines it, so commands can share flag names.
var flagKeys = map[string]string{
	"delimiter":        config.KeyDelimiter,
	"quote-char":       config.KeyQuoteChar,
	"header":           config.KeyHeader,
	"ragged-rows":      config.KeyRaggedRows,
	"decompression":    config.KeyDecompression,
	"max-file-size":    config.KeyMaxFileSize,
	"mmap":             config.KeyMemoryMap,
	"unit":             config.KeyUnit,
	"split":            config.KeySplit,
	"boundary":         config.KeyBoundary,
	"strategy":         config.KeyStrategy,
	"duration":         config.KeyDuration,
	"offset":           config.KeyOffset,
	"start":            config.KeyStartFrame,
	"kind":             config.KeyKind,
	"column":           config.KeyColumn,
	"animate":          config.KeyAnimate,
	"format":           config.KeyFormat,
	"out":              config.KeyOutputPath,
	"compression":      config.KeyCompression,
	"export-delimiter": config.KeyExportDelimiter,
	"log-level":        config.KeyLogLevel,
	"log-encoding":     config.KeyLogEncoding,
	"metrics":          config.KeyMetrics,
	"tracing":          config.KeyTracing,
}

// app carries the state shared by every command of one invocation
type app struct {
	out        io.Writer
	v          *viper.Viper
	configFile string
	metricsOut string
	profile    profiler

	cfg *config.ImportConfig
	log *zap.Logger
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out, v: config.NewViper()}

	root := &cobra.Command{
		Use:   "statimport",
		Short: "statimport - statistical importer for delimited text",
		Long: `statimport sniffs the dialect of a delimited text file, parses it into
typed columns and computes frequency histograms, animation schedules and
render plans from them. Results are printed as JSON.

Every option can also be set in a YAML config file (--config) or through
STATIMPORT_* environment variables, e.g. STATIMPORT_FREQUENCY_UNIT=degrees.`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configFile, "config", "c", "", "Path to a YAML config file")
	flags.StringVar(&a.metricsOut, "metrics-out", "", "Write Prometheus metrics to this file when the command finishes (- for stderr)")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.String("log-encoding", "", "Log encoding (json, console)")
	flags.Bool("metrics", true, "Record Prometheus metrics")
	flags.Bool("tracing", false, "Export OpenTelemetry spans to stderr")
	flags.StringVar(&a.profile.cpuFile, "cpuprofile", "", "Write a CPU profile of the command to this file")
	flags.StringVar(&a.profile.memFile, "memprofile", "", "Write a heap profile to this file when the command finishes")

	root.AddCommand(
		newVersionCmd(a),
		newSniffCmd(a),
		newImportCmd(a),
		newFreqCmd(a),
		newScheduleCmd(a),
		newPlanCmd(a),
		newExportCmd(a),
		newConfigCmd(a),
	)
	return root
}

// inputFlags adds the flags that control how a file is read and parsed
func inputFlags(flags *pflag.FlagSet) {
	flags.String("delimiter", "", "Force the delimiter (comma, semicolon, tab or a single character)")
	flags.String("quote-char", "", "Force the quote character")
	flags.String("header", "", "Header handling (auto, present, absent)")
	flags.String("ragged-rows", "", "Rows of the wrong width (reject, pad)")
	flags.String("decompression", "", "Input codec (auto, none, gzip, zstd, lz4, snappy, s2)")
	flags.Int64("max-file-size", 0, "Maximum decompressed input size in bytes")
	flags.Bool("mmap", false, "Memory-map uncompressed input files")
}

// setup loads the config, applies env and flag overrides, then initializes
// logging and tracing
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			_ = a.v.BindPFlag(key, f)
		}
	})

	cfg, err := config.LoadImportConfig(a.configFile)
	if err != nil {
		return err
	}
	config.ApplyOverrides(cfg, a.v)
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.Observability.LogLevel
	logCfg.Output = cmd.ErrOrStderr()
	if cfg.Observability.LogEncoding != "" {
		logCfg.Encoding = cfg.Observability.LogEncoding
	}
	if err := logger.Init(logCfg); err != nil {
		return err
	}

	tracing := observability.DefaultTracingConfig()
	tracing.Enabled = cfg.Observability.EnableTracing
	tracing.ServiceName = cfg.Observability.ServiceName
	tracing.ServiceVersion = version
	if err := observability.Initialize(tracing); err != nil {
		return err
	}

	a.log = logger.WithContext(context.WithValue(cmd.Context(), logger.CommandKey, cmd.Name()))
	a.log.Debug("configuration loaded",
		zap.String("config_file", a.configFile),
		zap.String("unit", cfg.Frequency.Unit),
		zap.String("strategy", cfg.Timeline.Strategy))
	return a.profile.start()
}

func (a *app) teardown(cmd *cobra.Command, _ []string) error {
	if err := a.profile.stop(); err != nil {
		a.log.Warn("failed to write profile", zap.Error(err))
	}
	if err := observability.Shutdown(cmd.Context()); err != nil {
		a.log.Warn("failed to shutdown tracing", zap.Error(err))
	}
	defer func() { _ = logger.Sync() }()

	if a.metricsOut == "" || !a.cfg.Observability.EnableMetrics {
		return nil
	}
	if a.metricsOut == "-" {
		return metrics.WriteText(os.Stderr)
	}

	f, err := os.Create(a.metricsOut)
	if err != nil {
		return fmt.Errorf("failed to create metrics file %s: %w", a.metricsOut, err)
	}
	defer f.Close()
	return metrics.WriteText(f)
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(a.out, versionView{
				Version:   version,
				GoVersion: runtime.Version(),
				Platform:  runtime.GOOS + "/" + runtime.GOARCH,
			})
		},
	}
}
