// Package config provides configuration management for statimport.
//
// # Key Features
//
// - ImportConfig: single configuration structure used by the CLI and pipeline
// - Structured sections: Sniffer, Parse, Frequency, Timeline, Visualize, Input, Export, Observability
// - Environment variable substitution with ${VAR_NAME} syntax in YAML files
// - STATIMPORT_* environment and flag overrides through viper
// - Defaults and validation returning config errors
//
// # Usage
//
// ## Loading a file
//
//	cfg, err := config.LoadImportConfig("statimport.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// ## Environment Variable Substitution
//
//	# statimport.yaml
//	frequency:
//	  unit: ${HISTOGRAM_UNIT}
//	  split: 8
//	timeline:
//	  strategy: fractional-carry
//	  duration: 240
//
// ## Overrides
//
// Values set by flag or environment win over the file:
//
//	v := config.NewViper()
//	_ = v.BindPFlag(config.KeyUnit, cmd.Flags().Lookup("unit"))
//	config.ApplyOverrides(cfg, v)
//
// With STATIMPORT_FREQUENCY_UNIT=degrees in the environment the histogram
// unit becomes degrees regardless of the file.
//
// # Section resolution
//
// Sections hold plain strings so files stay readable. Each section resolves
// to the typed values its package consumes:
//
//	d, err := cfg.Sniffer.Apply(detected)        // dialect.Dialect
//	policy, err := cfg.Parse.Policy()            // columnar.RaggedPolicy
//	unit, opts, err := cfg.Frequency.Resolve()   // frequency.Unit, []frequency.Option
//	strategy, err := cfg.Timeline.Resolve()      // timeline.Strategy
package config
