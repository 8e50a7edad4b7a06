// Package metrics provides Prometheus collectors for statimport.
//
// # Overview
//
// The collectors are package globals registered with the default registry
// on first use, in the usual promauto style:
//
//	metrics.ImportsTotal.WithLabelValues(metrics.StatusSuccess, "").Inc()
//	metrics.RowsParsed.Add(float64(table.RowCount()))
//
//	timer := metrics.NewTimer("parse")
//	table, err := parse(data)
//	timer.ObserveStage()
//
// A CLI run is short-lived, so nothing is served over HTTP. WriteText dumps
// the default registry in the Prometheus text format at the end of a run.
package metrics

import (
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"

	"github.com/ajitpratap0/statimport/pkg/errors"
)

// Status label values
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

var (
	// ImportsTotal counts import calls.
	// Labels: status (success/failure), error_type (empty on success)
	ImportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "statimport_imports_total",
			Help: "Total number of file imports",
		},
		[]string{"status", "error_type"},
	)

	// RowsParsed counts data rows added to tables, headers excluded
	RowsParsed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "statimport_rows_parsed_total",
			Help: "Total number of data rows parsed",
		},
	)

	// InputBytes counts decompressed input bytes.
	// Labels: compression (none/gzip/zstd/lz4)
	InputBytes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "statimport_input_bytes_total",
			Help: "Total number of decompressed input bytes read",
		},
		[]string{"compression"},
	)

	// HistogramRequests counts frequency computations.
	// Labels: unit, column_kind (numeric/text), status
	HistogramRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "statimport_histogram_requests_total",
			Help: "Total number of histogram computations",
		},
		[]string{"unit", "column_kind", "status"},
	)

	// ScheduleRequests counts timeline allocations.
	// Labels: strategy, status
	ScheduleRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "statimport_schedule_requests_total",
			Help: "Total number of timeline allocations",
		},
		[]string{"strategy", "status"},
	)

	// StageLatency tracks the duration of import stages in seconds.
	// Labels: stage (read/sniff/parse/import)
	StageLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "statimport_stage_duration_seconds",
			Help: "Duration of import stages in seconds",
			Buckets: []float64{
				0.0001, // 100μs - tiny samples
				0.001,  // 1ms
				0.01,   // 10ms
				0.1,    // 100ms
				1,      // 1s - large files
				10,     // 10s
			},
		},
		[]string{"stage"},
	)
)

// Status returns the status and error_type label values for err
func Status(err error) (status, errorType string) {
	if err == nil {
		return StatusSuccess, ""
	}
	return StatusFailure, string(errors.TypeOf(err))
}

// Timer provides a simple timing mechanism for measuring operation durations.
// It captures the start time on creation and calculates elapsed time on stop.
type Timer struct {
	start time.Time
	name  string
}

// NewTimer creates a new timer and starts timing immediately.
// The name is used as the stage label by ObserveStage.
func NewTimer(name string) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
	}
}

// Stop returns the elapsed duration since creation.
// The timer can be stopped multiple times.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}

// ObserveStage records the elapsed time in StageLatency under the timer's
// name and returns it
func (t *Timer) ObserveStage() time.Duration {
	d := t.Stop()
	StageLatency.WithLabelValues(t.name).Observe(d.Seconds())
	return d
}

// WriteText writes every metric family of the default gatherer in the
// Prometheus text exposition format
func WriteText(w io.Writer) error {
	return writeText(w, prometheus.DefaultGatherer)
}

func writeText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "failed to gather metrics")
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to write metrics")
		}
	}
	return nil
}
