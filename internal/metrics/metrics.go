// Package metrics exposes Prometheus collectors for configuration resolution.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

// Resolution results
const (
	ResultMapped   = "mapped"
	ResultUnmapped = "unmapped"
	ResultDisabled = "disabled"
	// ResultSkipped counts run-time properties left unresolved during a rebuild
	ResultSkipped = "skipped"
)

// Disabled mapper stages
const (
	StageBuildTime = "buildtime"
	StageRunTime   = "runtime"
)

var (
	// Resolutions counts property lookups handled by the mapping interceptor
	Resolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keycloak_config_resolutions_total",
			Help: "Total number of property resolutions by result",
		},
		[]string{"result"},
	)

	// ValidationErrors counts rejected option values
	ValidationErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keycloak_config_validation_errors_total",
			Help: "Total number of option validation errors",
		},
		[]string{"option"},
	)

	// DisabledMappers tracks how many mappers were disabled by the last sanitize
	DisabledMappers = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "keycloak_config_disabled_mappers",
			Help: "Number of disabled property mappers",
		},
		[]string{"stage"},
	)

	// DuplicateMappers counts mapper key collisions during registration
	DuplicateMappers = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "keycloak_config_duplicate_mappers_total",
			Help: "Total number of property mapper key collisions",
		},
	)

	// SourceLoadDuration tracks how long loading a configuration source takes
	SourceLoadDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "keycloak_config_source_load_duration_seconds",
			Help:    "Duration of configuration source loading in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)
)

func init() {
	metrics.Registry.MustRegister(
		Resolutions,
		ValidationErrors,
		DisabledMappers,
		DuplicateMappers,
		SourceLoadDuration,
	)
}

// RecordResolution records the outcome of one mapping interceptor lookup
func RecordResolution(result string) {
	Resolutions.WithLabelValues(result).Inc()
}

// RecordValidationError records a rejected value for option
func RecordValidationError(option string) {
	ValidationErrors.WithLabelValues(option).Inc()
}

// SetDisabledMappers sets the number of disabled build-time and run-time mappers
func SetDisabledMappers(buildTime, runTime int) {
	DisabledMappers.WithLabelValues(StageBuildTime).Set(float64(buildTime))
	DisabledMappers.WithLabelValues(StageRunTime).Set(float64(runTime))
}

func RecordDuplicateMapper() {
	DuplicateMappers.Inc()
}

// ObserveSourceLoad records the load duration of a source
func ObserveSourceLoad(source string, seconds float64) {
	SourceLoadDuration.WithLabelValues(source).Observe(seconds)
}

// WriteFile writes everything registered on the metrics registry to path in
// the text exposition format read by the node exporter textfile collector
func WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, metrics.Registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
