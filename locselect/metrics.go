package locselect

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.ntppool.org/locselect/selection"
)

// Metrics contains the prometheus metrics for location selections
type Metrics struct {
	BlocksEvaluated     *prometheus.CounterVec
	LocationsQueried    *prometheus.CounterVec
	LocationsMatched    *prometheus.CounterVec
	ElementsSelected    *prometheus.CounterVec
	EvaluateDuration    *prometheus.HistogramVec
	ConfigurationErrors *prometheus.CounterVec
}

// NewMetrics creates and registers all location selection metrics
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		BlocksEvaluated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "locselect_blocks_evaluated_total",
				Help: "Total number of blocks handed to the location selector",
			},
			[]string{"association", "performed"},
		),

		LocationsQueried: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "locselect_locations_queried_total",
				Help: "Total number of location queries run against blocks",
			},
			[]string{"association"},
		),

		LocationsMatched: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "locselect_locations_matched_total",
				Help: "Total number of location queries that selected an element",
			},
			[]string{"association"},
		),

		ElementsSelected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "locselect_elements_selected_total",
				Help: "Total number of distinct elements selected",
			},
			[]string{"association"},
		),

		EvaluateDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "locselect_evaluate_duration_seconds",
				Help:    "Time spent selecting elements of a block in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"association"},
		),

		ConfigurationErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "locselect_configuration_errors_total",
				Help: "Total number of rejected selection configurations",
			},
			[]string{"reason"},
		),
	}

	reg.MustRegister(
		m.BlocksEvaluated,
		m.LocationsQueried,
		m.LocationsMatched,
		m.ElementsSelected,
		m.EvaluateDuration,
		m.ConfigurationErrors,
	)

	return m
}

// TrackBlock records the outcome of one block evaluation
func (m *Metrics) TrackBlock(
	assoc selection.Association,
	performed bool,
	queried, matched, selected int,
	duration time.Duration,
) {
	label := assoc.String()

	m.BlocksEvaluated.WithLabelValues(label, strconv.FormatBool(performed)).Inc()
	if !performed {
		return
	}
	m.LocationsQueried.WithLabelValues(label).Add(float64(queried))
	m.LocationsMatched.WithLabelValues(label).Add(float64(matched))
	m.ElementsSelected.WithLabelValues(label).Add(float64(selected))
	m.EvaluateDuration.WithLabelValues(label).Observe(duration.Seconds())
}

// TrackConfigurationError records a rejected selection node
func (m *Metrics) TrackConfigurationError(reason string) {
	m.ConfigurationErrors.WithLabelValues(reason).Inc()
}
