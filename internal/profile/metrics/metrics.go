package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var durationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}

// Metrics provides observability for the profile module.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	ProfilesCreated      *prometheus.CounterVec
	ProfilesDeleted      *prometheus.CounterVec
	CacheLookups         *prometheus.CounterVec
	InvalidationFailures prometheus.Counter
	TrustScoreUpdates    *prometheus.CounterVec
	TrustScores          prometheus.Histogram
	EventPublishFailures *prometheus.CounterVec
	OperationDuration    *prometheus.HistogramVec
}

// New registers the profile metrics with reg, or with the default registerer
// when reg is nil.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		ProfilesCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rentwise_profiles_created_total",
			Help: "Total number of profiles created, by profile type",
		}, []string{"profile_type"}),
		ProfilesDeleted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rentwise_profiles_deleted_total",
			Help: "Total number of profiles deleted, by profile type",
		}, []string{"profile_type"}),
		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rentwise_profile_cache_lookups_total",
			Help: "Profile cache lookups by view and result (hit, miss, error)",
		}, []string{"view", "result"}),
		InvalidationFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "rentwise_profile_cache_invalidation_failures_total",
			Help: "Cache invalidations that failed after all retries",
		}),
		TrustScoreUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rentwise_trust_score_updates_total",
			Help: "Trust score writes by source (recalculate, factor)",
		}, []string{"source"}),
		TrustScores: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "rentwise_trust_score",
			Help:    "Distribution of persisted trust scores",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		}),
		EventPublishFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rentwise_profile_event_publish_failures_total",
			Help: "Profile events that could not be published, by event type",
		}, []string{"event_type"}),
		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rentwise_profile_operation_duration_seconds",
			Help:    "Duration of profile service operations",
			Buckets: durationBuckets,
		}, []string{"operation"}),
	}
}

func (m *Metrics) IncrementProfilesCreated(profileType string) {
	if m == nil {
		return
	}
	m.ProfilesCreated.WithLabelValues(profileType).Inc()
}

func (m *Metrics) IncrementProfilesDeleted(profileType string) {
	if m == nil {
		return
	}
	m.ProfilesDeleted.WithLabelValues(profileType).Inc()
}

// ObserveCacheLookup records a cache read. err takes precedence over hit.
func (m *Metrics) ObserveCacheLookup(view string, hit bool, err error) {
	if m == nil {
		return
	}
	result := "miss"
	switch {
	case err != nil:
		result = "error"
	case hit:
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(view, result).Inc()
}

func (m *Metrics) IncrementInvalidationFailures() {
	if m == nil {
		return
	}
	m.InvalidationFailures.Inc()
}

// ObserveTrustScore records a persisted score and what produced it.
func (m *Metrics) ObserveTrustScore(source string, score int) {
	if m == nil {
		return
	}
	m.TrustScoreUpdates.WithLabelValues(source).Inc()
	m.TrustScores.Observe(float64(score))
}

func (m *Metrics) IncrementEventPublishFailures(eventType string) {
	if m == nil {
		return
	}
	m.EventPublishFailures.WithLabelValues(eventType).Inc()
}

// ObserveOperation records the duration of a service operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveOperation(operation string, start time.Time) {
	if m == nil {
		return
	}
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
