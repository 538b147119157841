package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// PrometheusSink implements Sink. Collectors that fail to register are logged
// and keep working unregistered.
type PrometheusSink struct {
	loadsTotal      prometheus.Counter
	loadErrorsTotal prometheus.Counter
	loadDuration    prometheus.Histogram
	listingsLoaded  prometheus.Gauge

	cacheLookupsTotal *prometheus.CounterVec
	interactionsTotal *prometheus.CounterVec
	eventsTotal       *prometheus.CounterVec

	logger *zap.Logger
}

var _ Sink = (*PrometheusSink)(nil)

func NewPrometheusSink(reg prometheus.Registerer, logger *zap.Logger) *PrometheusSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &PrometheusSink{logger: logger}

	s.loadsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "creatorhub_listing_loads_total",
		Help: "Total number of job listing loads.",
	})
	s.loadErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "creatorhub_listing_load_errors_total",
		Help: "Total number of failed job listing loads.",
	})
	s.loadDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "creatorhub_listing_load_duration_seconds",
		Help:    "Duration of job listing loads in seconds.",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	})
	s.listingsLoaded = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "creatorhub_listing_last_load_count",
		Help: "Number of postings returned by the most recent successful load.",
	})
	s.cacheLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "creatorhub_listing_cache_lookups_total",
		Help: "Listing cache lookups by result.",
	}, []string{"result"})
	s.interactionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "creatorhub_interactions_total",
		Help: "Board interactions by action and outcome.",
	}, []string{"action", "outcome"})
	s.eventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "creatorhub_events_published_total",
		Help: "Posting lifecycle events by type and result.",
	}, []string{"type", "result"})

	s.register(reg, s.loadsTotal, "creatorhub_listing_loads_total")
	s.register(reg, s.loadErrorsTotal, "creatorhub_listing_load_errors_total")
	s.register(reg, s.loadDuration, "creatorhub_listing_load_duration_seconds")
	s.register(reg, s.listingsLoaded, "creatorhub_listing_last_load_count")
	s.register(reg, s.cacheLookupsTotal, "creatorhub_listing_cache_lookups_total")
	s.register(reg, s.interactionsTotal, "creatorhub_interactions_total")
	s.register(reg, s.eventsTotal, "creatorhub_events_published_total")

	return s
}

func (s *PrometheusSink) register(reg prometheus.Registerer, c prometheus.Collector, name string) {
	if reg == nil {
		return
	}
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			return
		}
		s.logger.Warn("metrics: failed to register collector", zap.String("name", name), zap.Error(err))
	}
}

func (s *PrometheusSink) ListingsLoaded(duration time.Duration, count int, err error) {
	s.loadsTotal.Inc()
	s.loadDuration.Observe(duration.Seconds())
	if err != nil {
		s.loadErrorsTotal.Inc()
		return
	}
	s.listingsLoaded.Set(float64(count))
}

func (s *PrometheusSink) CacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	s.cacheLookupsTotal.WithLabelValues(result).Inc()
}

func (s *PrometheusSink) InteractionCompleted(action string, outcome string) {
	s.interactionsTotal.WithLabelValues(action, outcome).Inc()
}

func (s *PrometheusSink) EventPublished(eventType string, err error) {
	result := OutcomeSuccess
	if err != nil {
		result = OutcomeFailed
	}
	s.eventsTotal.WithLabelValues(eventType, result).Inc()
}
