package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "triage"

// Error reasons recorded by ObserveError
const (
	ReasonModelNotLoaded = "model_not_loaded"
	ReasonInference      = "inference"
)

// Metrics holds the Prometheus collectors of the triage service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	predictions       *prometheus.CounterVec
	predictionErrors  *prometheus.CounterVec
	inferenceDuration *prometheus.HistogramVec
	httpRequests      *prometheus.CounterVec
	modelLoaded       prometheus.Gauge
	cacheLookups      *prometheus.CounterVec
}

// New registers the collectors on reg
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		predictions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Number of successful predictions by backend and label.",
		}, []string{"backend", "label"}),
		predictionErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prediction_errors_total",
			Help:      "Number of failed predictions by reason.",
		}, []string{"reason"}),
		inferenceDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "inference_duration_seconds",
			Help:      "Time spent in the classifier.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"backend"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Number of HTTP requests by method, route and status.",
		}, []string{"method", "path", "status"}),
		modelLoaded: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "model_loaded",
			Help:      "1 if the classification model is loaded.",
		}),
		cacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Prediction cache lookups by result (hit, miss, error).",
		}, []string{"result"}),
	}
}

// ObservePrediction records a successful prediction
func (m *Metrics) ObservePrediction(backend, label string, d time.Duration) {
	if m == nil {
		return
	}
	m.predictions.WithLabelValues(backend, label).Inc()
	m.inferenceDuration.WithLabelValues(backend).Observe(d.Seconds())
}

// ObserveError records a failed prediction
func (m *Metrics) ObserveError(reason string) {
	if m == nil {
		return
	}
	m.predictionErrors.WithLabelValues(reason).Inc()
}

// ObserveRequest records a served HTTP request
func (m *Metrics) ObserveRequest(method, path string, status int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

// SetModelLoaded exports the readiness state
func (m *Metrics) SetModelLoaded(loaded bool) {
	if m == nil {
		return
	}
	if loaded {
		m.modelLoaded.Set(1)
	} else {
		m.modelLoaded.Set(0)
	}
}

// ObserveCache records a prediction cache lookup result
func (m *Metrics) ObserveCache(result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}
