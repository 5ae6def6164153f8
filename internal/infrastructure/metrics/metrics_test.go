package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	t.Run("records predictions and errors", func(t *testing.T) {
		m := New(prometheus.NewRegistry())

		m.ObservePrediction("svm", "Billing", 2*time.Millisecond)
		m.ObservePrediction("svm", "Billing", 3*time.Millisecond)
		m.ObserveError(ReasonModelNotLoaded)

		assert.Equal(t, 2.0, testutil.ToFloat64(m.predictions.WithLabelValues("svm", "Billing")))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.predictionErrors.WithLabelValues(ReasonModelNotLoaded)))
		assert.Equal(t, 0.0, testutil.ToFloat64(m.predictionErrors.WithLabelValues(ReasonInference)))
	})

	t.Run("model loaded gauge", func(t *testing.T) {
		m := New(prometheus.NewRegistry())

		m.SetModelLoaded(true)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.modelLoaded))

		m.SetModelLoaded(false)
		assert.Equal(t, 0.0, testutil.ToFloat64(m.modelLoaded))
	})

	t.Run("http requests and cache lookups", func(t *testing.T) {
		m := New(prometheus.NewRegistry())

		m.ObserveRequest("POST", "/predict", 500)
		m.ObserveCache("hit")

		assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "/predict", "500")))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("hit")))
	})

	t.Run("nil metrics is a no-op", func(t *testing.T) {
		var m *Metrics

		assert.NotPanics(t, func() {
			m.ObservePrediction("svm", "x", time.Millisecond)
			m.ObserveError(ReasonInference)
			m.ObserveRequest("GET", "/health", 200)
			m.SetModelLoaded(true)
			m.ObserveCache("miss")
		})
	})

	t.Run("double registration panics", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		New(reg)

		assert.Panics(t, func() { New(reg) })
	})
}
