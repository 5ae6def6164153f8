package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/adapter/classifier/svm"
	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/infrastructure/metrics"
	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter(t *testing.T, loaded bool) *gin.Engine {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	logger := zap.NewNop()

	var uc usecase.TriageUsecase
	if loaded {
		c, err := svm.Load(filepath.Join("..", "..", "classifier", "svm", "testdata"))
		require.NoError(t, err)
		uc = usecase.NewTriageUsecase(c, "cpu", m, logger)
	} else {
		uc = usecase.NewTriageUsecase(nil, "cpu", m, logger)
	}

	return Setup(Deps{Triage: uc, Metrics: m, Gatherer: reg, Logger: logger})
}

func TestRouter_Loaded(t *testing.T) {
	router := setupRouter(t, true)

	t.Run("health", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status": "ok", "model_loaded": true, "device": "cpu", "backend": "svm"}`, w.Body.String())
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("billing ticket", func(t *testing.T) {
		body := `{"subject": "Double charge on my credit card", "body": "I see two identical transactions on my statement, please refund one payment."}`
		req, _ := http.NewRequest("POST", "/predict", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var out map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		assert.Equal(t, "Billing and Payments", out["predicted_queue"])
		assert.NotContains(t, out, "confidence")
	})

	t.Run("ready", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/ready", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("metrics", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/metrics", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "triage_model_loaded 1")
		assert.Contains(t, w.Body.String(), `triage_predictions_total{backend="svm",label="Billing and Payments"} 1`)
	})
}

func TestRouter_NotLoaded(t *testing.T) {
	router := setupRouter(t, false)

	t.Run("health still ok", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"model_loaded":false`)
	})

	t.Run("predict fails", func(t *testing.T) {
		req, _ := http.NewRequest("POST", "/predict", strings.NewReader("subject=a&body=b"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var out map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		assert.Equal(t, "Model not loaded", out["detail"])
		assert.NotContains(t, out, "predicted_queue")
	})

	t.Run("not ready", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/ready", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("cors preflight", func(t *testing.T) {
		req, _ := http.NewRequest("OPTIONS", "/predict", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}
