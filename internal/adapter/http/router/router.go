package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/adapter/http/handler"
	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/adapter/http/middleware"
	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/infrastructure/cache"
	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/infrastructure/metrics"
	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/usecase"
)

// Deps holds everything the router wires into handlers
type Deps struct {
	Triage   usecase.TriageUsecase
	Cache    cache.PredictionCache
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
}

// Setup creates and configures the Gin router
func Setup(deps Deps) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(deps.Logger))
	router.Use(middleware.Recovery(deps.Logger))
	router.Use(middleware.CORS())
	router.Use(middleware.Metrics(deps.Metrics))

	// Health endpoints
	healthHandler := handler.NewHealthHandler(deps.Triage, deps.Cache)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// Prometheus metrics
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// Prediction
	triageHandler := handler.NewTriageHandler(deps.Triage)
	router.POST("/predict", triageHandler.Predict)

	return router
}
