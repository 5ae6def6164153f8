package classifier

import (
	"context"

	"go.uber.org/zap"

	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/domain/entity"
	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/domain/service"
	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/infrastructure/cache"
	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/infrastructure/metrics"
)

// Cache lookup results
const (
	cacheHit   = "hit"
	cacheMiss  = "miss"
	cacheError = "error"
)

// CachedClassifier memoizes another classifier's predictions. Cache
// failures never fail a prediction; they are logged and the model is
// asked directly. Keys are scoped to the wrapped model's label set, and a
// cached label the model cannot produce is treated as a miss.
type CachedClassifier struct {
	next    service.TextClassifier
	cache   cache.PredictionCache
	model   string
	labels  map[string]struct{}
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// Cached wraps next with a prediction cache
func Cached(next service.TextClassifier, c cache.PredictionCache, m *metrics.Metrics, logger *zap.Logger) *CachedClassifier {
	labels := next.Labels()
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		set[l] = struct{}{}
	}

	return &CachedClassifier{
		next:    next,
		cache:   c,
		model:   cache.ModelID(next.Backend(), labels),
		labels:  set,
		metrics: m,
		logger:  logger,
	}
}

var _ service.TextClassifier = (*CachedClassifier)(nil)

// Classify implements service.TextClassifier
func (c *CachedClassifier) Classify(ctx context.Context, text string) (*entity.Prediction, error) {
	key := cache.Key(c.model, text)

	p, ok, err := c.cache.Get(ctx, key)
	switch {
	case err != nil:
		c.metrics.ObserveCache(cacheError)
		c.logger.Warn("Prediction cache lookup failed",
			zap.String("cache", c.cache.Name()),
			zap.Error(err),
		)
	case ok && c.known(p):
		c.metrics.ObserveCache(cacheHit)
		return p, nil
	case ok:
		c.metrics.ObserveCache(cacheMiss)
		c.logger.Warn("Ignoring cached prediction outside the model labels",
			zap.String("cache", c.cache.Name()),
			zap.String("label", p.Label),
		)
	default:
		c.metrics.ObserveCache(cacheMiss)
	}

	p, err = c.next.Classify(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, p); err != nil {
		c.logger.Warn("Prediction cache store failed",
			zap.String("cache", c.cache.Name()),
			zap.Error(err),
		)
	}

	return p, nil
}

func (c *CachedClassifier) known(p *entity.Prediction) bool {
	if p == nil {
		return false
	}
	_, ok := c.labels[p.Label]
	return ok
}

// Labels implements service.TextClassifier
func (c *CachedClassifier) Labels() []string {
	return c.next.Labels()
}

// Backend implements service.TextClassifier
func (c *CachedClassifier) Backend() string {
	return c.next.Backend()
}

// Device implements service.TextClassifier
func (c *CachedClassifier) Device() string {
	return c.next.Device()
}
