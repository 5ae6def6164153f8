package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/coocood/freecache"
	"github.com/redis/go-redis/v9"

	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/domain/entity"
)

// PredictionCache memoizes predictions by key for a bounded time
type PredictionCache interface {
	// Get returns the cached prediction; ok is false on a miss
	Get(ctx context.Context, key string) (p *entity.Prediction, ok bool, err error)

	// Set stores a prediction
	Set(ctx context.Context, key string, p *entity.Prediction) error

	// Name identifies the cache backend in health output
	Name() string

	// Ping reports whether the cache is usable
	Ping(ctx context.Context) error
}

// ModelID names a loaded model in cache keys: the backend plus a short
// hash of its label set. Models with different labels never share keys.
func ModelID(backend string, labels []string) string {
	h := sha256.New()
	for _, l := range labels {
		h.Write([]byte(l))
		h.Write([]byte{0})
	}
	return backend + "-" + hex.EncodeToString(h.Sum(nil))[:12]
}

// Key derives the cache key of a model input
func Key(model, text string) string {
	sum := sha256.Sum256([]byte(text))
	return model + ":" + hex.EncodeToString(sum[:])
}

type cachedPrediction struct {
	Label      string   `json:"label"`
	Confidence *float64 `json:"confidence,omitempty"`
}

func encode(p *entity.Prediction) ([]byte, error) {
	return json.Marshal(cachedPrediction{Label: p.Label, Confidence: p.Confidence})
}

func decode(data []byte) (*entity.Prediction, error) {
	var c cachedPrediction
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to decode cached prediction: %w", err)
	}
	if c.Label == "" {
		return nil, fmt.Errorf("cached prediction has no label")
	}
	return &entity.Prediction{Label: c.Label, Confidence: c.Confidence}, nil
}

// RedisPredictionCache stores predictions in Redis, shared across replicas
type RedisPredictionCache struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewRedisPredictionCache creates a Redis-backed prediction cache
func NewRedisPredictionCache(client redis.Cmdable, ttl time.Duration) *RedisPredictionCache {
	return &RedisPredictionCache{
		client: client,
		prefix: "triage:prediction:",
		ttl:    ttl,
	}
}

// Get implements PredictionCache
func (c *RedisPredictionCache) Get(ctx context.Context, key string) (*entity.Prediction, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	p, err := decode(data)
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}

// Set implements PredictionCache
func (c *RedisPredictionCache) Set(ctx context.Context, key string, p *entity.Prediction) error {
	data, err := encode(p)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.prefix+key, data, c.ttl).Err()
}

// Name implements PredictionCache
func (c *RedisPredictionCache) Name() string {
	return "redis"
}

// Ping implements PredictionCache
func (c *RedisPredictionCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// MemoryPredictionCache stores predictions in process memory
type MemoryPredictionCache struct {
	cache *freecache.Cache
	ttl   time.Duration
}

// NewMemoryPredictionCache creates an in-process cache of sizeMB megabytes
func NewMemoryPredictionCache(sizeMB int, ttl time.Duration) (*MemoryPredictionCache, error) {
	if sizeMB <= 0 {
		return nil, fmt.Errorf("invalid cache size: %d MB", sizeMB)
	}
	return &MemoryPredictionCache{
		cache: freecache.NewCache(sizeMB * 1024 * 1024),
		ttl:   ttl,
	}, nil
}

// Get implements PredictionCache
func (c *MemoryPredictionCache) Get(_ context.Context, key string) (*entity.Prediction, bool, error) {
	data, err := c.cache.Get([]byte(key))
	if errors.Is(err, freecache.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	p, err := decode(data)
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}

// Set implements PredictionCache
func (c *MemoryPredictionCache) Set(_ context.Context, key string, p *entity.Prediction) error {
	data, err := encode(p)
	if err != nil {
		return err
	}
	// freecache treats 0 as no expiry
	return c.cache.Set([]byte(key), data, int(c.ttl.Seconds()))
}

// Name implements PredictionCache
func (c *MemoryPredictionCache) Name() string {
	return "memory"
}

// Ping implements PredictionCache
func (c *MemoryPredictionCache) Ping(context.Context) error {
	return nil
}
