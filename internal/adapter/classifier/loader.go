package classifier

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/adapter/classifier/svm"
	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/adapter/classifier/transformer"
	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/domain/service"
	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/infrastructure/config"
)

// Load builds the classifier selected by cfg.Backend from its artifact
// directory. Callers treat an error as "model not loaded".
func Load(ctx context.Context, cfg *config.ModelConfig, logger *zap.Logger) (service.TextClassifier, error) {
	dir := cfg.ArtifactDir()
	start := time.Now()

	var (
		c      service.TextClassifier
		fields []zap.Field
		err    error
	)
	switch cfg.Backend {
	case config.BackendSVM:
		var m *svm.Classifier
		m, err = svm.Load(dir)
		if m != nil {
			c = m
		}
	case config.BackendTransformer:
		var m *transformer.Classifier
		m, err = transformer.Load(ctx, transformer.Options{
			Dir:      dir,
			Endpoint: cfg.Endpoint,
			Device:   cfg.Device,
			Timeout:  cfg.Timeout,
		})
		if m != nil {
			c = m
			if n := m.MaxPositions(); n > 0 {
				fields = append(fields, zap.Int("max_position_embeddings", n))
			}
		}
	default:
		return nil, fmt.Errorf("unknown model backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s model from %s: %w", cfg.Backend, dir, err)
	}

	logger.Info("Model loaded", append([]zap.Field{
		zap.String("backend", c.Backend()),
		zap.String("device", c.Device()),
		zap.String("dir", dir),
		zap.Strings("labels", c.Labels()),
		zap.Duration("duration", time.Since(start)),
	}, fields...)...)

	return c, nil
}
