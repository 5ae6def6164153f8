package transformer

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/domain/entity"
	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/domain/service"
)

// Backend is the name reported by this classifier
const Backend = "transformer"

// Options configures Load
type Options struct {
	Dir      string
	Endpoint string
	Device   string
	Timeout  time.Duration
}

// Classifier is a fine-tuned sequence classifier served by an inference
// server. The label set comes from the local config.json.
type Classifier struct {
	client       *InferenceClient
	labels       []string
	known        map[string]struct{}
	byID         map[string]string
	device       string
	maxPositions int
}

// New creates a Classifier from a decoded model config
func New(cfg *ModelConfig, client *InferenceClient, device string) *Classifier {
	labels := cfg.Labels()
	known := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		known[l] = struct{}{}
	}
	if device == "" {
		device = "cpu"
	}

	return &Classifier{
		client:       client,
		labels:       labels,
		known:        known,
		byID:         cfg.ID2Label,
		device:       device,
		maxPositions: cfg.MaxPositionEmbeddings,
	}
}

// Load reads config.json from opts.Dir and checks that the inference
// server answers its health probe.
func Load(ctx context.Context, opts Options) (*Classifier, error) {
	cfg, err := LoadModelConfig(opts.Dir)
	if err != nil {
		return nil, err
	}

	client := NewInferenceClient(opts.Endpoint, opts.Timeout)
	if err := client.Health(ctx); err != nil {
		return nil, fmt.Errorf("inference server at %s unavailable: %w", opts.Endpoint, err)
	}

	return New(cfg, client, opts.Device), nil
}

var _ service.TextClassifier = (*Classifier)(nil)

var genericLabel = regexp.MustCompile(`^LABEL_(\d+)$`)

// Classify returns the top-scoring label and its score as confidence
func (c *Classifier) Classify(ctx context.Context, text string) (*entity.Prediction, error) {
	scores, err := c.client.Predict(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(scores) == 0 {
		return nil, fmt.Errorf("inference server returned no scores")
	}

	top := scores[0]
	for _, s := range scores[1:] {
		if s.Score > top.Score {
			top = s
		}
	}

	label, err := c.resolve(top.Label)
	if err != nil {
		return nil, err
	}
	return entity.NewScoredPrediction(label, top.Score), nil
}

// resolve maps a server label onto the model's label set. Servers without
// the id2label mapping answer with LABEL_<id>.
func (c *Classifier) resolve(label string) (string, error) {
	if _, ok := c.known[label]; ok {
		return label, nil
	}
	if m := genericLabel.FindStringSubmatch(label); m != nil {
		id, _ := strconv.Atoi(m[1])
		if name, ok := c.byID[strconv.Itoa(id)]; ok {
			return name, nil
		}
	}
	return "", fmt.Errorf("inference server returned unknown label %q", label)
}

// MaxPositions returns the model's max_position_embeddings, 0 when the
// config omits it. Longer inputs are truncated by the inference server.
func (c *Classifier) MaxPositions() int {
	return c.maxPositions
}

// Labels returns the labels ordered by id
func (c *Classifier) Labels() []string {
	out := make([]string, len(c.labels))
	copy(out, c.labels)
	return out
}

// Backend returns "transformer"
func (c *Classifier) Backend() string {
	return Backend
}

// Device returns the configured inference device
func (c *Classifier) Device() string {
	return c.device
}
