package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/domain/entity"
	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/domain/service"
	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/infrastructure/metrics"
)

// ErrModelNotLoaded is returned by Predict when startup failed to load a model
var ErrModelNotLoaded = errors.New("model not loaded")

// InferenceError wraps a classifier failure. Its message is the
// underlying cause, which the API returns verbatim.
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string {
	return e.Err.Error()
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}

// PredictInput represents a ticket submitted for triage.
// Both fields are optional.
type PredictInput struct {
	Subject string `form:"subject" json:"subject"`
	Body    string `form:"body" json:"body"`
}

// PredictionOutput represents the queue assigned to a ticket
type PredictionOutput struct {
	PredictedQueue string   `json:"predicted_queue"`
	Confidence     *float64 `json:"confidence,omitempty"`
}

// HealthOutput represents the liveness payload
type HealthOutput struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
	Device      string `json:"device"`
	Backend     string `json:"backend,omitempty"`
}

// TriageUsecase defines the interface for ticket triage
type TriageUsecase interface {
	Health(ctx context.Context) *HealthOutput
	Predict(ctx context.Context, input *PredictInput) (*PredictionOutput, error)
	Ready() bool
}

type triageUsecase struct {
	classifier service.TextClassifier
	device     string
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewTriageUsecase creates a new triage usecase. A nil classifier means
// the model failed to load; the usecase then stays not ready for its
// whole lifetime. device is reported when no model is loaded.
func NewTriageUsecase(classifier service.TextClassifier, device string, m *metrics.Metrics, logger *zap.Logger) TriageUsecase {
	if classifier != nil {
		device = classifier.Device()
	}
	if device == "" {
		device = "cpu"
	}
	m.SetModelLoaded(classifier != nil)

	return &triageUsecase{
		classifier: classifier,
		device:     device,
		metrics:    m,
		logger:     logger,
	}
}

func (u *triageUsecase) Ready() bool {
	return u.classifier != nil
}

func (u *triageUsecase) Health(_ context.Context) *HealthOutput {
	out := &HealthOutput{
		Status:      "ok",
		ModelLoaded: u.Ready(),
		Device:      u.device,
	}
	if u.classifier != nil {
		out.Backend = u.classifier.Backend()
	}
	return out
}

func (u *triageUsecase) Predict(ctx context.Context, input *PredictInput) (*PredictionOutput, error) {
	if u.classifier == nil {
		u.metrics.ObserveError(metrics.ReasonModelNotLoaded)
		return nil, ErrModelNotLoaded
	}

	ticket := entity.NewTicket(input.Subject, input.Body)

	start := time.Now()
	prediction, err := u.classify(ctx, ticket.Text())
	elapsed := time.Since(start)
	if err != nil {
		u.metrics.ObserveError(metrics.ReasonInference)
		u.logger.Error("Inference failed",
			zap.String("backend", u.classifier.Backend()),
			zap.Duration("duration", elapsed),
			zap.Error(err),
		)
		return nil, &InferenceError{Err: err}
	}

	u.metrics.ObservePrediction(u.classifier.Backend(), prediction.Label, elapsed)
	u.logger.Debug("Ticket classified",
		zap.String("predicted_queue", prediction.Label),
		zap.Duration("duration", elapsed),
	)

	return toPredictionOutput(prediction), nil
}

func (u *triageUsecase) classify(ctx context.Context, text string) (p *entity.Prediction, err error) {
	defer func() {
		if r := recover(); r != nil {
			p, err = nil, fmt.Errorf("classifier panic: %v", r)
		}
	}()

	p, err = u.classifier.Classify(ctx, text)
	if err == nil && p == nil {
		err = errors.New("classifier returned no prediction")
	}
	return p, err
}

func toPredictionOutput(p *entity.Prediction) *PredictionOutput {
	out := &PredictionOutput{PredictedQueue: p.Label}
	if p.HasConfidence() {
		c := entity.ClampConfidence(*p.Confidence)
		out.Confidence = &c
	}
	return out
}
