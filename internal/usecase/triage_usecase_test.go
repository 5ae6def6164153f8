package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/domain/entity"
	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/infrastructure/metrics"
)

// MockClassifier is a mock implementation of TextClassifier
type MockClassifier struct {
	mock.Mock
	device string
}

func (m *MockClassifier) Classify(ctx context.Context, text string) (*entity.Prediction, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Prediction), args.Error(1)
}

func (m *MockClassifier) Labels() []string {
	return []string{"Account Access", "Billing and Payments", "Technical Support"}
}

func (m *MockClassifier) Backend() string { return "svm" }

func (m *MockClassifier) Device() string {
	if m.device == "" {
		return "cpu"
	}
	return m.device
}

func newTestUsecase(c *MockClassifier) TriageUsecase {
	if c == nil {
		return NewTriageUsecase(nil, "cpu", metrics.New(prometheus.NewRegistry()), zap.NewNop())
	}
	return NewTriageUsecase(c, "cpu", metrics.New(prometheus.NewRegistry()), zap.NewNop())
}

func TestTriageUsecase_Health(t *testing.T) {
	ctx := context.Background()

	t.Run("not loaded", func(t *testing.T) {
		uc := newTestUsecase(nil)

		out := uc.Health(ctx)

		assert.Equal(t, "ok", out.Status)
		assert.False(t, out.ModelLoaded)
		assert.Equal(t, "cpu", out.Device)
		assert.Empty(t, out.Backend)
		assert.False(t, uc.Ready())
	})

	t.Run("loaded", func(t *testing.T) {
		uc := newTestUsecase(&MockClassifier{device: "cuda"})

		out := uc.Health(ctx)

		assert.True(t, out.ModelLoaded)
		assert.Equal(t, "cuda", out.Device)
		assert.Equal(t, "svm", out.Backend)
	})

	t.Run("readiness never reverts", func(t *testing.T) {
		c := new(MockClassifier)
		c.On("Classify", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))
		uc := newTestUsecase(c)

		_, err := uc.Predict(ctx, &PredictInput{Subject: "a"})
		require.Error(t, err)

		assert.True(t, uc.Health(ctx).ModelLoaded)
	})

	t.Run("nil interface value means not loaded", func(t *testing.T) {
		uc := NewTriageUsecase(nil, "", nil, zap.NewNop())

		assert.False(t, uc.Health(ctx).ModelLoaded)
		assert.Equal(t, "cpu", uc.Health(ctx).Device)
	})
}

func TestTriageUsecase_Predict(t *testing.T) {
	ctx := context.Background()

	t.Run("concatenates subject and body", func(t *testing.T) {
		c := new(MockClassifier)
		c.On("Classify", ctx, "Double charge\nI was billed twice").
			Return(entity.NewPrediction("Billing and Payments"), nil)
		uc := newTestUsecase(c)

		out, err := uc.Predict(ctx, &PredictInput{Subject: "Double charge", Body: "I was billed twice"})

		require.NoError(t, err)
		assert.Equal(t, "Billing and Payments", out.PredictedQueue)
		assert.Nil(t, out.Confidence)
		c.AssertExpectations(t)
	})

	t.Run("empty input is classified", func(t *testing.T) {
		c := new(MockClassifier)
		c.On("Classify", ctx, "\n").Return(entity.NewPrediction("Account Access"), nil)
		uc := newTestUsecase(c)

		out, err := uc.Predict(ctx, &PredictInput{})

		require.NoError(t, err)
		assert.Contains(t, c.Labels(), out.PredictedQueue)
	})

	t.Run("passes confidence through", func(t *testing.T) {
		c := new(MockClassifier)
		c.On("Classify", ctx, mock.Anything).Return(entity.NewScoredPrediction("Technical Support", 0.91), nil)
		uc := newTestUsecase(c)

		out, err := uc.Predict(ctx, &PredictInput{Subject: "Site down"})

		require.NoError(t, err)
		require.NotNil(t, out.Confidence)
		assert.InDelta(t, 0.91, *out.Confidence, 1e-9)
	})

	t.Run("clamps out of range confidence", func(t *testing.T) {
		c := new(MockClassifier)
		conf := 1.4
		c.On("Classify", ctx, mock.Anything).Return(&entity.Prediction{Label: "Technical Support", Confidence: &conf}, nil)
		uc := newTestUsecase(c)

		out, err := uc.Predict(ctx, &PredictInput{Subject: "Site down"})

		require.NoError(t, err)
		assert.Equal(t, 1.0, *out.Confidence)
	})

	t.Run("model not loaded", func(t *testing.T) {
		uc := newTestUsecase(nil)

		out, err := uc.Predict(ctx, &PredictInput{Subject: "a", Body: "b"})

		assert.ErrorIs(t, err, ErrModelNotLoaded)
		assert.Nil(t, out)
		assert.Equal(t, "model not loaded", err.Error())
	})

	t.Run("inference failure keeps message", func(t *testing.T) {
		c := new(MockClassifier)
		cause := errors.New("inference server returned status 503")
		c.On("Classify", ctx, mock.Anything).Return(nil, cause)
		uc := newTestUsecase(c)

		out, err := uc.Predict(ctx, &PredictInput{Subject: "a"})

		assert.Nil(t, out)
		var inferenceErr *InferenceError
		require.ErrorAs(t, err, &inferenceErr)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "inference server returned status 503", err.Error())
	})

	t.Run("classifier panic becomes inference failure", func(t *testing.T) {
		c := new(MockClassifier)
		c.On("Classify", ctx, mock.Anything).Run(func(mock.Arguments) {
			panic("index out of range")
		})
		uc := newTestUsecase(c)

		out, err := uc.Predict(ctx, &PredictInput{Subject: "a"})

		assert.Nil(t, out)
		var inferenceErr *InferenceError
		require.ErrorAs(t, err, &inferenceErr)
		assert.Contains(t, err.Error(), "index out of range")
	})

	t.Run("nil prediction is an inference failure", func(t *testing.T) {
		c := new(MockClassifier)
		c.On("Classify", ctx, mock.Anything).Return(nil, nil)
		uc := newTestUsecase(c)

		_, err := uc.Predict(ctx, &PredictInput{Subject: "a"})

		var inferenceErr *InferenceError
		assert.ErrorAs(t, err, &inferenceErr)
	})
}
