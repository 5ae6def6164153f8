package service

import (
	"context"

	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/domain/entity"
)

// TextClassifier assigns a label from a fixed set to a block of text.
// Implementations are read-only after construction and safe for
// concurrent use.
type TextClassifier interface {
	// Classify predicts the label of text
	Classify(ctx context.Context, text string) (*entity.Prediction, error)

	// Labels returns the fixed label set the model predicts from
	Labels() []string

	// Backend names the model technology, e.g. "svm"
	Backend() string

	// Device describes where inference runs
	Device() string
}
