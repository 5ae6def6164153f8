package entity

import "math"

// Prediction represents the queue a classifier assigned to a ticket
type Prediction struct {
	Label string
	// Confidence is nil for models that do not expose a calibrated score.
	Confidence *float64
}

// NewPrediction creates a Prediction without a confidence score
func NewPrediction(label string) *Prediction {
	return &Prediction{Label: label}
}

// NewScoredPrediction creates a Prediction with a confidence clamped to [0,1]
func NewScoredPrediction(label string, confidence float64) *Prediction {
	c := ClampConfidence(confidence)
	return &Prediction{
		Label:      label,
		Confidence: &c,
	}
}

// HasConfidence returns true if the model produced a score
func (p *Prediction) HasConfidence() bool {
	return p.Confidence != nil
}

// ClampConfidence limits a score to [0,1]; NaN becomes 0
func ClampConfidence(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
