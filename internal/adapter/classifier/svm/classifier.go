package svm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/domain/entity"
	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/domain/service"
)

// Artifact file names inside the svm model directory
const (
	VectorizerFile = "vectorizer.json"
	ModelFile      = "svm.json"
)

// Backend is the name reported by this classifier
const Backend = "svm"

// ModelSpec is the JSON export of a fitted one-vs-rest linear SVM
type ModelSpec struct {
	Classes   []string    `json:"classes"`
	Coef      [][]float64 `json:"coef"`
	Intercept []float64   `json:"intercept"`
}

// Classifier is a bag-of-words TF-IDF vectorizer followed by a linear SVM.
// It never reports a confidence score.
type Classifier struct {
	vectorizer *Vectorizer
	classes    []string
	coef       [][]float64
	intercept  []float64
}

// New builds a Classifier from already decoded artifacts
func New(vectorizer *Vectorizer, spec *ModelSpec) (*Classifier, error) {
	if len(spec.Classes) < 2 {
		return nil, fmt.Errorf("svm: need at least 2 classes, got %d", len(spec.Classes))
	}

	rows := len(spec.Classes)
	if rows == 2 {
		rows = 1
	}
	if len(spec.Coef) != rows {
		return nil, fmt.Errorf("svm: %d classes need %d coef rows, got %d", len(spec.Classes), rows, len(spec.Coef))
	}
	if len(spec.Intercept) != rows {
		return nil, fmt.Errorf("svm: %d classes need %d intercepts, got %d", len(spec.Classes), rows, len(spec.Intercept))
	}
	for i, row := range spec.Coef {
		if len(row) != vectorizer.Features() {
			return nil, fmt.Errorf("svm: coef row %d has %d features, vectorizer has %d", i, len(row), vectorizer.Features())
		}
	}

	return &Classifier{
		vectorizer: vectorizer,
		classes:    spec.Classes,
		coef:       spec.Coef,
		intercept:  spec.Intercept,
	}, nil
}

// Load reads vectorizer.json and svm.json from dir
func Load(dir string) (*Classifier, error) {
	var vspec VectorizerSpec
	if err := readJSON(filepath.Join(dir, VectorizerFile), &vspec); err != nil {
		return nil, err
	}
	vectorizer, err := NewVectorizer(&vspec)
	if err != nil {
		return nil, err
	}

	var mspec ModelSpec
	if err := readJSON(filepath.Join(dir, ModelFile), &mspec); err != nil {
		return nil, err
	}

	return New(vectorizer, &mspec)
}

var _ service.TextClassifier = (*Classifier)(nil)

// Classify returns the class with the highest decision score. Ties go to
// the class listed first.
func (c *Classifier) Classify(ctx context.Context, text string) (*entity.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scores := c.DecisionFunction(text)

	if len(scores) == 1 {
		if scores[0] > 0 {
			return entity.NewPrediction(c.classes[1]), nil
		}
		return entity.NewPrediction(c.classes[0]), nil
	}

	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return entity.NewPrediction(c.classes[best]), nil
}

// DecisionFunction returns the signed distance of text to each hyperplane
func (c *Classifier) DecisionFunction(text string) []float64 {
	x := c.vectorizer.Transform(text)

	scores := make([]float64, len(c.coef))
	for i, row := range c.coef {
		scores[i] = c.intercept[i] + x.Dot(row)
	}
	return scores
}

// Labels returns the class labels in model order
func (c *Classifier) Labels() []string {
	out := make([]string, len(c.classes))
	copy(out, c.classes)
	return out
}

// Backend returns "svm"
func (c *Classifier) Backend() string {
	return Backend
}

// Device returns "cpu"
func (c *Classifier) Device() string {
	return "cpu"
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return nil
}
