package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Shape tells which known keys a response carried
type Shape int

const (
	// ShapeUnknown means no known key matched; only Raw is meaningful
	ShapeUnknown Shape = iota
	// ShapeKnown means Label is set. Score may be set too.
	ShapeKnown
	// ShapeScoreOnly means a score key matched but no label key did
	ShapeScoreOnly
)

// Keys tried in order when reading a prediction response
var (
	LabelKeys = []string{"predicted_queue", "predicted_label", "label", "prediction"}
	ScoreKeys = []string{"confidence", "score", "probability"}
)

// Score is a confidence value as the service sent it. Value is set when
// the score parsed as a number; Text always holds the original form.
type Score struct {
	Value *float64
	Text  string
}

// String formats the score with three decimals when numeric
func (s *Score) String() string {
	if s.Value != nil {
		return strconv.FormatFloat(*s.Value, 'f', 3, 64)
	}
	return s.Text
}

// Result is a prediction response read tolerantly
type Result struct {
	Kind  Shape
	Label string
	// Score is nil when the response has no confidence field
	Score *Score
	// Raw is the indented response JSON
	Raw string
}

// ParseResult reads a JSON object, picking the first non-empty label key
// and score key independently. The body must be a JSON object.
func ParseResult(raw []byte) (*Result, error) {
	var fields map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, fmt.Errorf("response is not a JSON object")
	}

	pretty, err := indentJSON(raw)
	if err != nil {
		return nil, err
	}

	result := &Result{Kind: ShapeUnknown, Raw: pretty}

	for _, key := range LabelKeys {
		if label, ok := labelValue(fields[key]); ok {
			result.Kind = ShapeKnown
			result.Label = label
			break
		}
	}

	for _, key := range ScoreKeys {
		if score, ok := scoreValue(fields[key]); ok {
			result.Score = score
			break
		}
	}
	if result.Kind == ShapeUnknown && result.Score != nil {
		result.Kind = ShapeScoreOnly
	}

	return result, nil
}

// labelValue accepts non-empty strings and numbers
func labelValue(msg json.RawMessage) (string, bool) {
	if len(msg) == 0 {
		return "", false
	}

	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return "", false
	}

	switch val := v.(type) {
	case string:
		if val == "" {
			return "", false
		}
		return val, true
	case json.Number:
		return val.String(), true
	default:
		return "", false
	}
}

// scoreValue skips null and empty values. Numeric strings and percentages
// are converted; anything else is kept as text.
func scoreValue(msg json.RawMessage) (*Score, bool) {
	if len(msg) == 0 {
		return nil, false
	}

	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}

	switch val := v.(type) {
	case nil:
		return nil, false
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return &Score{Text: val.String()}, true
		}
		return &Score{Value: &f, Text: val.String()}, true
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return nil, false
		}
		if f, ok := parseScoreText(s); ok {
			return &Score{Value: &f, Text: val}, true
		}
		return &Score{Text: val}, true
	default:
		return &Score{Text: strings.TrimSpace(string(msg))}, true
	}
}

func parseScoreText(s string) (float64, bool) {
	percent := strings.HasSuffix(s, "%")
	if percent {
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if percent {
		f /= 100
	}
	return f, true
}
