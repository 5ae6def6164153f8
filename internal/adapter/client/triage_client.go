package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrServiceUnreachable is returned when the triage service cannot be
// reached or answers its health probe with a non-2xx status.
var ErrServiceUnreachable = errors.New("API not reachable")

// maxBodySize bounds how much of a response body is read
const maxBodySize = 1 << 20

// PredictRequest represents a request to the triage service
type PredictRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// HealthReport is the health probe answer as the demo shows it
type HealthReport struct {
	StatusCode int
	// Payload is indented JSON for JSON responses and raw text otherwise
	Payload string
	IsJSON  bool
}

// PredictResponse carries a successful prediction response
type PredictResponse struct {
	StatusCode int
	Result     *Result
}

// APIError is a non-2xx answer from /predict
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %d", e.StatusCode)
}

// TriageClient is an HTTP client for the triage service
type TriageClient struct {
	baseURL        string
	httpClient     *http.Client
	healthTimeout  time.Duration
	predictTimeout time.Duration
}

// NewTriageClient creates a new triage service client. Each call applies
// its own timeout.
func NewTriageClient(baseURL string, healthTimeout, predictTimeout time.Duration) *TriageClient {
	return &TriageClient{
		baseURL:        strings.TrimRight(baseURL, "/"),
		httpClient:     &http.Client{},
		healthTimeout:  healthTimeout,
		predictTimeout: predictTimeout,
	}
}

// BaseURL returns the service address the client talks to
func (c *TriageClient) BaseURL() string {
	return c.baseURL
}

// Health probes GET /health. A report is returned whenever the service
// answered, even with an error status.
func (c *TriageClient) Health(ctx context.Context) (*HealthReport, error) {
	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrServiceUnreachable, err)
	}

	report := &HealthReport{StatusCode: resp.StatusCode, Payload: string(body)}
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		if pretty, err := indentJSON(body); err == nil {
			report.Payload = pretty
			report.IsJSON = true
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return report, fmt.Errorf("%w: status %d", ErrServiceUnreachable, resp.StatusCode)
	}

	return report, nil
}

// Predict posts a ticket to /predict and parses whichever result fields
// the response carries.
func (c *TriageClient) Predict(ctx context.Context, subject, body string) (*PredictResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.predictTimeout)
	defer cancel()

	payload, err := json.Marshal(PredictRequest{Subject: subject, Body: body})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	result, err := ParseResult(respBody)
	if err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &PredictResponse{StatusCode: resp.StatusCode, Result: result}, nil
}

func indentJSON(data []byte) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(data), "", "  "); err != nil {
		return "", err
	}
	return buf.String(), nil
}
