// Package client implements the HTTP boundary between the monitor pipeline
// and the inference API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/konkalaitzidis/digital-health-app/internal/activity"
)

// StatusError reports a non-2xx response from the inference API, or a 2xx
// response whose body could not be decoded.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API %d", e.Code)
}

// StatusText returns the client-visible status string for this error.
func (e *StatusError) StatusText() string {
	return e.Error()
}

// sampleJSON mirrors the /predict request sample schema.
type sampleJSON struct {
	AccelX float64 `json:"accel_x"`
	AccelY float64 `json:"accel_y"`
	AccelZ float64 `json:"accel_z"`
}

type predictRequest struct {
	Samples []sampleJSON `json:"samples"`
}

type predictResponse struct {
	MetClass      string             `json:"met_class"`
	Probabilities map[string]float64 `json:"probabilities"`
}

// Client posts accelerometer windows to the inference API.
type Client struct {
	base string
	http *http.Client
}

// New creates a client for the given base URL. Trailing slashes are
// stripped; /predict and /ping are appended per request.
func New(base string) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// Ping probes the API liveness endpoint.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/ping", nil)
	if err != nil {
		return fmt.Errorf("build ping request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode}
	}
	return nil
}

// Classify posts one window and returns the raw prediction.
//
// Error taxonomy: transport failures are returned wrapped (the caller shows
// them as offline); non-2xx responses and undecodable bodies return a
// *StatusError carrying the HTTP code. A well-formed 200 without a valid
// met_class is not an error: the label defaults to Sedentary.
func (c *Client) Classify(ctx context.Context, window []activity.Sample) (activity.Prediction, error) {
	payload := predictRequest{Samples: make([]sampleJSON, len(window))}
	for i, s := range window {
		payload.Samples[i] = sampleJSON{AccelX: s.X, AccelY: s.Y, AccelZ: s.Z}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return activity.Prediction{}, fmt.Errorf("encode predict request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/predict", bytes.NewReader(body))
	if err != nil {
		return activity.Prediction{}, fmt.Errorf("build predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return activity.Prediction{}, fmt.Errorf("post predict: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return activity.Prediction{}, &StatusError{Code: resp.StatusCode}
	}

	var pr predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return activity.Prediction{}, &StatusError{Code: resp.StatusCode}
	}

	// Missing or unrecognized met_class falls back to Sedentary rather
	// than failing the window.
	label := activity.Class(pr.MetClass)
	if !label.Valid() {
		label = activity.Sedentary
	}

	var probs map[activity.Class]float64
	if len(pr.Probabilities) > 0 {
		probs = make(map[activity.Class]float64, len(pr.Probabilities))
		for name, p := range pr.Probabilities {
			probs[activity.Class(name)] = p
		}
	}
	return activity.Prediction{Label: label, Probabilities: probs}, nil
}
