// Package orchestrator drives a sync run from the client side: it holds the
// cursor, calls the step endpoint, retries transport failures and halts on
// server-reported step failures.
package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cartbridge/backend/internal/interfaces/http/dto"
)

// TransportError is a network-level failure: the step may or may not have
// run on the server, but since steps are idempotent re-sending the same
// cursor is safe.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StepError is a failure the server reported for the step itself. The run
// halts; retrying the same cursor would fail the same way.
type StepError struct {
	Code    string
	Message string
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step failed [%s]: %s", e.Code, e.Message)
}

// Transport executes one step call against the sync server.
type Transport interface {
	Step(ctx context.Context, req dto.StepRequest) (*dto.StepResponse, error)
	ProductCount(ctx context.Context) (int, error)
}

// HTTPTransport calls the sync API over HTTP.
type HTTPTransport struct {
	baseURL string
	client  *http.Client
}

// NewHTTPTransport creates a transport for the server at baseURL
// (e.g. "http://localhost:8080").
func NewHTTPTransport(baseURL string) *HTTPTransport {
	return &HTTPTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 2 * time.Minute},
	}
}

// Step posts the cursor to the step endpoint and decodes the outcome.
func (t *HTTPTransport) Step(ctx context.Context, stepReq dto.StepRequest) (*dto.StepResponse, error) {
	body, err := json.Marshal(stepReq)
	if err != nil {
		return nil, fmt.Errorf("failed to encode step request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		t.baseURL+"/api/v1/sync/step", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build step request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	var envelope struct {
		Success bool             `json:"success"`
		Data    dto.StepResponse `json:"data"`
		Error   *dto.ErrorInfo   `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		// A proxy or crashed server answered with something that is not the
		// step envelope; treat like a network failure.
		return nil, &TransportError{Err: fmt.Errorf("undecodable response (status %d): %w", resp.StatusCode, err)}
	}

	if !envelope.Success {
		if envelope.Error != nil {
			return nil, &StepError{Code: envelope.Error.Code, Message: envelope.Error.Message}
		}
		return nil, &StepError{Code: "UNKNOWN", Message: fmt.Sprintf("server returned status %d", resp.StatusCode)}
	}

	return &envelope.Data, nil
}

// ProductCount fetches the number of syncable products from the status
// endpoint.
func (t *HTTPTransport) ProductCount(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		t.baseURL+"/api/v1/sync/status", nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build status request: %w", err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return 0, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	var envelope struct {
		Success bool               `json:"success"`
		Data    dto.StatusResponse `json:"data"`
		Error   *dto.ErrorInfo     `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return 0, &TransportError{Err: fmt.Errorf("undecodable response (status %d): %w", resp.StatusCode, err)}
	}
	if !envelope.Success {
		if envelope.Error != nil {
			return 0, &StepError{Code: envelope.Error.Code, Message: envelope.Error.Message}
		}
		return 0, &StepError{Code: "UNKNOWN", Message: fmt.Sprintf("server returned status %d", resp.StatusCode)}
	}
	return envelope.Data.ProductCount, nil
}
