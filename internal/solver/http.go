package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/studyhub/backend/internal/models"
)

const maxResponseBytes = 1 << 20

// HTTPSolver posts the request as JSON to an external solving service.
type HTTPSolver struct {
	url    string
	client *http.Client
}

func NewHTTPSolver(url string, timeout time.Duration) *HTTPSolver {
	return &HTTPSolver{url: url, client: &http.Client{Timeout: timeout}}
}

func (s *HTTPSolver) Name() string { return "http" }

func (s *HTTPSolver) Solve(ctx context.Context, req models.SolveRequest) (models.SolveResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return models.SolveResponse{}, fmt.Errorf("encode solve request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return models.SolveResponse{}, fmt.Errorf("build solve request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return models.SolveResponse{}, fmt.Errorf("call solver: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return models.SolveResponse{}, fmt.Errorf("read solver response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.SolveResponse{}, fmt.Errorf("%w: status %d", ErrBadResponse, resp.StatusCode)
	}
	return parseSolution(string(body), req.Equation)
}
