// Package solver forwards handwritten or typed equations to an external
// solving backend and normalises what comes back.
package solver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/studyhub/backend/internal/models"
	"github.com/tidwall/gjson"
)

var (
	// ErrNeedsEquationText is returned by backends that cannot read images.
	ErrNeedsEquationText = errors.New("solver needs the equation as text")
	// ErrBadResponse means the backend answered with something that is not a solution.
	ErrBadResponse = errors.New("solver returned an unusable response")
)

// Solver turns an equation image or text into a worked solution.
type Solver interface {
	Name() string
	Solve(ctx context.Context, req models.SolveRequest) (models.SolveResponse, error)
}

// parseSolution reads {equation, solution, steps} out of a JSON document.
// The equation falls back to the text that was sent, if any.
func parseSolution(body, sentEquation string) (models.SolveResponse, error) {
	if !gjson.Valid(body) {
		return models.SolveResponse{}, fmt.Errorf("%w: not JSON", ErrBadResponse)
	}
	doc := gjson.Parse(body)

	if msg := doc.Get("error").String(); msg != "" {
		return models.SolveResponse{}, fmt.Errorf("%w: %s", ErrBadResponse, msg)
	}

	res := models.SolveResponse{
		Equation: doc.Get("equation").String(),
		Solution: doc.Get("solution").String(),
		Steps:    []string{},
	}
	if res.Equation == "" {
		res.Equation = sentEquation
	}
	for _, step := range doc.Get("steps").Array() {
		if s := strings.TrimSpace(step.String()); s != "" {
			res.Steps = append(res.Steps, s)
		}
	}
	if res.Solution == "" {
		return models.SolveResponse{}, fmt.Errorf("%w: missing solution", ErrBadResponse)
	}
	return res, nil
}

// splitDataURL returns the media type and base64 payload of a data URL.
func splitDataURL(u string) (mediaType, data string, err error) {
	rest, ok := strings.CutPrefix(u, "data:")
	if !ok {
		return "", "", fmt.Errorf("not a data URL")
	}
	meta, data, ok := strings.Cut(rest, ",")
	if !ok || data == "" {
		return "", "", fmt.Errorf("data URL has no payload")
	}
	mediaType, enc, _ := strings.Cut(meta, ";")
	if enc != "base64" {
		return "", "", fmt.Errorf("data URL must be base64 encoded")
	}
	if !strings.HasPrefix(mediaType, "image/") {
		return "", "", fmt.Errorf("unsupported media type %q", mediaType)
	}
	return mediaType, data, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	return s
}
