package solver

import (
	"context"
	"fmt"

	"github.com/studyhub/backend/internal/models"
)

// StubSolver answers typed equations with placeholder steps. It is used
// when no solving service is configured.
type StubSolver struct{}

func (StubSolver) Name() string { return "stub" }

func (StubSolver) Solve(ctx context.Context, req models.SolveRequest) (models.SolveResponse, error) {
	if req.Equation == "" {
		return models.SolveResponse{}, ErrNeedsEquationText
	}
	eq := req.Equation
	return models.SolveResponse{
		Equation: eq,
		Solution: fmt.Sprintf("Solution for %s", eq),
		Steps: []string{
			fmt.Sprintf("Step 1: Parse the equation %s", eq),
			"Step 2: Apply relevant mathematical rules",
			"Step 3: Simplify the expression",
			"Step 4: Solve for the unknown variable",
		},
	}, nil
}
