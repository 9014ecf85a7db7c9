package solver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/studyhub/backend/internal/models"
	"github.com/studyhub/backend/internal/validate"
	"go.uber.org/zap"
)

const maxRequestBytes = 8 << 20

// Recorder counts solve attempts by backend and outcome.
type Recorder interface {
	SolverRequest(backend string, err error)
}

type nopRecorder struct{}

func (nopRecorder) SolverRequest(string, error) {}

type Handler struct {
	solver   Solver
	timeout  time.Duration
	recorder Recorder
	logger   *zap.Logger
}

func NewHandler(solver Solver, timeout time.Duration, recorder Recorder, logger *zap.Logger) *Handler {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{solver: solver, timeout: timeout, recorder: recorder, logger: logger}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/math-solver", h.Solve).Methods("POST")
}

func (h *Handler) Solve(w http.ResponseWriter, r *http.Request) {
	var req models.SolveRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if fields := validate.Struct(req); fields != nil {
		writeJSON(w, http.StatusBadRequest, models.ValidationErrorResponse{Error: "Invalid request", Fields: fields})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	start := time.Now()
	res, err := h.solver.Solve(ctx, req)
	h.recorder.SolverRequest(h.solver.Name(), err)
	if errors.Is(err, ErrNeedsEquationText) {
		writeJSON(w, http.StatusUnprocessableEntity, models.ErrorResponse{Error: "Type the equation to use this solver"})
		return
	}
	if err != nil {
		h.logger.Warn("[solver] solve failed",
			zap.String("backend", h.solver.Name()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		writeJSON(w, http.StatusBadGateway, models.ErrorResponse{Error: "Failed to solve equation"})
		return
	}

	h.logger.Info("[solver] solved",
		zap.String("backend", h.solver.Name()),
		zap.Int("steps", len(res.Steps)),
		zap.Duration("elapsed", time.Since(start)))
	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
