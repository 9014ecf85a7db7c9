package solver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyhub/backend/internal/models"
	"go.uber.org/zap"
)

type failingSolver struct{}

func (failingSolver) Name() string { return "failing" }
func (failingSolver) Solve(context.Context, models.SolveRequest) (models.SolveResponse, error) {
	return models.SolveResponse{}, errors.New("upstream exploded")
}

type solveRecord struct {
	backend string
	err     error
}

type recorder struct{ calls []solveRecord }

func (r *recorder) SolverRequest(backend string, err error) {
	r.calls = append(r.calls, solveRecord{backend, err})
}

func post(h *Handler, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	h.Register(r)
	req := httptest.NewRequest("POST", "/math-solver", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_SolveWithStub(t *testing.T) {
	rc := &recorder{}
	h := NewHandler(StubSolver{}, time.Second, rc, zap.NewNop())

	rec := post(h, `{"equation":"3x = 9"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res models.SolveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "3x = 9", res.Equation)
	assert.Len(t, res.Steps, 4)

	rec = post(h, `{"image":"`+pngDataURL+`"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	require.Len(t, rc.calls, 2)
	assert.Equal(t, "stub", rc.calls[0].backend)
	assert.NoError(t, rc.calls[0].err)
}

func TestHandler_SolveValidation(t *testing.T) {
	h := NewHandler(StubSolver{}, time.Second, nil, zap.NewNop())

	rec := post(h, `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(h, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var verr models.ValidationErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verr))
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "equation", verr.Fields[0].Field)

	rec = post(h, `{"image":"https://example.com/eq.png"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verr))
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "image", verr.Fields[0].Field)
}

func TestHandler_SolveUpstreamFailure(t *testing.T) {
	rc := &recorder{}
	h := NewHandler(failingSolver{}, time.Second, rc, zap.NewNop())

	rec := post(h, `{"equation":"x"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Failed to solve equation", body.Error)

	require.Len(t, rc.calls, 1)
	assert.Error(t, rc.calls[0].err)
}
