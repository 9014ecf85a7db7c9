package notes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyhub/backend/internal/models"
	"go.uber.org/zap"
)

type countingRecorder struct {
	ops    []string
	failed int
}

func (c *countingRecorder) NoteOperation(op string, err error) {
	c.ops = append(c.ops, op)
	if err != nil {
		c.failed++
	}
}

type brokenStore struct{}

func (brokenStore) List(context.Context) ([]models.Note, error) {
	return nil, errors.New("connection refused")
}
func (brokenStore) Create(context.Context, models.CreateNoteRequest) (models.Note, error) {
	return models.Note{}, errors.New("connection refused")
}
func (brokenStore) Update(context.Context, models.Note) (models.Note, error) {
	return models.Note{}, errors.New("connection refused")
}

func serve(h *Handler, method, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	h.Register(r)

	req := httptest.NewRequest(method, "/notes", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Notes(t *testing.T) {
	rc := &countingRecorder{}
	h := NewHandler(NewMemoryStore(SeedNotes...), rc, zap.NewNop())

	rec := serve(h, "GET", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []models.Note
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 2)

	rec = serve(h, "POST", `{"title":"Physics","content":"# Waves","category":"Science"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var created models.Note
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Physics", created.Title)

	rec = serve(h, "PUT", `{"id":"2","title":"Biology","content":"# Cells","category":"Science"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated models.Note
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, models.Note{ID: "2", Title: "Biology", Content: "# Cells", Category: "Science"}, updated)

	rec = serve(h, "POST", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, []string{"list", "create", "update"}, rc.ops)
	assert.Equal(t, 0, rc.failed)
}

func TestHandler_StoreFailure(t *testing.T) {
	rc := &countingRecorder{}
	h := NewHandler(brokenStore{}, rc, zap.NewNop())

	rec := serve(h, "GET", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Failed to load notes", body.Error)

	rec = serve(h, "POST", `{"title":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = serve(h, "PUT", `{"id":"1"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	assert.Equal(t, 3, rc.failed)
}
