package notes

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/studyhub/backend/internal/models"
	"go.uber.org/zap"
)

// Recorder counts note operations by outcome.
type Recorder interface {
	NoteOperation(op string, err error)
}

type nopRecorder struct{}

func (nopRecorder) NoteOperation(string, error) {}

type Handler struct {
	store    Store
	recorder Recorder
	logger   *zap.Logger
}

func NewHandler(store Store, recorder Recorder, logger *zap.Logger) *Handler {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, recorder: recorder, logger: logger}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/notes", h.List).Methods("GET")
	r.HandleFunc("/notes", h.Create).Methods("POST")
	r.HandleFunc("/notes", h.Update).Methods("PUT")
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	notes, err := h.store.List(r.Context())
	h.recorder.NoteOperation("list", err)
	if err != nil {
		h.logger.Error("[notes] list failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load notes"})
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	note, err := h.store.Create(r.Context(), req)
	h.recorder.NoteOperation("create", err)
	if err != nil {
		h.logger.Error("[notes] create failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create note"})
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var note models.Note
	if err := json.NewDecoder(r.Body).Decode(&note); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	updated, err := h.store.Update(r.Context(), note)
	h.recorder.NoteOperation("update", err)
	if err != nil {
		h.logger.Error("[notes] update failed", zap.String("note_id", note.ID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update note"})
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
