package practice

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/studyhub/backend/internal/models"
	"github.com/studyhub/backend/internal/validate"
	"go.uber.org/zap"
)

type Handler struct {
	registry *Registry
	logger   *zap.Logger
}

func NewHandler(registry *Registry, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{registry: registry, logger: logger}
}

// Register mounts the practice routes on r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/categories", h.ListCategories).Methods("GET")
	r.HandleFunc("/sessions", h.StartSession).Methods("POST")
	r.HandleFunc("/sessions/{id}", h.GetSession).Methods("GET")
	r.HandleFunc("/sessions/{id}", h.EndSession).Methods("DELETE")
	r.HandleFunc("/sessions/{id}/answer", h.SubmitAnswer).Methods("POST")
	r.HandleFunc("/sessions/{id}/next", h.Next).Methods("POST")
	r.HandleFunc("/sessions/{id}/reset", h.Reset).Methods("POST")
	r.HandleFunc("/sessions/{id}/category", h.SwitchCategory).Methods("PUT")
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats := h.registry.Bank().Categories()
	out := make([]models.CategorySummary, 0, len(cats))
	for _, c := range cats {
		out = append(out, models.CategorySummary{Key: c.Key, Title: c.Title, QuestionCount: len(c.Questions)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req models.StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if fields := validate.Struct(req); fields != nil {
		writeJSON(w, http.StatusBadRequest, models.ValidationErrorResponse{Error: "Invalid request", Fields: fields})
		return
	}

	s, err := h.registry.Create(req.Category)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSession(w, http.StatusCreated, s)
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	h.writeSession(w, http.StatusOK, s)
}

func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.Delete(mux.Vars(r)["id"]); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req models.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if fields := validate.Struct(req); fields != nil {
		writeJSON(w, http.StatusBadRequest, models.ValidationErrorResponse{Error: "Invalid request", Fields: fields})
		return
	}

	out, _, err := s.Submit(req.Answer)
	if errors.Is(err, ErrInvalidTransition) {
		// Already answered, usually because the countdown won the race.
		// The learner just gets the current state back.
		h.writeSession(w, http.StatusConflict, s)
		return
	}
	if err != nil {
		h.writeError(w, err)
		return
	}

	view, err := h.view(s)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.SubmitAnswerResponse{
		Correct:       out.Correct,
		CorrectAnswer: out.CorrectAnswer,
		Explanation:   out.Explanation,
		ScoreDelta:    out.ScoreDelta,
		Session:       view,
	})
}

func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if _, err := s.Advance(); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSession(w, http.StatusOK, s)
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	scope := ResetScope(r.URL.Query().Get("scope"))
	if scope != "" && scope != ResetCursor && scope != ResetAll {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "scope must be 'cursor' or 'all'"})
		return
	}
	if _, err := s.Reset(scope); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSession(w, http.StatusOK, s)
}

func (h *Handler) SwitchCategory(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req models.SwitchCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if fields := validate.Struct(req); fields != nil {
		writeJSON(w, http.StatusBadRequest, models.ValidationErrorResponse{Error: "Invalid request", Fields: fields})
		return
	}

	if _, err := s.SwitchCategory(req.Category); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeSession(w, http.StatusOK, s)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	s, err := h.registry.Get(mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return nil, false
	}
	return s, true
}

func (h *Handler) view(s *Session) (models.SessionResponse, error) {
	st, q, err := s.Current()
	if err != nil {
		return models.SessionResponse{}, err
	}
	questions, err := h.registry.Bank().QuestionsFor(st.Category)
	if err != nil {
		return models.SessionResponse{}, err
	}
	return models.SessionResponse{
		SessionID:         s.ID(),
		Category:          st.Category,
		Question:          q.ToDrillQuestion(st.CurrentIndex, st.IsAnswered),
		QuestionCount:     len(questions),
		SelectedAnswer:    st.SelectedAnswer,
		IsAnswered:        st.IsAnswered,
		TimeRemaining:     st.TimeRemaining,
		TimerActive:       st.TimerActive,
		Score:             st.Score,
		Streak:            st.Streak,
		CompletionPercent: CompletionPercent(st.CompletedIn(st.Category), questions),
		Insights: models.LearningInsight{
			FocusArea:    FocusArea(h.registry.Bank(), st.Category),
			ResponseTime: ResponseTimeRating(st.TimeRemaining),
		},
	}, nil
}

func (h *Handler) writeSession(w http.ResponseWriter, status int, s *Session) {
	view, err := h.view(s)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, status, view)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrSessionClosed):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Session not found"})
	case errors.Is(err, ErrUnknownCategory):
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Unknown category"})
	case errors.Is(err, ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: "Answer the current question first"})
	default:
		h.logger.Error("[handler] practice request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
