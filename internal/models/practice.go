package models

// ── Request Types ─────────────────────────────────────

type StartSessionRequest struct {
	Category string `json:"category" validate:"required"`
}

type SwitchCategoryRequest struct {
	Category string `json:"category" validate:"required"`
}

type SubmitAnswerRequest struct {
	Answer string `json:"answer" validate:"required"`
}

// ── Response Types ────────────────────────────────────

type SessionResponse struct {
	SessionID         string          `json:"session_id"`
	Category          string          `json:"category"`
	Question          DrillQuestion   `json:"question"`
	QuestionCount     int             `json:"question_count"`
	SelectedAnswer    *string         `json:"selected_answer"`
	IsAnswered        bool            `json:"is_answered"`
	TimeRemaining     int             `json:"time_remaining"`
	TimerActive       bool            `json:"timer_active"`
	Score             int             `json:"score"`
	Streak            int             `json:"streak"`
	CompletionPercent int             `json:"completion_percent"`
	Insights          LearningInsight `json:"insights"`
}

type SubmitAnswerResponse struct {
	Correct       bool            `json:"correct"`
	CorrectAnswer string          `json:"correct_answer"`
	Explanation   string          `json:"explanation"`
	ScoreDelta    int             `json:"score_delta"`
	Session       SessionResponse `json:"session"`
}

type LearningInsight struct {
	FocusArea    string `json:"focus_area"`
	ResponseTime string `json:"response_time"`
}
