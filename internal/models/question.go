package models

import "fmt"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

var ValidDifficulties = map[Difficulty]bool{
	DifficultyEasy:   true,
	DifficultyMedium: true,
	DifficultyHard:   true,
}

// ── Core Structs ───────────────────────────────────────

type Question struct {
	ID            string     `json:"id" yaml:"id"`
	Prompt        string     `json:"question" yaml:"question"`
	Options       []string   `json:"options" yaml:"options"`
	CorrectAnswer string     `json:"correct_answer" yaml:"correct_answer"`
	Difficulty    Difficulty `json:"difficulty" yaml:"difficulty"`
	Explanation   string     `json:"explanation" yaml:"explanation"`
}

// Validate checks the structural rules every catalog question must satisfy.
func (q Question) Validate() error {
	if q.ID == "" {
		return fmt.Errorf("question id is required")
	}
	if q.Prompt == "" {
		return fmt.Errorf("question %s: prompt is required", q.ID)
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("question %s: need at least 2 options, got %d", q.ID, len(q.Options))
	}
	seen := make(map[string]bool, len(q.Options))
	for _, opt := range q.Options {
		if seen[opt] {
			return fmt.Errorf("question %s: duplicate option %q", q.ID, opt)
		}
		seen[opt] = true
	}
	if !seen[q.CorrectAnswer] {
		return fmt.Errorf("question %s: correct answer %q is not one of the options", q.ID, q.CorrectAnswer)
	}
	if !ValidDifficulties[q.Difficulty] {
		return fmt.Errorf("question %s: invalid difficulty %q", q.ID, q.Difficulty)
	}
	return nil
}

type Category struct {
	Key       string     `json:"key" yaml:"key"`
	Title     string     `json:"title" yaml:"title"`
	Focus     string     `json:"focus" yaml:"focus"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// ── Drill Types (strip answers for serving) ───────────

type DrillQuestion struct {
	ID          string     `json:"id"`
	Number      int        `json:"number"`
	Prompt      string     `json:"question"`
	Options     []string   `json:"options"`
	Difficulty  Difficulty `json:"difficulty"`
	Explanation string     `json:"explanation,omitempty"`
	Correct     string     `json:"correct_answer,omitempty"`
}

// ToDrillQuestion hides the answer and explanation until the question is answered.
func (q Question) ToDrillQuestion(index int, revealed bool) DrillQuestion {
	dq := DrillQuestion{
		ID:         q.ID,
		Number:     index + 1,
		Prompt:     q.Prompt,
		Options:    q.Options,
		Difficulty: q.Difficulty,
	}
	if revealed {
		dq.Explanation = q.Explanation
		dq.Correct = q.CorrectAnswer
	}
	return dq
}

type CategorySummary struct {
	Key           string `json:"key"`
	Title         string `json:"title"`
	QuestionCount int    `json:"question_count"`
}
