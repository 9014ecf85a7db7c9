package practice

import (
	"fmt"

	"github.com/studyhub/backend/internal/models"
)

// DefaultQuestionSeconds is the countdown given to every question.
const DefaultQuestionSeconds = 60

type Phase string

const (
	PhaseAwaitingAnswer Phase = "awaiting_answer"
	PhaseAnswered       Phase = "answered"
)

// State is one learner's practice progress. It is a plain value: every
// transition returns a new State and leaves the receiver untouched.
type State struct {
	Category        string
	CurrentIndex    int
	SelectedAnswer  *string
	IsAnswered      bool
	TimeRemaining   int
	TimerActive     bool
	Score           int
	Streak          int
	LastCorrect     *bool
	QuestionSeconds int

	// Completed maps category key to the question ids answered at least once.
	Completed map[string]map[string]bool
}

// Outcome describes how a single question was resolved.
type Outcome struct {
	Category      string
	QuestionID    string
	Difficulty    models.Difficulty
	Choice        *string
	Correct       bool
	TimedOut      bool
	ScoreDelta    int
	CorrectAnswer string
	Explanation   string
}

// NewState starts a learner on the first question of category.
func NewState(category string, questionSeconds int) State {
	if questionSeconds <= 0 {
		questionSeconds = DefaultQuestionSeconds
	}
	s := State{
		Category:        category,
		QuestionSeconds: questionSeconds,
		Completed:       map[string]map[string]bool{},
	}
	return s.rewind(0)
}

func (s State) Phase() Phase {
	if s.IsAnswered {
		return PhaseAnswered
	}
	return PhaseAwaitingAnswer
}

// CompletedIn reports the ids completed in category. The returned map must not be modified.
func (s State) CompletedIn(category string) map[string]bool {
	return s.Completed[category]
}

// Submit resolves the current question q. A nil choice is a forced
// submission after the countdown ran out and always counts as wrong.
func (s State) Submit(q models.Question, choice *string) (State, Outcome, error) {
	if s.IsAnswered {
		return s, Outcome{}, fmt.Errorf("%w: question %s already answered", ErrInvalidTransition, q.ID)
	}

	correct := choice != nil && *choice == q.CorrectAnswer
	delta := Score(q.Difficulty, correct)

	next := s
	if choice != nil {
		c := *choice
		next.SelectedAnswer = &c
	} else {
		next.SelectedAnswer = nil
	}
	next.IsAnswered = true
	next.TimerActive = false
	next.Score += delta
	next.Streak = NextStreak(s.Streak, correct)
	next.LastCorrect = &correct
	next.Completed = s.withCompleted(s.Category, q.ID)

	return next, Outcome{
		Category:      s.Category,
		QuestionID:    q.ID,
		Difficulty:    q.Difficulty,
		Choice:        next.SelectedAnswer,
		Correct:       correct,
		TimedOut:      choice == nil,
		ScoreDelta:    delta,
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
	}, nil
}

// Tick takes one second off the countdown. expired is true only on the tick
// that reaches zero; after that the countdown is inactive and Tick is a no-op.
func (s State) Tick() (next State, expired bool) {
	if !s.TimerActive || s.IsAnswered {
		return s, false
	}
	next = s
	if next.TimeRemaining > 0 {
		next.TimeRemaining--
	}
	if next.TimeRemaining == 0 {
		next.TimerActive = false
		return next, true
	}
	return next, false
}

// Advance moves to the next question of a category with length questions,
// wrapping to the first after the last.
func (s State) Advance(length int) (State, error) {
	if !s.IsAnswered {
		return s, fmt.Errorf("%w: current question not answered", ErrInvalidTransition)
	}
	if length <= 0 {
		return s, fmt.Errorf("%w: empty category %q", ErrOutOfRange, s.Category)
	}
	return s.rewind((s.CurrentIndex + 1) % length), nil
}

// ResetCursor seeks back to the first question. Score, streak and
// completion are kept.
func (s State) ResetCursor() State {
	return s.rewind(0)
}

// ResetAll seeks back to the first question and clears score, streak and
// completion for every category.
func (s State) ResetAll() State {
	next := s.rewind(0)
	next.Score = 0
	next.Streak = 0
	next.Completed = map[string]map[string]bool{}
	return next
}

// SwitchCategory moves to the first question of category. Score, streak and
// the completion record of every category are kept.
func (s State) SwitchCategory(category string) State {
	next := s.rewind(0)
	next.Category = category
	return next
}

func (s State) rewind(index int) State {
	s.CurrentIndex = index
	s.SelectedAnswer = nil
	s.IsAnswered = false
	s.LastCorrect = nil
	s.TimeRemaining = s.QuestionSeconds
	s.TimerActive = true
	return s
}

// withCompleted returns a copy of the completion record with id added.
func (s State) withCompleted(category, id string) map[string]map[string]bool {
	out := make(map[string]map[string]bool, len(s.Completed)+1)
	for k, v := range s.Completed {
		out[k] = v
	}
	ids := make(map[string]bool, len(s.Completed[category])+1)
	for k := range s.Completed[category] {
		ids[k] = true
	}
	ids[id] = true
	out[category] = ids
	return out
}
