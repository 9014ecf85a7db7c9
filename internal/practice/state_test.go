package practice

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyhub/backend/internal/models"
)

func strPtr(s string) *string { return &s }

func mathQuestion() models.Question {
	return models.Question{
		ID:            "math-2",
		Prompt:        "Find the derivative of f(x) = x² + 3x - 2",
		Options:       []string{"f'(x) = 2x + 3", "f'(x) = x + 3"},
		CorrectAnswer: "f'(x) = 2x + 3",
		Difficulty:    models.DifficultyMedium,
	}
}

func TestNewState(t *testing.T) {
	s := NewState("math", 0)
	assert.Equal(t, "math", s.Category)
	assert.Equal(t, 0, s.CurrentIndex)
	assert.Equal(t, DefaultQuestionSeconds, s.TimeRemaining)
	assert.True(t, s.TimerActive)
	assert.False(t, s.IsAnswered)
	assert.Nil(t, s.SelectedAnswer)
	assert.Equal(t, PhaseAwaitingAnswer, s.Phase())
}

func TestState_SubmitCorrect(t *testing.T) {
	s := NewState("math", 60)
	s.Streak = 2

	next, out, err := s.Submit(mathQuestion(), strPtr("f'(x) = 2x + 3"))
	require.NoError(t, err)

	assert.True(t, out.Correct)
	assert.False(t, out.TimedOut)
	assert.Equal(t, 10, out.ScoreDelta)
	assert.Equal(t, 10, next.Score)
	assert.Equal(t, 3, next.Streak)
	assert.True(t, next.IsAnswered)
	assert.False(t, next.TimerActive)
	require.NotNil(t, next.LastCorrect)
	assert.True(t, *next.LastCorrect)
	assert.True(t, next.CompletedIn("math")["math-2"])
	assert.Equal(t, PhaseAnswered, next.Phase())

	// receiver is untouched
	assert.False(t, s.IsAnswered)
	assert.Empty(t, s.CompletedIn("math"))
}

func TestState_SubmitWrongResetsStreak(t *testing.T) {
	s := NewState("math", 60)
	s.Streak = 4
	s.Score = 20

	next, out, err := s.Submit(mathQuestion(), strPtr("f'(x) = x + 3"))
	require.NoError(t, err)
	assert.False(t, out.Correct)
	assert.Equal(t, 0, next.Streak)
	assert.Equal(t, 20, next.Score)
	require.NotNil(t, next.SelectedAnswer)
	assert.Equal(t, "f'(x) = x + 3", *next.SelectedAnswer)
	assert.True(t, next.CompletedIn("math")["math-2"])
}

func TestState_SubmitTimeout(t *testing.T) {
	s := NewState("math", 60)
	s.Streak = 3

	next, out, err := s.Submit(mathQuestion(), nil)
	require.NoError(t, err)
	assert.True(t, out.TimedOut)
	assert.False(t, out.Correct)
	assert.Nil(t, next.SelectedAnswer)
	assert.Equal(t, 0, next.Streak)
	assert.True(t, next.CompletedIn("math")["math-2"])
}

func TestState_SubmitTwice(t *testing.T) {
	s := NewState("math", 60)
	next, _, err := s.Submit(mathQuestion(), strPtr("f'(x) = 2x + 3"))
	require.NoError(t, err)

	again, _, err := next.Submit(mathQuestion(), strPtr("f'(x) = x + 3"))
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.Equal(t, next.Score, again.Score)
	assert.Equal(t, "f'(x) = 2x + 3", *again.SelectedAnswer)
}

func TestState_CompletedAddedOnce(t *testing.T) {
	s := NewState("math", 60)
	for i := 0; i < 3; i++ {
		var err error
		s, _, err = s.Submit(mathQuestion(), nil)
		require.NoError(t, err)
		s = s.ResetCursor()
	}
	assert.Len(t, s.CompletedIn("math"), 1)
}

func TestState_Tick(t *testing.T) {
	s := NewState("math", 3)

	s, expired := s.Tick()
	assert.False(t, expired)
	assert.Equal(t, 2, s.TimeRemaining)

	s, expired = s.Tick()
	assert.False(t, expired)

	s, expired = s.Tick()
	assert.True(t, expired)
	assert.Equal(t, 0, s.TimeRemaining)
	assert.False(t, s.TimerActive)

	// expiry is raised once
	s, expired = s.Tick()
	assert.False(t, expired)
	assert.Equal(t, 0, s.TimeRemaining)
}

func TestState_TickAfterAnswerIsNoop(t *testing.T) {
	s := NewState("math", 60)
	s, _, err := s.Submit(mathQuestion(), strPtr("f'(x) = 2x + 3"))
	require.NoError(t, err)

	next, expired := s.Tick()
	assert.False(t, expired)
	assert.Equal(t, 60, next.TimeRemaining)
}

func TestState_Advance(t *testing.T) {
	s := NewState("math", 60)

	_, err := s.Advance(3)
	assert.True(t, errors.Is(err, ErrInvalidTransition))

	for _, want := range []int{1, 2, 0, 1} {
		s, _, err = s.Submit(mathQuestion(), nil)
		require.NoError(t, err)
		s, err = s.Advance(3)
		require.NoError(t, err)
		assert.Equal(t, want, s.CurrentIndex)
		assert.Equal(t, 60, s.TimeRemaining)
		assert.True(t, s.TimerActive)
		assert.False(t, s.IsAnswered)
		assert.Nil(t, s.SelectedAnswer)
	}
}

func TestState_Resets(t *testing.T) {
	s := NewState("math", 60)
	s, _, err := s.Submit(mathQuestion(), strPtr("f'(x) = 2x + 3"))
	require.NoError(t, err)
	s, err = s.Advance(3)
	require.NoError(t, err)
	s.TimeRemaining = 12

	cursor := s.ResetCursor()
	assert.Equal(t, 0, cursor.CurrentIndex)
	assert.Equal(t, 60, cursor.TimeRemaining)
	assert.Equal(t, 10, cursor.Score)
	assert.Equal(t, 1, cursor.Streak)
	assert.Len(t, cursor.CompletedIn("math"), 1)

	all := s.ResetAll()
	assert.Equal(t, 0, all.CurrentIndex)
	assert.Equal(t, 0, all.Score)
	assert.Equal(t, 0, all.Streak)
	assert.Empty(t, all.CompletedIn("math"))
}

func TestState_SwitchCategory(t *testing.T) {
	s := NewState("math", 60)
	s, _, err := s.Submit(mathQuestion(), strPtr("f'(x) = 2x + 3"))
	require.NoError(t, err)
	s, err = s.Advance(3)
	require.NoError(t, err)

	next := s.SwitchCategory("science")
	assert.Equal(t, "science", next.Category)
	assert.Equal(t, 0, next.CurrentIndex)
	assert.True(t, next.TimerActive)
	assert.Equal(t, 10, next.Score)
	assert.Equal(t, 1, next.Streak)
	assert.True(t, next.CompletedIn("math")["math-2"])
	assert.Empty(t, next.CompletedIn("science"))
}
