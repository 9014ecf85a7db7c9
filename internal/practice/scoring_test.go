package practice

import (
	"testing"

	"github.com/studyhub/backend/internal/models"
)

func TestScore(t *testing.T) {
	tests := []struct {
		difficulty models.Difficulty
		correct    bool
		want       int
	}{
		{models.DifficultyEasy, true, 5},
		{models.DifficultyMedium, true, 10},
		{models.DifficultyHard, true, 15},
		{models.DifficultyEasy, false, 0},
		{models.DifficultyMedium, false, 0},
		{models.DifficultyHard, false, 0},
		{models.Difficulty("legendary"), true, 0},
	}

	for _, tt := range tests {
		got := Score(tt.difficulty, tt.correct)
		if got != tt.want {
			t.Errorf("Score(%s, %v) = %d, want %d", tt.difficulty, tt.correct, got, tt.want)
		}
	}
}

func TestNextStreak(t *testing.T) {
	tests := []struct {
		streak  int
		correct bool
		want    int
	}{
		{0, true, 1},
		{4, true, 5},
		{99, true, 100},
		{4, false, 0},
		{0, false, 0},
	}

	for _, tt := range tests {
		got := NextStreak(tt.streak, tt.correct)
		if got != tt.want {
			t.Errorf("NextStreak(%d, %v) = %d, want %d", tt.streak, tt.correct, got, tt.want)
		}
	}
}

func TestCompletionPercent(t *testing.T) {
	three := []models.Question{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	tests := []struct {
		name      string
		completed map[string]bool
		questions []models.Question
		want      int
	}{
		{"none", nil, three, 0},
		{"one of three", map[string]bool{"a": true}, three, 33},
		{"two of three", map[string]bool{"a": true, "b": true}, three, 67},
		{"all", map[string]bool{"a": true, "b": true, "c": true}, three, 100},
		{"foreign ids ignored", map[string]bool{"a": true, "zz": true}, three, 33},
		{"empty category", map[string]bool{"a": true}, nil, 0},
	}

	for _, tt := range tests {
		got := CompletionPercent(tt.completed, tt.questions)
		if got != tt.want {
			t.Errorf("%s: CompletionPercent = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestResponseTimeRating(t *testing.T) {
	tests := []struct {
		remaining int
		want      string
	}{
		{60, "excellent"},
		{31, "excellent"},
		{30, "good"},
		{16, "good"},
		{15, "could be improved"},
		{0, "could be improved"},
	}

	for _, tt := range tests {
		got := ResponseTimeRating(tt.remaining)
		if got != tt.want {
			t.Errorf("ResponseTimeRating(%d) = %q, want %q", tt.remaining, got, tt.want)
		}
	}
}
