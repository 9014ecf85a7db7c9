package practice

import (
	"math"

	"github.com/studyhub/backend/internal/models"
)

// Score returns the points awarded for an answer. Wrong answers and
// timeouts earn nothing regardless of difficulty.
func Score(difficulty models.Difficulty, correct bool) int {
	if !correct {
		return 0
	}
	switch difficulty {
	case models.DifficultyEasy:
		return 5
	case models.DifficultyMedium:
		return 10
	case models.DifficultyHard:
		return 15
	default:
		return 0
	}
}

// NextStreak extends the streak on a correct answer and breaks it otherwise.
func NextStreak(streak int, correct bool) int {
	if correct {
		return streak + 1
	}
	return 0
}

// CompletionPercent is the share of a category's questions that appear in
// completed, rounded to the nearest whole percent. Ids that do not belong to
// the category are ignored.
func CompletionPercent(completed map[string]bool, questions []models.Question) int {
	if len(questions) == 0 {
		return 0
	}
	done := 0
	for _, q := range questions {
		if completed[q.ID] {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(len(questions)) * 100))
}
