package practice

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyhub/backend/internal/models"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	cats := c.Categories()
	require.Len(t, cats, 3)
	assert.Equal(t, "math", cats[0].Key)
	assert.Equal(t, "science", cats[1].Key)
	assert.Equal(t, "coding", cats[2].Key)

	counts := map[string]int{"math": 3, "science": 2, "coding": 2}
	for key, want := range counts {
		qs, err := c.QuestionsFor(key)
		require.NoError(t, err)
		assert.Len(t, qs, want, key)
	}

	q, err := c.QuestionAt("math", 0)
	require.NoError(t, err)
	assert.Equal(t, "x = 5", q.CorrectAnswer)
	assert.Equal(t, models.DifficultyEasy, q.Difficulty)

	assert.Equal(t, "algebraic equations", FocusArea(c, "math"))
	assert.Equal(t, "history", FocusArea(c, "history"))
}

func TestCatalog_QuestionAtErrors(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	_, err = c.QuestionAt("math", 3)
	assert.True(t, errors.Is(err, ErrOutOfRange))

	_, err = c.QuestionAt("math", -1)
	assert.True(t, errors.Is(err, ErrOutOfRange))

	_, err = c.QuestionAt("history", 0)
	assert.True(t, errors.Is(err, ErrUnknownCategory))

	_, err = c.QuestionsFor("history")
	assert.True(t, errors.Is(err, ErrUnknownCategory))
}

func TestCatalog_QuestionsForReturnsCopy(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	qs, err := c.QuestionsFor("science")
	require.NoError(t, err)
	qs[0].CorrectAnswer = "tampered"

	q, err := c.QuestionAt("science", 0)
	require.NoError(t, err)
	assert.Equal(t, "Nitrogen", q.CorrectAnswer)
}

func TestNewCatalog_Rejects(t *testing.T) {
	good := models.Question{ID: "q1", Prompt: "p", Options: []string{"a", "b"}, CorrectAnswer: "a", Difficulty: models.DifficultyEasy}

	bad := func(mut func(*models.Question)) models.Question {
		q := good
		q.Options = append([]string(nil), good.Options...)
		mut(&q)
		return q
	}

	tests := []struct {
		name string
		cats []models.Category
	}{
		{"no categories", nil},
		{"missing key", []models.Category{{Questions: []models.Question{good}}}},
		{"empty category", []models.Category{{Key: "x"}}},
		{"duplicate category", []models.Category{{Key: "x", Questions: []models.Question{good}}, {Key: "x", Questions: []models.Question{good}}}},
		{"duplicate id", []models.Category{{Key: "x", Questions: []models.Question{good, good}}}},
		{"one option", []models.Category{{Key: "x", Questions: []models.Question{bad(func(q *models.Question) { q.Options = []string{"a"} })}}}},
		{"duplicate option", []models.Category{{Key: "x", Questions: []models.Question{bad(func(q *models.Question) { q.Options = []string{"a", "a"} })}}}},
		{"answer not an option", []models.Category{{Key: "x", Questions: []models.Question{bad(func(q *models.Question) { q.CorrectAnswer = "c" })}}}},
		{"bad difficulty", []models.Category{{Key: "x", Questions: []models.Question{bad(func(q *models.Question) { q.Difficulty = "impossible" })}}}},
	}

	for _, tt := range tests {
		if _, err := NewCatalog(tt.cats); err == nil {
			t.Errorf("%s: expected error, got nil", tt.name)
		}
	}
}

func TestLoadCatalog(t *testing.T) {
	c, err := LoadCatalog("")
	require.NoError(t, err)
	assert.Len(t, c.Categories(), 3)

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := `categories:
  - key: history
    title: History
    questions:
      - id: h1
        question: "Year the Berlin Wall fell?"
        options: ["1989", "1991"]
        correct_answer: "1989"
        difficulty: medium
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	c, err = LoadCatalog(path)
	require.NoError(t, err)
	q, err := c.QuestionAt("history", 0)
	require.NoError(t, err)
	assert.Equal(t, "1989", q.CorrectAnswer)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
