package notes

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyhub/backend/internal/database"
	"github.com/studyhub/backend/internal/models"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(SeedNotes...)

	notes, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "Math Notes", notes[0].Title)

	created, err := s.Create(ctx, models.CreateNoteRequest{Title: "Coding", Content: "# Go", Category: "Coding"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.NotEqual(t, "1", created.ID)

	notes, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 3)
	assert.Equal(t, created, notes[2])

	updated, err := s.Update(ctx, models.Note{ID: "1", Title: "Algebra", Content: "x", Category: "Math"})
	require.NoError(t, err)
	assert.Equal(t, "Algebra", updated.Title)

	notes, err = s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Algebra", notes[0].Title)
}

func TestMemoryStore_UpdateUnknownID(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(SeedNotes...)

	ghost := models.Note{ID: "404", Title: "Ghost"}
	got, err := s.Update(ctx, ghost)
	require.NoError(t, err)
	assert.Equal(t, ghost, got)

	notes, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, SeedNotes, notes)
}

func TestMemoryStore_ListReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(SeedNotes...)

	notes, err := s.List(ctx)
	require.NoError(t, err)
	notes[0].Title = "mutated"

	again, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Math Notes", again[0].Title)
	assert.Equal(t, "Math Notes", SeedNotes[0].Title)
}

// Runs against a real database when STUDYHUB_TEST_DATABASE_URL is set.
func TestPostgresStore(t *testing.T) {
	url := os.Getenv("STUDYHUB_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("STUDYHUB_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	db, err := database.Connect(url, 2)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, database.Migrate(db))

	s := NewPostgresStore(db)
	require.NoError(t, s.Seed(ctx, SeedNotes))
	require.NoError(t, s.Seed(ctx, SeedNotes))

	created, err := s.Create(ctx, models.CreateNoteRequest{Title: "Chem", Content: "# Bonds", Category: "Science"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Exec(`DELETE FROM notes WHERE id = $1`, created.ID) })

	created.Title = "Chemistry"
	_, err = s.Update(ctx, created)
	require.NoError(t, err)

	notes, err := s.List(ctx)
	require.NoError(t, err)

	var found bool
	for _, n := range notes {
		if n.ID == created.ID {
			found = true
			assert.Equal(t, "Chemistry", n.Title)
		}
	}
	assert.True(t, found)
}
