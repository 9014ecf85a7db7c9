package notes

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/studyhub/backend/internal/models"
)

// Store keeps study notes. Updating an id that does not exist is not an
// error: the note is returned as given and nothing changes.
type Store interface {
	List(ctx context.Context) ([]models.Note, error)
	Create(ctx context.Context, req models.CreateNoteRequest) (models.Note, error)
	Update(ctx context.Context, note models.Note) (models.Note, error)
}

// SeedNotes are the notes a fresh in-memory store starts with.
var SeedNotes = []models.Note{
	{ID: "1", Title: "Math Notes", Content: "# Algebra\n- Equations\n- Functions", Category: "Math"},
	{ID: "2", Title: "Science Notes", Content: "# Physics\n- Motion\n- Energy", Category: "Science"},
}

// ── In-memory ───────────────────────────────────────────

type MemoryStore struct {
	mu    sync.RWMutex
	notes []models.Note
}

func NewMemoryStore(seed ...models.Note) *MemoryStore {
	return &MemoryStore{notes: append([]models.Note(nil), seed...)}
}

func (s *MemoryStore) List(ctx context.Context) ([]models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Note{}, s.notes...), nil
}

func (s *MemoryStore) Create(ctx context.Context, req models.CreateNoteRequest) (models.Note, error) {
	note := models.Note{
		ID:       uuid.NewString(),
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
	}
	s.mu.Lock()
	s.notes = append(s.notes, note)
	s.mu.Unlock()
	return note, nil
}

func (s *MemoryStore) Update(ctx context.Context, note models.Note) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notes {
		if s.notes[i].ID == note.ID {
			s.notes[i] = note
		}
	}
	return note, nil
}

// ── Postgres ────────────────────────────────────────────

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) List(ctx context.Context) ([]models.Note, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, content, category FROM notes ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.Category); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

func (s *PostgresStore) Create(ctx context.Context, req models.CreateNoteRequest) (models.Note, error) {
	note := models.Note{
		ID:       uuid.NewString(),
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notes (id, title, content, category) VALUES ($1, $2, $3, $4)`,
		note.ID, note.Title, note.Content, note.Category,
	)
	if err != nil {
		return models.Note{}, fmt.Errorf("create note: %w", err)
	}
	return note, nil
}

func (s *PostgresStore) Update(ctx context.Context, note models.Note) (models.Note, error) {
	_, err := s.db.ExecContext(ctx,
		`UPDATE notes SET title = $1, content = $2, category = $3, updated_at = NOW() WHERE id = $4`,
		note.Title, note.Content, note.Category, note.ID,
	)
	if err != nil {
		return models.Note{}, fmt.Errorf("update note: %w", err)
	}
	return note, nil
}

// Seed inserts the notes that are not stored yet.
func (s *PostgresStore) Seed(ctx context.Context, notes []models.Note) error {
	for _, n := range notes {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO notes (id, title, content, category) VALUES ($1, $2, $3, $4)
			 ON CONFLICT (id) DO NOTHING`,
			n.ID, n.Title, n.Content, n.Category,
		)
		if err != nil {
			return fmt.Errorf("seed note %s: %w", n.ID, err)
		}
	}
	return nil
}
