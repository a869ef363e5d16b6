package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"notevault/internal/domain"
	"notevault/internal/repository"
)

const createNotesTable = `
CREATE TABLE IF NOT EXISTS notes (
	id TEXT PRIMARY KEY,
	note TEXT NOT NULL,
	user_id TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

const createNotesUserIndex = `
CREATE INDEX IF NOT EXISTS idx_notes_user_id ON notes (user_id);
`

type NoteRepository struct {
	db *sql.DB
}

func NewNoteRepository(db *sql.DB) repository.NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createNotesTable); err != nil {
		return fmt.Errorf("create notes table: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, createNotesUserIndex); err != nil {
		return fmt.Errorf("create notes index: %w", err)
	}
	return nil
}

func (r *NoteRepository) Create(ctx context.Context, note *domain.Note) error {
	now := time.Now().UTC()
	note.CreatedAt = now
	note.UpdatedAt = now

	if _, err := r.db.ExecContext(ctx, `
INSERT INTO notes (id, note, user_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)`,
		note.ID,
		note.Text,
		note.UserID,
		note.CreatedAt,
		note.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

func (r *NoteRepository) GetByID(ctx context.Context, id string) (*domain.Note, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, note, user_id, created_at, updated_at FROM notes WHERE id = ?`, id)
	return scanNote(row)
}

func (r *NoteRepository) ListByUser(ctx context.Context, userID string) ([]domain.Note, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, note, user_id, created_at, updated_at
FROM notes WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()
	return collectNotes(rows)
}

func (r *NoteRepository) ListAll(ctx context.Context) ([]domain.Note, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, note, user_id, created_at, updated_at FROM notes ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list all notes: %w", err)
	}
	defer rows.Close()
	return collectNotes(rows)
}

func (r *NoteRepository) Update(ctx context.Context, note *domain.Note) error {
	note.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
UPDATE notes SET note = ?, updated_at = ? WHERE id = ?`,
		note.Text, note.UpdatedAt, note.ID)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	return requireRow(res)
}

func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return requireRow(res)
}

func collectNotes(rows *sql.Rows) ([]domain.Note, error) {
	var notes []domain.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, *note)
	}
	return notes, rows.Err()
}

func scanNote(row interface {
	Scan(dest ...any) error
}) (*domain.Note, error) {
	var note domain.Note
	if err := row.Scan(
		&note.ID,
		&note.Text,
		&note.UserID,
		&note.CreatedAt,
		&note.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan note: %w", err)
	}
	return &note, nil
}
