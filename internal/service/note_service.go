package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"notevault/internal/domain"
	"notevault/internal/repository"
)

// NoteService manages per-user notes. Ownership is enforced here: a note is
// only reachable through the id of the user that owns it.
type NoteService interface {
	Create(ctx context.Context, userID, text string) (*domain.Note, error)
	Get(ctx context.Context, userID, noteID string) (*domain.Note, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Note, error)
	ListAll(ctx context.Context) ([]domain.Note, error)
	Update(ctx context.Context, userID, noteID, text string) (*domain.Note, error)
	Delete(ctx context.Context, userID, noteID string) error
}

type noteService struct {
	notes repository.NoteRepository
}

func NewNoteService(notes repository.NoteRepository) NoteService {
	return &noteService{notes: notes}
}

func (s *noteService) Create(ctx context.Context, userID, text string) (*domain.Note, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: note text is required", ErrValidation)
	}

	note := &domain.Note{
		ID:     uuid.NewString(),
		Text:   text,
		UserID: userID,
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *noteService) Get(ctx context.Context, userID, noteID string) (*domain.Note, error) {
	return s.ownedNote(ctx, userID, noteID)
}

func (s *noteService) ListByUser(ctx context.Context, userID string) ([]domain.Note, error) {
	return s.notes.ListByUser(ctx, userID)
}

func (s *noteService) ListAll(ctx context.Context) ([]domain.Note, error) {
	return s.notes.ListAll(ctx)
}

func (s *noteService) Update(ctx context.Context, userID, noteID, text string) (*domain.Note, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: note text is required", ErrValidation)
	}

	note, err := s.ownedNote(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}

	note.Text = text
	if err := s.notes.Update(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *noteService) Delete(ctx context.Context, userID, noteID string) error {
	note, err := s.ownedNote(ctx, userID, noteID)
	if err != nil {
		return err
	}
	return s.notes.Delete(ctx, note.ID)
}

// ownedNote loads a note and hides it behind ErrNotFound when the requester
// is not the owner, so note ids don't leak across accounts.
func (s *noteService) ownedNote(ctx context.Context, userID, noteID string) (*domain.Note, error) {
	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if note.UserID != userID {
		return nil, ErrNotFound
	}
	return note, nil
}
