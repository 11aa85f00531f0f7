package services

import (
	"context"

	"notesweb/internal/domain"
)

type NoteStore interface {
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Note, error)
	Create(ctx context.Context, ownerID, content string, tags domain.Tags, p domain.Priority) (*domain.Note, error)
	Update(ctx context.Context, noteID, ownerID, content string, tags domain.Tags, p domain.Priority) (bool, error)
	Delete(ctx context.Context, noteID, ownerID string) (bool, error)
}

// NoteService turns the store's boolean outcomes into domain errors.
type NoteService struct {
	Notes NoteStore
}

func NewNoteService(notes NoteStore) *NoteService { return &NoteService{Notes: notes} }

func (s *NoteService) List(ctx context.Context, ownerID string) ([]domain.Note, error) {
	return s.Notes.ListByOwner(ctx, ownerID)
}

func (s *NoteService) Add(ctx context.Context, ownerID, content string, tags domain.Tags, p domain.Priority) (*domain.Note, error) {
	if content == "" {
		return nil, domain.ErrValidation
	}
	return s.Notes.Create(ctx, ownerID, content, tags, p)
}

// Edit fully replaces a note. A note that is missing or owned by someone
// else is domain.ErrNotFound either way.
func (s *NoteService) Edit(ctx context.Context, noteID, ownerID, content string, tags domain.Tags, p domain.Priority) error {
	if content == "" {
		return domain.ErrValidation
	}
	ok, err := s.Notes.Update(ctx, noteID, ownerID, content, tags, p)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

func (s *NoteService) Remove(ctx context.Context, noteID, ownerID string) error {
	ok, err := s.Notes.Delete(ctx, noteID, ownerID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}
