package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"notesweb/internal/domain"
)

// NoteRepo scopes every query and mutation to the owning user.
type NoteRepo struct{ DB *sqlx.DB }

func NewNoteRepo(db *sqlx.DB) *NoteRepo { return &NoteRepo{DB: db} }

// ListByOwner returns the owner's notes, newest first.
func (r *NoteRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Note, error) {
	notes := []domain.Note{}
	err := r.DB.SelectContext(ctx, &notes, r.DB.Rebind(`
      SELECT id,user_id,content,tags,priority,created_at,updated_at
      FROM notes
      WHERE user_id=?
      ORDER BY created_at DESC, id DESC`), ownerID)
	if err != nil {
		return nil, dbError(err)
	}
	return notes, nil
}

func (r *NoteRepo) Create(ctx context.Context, ownerID, content string, tags domain.Tags, p domain.Priority) (*domain.Note, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = domain.Tags{}
	}
	now := time.Now().UTC()
	n := &domain.Note{
		ID:        id.String(),
		OwnerID:   ownerID,
		Content:   content,
		Tags:      tags,
		Priority:  p,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err = r.DB.ExecContext(ctx,
		r.DB.Rebind(`INSERT INTO notes(id,user_id,content,tags,priority,created_at,updated_at) VALUES(?,?,?,?,?,?,?)`),
		n.ID, n.OwnerID, n.Content, n.Tags, string(n.Priority), n.CreatedAt, n.UpdatedAt)
	if err != nil {
		return nil, dbError(err)
	}
	return n, nil
}

// Update replaces content, tags and priority of a note the owner holds.
// It reports false, with nothing written, when no such note exists for ownerID.
func (r *NoteRepo) Update(ctx context.Context, noteID, ownerID, content string, tags domain.Tags, p domain.Priority) (bool, error) {
	if tags == nil {
		tags = domain.Tags{}
	}
	res, err := r.DB.ExecContext(ctx,
		r.DB.Rebind(`UPDATE notes SET content=?,tags=?,priority=?,updated_at=? WHERE id=? AND user_id=?`),
		content, tags, string(p), time.Now().UTC(), noteID, ownerID)
	if err != nil {
		return false, dbError(err)
	}
	return affected(res)
}

// Delete removes a note the owner holds and reports whether one was removed.
func (r *NoteRepo) Delete(ctx context.Context, noteID, ownerID string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, r.DB.Rebind(`DELETE FROM notes WHERE id=? AND user_id=?`), noteID, ownerID)
	if err != nil {
		return false, dbError(err)
	}
	return affected(res)
}

type rowsAffecter interface{ RowsAffected() (int64, error) }

func affected(res rowsAffecter) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, dbError(err)
	}
	return n > 0, nil
}
