package repos

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"notesweb/internal/domain"
)

type SessionRepo struct{ DB *sqlx.DB }

func NewSessionRepo(db *sqlx.DB) *SessionRepo { return &SessionRepo{DB: db} }

func (r *SessionRepo) Create(ctx context.Context, token, userID string, now, expires time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		r.DB.Rebind(`INSERT INTO sessions(id,user_id,created_at,expires_at) VALUES(?,?,?,?)`),
		token, userID, now.UTC(), expires.UTC())
	if err != nil {
		return dbError(err)
	}
	return nil
}

// UserIDByToken returns the user bound to a live session. Unknown and
// expired tokens come back as domain.ErrNotFound.
func (r *SessionRepo) UserIDByToken(ctx context.Context, token string, now time.Time) (string, error) {
	var userID string
	err := r.DB.GetContext(ctx, &userID,
		r.DB.Rebind(`SELECT user_id FROM sessions WHERE id=? AND expires_at>?`), token, now.UTC())
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", dbError(err)
	}
	return userID, nil
}

func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	if _, err := r.DB.ExecContext(ctx, r.DB.Rebind(`DELETE FROM sessions WHERE id=?`), token); err != nil {
		return dbError(err)
	}
	return nil
}

// DeleteExpired purges sessions whose expiry is at or before now.
func (r *SessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, r.DB.Rebind(`DELETE FROM sessions WHERE expires_at<=?`), now.UTC())
	if err != nil {
		return 0, dbError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, dbError(err)
	}
	return n, nil
}
