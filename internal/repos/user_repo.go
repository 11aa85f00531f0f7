package repos

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"notesweb/internal/domain"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = `id,name,email,password_hash,created_at`

func (r *UserRepo) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.get(ctx, `SELECT `+userCols+` FROM users WHERE LOWER(email)=LOWER(?)`, email)
}

func (r *UserRepo) ByID(ctx context.Context, id string) (*domain.User, error) {
	return r.get(ctx, `SELECT `+userCols+` FROM users WHERE id=?`, id)
}

func (r *UserRepo) get(ctx context.Context, q string, arg string) (*domain.User, error) {
	var u domain.User
	err := r.DB.GetContext(ctx, &u, r.DB.Rebind(q), arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, dbError(err)
	}
	return &u, nil
}

// Create inserts a user. A clash on the email index is reported as
// domain.ErrEmailTaken so concurrent registrations cannot both succeed.
func (r *UserRepo) Create(ctx context.Context, name, email, hash string) (*domain.User, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		ID:        id.String(),
		Name:      name,
		Email:     email,
		Hash:      hash,
		CreatedAt: time.Now().UTC(),
	}
	_, err = r.DB.ExecContext(ctx,
		r.DB.Rebind(`INSERT INTO users(id,name,email,password_hash,created_at) VALUES(?,?,?,?,?)`),
		u.ID, u.Name, u.Email, u.Hash, u.CreatedAt)
	if isUniqueViolation(err) {
		return nil, domain.ErrEmailTaken
	}
	if err != nil {
		return nil, dbError(err)
	}
	return u, nil
}
