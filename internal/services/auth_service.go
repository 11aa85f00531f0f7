package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"notesweb/internal/domain"
	applog "notesweb/internal/log"
)

type UserStore interface {
	ByEmail(ctx context.Context, email string) (*domain.User, error)
	ByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, name, email, hash string) (*domain.User, error)
}

type SessionStore interface {
	Create(ctx context.Context, token, userID string, now, expires time.Time) error
	UserIDByToken(ctx context.Context, token string, now time.Time) (string, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type AuthService struct {
	Users    UserStore
	Sessions SessionStore
	Hasher   PasswordHasher
	TTL      time.Duration
	Now      func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(users UserStore, sessions SessionStore, hasher PasswordHasher, ttl time.Duration) *AuthService {
	return &AuthService{Users: users, Sessions: sessions, Hasher: hasher, TTL: ttl, Now: time.Now}
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Register creates an account after checking the email is unused. The
// store's unique index still catches a concurrent registration that slips
// past the check; both paths return domain.ErrEmailTaken.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	_, err := s.Users.ByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domain.ErrEmailTaken
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}
	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return s.Users.Create(ctx, name, email, hash)
}

// Login verifies credentials and opens a new session. Unknown email and
// wrong password both yield domain.ErrBadCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	u, err := s.Users.ByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		// Burn the same bcrypt work so response time does not reveal the miss.
		s.Hasher.Verify(password, s.fakeHash())
		return "", nil, domain.ErrBadCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if !s.Hasher.Verify(password, u.Hash) {
		return "", nil, domain.ErrBadCredentials
	}
	token := uuid.NewString()
	now := s.now()
	if err := s.Sessions.Create(ctx, token, u.ID, now, now.Add(s.TTL)); err != nil {
		return "", nil, err
	}
	return token, u, nil
}

func (s *AuthService) fakeHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.Hasher.Hash(uuid.NewString())
	})
	return s.dummyHash
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	if _, err := uuid.Parse(token); err != nil {
		return nil
	}
	return s.Sessions.Delete(ctx, token)
}

// ResolveIdentity maps a session token to its user. Anything short of a
// live session for an existing user is anonymous.
func (s *AuthService) ResolveIdentity(ctx context.Context, token string) (*domain.User, bool) {
	if _, err := uuid.Parse(token); err != nil {
		return nil, false
	}
	userID, err := s.Sessions.UserIDByToken(ctx, token, s.now())
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			applog.Error(nil, "auth.session.lookup", err, nil)
		}
		return nil, false
	}
	u, err := s.Users.ByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			applog.Error(nil, "auth.user.lookup", err, nil)
		}
		return nil, false
	}
	return u, true
}

func (s *AuthService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.Sessions.DeleteExpired(ctx, s.now())
}

// RunSweeper purges expired sessions every interval until ctx is done.
func (s *AuthService) RunSweeper(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := s.PurgeExpired(ctx)
			if err != nil {
				if ctx.Err() == nil {
					applog.Error(nil, "session.sweep", err, nil)
				}
				continue
			}
			if n > 0 {
				applog.Info(nil, "session.sweep", map[string]any{"removed": n})
			}
		}
	}
}
