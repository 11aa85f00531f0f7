package handlers

import (
	"github.com/jmoiron/sqlx"

	"notesweb/internal/config"
	"notesweb/internal/repos"
	"notesweb/internal/services"
)

type Deps struct {
	Auth          *services.AuthService
	AuthHandler   *AuthHandler
	NoteHandler   *NoteHandler
	HealthHandler *HealthHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	userRepo := repos.NewUserRepo(db)
	sessionRepo := repos.NewSessionRepo(db)
	noteRepo := repos.NewNoteRepo(db)

	authSvc := services.NewAuthService(userRepo, sessionRepo, services.NewBcryptHasher(cfg.BcryptCost), cfg.SessionTTL)
	noteSvc := services.NewNoteService(noteRepo)

	return &Deps{
		Auth:          authSvc,
		AuthHandler:   &AuthHandler{Auth: authSvc},
		NoteHandler:   &NoteHandler{Notes: noteSvc},
		HealthHandler: &HealthHandler{DB: db},
	}
}
