package server

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"notesweb/internal/config"
	"notesweb/internal/http/handlers"
	applog "notesweb/internal/log"
	"notesweb/web"
)

const csrfCookie = "csrf_"

// Options tweaks the app for tests and alternative deployments.
type Options struct {
	AccessLog io.Writer
}

// cookieKey derives the AES-256 key for encrypted cookies from the session secret.
func cookieKey(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return base64.StdEncoding.EncodeToString(sum[:])
}

func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		return handlers.RenderError(c, fe.Code, http.StatusText(fe.Code))
	}
	applog.Error(c, "server.error", err, nil)
	return handlers.RenderError(c, fiber.StatusInternalServerError, "Something went wrong. Please try again.")
}

// New assembles the fiber app: views, middleware chain and routes.
func New(cfg config.Config, deps *handlers.Deps, opts Options) *fiber.App {
	engine := html.NewFileSystem(http.FS(web.Templates()), ".html")

	app := fiber.New(fiber.Config{
		Views:                 engine,
		BodyLimit:             cfg.BodyLimit,
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})

	accessLog := opts.AccessLog
	if accessLog == nil {
		accessLog = os.Stdout
	}

	// ---------- Middlewares ----------
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{Output: accessLog}))
	app.Use(helmet.New())
	app.Use(encryptcookie.New(encryptcookie.Config{
		Key:    cookieKey(cfg.SessionSecret),
		Except: []string{csrfCookie},
	}))
	app.Use(handlers.CookiePolicy(cfg.CookieSecure))
	app.Use(handlers.LoadUser(deps.Auth))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     csrfCookie,
		CookieSameSite: "Lax",
		CookieSecure:   cfg.CookieSecure,
		CookieHTTPOnly: true,
		ContextKey:     "csrf",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", map[string]any{"reason": err.Error()})
			return handlers.RenderError(c, fiber.StatusForbidden, "Security check failed. Please refresh and try again.")
		},
	}))

	// ---------- Routes ----------
	authH := deps.AuthHandler
	notesH := deps.NoteHandler
	requireUser := handlers.RequireUser()

	app.Get("/healthz", deps.HealthHandler.Check)

	app.Get("/register", authH.RegisterForm)
	app.Post("/register", authH.Register)
	app.Get("/login", authH.LoginForm)
	app.Post("/login", authH.Login)
	app.Get("/logout", requireUser, authH.Logout)
	app.Post("/logout", requireUser, authH.Logout)

	app.Get("/", requireUser, notesH.Index)
	app.Post("/add_note", requireUser, notesH.Add)
	app.Post("/edit_note", requireUser, notesH.Edit)
	app.Post("/delete_note/:note_id", requireUser, notesH.Delete)

	app.Use(func(c *fiber.Ctx) error {
		return handlers.RenderError(c, fiber.StatusNotFound, "Page not found")
	})

	return app
}
