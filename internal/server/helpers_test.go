package server_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"notesweb/internal/config"
	"notesweb/internal/http/handlers"
	"notesweb/internal/repos"
	"notesweb/internal/server"
)

func testConfig() config.Config {
	return config.Config{
		Addr:          ":0",
		DBDriver:      config.DriverSQLite,
		DatabaseURL:   ":memory:",
		SessionSecret: "test-secret-0123456789",
		SessionTTL:    time.Hour,
		SessionSweep:  time.Hour,
		BcryptCost:    bcrypt.MinCost,
		BodyLimit:     1 << 20,
	}
}

func newTestApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()
	ctx := context.Background()
	db, err := repos.OpenDB(ctx, repos.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, repos.Migrate(ctx, db))
	t.Cleanup(func() { _ = db.Close() })

	cfg := testConfig()
	app := server.New(cfg, handlers.NewDeps(db, cfg), server.Options{AccessLog: io.Discard})
	return app, db
}

// client is a browser stand-in: it keeps cookies between requests.
type client struct {
	t   *testing.T
	app *fiber.App
	jar map[string]*http.Cookie
}

func newClient(t *testing.T, app *fiber.App) *client {
	return &client{t: t, app: app, jar: map[string]*http.Cookie{}}
}

func (cl *client) do(method, path string, form url.Values) *http.Response {
	cl.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range cl.jar {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	resp, err := cl.app.Test(req, -1)
	require.NoError(cl.t, err)
	for _, c := range resp.Cookies() {
		if c.MaxAge < 0 || (!c.Expires.IsZero() && c.Expires.Before(time.Now())) {
			delete(cl.jar, c.Name)
			continue
		}
		cl.jar[c.Name] = c
	}
	return resp
}

func (cl *client) get(path string) *http.Response { return cl.do(http.MethodGet, path, nil) }

func (cl *client) csrf() string {
	cl.t.Helper()
	if c, ok := cl.jar["csrf_"]; ok {
		return c.Value
	}
	cl.get("/login")
	c, ok := cl.jar["csrf_"]
	require.True(cl.t, ok, "csrf cookie missing")
	return c.Value
}

// post submits a form with the CSRF token attached.
func (cl *client) post(path string, form url.Values) *http.Response {
	cl.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	form.Set("csrf", cl.csrf())
	return cl.do(http.MethodPost, path, form)
}

func (cl *client) register(name, email, password string) *http.Response {
	return cl.post("/register", url.Values{"name": {name}, "email": {email}, "password": {password}})
}

func (cl *client) login(email, password string) *http.Response {
	return cl.post("/login", url.Values{"email": {email}, "password": {password}})
}

func (cl *client) page(path string) (int, string) {
	cl.t.Helper()
	resp := cl.get(path)
	b, err := io.ReadAll(resp.Body)
	require.NoError(cl.t, err)
	return resp.StatusCode, string(b)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func location(resp *http.Response) string { return resp.Header.Get("Location") }

func signedIn(t *testing.T, app *fiber.App, name, email, password string) *client {
	t.Helper()
	cl := newClient(t, app)
	require.Equal(t, "/login", location(cl.register(name, email, password)))
	require.Equal(t, "/", location(cl.login(email, password)))
	return cl
}
