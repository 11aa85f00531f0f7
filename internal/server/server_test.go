package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreFailureRendersGenericError(t *testing.T) {
	app, db := newTestApp(t)
	cl := signedIn(t, app, "Alice", "a@x.com", "pw1")

	_, err := db.Exec(`DROP TABLE notes`)
	require.NoError(t, err)

	logs, _ := captureLogs(t, func() {
		status, body := cl.page("/")
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Contains(t, body, "Something went wrong. Please try again.")
		assert.NotContains(t, body, "no such table")
		assert.NotContains(t, body, "db error")
	})
	assert.True(t, hasAction(logs, "server.error"))

	status, _ := cl.page("/login")
	assert.NotEqual(t, http.StatusInternalServerError, status, "process keeps serving")
}

func TestUnknownRouteRendersNotFound(t *testing.T) {
	app, _ := newTestApp(t)
	status, body := newClient(t, app).page("/nope")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, body, "Page not found")
}

func TestHealthz(t *testing.T) {
	app, db := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var got map[string]bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.True(t, got["ok"])

	require.NoError(t, db.Close())
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestSecurityHeadersPresent(t *testing.T) {
	app, _ := newTestApp(t)
	resp := newClient(t, app).get("/login")
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.NotEmpty(t, resp.Header.Get("X-Frame-Options"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestOversizedBodyRejected(t *testing.T) {
	app, _ := newTestApp(t)
	cl := newClient(t, app)
	tok := cl.csrf()
	body := "csrf=" + tok + "&note=" + strings.Repeat("a", 2<<20)
	req := httptest.NewRequest(http.MethodPost, "/add_note", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req, -1)
	// fasthttp may drop the connection instead of answering; either way nothing is processed.
	if err != nil {
		t.Logf("rejected at transport: %v", err)
		return
	}
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}
