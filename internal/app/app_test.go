package app

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-pg/pg/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniilsolovey/blog/config"
)

func newTestApp(t *testing.T) *App {
	t.Helper()

	// go-pg connects lazily, no server is needed for routes that skip the database
	conn := pg.Connect(&pg.Options{Addr: "localhost:1"})
	t.Cleanup(func() { _ = conn.Close() })

	var cfg config.Config
	cfg.App.LogQueries = true
	return New(cfg, conn, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestApp_Health(t *testing.T) {
	a := newTestApp(t)

	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestApp_RPC(t *testing.T) {
	a := newTestApp(t)

	body := `{"jsonrpc":"2.0","id":1,"method":"blog.likePost","params":{"id":0}}`
	req := httptest.NewRequest(http.MethodPost, rpcPath, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 400, resp.Error.Code)
	assert.Equal(t, "id must be positive", resp.Error.Message)
}
