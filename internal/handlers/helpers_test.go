package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/itemsetgroup/internal/config"
	"github.com/localnerve/itemsetgroup/internal/middleware"
	"github.com/localnerve/itemsetgroup/internal/services"
	"github.com/localnerve/itemsetgroup/internal/testutil"
	"github.com/stretchr/testify/require"
)

const (
	hookToken     = "hook-secret"
	editorSession = "editor-session"
	readerSession = "reader-session"
)

var validator = services.StaticValidator{
	editorSession: {Authenticated: true, UserID: "e1", Roles: []string{"editor"}},
	readerSession: {Authenticated: true, UserID: "r1", Roles: []string{"reader"}},
}

type testServer struct {
	app *fiber.App
	svc *services.App
	fx  *testutil.Fixture
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{
		DBType:              "sqlite-pure",
		DBDatabase:          ":memory:",
		HookToken:           hookToken,
		FilesBaseURL:        "/files",
		PlaceholderURL:      "/static/img/placeholder.svg",
		ThumbnailSize:       800,
		SelectionMaxEntries: 12,
		EditorRoles:         []string{"admin", "editor"},
	}
	fx := testutil.NewFixture(t)
	svc, err := services.NewApp(cfg, fx.DB)
	require.NoError(t, err)
	return &testServer{
		app: NewServer(cfg, svc, validator, ServerOptions{}),
		svc: svc,
		fx:  fx,
	}
}

type request struct {
	method  string
	path    string
	session string
	headers map[string]string
	body    any
}

type response struct {
	status int
	header http.Header
	body   []byte
}

func (r response) decode(t *testing.T, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.body, v), string(r.body))
}

func (s *testServer) do(t *testing.T, r request) response {
	t.Helper()
	var body io.Reader
	if r.body != nil {
		raw, err := json.Marshal(r.body)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(r.method, r.path, body)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.session != "" {
		req.Header.Set("Cookie", middleware.SessionCookie+"="+r.session)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return response{status: resp.StatusCode, header: resp.Header, body: raw}
}

func (s *testServer) get(t *testing.T, path, session string) response {
	t.Helper()
	return s.do(t, request{method: fiber.MethodGet, path: path, session: session})
}

// errorBody is the JSON error envelope
type errorBody struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Ok      bool   `json:"ok"`
	Type    string `json:"type"`
}

