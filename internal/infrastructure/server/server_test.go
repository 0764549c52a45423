package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/GriffinCanCode/windowscene/internal/domain/window"
	scenegrpc "github.com/GriffinCanCode/windowscene/internal/grpc"
	"github.com/GriffinCanCode/windowscene/internal/infrastructure/config"
	"github.com/GriffinCanCode/windowscene/internal/infrastructure/logging"
	"github.com/GriffinCanCode/windowscene/internal/shared/types"
	"github.com/GriffinCanCode/windowscene/internal/testutil"
)

const ability = testutil.NamedAbility("com.example.app")

func newServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	srv, err := New(cfg, &logging.Logger{Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })
	return srv
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestNewRejectsMissingLayout(t *testing.T) {
	cfg := config.Default()
	cfg.LayoutFile = filepath.Join(t.TempDir(), "missing.toml")

	_, err := New(cfg, nil)
	assert.Error(t, err)
}

func TestDebugRoutes(t *testing.T) {
	srv := newServer(t, config.Default())
	router := srv.Router()

	w := do(t, router, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var health map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, float64(0), health["sessions"])
	assert.Equal(t, "phone", health["ui_type"])

	w = do(t, router, http.MethodGet, "/displays", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"default_id":0`)

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"bad id", http.MethodGet, "/sessions/abc", http.StatusBadRequest},
		{"zero id", http.MethodGet, "/sessions/0", http.StatusBadRequest},
		{"unknown session", http.MethodGet, "/sessions/9", http.StatusNotFound},
		{"back to unknown session", http.MethodPost, "/sessions/9/back", http.StatusNotFound},
		{"malformed rect", http.MethodPost, "/sessions/9/rect", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body any
			if tt.path == "/sessions/9/rect" {
				body = "not an object"
			}
			assert.Equal(t, tt.want, do(t, router, tt.method, tt.path, body).Code)
		})
	}

	w = do(t, router, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "windowscene_http_requests_total")
}

// startStack serves the debug router and the session host on loopback
// listeners and connects a client to the host.
func startStack(t *testing.T) (*Server, *scenegrpc.Conn) {
	t.Helper()

	webLis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	cfg := config.Default()
	cfg.Debug.Address = webLis.Addr().String()
	srv := newServer(t, cfg)

	web := httptest.NewUnstartedServer(srv.Router())
	_ = web.Listener.Close()
	web.Listener = webLis
	web.Start()
	t.Cleanup(web.Close)

	rpcLis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ServeRPC(ctx, rpcLis) }()
	t.Cleanup(func() {
		cancel()
		assert.ErrorIs(t, <-done, context.Canceled)
	})

	conn, err := scenegrpc.Dial(rpcLis.Addr().String(), scenegrpc.Options{Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return srv, conn
}

func TestEventsPushedOverWebsocketChannel(t *testing.T) {
	ctx := context.Background()
	srv, conn := startStack(t)

	s := testutil.CreateTestSession(t, window.Option{Name: "main", Rect: types.Rect{Width: 600, Height: 800}}, window.Deps{
		Registry:       window.NewRegistry(),
		SessionManager: conn.Manager(),
		Channels:       srv.Hub(),
	})
	ui := testutil.NewMockUIContent(t)
	require.NoError(t, s.SetUIContent(ui))
	require.NoError(t, s.Create(ctx, ability, conn.NewSession()))
	require.NoError(t, s.Show(ctx, 0, false))

	router := srv.Router()
	w := do(t, router, http.MethodGet, "/sessions/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var info scenegrpc.SessionInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "main", info.Name)
	assert.True(t, info.Foreground)

	rect := types.Rect{X: 10, Y: 20, Width: 500, Height: 700}
	w = do(t, router, http.MethodPost, "/sessions/1/rect", rectRequest{Rect: rect, Reason: types.ReasonRotation})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, rect, s.GetRect())
	ui.AssertCalled(t, "UpdateViewportConfig", rect, types.ReasonRotation)

	w = do(t, router, http.MethodPost, "/sessions/1/focus", focusRequest{Focused: true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, s.IsFocused())

	w = do(t, router, http.MethodPost, "/sessions/1/key", keyRequest{KeyCode: 7, Action: 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"consumed":false`)

	require.NoError(t, s.Destroy(ctx, false, false))
	w = do(t, router, http.MethodPost, "/sessions/1/back", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}
