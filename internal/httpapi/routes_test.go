package httpapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ExplorViz/vs-code-backend/internal/hub"
	"github.com/ExplorViz/vs-code-backend/internal/names"
	"github.com/ExplorViz/vs-code-backend/internal/relay"
	"github.com/ExplorViz/vs-code-backend/internal/session"
	"github.com/ExplorViz/vs-code-backend/internal/types"
	"github.com/ExplorViz/vs-code-backend/internal/ws"
)

func newTestServer(t *testing.T) (*httptest.Server, *hub.Hub, *session.Registry) {
	t.Helper()
	log := zaptest.NewLogger(t)
	h := hub.NewHub(context.Background(), log)
	namer := names.New()
	reg := session.NewRegistry(namer)
	router := relay.NewRouter(h, reg, namer, relay.Options{}, log)

	socket := ws.Handler(h, router, ws.Options{
		OriginPatterns: []string{"*"},
		MaxMessageSize: 1 << 20,
		PingInterval:   time.Minute,
		PingTimeout:    time.Second,
		OutboxSize:     8,
	}, log)

	srv := httptest.NewServer(SetupRoutes(Deps{
		Hub:      h,
		Registry: reg,
		Socket:   socket,
		BasePath: "/v2/ide/",
		Log:      log,
	}))
	t.Cleanup(func() {
		srv.Close()
		h.Close()
	})
	return srv, h, reg
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestHealthz(t *testing.T) {
	srv, _, _ := newTestServer(t)
	status, _ := get(t, srv.URL+"/healthz")
	assert.Equal(t, http.StatusOK, status)
}

func TestSessionInfoAndStats(t *testing.T) {
	srv, h, reg := newTestServer(t)

	out := make(chan types.ServerMessage, 1)
	h.Register("c1", out)
	h.Join("c1", "r1:frontend")
	reg.Upsert("u1", "c1")

	status, body := get(t, srv.URL+"/sessions/r1")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"sessionId":"r1","frontends":1,"ides":0,"exists":true}`, body)

	_, body = get(t, srv.URL+"/sessions/nope")
	assert.JSONEq(t, `{"sessionId":"nope","frontends":0,"ides":0,"exists":false}`, body)

	_, body = get(t, srv.URL+"/stats")
	assert.JSONEq(t, `{"connections":1,"bindings":1}`, body)
}

func TestUserInfo(t *testing.T) {
	srv, _, reg := newTestServer(t)
	b, _ := reg.Upsert("u1", "c1")

	status, body := get(t, srv.URL+"/users/u1")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"userId":"u1","room":"`+b.SessionID+`","socketId":"c1"}`, body)

	status, _ = get(t, srv.URL+"/users/ghost")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSocketEndpoint_BothPathForms(t *testing.T) {
	srv, h, _ := newTestServer(t)
	base := "ws" + strings.TrimPrefix(srv.URL, "http")

	for _, path := range []string{"/v2/ide/", "/v2/ide"} {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		c, _, err := websocket.Dial(ctx, base+path, nil)
		cancel()
		require.NoError(t, err, path)
		t.Cleanup(func() { _ = c.CloseNow() })
	}

	require.Eventually(t, func() bool { return h.Stats().Connections == 2 }, 2*time.Second, 10*time.Millisecond)
}
