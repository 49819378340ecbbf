package websocket

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vntrieu/deception/internal/auth"
	"github.com/vntrieu/deception/internal/games"
	"github.com/vntrieu/deception/internal/ratelimit"
	"github.com/vntrieu/deception/internal/session"
	"github.com/vntrieu/deception/internal/store"
)

var testSecret = []byte("ws-handler-test-secret")

func newTestStack(t *testing.T, limiter ratelimit.Limiter) (*Hub, *WSHandler, *session.Manager) {
	t.Helper()
	hub := NewHub(nil)
	go hub.Run()
	manager := session.NewManager(store.NewRoomStore(nil), games.DefaultConfig(), hub, session.Options{})
	handler := NewWSHandler(hub, manager, testSecret, limiter, nil)
	return hub, handler, manager
}

// seatedRoom creates a room with one seated player and returns its code.
func seatedRoom(t *testing.T, manager *session.Manager, playerID string) string {
	t.Helper()
	room, runner, err := manager.CreateRoom()
	require.NoError(t, err)
	_, err = runner.Do(context.Background(), playerID, games.ActionJoin, map[string]interface{}{"name": "Alice"})
	require.NoError(t, err)
	return room.Code
}

func TestHandleMessageSyncState(t *testing.T) {
	hub, handler, manager := newTestStack(t, nil)
	code := seatedRoom(t, manager, "p1")

	client := fakeClient(hub, code, "p1")
	handler.HandleMessage(client, &ClientInMessage{Type: ClientMessageTypeSyncState, CorrelationID: "c-1"})

	env := recvEnvelope(t, client)
	require.Equal(t, ServerTypeState, env.Type)
	assert.Equal(t, "c-1", env.CorrelationID)
	state := env.Payload["state"].(*games.GameState)
	assert.Equal(t, code, state.RoomCode)
	assert.NotNil(t, state.PlayerByID("p1"))
}

func TestHandleMessageRejectedActionIsCorrelated(t *testing.T) {
	hub, handler, manager := newTestStack(t, nil)
	code := seatedRoom(t, manager, "p1")

	client := fakeClient(hub, code, "p1")
	// Starting with one player is below the minimum and must fail.
	handler.HandleMessage(client, &ClientInMessage{
		Type:          ClientMessageTypeAction,
		Action:        games.ActionStartGame,
		CorrelationID: "c-2",
	})

	env := recvEnvelope(t, client)
	assert.Equal(t, ServerTypeError, env.Type)
	assert.Equal(t, "c-2", env.CorrelationID)
	assert.NotEmpty(t, env.Payload["message"])
}

func TestHandleMessageUnknownType(t *testing.T) {
	hub, handler, manager := newTestStack(t, nil)
	code := seatedRoom(t, manager, "p1")

	client := fakeClient(hub, code, "p1")
	handler.HandleMessage(client, &ClientInMessage{Type: "definitely_not_a_type"})

	env := recvEnvelope(t, client)
	assert.Equal(t, ServerTypeError, env.Type)
}

func TestHandleMessageMissingAction(t *testing.T) {
	hub, handler, manager := newTestStack(t, nil)
	code := seatedRoom(t, manager, "p1")

	client := fakeClient(hub, code, "p1")
	handler.HandleMessage(client, &ClientInMessage{Type: ClientMessageTypeAction})

	env := recvEnvelope(t, client)
	assert.Equal(t, ServerTypeError, env.Type)
}

func TestHandleMessageRoomClosed(t *testing.T) {
	hub, handler, manager := newTestStack(t, nil)
	code := seatedRoom(t, manager, "p1")
	manager.CloseRoom(code)

	client := fakeClient(hub, code, "p1")
	handler.HandleMessage(client, &ClientInMessage{Type: ClientMessageTypeSyncState})

	env := recvEnvelope(t, client)
	assert.Equal(t, ServerTypeError, env.Type)
}

func TestChatIsRateLimited(t *testing.T) {
	hub, handler, manager := newTestStack(t, ratelimit.NewTokenBucket(1, time.Minute))
	code := seatedRoom(t, manager, "p1")

	client := fakeClient(hub, code, "p1")
	client.RateLimitKey = "10.0.0.1"

	handler.HandleMessage(client, &ClientInMessage{
		Type: ClientMessageTypeAction, Action: games.ActionChat,
		Payload: map[string]interface{}{"text": "first"},
	})
	handler.HandleMessage(client, &ClientInMessage{
		Type: ClientMessageTypeAction, Action: games.ActionChat,
		Payload: map[string]interface{}{"text": "second"}, CorrelationID: "c-3",
	})

	env := recvEnvelope(t, client)
	assert.Equal(t, ServerTypeError, env.Type)
	assert.Equal(t, "c-3", env.CorrelationID)

	runner, ok := manager.Runner(code)
	require.True(t, ok)
	state, err := runner.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, state.Chat, 1)
	assert.Equal(t, "first", state.Chat[0].Text)
}

func TestChatIsTrimmedToMaxLength(t *testing.T) {
	hub, handler, manager := newTestStack(t, nil)
	code := seatedRoom(t, manager, "p1")

	client := fakeClient(hub, code, "p1")
	handler.HandleMessage(client, &ClientInMessage{
		Type: ClientMessageTypeAction, Action: games.ActionChat,
		Payload: map[string]interface{}{"text": strings.Repeat("a", MaxChatMessageLength+50)},
	})

	runner, ok := manager.Runner(code)
	require.True(t, ok)
	state, err := runner.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, state.Chat, 1)
	assert.Len(t, state.Chat[0].Text, MaxChatMessageLength)
}

func TestRateLimitKeyFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.10:51234"
	assert.Equal(t, "192.0.2.10", rateLimitKeyFromRequest(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.7, 192.0.2.10")
	assert.Equal(t, "203.0.113.7", rateLimitKeyFromRequest(r))

	r.Header.Set("X-Real-IP", "198.51.100.3")
	assert.Equal(t, "198.51.100.3", rateLimitKeyFromRequest(r))
}

// wsURL converts an httptest server URL into a room websocket URL.
func wsURL(serverURL, code, token string) string {
	return "ws" + strings.TrimPrefix(serverURL, "http") + "/ws/rooms/" + code + "?token=" + token
}

// readEnvelopes reads one websocket frame and decodes every envelope in it
// (the write pump batches queued envelopes into a single frame).
func readEnvelopes(t *testing.T, conn *websocket.Conn) []ServerEnvelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var out []ServerEnvelope
	dec := json.NewDecoder(bytes.NewReader(data))
	for dec.More() {
		var env ServerEnvelope
		require.NoError(t, dec.Decode(&env))
		out = append(out, env)
	}
	return out
}

func TestRoomWebSocketEndToEnd(t *testing.T) {
	_, handler, manager := newTestStack(t, nil)
	code := seatedRoom(t, manager, "p1")

	router := chi.NewRouter()
	router.Get("/ws/rooms/{code}", handler.HandleRoomWebSocket)
	srv := httptest.NewServer(router)
	defer srv.Close()

	token, _, err := auth.GenerateToken(code, "p1", testSecret, time.Hour)
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv.URL, code, token), nil)
	require.NoError(t, err)
	defer conn.Close()

	// The initial personalized snapshot arrives without asking.
	envs := readEnvelopes(t, conn)
	require.NotEmpty(t, envs)
	require.Equal(t, ServerTypeState, envs[0].Type)
	stateJSON := envs[0].Payload["state"].(map[string]interface{})
	assert.Equal(t, code, stateJSON["room_code"])

	// A chat action comes back as a fresh state plus a chat_message event.
	require.NoError(t, conn.WriteJSON(&ClientInMessage{
		Type: ClientMessageTypeAction, Action: games.ActionChat,
		Payload: map[string]interface{}{"text": "hello room"},
	}))

	seen := map[string]bool{}
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) && (!seen[ServerTypeState] || !seen["chat_message"]) {
		for _, env := range readEnvelopes(t, conn) {
			seen[env.Type] = true
			seen[env.Event] = true
		}
	}
	assert.True(t, seen["chat_message"], "expected a chat_message event")
}

func TestRoomWebSocketRejectsBadAuth(t *testing.T) {
	_, handler, manager := newTestStack(t, nil)
	code := seatedRoom(t, manager, "p1")

	router := chi.NewRouter()
	router.Get("/ws/rooms/{code}", handler.HandleRoomWebSocket)
	srv := httptest.NewServer(router)
	defer srv.Close()

	cases := []struct {
		name  string
		code  string
		token func() string
		want  int
	}{
		{"missing token", code, func() string { return "" }, http.StatusUnauthorized},
		{"garbage token", code, func() string { return "not-a-token" }, http.StatusUnauthorized},
		{"wrong room", code, func() string {
			token, _, err := auth.GenerateToken("ZZZZZZ", "p1", testSecret, time.Hour)
			require.NoError(t, err)
			return token
		}, http.StatusUnauthorized},
		{"unknown room", "QQQQQQ", func() string {
			token, _, err := auth.GenerateToken("QQQQQQ", "p1", testSecret, time.Hour)
			require.NoError(t, err)
			return token
		}, http.StatusNotFound},
		{"player not seated", code, func() string {
			token, _, err := auth.GenerateToken(code, "ghost", testSecret, time.Hour)
			require.NoError(t, err)
			return token
		}, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv.URL, tc.code, tc.token()), nil)
			require.Error(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}
