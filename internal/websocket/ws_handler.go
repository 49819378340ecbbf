package websocket

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/vntrieu/deception/internal/auth"
	"github.com/vntrieu/deception/internal/games"
	"github.com/vntrieu/deception/internal/ratelimit"
	"github.com/vntrieu/deception/internal/session"
)

const actionTimeout = 10 * time.Second

// WSHandler upgrades room websocket connections and routes inbound
// messages to the owning room runner.
type WSHandler struct {
	hub         *Hub
	manager     *session.Manager
	tokenSecret []byte
	chatLimiter ratelimit.Limiter
	log         *zap.Logger
}

// NewWSHandler creates a WSHandler and installs it as the hub's message
// handler. tokenSecret is used for room auth; if empty, connections are rejected.
func NewWSHandler(hub *Hub, manager *session.Manager, tokenSecret []byte, chatLimiter ratelimit.Limiter, logger *zap.Logger) *WSHandler {
	if chatLimiter == nil {
		chatLimiter = ratelimit.Noop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &WSHandler{
		hub:         hub,
		manager:     manager,
		tokenSecret: tokenSecret,
		chatLimiter: chatLimiter,
		log:         logger,
	}
	hub.SetHandler(h)
	return h
}

// rateLimitKeyFromRequest returns a key for rate limiting (e.g. client IP).
func rateLimitKeyFromRequest(r *http.Request) string {
	if x := strings.TrimSpace(r.Header.Get("X-Real-IP")); x != "" {
		return x
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if x := strings.TrimSpace(strings.Split(fwd, ",")[0]); x != "" {
			return x
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// tokenFromRequest reads the room token from the "token" query parameter or
// an Authorization: Bearer header.
func tokenFromRequest(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}
	const prefix = "Bearer "
	if v := r.Header.Get("Authorization"); strings.HasPrefix(v, prefix) {
		return strings.TrimSpace(v[len(prefix):])
	}
	return ""
}

// HandleRoomWebSocket handles GET /ws/rooms/{code} with token auth.
// Auth is always checked before upgrading so browsers get a proper HTTP
// status instead of a dropped socket.
func (h *WSHandler) HandleRoomWebSocket(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "code")))
	if code == "" {
		http.Error(w, "code is required", http.StatusBadRequest)
		return
	}
	token := tokenFromRequest(r)
	if token == "" || len(h.tokenSecret) == 0 {
		http.Error(w, "missing or invalid token", http.StatusUnauthorized)
		return
	}
	claims, err := auth.VerifyToken(token, h.tokenSecret)
	if err != nil {
		h.log.Debug("room ws token verification failed",
			zap.String("room", code), zap.Error(err))
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if claims.RoomCode != code {
		http.Error(w, "room does not match token", http.StatusUnauthorized)
		return
	}

	runner, ok := h.manager.Runner(code)
	if !ok {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}
	snapshot, err := runner.Snapshot(r.Context())
	if err != nil {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}
	player := snapshot.PlayerByID(claims.PlayerID)
	if player == nil {
		http.Error(w, "player not in room", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("room ws upgrade failed", zap.String("room", code), zap.Error(err))
		return
	}

	client := &Client{
		hub:          h.hub,
		conn:         conn,
		send:         make(chan *ServerEnvelope, 256),
		RoomCode:     code,
		PlayerID:     claims.PlayerID,
		DisplayName:  player.Name,
		RateLimitKey: rateLimitKeyFromRequest(r),
	}
	h.hub.register <- client

	go client.writePump()
	go client.readPump()

	// Personalized snapshot so the client renders without waiting for
	// the next room update.
	client.Send(&ServerEnvelope{
		Type:    ServerTypeState,
		Event:   ServerEventState,
		Payload: map[string]interface{}{"state": games.VisibleState(snapshot, claims.PlayerID)},
	})
}

// HandleMessage implements MessageHandler.
func (h *WSHandler) HandleMessage(client *Client, msg *ClientInMessage) {
	if len(msg.Type) > MaxClientMessageTypeLength || !ValidClientMessageTypes[msg.Type] {
		client.SendError("unknown message type")
		return
	}

	runner, ok := h.manager.Runner(client.RoomCode)
	if !ok {
		client.SendError("room closed")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()

	switch msg.Type {
	case ClientMessageTypeSyncState:
		state, err := runner.Snapshot(ctx)
		if err != nil {
			client.SendError("room closed")
			return
		}
		client.Send(&ServerEnvelope{
			Type:          ServerTypeState,
			Event:         ServerEventState,
			CorrelationID: msg.CorrelationID,
			Payload:       map[string]interface{}{"state": games.VisibleState(state, client.PlayerID)},
		})

	case ClientMessageTypeAction:
		if msg.Action == "" {
			h.sendActionError(client, msg.CorrelationID, "action is required")
			return
		}
		payload := msg.Payload
		if msg.Action == games.ActionChat {
			var ok bool
			if payload, ok = h.checkChat(client, msg); !ok {
				return
			}
		}
		if _, err := runner.Do(ctx, client.PlayerID, msg.Action, payload); err != nil {
			h.sendActionError(client, msg.CorrelationID, err.Error())
		}
	}
}

// checkChat rate limits and trims chat messages before they reach the engine.
func (h *WSHandler) checkChat(client *Client, msg *ClientInMessage) (map[string]interface{}, bool) {
	if allowed, _ := h.chatLimiter.Allow(client.RateLimitKey); !allowed {
		h.sendActionError(client, msg.CorrelationID, "too many messages, slow down")
		return nil, false
	}
	payload := msg.Payload
	if payload == nil {
		payload = map[string]interface{}{}
	}
	if text, ok := payload["text"].(string); ok && len(text) > MaxChatMessageLength {
		payload["text"] = text[:MaxChatMessageLength]
	}
	return payload, true
}

func (h *WSHandler) sendActionError(client *Client, correlationID, message string) {
	client.Send(&ServerEnvelope{
		Type:          ServerTypeError,
		CorrelationID: correlationID,
		Payload:       map[string]interface{}{"message": message},
	})
}
