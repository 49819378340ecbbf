package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vntrieu/deception/internal/auth"
	"github.com/vntrieu/deception/internal/catalog"
	"github.com/vntrieu/deception/internal/games"
	"github.com/vntrieu/deception/internal/prefs"
	"github.com/vntrieu/deception/internal/session"
)

// Validation limits for room endpoints.
const (
	DisplayNameMinLen = 1
	DisplayNameMaxLen = 64
)

// roomCodePattern matches 6-char alphanumeric codes (same charset as the
// store's code generator: A-Z excluding I,O; 2-9).
var roomCodePattern = regexp.MustCompile(`^[A-Za-z0-9]{6}$`)

// CreateRoomRequest is the body for POST /api/rooms. Everything beyond the
// display name is optional; omitted fields fall back to the host profile
// stored in prefs.
type CreateRoomRequest struct {
	DisplayName string              `json:"display_name"`
	AvatarColor string              `json:"avatar_color,omitempty"`
	Settings    *games.RoomSettings `json:"settings,omitempty"`
}

// JoinRoomRequest is the body for POST /api/rooms/{code}/join.
type JoinRoomRequest struct {
	DisplayName string `json:"display_name"`
}

// RoomSessionResponse is returned by create and join: everything a client
// needs to open the room websocket.
type RoomSessionResponse struct {
	RoomCode    string           `json:"room_code"`
	PlayerID    string           `json:"player_id"`
	DisplayName string           `json:"display_name"`
	Token       string           `json:"token,omitempty"`
	ExpiresAt   *time.Time       `json:"expires_at,omitempty"`
	State       *games.GameState `json:"state"`
}

// GetRoomResponse is the unauthenticated room snapshot.
type GetRoomResponse struct {
	RoomCode    string           `json:"room_code"`
	Phase       string           `json:"phase"`
	PlayerCount int              `json:"player_count"`
	MaxPlayers  int              `json:"max_players"`
	State       *games.GameState `json:"state"`
}

// RoomHandler handles room-related HTTP requests.
type RoomHandler struct {
	manager     *session.Manager
	tokenSecret []byte
	prefs       *prefs.Store
}

// NewRoomHandler creates a new RoomHandler. If tokenSecret is non-empty,
// create/join responses include a WebSocket auth token. prefsStore holds
// the host profile used to fill in omitted create-room fields; nil
// disables it.
func NewRoomHandler(manager *session.Manager, tokenSecret []byte, prefsStore *prefs.Store) *RoomHandler {
	return &RoomHandler{manager: manager, tokenSecret: tokenSecret, prefs: prefsStore}
}

func validateDisplayName(displayName string) string {
	s := strings.TrimSpace(displayName)
	if len(s) < DisplayNameMinLen {
		return "display_name is required"
	}
	if len(s) > DisplayNameMaxLen {
		return fmt.Sprintf("display_name must be at most %d characters", DisplayNameMaxLen)
	}
	return ""
}

func validateRoomCode(code string) bool {
	return len(code) == 6 && roomCodePattern.MatchString(code)
}

// CreateRoom handles POST /api/rooms. The requester is seated as the host.
func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if req.DisplayName == "" && h.prefs != nil {
		req.DisplayName = h.prefs.DisplayName()
	}
	if msg := validateDisplayName(req.DisplayName); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	room, runner, err := h.manager.CreateRoom()
	if err != nil {
		zap.L().Error("create room failed",
			zap.String("request_id", requestID(r)), zap.Error(err))
		http.Error(w, "failed to create room", http.StatusInternalServerError)
		return
	}

	playerID := uuid.NewString()
	state, err := runner.Do(r.Context(), playerID, games.ActionJoin,
		map[string]interface{}{"name": req.DisplayName})
	if err != nil {
		zap.L().Error("seat host failed",
			zap.String("request_id", requestID(r)),
			zap.String("room", room.Code), zap.Error(err))
		h.manager.CloseRoom(room.Code)
		http.Error(w, "failed to create room", http.StatusInternalServerError)
		return
	}
	state = h.applyHostProfile(r, runner, playerID, req, state)

	resp := RoomSessionResponse{
		RoomCode:    room.Code,
		PlayerID:    playerID,
		DisplayName: req.DisplayName,
		State:       games.VisibleState(state, playerID),
	}
	if !h.attachToken(w, r, &resp) {
		return
	}
	writeJSON(w, r, http.StatusCreated, resp)
}

// applyHostProfile dresses the freshly seated host with the requested (or
// remembered) avatar color and lobby settings, then remembers the request's
// choices for the next room. All of it is cosmetic, so failures log and
// keep the seat.
func (h *RoomHandler) applyHostProfile(r *http.Request, runner *session.Runner, playerID string, req CreateRoomRequest, state *games.GameState) *games.GameState {
	color := req.AvatarColor
	if !catalog.IsAvatarColor(color) && h.prefs != nil {
		color = h.prefs.AvatarColor()
	}
	if catalog.IsAvatarColor(color) {
		next, err := runner.Do(r.Context(), playerID, games.ActionSetAvatarColor,
			map[string]interface{}{"color": color})
		if err != nil {
			zap.L().Warn("set host color failed",
				zap.String("request_id", requestID(r)), zap.Error(err))
		} else {
			state = next
		}
	}
	if req.Settings != nil {
		payload := map[string]interface{}{
			"include_accomplice": req.Settings.IncludeAccomplice,
			"include_witness":    req.Settings.IncludeWitness,
		}
		if req.Settings.MaxPlayers > 0 {
			payload["max_players"] = req.Settings.MaxPlayers
		}
		if req.Settings.RoundTimeSeconds > 0 {
			payload["round_time_seconds"] = req.Settings.RoundTimeSeconds
		}
		next, err := runner.Do(r.Context(), playerID, games.ActionUpdateSettings, payload)
		if err != nil {
			zap.L().Warn("apply host settings failed",
				zap.String("request_id", requestID(r)), zap.Error(err))
		} else {
			state = next
		}
	}

	if h.prefs != nil {
		var err error
		if err = h.prefs.SetDisplayName(req.DisplayName); err == nil {
			if catalog.IsAvatarColor(req.AvatarColor) {
				err = h.prefs.SetAvatarColor(req.AvatarColor)
			}
		}
		if err == nil && req.Settings != nil {
			err = h.prefs.SetRoomSettings(*req.Settings)
		}
		if err != nil {
			zap.L().Warn("persist host profile failed",
				zap.String("request_id", requestID(r)), zap.Error(err))
		}
	}
	return state
}

// JoinRoom handles POST /api/rooms/{code}/join.
func (h *RoomHandler) JoinRoom(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(chi.URLParam(r, "code"))
	if !validateRoomCode(code) {
		http.Error(w, "invalid room code format", http.StatusBadRequest)
		return
	}

	var req JoinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if msg := validateDisplayName(req.DisplayName); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}
	req.DisplayName = strings.TrimSpace(req.DisplayName)

	runner, ok := h.manager.Runner(code)
	if !ok {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	playerID := uuid.NewString()
	state, err := runner.Do(r.Context(), playerID, games.ActionJoin,
		map[string]interface{}{"name": req.DisplayName})
	if err != nil {
		msg := err.Error()
		switch {
		case strings.Contains(msg, "room is full"):
			http.Error(w, msg, http.StatusConflict)
		case strings.Contains(msg, "game in progress"):
			http.Error(w, msg, http.StatusConflict)
		case strings.Contains(msg, "already taken"):
			http.Error(w, msg, http.StatusConflict)
		default:
			http.Error(w, msg, http.StatusBadRequest)
		}
		return
	}

	resp := RoomSessionResponse{
		RoomCode:    code,
		PlayerID:    playerID,
		DisplayName: req.DisplayName,
		State:       games.VisibleState(state, playerID),
	}
	if !h.attachToken(w, r, &resp) {
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// GetRoom handles GET /api/rooms/{code}: a spectator view, no auth required.
func (h *RoomHandler) GetRoom(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(chi.URLParam(r, "code"))
	if !validateRoomCode(code) {
		http.Error(w, "invalid room code format", http.StatusBadRequest)
		return
	}

	runner, ok := h.manager.Runner(code)
	if !ok {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}
	state, err := runner.Snapshot(r.Context())
	if err != nil {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	writeJSON(w, r, http.StatusOK, GetRoomResponse{
		RoomCode:    code,
		Phase:       state.Phase,
		PlayerCount: len(state.Players),
		MaxPlayers:  state.Settings.MaxPlayers,
		State:       games.VisibleState(state, ""),
	})
}

// attachToken signs a websocket token into resp. Returns false after writing
// an error response.
func (h *RoomHandler) attachToken(w http.ResponseWriter, r *http.Request, resp *RoomSessionResponse) bool {
	if len(h.tokenSecret) == 0 {
		return true
	}
	token, expiresAt, err := auth.GenerateToken(resp.RoomCode, resp.PlayerID, h.tokenSecret, auth.DefaultTokenExpiry)
	if err != nil {
		zap.L().Error("generate token failed",
			zap.String("request_id", requestID(r)), zap.Error(err))
		http.Error(w, "failed to issue token", http.StatusInternalServerError)
		return false
	}
	resp.Token = token
	resp.ExpiresAt = &expiresAt
	return true
}
