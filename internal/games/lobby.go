package games

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/vntrieu/deception/internal/catalog"
)

var simPlayerNames = []string{
	"Alex", "Bao", "Chi", "Dana", "Erin", "Finn", "Gia", "Huy", "Iris", "Jo", "Kim",
}

// nextAvatarColor picks the first catalog color no seated player is using.
func nextAvatarColor(state *GameState) string {
	colors := catalog.AvatarColors()
	for _, c := range colors {
		taken := false
		for i := range state.Players {
			if state.Players[i].AvatarColor == c {
				taken = true
				break
			}
		}
		if !taken {
			return c
		}
	}
	return colors[0]
}

func (e *Engine) applyJoin(state *GameState, actorID string, payload map[string]interface{}) (*GameState, []Event, error) {
	if p := state.PlayerByID(actorID); p != nil {
		// Rejoin after a reconnect is a no-op at the state level.
		ev := Event{Event: "player_rejoined", Payload: map[string]interface{}{"player_id": actorID}}
		return state, []Event{ev}, nil
	}
	if state.Phase != PhaseLobby {
		return nil, nil, fmt.Errorf("game in progress; cannot join")
	}
	name, _ := payload["name"].(string)
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil, fmt.Errorf("payload must include name")
	}
	if len(state.Players) >= state.Settings.MaxPlayers {
		return nil, nil, fmt.Errorf("room is full")
	}
	if state.playerNameTaken(name) {
		return nil, nil, fmt.Errorf("display name already taken in this room")
	}
	next := state.Clone()
	p := Player{
		ID:          actorID,
		Name:        name,
		IsHost:      len(next.Players) == 0,
		AvatarColor: nextAvatarColor(next),
	}
	next.Players = append(next.Players, p)
	e.systemChat(next, fmt.Sprintf("%s joined the room.", p.Name))
	ev := Event{Event: "player_joined", Payload: map[string]interface{}{
		"player_id": p.ID, "name": p.Name,
	}}
	return next, []Event{ev}, nil
}

func (e *Engine) applyLeave(state *GameState, actorID string) (*GameState, []Event, error) {
	leaver := state.PlayerByID(actorID)
	next := state.Clone()
	out := next.Players[:0]
	for _, p := range next.Players {
		if p.ID != actorID {
			out = append(out, p)
		}
	}
	next.Players = out
	events := []Event{{Event: "player_left", Payload: map[string]interface{}{"player_id": actorID}}}
	e.systemChat(next, fmt.Sprintf("%s left the room.", leaver.Name))

	if leaver.IsHost && len(next.Players) > 0 {
		for i := range next.Players {
			if !next.Players[i].IsSim {
				next.Players[i].IsHost = true
				events = append(events, Event{Event: "host_changed", Payload: map[string]interface{}{
					"player_id": next.Players[i].ID,
				}})
				break
			}
		}
	}

	// A mid-game murderer walkout concedes the case to the police.
	if next.Phase != PhaseLobby && next.Phase != PhaseGameOver && leaver.Role == RoleMurderer {
		next.Phase = PhaseGameOver
		next.Winner = WinnerPolice
		next.WinReason = "murderer_left"
		e.systemChat(next, "The murderer has fled the room. The police win by default.")
		events = append(events, Event{Event: "game_ended", Payload: map[string]interface{}{
			"winner": next.Winner, "reason": next.WinReason,
		}})
	}
	return next, events, nil
}

func (e *Engine) applyUpdateSettings(state *GameState, actorID string, payload map[string]interface{}) (*GameState, []Event, error) {
	if !state.PlayerByID(actorID).IsHost {
		return nil, nil, fmt.Errorf("only the host can change settings")
	}
	next := state.Clone()
	s := &next.Settings
	if v, ok := intFromPayload(payload["max_players"]); ok {
		if v < e.cfg.MinPlayers || v > e.cfg.MaxPlayers {
			return nil, nil, fmt.Errorf("max_players must be in [%d,%d]", e.cfg.MinPlayers, e.cfg.MaxPlayers)
		}
		if v < len(next.Players) {
			return nil, nil, fmt.Errorf("max_players cannot drop below seated players (%d)", len(next.Players))
		}
		s.MaxPlayers = v
	}
	if v, ok := payload["include_accomplice"].(bool); ok {
		s.IncludeAccomplice = v
	}
	if v, ok := payload["include_witness"].(bool); ok {
		s.IncludeWitness = v
	}
	if v, ok := intFromPayload(payload["round_time_seconds"]); ok {
		if v < 60 || v > 900 {
			return nil, nil, fmt.Errorf("round_time_seconds must be in [60,900]")
		}
		s.RoundTimeSeconds = v
	}
	ev := Event{Event: "settings_updated", Payload: map[string]interface{}{"settings": *s}}
	return next, []Event{ev}, nil
}

func (e *Engine) applyAddSimPlayer(state *GameState, actorID string, _ map[string]interface{}) (*GameState, []Event, error) {
	if !state.PlayerByID(actorID).IsHost {
		return nil, nil, fmt.Errorf("only the host can add simulated players")
	}
	if len(state.Players) >= state.Settings.MaxPlayers {
		return nil, nil, fmt.Errorf("room is full")
	}
	next := state.Clone()
	name := simPlayerNames[e.rng.Intn(len(simPlayerNames))]
	for i := 2; next.playerNameTaken(name); i++ {
		name = fmt.Sprintf("%s %d", simPlayerNames[e.rng.Intn(len(simPlayerNames))], i)
	}
	p := Player{
		ID:          uuid.NewString(),
		Name:        name,
		AvatarColor: nextAvatarColor(next),
		IsSim:       true,
	}
	next.Players = append(next.Players, p)
	e.systemChat(next, fmt.Sprintf("%s joined the room.", p.Name))
	ev := Event{Event: "player_joined", Payload: map[string]interface{}{
		"player_id": p.ID, "name": p.Name, "is_sim": true,
	}}
	return next, []Event{ev}, nil
}

// applyKickPlayer lets the host remove a seat while the room is still in
// the lobby. Kicked players can rejoin under a new identity.
func (e *Engine) applyKickPlayer(state *GameState, actorID string, payload map[string]interface{}) (*GameState, []Event, error) {
	if !state.PlayerByID(actorID).IsHost {
		return nil, nil, fmt.Errorf("only the host can kick players")
	}
	targetID, _ := payload["player_id"].(string)
	if targetID == "" {
		return nil, nil, fmt.Errorf("payload must include player_id")
	}
	if targetID == actorID {
		return nil, nil, fmt.Errorf("the host cannot kick themselves")
	}
	target := state.PlayerByID(targetID)
	if target == nil {
		return nil, nil, fmt.Errorf("player %s not in room", targetID)
	}

	next := state.Clone()
	out := next.Players[:0]
	for _, p := range next.Players {
		if p.ID != targetID {
			out = append(out, p)
		}
	}
	next.Players = out
	e.systemChat(next, fmt.Sprintf("%s was removed from the room.", target.Name))
	ev := Event{Event: "player_kicked", Payload: map[string]interface{}{
		"player_id": targetID,
	}}
	return next, []Event{ev}, nil
}

func (s *GameState) playerNameTaken(name string) bool {
	for i := range s.Players {
		if s.Players[i].Name == name {
			return true
		}
	}
	return false
}

func (e *Engine) applySetAvatarColor(state *GameState, actorID string, payload map[string]interface{}) (*GameState, []Event, error) {
	color, _ := payload["color"].(string)
	if !catalog.IsAvatarColor(color) {
		return nil, nil, fmt.Errorf("unknown avatar color")
	}
	for i := range state.Players {
		if state.Players[i].AvatarColor == color && state.Players[i].ID != actorID {
			return nil, nil, fmt.Errorf("color already taken")
		}
	}
	next := state.Clone()
	next.PlayerByID(actorID).AvatarColor = color
	ev := Event{Event: "player_updated", Payload: map[string]interface{}{
		"player_id": actorID, "avatar_color": color,
	}}
	return next, []Event{ev}, nil
}

// applyPlayAgain resets a finished room back to the lobby with the same
// seats. The generation bump invalidates any narrative still in flight.
func (e *Engine) applyPlayAgain(state *GameState, actorID string) (*GameState, []Event, error) {
	if !state.PlayerByID(actorID).IsHost {
		return nil, nil, fmt.Errorf("only the host can start a new game")
	}
	next := state.Clone()
	next.Phase = PhaseLobby
	next.CurrentRound = 1
	next.SceneTiles = nil
	next.TileDeck = nil
	next.CauseOfDeath = NewSceneTile(catalog.CauseOfDeathTile())
	next.Solution = nil
	next.Night = nil
	next.Winner = ""
	next.WinReason = ""
	next.Narrative = ""
	next.TimeLeft = 0
	next.Generation++
	for i := range next.Players {
		next.Players[i].Role = ""
		next.Players[i].Hand = nil
		next.Players[i].HasBadge = false
		next.Players[i].IsSpeaking = false
	}
	e.systemChat(next, "The room is back in the lobby. Ready for another case.")
	ev := Event{Event: "returned_to_lobby", Payload: map[string]interface{}{"generation": next.Generation}}
	return next, []Event{ev}, nil
}
