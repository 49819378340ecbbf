package games

import (
	"strings"
	"time"

	"github.com/vntrieu/deception/internal/catalog"
)

// Role is a player's hidden assignment for the current game.
type Role string

const (
	RoleScientist    Role = "forensic_scientist"
	RoleMurderer     Role = "murderer"
	RoleInvestigator Role = "investigator"
	RoleAccomplice   Role = "accomplice"
	RoleWitness      Role = "witness"
	// RoleHidden is what a viewer sees when the disclosure policy masks a role.
	RoleHidden Role = "hidden"
)

// Winner values for a finished game.
const (
	WinnerPolice   = "POLICE"
	WinnerMurderer = "MURDERER"
)

// Win reasons attached alongside Winner.
const (
	WinReasonSolved    = "solved"
	WinReasonExhausted = "rounds_exhausted"
	WinReasonEscape    = "escape"
)

// Player is a seated participant. Role, Hand, and HasBadge are populated at
// game start; HasBadge only ever flips from true to false within a game.
type Player struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Role        Role           `json:"role,omitempty"`
	IsHost      bool           `json:"is_host"`
	Hand        []catalog.Card `json:"hand,omitempty"`
	HasBadge    bool           `json:"has_badge"`
	IsMuted     bool           `json:"is_muted"`
	IsSpeaking  bool           `json:"is_speaking"`
	AvatarColor string         `json:"avatar_color,omitempty"`
	// IsSim marks host-spawned simulated players (no real connection).
	IsSim bool `json:"is_sim,omitempty"`
}

// SceneTile is an active board tile: a catalog tile plus the scientist's
// bullet marker. SelectedOption is nil until a bullet is placed.
type SceneTile struct {
	ID             string                         `json:"id"`
	Name           string                         `json:"name"`
	Options        [catalog.OptionsPerTile]string `json:"options"`
	SelectedOption *int                           `json:"selected_option,omitempty"`
	IsNew          bool                           `json:"is_new,omitempty"`
}

// NewSceneTile builds an unsolved SceneTile from a catalog entry.
func NewSceneTile(t catalog.Tile) SceneTile {
	return SceneTile{ID: t.ID, Name: t.Name, Options: t.Options}
}

// Replaceable reports whether this tile may be swapped out during
// REPLACE_TILE: any topic tile, but never the cause of death or the location.
func (t SceneTile) Replaceable() bool {
	return t.ID != catalog.CauseOfDeathTileID && !strings.HasPrefix(t.ID, catalog.LocationTilePrefix)
}

// Solution is the murderer's confirmed pick, recorded exactly once per game.
// MurdererID is the id of the player whose hand held both cards; by rule this
// may be the accomplice rather than the murderer role-holder.
type Solution struct {
	MurdererID string `json:"murderer_id"`
	MeansID    string `json:"means_id"`
	EvidenceID string `json:"evidence_id"`
}

// NightSelection is the murderer's in-progress pick during NIGHT_PHASE:
// at most one card id per type, replaced on re-selection.
type NightSelection struct {
	MeansID    string `json:"means_id,omitempty"`
	EvidenceID string `json:"evidence_id,omitempty"`
}

// RoomSettings is host-configured while the room sits in LOBBY.
type RoomSettings struct {
	MaxPlayers        int  `json:"max_players"`
	IncludeAccomplice bool `json:"include_accomplice"`
	IncludeWitness    bool `json:"include_witness"`
	RoundTimeSeconds  int  `json:"round_time_seconds"`
}

// ChatMessage is one entry in the room chat log.
type ChatMessage struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Text       string    `json:"text"`
	Timestamp  time.Time `json:"timestamp"`
	IsSystem   bool      `json:"is_system,omitempty"`
}

// GameState is the root aggregate: the single source of truth for a room.
// The engine never mutates a GameState in place; every accepted action clones
// it, applies the change, and the new state is swapped in whole.
type GameState struct {
	RoomCode string       `json:"room_code"`
	Phase    string       `json:"phase"`
	Players  []Player     `json:"players"`
	Settings RoomSettings `json:"settings"`

	SceneTiles   []SceneTile `json:"scene_tiles,omitempty"`
	CauseOfDeath SceneTile   `json:"cause_of_death"`
	// TileDeck is the face-down replacement deck, masked from all views.
	TileDeck []SceneTile `json:"tile_deck,omitempty"`

	CurrentRound int             `json:"current_round"`
	Solution     *Solution       `json:"solution,omitempty"`
	Night        *NightSelection `json:"night,omitempty"`
	Winner       string          `json:"winner,omitempty"`
	WinReason    string          `json:"win_reason,omitempty"`

	Chat []ChatMessage `json:"chat,omitempty"`

	// TimeLeft is the countdown in seconds, meaningful only while Phase is
	// INVESTIGATION or POST_ROUND_VOTING.
	TimeLeft int `json:"time_left"`

	// Narrative is best-effort flavor text for the confirmed solution.
	Narrative string `json:"narrative,omitempty"`

	// Generation increments on every reset to LOBBY so stale asynchronous
	// patches (e.g. a narrative arriving after play_again) are discarded.
	Generation int `json:"generation"`
}

// NewLobbyState builds a fresh LOBBY aggregate for a room.
func NewLobbyState(roomCode string, settings RoomSettings) *GameState {
	return &GameState{
		RoomCode:     roomCode,
		Phase:        PhaseLobby,
		Settings:     settings,
		CauseOfDeath: NewSceneTile(catalog.CauseOfDeathTile()),
		CurrentRound: 1,
	}
}

// Clone deep-copies the aggregate: players (with hands), tiles, deck, chat,
// solution, and night selection are all fresh.
func (s *GameState) Clone() *GameState {
	if s == nil {
		return nil
	}
	out := *s
	out.Players = make([]Player, len(s.Players))
	for i, p := range s.Players {
		out.Players[i] = p
		if p.Hand != nil {
			out.Players[i].Hand = make([]catalog.Card, len(p.Hand))
			copy(out.Players[i].Hand, p.Hand)
		}
	}
	out.SceneTiles = cloneTiles(s.SceneTiles)
	out.TileDeck = cloneTiles(s.TileDeck)
	out.CauseOfDeath = cloneTile(s.CauseOfDeath)
	if s.Chat != nil {
		out.Chat = make([]ChatMessage, len(s.Chat))
		copy(out.Chat, s.Chat)
	}
	if s.Solution != nil {
		sol := *s.Solution
		out.Solution = &sol
	}
	if s.Night != nil {
		n := *s.Night
		out.Night = &n
	}
	return &out
}

func cloneTile(t SceneTile) SceneTile {
	out := t
	if t.SelectedOption != nil {
		v := *t.SelectedOption
		out.SelectedOption = &v
	}
	return out
}

func cloneTiles(tiles []SceneTile) []SceneTile {
	if tiles == nil {
		return nil
	}
	out := make([]SceneTile, len(tiles))
	for i, t := range tiles {
		out[i] = cloneTile(t)
	}
	return out
}

// PlayerByID returns a pointer into Players, or nil.
func (s *GameState) PlayerByID(id string) *Player {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return &s.Players[i]
		}
	}
	return nil
}

// PlayerByRole returns the first player holding role, or nil.
func (s *GameState) PlayerByRole(role Role) *Player {
	for i := range s.Players {
		if s.Players[i].Role == role {
			return &s.Players[i]
		}
	}
	return nil
}

// Host returns the room host, or nil.
func (s *GameState) Host() *Player {
	for i := range s.Players {
		if s.Players[i].IsHost {
			return &s.Players[i]
		}
	}
	return nil
}

// CardOwner returns the player whose hand contains cardID, or nil.
func (s *GameState) CardOwner(cardID string) *Player {
	for i := range s.Players {
		for _, c := range s.Players[i].Hand {
			if c.ID == cardID {
				return &s.Players[i]
			}
		}
	}
	return nil
}

// CardInHand returns the card with cardID from p's hand, or nil.
func CardInHand(p *Player, cardID string) *catalog.Card {
	if p == nil {
		return nil
	}
	for i := range p.Hand {
		if p.Hand[i].ID == cardID {
			return &p.Hand[i]
		}
	}
	return nil
}

// TileByID returns the active tile with the given id, including the
// cause-of-death tile, or nil.
func (s *GameState) TileByID(id string) *SceneTile {
	if id == catalog.CauseOfDeathTileID {
		return &s.CauseOfDeath
	}
	for i := range s.SceneTiles {
		if s.SceneTiles[i].ID == id {
			return &s.SceneTiles[i]
		}
	}
	return nil
}

// AllBulletsPlaced reports whether every active tile, including cause of
// death, carries a bullet marker.
func (s *GameState) AllBulletsPlaced() bool {
	if s.CauseOfDeath.SelectedOption == nil {
		return false
	}
	for i := range s.SceneTiles {
		if s.SceneTiles[i].SelectedOption == nil {
			return false
		}
	}
	return true
}
