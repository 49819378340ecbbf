package games

// PhaseDef defines a phase: name and the player-issued action types it admits.
type PhaseDef struct {
	Name           string   `json:"name"`
	AllowedActions []string `json:"allowed_actions"`
}

// RulesConfig holds the phase table and the game's numeric constraints.
type RulesConfig struct {
	Phases     []PhaseDef `json:"phases"`
	MinPlayers int        `json:"min_players"`
	MaxPlayers int        `json:"max_players"`
	// TotalRounds is the number of investigation rounds before the police
	// run out of time (default 3).
	TotalRounds int `json:"total_rounds,omitempty"`
	// OvertimeSeconds is the grace window granted when the timer expires
	// and again when an accusation lands during overtime (default 30).
	OvertimeSeconds int `json:"overtime_seconds,omitempty"`
	// ReplacementDeckSize is how many topic tiles are dealt face down for
	// post-round replacement (default 14).
	ReplacementDeckSize int `json:"replacement_deck_size,omitempty"`
	// HandSize is how many cards of each type every non-scientist holds.
	HandSize int `json:"hand_size,omitempty"`
	// AccompliceMinPlayers and WitnessMinPlayers gate the optional roles.
	AccompliceMinPlayers int `json:"accomplice_min_players,omitempty"`
	WitnessMinPlayers    int `json:"witness_min_players,omitempty"`
}

// Phase names. Wire values match the snapshot schema clients consume.
const (
	PhaseLobby           = "LOBBY"
	PhaseRoleReveal      = "ROLE_REVEAL"
	PhaseNight           = "NIGHT_PHASE"
	PhaseInvestigation   = "INVESTIGATION"
	PhasePostRoundVoting = "POST_ROUND_VOTING"
	PhaseReplaceTile     = "REPLACE_TILE"
	PhaseGameOver        = "GAME_OVER"
)

// Player-issued action types, gated by the phase table.
const (
	ActionUpdateSettings = "update_settings"
	ActionAddSimPlayer   = "add_sim_player"
	ActionSetAvatarColor = "set_avatar_color"
	ActionStartGame      = "start_game"
	ActionAdvancePhase   = "advance_phase"
	ActionSelectCard     = "select_card"
	ActionConfirmMurder  = "confirm_murder"
	ActionPlaceBullet    = "place_bullet"
	ActionOpenAccusation = "open_accusation"
	ActionAccuse         = "accuse"
	ActionVotePass       = "vote_pass"
	ActionReplaceTile    = "replace_tile"
	ActionEvaluateClue   = "evaluate_clue"
	ActionKickPlayer     = "kick_player"
	ActionPlayAgain      = "play_again"
)

// Ungated action types: accepted in any phase (or system-originated).
const (
	ActionJoin        = "join"
	ActionLeave       = "leave"
	ActionChat        = "chat"
	ActionToggleMute  = "toggle_mute"
	ActionSetSpeaking = "set_speaking"

	ActionTick               = "tick"
	ActionApplyNarrative     = "apply_narrative"
	ActionBeginInvestigation = "begin_investigation"
)

// DeductionPhases is the phase table for the standard deduction game.
var DeductionPhases = []PhaseDef{
	{Name: PhaseLobby, AllowedActions: []string{
		ActionUpdateSettings, ActionAddSimPlayer, ActionSetAvatarColor,
		ActionKickPlayer, ActionStartGame,
	}},
	{Name: PhaseRoleReveal, AllowedActions: []string{ActionAdvancePhase}},
	{Name: PhaseNight, AllowedActions: []string{ActionSelectCard, ActionConfirmMurder}},
	{Name: PhaseInvestigation, AllowedActions: []string{
		ActionPlaceBullet, ActionOpenAccusation, ActionAccuse, ActionEvaluateClue,
		ActionAdvancePhase,
	}},
	{Name: PhasePostRoundVoting, AllowedActions: []string{
		ActionPlaceBullet, ActionOpenAccusation, ActionAccuse, ActionVotePass, ActionEvaluateClue,
	}},
	{Name: PhaseReplaceTile, AllowedActions: []string{ActionReplaceTile}},
	{Name: PhaseGameOver, AllowedActions: []string{ActionPlayAgain}},
}

// DefaultConfig returns the standard rules.
func DefaultConfig() RulesConfig {
	return RulesConfig{
		Phases:               DeductionPhases,
		MinPlayers:           4,
		MaxPlayers:           12,
		TotalRounds:          3,
		OvertimeSeconds:      30,
		ReplacementDeckSize:  14,
		HandSize:             4,
		AccompliceMinPlayers: 5,
		WitnessMinPlayers:    6,
	}
}

// DefaultRoomSettings returns the lobby defaults a new room starts with.
func DefaultRoomSettings() RoomSettings {
	return RoomSettings{
		MaxPlayers:        12,
		IncludeAccomplice: false,
		IncludeWitness:    false,
		RoundTimeSeconds:  300,
	}
}

// phaseDef returns the PhaseDef for name, or nil if unknown.
func (c RulesConfig) phaseDef(name string) *PhaseDef {
	for i := range c.Phases {
		if c.Phases[i].Name == name {
			return &c.Phases[i]
		}
	}
	return nil
}

// actionAllowed reports whether a player-issued action type is admitted in
// the given phase. Ungated actions are always admitted.
func (c RulesConfig) actionAllowed(phase, action string) bool {
	switch action {
	case ActionJoin, ActionLeave, ActionChat, ActionToggleMute, ActionSetSpeaking,
		ActionTick, ActionApplyNarrative, ActionBeginInvestigation:
		return true
	}
	def := c.phaseDef(phase)
	if def == nil {
		return false
	}
	for _, a := range def.AllowedActions {
		if a == action {
			return true
		}
	}
	return false
}
