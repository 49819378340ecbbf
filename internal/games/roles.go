package games

import "fmt"

// rolesForGame returns the role multiset for n players under the given
// settings: one forensic scientist, one murderer, an accomplice and a
// witness when enabled and the table is big enough, investigators for the
// rest. The slice is in a fixed order; the caller shuffles seats, not roles.
func (e *Engine) rolesForGame(n int, settings RoomSettings) []Role {
	roles := []Role{RoleScientist, RoleMurderer}
	if settings.IncludeAccomplice && n >= e.cfg.AccompliceMinPlayers {
		roles = append(roles, RoleAccomplice)
	}
	if settings.IncludeWitness && n >= e.cfg.WitnessMinPlayers {
		roles = append(roles, RoleWitness)
	}
	for len(roles) < n {
		roles = append(roles, RoleInvestigator)
	}
	return roles
}

func (e *Engine) applyStartGame(state *GameState, actorID string) (*GameState, []Event, error) {
	if !state.PlayerByID(actorID).IsHost {
		return nil, nil, fmt.Errorf("only the host can start the game")
	}
	n := len(state.Players)
	if n < e.cfg.MinPlayers || n > e.cfg.MaxPlayers {
		return nil, nil, fmt.Errorf("player count %d not in range [%d,%d]", n, e.cfg.MinPlayers, e.cfg.MaxPlayers)
	}

	next := state.Clone()

	// Shuffle seat order for assignment only; the visible seating stays put.
	roles := e.rolesForGame(n, next.Settings)
	perm := e.rng.Perm(n)
	for i, role := range roles {
		next.Players[perm[i]].Role = role
	}
	for i := range next.Players {
		next.Players[i].HasBadge = next.Players[i].Role != RoleScientist
	}

	if err := e.dealHands(next); err != nil {
		return nil, nil, err
	}
	e.setupBoard(next)

	next.Phase = PhaseRoleReveal
	next.CurrentRound = 1
	next.Night = &NightSelection{}
	next.Solution = nil
	next.Winner = ""
	next.WinReason = ""
	next.Narrative = ""
	e.systemChat(next, "The game has started. Check your role.")

	ev := Event{Event: "game_started", Payload: map[string]interface{}{
		"phase": next.Phase, "player_count": n,
	}}
	return next, []Event{ev}, nil
}

// applyAdvancePhase drives the two voluntary phase transitions: the host
// moves the room from role reveal into the night phase once everyone has
// seen their card, and the forensic scientist closes the discussion early
// once every tile carries a marker.
func (e *Engine) applyAdvancePhase(state *GameState, actorID string) (*GameState, []Event, error) {
	switch state.Phase {
	case PhaseRoleReveal:
		if !state.PlayerByID(actorID).IsHost {
			return nil, nil, fmt.Errorf("only the host can advance the phase")
		}
		next := state.Clone()
		next.Phase = PhaseNight
		e.systemChat(next, "Night falls. Everyone close your eyes.")
		ev := Event{Event: "phase_changed", Payload: map[string]interface{}{"phase": next.Phase}}
		return next, []Event{ev}, nil

	case PhaseInvestigation:
		if state.PlayerByID(actorID).Role != RoleScientist {
			return nil, nil, fmt.Errorf("only the forensic scientist can close the round")
		}
		if !state.AllBulletsPlaced() {
			return nil, nil, fmt.Errorf("every scene tile needs a marker before the round can close")
		}
		next := state.Clone()
		next.Phase = PhasePostRoundVoting
		next.TimeLeft = e.cfg.OvertimeSeconds
		e.systemChat(next, fmt.Sprintf("The scene is fully marked. %d seconds of overtime for final accusations.", e.cfg.OvertimeSeconds))
		ev := Event{Event: "phase_changed", Payload: map[string]interface{}{
			"phase": next.Phase, "time_left": next.TimeLeft,
		}}
		return next, []Event{ev}, nil
	}
	return nil, nil, fmt.Errorf("phase %s cannot be advanced by hand", state.Phase)
}
