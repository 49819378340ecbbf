package games

import "fmt"

// applyTick advances the countdown by one second. Outside the timed phases
// it is a no-op, so the session layer can tick unconditionally.
func (e *Engine) applyTick(state *GameState) (*GameState, []Event, error) {
	switch state.Phase {
	case PhaseInvestigation, PhasePostRoundVoting:
	default:
		return state, nil, nil
	}
	if state.TimeLeft <= 0 {
		return state, nil, nil
	}

	next := state.Clone()
	next.TimeLeft--
	events := []Event{{Event: "timer", Payload: map[string]interface{}{"time_left": next.TimeLeft}}}
	if next.TimeLeft > 0 {
		return next, events, nil
	}

	if next.Phase == PhaseInvestigation {
		// Discussion time is up; overtime opens the closing-arguments window.
		next.Phase = PhasePostRoundVoting
		next.TimeLeft = e.cfg.OvertimeSeconds
		e.systemChat(next, fmt.Sprintf("Time is up. %d seconds of overtime for final accusations.", e.cfg.OvertimeSeconds))
		events = append(events, Event{Event: "phase_changed", Payload: map[string]interface{}{
			"phase": next.Phase, "time_left": next.TimeLeft,
		}})
		return next, events, nil
	}

	evs, _ := e.endRound(next)
	return next, append(events, evs...), nil
}

// applyVotePass ends the current round early: any badge holder may call it
// during the voting window once discussion has run its course.
func (e *Engine) applyVotePass(state *GameState, actorID string) (*GameState, []Event, error) {
	actor := state.PlayerByID(actorID)
	if !actor.HasBadge {
		return nil, nil, fmt.Errorf("only badge holders can vote to pass")
	}
	next := state.Clone()
	next.TimeLeft = 0
	e.systemChat(next, fmt.Sprintf("%s votes to pass the round.", actor.Name))
	evs, _ := e.endRound(next)
	return next, evs, nil
}

// endRound mutates next in place: either the scientist gets to swap a tile
// for the coming round, or the case goes cold and the murderer wins.
func (e *Engine) endRound(next *GameState) ([]Event, bool) {
	if next.CurrentRound >= e.cfg.TotalRounds {
		e.finishGame(next, WinnerMurderer, WinReasonExhausted,
			"The investigation has run out of rounds. The murderer gets away with it.")
		return []Event{gameEndedEvent(next)}, true
	}
	next.Phase = PhaseReplaceTile
	next.TimeLeft = 0
	e.systemChat(next, "The round is over. The forensic scientist will replace a scene tile.")
	return []Event{{Event: "phase_changed", Payload: map[string]interface{}{
		"phase": next.Phase, "round": next.CurrentRound,
	}}}, false
}

// finishGame mutates next in place into the terminal state.
func (e *Engine) finishGame(next *GameState, winner, reason, chatLine string) {
	next.Phase = PhaseGameOver
	next.Winner = winner
	next.WinReason = reason
	next.TimeLeft = 0
	e.systemChat(next, chatLine)
}

func gameEndedEvent(next *GameState) Event {
	payload := map[string]interface{}{
		"winner": next.Winner,
		"reason": next.WinReason,
	}
	if next.Solution != nil {
		payload["solution"] = *next.Solution
	}
	if next.Narrative != "" {
		payload["narrative"] = next.Narrative
	}
	return Event{Event: "game_ended", Payload: payload}
}
