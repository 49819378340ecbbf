package games

import (
	"fmt"

	"github.com/vntrieu/deception/internal/catalog"
)

// applyOpenAccusation announces that a badge holder is mounting a formal
// accusation. During overtime it also resets the clock so the accuser has
// the full window to present the case.
func (e *Engine) applyOpenAccusation(state *GameState, actorID string) (*GameState, []Event, error) {
	actor := state.PlayerByID(actorID)
	if actor.Role == RoleScientist {
		return nil, nil, fmt.Errorf("the forensic scientist cannot accuse")
	}
	if !actor.HasBadge {
		return nil, nil, fmt.Errorf("you have already used your badge")
	}

	ev := Event{Event: "accusation_opened", Payload: map[string]interface{}{
		"accuser_id": actorID,
	}}
	if state.Phase != PhasePostRoundVoting {
		return state, []Event{ev}, nil
	}
	next := state.Clone()
	next.TimeLeft = e.cfg.OvertimeSeconds
	ev.Payload["time_left"] = next.TimeLeft
	return next, []Event{ev}, nil
}

// applyAccuse resolves a formal accusation. The accuser's badge is spent win
// or lose: a correct full triple (player, means, evidence) closes the case
// for the police, a miss burns the badge and play continues.
func (e *Engine) applyAccuse(state *GameState, actorID string, payload map[string]interface{}) (*GameState, []Event, error) {
	actor := state.PlayerByID(actorID)
	if actor.Role == RoleScientist {
		return nil, nil, fmt.Errorf("the forensic scientist cannot accuse")
	}
	if !actor.HasBadge {
		return nil, nil, fmt.Errorf("you have already used your badge")
	}
	accusedID, _ := payload["accused_id"].(string)
	meansID, _ := payload["means_id"].(string)
	evidenceID, _ := payload["evidence_id"].(string)
	if accusedID == "" || meansID == "" || evidenceID == "" {
		return nil, nil, fmt.Errorf("payload must include accused_id, means_id and evidence_id")
	}
	accused := state.PlayerByID(accusedID)
	if accused == nil {
		return nil, nil, fmt.Errorf("accused player %s not in room", accusedID)
	}
	if accused.Role == RoleScientist {
		return nil, nil, fmt.Errorf("the forensic scientist cannot be accused")
	}
	meansCard := CardInHand(accused, meansID)
	evidenceCard := CardInHand(accused, evidenceID)
	if meansCard == nil || evidenceCard == nil {
		return nil, nil, fmt.Errorf("both cards must be in the accused player's hand")
	}
	if meansCard.Type != catalog.CardTypeMeans || evidenceCard.Type != catalog.CardTypeEvidence {
		return nil, nil, fmt.Errorf("accusation needs one means card and one evidence card")
	}
	if state.Solution == nil {
		return nil, nil, fmt.Errorf("no crime to solve yet")
	}

	next := state.Clone()
	next.PlayerByID(actorID).HasBadge = false
	e.systemChat(next, fmt.Sprintf("%s accuses %s: %s with %s.",
		actor.Name, accused.Name, meansCard.Name, evidenceCard.Name))

	events := []Event{{Event: "accusation_made", Payload: map[string]interface{}{
		"accuser_id":  actorID,
		"accused_id":  accusedID,
		"means_id":    meansID,
		"evidence_id": evidenceID,
	}}}

	sol := next.Solution
	if accusedID == sol.MurdererID && meansID == sol.MeansID && evidenceID == sol.EvidenceID {
		e.finishGame(next, WinnerPolice, WinReasonSolved,
			fmt.Sprintf("%s cracked the case. The police win.", actor.Name))
		return next, append(events, gameEndedEvent(next)), nil
	}

	e.systemChat(next, "The forensic scientist shakes their head. The accusation is wrong.")

	if !anyBadgeLeft(next) {
		e.finishGame(next, WinnerMurderer, WinReasonEscape,
			"Every badge has been spent. The murderer slips away.")
		return next, append(events, gameEndedEvent(next)), nil
	}

	// An accusation during overtime resets the clock for the next one.
	if next.Phase == PhasePostRoundVoting {
		next.TimeLeft = e.cfg.OvertimeSeconds
		events = append(events, Event{Event: "timer", Payload: map[string]interface{}{
			"time_left": next.TimeLeft,
		}})
	}
	return next, events, nil
}

func anyBadgeLeft(s *GameState) bool {
	for i := range s.Players {
		if s.Players[i].HasBadge {
			return true
		}
	}
	return false
}
