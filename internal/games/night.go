package games

import (
	"fmt"

	"github.com/vntrieu/deception/internal/catalog"
)

// applySelectCard records the murderer's tentative pick. Selecting another
// card of the same type replaces the previous one.
func (e *Engine) applySelectCard(state *GameState, actorID string, payload map[string]interface{}) (*GameState, []Event, error) {
	if state.PlayerByID(actorID).Role != RoleMurderer {
		return nil, nil, fmt.Errorf("only the murderer acts at night")
	}
	cardID, _ := payload["card_id"].(string)
	if cardID == "" {
		return nil, nil, fmt.Errorf("payload must include card_id")
	}
	owner := state.CardOwner(cardID)
	if owner == nil {
		return nil, nil, fmt.Errorf("card %s is not in any hand", cardID)
	}
	card := CardInHand(owner, cardID)

	next := state.Clone()
	if next.Night == nil {
		next.Night = &NightSelection{}
	}
	switch card.Type {
	case catalog.CardTypeMeans:
		next.Night.MeansID = cardID
	case catalog.CardTypeEvidence:
		next.Night.EvidenceID = cardID
	default:
		return nil, nil, fmt.Errorf("unknown card type %q", card.Type)
	}

	payloadOut := map[string]interface{}{
		"card_id": cardID, "card_type": string(card.Type), "owner_id": owner.ID,
	}
	events := []Event{{Event: "card_selected", Payload: payloadOut, TargetID: actorID}}
	if acc := state.PlayerByRole(RoleAccomplice); acc != nil {
		events = append(events, Event{Event: "card_selected", Payload: payloadOut, TargetID: acc.ID})
	}
	return next, events, nil
}

// applyConfirmMurder locks in the solution. Both cards must sit in the same
// player's hand; that player is recorded as the killer even when it is the
// accomplice rather than the murderer role-holder.
func (e *Engine) applyConfirmMurder(state *GameState, actorID string) (*GameState, []Event, error) {
	if state.PlayerByID(actorID).Role != RoleMurderer {
		return nil, nil, fmt.Errorf("only the murderer acts at night")
	}
	if state.Night == nil || state.Night.MeansID == "" || state.Night.EvidenceID == "" {
		return nil, nil, fmt.Errorf("select one means and one evidence card first")
	}
	meansOwner := state.CardOwner(state.Night.MeansID)
	evidenceOwner := state.CardOwner(state.Night.EvidenceID)
	if meansOwner == nil || evidenceOwner == nil {
		return nil, nil, fmt.Errorf("selected cards are no longer in play")
	}
	if meansOwner.ID != evidenceOwner.ID {
		return nil, nil, fmt.Errorf("both cards must belong to the same player")
	}

	next := state.Clone()
	next.Solution = &Solution{
		MurdererID: meansOwner.ID,
		MeansID:    state.Night.MeansID,
		EvidenceID: state.Night.EvidenceID,
	}
	next.Night = nil
	e.systemChat(next, "The deed is done. The scene will be examined shortly.")
	ev := Event{Event: "murder_confirmed", Payload: map[string]interface{}{}}
	return next, []Event{ev}, nil
}

// applyBeginInvestigation opens the first round after the night resolves.
// The session layer issues it a beat after murder_confirmed so clients can
// play the reveal transition.
func (e *Engine) applyBeginInvestigation(state *GameState) (*GameState, []Event, error) {
	if state.Phase != PhaseNight {
		return nil, nil, fmt.Errorf("not in the night phase")
	}
	if state.Solution == nil {
		return nil, nil, fmt.Errorf("no confirmed solution yet")
	}
	next := state.Clone()
	next.Phase = PhaseInvestigation
	next.TimeLeft = next.Settings.RoundTimeSeconds
	e.systemChat(next, "Morning comes. The investigation begins.")
	ev := Event{Event: "phase_changed", Payload: map[string]interface{}{
		"phase": next.Phase, "round": next.CurrentRound, "time_left": next.TimeLeft,
	}}
	return next, []Event{ev}, nil
}
