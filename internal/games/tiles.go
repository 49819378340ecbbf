package games

import (
	"fmt"

	"github.com/vntrieu/deception/internal/catalog"
)

const activeTopicTiles = 4

// setupBoard lays out the scene: one random location, four topic tiles, the
// cause-of-death tile, and the face-down replacement deck.
func (e *Engine) setupBoard(next *GameState) {
	locations := catalog.LocationTiles()
	loc := locations[e.rng.Intn(len(locations))]

	topics := catalog.TopicTiles()
	e.rng.Shuffle(len(topics), func(i, j int) { topics[i], topics[j] = topics[j], topics[i] })

	next.SceneTiles = make([]SceneTile, 0, 1+activeTopicTiles)
	next.SceneTiles = append(next.SceneTiles, NewSceneTile(loc))
	for _, t := range topics[:activeTopicTiles] {
		next.SceneTiles = append(next.SceneTiles, NewSceneTile(t))
	}

	deckSize := e.cfg.ReplacementDeckSize
	if deckSize > len(topics)-activeTopicTiles {
		deckSize = len(topics) - activeTopicTiles
	}
	next.TileDeck = make([]SceneTile, 0, deckSize)
	for _, t := range topics[activeTopicTiles : activeTopicTiles+deckSize] {
		next.TileDeck = append(next.TileDeck, NewSceneTile(t))
	}

	next.CauseOfDeath = NewSceneTile(catalog.CauseOfDeathTile())
}

// applyPlaceBullet sets the scientist's marker on a tile option. Re-placing
// the same marker is a no-op so retried messages don't spam the chat.
func (e *Engine) applyPlaceBullet(state *GameState, actorID string, payload map[string]interface{}) (*GameState, []Event, error) {
	if state.PlayerByID(actorID).Role != RoleScientist {
		return nil, nil, fmt.Errorf("only the forensic scientist can place markers")
	}
	tileID, _ := payload["tile_id"].(string)
	optionIndex, ok := intFromPayload(payload["option_index"])
	if tileID == "" || !ok {
		return nil, nil, fmt.Errorf("payload must include tile_id and option_index")
	}
	if optionIndex < 0 || optionIndex >= catalog.OptionsPerTile {
		return nil, nil, fmt.Errorf("option_index out of range")
	}
	tile := state.TileByID(tileID)
	if tile == nil {
		return nil, nil, fmt.Errorf("tile %s not on the board", tileID)
	}
	if tile.SelectedOption != nil && *tile.SelectedOption == optionIndex {
		return state, nil, nil
	}

	next := state.Clone()
	t := next.TileByID(tileID)
	t.SelectedOption = &optionIndex
	e.systemChat(next, fmt.Sprintf("The forensic scientist points to %s: %s", t.Name, t.Options[optionIndex]))
	ev := Event{Event: "bullet_placed", Payload: map[string]interface{}{
		"tile_id": tileID, "option_index": optionIndex,
		"all_placed": next.AllBulletsPlaced(),
	}}
	return next, []Event{ev}, nil
}

// applyReplaceTile swaps one topic tile for the top of the replacement deck
// and opens the next round.
func (e *Engine) applyReplaceTile(state *GameState, actorID string, payload map[string]interface{}) (*GameState, []Event, error) {
	if state.PlayerByID(actorID).Role != RoleScientist {
		return nil, nil, fmt.Errorf("only the forensic scientist can replace tiles")
	}
	tileID, _ := payload["tile_id"].(string)
	if tileID == "" {
		return nil, nil, fmt.Errorf("payload must include tile_id")
	}
	if len(state.TileDeck) == 0 {
		return nil, nil, fmt.Errorf("replacement deck is empty")
	}

	next := state.Clone()
	idx := -1
	for i := range next.SceneTiles {
		if next.SceneTiles[i].ID == tileID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, nil, fmt.Errorf("tile %s not on the board", tileID)
	}
	if !next.SceneTiles[idx].Replaceable() {
		return nil, nil, fmt.Errorf("tile %s cannot be replaced", tileID)
	}

	incoming := next.TileDeck[0]
	next.TileDeck = next.TileDeck[1:]
	for i := range next.SceneTiles {
		next.SceneTiles[i].IsNew = false
	}
	incoming.IsNew = true
	incoming.SelectedOption = nil
	replaced := next.SceneTiles[idx]
	next.SceneTiles[idx] = incoming

	next.CurrentRound++
	next.Phase = PhaseInvestigation
	next.TimeLeft = next.Settings.RoundTimeSeconds
	e.systemChat(next, fmt.Sprintf("Round %d begins. %q replaces %q.", next.CurrentRound, incoming.Name, replaced.Name))

	ev := Event{Event: "tile_replaced", Payload: map[string]interface{}{
		"removed_tile_id": replaced.ID,
		"new_tile_id":     incoming.ID,
		"round":           next.CurrentRound,
		"phase":           next.Phase,
	}}
	return next, []Event{ev}, nil
}
