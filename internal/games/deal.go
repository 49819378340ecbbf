package games

import (
	"fmt"

	"github.com/vntrieu/deception/internal/catalog"
)

// buildDeck returns a shuffled deck of at least size cards. When the base
// set runs short, whole extra copies are shuffled in; clone ids get a copy
// suffix so every card id in play stays unique.
func (e *Engine) buildDeck(base []catalog.Card, size int) []catalog.Card {
	deck := make([]catalog.Card, len(base))
	copy(deck, base)
	e.rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	for round := 2; len(deck) < size; round++ {
		extra := make([]catalog.Card, len(base))
		for i, c := range base {
			extra[i] = catalog.Card{
				ID:   fmt.Sprintf("%s#%d", c.ID, round),
				Name: c.Name,
				Type: c.Type,
			}
		}
		e.rng.Shuffle(len(extra), func(i, j int) { extra[i], extra[j] = extra[j], extra[i] })
		deck = append(deck, extra...)
	}
	return deck
}

// dealHands gives every player except the forensic scientist HandSize means
// and HandSize evidence cards.
func (e *Engine) dealHands(next *GameState) error {
	holders := 0
	for i := range next.Players {
		if next.Players[i].Role != RoleScientist {
			holders++
		}
	}
	if holders == 0 {
		return fmt.Errorf("no card holders to deal to")
	}
	need := holders * e.cfg.HandSize
	means := e.buildDeck(catalog.MeansCards(), need)
	evidence := e.buildDeck(catalog.EvidenceCards(), need)

	mi, ei := 0, 0
	for i := range next.Players {
		if next.Players[i].Role == RoleScientist {
			next.Players[i].Hand = nil
			continue
		}
		hand := make([]catalog.Card, 0, 2*e.cfg.HandSize)
		hand = append(hand, means[mi:mi+e.cfg.HandSize]...)
		hand = append(hand, evidence[ei:ei+e.cfg.HandSize]...)
		mi += e.cfg.HandSize
		ei += e.cfg.HandSize
		next.Players[i].Hand = hand
	}
	return nil
}
