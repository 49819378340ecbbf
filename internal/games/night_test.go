package games

import (
	"testing"

	"github.com/vntrieu/deception/internal/catalog"
)

func TestSelectCard_MurdererOnly(t *testing.T) {
	e := newTestEngine()
	st := nightGame(t, e, 4)
	m := st.PlayerByRole(RoleMurderer)
	card := firstOfType(t, m, catalog.CardTypeMeans)
	var inv *Player
	for i := range st.Players {
		if st.Players[i].Role == RoleInvestigator {
			inv = &st.Players[i]
			break
		}
	}
	if _, _, err := e.ApplyAction(st, inv.ID, ActionSelectCard, map[string]interface{}{"card_id": card.ID}); err == nil {
		t.Error("expected non-murderer selection to be rejected")
	}
}

func TestSelectCard_ReplacesByType(t *testing.T) {
	e := newTestEngine()
	st := nightGame(t, e, 4)
	m := st.PlayerByRole(RoleMurderer)
	means1 := m.Hand[0]
	means2 := m.Hand[1]
	evidence := firstOfType(t, m, catalog.CardTypeEvidence)

	st = mustApply(t, e, st, m.ID, ActionSelectCard, map[string]interface{}{"card_id": means1.ID})
	st = mustApply(t, e, st, m.ID, ActionSelectCard, map[string]interface{}{"card_id": evidence.ID})
	if st.Night.MeansID != means1.ID || st.Night.EvidenceID != evidence.ID {
		t.Fatalf("selection = %+v", st.Night)
	}
	// Picking a second means replaces the first and keeps the evidence.
	st = mustApply(t, e, st, m.ID, ActionSelectCard, map[string]interface{}{"card_id": means2.ID})
	if st.Night.MeansID != means2.ID || st.Night.EvidenceID != evidence.ID {
		t.Errorf("selection after swap = %+v", st.Night)
	}
}

func TestSelectCard_EventsTargetMurdererSide(t *testing.T) {
	e := newTestEngine()
	st := lobbyWith(6)
	st.Settings.IncludeAccomplice = true
	st = mustApply(t, e, st, "p1", ActionStartGame, nil)
	st = mustApply(t, e, st, "p1", ActionAdvancePhase, nil)
	m := st.PlayerByRole(RoleMurderer)
	acc := st.PlayerByRole(RoleAccomplice)
	card := firstOfType(t, m, catalog.CardTypeMeans)
	_, events, err := e.ApplyAction(st, m.ID, ActionSelectCard, map[string]interface{}{"card_id": card.ID})
	if err != nil {
		t.Fatalf("select_card: %v", err)
	}
	targets := map[string]bool{}
	for _, ev := range events {
		if ev.Event != "card_selected" || ev.TargetID == "" {
			t.Errorf("expected targeted card_selected, got %+v", ev)
		}
		targets[ev.TargetID] = true
	}
	if !targets[m.ID] || !targets[acc.ID] || len(targets) != 2 {
		t.Errorf("targets = %v, want murderer and accomplice only", targets)
	}
}

func TestConfirmMurder_RequiresBothCardsSameOwner(t *testing.T) {
	e := newTestEngine()
	st := nightGame(t, e, 4)
	m := st.PlayerByRole(RoleMurderer)
	if _, _, err := e.ApplyAction(st, m.ID, ActionConfirmMurder, nil); err == nil {
		t.Error("expected confirm with no selection to fail")
	}
	// Means from the murderer's own hand, evidence from another player's.
	var other *Player
	for i := range st.Players {
		p := &st.Players[i]
		if p.ID != m.ID && p.Role != RoleScientist {
			other = p
			break
		}
	}
	st = mustApply(t, e, st, m.ID, ActionSelectCard, map[string]interface{}{
		"card_id": firstOfType(t, m, catalog.CardTypeMeans).ID,
	})
	st = mustApply(t, e, st, m.ID, ActionSelectCard, map[string]interface{}{
		"card_id": firstOfType(t, other, catalog.CardTypeEvidence).ID,
	})
	if _, _, err := e.ApplyAction(st, m.ID, ActionConfirmMurder, nil); err == nil {
		t.Error("expected split-owner confirmation to fail")
	}
}

func TestConfirmMurder_RecordsCardOwnerAsKiller(t *testing.T) {
	e := newTestEngine()
	st := nightGame(t, e, 4)
	m := st.PlayerByRole(RoleMurderer)
	var other *Player
	for i := range st.Players {
		p := &st.Players[i]
		if p.ID != m.ID && p.Role != RoleScientist {
			other = p
			break
		}
	}
	means := firstOfType(t, other, catalog.CardTypeMeans)
	evidence := firstOfType(t, other, catalog.CardTypeEvidence)
	st = mustApply(t, e, st, m.ID, ActionSelectCard, map[string]interface{}{"card_id": means.ID})
	st = mustApply(t, e, st, m.ID, ActionSelectCard, map[string]interface{}{"card_id": evidence.ID})
	st = mustApply(t, e, st, m.ID, ActionConfirmMurder, nil)
	if st.Solution == nil {
		t.Fatal("no solution recorded")
	}
	if st.Solution.MurdererID != other.ID {
		t.Errorf("solution owner = %s, want card holder %s", st.Solution.MurdererID, other.ID)
	}
	if st.Solution.MeansID != means.ID || st.Solution.EvidenceID != evidence.ID {
		t.Errorf("solution cards = %+v", st.Solution)
	}
	if st.Night != nil {
		t.Error("night selection should be cleared after confirmation")
	}
	if st.Phase != PhaseNight {
		t.Errorf("phase = %s, confirmation should not advance it", st.Phase)
	}
}

func TestBeginInvestigation_RequiresConfirmedSolution(t *testing.T) {
	e := newTestEngine()
	st := nightGame(t, e, 4)
	if _, _, err := e.ApplyAction(st, SystemActor, ActionBeginInvestigation, nil); err == nil {
		t.Error("expected begin before confirmation to fail")
	}
}

func TestBeginInvestigation_StartsTimer(t *testing.T) {
	e := newTestEngine()
	st := investigationGame(t, e, 4)
	if st.Phase != PhaseInvestigation {
		t.Fatalf("phase = %s", st.Phase)
	}
	if st.TimeLeft != st.Settings.RoundTimeSeconds {
		t.Errorf("time_left = %d, want %d", st.TimeLeft, st.Settings.RoundTimeSeconds)
	}
}
