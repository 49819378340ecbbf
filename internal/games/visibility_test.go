package games

import "testing"

// fullRoleGame starts a six-player game with both optional roles enabled.
func fullRoleGame(t *testing.T, e *Engine) *GameState {
	t.Helper()
	st := lobbyWith(6)
	st.Settings.IncludeAccomplice = true
	st.Settings.IncludeWitness = true
	return mustApply(t, e, st, "p1", ActionStartGame, nil)
}

func TestVisibleRoleOf_DisclosureMatrix(t *testing.T) {
	e := newTestEngine()
	st := fullRoleGame(t, e)
	sci := st.PlayerByRole(RoleScientist)
	m := st.PlayerByRole(RoleMurderer)
	acc := st.PlayerByRole(RoleAccomplice)
	wit := st.PlayerByRole(RoleWitness)
	inv := st.PlayerByRole(RoleInvestigator)

	for _, tc := range []struct {
		name   string
		viewer string
		target string
		want   Role
	}{
		{"self", inv.ID, inv.ID, RoleInvestigator},
		{"scientist sees murderer", sci.ID, m.ID, RoleMurderer},
		{"scientist sees accomplice", sci.ID, acc.ID, RoleAccomplice},
		{"scientist sees witness", sci.ID, wit.ID, RoleWitness},
		{"murderer sees accomplice", m.ID, acc.ID, RoleAccomplice},
		{"accomplice sees murderer", acc.ID, m.ID, RoleMurderer},
		{"witness sees murderer", wit.ID, m.ID, RoleMurderer},
		{"witness sees accomplice", wit.ID, acc.ID, RoleAccomplice},
		{"witness blind to investigator", wit.ID, inv.ID, RoleHidden},
		{"investigator blind to murderer", inv.ID, m.ID, RoleHidden},
		{"murderer blind to witness", m.ID, wit.ID, RoleHidden},
		{"scientist is public", inv.ID, sci.ID, RoleScientist},
	} {
		if got := VisibleRoleOf(st, tc.viewer, tc.target); got != tc.want {
			t.Errorf("%s: got %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestVisibleRoleOf_AllRevealedAtGameOver(t *testing.T) {
	e := newTestEngine()
	st := fullRoleGame(t, e)
	st.Phase = PhaseGameOver
	inv := st.PlayerByRole(RoleInvestigator)
	m := st.PlayerByRole(RoleMurderer)
	if got := VisibleRoleOf(st, inv.ID, m.ID); got != RoleMurderer {
		t.Errorf("post-game role = %s, want %s", got, RoleMurderer)
	}
}

func TestVisibleState_MasksDeckNightAndSolution(t *testing.T) {
	e := newTestEngine()
	st := investigationGame(t, e, 5)
	inv := st.PlayerByRole(RoleInvestigator)
	view := VisibleState(st, inv.ID)
	if view.TileDeck != nil {
		t.Error("replacement deck leaked to investigator")
	}
	if view.Solution != nil {
		t.Error("solution leaked to investigator")
	}
	if view.Night != nil {
		t.Error("night selection leaked to investigator")
	}
	for _, p := range view.Players {
		if p.ID != inv.ID && p.Role != RoleHidden && p.Role != RoleScientist {
			t.Errorf("role of %s visible to investigator: %s", p.ID, p.Role)
		}
	}
	// Hands are public information.
	for _, p := range view.Players {
		if p.Role != RoleScientist && p.ID != inv.ID && len(p.Hand) == 0 {
			if orig := st.PlayerByID(p.ID); len(orig.Hand) > 0 {
				t.Errorf("hand of %s hidden from investigator", p.ID)
			}
		}
	}
}

func TestVisibleState_ScientistAndMurdererSeeSolution(t *testing.T) {
	e := newTestEngine()
	st := investigationGame(t, e, 5)
	sci := st.PlayerByRole(RoleScientist)
	m := st.PlayerByRole(RoleMurderer)
	if VisibleState(st, sci.ID).Solution == nil {
		t.Error("scientist should see the solution")
	}
	if VisibleState(st, m.ID).Solution == nil {
		t.Error("murderer should see the solution")
	}
	if VisibleState(st, m.ID).TileDeck != nil {
		t.Error("replacement deck should be hidden from everyone")
	}
}

func TestVisibleState_NightSelectionVisibleToMurdererSide(t *testing.T) {
	e := newTestEngine()
	st := fullRoleGame(t, e)
	st = mustApply(t, e, st, "p1", ActionAdvancePhase, nil)
	m := st.PlayerByRole(RoleMurderer)
	acc := st.PlayerByRole(RoleAccomplice)
	card := m.Hand[0]
	st = mustApply(t, e, st, m.ID, ActionSelectCard, map[string]interface{}{"card_id": card.ID})

	if VisibleState(st, m.ID).Night == nil {
		t.Error("murderer should see the night selection")
	}
	if VisibleState(st, acc.ID).Night == nil {
		t.Error("accomplice should see the night selection")
	}
	wit := st.PlayerByRole(RoleWitness)
	if VisibleState(st, wit.ID).Night != nil {
		t.Error("witness should not see the night selection")
	}
}

func TestVisibleState_NarrativeHeldUntilGameOver(t *testing.T) {
	e := newTestEngine()
	st := investigationGame(t, e, 4)
	st = mustApply(t, e, st, SystemActor, ActionApplyNarrative, map[string]interface{}{
		"narrative": "A grim tale.", "generation": st.Generation,
	})
	for _, p := range st.Players {
		if VisibleState(st, p.ID).Narrative != "" {
			t.Fatalf("narrative visible to %s before game over", p.ID)
		}
	}

	m := st.PlayerByRole(RoleMurderer)
	st = mustApply(t, e, st, m.ID, ActionLeave, nil) // forces GAME_OVER
	if got := VisibleState(st, st.Players[0].ID).Narrative; got != "A grim tale." {
		t.Errorf("narrative at game over = %q", got)
	}
}
