package games

// VisibleRoleOf returns target's role as viewer is allowed to see it.
// Everyone sees their own card; the forensic scientist watched the night
// unfold and sees everything; the murderer's side knows each other; the
// witness knows who acted at night. All roles are public once the game ends.
func VisibleRoleOf(state *GameState, viewerID, targetID string) Role {
	target := state.PlayerByID(targetID)
	if target == nil {
		return RoleHidden
	}
	if target.Role == "" {
		return ""
	}
	if state.Phase == PhaseGameOver || viewerID == targetID {
		return target.Role
	}
	// The forensic scientist plays face up.
	if target.Role == RoleScientist {
		return target.Role
	}
	viewer := state.PlayerByID(viewerID)
	if viewer == nil {
		return RoleHidden
	}
	switch viewer.Role {
	case RoleScientist:
		return target.Role
	case RoleMurderer:
		if target.Role == RoleAccomplice {
			return target.Role
		}
	case RoleAccomplice:
		if target.Role == RoleMurderer {
			return target.Role
		}
	case RoleWitness:
		if target.Role == RoleMurderer || target.Role == RoleAccomplice {
			return target.Role
		}
	}
	return RoleHidden
}

// VisibleState returns a redacted deep copy of state for one viewer: roles
// beyond the viewer's knowledge are masked, the replacement deck is hidden,
// the night selection and solution are restricted to those who made them,
// and the narrative waits for the reveal. Hands stay public; that is how
// the game is played.
func VisibleState(state *GameState, viewerID string) *GameState {
	out := state.Clone()
	out.TileDeck = nil

	for i := range out.Players {
		out.Players[i].Role = VisibleRoleOf(state, viewerID, out.Players[i].ID)
	}

	viewer := state.PlayerByID(viewerID)
	nightSide := viewer != nil && (viewer.Role == RoleMurderer || viewer.Role == RoleAccomplice)
	if !nightSide {
		out.Night = nil
	}
	if state.Phase != PhaseGameOver && !nightSide && (viewer == nil || viewer.Role != RoleScientist) {
		out.Solution = nil
	}
	// The narrative retells the murder, so nobody reads it early.
	if state.Phase != PhaseGameOver {
		out.Narrative = ""
	}
	return out
}
