package games

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Event is emitted by ApplyAction for the transport layer to fan out.
// TargetID limits delivery to one player; empty means broadcast.
type Event struct {
	Event    string                 `json:"event"`
	Payload  map[string]interface{} `json:"payload,omitempty"`
	TargetID string                 `json:"-"`
}

// SystemActor is the actor id used for engine-internal actions (ticks,
// deferred transitions, narrative patches). Players can never hold it.
const SystemActor = ""

// Engine applies actions to room state. It is pure with respect to state:
// every accepted action clones the input aggregate and returns a new one,
// so a caller can swap states atomically and broadcast the diff.
type Engine struct {
	cfg RulesConfig
	rng *rand.Rand
	now func() time.Time
}

// NewEngine builds an engine. A nil rng gets a time-seeded source; tests
// pass a fixed seed for deterministic role assignment and dealing.
func NewEngine(cfg RulesConfig, rng *rand.Rand) *Engine {
	if cfg.Phases == nil {
		cfg = DefaultConfig()
	}
	if cfg.TotalRounds <= 0 {
		cfg.TotalRounds = 3
	}
	if cfg.OvertimeSeconds <= 0 {
		cfg.OvertimeSeconds = 30
	}
	if cfg.ReplacementDeckSize <= 0 {
		cfg.ReplacementDeckSize = 14
	}
	if cfg.HandSize <= 0 {
		cfg.HandSize = 4
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{cfg: cfg, rng: rng, now: time.Now}
}

// Config returns the engine's effective rules.
func (e *Engine) Config() RulesConfig { return e.cfg }

// ApplyAction validates and applies one action against state. On success it
// returns the next state and the events to fan out; the input state is never
// mutated. A nil next state with a nil error never happens: rejected actions
// always carry an error.
func (e *Engine) ApplyAction(state *GameState, actorID, action string, payload map[string]interface{}) (*GameState, []Event, error) {
	if state == nil {
		return nil, nil, fmt.Errorf("no state")
	}
	if action == "" {
		return nil, nil, fmt.Errorf("payload must include action")
	}

	switch action {
	case ActionTick, ActionApplyNarrative, ActionBeginInvestigation:
		if actorID != SystemActor {
			return nil, nil, fmt.Errorf("action %q is system-only", action)
		}
	case ActionJoin:
		// Membership is established by the action itself.
	default:
		if state.PlayerByID(actorID) == nil {
			return nil, nil, fmt.Errorf("player %s not in room", actorID)
		}
	}

	if !e.cfg.actionAllowed(state.Phase, action) {
		return nil, nil, fmt.Errorf("action %q not allowed in phase %s", action, state.Phase)
	}

	switch action {
	case ActionJoin:
		return e.applyJoin(state, actorID, payload)
	case ActionLeave:
		return e.applyLeave(state, actorID)
	case ActionUpdateSettings:
		return e.applyUpdateSettings(state, actorID, payload)
	case ActionAddSimPlayer:
		return e.applyAddSimPlayer(state, actorID, payload)
	case ActionSetAvatarColor:
		return e.applySetAvatarColor(state, actorID, payload)
	case ActionChat:
		return e.applyChat(state, actorID, payload)
	case ActionToggleMute:
		return e.applyToggleMute(state, actorID)
	case ActionSetSpeaking:
		return e.applySetSpeaking(state, actorID, payload)
	case ActionStartGame:
		return e.applyStartGame(state, actorID)
	case ActionAdvancePhase:
		return e.applyAdvancePhase(state, actorID)
	case ActionSelectCard:
		return e.applySelectCard(state, actorID, payload)
	case ActionConfirmMurder:
		return e.applyConfirmMurder(state, actorID)
	case ActionBeginInvestigation:
		return e.applyBeginInvestigation(state)
	case ActionPlaceBullet:
		return e.applyPlaceBullet(state, actorID, payload)
	case ActionOpenAccusation:
		return e.applyOpenAccusation(state, actorID)
	case ActionAccuse:
		return e.applyAccuse(state, actorID, payload)
	case ActionVotePass:
		return e.applyVotePass(state, actorID)
	case ActionReplaceTile:
		return e.applyReplaceTile(state, actorID, payload)
	case ActionEvaluateClue:
		return e.applyEvaluateClue(state, actorID, payload)
	case ActionKickPlayer:
		return e.applyKickPlayer(state, actorID, payload)
	case ActionTick:
		return e.applyTick(state)
	case ActionApplyNarrative:
		return e.applyNarrative(state, payload)
	case ActionPlayAgain:
		return e.applyPlayAgain(state, actorID)
	}
	return nil, nil, fmt.Errorf("action %q not implemented", action)
}

// systemChat appends a system-authored chat line to next.
func (e *Engine) systemChat(next *GameState, text string) {
	next.Chat = append(next.Chat, ChatMessage{
		ID:         uuid.NewString(),
		SenderID:   SystemActor,
		SenderName: "System",
		Text:       text,
		Timestamp:  e.now(),
		IsSystem:   true,
	})
}

func (e *Engine) applyChat(state *GameState, actorID string, payload map[string]interface{}) (*GameState, []Event, error) {
	text, _ := payload["text"].(string)
	if text == "" {
		return nil, nil, fmt.Errorf("payload must include text")
	}
	actor := state.PlayerByID(actorID)
	next := state.Clone()
	msg := ChatMessage{
		ID:         uuid.NewString(),
		SenderID:   actor.ID,
		SenderName: actor.Name,
		Text:       text,
		Timestamp:  e.now(),
	}
	next.Chat = append(next.Chat, msg)
	ev := Event{Event: "chat_message", Payload: map[string]interface{}{"message": msg}}
	return next, []Event{ev}, nil
}

func (e *Engine) applyToggleMute(state *GameState, actorID string) (*GameState, []Event, error) {
	next := state.Clone()
	p := next.PlayerByID(actorID)
	p.IsMuted = !p.IsMuted
	ev := Event{Event: "player_updated", Payload: map[string]interface{}{
		"player_id": p.ID, "is_muted": p.IsMuted,
	}}
	return next, []Event{ev}, nil
}

func (e *Engine) applySetSpeaking(state *GameState, actorID string, payload map[string]interface{}) (*GameState, []Event, error) {
	speaking, ok := payload["speaking"].(bool)
	if !ok {
		return nil, nil, fmt.Errorf("payload must include speaking: true/false")
	}
	p := state.PlayerByID(actorID)
	if p.IsSpeaking == speaking {
		return state, nil, nil
	}
	next := state.Clone()
	next.PlayerByID(actorID).IsSpeaking = speaking
	ev := Event{Event: "player_updated", Payload: map[string]interface{}{
		"player_id": actorID, "is_speaking": speaking,
	}}
	return next, []Event{ev}, nil
}

// applyEvaluateClue does not change state: it emits a targeted event the
// session layer turns into an external evaluator call, with the result
// delivered back to the requester only.
func (e *Engine) applyEvaluateClue(state *GameState, actorID string, payload map[string]interface{}) (*GameState, []Event, error) {
	text, _ := payload["text"].(string)
	if text == "" {
		return nil, nil, fmt.Errorf("payload must include text")
	}
	if state.PlayerByID(actorID).Role == RoleScientist {
		return nil, nil, fmt.Errorf("the forensic scientist cannot request clue evaluation")
	}
	ev := Event{
		Event:    "clue_evaluation_requested",
		Payload:  map[string]interface{}{"player_id": actorID, "text": text},
		TargetID: actorID,
	}
	return state, []Event{ev}, nil
}

// applyNarrative patches in the case narrative, any time after the murder
// is confirmed. The generation guard drops results that arrive after the
// room has already been reset.
func (e *Engine) applyNarrative(state *GameState, payload map[string]interface{}) (*GameState, []Event, error) {
	text, _ := payload["narrative"].(string)
	gen, ok := intFromPayload(payload["generation"])
	if text == "" || !ok {
		return nil, nil, fmt.Errorf("payload must include narrative and generation")
	}
	if gen != state.Generation || state.Solution == nil {
		return state, nil, nil
	}
	next := state.Clone()
	next.Narrative = text
	if next.Phase != PhaseGameOver {
		// The story names the killer. Hold it until the reveal.
		return next, nil, nil
	}
	ev := Event{Event: "narrative_ready", Payload: map[string]interface{}{"narrative": text}}
	return next, []Event{ev}, nil
}

func intFromPayload(v interface{}) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case float64:
		return int(x), true
	default:
		return 0, false
	}
}
