package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vntrieu/deception/internal/games"
	"github.com/vntrieu/deception/internal/narrative"
)

// Notifier fans room updates out to connected clients. Publish delivers a
// new authoritative state plus its events; Direct delivers a one-shot event
// that did not change state (targeted events carry their own TargetID).
type Notifier interface {
	Publish(roomCode string, state *games.GameState, events []games.Event)
	Direct(roomCode string, ev games.Event)
}

// NopNotifier discards everything. Useful in tests.
type NopNotifier struct{}

func (NopNotifier) Publish(string, *games.GameState, []games.Event) {}
func (NopNotifier) Direct(string, games.Event)                      {}

// Options tune a runner. Zero values get sensible defaults, except
// TickInterval where zero disables the clock entirely (tests drive ticks
// through Do instead).
type Options struct {
	TickInterval time.Duration
	AdvanceDelay time.Duration

	// Settings seeds new lobbies; nil means games.DefaultRoomSettings.
	Settings *games.RoomSettings

	Narrative narrative.Generator
	Clues     narrative.ClueEvaluator
	Logger    *zap.Logger
}

const defaultAdvanceDelay = 1500 * time.Millisecond

type request struct {
	actorID string
	action  string
	payload map[string]interface{}
	resp    chan response
}

type response struct {
	state  *games.GameState
	events []games.Event
	err    error
}

// snapshotAction is an internal request kind answered without the engine.
const snapshotAction = "__snapshot"

// Runner owns one room's state and serializes every action through a single
// goroutine, so the engine never sees concurrent applies and clients always
// observe whole states.
type Runner struct {
	code     string
	engine   *games.Engine
	notifier Notifier
	opts     Options
	log      *zap.Logger

	state    *games.GameState
	requests chan request

	closeOnce  sync.Once
	done       chan struct{}
	onEmpty    func(code string)
	onActivity func(code string)
}

// NewRunner starts a runner for a fresh lobby. onEmpty is called (from the
// runner's goroutine) when the last player leaves; onActivity after every
// accepted player action. Either may be nil.
func NewRunner(code string, engine *games.Engine, notifier Notifier, opts Options, onEmpty, onActivity func(code string)) *Runner {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if opts.AdvanceDelay <= 0 {
		opts.AdvanceDelay = defaultAdvanceDelay
	}
	if opts.Narrative == nil {
		opts.Narrative = narrative.Disabled{}
	}
	if opts.Clues == nil {
		opts.Clues = narrative.Disabled{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	settings := games.DefaultRoomSettings()
	if opts.Settings != nil {
		settings = *opts.Settings
	}
	r := &Runner{
		code:       code,
		engine:     engine,
		notifier:   notifier,
		opts:       opts,
		log:        opts.Logger.With(zap.String("room", code)),
		state:      games.NewLobbyState(code, settings),
		requests:   make(chan request, 64),
		done:       make(chan struct{}),
		onEmpty:    onEmpty,
		onActivity: onActivity,
	}
	go r.loop()
	return r
}

// Code returns the room code this runner serves.
func (r *Runner) Code() string { return r.code }

// Do submits an action and waits for the result. The returned state is the
// full authoritative aggregate; callers mask it per viewer before sending
// it anywhere.
func (r *Runner) Do(ctx context.Context, actorID, action string, payload map[string]interface{}) (*games.GameState, error) {
	req := request{actorID: actorID, action: action, payload: payload, resp: make(chan response, 1)}
	select {
	case r.requests <- req:
	case <-r.done:
		return nil, fmt.Errorf("room %s is closed", r.code)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case resp := <-req.resp:
		return resp.state, resp.err
	case <-r.done:
		return nil, fmt.Errorf("room %s is closed", r.code)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Snapshot returns the current state without applying anything.
func (r *Runner) Snapshot(ctx context.Context) (*games.GameState, error) {
	return r.Do(ctx, games.SystemActor, snapshotAction, nil)
}

// Close stops the loop. Pending requests get a closed-room error.
func (r *Runner) Close() {
	r.closeOnce.Do(func() { close(r.done) })
}

func (r *Runner) loop() {
	var tickC <-chan time.Time
	if r.opts.TickInterval > 0 {
		ticker := time.NewTicker(r.opts.TickInterval)
		defer ticker.Stop()
		tickC = ticker.C
	}
	for {
		select {
		case req := <-r.requests:
			r.handle(req)
		case <-tickC:
			r.applyAndFanOut(games.SystemActor, games.ActionTick, nil)
		case <-r.done:
			return
		}
	}
}

func (r *Runner) handle(req request) {
	if req.action == snapshotAction {
		req.resp <- response{state: r.state}
		return
	}
	next, events, err := r.applyAndFanOut(req.actorID, req.action, req.payload)
	req.resp <- response{state: next, events: events, err: err}
}

func (r *Runner) applyAndFanOut(actorID, action string, payload map[string]interface{}) (*games.GameState, []games.Event, error) {
	next, events, err := r.engine.ApplyAction(r.state, actorID, action, payload)
	if err != nil {
		r.log.Debug("action rejected",
			zap.String("action", action), zap.String("actor", actorID), zap.Error(err))
		return nil, nil, err
	}
	changed := next != r.state
	r.state = next
	if changed || len(events) > 0 {
		r.notifier.Publish(r.code, next, events)
	}
	if changed && actorID != games.SystemActor && r.onActivity != nil {
		r.onActivity(r.code)
	}
	r.afterApply(next, events)
	return next, events, nil
}

// afterApply schedules the follow-ups an accepted action implies. Everything
// here is best effort and re-enters the loop through system actions, so the
// generation guard and phase checks decide whether results still apply.
func (r *Runner) afterApply(state *games.GameState, events []games.Event) {
	for _, ev := range events {
		switch ev.Event {
		case "murder_confirmed":
			go r.fetchNarrative(state)
			time.AfterFunc(r.opts.AdvanceDelay, func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if _, err := r.Do(ctx, games.SystemActor, games.ActionBeginInvestigation, nil); err != nil {
					r.log.Warn("begin investigation failed", zap.Error(err))
				}
			})
		case "clue_evaluation_requested":
			go r.evaluateClue(state, ev)
		case "player_left":
			if len(state.Players) == 0 && r.onEmpty != nil {
				go r.onEmpty(r.code)
			}
		}
	}
}

func (r *Runner) fetchNarrative(state *games.GameState) {
	facts, ok := caseFacts(state)
	if !ok {
		return
	}
	generation := state.Generation
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	text, err := r.opts.Narrative.CaseNarrative(ctx, facts)
	if err != nil {
		r.log.Warn("narrative generation failed", zap.Error(err))
		return
	}
	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	if _, err := r.Do(ctx2, games.SystemActor, games.ActionApplyNarrative, map[string]interface{}{
		"narrative":  text,
		"generation": generation,
	}); err != nil {
		r.log.Warn("narrative apply failed", zap.Error(err))
	}
}

func (r *Runner) evaluateClue(state *games.GameState, ev games.Event) {
	playerID, _ := ev.Payload["player_id"].(string)
	question, _ := ev.Payload["text"].(string)
	if playerID == "" || question == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	answer, err := r.opts.Clues.EvaluateClue(ctx, narrative.ClueQuestion{
		Question: question,
		Scene:    sceneSummary(state),
	})
	if err != nil {
		r.log.Warn("clue evaluation failed", zap.Error(err))
		return
	}
	r.notifier.Direct(r.code, games.Event{
		Event:    "clue_evaluation_result",
		Payload:  map[string]interface{}{"question": question, "text": answer},
		TargetID: playerID,
	})
}

// caseFacts assembles the narrative request once the murder is locked in.
func caseFacts(state *games.GameState) (narrative.CaseFacts, bool) {
	if state.Solution == nil {
		return narrative.CaseFacts{}, false
	}
	killer := state.PlayerByID(state.Solution.MurdererID)
	if killer == nil {
		return narrative.CaseFacts{}, false
	}
	facts := narrative.CaseFacts{
		MurdererName: killer.Name,
		Clues:        sceneSummary(state),
	}
	if c := games.CardInHand(killer, state.Solution.MeansID); c != nil {
		facts.MeansName = c.Name
	}
	if c := games.CardInHand(killer, state.Solution.EvidenceID); c != nil {
		facts.EvidenceName = c.Name
	}
	if len(state.SceneTiles) > 0 {
		facts.LocationName = state.SceneTiles[0].Name
	}
	return facts, true
}

// sceneSummary collects every placed marker as "tile: option" lines.
func sceneSummary(state *games.GameState) []string {
	var out []string
	tiles := append([]games.SceneTile{state.CauseOfDeath}, state.SceneTiles...)
	for _, t := range tiles {
		if t.SelectedOption != nil {
			out = append(out, fmt.Sprintf("%s: %s", t.Name, t.Options[*t.SelectedOption]))
		}
	}
	return out
}
