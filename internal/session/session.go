// Package session implements the Session Orchestrator and
// the Phantom-Chip Correction that runs after every
// applied action that ends a hand. It is grounded in internal/server:
// HandRunner's betting-round loop (internal/server/hand_runner.go)
// for the turn-loop shape, GameManager (game_manager.go) for the
// directory pattern internal/registry builds on, and pool.go's botStats
// for the per-seat stats rollup.
package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/riverrun/holdem/internal/agents"
	"github.com/riverrun/holdem/internal/agents/human"
	"github.com/riverrun/holdem/internal/agents/llm"
	"github.com/riverrun/holdem/internal/eventbus"
	"github.com/riverrun/holdem/internal/poker"
	"github.com/riverrun/holdem/internal/rules"
	"github.com/riverrun/holdem/internal/validate"
)

// RankingEntry is one row of final_rankings.
type RankingEntry struct {
	PlayerID int `json:"player_id"`
	Chips    int `json:"chips"`
}

// ActionResult is propose_action's response.
type ActionResult struct {
	Success  bool       `json:"success"`
	Message  string     `json:"message"`
	NewState *GameState `json:"new_state,omitempty"`
}

// Session owns one table's authoritative state. All
// mutation happens behind mu; the turn loop releases mu across every
// suspension point.
type Session struct {
	id     string
	logger zerolog.Logger
	cfg    Config

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	engine    rules.Engine
	bus       *eventbus.Bus
	status    poker.Status
	revision  uint64
	createdAt time.Time

	agentKinds   map[int]poker.AgentKind
	displayNames map[int]string
	deciders     map[int]agents.Decider
	llmPipelines map[int]*llm.Pipeline
	memories     map[int]*llm.Memory
	humans       map[int]*human.Bridge

	rng           *rand.Rand
	history       []poker.PlayerActionRecord
	stats         map[int]*SeatStats
	initialChips  map[int]int
	expectedTotal int
	finalRankings []RankingEntry
}

// Create constructs a session for the create_game operation. id is
// supplied by the caller (internal/registry owns id generation).
func Create(id string, cfg Config, logger zerolog.Logger) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	seatChips := make([]int, cfg.MaxPlayers)
	for i := range seatChips {
		seatChips[i] = cfg.Buyin
	}
	engine := cfg.NewEngine(seatChips, cfg.SmallBlind, cfg.BigBlind, cfg.Seed)

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		id:           id,
		logger:       logger.With().Str("component", "session").Str("game_id", id).Logger(),
		cfg:          cfg,
		ctx:          ctx,
		cancel:       cancel,
		engine:       engine,
		bus:          eventbus.New(logger),
		status:       poker.StatusWaiting,
		createdAt:    time.Now(),
		agentKinds:   make(map[int]poker.AgentKind, cfg.MaxPlayers),
		displayNames: make(map[int]string, cfg.MaxPlayers),
		deciders:     make(map[int]agents.Decider, cfg.MaxPlayers),
		llmPipelines: make(map[int]*llm.Pipeline),
		memories:     make(map[int]*llm.Memory),
		humans:       make(map[int]*human.Bridge),
		rng:          rand.New(rand.NewSource(cfg.Seed)),
		stats:        make(map[int]*SeatStats, cfg.MaxPlayers),
		initialChips: make(map[int]int, cfg.MaxPlayers),
		expectedTotal: cfg.Buyin * cfg.MaxPlayers,
	}

	allNonHuman := true
	for seat := 0; seat < cfg.MaxPlayers; seat++ {
		kind := cfg.Agents[seat]
		s.agentKinds[seat] = kind
		if name, ok := cfg.DisplayNames[seat]; ok {
			s.displayNames[seat] = name
		} else {
			s.displayNames[seat] = fmt.Sprintf("seat-%d", seat)
		}
		s.stats[seat] = &SeatStats{}
		s.initialChips[seat] = cfg.Buyin

		if kind.Tag == poker.AgentHuman {
			allNonHuman = false
		}

		decider, err := buildDecider(kind, seat, s.rng, cfg.Gateway)
		if err != nil {
			return nil, err
		}
		s.deciders[seat] = decider
		switch kind.Tag {
		case poker.AgentLLM:
			s.llmPipelines[seat] = decider.(*llm.Pipeline)
			s.memories[seat] = llm.NewMemory()
		case poker.AgentHuman:
			s.humans[seat] = decider.(*human.Bridge)
		}
	}

	if cfg.AutoStart || allNonHuman {
		s.status = poker.StatusRunning
		s.mu.Lock()
		started := s.startHandLocked()
		s.mu.Unlock()
		if started {
			go s.runLoop()
		}
	}

	return s, nil
}

// ID returns the opaque session identifier.
func (s *Session) ID() string { return s.id }

// startHandLocked calls StartHand and performs the post-start bookkeeping
// common to Create and Advance. Must be called with mu held. Returns true
// if a betting-phase turn loop needs to run (false if the hand already
// reached settlement synchronously, e.g. every seat but one was already
// eliminated).
func (s *Session) startHandLocked() bool {
	if err := s.engine.StartHand(); err != nil {
		s.emitErrorLocked("StartHandFailed", err.Error())
		return false
	}
	s.recordHandStart()

	if s.engine.HandPhase() == poker.PreHand {
		// StartHand's internal skip-ahead already ran the hand to Settle
		// and back to PreHand with zero applied actions.
		s.afterHandSettledLocked()
		return s.status == poker.StatusRunning && s.engine.IsHandRunning()
	}

	s.bumpRevisionLocked()
	s.emitStateUpdateLocked()
	return true
}

// runLoop drives betting-phase turns until the hand reaches Settle, then
// either restarts automatically or exits waiting for advance().
func (s *Session) runLoop() {
	for {
		s.mu.Lock()
		if s.status != poker.StatusRunning || !s.engine.HandPhase().IsBettingPhase() {
			s.mu.Unlock()
			return
		}
		playerID, ok := s.engine.CurrentPlayer()
		if !ok {
			s.mu.Unlock()
			return
		}
		dc := s.decisionContext(playerID)
		kind := s.agentKinds[playerID]
		timeout := s.cfg.DecisionTimeout
		if kind.Tag == poker.AgentHuman {
			timeout = s.cfg.HumanTimeout
		}
		mem := s.memories[playerID]
		s.mu.Unlock()

		turnCtx, cancel := withClockTimeout(s.ctx, s.cfg.Clock, timeout)
		decision, err := s.dispatch(turnCtx, playerID, kind, dc, mem)
		cancel()

		s.mu.Lock()
		if s.status != poker.StatusRunning {
			s.mu.Unlock()
			return
		}
		// The session may have ended or the current player may have
		// changed while the lock was released only via End(), which is
		// caught by the status check above; single-loop ownership of the
		// engine means playerID is still current here.
		if err != nil {
			s.emitErrorLocked(agentFailureKind(err, kind), err.Error())
			s.recordTimeout(playerID)
		}

		if !s.applyDecisionLocked(playerID, kind, dc.Moves, decision, mem) {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()
	}
}

// dispatch is C8 step 3: "Dispatch by kind; obtain a proposed Action."
func (s *Session) dispatch(ctx context.Context, seatID int, kind poker.AgentKind, dc agents.DecisionContext, mem *llm.Memory) (agents.Decision, error) {
	if kind.Tag == poker.AgentLLM {
		return s.llmPipelines[seatID].DecideWithMemory(ctx, dc, mem)
	}
	return s.deciders[seatID].Decide(ctx, dc)
}

// agentFailureKind picks the Error event kind for a failed turn dispatch.
// A timed-out human turn reports TimeoutAction (the mailbox fallback the
// human bridge already applied); a timed-out LLM turn reports LLMTimeout
// (the C6 fallback ladder resolves the actual applied action separately).
// Anything else collapses to the generic AgentFailure.
func agentFailureKind(err error, kind poker.AgentKind) string {
	if !errors.Is(err, context.DeadlineExceeded) {
		return "AgentFailure"
	}
	if kind.Tag == poker.AgentHuman {
		return "TimeoutAction"
	}
	return "LLMTimeout"
}

// applyDecisionLocked validates and applies one turn's decision (C6, then
// engine.TakeAction, then C1). Must be called with mu held. Returns false
// if the loop should stop (terminal error, or hand ended).
func (s *Session) applyDecisionLocked(seatID int, kind poker.AgentKind, moves rules.AvailableMoves, decision agents.Decision, mem *llm.Memory) bool {
	resolved, ok := validate.Resolve(moves, decision.Action)
	if !ok {
		s.enterError(fmt.Errorf("%w: seat %d has no legal moves", poker.ErrRulesEngineDefect, seatID))
		return false
	}

	phaseBefore := s.engine.HandPhase()
	potBefore := sumPots(s.engine)
	if err := s.engine.TakeAction(resolved); err != nil {
		s.enterError(fmt.Errorf("%w: %v", poker.ErrRulesEngineDefect, err))
		return false
	}
	s.recordAction(seatID)

	rec := poker.PlayerActionRecord{
		PlayerID:            seatID,
		Phase:                phaseBefore,
		ActionKind:          resolved.Kind,
		Amount:              resolved.Amount,
		PotBefore:           potBefore,
		ChipsRemainingAfter: chipsOf(s.engine, seatID),
	}
	if kind.Tag == poker.AgentLLM {
		rec.Reasoning = decision.Reasoning
		rec.Confidence = decision.Confidence
	}
	s.history = append(s.history, rec)
	if kind.Tag == poker.AgentLLM && mem != nil {
		// Append only after the Action is applied, not before.
		mem.Append(rec)
	}

	handEnded := s.engine.HandPhase() == poker.PreHand
	if handEnded {
		if err := s.reconcile(); err != nil {
			return false
		}
		s.refreshNetChips()
	}

	s.bumpRevisionLocked()
	s.emitActionAppliedLocked(rec)
	s.emitStateUpdateLocked()

	if handEnded {
		s.afterHandSettledLocked()
		return s.status == poker.StatusRunning && s.engine.IsHandRunning()
	}
	return true
}

// afterHandSettledLocked runs once a hand reaches PreHand: decides
// whether the session is Completed, and if not, either starts the next
// hand automatically (all non-Human active deciders) or leaves the
// session Running and waiting for an external advance().
func (s *Session) afterHandSettledLocked() {
	for seat := range s.memories {
		s.memories[seat] = llm.NewMemory()
	}

	seatsWithChips := 0
	for _, sn := range s.engine.Seats() {
		if sn.Chips > 0 {
			seatsWithChips++
		}
	}
	if s.engine.HandNumber() >= s.cfg.MaxHands || seatsWithChips < 2 {
		s.completeLocked()
		return
	}

	if s.allActiveNonHumanLocked() {
		s.startHandLocked()
	}
}

func (s *Session) allActiveNonHumanLocked() bool {
	chipsBySeat := map[int]int{}
	for _, sn := range s.engine.Seats() {
		chipsBySeat[sn.PlayerID] = sn.Chips
	}
	for seat, kind := range s.agentKinds {
		if chipsBySeat[seat] <= 0 {
			continue
		}
		if kind.Tag == poker.AgentHuman {
			return false
		}
	}
	return true
}

// Snapshot returns a value copy of the current GameState).
func (s *Session) Snapshot() GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buildState()
}

// ProposeAction is propose_action's external entry point. It never mutates state on an OutOfTurn rejection.
func (s *Session) ProposeAction(playerID int, action poker.Action) (ActionResult, error) {
	s.mu.Lock()
	if s.status == poker.StatusCompleted || s.status == poker.StatusError {
		s.mu.Unlock()
		return ActionResult{}, poker.ErrSessionTerminal
	}
	cur, ok := s.engine.CurrentPlayer()
	if !ok || cur != playerID {
		s.mu.Unlock()
		return ActionResult{Success: false, Message: "not this seat's turn"}, poker.ErrOutOfTurn
	}
	bridge, isHuman := s.humans[playerID]
	s.mu.Unlock()

	if !isHuman || !bridge.Propose(action) {
		return ActionResult{Success: false, Message: "no pending turn for seat"}, poker.ErrOutOfTurn
	}
	state := s.Snapshot()
	return ActionResult{Success: true, Message: "action accepted", NewState: &state}, nil
}

// Advance is advance_hand: idempotent trigger to start
// the next hand.
func (s *Session) Advance() (GameState, error) {
	s.mu.Lock()
	if s.status == poker.StatusCompleted || s.status == poker.StatusError {
		st := s.buildState()
		s.mu.Unlock()
		return st, poker.ErrSessionTerminal
	}
	if s.engine.IsHandRunning() {
		st := s.buildState()
		s.mu.Unlock()
		return st, poker.ErrNotReady
	}
	if s.status == poker.StatusWaiting {
		s.status = poker.StatusRunning
	}
	needsLoop := s.startHandLocked()
	st := s.buildState()
	s.mu.Unlock()

	if needsLoop {
		go s.runLoop()
	}
	return st, nil
}

// End is end_game: transitions to Completed if
// not already terminal, and drains subscribers. The Session Registry is
// responsible for the grace-period removal from its directory; this
// method only concerns the session's own terminal state.
func (s *Session) End() []RankingEntry {
	s.mu.Lock()
	if s.status == poker.StatusCompleted || s.status == poker.StatusError {
		rankings := s.finalRankings
		s.mu.Unlock()
		return rankings
	}
	s.completeLocked()
	rankings := s.finalRankings
	s.mu.Unlock()

	s.cancel() // abort any in-flight LLM call or human mailbox wait
	return rankings
}

// Subscribe is subscribe(): attaches a bounded stream
// and immediately delivers the current snapshot to it alone.
func (s *Session) Subscribe() *eventbus.Subscription {
	sub := s.bus.Subscribe()
	s.mu.Lock()
	ev := eventbus.Event{Kind: eventbus.KindStateUpdate, Revision: s.revision, StateJSON: s.buildState()}
	s.mu.Unlock()
	s.bus.PublishTo(sub, ev)
	return sub
}

func (s *Session) completeLocked() {
	s.status = poker.StatusCompleted
	s.finalRankings = s.computeRankingsLocked()
	s.bumpRevisionLocked()
	s.emitStateUpdateLocked()
	s.emitTerminalLocked()
}

// enterError is the fatal path when the chip-conservation check after
// C1's correction still fails: emit Error + Terminal(empty rankings) and
// move to status Error. Called with mu held.
func (s *Session) enterError(cause error) {
	s.status = poker.StatusError
	s.finalRankings = nil
	s.emitErrorLocked("RulesEngineDefect", cause.Error())
	s.bumpRevisionLocked()
	s.emitStateUpdateLocked()
	s.emitTerminalLocked()
}

func (s *Session) computeRankingsLocked() []RankingEntry {
	seats := s.engine.Seats()
	out := make([]RankingEntry, len(seats))
	for i, sn := range seats {
		out[i] = RankingEntry{PlayerID: sn.PlayerID, Chips: sn.Chips}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Chips != out[j].Chips {
			return out[i].Chips > out[j].Chips
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out
}

func (s *Session) bumpRevisionLocked() { s.revision++ }

func (s *Session) emitStateUpdateLocked() {
	s.bus.Publish(eventbus.Event{Kind: eventbus.KindStateUpdate, Revision: s.revision, StateJSON: s.buildState()})
}

func (s *Session) emitActionAppliedLocked(rec poker.PlayerActionRecord) {
	if !*s.cfg.IncludeReasoningInEvents {
		rec.Reasoning = ""
	}
	s.bus.Publish(eventbus.Event{Kind: eventbus.KindActionApplied, Action: rec})
}

func (s *Session) emitErrorLocked(kind, detail string) {
	s.bus.Publish(eventbus.Event{Kind: eventbus.KindError, ErrorKind: kind, ErrorDetail: detail})
}

func (s *Session) emitTerminalLocked() {
	s.bus.Publish(eventbus.Event{Kind: eventbus.KindTerminal, FinalRankings: s.finalRankings})
	s.bus.Close()
}

func chipsOf(eng rules.Engine, seatID int) int {
	for _, sn := range eng.Seats() {
		if sn.PlayerID == seatID {
			return sn.Chips
		}
	}
	return 0
}
