// Package rulesengine is a reference implementation of the rules.Engine
// contract, adapted from internal/game
// (table.go, hand.go, betting.go, pot.go). It exists so the session core
// in internal/session can be exercised end-to-end by tests and by
// cmd/tablehost's demo — the core itself only ever depends on the
// rules.Engine interface, never on this package's concrete type.
//
// This engine deliberately reproduces the "phantom chips after fold"
// defect: when a hand ends because every other seat
// folded, the winner's chip stack is credited but the pot's internal
// Total is left non-zero. internal/session's C1 correction patches this
// after every applied action that ends a hand; this package does not fix
// it itself.
package rulesengine

import (
	"fmt"
	"math/rand"

	"github.com/riverrun/holdem/internal/poker"
	"github.com/riverrun/holdem/internal/rules"
)

// Config configures a new reference engine.
type Config struct {
	SmallBlind int
	BigBlind   int
	StartChips []int // per-seat starting chips, len == number of seats
	Seed       int64
}

type seat struct {
	playerID     int
	chips        int
	holeCards    []poker.Card
	folded       bool
	allIn        bool
	betThisRound int
	totalBetHand int
	acted        bool
	inHand       bool // dealt into the current hand
}

type pot struct {
	total    int
	eligible []int
}

// Engine is the reference rules.Engine implementation.
type Engine struct {
	cfg Config
	rng *rand.Rand

	seats      []*seat
	dealerPos  int // index into seats
	deck       []poker.Card
	board      []poker.Card
	phase      poker.Phase
	currentBet int
	minRaiseSz int // last raise increment, for computing the next min raise
	actionOn   int // index into seats, -1 when none
	toAct      map[int]bool
	pots       []pot
	handNumber int
	started    bool
}

var _ rules.Engine = (*Engine)(nil)

// New constructs a reference engine for len(cfg.StartChips) seats.
func New(cfg Config) *Engine {
	e := &Engine{
		cfg:      cfg,
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		phase:    poker.PreHand,
		actionOn: -1,
	}
	for i, chips := range cfg.StartChips {
		e.seats = append(e.seats, &seat{playerID: i, chips: chips})
	}
	e.dealerPos = -1
	return e
}

func (e *Engine) HandNumber() int { return e.handNumber }

func (e *Engine) HandPhase() poker.Phase { return e.phase }

func (e *Engine) Board() []poker.Card {
	out := make([]poker.Card, len(e.board))
	copy(out, e.board)
	return out
}

func (e *Engine) HandOf(playerID int) []poker.Card {
	s := e.seatByID(playerID)
	if s == nil {
		return nil
	}
	out := make([]poker.Card, len(s.holeCards))
	copy(out, s.holeCards)
	return out
}

func (e *Engine) seatByID(id int) *seat {
	for _, s := range e.seats {
		if s.playerID == id {
			return s
		}
	}
	return nil
}

func (e *Engine) seatIndexByID(id int) int {
	for i, s := range e.seats {
		if s.playerID == id {
			return i
		}
	}
	return -1
}

// IsGameRunning reports whether at least two seats still have chips.
func (e *Engine) IsGameRunning() bool {
	n := 0
	for _, s := range e.seats {
		if s.chips > 0 {
			n++
		}
	}
	return n >= 2
}

func (e *Engine) IsHandRunning() bool {
	switch e.phase {
	case poker.PreFlop, poker.Flop, poker.Turn, poker.River:
		return true
	default:
		return false
	}
}

func (e *Engine) CurrentPlayer() (int, bool) {
	if e.actionOn < 0 || e.actionOn >= len(e.seats) {
		return 0, false
	}
	if !e.phase.IsBettingPhase() {
		return 0, false
	}
	return e.seats[e.actionOn].playerID, true
}

// Pots reports the pots. While a hand is running they include the bets
// of the street in progress, so pot totals plus seat chips always equal
// the chips at the table.
func (e *Engine) Pots() []rules.PotSnapshot {
	pots := e.pots
	if e.IsHandRunning() {
		pots = e.buildPots()
	}
	out := make([]rules.PotSnapshot, len(pots))
	for i, p := range pots {
		elig := make([]int, len(p.eligible))
		copy(elig, p.eligible)
		out[i] = rules.PotSnapshot{PotID: i, Total: p.total, Eligible: elig}
	}
	return out
}

func (e *Engine) Seats() []rules.SeatSnapshot {
	out := make([]rules.SeatSnapshot, 0, len(e.seats))
	for _, s := range e.seats {
		out = append(out, rules.SeatSnapshot{
			PlayerID:     s.playerID,
			Chips:        s.chips,
			State:        e.seatState(s),
			HoleCards:    append([]poker.Card(nil), s.holeCards...),
			TotalBetHand: s.totalBetHand,
		})
	}
	return out
}

func (e *Engine) seatState(s *seat) poker.SeatState {
	switch {
	case !s.inHand:
		return poker.SeatSkip
	case s.folded:
		return poker.SeatFolded
	case s.allIn:
		return poker.SeatAllIn
	case e.phase.IsBettingPhase() && s.betThisRound < e.currentBet:
		return poker.SeatToCall
	default:
		return poker.SeatIn
	}
}

func (e *Engine) ChipsToCall(playerID int) int {
	s := e.seatByID(playerID)
	if s == nil {
		return 0
	}
	toCall := e.currentBet - s.betThisRound
	if toCall < 0 {
		return 0
	}
	if toCall > s.chips {
		return s.chips
	}
	return toCall
}

// MinRaise is the advisory minimum, deliberately the flat big blind
// regardless of the actual last-raise size. Spec §6.2's note exists
// precisely because real engines in this corpus diverge like this; the
// core must use GetAvailableMoves().MinTotal instead, never this value.
func (e *Engine) MinRaise() int {
	return e.cfg.BigBlind
}

func (e *Engine) GetAvailableMoves() rules.AvailableMoves {
	playerID, ok := e.CurrentPlayer()
	if !ok {
		return rules.AvailableMoves{}
	}
	s := e.seatByID(playerID)
	toCall := e.ChipsToCall(playerID)

	var legal []poker.ActionKind
	legal = append(legal, poker.Fold)
	if toCall == 0 {
		legal = append(legal, poker.Check)
	} else {
		legal = append(legal, poker.Call)
	}

	minTotal, maxTotal := 0, 0
	maxTotal = s.betThisRound + s.chips
	minIncrement := e.minRaiseSz
	if minIncrement < e.cfg.BigBlind {
		minIncrement = e.cfg.BigBlind
	}
	minTotal = e.currentBet + minIncrement
	if s.chips > toCall && maxTotal > e.currentBet {
		if minTotal > maxTotal {
			minTotal = maxTotal // can only go all-in, short of the "real" min raise
		}
		legal = append(legal, poker.Raise)
	} else {
		minTotal, maxTotal = 0, 0
	}

	return rules.AvailableMoves{Legal: legal, MinTotal: minTotal, MaxTotal: maxTotal}
}

func (e *Engine) ValidateMove(playerID int, action poker.Action) bool {
	cur, ok := e.CurrentPlayer()
	if !ok || cur != playerID {
		return false
	}
	moves := e.GetAvailableMoves()
	if !moves.Allows(action.Kind) {
		return false
	}
	if action.Kind == poker.Raise {
		return action.Amount >= moves.MinTotal && action.Amount <= moves.MaxTotal
	}
	return true
}

func (e *Engine) HandStrength(playerID int) float64 {
	s := e.seatByID(playerID)
	if s == nil || len(s.holeCards) == 0 {
		return 0
	}
	return strengthPercentile(s.holeCards, e.board)
}

// ZeroPots clears every pot's total. Used by the session core's C1
// correction to patch this engine's deliberate post-fold defect (see the
// package doc comment); never called as part of ordinary hand play.
func (e *Engine) ZeroPots() {
	for i := range e.pots {
		e.pots[i].total = 0
	}
}

// ActingOrder returns seats dealt into the current hand starting from the
// seat after the button, matching the order StartHand deals action to.
func (e *Engine) ActingOrder() []int {
	if e.dealerPos < 0 {
		return nil
	}
	var out []int
	n := len(e.seats)
	for i := 1; i <= n; i++ {
		s := e.seats[(e.dealerPos+i)%n]
		if s.inHand {
			out = append(out, s.playerID)
		}
	}
	return out
}

func (e *Engine) String() string {
	return fmt.Sprintf("Engine{phase=%s hand=%d seats=%d}", e.phase, e.handNumber, len(e.seats))
}
