// Package rules defines the Rules Engine contract the session core
// consumes. This package holds only the interface and its
// supporting DTOs; the core never depends on a concrete implementation.
// internal/rulesengine provides one such implementation for tests and the
// demo command, but it is a consumer of this contract, not part of it.
package rules

import "github.com/riverrun/holdem/internal/poker"

// AvailableMoves is the legal action set and raise range reported by
// get_available_moves(). Range is the concrete, enforced
// raise range the core always uses for validation: the
// min_raise() advisory is known to diverge from it and is never used for
// validation.
type AvailableMoves struct {
	Legal []poker.ActionKind
	// MinTotal, MaxTotal bound a legal Raise's Amount (the new total bet
	// for the street). Both are zero when Raise is not legal.
	MinTotal int
	MaxTotal int
}

// Allows reports whether kind is present in the legal set.
func (m AvailableMoves) Allows(kind poker.ActionKind) bool {
	for _, k := range m.Legal {
		if k == kind {
			return true
		}
	}
	return false
}

// PotSnapshot mirrors one entry from pots().
type PotSnapshot struct {
	PotID     int
	Total     int
	Eligible  []int // player ids eligible to win this pot
}

// SeatSnapshot mirrors the engine's per-seat truth the core projects into
// its own Seat.State cache.
type SeatSnapshot struct {
	PlayerID     int
	Chips        int
	State        poker.SeatState
	HoleCards    []poker.Card
	TotalBetHand int // total chips this seat has committed during the hand
}

// Engine is the Rules Engine contract. All methods are
// synchronous and treated as non-blocking CPU work — no
// Engine call is a suspension point.
type Engine interface {
	// IsGameRunning reports whether the table is solvent (at least two
	// seats with chips).
	IsGameRunning() bool

	// IsHandRunning reports whether a hand is in PreFlop..River.
	IsHandRunning() bool

	// StartHand deals hole cards, posts blinds, and advances to PreFlop.
	// It is only valid to call when no hand is running.
	StartHand() error

	// CurrentPlayer returns the seat id with a decision pending, and
	// whether one is defined right now (only during betting phases).
	CurrentPlayer() (playerID int, ok bool)

	// HandPhase returns the current phase.
	HandPhase() poker.Phase

	// Board returns the ordered community cards dealt so far.
	Board() []poker.Card

	// HandOf returns a seat's hole cards.
	HandOf(seat int) []poker.Card

	// ChipsToCall returns the non-negative amount the given seat must add
	// to remain in the hand.
	ChipsToCall(seat int) int

	// MinRaise is the engine's advisory minimum raise. It is
	// known to diverge from the enforced range and MUST NOT be used for
	// validation or for the min_raise_amount surfaced to callers/LLMs —
	// GetAvailableMoves().MinTotal is authoritative for both.
	MinRaise() int

	// GetAvailableMoves returns the legal action set and the concrete,
	// enforced raise range for the current decision.
	GetAvailableMoves() AvailableMoves

	// ValidateMove reports whether the given action is legal right now.
	ValidateMove(seat int, action poker.Action) bool

	// TakeAction applies an action. It may advance the phase. The action
	// passed here MUST already be legal (the core only calls this with
	// the validator's output).
	TakeAction(action poker.Action) error

	// Pots returns the current pot list.
	Pots() []PotSnapshot

	// Seats returns a snapshot of every seat's engine-side truth.
	Seats() []SeatSnapshot

	// HandNumber returns the 1-based number of the hand currently being
	// played (or most recently completed while in Settle/PreHand); it is 0
	// before the first hand starts.
	HandNumber() int

	// HandStrength reports a seat's normalized best-5-of-7 rank
	// percentile in [0,1], consumed by the Hand Analyzer. It
	// is defined at any point a seat has hole cards dealt and is computed
	// from the hole cards plus the board cards dealt so far; cards not yet
	// dealt are not taken into account.
	HandStrength(seat int) float64

	// ActingOrder returns the seats dealt into the current hand, in
	// dealer-relative acting order (first-to-act after the button
	// first), for use by the Hand Analyzer's position bucketing
	// (bucketed by index relative to the dealer button).
	ActingOrder() []int

	// ZeroPots clears every pot's Total to zero without touching seat
	// chips. It is the hook the Phantom-Chip Correction
	// uses to patch the engine's known post-fold defect: the engine
	// itself does not zero pot totals after crediting a fold-ending
	// winner, so the core does it through this contract method instead
	// of reaching into engine internals.
	ZeroPots()
}
