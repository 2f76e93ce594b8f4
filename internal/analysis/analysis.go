// Package analysis implements the Hand Analyzer: pure,
// read-through helpers over a rules.Engine snapshot. Nothing here mutates
// the engine.
package analysis

import "github.com/riverrun/holdem/internal/rules"

// Position buckets a seat relative to the dealer button.
type Position string

const (
	Early  Position = "early"
	Middle Position = "middle"
	Late   Position = "late"
)

// Strength returns the engine-reported normalized rank percentile for a
// seat's best 5-card hand.
func Strength(engine rules.Engine, seatID int) float64 {
	return engine.HandStrength(seatID)
}

// PotOdds returns chips_to_call / (current_pot + chips_to_call), or nil
// when chips_to_call is zero.
func PotOdds(engine rules.Engine, seatID int) *float64 {
	toCall := engine.ChipsToCall(seatID)
	if toCall == 0 {
		return nil
	}
	pot := 0
	for _, p := range engine.Pots() {
		pot += p.Total
	}
	odds := float64(toCall) / float64(pot+toCall)
	return &odds
}

// PositionOf buckets seatID into Early/Middle/Late based on its index in
// the acting order relative to the dealer button, using the order seats
// are returned in. seatOrder is the acting order for the hand (e.g. the
// dealer-relative seating), supplied by the caller since rules.Engine
// does not expose button position directly.
func PositionOf(seatOrder []int, seatID int) Position {
	n := len(seatOrder)
	if n == 0 {
		return Middle
	}
	idx := -1
	for i, id := range seatOrder {
		if id == seatID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Middle
	}
	third := n / 3
	if third == 0 {
		third = 1
	}
	switch {
	case idx < third:
		return Early
	case idx < 2*third:
		return Middle
	default:
		return Late
	}
}
