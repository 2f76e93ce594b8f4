package session

import (
	"fmt"

	"github.com/riverrun/holdem/internal/poker"
	"github.com/riverrun/holdem/internal/rules"
)

// reconcile implements the Phantom-Chip Correction.
//
// The reference Rules Engine deliberately reproduces a known defect: when
// a hand ends by fold (one remaining player), the winner's chip stack is
// credited but the pot's internal Total is left non-zero. Left
// uncorrected, the stale total would be double-counted against
// s.expectedTotal on the very next observation.
//
// Policy: compute delta = (Σ pot.total + Σ seat.chips) −
// expected_total. If delta > 0, zero every pot's total via
// rules.Engine.ZeroPots, then reassert invariant 4. On failure even after
// correction, the session transitions to StatusError — that failure is
// not this defect, it is something the reference engine got wrong in a
// way C1 cannot patch.
func (s *Session) reconcile() error {
	eng := s.engine
	observed := sumPots(eng) + sumChips(eng)
	if observed > s.expectedTotal {
		eng.ZeroPots()
	}

	observed = sumPots(eng) + sumChips(eng)
	if observed != s.expectedTotal {
		err := fmt.Errorf("%w: observed %d, expected %d", poker.ErrRulesEngineDefect, observed, s.expectedTotal)
		s.enterError(err)
		return err
	}
	return nil
}

func sumPots(eng rules.Engine) int {
	total := 0
	for _, p := range eng.Pots() {
		total += p.Total
	}
	return total
}

func sumChips(eng rules.Engine) int {
	total := 0
	for _, s := range eng.Seats() {
		total += s.Chips
	}
	return total
}
