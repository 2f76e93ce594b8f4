package rulesengine

import (
	"fmt"
	"sort"

	"github.com/riverrun/holdem/internal/poker"
)

// TakeAction applies a (pre-validated) action for the current player and
// advances the betting round/phase as needed, following
// table_actions.go's AdvanceAction/AdvanceBettingRound shape.
func (e *Engine) TakeAction(action poker.Action) error {
	playerID, ok := e.CurrentPlayer()
	if !ok {
		return fmt.Errorf("no current player")
	}
	s := e.seatByID(playerID)
	if !e.ValidateMove(playerID, action) {
		return fmt.Errorf("illegal action %v for seat %d", action, playerID)
	}

	switch action.Kind {
	case poker.Fold:
		s.folded = true
	case poker.Check:
		// no-op
	case poker.Call:
		toCall := e.ChipsToCall(playerID)
		s.chips -= toCall
		s.betThisRound += toCall
		s.totalBetHand += toCall
		if s.chips == 0 {
			s.allIn = true
		}
	case poker.Raise:
		increment := action.Amount - e.currentBet
		delta := action.Amount - s.betThisRound
		if delta > s.chips {
			delta = s.chips
		}
		s.chips -= delta
		s.betThisRound += delta
		s.totalBetHand += delta
		if s.chips == 0 {
			s.allIn = true
		}
		if s.betThisRound > e.currentBet {
			if increment > e.minRaiseSz {
				e.minRaiseSz = increment
			}
			e.currentBet = s.betThisRound
			e.reopenAction(playerID)
		}
	}
	s.acted = true

	if len(e.liveSeats()) <= 1 {
		e.settle()
		return nil
	}

	e.advanceAction()
	return nil
}

// reopenAction clears the acted flag for every other seat still able to
// act, since a raise reopens the action for them.
func (e *Engine) reopenAction(exceptPlayerID int) {
	for _, s := range e.seats {
		if s.playerID != exceptPlayerID && e.canAct(s) {
			s.acted = false
		}
	}
}

func (e *Engine) advanceAction() {
	if e.roundComplete() {
		e.collectBetsIntoPots()
		if e.phase == poker.River {
			e.settle()
			return
		}
		e.advancePhaseCards()
		e.skipAheadIfNoDeciders()
		return
	}
	next := e.nextSeatIdx(e.actionOn, func(s *seat) bool { return e.canAct(s) && !s.acted })
	if next == -1 {
		// Everyone who can act has acted but bets aren't level on one
		// seat's own turn boundary (can happen after an all-in call) —
		// re-check completion from scratch.
		next = e.nextSeatIdx(e.actionOn, func(s *seat) bool { return e.canAct(s) })
	}
	e.actionOn = next
}

func (e *Engine) roundComplete() bool {
	for _, s := range e.seats {
		if !e.canAct(s) {
			continue
		}
		if !s.acted || s.betThisRound != e.currentBet {
			return false
		}
	}
	return true
}

func (e *Engine) advancePhaseCards() {
	switch e.phase {
	case poker.PreFlop:
		e.board = append(e.board, e.draw(3)...)
		e.phase = poker.Flop
	case poker.Flop:
		e.board = append(e.board, e.draw(1)...)
		e.phase = poker.Turn
	case poker.Turn:
		e.board = append(e.board, e.draw(1)...)
		e.phase = poker.River
	default:
		return
	}
	e.currentBet = 0
	e.minRaiseSz = e.cfg.BigBlind
	for _, s := range e.seats {
		s.betThisRound = 0
	}
	e.resetActedFlags()
	e.actionOn = e.nextSeatIdx(e.dealerPos, func(s *seat) bool { return e.canAct(s) })
}

// collectBetsIntoPots folds every seat's betThisRound into pots and
// clears the street's bets.
func (e *Engine) collectBetsIntoPots() {
	e.pots = e.buildPots()
	for _, s := range e.seats {
		s.betThisRound = 0
	}
}

// buildPots computes the pots from every seat's total commitment this
// hand, constructing side pots at each distinct all-in level, following
// the teacher's PotManager.CalculateSidePots. It does not modify the
// engine.
func (e *Engine) buildPots() []pot {
	live := e.liveSeats()
	if len(live) == 0 {
		return e.pots
	}

	levels := map[int]bool{}
	for _, s := range live {
		if s.totalBetHand > 0 {
			levels[s.totalBetHand] = true
		}
	}
	sorted := make([]int, 0, len(levels))
	for lvl := range levels {
		sorted = append(sorted, lvl)
	}
	sort.Ints(sorted)

	var newPots []pot
	prev := 0
	for _, lvl := range sorted {
		p := pot{}
		for _, s := range e.seats {
			if !s.inHand {
				continue
			}
			contribution := s.totalBetHand - prev
			if contribution > lvl-prev {
				contribution = lvl - prev
			}
			if contribution > 0 {
				p.total += contribution
			}
			if !s.folded && s.totalBetHand >= lvl {
				p.eligible = append(p.eligible, s.playerID)
			}
		}
		if p.total > 0 && len(p.eligible) > 0 {
			newPots = append(newPots, p)
		}
		prev = lvl
	}
	return newPots
}

// settle resolves the hand: a single live seat wins every pot outright
// (and the phantom-chip defect is reproduced here — pot.total is NOT
// zeroed in that branch); otherwise pots are awarded by
// showdown strength, split evenly among tied winners with any odd chip
// going to the lowest player id, and pots ARE zeroed on this path.
func (e *Engine) settle() {
	e.collectBetsIntoPots()
	live := e.liveSeats()

	if len(live) == 1 {
		winner := live[0]
		for i := range e.pots {
			winner.chips += e.pots[i].total
			// Defect: e.pots[i].total is deliberately left non-zero.
		}
	} else {
		for i := range e.pots {
			e.awardPotByShowdown(i)
			e.pots[i].total = 0
		}
	}

	e.phase = poker.PreHand
	e.actionOn = -1
}

func (e *Engine) awardPotByShowdown(potIdx int) {
	p := &e.pots[potIdx]
	if len(p.eligible) == 0 || p.total == 0 {
		return
	}

	best := -1.0
	var winners []int
	for _, pid := range p.eligible {
		s := e.seatByID(pid)
		if s == nil || s.folded {
			continue
		}
		strength := strengthPercentile(s.holeCards, e.board)
		if strength > best {
			best = strength
			winners = []int{pid}
		} else if strength == best {
			winners = append(winners, pid)
		}
	}
	if len(winners) == 0 {
		return
	}
	sort.Ints(winners)

	share := p.total / len(winners)
	remainder := p.total - share*len(winners)
	for _, pid := range winners {
		s := e.seatByID(pid)
		s.chips += share
	}
	if remainder > 0 {
		e.seatByID(winners[0]).chips += remainder
	}
}
