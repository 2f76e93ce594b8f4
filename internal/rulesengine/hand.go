package rulesengine

import (
	"fmt"

	"github.com/riverrun/holdem/internal/poker"
)

// StartHand deals hole cards, posts blinds, and advances to PreFlop,
// following internal/game/table.go's deal-and-post sequence.
func (e *Engine) StartHand() error {
	if e.IsHandRunning() {
		return fmt.Errorf("hand already running")
	}
	if !e.IsGameRunning() {
		return fmt.Errorf("not enough seats with chips")
	}

	for _, s := range e.seats {
		s.holeCards = nil
		s.folded = false
		s.allIn = false
		s.betThisRound = 0
		s.totalBetHand = 0
		s.acted = false
		s.inHand = s.chips > 0
	}
	e.board = nil
	e.pots = nil
	e.currentBet = 0
	e.minRaiseSz = e.cfg.BigBlind

	e.dealerPos = e.nextSeatIdx(e.dealerPos, func(s *seat) bool { return s.inHand })

	e.deck = poker.FullDeck()
	e.shuffle(e.deck)
	for i := range e.seats {
		if e.seats[i].inHand {
			e.seats[i].holeCards = e.draw(2)
		}
	}

	active := e.activeIndexes()
	var sbIdx, bbIdx int
	if len(active) == 2 {
		// Heads-up: dealer posts small blind.
		sbIdx = e.dealerPos
		bbIdx = e.nextSeatIdx(e.dealerPos, func(s *seat) bool { return s.inHand })
	} else {
		sbIdx = e.nextSeatIdx(e.dealerPos, func(s *seat) bool { return s.inHand })
		bbIdx = e.nextSeatIdx(sbIdx, func(s *seat) bool { return s.inHand })
	}
	e.postBlind(sbIdx, e.cfg.SmallBlind)
	e.postBlind(bbIdx, e.cfg.BigBlind)
	e.currentBet = e.cfg.BigBlind

	e.phase = poker.PreFlop
	e.actionOn = e.nextSeatIdx(bbIdx, func(s *seat) bool { return e.canAct(s) })
	e.resetActedFlags()
	e.handNumber++
	e.skipAheadIfNoDeciders()
	return nil
}

func (e *Engine) postBlind(idx int, amount int) {
	s := e.seats[idx]
	if amount > s.chips {
		amount = s.chips
	}
	s.chips -= amount
	s.betThisRound += amount
	s.totalBetHand += amount
	if s.chips == 0 {
		s.allIn = true
	}
}

func (e *Engine) shuffle(cards []poker.Card) {
	for i := len(cards) - 1; i > 0; i-- {
		j := e.rng.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

func (e *Engine) draw(n int) []poker.Card {
	out := make([]poker.Card, 0, n)
	for i := 0; i < n && len(e.deck) > 0; i++ {
		out = append(out, e.deck[0])
		e.deck = e.deck[1:]
	}
	return out
}

func (e *Engine) activeIndexes() []int {
	var out []int
	for i, s := range e.seats {
		if s.inHand {
			out = append(out, i)
		}
	}
	return out
}

func (e *Engine) nextSeatIdx(from int, pred func(*seat) bool) int {
	n := len(e.seats)
	if n == 0 {
		return -1
	}
	for i := 1; i <= n; i++ {
		idx := (from + i) % n
		if pred(e.seats[idx]) {
			return idx
		}
	}
	return -1
}

func (e *Engine) canAct(s *seat) bool {
	return s.inHand && !s.folded && !s.allIn
}

func (e *Engine) resetActedFlags() {
	for _, s := range e.seats {
		s.acted = false
	}
}

func (e *Engine) liveSeats() []*seat {
	var out []*seat
	for _, s := range e.seats {
		if s.inHand && !s.folded {
			out = append(out, s)
		}
	}
	return out
}

func (e *Engine) decidersRemaining() int {
	n := 0
	for _, s := range e.seats {
		if e.canAct(s) {
			n++
		}
	}
	return n
}

// skipAheadIfNoDeciders advances straight to Settle when fewer than two
// seats can still act (everyone else is all-in, or only one live seat
// remains): if the Rules Engine reports a hand with no
// active decider, skip betting phases and proceed directly to Settle.
func (e *Engine) skipAheadIfNoDeciders() {
	for {
		live := e.liveSeats()
		if len(live) <= 1 {
			e.settle()
			return
		}
		if e.decidersRemaining() >= 2 {
			return
		}
		if e.phase == poker.River {
			e.dealRemainingBoardIfAllIn()
			e.settle()
			return
		}
		e.advancePhaseNoActors()
	}
}

func (e *Engine) dealRemainingBoardIfAllIn() {
	for len(e.board) < 5 {
		e.board = append(e.board, e.draw(1)...)
	}
}

func (e *Engine) advancePhaseNoActors() {
	e.collectBetsIntoPots()
	e.advancePhaseCards()
	e.actionOn = -1
}
