package rulesengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riverrun/holdem/internal/poker"
)

func newTestEngine(t *testing.T, seats int, chips int) *Engine {
	t.Helper()
	start := make([]int, seats)
	for i := range start {
		start[i] = chips
	}
	e := New(Config{SmallBlind: 10, BigBlind: 20, StartChips: start, Seed: 42})
	require.NoError(t, e.StartHand())
	return e
}

func totalChips(e *Engine) int {
	total := 0
	for _, s := range e.Seats() {
		total += s.Chips
	}
	for _, p := range e.Pots() {
		total += p.Total
	}
	return total
}

func TestStartHandPostsBlindsAndDealsHoleCards(t *testing.T) {
	e := newTestEngine(t, 3, 1000)

	assert.Equal(t, poker.PreFlop, e.HandPhase())
	for _, s := range e.Seats() {
		assert.Len(t, s.HoleCards, 2)
	}
	assert.Equal(t, 3000, totalChips(e))
}

func TestFoldEndsHandReproducesPhantomChipDefect(t *testing.T) {
	e := newTestEngine(t, 3, 1000)

	before := totalChips(e)
	for e.IsHandRunning() {
		pid, ok := e.CurrentPlayer()
		require.True(t, ok)
		require.NoError(t, e.TakeAction(poker.NewFold()))
		_ = pid
	}

	// settle() credits the winner's chips but leaves every pot's total
	// non-zero on the single-live-seat path — the bug
	// the session core's reconcile step exists to patch, never this
	// reference engine itself.
	var potTotal int
	for _, p := range e.Pots() {
		potTotal += p.Total
	}
	assert.Positive(t, potTotal, "fold-ends-hand should leave a nonzero pot total")
	assert.Equal(t, before+potTotal, totalChips(e), "winner's credited chips double count the leftover pot")

	e.ZeroPots()
	assert.Equal(t, before, totalChips(e), "ZeroPots reconciles the double count")
}

func TestShowdownZeroesPotsAndConservesChips(t *testing.T) {
	e := newTestEngine(t, 2, 500)
	before := totalChips(e)

	for e.IsHandRunning() {
		pid, ok := e.CurrentPlayer()
		require.True(t, ok)
		moves := e.GetAvailableMoves()
		if moves.Allows(poker.Call) {
			require.NoError(t, e.TakeAction(poker.NewCall()))
		} else {
			require.NoError(t, e.TakeAction(poker.NewCheck()))
		}
		_ = pid
	}

	for _, p := range e.Pots() {
		assert.Zero(t, p.Total, "showdown path zeroes every pot")
	}
	assert.Equal(t, before, totalChips(e))
}

func TestActingOrderStartsAfterDealer(t *testing.T) {
	e := newTestEngine(t, 4, 1000)
	order := e.ActingOrder()
	require.Len(t, order, 4)

	want := make([]int, 0, 4)
	for i := 1; i <= 4; i++ {
		want = append(want, e.seats[(e.dealerPos+i)%4].playerID)
	}
	assert.Equal(t, want, order)
}

func TestMinRaiseAndValidateMove(t *testing.T) {
	e := newTestEngine(t, 2, 1000)
	moves := e.GetAvailableMoves()
	assert.True(t, moves.Allows(poker.Raise))
	assert.GreaterOrEqual(t, moves.MinTotal, e.currentBet)

	pid, ok := e.CurrentPlayer()
	require.True(t, ok)
	assert.True(t, e.ValidateMove(pid, poker.NewRaise(moves.MinTotal)))
	assert.False(t, e.ValidateMove(pid, poker.NewRaise(moves.MaxTotal+1)))
}
