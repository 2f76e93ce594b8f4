package rule

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riverrun/holdem/internal/agents"
	"github.com/riverrun/holdem/internal/analysis"
	"github.com/riverrun/holdem/internal/poker"
	"github.com/riverrun/holdem/internal/rulesengine"
)

func decisionContextFor(t *testing.T, seats, chips int) agents.DecisionContext {
	t.Helper()
	start := make([]int, seats)
	for i := range start {
		start[i] = chips
	}
	e := rulesengine.New(rulesengine.Config{SmallBlind: 10, BigBlind: 20, StartChips: start, Seed: 7})
	require.NoError(t, e.StartHand())
	pid, ok := e.CurrentPlayer()
	require.True(t, ok)
	return agents.DecisionContext{
		Engine:    e,
		SeatID:    pid,
		Moves:     e.GetAvailableMoves(),
		SeatOrder: e.ActingOrder(),
	}
}

func TestConstructorForKnownAndUnknownNames(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for _, name := range All {
		_, ok := ConstructorFor(name, rng)
		assert.True(t, ok, "expected %q to be constructible", name)
	}

	_, ok := ConstructorFor(Name("nonexistent"), rng)
	assert.False(t, ok)
}

func TestCallAgentChecksWhenNothingToCall(t *testing.T) {
	dc := decisionContextFor(t, 2, 1000)
	// Heads-up preflop: the small blind calls, leaving the big blind with
	// nothing to call.
	require.NoError(t, dc.Engine.TakeAction(poker.NewCall()))
	pid, ok := dc.Engine.CurrentPlayer()
	require.True(t, ok)
	dc.SeatID = pid
	dc.Moves = dc.Engine.GetAvailableMoves()
	require.Zero(t, dc.Engine.ChipsToCall(pid))

	a := New(Call, rand.New(rand.NewSource(1)))
	decision, err := a.Decide(context.Background(), dc)
	require.NoError(t, err)
	assert.True(t, dc.Moves.Allows(decision.Action.Kind))
	assert.Equal(t, poker.Check, decision.Action.Kind)
}

func TestRandomAgentAlwaysReturnsLegalAction(t *testing.T) {
	dc := decisionContextFor(t, 3, 1000)
	a := New(Random, rand.New(rand.NewSource(2)))
	for i := 0; i < 20; i++ {
		decision, err := a.Decide(context.Background(), dc)
		require.NoError(t, err)
		assert.True(t, dc.Moves.Allows(decision.Action.Kind))
		if decision.Action.Kind == poker.Raise {
			assert.GreaterOrEqual(t, decision.Action.Amount, dc.Moves.MinTotal)
			assert.LessOrEqual(t, decision.Action.Amount, dc.Moves.MaxTotal)
		}
	}
}

func TestAggressiveRandomExcludesFoldWhenOtherOptionsExist(t *testing.T) {
	dc := decisionContextFor(t, 3, 1000)
	require.True(t, dc.Moves.Allows(poker.Fold))
	require.True(t, len(dc.Moves.Legal) > 1)

	a := New(AggressiveRandom, rand.New(rand.NewSource(3)))
	for i := 0; i < 30; i++ {
		decision, err := a.Decide(context.Background(), dc)
		require.NoError(t, err)
		assert.NotEqual(t, poker.Fold, decision.Action.Kind)
	}
}

func TestTightAgentFoldsWeakHandsFacingABet(t *testing.T) {
	dc := decisionContextFor(t, 2, 1000)
	require.True(t, dc.Moves.Allows(poker.Fold))
	// Preflop, two hole cards score well below tight's 0.35 fold line.
	require.Positive(t, dc.Engine.ChipsToCall(dc.SeatID))
	require.Less(t, analysis.Strength(dc.Engine, dc.SeatID), 0.35)

	a := New(Tight, rand.New(rand.NewSource(4)))
	decision, err := a.Decide(context.Background(), dc)
	require.NoError(t, err)
	assert.True(t, dc.Moves.Allows(decision.Action.Kind))
	assert.Equal(t, poker.Fold, decision.Action.Kind)
}

func TestUnknownPersonalityFoldsSafely(t *testing.T) {
	dc := decisionContextFor(t, 2, 1000)
	a := New(Name("made-up"), rand.New(rand.NewSource(5)))
	decision, err := a.Decide(context.Background(), dc)
	require.NoError(t, err)
	assert.Equal(t, poker.Fold, decision.Action.Kind)
}
