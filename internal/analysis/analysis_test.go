package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riverrun/holdem/internal/rulesengine"
)

func TestStrengthDelegatesToEngine(t *testing.T) {
	e := rulesengine.New(rulesengine.Config{SmallBlind: 10, BigBlind: 20, StartChips: []int{1000, 1000}, Seed: 3})
	require.NoError(t, e.StartHand())
	pid, ok := e.CurrentPlayer()
	require.True(t, ok)

	s := Strength(e, pid)
	assert.GreaterOrEqual(t, s, 0.0)
	assert.LessOrEqual(t, s, 1.0)
}

func TestPotOddsNilWhenNothingToCall(t *testing.T) {
	e := rulesengine.New(rulesengine.Config{SmallBlind: 10, BigBlind: 20, StartChips: []int{1000, 1000}, Seed: 3})
	require.NoError(t, e.StartHand())
	pid, ok := e.CurrentPlayer()
	require.True(t, ok)

	if e.ChipsToCall(pid) == 0 {
		assert.Nil(t, PotOdds(e, pid))
	} else {
		odds := PotOdds(e, pid)
		require.NotNil(t, odds)
		assert.Greater(t, *odds, 0.0)
		assert.Less(t, *odds, 1.0)
	}
}

func TestPositionOfBucketsByActingOrderIndex(t *testing.T) {
	order := []int{0, 1, 2, 3, 4, 5}
	assert.Equal(t, Early, PositionOf(order, 0))
	assert.Equal(t, Middle, PositionOf(order, 2))
	assert.Equal(t, Late, PositionOf(order, 5))
}

func TestPositionOfUnknownSeatDefaultsMiddle(t *testing.T) {
	assert.Equal(t, Middle, PositionOf([]int{0, 1, 2}, 99))
	assert.Equal(t, Middle, PositionOf(nil, 0))
}
