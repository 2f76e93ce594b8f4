package human

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riverrun/holdem/internal/agents"
	"github.com/riverrun/holdem/internal/poker"
	"github.com/riverrun/holdem/internal/rules"
)

func TestProposeFailsWhenNoTurnPending(t *testing.T) {
	b := New(3)
	assert.False(t, b.Propose(poker.NewCheck()))
}

func TestDecideReturnsProposedAction(t *testing.T) {
	b := New(1)
	dc := agents.DecisionContext{Moves: rules.AvailableMoves{Legal: []poker.ActionKind{poker.Check, poker.Call}}}

	result := make(chan agents.Decision, 1)
	errs := make(chan error, 1)
	go func() {
		d, err := b.Decide(context.Background(), dc)
		result <- d
		errs <- err
	}()

	// Give Decide a moment to register the mailbox before proposing.
	require.Eventually(t, func() bool { return b.Propose(poker.NewCall()) }, time.Second, time.Millisecond)

	decision := <-result
	require.NoError(t, <-errs)
	assert.Equal(t, poker.NewCall(), decision.Action)
}

func TestDecideTimesOutToCheckWhenAvailable(t *testing.T) {
	b := New(2)
	dc := agents.DecisionContext{Moves: rules.AvailableMoves{Legal: []poker.ActionKind{poker.Fold, poker.Check, poker.Raise}}}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	decision, err := b.Decide(ctx, dc)
	require.Error(t, err)
	assert.Equal(t, poker.NewCheck(), decision.Action)
}

func TestDecideTimesOutToFoldWhenCheckUnavailable(t *testing.T) {
	b := New(2)
	dc := agents.DecisionContext{Moves: rules.AvailableMoves{Legal: []poker.ActionKind{poker.Fold, poker.Call, poker.Raise}}}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	decision, err := b.Decide(ctx, dc)
	require.Error(t, err)
	assert.Equal(t, poker.NewFold(), decision.Action)
}

func TestProposeIgnoredAfterMailboxCleared(t *testing.T) {
	b := New(1)
	dc := agents.DecisionContext{Moves: rules.AvailableMoves{Legal: []poker.ActionKind{poker.Check}}}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	_, _ = b.Decide(ctx, dc)

	// The turn already resolved via timeout; a late Propose must be a no-op.
	assert.False(t, b.Propose(poker.NewCall()))
}
