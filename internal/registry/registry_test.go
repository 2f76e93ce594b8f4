package registry

import (
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riverrun/holdem/internal/poker"
	"github.com/riverrun/holdem/internal/rules"
	"github.com/riverrun/holdem/internal/rulesengine"
	"github.com/riverrun/holdem/internal/session"
)

func testLogger() zerolog.Logger { return zerolog.New(io.Discard) }

func referenceEngineFactory(seatChips []int, smallBlind, bigBlind int, seed int64) rules.Engine {
	return rulesengine.New(rulesengine.Config{SmallBlind: smallBlind, BigBlind: bigBlind, StartChips: seatChips, Seed: seed})
}

func testSessionConfig() session.Config {
	return session.Config{
		MaxPlayers: 2,
		Buyin:      1000,
		SmallBlind: 10,
		BigBlind:   20,
		MaxHands:   1,
		Agents: map[int]poker.AgentKind{
			0: poker.HumanAgentKind(),
			1: poker.HumanAgentKind(),
		},
		NewEngine: referenceEngineFactory,
	}
}

func TestCreateGetAndListGameIDs(t *testing.T) {
	reg := New(Config{MaxSessions: 2}, testLogger())

	s, err := reg.Create(testSessionConfig())
	require.NoError(t, err)

	got, err := reg.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)

	assert.Contains(t, reg.ListGameIDs(), s.ID())
}

func TestGetUnknownGameReturnsGameNotFound(t *testing.T) {
	reg := New(Config{MaxSessions: 1}, testLogger())
	_, err := reg.Get("does-not-exist")
	assert.ErrorIs(t, err, poker.ErrGameNotFound)
}

func TestCreateBeyondCapacityReturnsOverloaded(t *testing.T) {
	reg := New(Config{MaxSessions: 1}, testLogger())

	_, err := reg.Create(testSessionConfig())
	require.NoError(t, err)

	_, err = reg.Create(testSessionConfig())
	assert.ErrorIs(t, err, poker.ErrOverloaded)
}

func TestEndSchedulesRemovalAfterGracePeriod(t *testing.T) {
	reg := New(Config{MaxSessions: 1, GraceDuration: 10 * time.Millisecond}, testLogger())

	s, err := reg.Create(testSessionConfig())
	require.NoError(t, err)

	_, err = reg.End(s.ID())
	require.NoError(t, err)

	// Still present immediately after End (grace period).
	_, err = reg.Get(s.ID())
	assert.NoError(t, err)

	require.Eventually(t, func() bool {
		_, err := reg.Get(s.ID())
		return err != nil
	}, time.Second, time.Millisecond, "session should be removed once the grace period elapses")

	// Capacity freed up, so a new session can now be created.
	_, err = reg.Create(testSessionConfig())
	assert.NoError(t, err)
}
