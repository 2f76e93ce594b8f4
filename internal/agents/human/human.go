// Package human implements the Human Input Bridge: a
// single-slot mailbox per human seat, consumed by the Session
// Orchestrator's turn loop as a suspension point. Grounded in
// internal/server/network_agent.go's NetworkAgent, which
// bridges a remote client's decision to the table through exactly this
// kind of decision channel plus a context.WithTimeout race.
package human

import (
	"context"
	"sync"

	"github.com/riverrun/holdem/internal/agents"
	"github.com/riverrun/holdem/internal/poker"
)

// Bridge owns one human seat's mailbox.
type Bridge struct {
	seatID int

	mu      sync.Mutex
	current chan poker.Action // non-nil only while a turn is pending for this seat
}

// New constructs a bridge for a human seat.
func New(seatID int) *Bridge {
	return &Bridge{seatID: seatID}
}

var _ agents.Decider = (*Bridge)(nil)

// Propose delivers an action to this seat's mailbox iff a turn is
// currently pending for it. It never blocks: if no turn is pending, or one
// already has a value in flight, it returns false without touching
// state. The caller (Session.ProposeAction) is responsible for the
// OutOfTurn/current_player check; this method only guards against
// writing to a mailbox nobody is waiting on.
func (b *Bridge) Propose(action poker.Action) bool {
	b.mu.Lock()
	ch := b.current
	b.mu.Unlock()
	if ch == nil {
		return false
	}
	select {
	case ch <- action:
		return true
	default:
		return false
	}
}

// Decide blocks until an Action arrives via Propose or ctx is done,
// whichever comes first. The orchestrator derives ctx with the
// configured per-turn timeout (via the session's quartz.Clock),
// so a context deadline here always means "human turn timed out". On
// timeout/cancellation it returns the configured default — Fold if
// facing a bet, else Check — and an error so the caller can
// emit a TimeoutAction event.
func (b *Bridge) Decide(ctx context.Context, dc agents.DecisionContext) (agents.Decision, error) {
	ch := make(chan poker.Action, 1)
	b.mu.Lock()
	b.current = ch
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		if b.current == ch {
			b.current = nil
		}
		b.mu.Unlock()
	}()

	select {
	case action := <-ch:
		return agents.Decision{Action: action, Reasoning: "human decision"}, nil
	case <-ctx.Done():
		return agents.Decision{Action: defaultAction(dc), Reasoning: "human turn timed out"}, ctx.Err()
	}
}

func defaultAction(dc agents.DecisionContext) poker.Action {
	if dc.Moves.Allows(poker.Check) {
		return poker.NewCheck()
	}
	return poker.NewFold()
}
