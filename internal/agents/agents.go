// Package agents defines the common decision contract the Session
// Orchestrator (C8) dispatches through, uniform across rule-based agents
// (C5), the LLM pipeline (C4), and the human bridge (C7) — dispatch by
// kind, obtain a proposed Action.
package agents

import (
	"context"

	"github.com/riverrun/holdem/internal/poker"
	"github.com/riverrun/holdem/internal/rules"
)

// DecisionContext is what the orchestrator builds at each turn: a
// snapshot plus available actions and min raise, handed to whichever
// decider the seat's agent_kind selects.
type DecisionContext struct {
	Engine rules.Engine
	SeatID int
	Moves  rules.AvailableMoves
	// SeatOrder is the acting order for this hand, dealer-relative, used
	// by the Hand Analyzer's PositionOf.
	SeatOrder []int
}

// Decision is the outcome of any decider: a proposed Action plus
// human-readable context for logging/events. Confidence is only ever
// populated by C4; rule-based agents and the human bridge leave it at
// zero and put a short fixed label in Reasoning.
type Decision struct {
	Action     poker.Action
	Reasoning  string
	Confidence float64
}

// Decider is the uniform contract every agent_kind satisfies: exactly
// one of C5/C4/C7 is dispatched per turn, determined solely by the
// seat's agent_kind. Decide may return an error, which the orchestrator
// treats as AgentFailure and resolves through the C6 fallback ladder —
// it is never fatal to the session.
type Decider interface {
	Decide(ctx context.Context, dc DecisionContext) (Decision, error)
}
