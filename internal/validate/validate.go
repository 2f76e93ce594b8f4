// Package validate implements the Action Validator: a
// pure mapping from a proposed Action to a legal Action, given the Rules
// Engine's reported legal set and raise range. It never mutates the
// engine; its output is handed verbatim to engine.TakeAction by the
// Session Orchestrator.
package validate

import (
	"github.com/riverrun/holdem/internal/poker"
	"github.com/riverrun/holdem/internal/rules"
)

// Resolve maps a proposed Action to a legal Action:
//
//  1. If proposed is Raise(x) and x is out of range, clamp to the nearest
//     endpoint if Raise is legal, else treat as Call.
//  2. If the (possibly clamped) action is still not legal, fall back
//     through Check, Call, Fold in that order and return the first legal
//     one.
//  3. If the legal set is empty, return (zero Action, false) — the
//     caller raises AgentFailure and the orchestrator terminates the hand
//     in Error.
func Resolve(moves rules.AvailableMoves, proposed poker.Action) (poker.Action, bool) {
	if len(moves.Legal) == 0 {
		return poker.Action{}, false
	}

	candidate := proposed
	if proposed.Kind == poker.Raise {
		if moves.Allows(poker.Raise) {
			if proposed.Amount < moves.MinTotal {
				candidate = poker.NewRaise(moves.MinTotal)
			} else if proposed.Amount > moves.MaxTotal {
				candidate = poker.NewRaise(moves.MaxTotal)
			}
		} else {
			candidate = poker.NewCall()
		}
	}

	if isLegal(moves, candidate) {
		return candidate, true
	}

	for _, fallback := range []poker.ActionKind{poker.Check, poker.Call, poker.Fold} {
		if moves.Allows(fallback) {
			return poker.Action{Kind: fallback}, true
		}
	}
	return poker.Action{}, false
}

func isLegal(moves rules.AvailableMoves, a poker.Action) bool {
	if !moves.Allows(a.Kind) {
		return false
	}
	if a.Kind == poker.Raise {
		return a.Amount >= moves.MinTotal && a.Amount <= moves.MaxTotal
	}
	return true
}
