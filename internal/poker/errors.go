package poker

import (
	"errors"
	"strconv"
)

// Boundary error kinds: these are the only errors the core
// surfaces at its public operations. Internal kinds
// (AgentFailure, RulesEngineDefect) never cross this boundary directly —
// they collapse into one of these, or into a session transitioning to
// StatusError.
var (
	ErrInvalidConfig   = errors.New("invalid config")
	ErrGameNotFound    = errors.New("game not found")
	ErrOutOfTurn       = errors.New("out of turn")
	ErrInvalidAction   = errors.New("invalid action")
	ErrNotReady        = errors.New("not ready")
	ErrSessionTerminal = errors.New("session terminal")
	ErrOverloaded      = errors.New("overloaded")
)

// Internal-only error kinds. AgentFailure is raised by C4/C5/C7 dispatch
// and is never fatal to the session: the turn loop
// catches it and falls back through C6's ladder. RulesEngineDefect backs
// the fatal path in C1: when the post-correction invariant
// still fails, the session moves to StatusError.
var (
	ErrAgentFailure      = errors.New("agent failure")
	ErrRulesEngineDefect = errors.New("rules engine invariant violated")
)

// AgentFailureError carries the seat and cause for an AgentFailure:
// AgentFailure(seat_id, cause).
type AgentFailureError struct {
	SeatID int
	Cause  error
}

func (e *AgentFailureError) Error() string {
	return "agent failure at seat " + strconv.Itoa(e.SeatID) + ": " + e.Cause.Error()
}

func (e *AgentFailureError) Unwrap() error { return e.Cause }

// Is reports ErrAgentFailure as a match so callers that only care about the
// boundary kind (not the underlying cause) can still use errors.Is against
// the sentinel.
func (e *AgentFailureError) Is(target error) bool { return target == ErrAgentFailure }

func NewAgentFailure(seatID int, cause error) *AgentFailureError {
	return &AgentFailureError{SeatID: seatID, Cause: cause}
}
