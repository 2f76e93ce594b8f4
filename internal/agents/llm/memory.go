// Package llm implements the Prompt Builder and the LLM
// Decision Pipeline, including per-hand per-seat memory.
package llm

import "github.com/riverrun/holdem/internal/poker"

// Memory is one LLM seat's ordered list of PlayerAction Records for the
// current hand. It is created empty at hand start,
// appended to only after that seat's own proposed Action is applied
//, and
// discarded at hand end. A Memory must never be shared across seats or
// hands.
type Memory struct {
	records []poker.PlayerActionRecord
}

// NewMemory returns an empty memory for a freshly started hand.
func NewMemory() *Memory {
	return &Memory{}
}

// Append records one applied action for this seat.
func (m *Memory) Append(rec poker.PlayerActionRecord) {
	m.records = append(m.records, rec)
}

// Records returns the ordered history, oldest first. The returned slice
// is a copy so callers can't mutate memory state.
func (m *Memory) Records() []poker.PlayerActionRecord {
	out := make([]poker.PlayerActionRecord, len(m.records))
	copy(out, m.records)
	return out
}
