package poker

// PlayerActionRecord is one history entry: player_id, phase, action_kind,
// amount, reasoning, confidence, pot_before, and chips_remaining_after.
// It backs both the session's action history and LLM HandMemory entries.
type PlayerActionRecord struct {
	PlayerID            int
	Phase               Phase
	ActionKind          ActionKind
	Amount              int // meaningful only for Raise
	Reasoning           string
	Confidence          float64 // only ever set by the LLM pipeline (C4)
	PotBefore           int
	ChipsRemainingAfter int
}
