package session

import (
	"time"

	"github.com/riverrun/holdem/internal/agents"
	"github.com/riverrun/holdem/internal/poker"
)

// Seat is the wire projection of one seat.
type Seat struct {
	PlayerID    int             `json:"player_id"`
	AgentKind   poker.AgentKind `json:"agent_kind"`
	DisplayName string          `json:"display_name"`
	Chips       int             `json:"chips"`
	State       poker.SeatState `json:"state"`
	// HoleCards is populated under a visibility rule:
	// debug_mode OR seat is human-owned OR showdown reached. Snapshot and
	// the GameState handed to Publish use this same rule; there is no
	// per-viewer redaction, so a human-owned seat's cards reach every
	// caller and subscriber.
	HoleCards []poker.Card `json:"hole_cards,omitempty"`
}

// Pot is the wire projection of one pot.
type Pot struct {
	PotID    int   `json:"pot_id"`
	Total    int   `json:"total"`
	Eligible []int `json:"eligible"`
}

// GameState is the wire projection of a session: game_id, status,
// phase, hand_number, max_hands, board, seats, pots, current_player,
// available_actions, min_raise_amount, debug_mode, created_at, and
// updated_at.
type GameState struct {
	GameID        string           `json:"game_id"`
	Status        poker.Status     `json:"status"`
	Phase         poker.Phase      `json:"phase"`
	HandNumber    int              `json:"hand_number"`
	MaxHands      int              `json:"max_hands"`
	Board         []poker.Card     `json:"board"`
	Seats         []Seat           `json:"seats"`
	Pots          []Pot            `json:"pots"`
	CurrentPlayer *int             `json:"current_player,omitempty"`
	AvailableActions []poker.ActionKind `json:"available_actions"`
	MinRaiseAmount   *int            `json:"min_raise_amount,omitempty"`
	DebugMode     bool             `json:"debug_mode"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	Revision      uint64           `json:"revision"`
}

// buildState projects the current engine truth plus session bookkeeping
// into a GameState value copy). Must be called with
// s.mu held.
func (s *Session) buildState() GameState {
	eng := s.engine
	seatsSnap := eng.Seats()
	seats := make([]Seat, 0, len(seatsSnap))
	showdown := eng.HandPhase() == poker.Settle
	for _, sn := range seatsSnap {
		seat := Seat{
			PlayerID:    sn.PlayerID,
			AgentKind:   s.agentKinds[sn.PlayerID],
			DisplayName: s.displayNames[sn.PlayerID],
			Chips:       sn.Chips,
			State:       sn.State,
		}
		if s.cfg.DebugMode || s.agentKinds[sn.PlayerID].Tag == poker.AgentHuman || showdown {
			seat.HoleCards = sn.HoleCards
		}
		seats = append(seats, seat)
	}

	potsSnap := eng.Pots()
	pots := make([]Pot, 0, len(potsSnap))
	for _, p := range potsSnap {
		pots = append(pots, Pot{PotID: p.PotID, Total: p.Total, Eligible: p.Eligible})
	}

	gs := GameState{
		GameID:     s.id,
		Status:     s.status,
		Phase:      eng.HandPhase(),
		HandNumber: eng.HandNumber(),
		MaxHands:   s.cfg.MaxHands,
		Board:      eng.Board(),
		Seats:      seats,
		Pots:       pots,
		DebugMode:  s.cfg.DebugMode,
		CreatedAt:  s.createdAt,
		UpdatedAt:  time.Now(),
		Revision:   s.revision,
	}

	if pid, ok := eng.CurrentPlayer(); ok {
		moves := eng.GetAvailableMoves()
		gs.CurrentPlayer = &pid
		gs.AvailableActions = moves.Legal
		if moves.Allows(poker.Raise) {
			min := moves.MinTotal
			gs.MinRaiseAmount = &min
		}
	}
	return gs
}

// decisionContext builds the C8 turn-loop decision context for the
// current actor.
func (s *Session) decisionContext(seatID int) agents.DecisionContext {
	return agents.DecisionContext{
		Engine:    s.engine,
		SeatID:    seatID,
		Moves:     s.engine.GetAvailableMoves(),
		SeatOrder: s.engine.ActingOrder(),
	}
}
