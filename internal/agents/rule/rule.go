// Package rule implements the Rule-Based Agents: pure
// functions (snapshot, seat_id, rng) -> Action, grounded in
// internal/bot/{callbot,foldbot,randbot}.go and extended with a fuller
// personality roster.
package rule

import (
	"context"
	"math/rand"

	"github.com/riverrun/holdem/internal/agents"
	"github.com/riverrun/holdem/internal/analysis"
	"github.com/riverrun/holdem/internal/poker"
)

// Name identifies one of the available rule-based personalities.
type Name string

const (
	Call             Name = "call"
	Random           Name = "random"
	AggressiveRandom Name = "aggressive_random"
	Passive          Name = "passive"
	Tight            Name = "tight"
	Loose            Name = "loose"
	Bluff            Name = "bluff"
	PositionAware    Name = "position_aware"
)

// All lists every personality by name, in table order — used to
// drive both the agent constructor table and list_agents.
var All = []Name{Call, Random, AggressiveRandom, Passive, Tight, Loose, Bluff, PositionAware}

// Agent is a rule-based decider. rng is per-session, supplied by the caller rather than owned here.
type Agent struct {
	Name Name
	rng  *rand.Rand
}

// New constructs a rule-based agent for the given personality name.
func New(name Name, rng *rand.Rand) *Agent {
	return &Agent{Name: name, rng: rng}
}

var _ agents.Decider = (*Agent)(nil)

func (a *Agent) Decide(_ context.Context, dc agents.DecisionContext) (agents.Decision, error) {
	toCall := dc.Engine.ChipsToCall(dc.SeatID)
	strength := analysis.Strength(dc.Engine, dc.SeatID)
	position := analysis.PositionOf(dc.SeatOrder, dc.SeatID)

	switch a.Name {
	case Call:
		return a.decideCall(dc, toCall), nil
	case Random:
		return a.decideRandom(dc, false), nil
	case AggressiveRandom:
		return a.decideRandom(dc, true), nil
	case Passive:
		return a.decidePassive(dc, toCall), nil
	case Tight:
		return a.decideThreshold(dc, toCall, strength, 0.35, 0.6, "tight"), nil
	case Loose:
		return a.decideLooseLike(dc, toCall, strength, 0.2, 0.55), nil
	case Bluff:
		return a.decideBluff(dc, toCall), nil
	case PositionAware:
		return a.decidePositionAware(dc, toCall, strength, position), nil
	default:
		return agents.Decision{Action: poker.NewFold(), Reasoning: "unknown personality, folding"}, nil
	}
}

func (a *Agent) decideCall(dc agents.DecisionContext, toCall int) agents.Decision {
	if toCall == 0 && dc.Moves.Allows(poker.Check) {
		return agents.Decision{Action: poker.NewCheck(), Reasoning: "call-policy: checking, no bet to face"}
	}
	return agents.Decision{Action: poker.NewCall(), Reasoning: "call-policy: calling"}
}

func (a *Agent) decideRandom(dc agents.DecisionContext, excludeFold bool) agents.Decision {
	legal := dc.Moves.Legal
	if excludeFold && len(legal) > 1 {
		filtered := make([]poker.ActionKind, 0, len(legal))
		for _, k := range legal {
			if k != poker.Fold {
				filtered = append(filtered, k)
			}
		}
		if len(filtered) > 0 {
			legal = filtered
		}
	}
	if len(legal) == 0 {
		return agents.Decision{Action: poker.NewFold(), Reasoning: "no legal actions, emergency fold"}
	}
	kind := legal[a.rng.Intn(len(legal))]
	if kind == poker.Raise {
		amount := dc.Moves.MinTotal
		if dc.Moves.MaxTotal > dc.Moves.MinTotal {
			amount += a.rng.Intn(dc.Moves.MaxTotal - dc.Moves.MinTotal + 1)
		}
		return agents.Decision{Action: poker.NewRaise(amount), Reasoning: "random-policy: random raise"}
	}
	return agents.Decision{Action: poker.Action{Kind: kind}, Reasoning: "random-policy: uniform pick"}
}

func (a *Agent) decidePassive(dc agents.DecisionContext, toCall int) agents.Decision {
	if dc.Moves.Allows(poker.Check) {
		return agents.Decision{Action: poker.NewCheck(), Reasoning: "passive-policy: checking"}
	}
	seatChips := seatChips(dc)
	if seatChips > 0 && float64(toCall) > 0.4*float64(seatChips) {
		return agents.Decision{Action: poker.NewFold(), Reasoning: "passive-policy: facing bet over 40% of stack, folding"}
	}
	return agents.Decision{Action: poker.NewCall(), Reasoning: "passive-policy: calling"}
}

func (a *Agent) decideThreshold(dc agents.DecisionContext, toCall int, strength, foldBelow, raiseAbove float64, label string) agents.Decision {
	if toCall == 0 {
		if dc.Moves.Allows(poker.Check) {
			return agents.Decision{Action: poker.NewCheck(), Reasoning: label + "-policy: checking"}
		}
		return agents.Decision{Action: poker.NewCall(), Reasoning: label + "-policy: calling"}
	}
	switch {
	case strength < foldBelow:
		return agents.Decision{Action: poker.NewFold(), Reasoning: label + "-policy: weak hand facing a bet"}
	case strength > raiseAbove && dc.Moves.Allows(poker.Raise):
		amount := 2 * dc.Moves.MinTotal
		if amount > dc.Moves.MaxTotal {
			amount = dc.Moves.MaxTotal
		}
		return agents.Decision{Action: poker.NewRaise(amount), Reasoning: label + "-policy: strong hand, raising"}
	default:
		return agents.Decision{Action: poker.NewCall(), Reasoning: label + "-policy: calling with a middling hand"}
	}
}

func (a *Agent) decideLooseLike(dc agents.DecisionContext, toCall int, strength, callAbove, raiseAbove float64) agents.Decision {
	if toCall == 0 {
		if dc.Moves.Allows(poker.Check) {
			return agents.Decision{Action: poker.NewCheck(), Reasoning: "loose-policy: checking"}
		}
		return agents.Decision{Action: poker.NewCall(), Reasoning: "loose-policy: calling"}
	}
	switch {
	case strength >= raiseAbove && dc.Moves.Allows(poker.Raise):
		return agents.Decision{Action: poker.NewRaise(dc.Moves.MinTotal), Reasoning: "loose-policy: raising min"}
	case strength >= callAbove:
		return agents.Decision{Action: poker.NewCall(), Reasoning: "loose-policy: calling a wide range"}
	default:
		return agents.Decision{Action: poker.NewFold(), Reasoning: "loose-policy: folding below range floor"}
	}
}

func (a *Agent) decideBluff(dc agents.DecisionContext, toCall int) agents.Decision {
	phase := dc.Engine.HandPhase()
	if (phase == poker.Flop || phase == poker.Turn) && dc.Moves.Allows(poker.Raise) && a.rng.Float64() < 0.15 {
		return agents.Decision{Action: poker.NewRaise(dc.Moves.MinTotal), Reasoning: "bluff-policy: semi-bluff raise"}
	}
	return a.decidePassive(dc, toCall)
}

func (a *Agent) decidePositionAware(dc agents.DecisionContext, toCall int, strength float64, position analysis.Position) agents.Decision {
	adjust := 0.0
	if position == analysis.Late {
		adjust = -0.1
	}
	return a.decideThreshold(dc, toCall, strength, 0.35+adjust, 0.6+adjust, "position_aware")
}

func seatChips(dc agents.DecisionContext) int {
	for _, s := range dc.Engine.Seats() {
		if s.PlayerID == dc.SeatID {
			return s.Chips
		}
	}
	return 0
}

// ConstructorFor returns the Decider constructor for a given rule name,
// and whether the name is known: a constructor table keyed by
// agent_kind variant, rather than a type switch, so adding a
// personality never touches dispatch.go.
func ConstructorFor(name Name, rng *rand.Rand) (*Agent, bool) {
	for _, n := range All {
		if n == name {
			return New(name, rng), true
		}
	}
	return nil, false
}
