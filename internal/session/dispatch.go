package session

import (
	"fmt"
	"math/rand"

	"github.com/riverrun/holdem/internal/agents"
	"github.com/riverrun/holdem/internal/agents/human"
	"github.com/riverrun/holdem/internal/agents/llm"
	"github.com/riverrun/holdem/internal/agents/rule"
	"github.com/riverrun/holdem/internal/llmgateway"
	"github.com/riverrun/holdem/internal/poker"
)

// buildDecider is the constructor table keyed by agent_kind's tag. It is
// the single place new seats are turned into deciders, used by Create
// (session.go). ListAgents below does not call it; it lists the same
// rule.All names that rule.ConstructorFor accepts.
func buildDecider(kind poker.AgentKind, seatID int, rng *rand.Rand, gateway llmgateway.Gateway) (agents.Decider, error) {
	switch kind.Tag {
	case poker.AgentHuman:
		return human.New(seatID), nil
	case poker.AgentRule:
		a, ok := rule.ConstructorFor(rule.Name(kind.RuleName), rng)
		if !ok {
			return nil, fmt.Errorf("%w: unknown rule agent %q", poker.ErrInvalidConfig, kind.RuleName)
		}
		return a, nil
	case poker.AgentLLM:
		if gateway == nil {
			return nil, fmt.Errorf("%w: LLM seat requires a gateway", poker.ErrInvalidConfig)
		}
		return llm.New(gateway, kind.ModelID, llm.Personality(kind.Personality)), nil
	default:
		return nil, fmt.Errorf("%w: unknown agent_kind tag %q", poker.ErrInvalidConfig, kind.Tag)
	}
}

// AgentDescriptor is one entry of the list_agents operation.
type AgentDescriptor struct {
	AgentID     string `json:"agent_id"`
	Kind        string `json:"kind"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
}

// ListAgents enumerates every agent_kind this build can construct,
// sourced from the same constructor table Create dispatches through
//, so the catalog can never drift
// from what Create will actually accept.
func ListAgents(gatewayAvailable bool) []AgentDescriptor {
	out := []AgentDescriptor{
		{AgentID: "human", Kind: "human", Description: "Human player via the propose_action mailbox", Available: true},
	}
	for _, n := range rule.All {
		out = append(out, AgentDescriptor{
			AgentID:     "rule:" + string(n),
			Kind:        "rule",
			Description: "Rule-based agent: " + string(n),
			Available:   true,
		})
	}
	out = append(out, AgentDescriptor{
		AgentID:     "llm",
		Kind:        "llm",
		Description: "LLM-backed agent (model + personality supplied at create_game time)",
		Available:   gatewayAvailable,
	})
	return out
}
