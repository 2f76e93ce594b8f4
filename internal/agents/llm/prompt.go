package llm

import (
	"fmt"
	"strings"

	"github.com/riverrun/holdem/internal/agents"
	"github.com/riverrun/holdem/internal/analysis"
	"github.com/riverrun/holdem/internal/poker"
)

// Personality is a named prompt stance for the LLM agent (e.g. "tight",
// "loose-aggressive", "balanced"). Unlike C5's rule personalities this is
// free text threaded into the prompt, not a fixed enum — agent_kind's LLM
// variant is LLM(ModelId, Personality) with Personality an open string.
type Personality string

// BuildPrompt assembles a per-personality, per-phase prompt for the LLM
// agent, incorporating its per-hand action memory. The structure mirrors
// internal/game/events.go's EventFormatter: deterministic, data-driven
// text assembly, no templating engine.
func BuildPrompt(dc agents.DecisionContext, personality Personality, mem *Memory) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a Texas Hold'em player with a %q playing style.\n", personality)
	fmt.Fprintf(&b, "Phase: %s\n", dc.Engine.HandPhase())
	fmt.Fprintf(&b, "Board: %s\n", formatCards(dc.Engine.Board()))
	fmt.Fprintf(&b, "Your hole cards: %s\n", formatCards(dc.Engine.HandOf(dc.SeatID)))

	toCall := dc.Engine.ChipsToCall(dc.SeatID)
	fmt.Fprintf(&b, "Chips to call: %d\n", toCall)
	if odds := analysis.PotOdds(dc.Engine, dc.SeatID); odds != nil {
		fmt.Fprintf(&b, "Pot odds: %.2f\n", *odds)
	}
	fmt.Fprintf(&b, "Hand strength estimate: %.2f\n", analysis.Strength(dc.Engine, dc.SeatID))
	fmt.Fprintf(&b, "Position: %s\n", analysis.PositionOf(dc.SeatOrder, dc.SeatID))

	b.WriteString("Legal actions: ")
	legal := make([]string, 0, len(dc.Moves.Legal))
	for _, k := range dc.Moves.Legal {
		legal = append(legal, string(k))
	}
	b.WriteString(strings.Join(legal, ", "))
	b.WriteString("\n")
	if dc.Moves.Allows(poker.Raise) {
		fmt.Fprintf(&b, "Raise range (total bet for this street): %d-%d\n", dc.Moves.MinTotal, dc.Moves.MaxTotal)
	}

	if mem != nil {
		records := mem.Records()
		if len(records) > 0 {
			b.WriteString("Your actions so far this hand:\n")
			for _, r := range records {
				fmt.Fprintf(&b, "  - %s: %s", r.Phase, r.ActionKind)
				if r.ActionKind == poker.Raise {
					fmt.Fprintf(&b, " to %d", r.Amount)
				}
				if r.Reasoning != "" {
					fmt.Fprintf(&b, " (%s)", r.Reasoning)
				}
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("Respond with your decision as structured JSON: " +
		`{"action": "FOLD|CHECK|CALL|RAISE", "amount": <int, total bet for the street, only for RAISE>, "reasoning": "<short>", "confidence": <0..1>}` + "\n")
	b.WriteString("If structured output is unavailable, respond with lines:\n" +
		"ACTION: <FOLD|CHECK|CALL|RAISE>\nAMOUNT: <int>\nREASONING: <text>\nCONFIDENCE: <float>\n")

	return b.String()
}

func formatCards(cards []poker.Card) string {
	if len(cards) == 0 {
		return "(none)"
	}
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
