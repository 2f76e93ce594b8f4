package llm

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/riverrun/holdem/internal/agents"
	"github.com/riverrun/holdem/internal/llmgateway"
	"github.com/riverrun/holdem/internal/poker"
)

var decisionSchema = mustCompileDecisionSchema()

func mustCompileDecisionSchema() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("decision.json", strings.NewReader(decisionSchemaJSON)); err != nil {
		panic(err)
	}
	return c.MustCompile("decision.json")
}

// Pipeline is the C4 LLM Decision Pipeline. One Pipeline is
// bound to a single seat's model and personality; the orchestrator owns
// its lifetime for the session's duration.
type Pipeline struct {
	Gateway     llmgateway.Gateway
	ModelID     string
	Personality Personality
}

// New constructs a Pipeline for a seat's LLM agent_kind.
func New(gateway llmgateway.Gateway, modelID string, personality Personality) *Pipeline {
	return &Pipeline{Gateway: gateway, ModelID: modelID, Personality: personality}
}

var _ agents.Decider = (*Pipeline)(nil)

// Decide builds a prompt, calls the gateway, and resolves the response
// into a legal-shaped Action, with no per-hand memory in the prompt.
// With DecideWithMemory, the caller is responsible for appending the
// applied action to the Memory it passed, once applied and not before,
// since the pipeline has no knowledge of whether the rules engine
// accepted the proposal.
func (p *Pipeline) Decide(ctx context.Context, dc agents.DecisionContext) (agents.Decision, error) {
	return p.decideWithMemory(ctx, dc, nil)
}

// DecideWithMemory is the memory-aware variant the orchestrator actually
// calls, threading the seat's HandMemory into BuildPrompt. Decide exists only to satisfy agents.Decider for callers that don't
// carry memory (e.g. direct pipeline tests).
func (p *Pipeline) DecideWithMemory(ctx context.Context, dc agents.DecisionContext, mem *Memory) (agents.Decision, error) {
	return p.decideWithMemory(ctx, dc, mem)
}

func (p *Pipeline) decideWithMemory(ctx context.Context, dc agents.DecisionContext, mem *Memory) (agents.Decision, error) {
	prompt := BuildPrompt(dc, p.Personality, mem)

	raw, err := p.Gateway.CompleteStructured(ctx, p.ModelID, prompt, DecisionSchema())
	switch {
	case err == nil:
		dec, perr := parseStructured(raw, dc)
		if perr == nil {
			return dec, nil
		}
		// Malformed structured response: fall through to the text-mode
		// retry exactly as if the gateway had reported unsupported
		// structured output.
	case isUnsupportedStructured(err):
		// expected path into text-mode retry
	default:
		return agents.Decision{}, poker.NewAgentFailure(dc.SeatID, err)
	}

	text, terr := p.Gateway.CompleteText(ctx, p.ModelID, prompt)
	if terr != nil {
		return agents.Decision{}, poker.NewAgentFailure(dc.SeatID, terr)
	}
	dec, perr := parseTextMode(text, dc)
	if perr != nil {
		return agents.Decision{}, poker.NewAgentFailure(dc.SeatID, perr)
	}
	return dec, nil
}

func isUnsupportedStructured(err error) bool {
	return err == llmgateway.ErrUnsupportedStructured
}

func parseStructured(raw map[string]any, dc agents.DecisionContext) (agents.Decision, error) {
	if err := decisionSchema.Validate(raw); err != nil {
		return agents.Decision{}, err
	}
	actionStr, _ := raw["action"].(string)
	reasoning, _ := raw["reasoning"].(string)
	confidence, _ := raw["confidence"].(float64)

	amount := 0
	if a, ok := raw["amount"]; ok {
		switch v := a.(type) {
		case float64:
			amount = int(v)
		case int:
			amount = v
		}
	}

	action, err := resolveAction(actionStr, amount, dc)
	if err != nil {
		return agents.Decision{}, err
	}
	return agents.Decision{Action: action, Reasoning: reasoning, Confidence: confidence}, nil
}

func parseTextMode(text string, dc agents.DecisionContext) (agents.Decision, error) {
	var actionStr, reasoning string
	var amount int
	var confidence float64
	seenAction := false

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "ACTION:"):
			actionStr = strings.TrimSpace(strings.TrimPrefix(line, "ACTION:"))
			seenAction = true
		case strings.HasPrefix(line, "AMOUNT:"):
			v := strings.TrimSpace(strings.TrimPrefix(line, "AMOUNT:"))
			if n, err := strconv.Atoi(v); err == nil {
				amount = n
			}
		case strings.HasPrefix(line, "REASONING:"):
			reasoning = strings.TrimSpace(strings.TrimPrefix(line, "REASONING:"))
		case strings.HasPrefix(line, "CONFIDENCE:"):
			v := strings.TrimSpace(strings.TrimPrefix(line, "CONFIDENCE:"))
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				confidence = f
			}
		}
	}
	if !seenAction {
		return agents.Decision{}, fmt.Errorf("text-mode response missing ACTION line")
	}

	action, err := resolveAction(actionStr, amount, dc)
	if err != nil {
		return agents.Decision{}, err
	}
	return agents.Decision{Action: action, Reasoning: reasoning, Confidence: confidence}, nil
}

// resolveAction applies the raise-amount numeric semantics: amount is always a
// total bet for the street. LLMs routinely emit a delta instead (the
// amount they want to add on top of the current bet); the heuristic
// catches this when the emitted amount is less than chips_to_call, which
// a genuine total-bet raise can never be, and rewrites it to
// chips_to_call + amount before validation.
func resolveAction(actionStr string, amount int, dc agents.DecisionContext) (poker.Action, error) {
	switch strings.ToUpper(strings.TrimSpace(actionStr)) {
	case "FOLD":
		return poker.NewFold(), nil
	case "CHECK":
		return poker.NewCheck(), nil
	case "CALL":
		return poker.NewCall(), nil
	case "RAISE":
		toCall := dc.Engine.ChipsToCall(dc.SeatID)
		if amount < toCall {
			amount = toCall + amount
		}
		return poker.NewRaise(amount), nil
	default:
		return poker.Action{}, fmt.Errorf("unrecognized action %q", actionStr)
	}
}
