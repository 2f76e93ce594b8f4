package poker

import "fmt"

// Phase is one of the hand-lifecycle phases a session moves through.
type Phase string

const (
	PreHand  Phase = "pre_hand"
	PreFlop  Phase = "pre_flop"
	Flop     Phase = "flop"
	Turn     Phase = "turn"
	River    Phase = "river"
	Settle   Phase = "settle"
)

// IsBettingPhase reports whether current_player is meaningful during this
// phase.
func (p Phase) IsBettingPhase() bool {
	switch p {
	case PreFlop, Flop, Turn, River:
		return true
	default:
		return false
	}
}

// Status is the session-level status.
type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusRunning   Status = "running"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// ActionKind is the tagged-union discriminant for Action.
type ActionKind string

const (
	Fold  ActionKind = "fold"
	Check ActionKind = "check"
	Call  ActionKind = "call"
	Raise ActionKind = "raise"
)

// Action is a proposed or applied player action. Amount is only meaningful
// for Raise, where it is the new total bet for the current street (never a
// delta).
type Action struct {
	Kind   ActionKind
	Amount int
}

func (a Action) String() string {
	if a.Kind == Raise {
		return fmt.Sprintf("raise(%d)", a.Amount)
	}
	return string(a.Kind)
}

// NewFold, NewCheck, NewCall, NewRaise are convenience constructors used
// throughout the fallback ladder (C6) and the rule-based agents (C5).
func NewFold() Action           { return Action{Kind: Fold} }
func NewCheck() Action          { return Action{Kind: Check} }
func NewCall() Action           { return Action{Kind: Call} }
func NewRaise(amount int) Action { return Action{Kind: Raise, Amount: amount} }

// SeatState is the cached projection of Rules Engine truth for one seat.
type SeatState string

const (
	SeatIn      SeatState = "in"
	SeatToCall  SeatState = "to_call"
	SeatAllIn   SeatState = "all_in"
	SeatFolded  SeatState = "folded"
	SeatSkip    SeatState = "skip"
)

// AgentKindTag discriminates the agent_kind tagged union.
type AgentKindTag string

const (
	AgentHuman AgentKindTag = "human"
	AgentRule  AgentKindTag = "rule"
	AgentLLM   AgentKindTag = "llm"
)

// AgentKind is the tagged union over {Human, Rule(RuleName), LLM(ModelID,
// Personality)}. Exactly one of RuleName or (ModelID,
// Personality) is meaningful, determined by Tag.
type AgentKind struct {
	Tag         AgentKindTag
	RuleName    string
	ModelID     string
	Personality string
}

func HumanAgentKind() AgentKind { return AgentKind{Tag: AgentHuman} }

func RuleAgentKind(name string) AgentKind {
	return AgentKind{Tag: AgentRule, RuleName: name}
}

func LLMAgentKind(model, personality string) AgentKind {
	return AgentKind{Tag: AgentLLM, ModelID: model, Personality: personality}
}

func (k AgentKind) String() string {
	switch k.Tag {
	case AgentHuman:
		return "human"
	case AgentRule:
		return fmt.Sprintf("rule(%s)", k.RuleName)
	case AgentLLM:
		return fmt.Sprintf("llm(%s,%s)", k.ModelID, k.Personality)
	default:
		return "unknown"
	}
}
