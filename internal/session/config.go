package session

import (
	"fmt"
	"time"

	"github.com/coder/quartz"
	"github.com/riverrun/holdem/internal/llmgateway"
	"github.com/riverrun/holdem/internal/poker"
	"github.com/riverrun/holdem/internal/rules"
)

// Each LLM call has a per-decision timeout (default 30s); human timeout
// is configurable with no stated default, so this picks a generous one
// matching human-facing flows rather than the bot-speed
// defaultDecisionTimeout in internal/server.
const (
	DefaultDecisionTimeout = 30 * time.Second
	DefaultHumanTimeout    = 60 * time.Second
	DefaultGraceDuration   = 60 * time.Second // Config.GraceDuration default; Session does not read it (registry.Config.GraceDuration governs removal)
)

// EngineFactory constructs a fresh rules.Engine for a new session. The
// session core never imports internal/rulesengine directly — callers (typically
// cmd/tablehost) supply a factory bound to whatever Engine implementation
// they choose.
type EngineFactory func(seatChips []int, smallBlind, bigBlind int, seed int64) rules.Engine

// Config is create_game's input.
type Config struct {
	// MaxPlayers is the seat count; len(Agents) must equal it.
	MaxPlayers int
	Buyin      int
	SmallBlind int
	BigBlind   int
	MaxHands   int
	// Agents maps seat (0-based, dense) to its agent_kind.
	Agents map[int]poker.AgentKind
	// DisplayNames optionally names a seat; defaults to "seat-N".
	DisplayNames map[int]string
	DebugMode    bool
	// AutoStart forces status to Running even if a Human seat is present.
	AutoStart bool
	// IncludeReasoningInEvents resolves whether LLM reasoning belongs on
	// the Event Bus; defaults true. A nil pointer means "unset, apply the
	// default" — a *bool rather than bool so withDefaults can tell that
	// apart from an explicit false.
	IncludeReasoningInEvents *bool

	DecisionTimeout time.Duration
	HumanTimeout    time.Duration
	GraceDuration   time.Duration

	// Seed makes C5/C4's stochastic personalities and the reference
	// engine's shuffling replayable.
	Seed int64

	NewEngine EngineFactory
	Gateway   llmgateway.Gateway
	Clock     quartz.Clock
}

// withDefaults fills in zero-value optional fields.
func (c Config) withDefaults() Config {
	if c.DecisionTimeout == 0 {
		c.DecisionTimeout = DefaultDecisionTimeout
	}
	if c.HumanTimeout == 0 {
		c.HumanTimeout = DefaultHumanTimeout
	}
	if c.GraceDuration == 0 {
		c.GraceDuration = DefaultGraceDuration
	}
	if c.Clock == nil {
		c.Clock = quartz.NewReal()
	}
	if c.DisplayNames == nil {
		c.DisplayNames = map[int]string{}
	}
	if c.IncludeReasoningInEvents == nil {
		include := true
		c.IncludeReasoningInEvents = &include
	}
	return c
}

// Validate checks create_game's config.
func (c Config) Validate() error {
	if c.MaxPlayers < 2 {
		return fmt.Errorf("%w: max_players must be at least 2", poker.ErrInvalidConfig)
	}
	if len(c.Agents) != c.MaxPlayers {
		return fmt.Errorf("%w: agents must specify exactly max_players seats", poker.ErrInvalidConfig)
	}
	for seat := 0; seat < c.MaxPlayers; seat++ {
		if _, ok := c.Agents[seat]; !ok {
			return fmt.Errorf("%w: missing agent_spec for seat %d", poker.ErrInvalidConfig, seat)
		}
	}
	if c.Buyin <= 0 {
		return fmt.Errorf("%w: buyin must be positive", poker.ErrInvalidConfig)
	}
	if c.SmallBlind <= 0 || c.BigBlind <= 0 || c.SmallBlind >= c.BigBlind {
		return fmt.Errorf("%w: blinds must be positive with small_blind < big_blind", poker.ErrInvalidConfig)
	}
	if c.MaxHands <= 0 {
		return fmt.Errorf("%w: max_hands must be positive", poker.ErrInvalidConfig)
	}
	if c.NewEngine == nil {
		return fmt.Errorf("%w: missing rules engine factory", poker.ErrInvalidConfig)
	}
	return nil
}
