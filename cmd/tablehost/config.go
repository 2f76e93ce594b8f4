package main

import (
	"fmt"

	"github.com/coder/quartz"

	hostconfig "github.com/riverrun/holdem/internal/config"
	"github.com/riverrun/holdem/internal/llmgateway"
	"github.com/riverrun/holdem/internal/poker"
	"github.com/riverrun/holdem/internal/rules"
	"github.com/riverrun/holdem/internal/rulesengine"
	"github.com/riverrun/holdem/internal/session"
)

// newReferenceEngine binds session.EngineFactory to the reference
// rulesengine implementation — the one point in this
// binary where the session core's Rules Engine collaborator interface is
// given a concrete body.
func newReferenceEngine(seatChips []int, smallBlind, bigBlind int, seed int64) rules.Engine {
	return rulesengine.New(rulesengine.Config{
		SmallBlind: smallBlind,
		BigBlind:   bigBlind,
		StartChips: seatChips,
		Seed:       seed,
	})
}

// buildSessionConfig turns one table preset plus the bot catalog into a
// session.Config, optionally assigning seat 0 to a human (so the demo has
// something to drive interactively) and filling the remaining seats
// round-robin from the bot presets named in bots.
func buildSessionConfig(table hostconfig.TablePreset, bots []hostconfig.BotPreset, gateway llmgateway.Gateway, includeHuman bool, seed int64) (session.Config, error) {
	if len(bots) == 0 {
		return session.Config{}, fmt.Errorf("no bot presets configured for table %q", table.Name)
	}

	seatAgents := make(map[int]poker.AgentKind, table.MaxPlayers)
	names := make(map[int]string, table.MaxPlayers)

	start := 0
	if includeHuman {
		seatAgents[0] = poker.HumanAgentKind()
		names[0] = "you"
		start = 1
	}

	for seat := start; seat < table.MaxPlayers; seat++ {
		bot := bots[(seat-start)%len(bots)]
		switch bot.Kind {
		case "llm":
			seatAgents[seat] = poker.LLMAgentKind(bot.Model, bot.Personality)
		default:
			seatAgents[seat] = poker.RuleAgentKind(bot.RuleName)
		}
		names[seat] = bot.Name
	}

	return session.Config{
		MaxPlayers:   table.MaxPlayers,
		Buyin:        table.Buyin,
		SmallBlind:   table.SmallBlind,
		BigBlind:     table.BigBlind,
		MaxHands:     table.MaxHands,
		Agents:       seatAgents,
		DisplayNames: names,
		DebugMode:    table.DebugMode,
		AutoStart:    table.AutoStart,
		Seed:         seed,
		NewEngine:    newReferenceEngine,
		Gateway:      gateway,
		Clock:        quartz.NewReal(),
	}, nil
}
