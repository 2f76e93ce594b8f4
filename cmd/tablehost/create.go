package main

import (
	"encoding/json"
	"fmt"
	"os"

	hostconfig "github.com/riverrun/holdem/internal/config"
	"github.com/riverrun/holdem/internal/llmgateway"
	"github.com/riverrun/holdem/internal/registry"
)

// CreateCmd is a one-shot create_game: build a single session
// from a named table/bot preset pair and print its initial GameState,
// mirroring cmd/pokerforbots's BotCmd one-shot-then-exit
// shape rather than the long-running ServerCmd.
type CreateCmd struct {
	Config    string `help:"HCL preset file" default:"tablehost.hcl" type:"path"`
	Table     string `help:"Table preset name to use" default:"main"`
	Human     bool   `help:"Reserve seat 0 for a human player" default:"true"`
	Seed      int64  `help:"Deterministic seed for shuffling and personalities" default:"1"`
	Debug     bool   `help:"Enable debug-level logging and full hole-card visibility"`
}

func (c *CreateCmd) Run() error {
	logger := setupLogger(c.Debug)

	file, err := hostconfig.Load(c.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	table, ok := findTable(file.Tables, c.Table)
	if !ok {
		return fmt.Errorf("no table preset named %q", c.Table)
	}

	gateway := llmgateway.NewFakeGateway()
	cfg, err := buildSessionConfig(table, file.Bots, gateway, c.Human, c.Seed)
	if err != nil {
		return err
	}
	cfg.DebugMode = cfg.DebugMode || c.Debug

	reg := registry.New(registry.Config{MaxSessions: 1}, logger)
	s, err := reg.Create(cfg)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	logger.Info().Str("game_id", s.ID()).Str("table", table.Name).Msg("session created")

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(s.Snapshot())
}

func findTable(tables []hostconfig.TablePreset, name string) (hostconfig.TablePreset, bool) {
	for _, t := range tables {
		if t.Name == name {
			return t, true
		}
	}
	return hostconfig.TablePreset{}, false
}
