package main

import (
	"encoding/json"
	"os"

	"github.com/riverrun/holdem/internal/session"
)

// ListAgentsCmd is the list-agents operation: print every
// agent_kind this build can construct, sourced straight from the
// constructor table internal/session/dispatch.go uses for create_game.
type ListAgentsCmd struct {
	GatewayAvailable bool `help:"Report llm agent_kind as available" default:"true"`
}

func (c *ListAgentsCmd) Run() error {
	descriptors := session.ListAgents(c.GatewayAvailable)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(descriptors)
}
