// Command tablehost is a thin demo binary exercising the session core: a
// kong CLI (serve/create/list-agents) over internal/registry and
// internal/session, with cmd/tablehost/transport providing an optional
// gorilla/websocket front end. None of this is part of the core itself.
package main

import (
	"github.com/alecthomas/kong"
)

var version = "dev"

// CLI is the top-level command tree, mirroring
// cmd/pokerforbots/main.go's CLI struct shape.
type CLI struct {
	Version    kong.VersionFlag `short:"v" help:"Show version"`
	Serve      ServeCmd         `cmd:"" help:"Host table presets and accept websocket connections"`
	Create     CreateCmd        `cmd:"" help:"Create one session and print its initial state"`
	ListAgents ListAgentsCmd    `cmd:"list-agents" help:"List every constructible agent_kind"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("tablehost"),
		kong.Description("Demo host for the Texas Hold'em session orchestration core"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": version},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
