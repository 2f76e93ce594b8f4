package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riverrun/holdem/cmd/tablehost/transport"
	hostconfig "github.com/riverrun/holdem/internal/config"
	"github.com/riverrun/holdem/internal/llmgateway"
	"github.com/riverrun/holdem/internal/registry"
)

// ServeCmd hosts every table preset in the config file as a running
// session and serves the websocket transport, following
// cmd/pokerforbots's ServerCmd shape (flags build a Config, Run blocks
// until a signal arrives).
type ServeCmd struct {
	Addr        string `help:"Listen address" default:":8080"`
	Config      string `help:"HCL preset file" default:"tablehost.hcl" type:"path"`
	MaxSessions int    `help:"Registry concurrency cap" default:"16"`
	Human       bool   `help:"Reserve seat 0 of each table for a human player" default:"false"`
	Seed        int64  `help:"Base deterministic seed; each table adds its index" default:"1"`
	Debug       bool   `help:"Enable debug-level logging and full hole-card visibility"`
}

func (c *ServeCmd) Run() error {
	logger := setupLogger(c.Debug)

	file, err := hostconfig.Load(c.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	gateway := llmgateway.NewFakeGateway()
	reg := registry.New(registry.Config{MaxSessions: c.MaxSessions}, logger)

	for i, table := range file.Tables {
		cfg, err := buildSessionConfig(table, file.Bots, gateway, c.Human, c.Seed+int64(i))
		if err != nil {
			return fmt.Errorf("table %q: %w", table.Name, err)
		}
		cfg.DebugMode = cfg.DebugMode || c.Debug

		s, err := reg.Create(cfg)
		if err != nil {
			return fmt.Errorf("create session for table %q: %w", table.Name, err)
		}
		logger.Info().Str("game_id", s.ID()).Str("table", table.Name).Msg("table hosted")
	}

	srv := transport.New(reg, logger)

	ctx := setupSignalHandler()
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(c.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// setupSignalHandler mirrors cmd/pokerforbots/shared.SetupSignalHandler.
func setupSignalHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()
	return ctx
}
