package main

import (
	"os"

	"github.com/rs/zerolog"
)

// setupLogger mirrors cmd/pokerforbots/shared.SetupLogger:
// pretty console output in a terminal, level gated by --debug.
func setupLogger(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
