// Package config loads table/bot presets for cmd/tablehost from an HCL
// file, following internal/server/config.go's pattern
// (hclparse + gohcl.DecodeBody, file-absent falls back to built-in
// defaults). It is ambient configuration for the demo binary only — the
// session core's create_game always takes an already-parsed
// session.Config.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// TablePreset describes one `table "name" { ... }` block.
type TablePreset struct {
	Name       string `hcl:"name,label"`
	MaxPlayers int    `hcl:"max_players,optional"`
	SmallBlind int    `hcl:"small_blind"`
	BigBlind   int    `hcl:"big_blind"`
	Buyin      int    `hcl:"buyin,optional"`
	MaxHands   int    `hcl:"max_hands,optional"`
	AutoStart  bool   `hcl:"auto_start,optional"`
	DebugMode  bool   `hcl:"debug_mode,optional"`
}

// BotPreset describes one `bot "name" { ... }` block: a reusable
// agent_spec a table's seats can reference by name.
type BotPreset struct {
	Name        string `hcl:"name,label"`
	Kind        string `hcl:"kind"` // "rule" or "llm"
	RuleName    string `hcl:"rule_name,optional"`
	Model       string `hcl:"model,optional"`
	Personality string `hcl:"personality,optional"`
}

// File is the top-level HCL document shape, mirroring
// internal/server/config.go's ServerConfig{Server, Tables, Bots}.
type File struct {
	Tables []TablePreset `hcl:"table,block"`
	Bots   []BotPreset   `hcl:"bot,block"`
}

// Defaults returns the built-in fallback configuration used when no file
// is present, matching the DefaultServerConfig shape it's descended from.
func Defaults() *File {
	return &File{
		Tables: []TablePreset{
			{
				Name:       "main",
				MaxPlayers: 6,
				SmallBlind: 10,
				BigBlind:   20,
				Buyin:      1000,
				MaxHands:   100,
				AutoStart:  true,
			},
		},
		Bots: []BotPreset{
			{Name: "caller", Kind: "rule", RuleName: "call"},
			{Name: "rock", Kind: "rule", RuleName: "tight"},
		},
	}
}

// Load reads filename as HCL, or returns Defaults() if it does not exist.
func Load(filename string) (*File, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Defaults(), nil
	}

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %s: %s", filename, diags.Error())
	}

	var f File
	diags = gohcl.DecodeBody(hclFile.Body, nil, &f)
	if diags.HasErrors() {
		return nil, fmt.Errorf("decode %s: %s", filename, diags.Error())
	}

	applyDefaults(&f)
	return &f, nil
}

func applyDefaults(f *File) {
	for i := range f.Tables {
		if f.Tables[i].MaxPlayers == 0 {
			f.Tables[i].MaxPlayers = 6
		}
		if f.Tables[i].Buyin == 0 {
			f.Tables[i].Buyin = f.Tables[i].BigBlind * 50
		}
		if f.Tables[i].MaxHands == 0 {
			f.Tables[i].MaxHands = 100
		}
	}
	for i := range f.Bots {
		if f.Bots[i].Kind == "" {
			f.Bots[i].Kind = "rule"
		}
	}
}
