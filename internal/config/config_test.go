package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	f, err := Load(filepath.Join(t.TempDir(), "does-not-exist.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), f)
}

func TestLoadParsesTablesAndBots(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tables.hcl")
	contents := `
table "heads-up" {
  small_blind = 5
  big_blind   = 10
  max_players = 2
}

bot "shark" {
  kind      = "llm"
  model     = "gpt-x"
  personality = "aggressive"
}
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	require.Len(t, f.Tables, 1)
	assert.Equal(t, "heads-up", f.Tables[0].Name)
	assert.Equal(t, 2, f.Tables[0].MaxPlayers)
	assert.Equal(t, 500, f.Tables[0].Buyin, "buyin defaults to big_blind * 50 when unset")
	assert.Equal(t, 100, f.Tables[0].MaxHands)

	require.Len(t, f.Bots, 1)
	assert.Equal(t, "llm", f.Bots[0].Kind)
	assert.Equal(t, "gpt-x", f.Bots[0].Model)
}

func TestLoadRejectsMalformedHCL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`table "oops" { small_blind = `), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
