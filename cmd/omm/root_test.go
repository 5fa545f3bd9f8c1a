package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omm/internal/core"
)

func TestRootCmd_Structure(t *testing.T) {
	assert.Equal(t, "omm", rootCmd.Use)
	assert.True(t, rootCmd.SilenceUsage)
	assert.True(t, rootCmd.SilenceErrors)

	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("game"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("data"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("json"))
}

func TestRequireGame_NoGameNoDefault(t *testing.T) {
	gameID = ""
	configDir = t.TempDir()
	t.Cleanup(func() { configDir = "" })

	err := requireGame()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no game specified")
}

func TestRequireGame_FlagWins(t *testing.T) {
	gameID = "skyrim"
	t.Cleanup(func() { gameID = "" })

	require.NoError(t, requireGame())
	assert.Equal(t, "skyrim", gameID)
}

func TestParseKind(t *testing.T) {
	kind, err := parseKind("mod")
	require.NoError(t, err)
	assert.Equal(t, core.KindMod, kind)

	kind, err = parseKind("plugins")
	require.NoError(t, err)
	assert.Equal(t, core.KindPlugin, kind)

	_, err = parseKind("widget")
	assert.Error(t, err)
}

func TestParseIndex(t *testing.T) {
	index, err := parseIndex("42")
	require.NoError(t, err)
	assert.Equal(t, 42, index)

	_, err = parseIndex("abc")
	assert.Error(t, err)
}

func TestGetServiceConfig_Defaults(t *testing.T) {
	configDir = ""
	dataDir = ""

	cfg := getServiceConfig()
	assert.NotEmpty(t, cfg.ConfigDir)
	assert.NotEmpty(t, cfg.DataDir)
}

func TestCommandStructure(t *testing.T) {
	for _, cmd := range []struct {
		use  string
		name string
	}{
		{"list", "list"},
		{"activate <mod|plugin> <index>", "activate"},
		{"deactivate <mod|plugin> <index>", "deactivate"},
		{"move <mod|plugin> <from> <to>", "move"},
		{"sort", "sort"},
		{"commit", "commit"},
		{"refresh", "refresh"},
		{"rename <index> <new-name>", "rename"},
		{"delete <mod|plugin> <index>", "delete"},
		{"install <archive>", "install"},
		{"configure <index>", "configure"},
		{"conflicts <index>", "conflicts"},
		{"status", "status"},
		{"tui", "tui"},
	} {
		found := false
		for _, sub := range rootCmd.Commands() {
			if sub.Use == cmd.use {
				found = true
				assert.NotEmpty(t, sub.Short, cmd.name)
			}
		}
		assert.True(t, found, "command %s is registered", cmd.name)
	}
}
