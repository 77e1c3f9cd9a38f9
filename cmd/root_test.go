package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	expected := []string{"discover", "classify", "export", "status", "serve", "sync"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "contact-cli", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestDiscoverCommand_Flags(t *testing.T) {
	for _, name := range []string{
		"input", "output", "roles", "batch-size", "min-confidence",
		"checkpoint", "predict-emails",
	} {
		require.NotNil(t, discoverCmd.Flags().Lookup(name),
			"discover command should have --%s flag", name)
	}
}

func TestExportCommand_Flags(t *testing.T) {
	require.NotNil(t, exportCmd.Flags().Lookup("output"))
	require.NotNil(t, exportCmd.Flags().Lookup("min-confidence"))
}

func TestClassifyCommand_Flags(t *testing.T) {
	require.NotNil(t, classifyCmd.Flags().Lookup("input"))
	require.NotNil(t, classifyCmd.Flags().Lookup("roles"))
}
