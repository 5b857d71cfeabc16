package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetVersion(t *testing.T) {
	// Given
	originalVersion := version
	defer func() {
		version = originalVersion
		rootCmd.Version = originalVersion
	}()

	// When
	SetVersion("1.2.3")

	// Then
	assert.Equal(t, "1.2.3", version)
	assert.Equal(t, "1.2.3", rootCmd.Version)
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "graphtutorial", rootCmd.Use)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	commands := rootCmd.Commands()

	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "user", "should have user command")
	assert.Contains(t, commandNames, "app", "should have app command")
	assert.Contains(t, commandNames, "calendar", "should have calendar command")
}

func TestExecute_ReturnsNoErrorWithHelp(t *testing.T) {
	oldOut := rootCmd.OutOrStdout()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"--help"})
	defer func() {
		rootCmd.SetOut(oldOut)
		rootCmd.SetArgs(nil)
	}()

	// When
	err := Execute()

	// Then
	assert.NoError(t, err)
}
