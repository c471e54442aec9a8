package cli

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDefaultsToHelp(t *testing.T) {
	parsed, err := Parse(nil)
	require.NoError(t, err)
	require.Equal(t, CommandHelp, parsed.Command)
	require.True(t, parsed.ShowHelp)
}

func TestParseCommands(t *testing.T) {
	for _, name := range []string{
		"run", "record", "stop", "rerecord", "submit", "retry",
		"reset", "finalize", "status", "devices", "doctor", "version",
	} {
		parsed, err := Parse([]string{name})
		require.NoError(t, err, name)
		require.Equal(t, Command(name), parsed.Command)
		require.False(t, parsed.ShowHelp)
	}
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse([]string{"dance"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown command")
}

func TestParseUnknownFlag(t *testing.T) {
	_, err := Parse([]string{"--verbose"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown flag")
}

func TestParseConfigAndSessionPaths(t *testing.T) {
	parsed, err := Parse([]string{"--config", "/tmp/bella.jsonc", "--session", "/tmp/session.json", "status"})
	require.NoError(t, err)
	require.Equal(t, "/tmp/bella.jsonc", parsed.ConfigPath)
	require.Equal(t, "/tmp/session.json", parsed.SessionPath)
	require.Equal(t, CommandStatus, parsed.Command)
}

func TestParseConfigRequiresPath(t *testing.T) {
	_, err := Parse([]string{"--config"})
	require.Error(t, err)
}

func TestParseSessionRequiresPath(t *testing.T) {
	_, err := Parse([]string{"--session"})
	require.Error(t, err)
}

func TestParseRejectsTrailingArguments(t *testing.T) {
	_, err := Parse([]string{"status", "extra"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unexpected arguments")
}

func TestForwardedCommands(t *testing.T) {
	require.True(t, CommandRecord.Forwarded())
	require.True(t, CommandSubmit.Forwarded())
	require.True(t, CommandStatus.Forwarded())
	require.False(t, CommandRun.Forwarded())
	require.False(t, CommandDoctor.Forwarded())
	require.False(t, CommandVersion.Forwarded())
}

func TestHelpTextMentionsEveryCommand(t *testing.T) {
	text := HelpText("bella")
	for _, name := range []string{
		"run", "record", "stop", "rerecord", "submit", "retry",
		"reset", "finalize", "status", "devices", "doctor", "version", "help",
	} {
		require.Contains(t, text, name)
	}
	require.Contains(t, text, "--session PATH")
}
