// Package cli parses the bella command line.
package cli

import (
	"errors"
	"fmt"
	"strings"
)

type Command string

const (
	CommandRun      Command = "run"
	CommandRecord   Command = "record"
	CommandStop     Command = "stop"
	CommandReRecord Command = "rerecord"
	CommandSubmit   Command = "submit"
	CommandRetry    Command = "retry"
	CommandReset    Command = "reset"
	CommandFinalize Command = "finalize"
	CommandStatus   Command = "status"
	CommandDevices  Command = "devices"
	CommandDoctor   Command = "doctor"
	CommandVersion  Command = "version"
	CommandHelp     Command = "help"
)

var validCommands = map[Command]struct{}{
	CommandRun:      {},
	CommandRecord:   {},
	CommandStop:     {},
	CommandReRecord: {},
	CommandSubmit:   {},
	CommandRetry:    {},
	CommandReset:    {},
	CommandFinalize: {},
	CommandStatus:   {},
	CommandDevices:  {},
	CommandDoctor:   {},
	CommandVersion:  {},
	CommandHelp:     {},
}

// Forwarded reports whether a command is served by the running session owner
// over the control socket.
func (c Command) Forwarded() bool {
	switch c {
	case CommandRecord, CommandStop, CommandReRecord, CommandSubmit,
		CommandRetry, CommandReset, CommandFinalize, CommandStatus:
		return true
	}
	return false
}

type Parsed struct {
	Command     Command
	ConfigPath  string
	SessionPath string
	ShowHelp    bool
}

func Parse(args []string) (Parsed, error) {
	parsed := Parsed{Command: CommandHelp, ShowHelp: true}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "-h", "--help":
			parsed.ShowHelp = true
			parsed.Command = CommandHelp
		case "--version":
			parsed.ShowHelp = false
			parsed.Command = CommandVersion
		case "--config":
			i++
			if i >= len(args) {
				return Parsed{}, errors.New("--config requires a path")
			}
			parsed.ConfigPath = args[i]
		case "--session":
			i++
			if i >= len(args) {
				return Parsed{}, errors.New("--session requires a path")
			}
			parsed.SessionPath = args[i]
		default:
			if strings.HasPrefix(arg, "-") {
				return Parsed{}, fmt.Errorf("unknown flag: %s", arg)
			}

			cmd := Command(arg)
			if _, ok := validCommands[cmd]; !ok {
				return Parsed{}, fmt.Errorf("unknown command: %s", arg)
			}

			parsed.Command = cmd
			parsed.ShowHelp = cmd == CommandHelp
			if i != len(args)-1 {
				return Parsed{}, fmt.Errorf("unexpected arguments after command %q", arg)
			}
		}
	}

	return parsed, nil
}

func HelpText(binaryName string) string {
	return fmt.Sprintf(`Usage:
  %[1]s [--config PATH] [--session PATH] <command>

Commands:
  run       Start the interview session and serve control commands
  record    Start recording an answer to the current question
  stop      Stop the active recording and keep it for submission
  rerecord  Discard the captured answer and record again
  submit    Submit the captured answer for transcription
  retry     Repeat the last failed follow-up or acknowledgment call
  reset     Abandon all progress and restart from the greeting
  finalize  Persist the completed interview
  status    Print session progress
  devices   List available input devices
  doctor    Run configuration and environment checks
  version   Print version information
  help      Show this help

Flags:
  --config PATH    Config file path (default: $XDG_CONFIG_HOME/bella/config.conf)
  --session PATH   Session payload path (default: $XDG_STATE_HOME/bella/session.json)
  -h, --help       Show help
  --version        Show version
`, binaryName)
}
