// Package app dispatches CLI commands and wires the owner process.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/rahmadf/bella/internal/audio"
	"github.com/rahmadf/bella/internal/cli"
	"github.com/rahmadf/bella/internal/config"
	"github.com/rahmadf/bella/internal/doctor"
	"github.com/rahmadf/bella/internal/ipc"
	"github.com/rahmadf/bella/internal/logging"
	"github.com/rahmadf/bella/internal/version"
)

type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	r := Runner{Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

func (r Runner) Execute(ctx context.Context, args []string) int {
	parsed, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n\n", err)
		fmt.Fprint(r.Stderr, cli.HelpText("bella"))
		return 2
	}

	if parsed.ShowHelp {
		fmt.Fprint(r.Stdout, cli.HelpText("bella"))
		return 0
	}

	if parsed.Command == cli.CommandVersion {
		fmt.Fprintln(r.Stdout, version.String())
		return 0
	}

	if parsed.Command.Forwarded() {
		return r.forwardCommand(ctx, parsed.Command)
	}

	// Token and endpoint overrides live in the environment, optionally
	// seeded from a .env file in the working directory.
	_ = godotenv.Load()

	logRuntime, err := logging.New()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: setup logging: %v\n", err)
		return 1
	}
	defer func() { _ = logRuntime.Close() }()

	logger := r.Logger
	if logger == nil {
		logger = logRuntime.Logger
	}

	cfgLoaded, err := config.Load(parsed.ConfigPath)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("load config failed", "error", err.Error())
		return 1
	}
	for _, w := range cfgLoaded.Warnings {
		msg := w.Message
		if w.Line > 0 {
			msg = fmt.Sprintf("line %d: %s", w.Line, w.Message)
		}
		fmt.Fprintf(r.Stderr, "warning: %s\n", msg)
		logger.Warn("config warning", "line", w.Line, "message", w.Message)
	}

	sessionPath, err := resolveSessionPath(parsed.SessionPath, cfgLoaded.Config)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	logger.Info("command start",
		"command", parsed.Command,
		"config", cfgLoaded.Path,
		"session", sessionPath,
		"log", logRuntime.Path,
	)

	switch parsed.Command {
	case cli.CommandDoctor:
		report := doctor.Run(cfgLoaded, sessionPath)
		fmt.Fprintln(r.Stdout, report.String())
		if report.OK() {
			return 0
		}
		return 1
	case cli.CommandDevices:
		return r.commandDevices(ctx)
	case cli.CommandRun:
		return r.commandRun(ctx, cfgLoaded.Config, sessionPath, logger)
	default:
		fmt.Fprintf(r.Stderr, "error: unsupported command %q\n", parsed.Command)
		return 2
	}
}

// resolveSessionPath prefers the flag, then the config, then the default
// location the setup flow writes to.
func resolveSessionPath(flagPath string, cfg config.Config) (string, error) {
	if strings.TrimSpace(flagPath) != "" {
		return flagPath, nil
	}
	if strings.TrimSpace(cfg.Session.File) != "" {
		return cfg.Session.File, nil
	}
	return config.DefaultSessionPath()
}

func (r Runner) commandDevices(ctx context.Context) int {
	devices, err := audio.ListDevices(ctx)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if len(devices) == 0 {
		fmt.Fprintln(r.Stdout, "no audio devices found")
		return 1
	}

	for _, device := range devices {
		defaultMark := " "
		if device.Default {
			defaultMark = "*"
		}
		availability := "yes"
		if !device.Available {
			availability = "no"
		}
		muted := "no"
		if device.Muted {
			muted = "yes"
		}
		fmt.Fprintf(
			r.Stdout,
			"%s id=%s | description=%q | state=%s | available=%s | muted=%s\n",
			defaultMark,
			device.ID,
			device.Description,
			device.State,
			availability,
			muted,
		)
	}

	return 0
}

// forwardCommand sends one control command to the running owner process.
func (r Runner) forwardCommand(ctx context.Context, command cli.Command) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		if command == cli.CommandStatus {
			fmt.Fprintln(r.Stdout, "idle")
			return 0
		}
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	resp, handled, err := tryForward(ctx, socketPath, string(command))
	if !handled {
		if command == cli.CommandStatus {
			fmt.Fprintln(r.Stdout, "idle")
			return 0
		}
		fmt.Fprintln(r.Stderr, "error: no active bella session; start one with `bella run`")
		return 1
	}
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	if command == cli.CommandStatus {
		r.printStatus(resp)
		return 0
	}
	if resp.Message != "" {
		fmt.Fprintln(r.Stdout, resp.Message)
	}
	return 0
}

func (r Runner) printStatus(resp ipc.Response) {
	if resp.Status == nil {
		state := resp.State
		if state == "" {
			state = "idle"
		}
		fmt.Fprintln(r.Stdout, state)
		return
	}

	status := resp.Status
	fmt.Fprintf(r.Stdout, "phase: %s\n", status.State)
	fmt.Fprintf(r.Stdout, "question: %d/%d\n", status.QuestionIndex+1, status.QuestionCount)
	fmt.Fprintf(r.Stdout, "answers: %d\n", status.AnswerCount)
	if status.Prompt != "" {
		fmt.Fprintf(r.Stdout, "prompt: %s\n", status.Prompt)
	}
	if status.InterviewID != "" {
		fmt.Fprintf(r.Stdout, "interview: %s\n", status.InterviewID)
	}
	if status.LastError != "" {
		fmt.Fprintf(r.Stdout, "last error: %s\n", status.LastError)
	}
}

func tryForward(ctx context.Context, socketPath string, command string) (ipc.Response, bool, error) {
	resp, err := ipc.Send(ctx, socketPath, ipc.Request{Command: command}, 220*time.Millisecond)
	if err == nil {
		if resp.OK {
			return resp, true, nil
		}
		return resp, true, errors.New(resp.Error)
	}

	if ipc.IsSocketMissing(err) || ipc.IsConnectionRefused(err) {
		return ipc.Response{}, false, nil
	}

	return ipc.Response{}, true, fmt.Errorf("forward command %q: %w", command, err)
}
