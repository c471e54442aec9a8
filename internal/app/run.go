package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/rahmadf/bella/internal/config"
	"github.com/rahmadf/bella/internal/interview"
	"github.com/rahmadf/bella/internal/ipc"
	"github.com/rahmadf/bella/internal/output"
	"github.com/rahmadf/bella/internal/pipeline"
	"github.com/rahmadf/bella/internal/playback"
	"github.com/rahmadf/bella/internal/remote"
	"github.com/rahmadf/bella/internal/session"
	"github.com/rahmadf/bella/internal/transcript"
)

// commandRun is the owner process: it wires capture, playback, and the remote
// pipeline into the orchestrator, then serves control commands until the
// interview is finalized or the process is interrupted.
func (r Runner) commandRun(ctx context.Context, cfg config.Config, sessionPath string, logger *slog.Logger) int {
	handoff, err := interview.LoadHandoff(sessionPath)
	if err != nil {
		if errors.Is(err, interview.ErrSessionMissing) {
			fmt.Fprintf(r.Stderr, "error: no session payload at %q; run the setup flow first\n", sessionPath)
		} else {
			fmt.Fprintf(r.Stderr, "error: %v\n", err)
		}
		return 1
	}

	client, err := remote.New(remote.Config{
		BaseURL: cfg.API.BaseURL,
		Token:   cfg.API.Token,
		Timeout: time.Duration(cfg.API.TimeoutMS) * time.Millisecond,
	})
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	recorder := pipeline.NewRecorder(cfg, logger)

	var speaker session.Speaker
	var cues *playback.Cues
	if cfg.Playback.Enable {
		var player playback.Player = playback.PulsePlayer{}
		if len(cfg.Playback.PlayerCmd.Argv) > 0 {
			player = playback.ExecPlayer{Argv: cfg.Playback.PlayerCmd.Argv}
		}
		speaker = playback.New(player, logger)
		cues = playback.NewCues(player, cfg.Playback.CueEnable)
	}

	notifier := newTerminalNotifier(r.Stdout, cues, logger)
	greeting := interview.Greeting(handoff.Config, handoff.Questions, cfg.Greeting.Text, cfg.Greeting.AudioURL)

	controller, err := session.NewController(handoff, greeting, transcript.Options{
		TrailingSpace:       cfg.Transcript.TrailingSpace,
		CapitalizeSentences: cfg.Transcript.CapitalizeSentences,
	}, session.Deps{
		Recorder: recorder,
		Speaker:  speaker,
		Pipeline: remotePipeline{client: client},
		Notifier: notifier,
		Logger:   logger,
	})
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	listener, err := ipc.Acquire(ctx, socketPath, 180*time.Millisecond, 8, nil)
	if err != nil {
		if errors.Is(err, ipc.ErrAlreadyRunning) {
			fmt.Fprintln(r.Stderr, "error: another bella session owns the socket")
			return 1
		}
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	defer func() {
		_ = listener.Close()
		_ = os.Remove(socketPath)
	}()

	exporter, err := output.NewExporter("", logger)
	if err != nil {
		logger.Warn("local export unavailable", "error", err.Error())
		exporter = nil
	}

	owner := &ownerHandler{
		controller: controller,
		exporter:   exporter,
		logger:     logger,
		done:       make(chan struct{}),
	}

	serverCtx, serverCancel := context.WithCancel(ctx)
	defer serverCancel()

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- ipc.Serve(serverCtx, listener, owner)
	}()

	logger.Info("session ready",
		"questions", len(handoff.Questions),
		"category", handoff.Config.CategoryID,
		"level", handoff.Config.Level,
		"socket", socketPath,
	)
	if err := controller.Begin(ctx); err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
	}

	select {
	case <-ctx.Done():
		fmt.Fprintln(r.Stdout, "interrupted")
	case <-owner.done:
	}

	if speaker != nil {
		speaker.Stop()
	}
	serverCancel()
	if serverErr := <-serverErrCh; serverErr != nil {
		fmt.Fprintf(r.Stderr, "error: ipc server failed: %v\n", serverErr)
		return 1
	}
	return 0
}

// ownerHandler serves forwarded commands, intercepting finalize so the
// completed record can also be exported locally before the owner exits.
type ownerHandler struct {
	controller *session.Controller
	exporter   *output.Exporter
	logger     *slog.Logger
	done       chan struct{}
	once       sync.Once
}

func (h *ownerHandler) Handle(ctx context.Context, req ipc.Request) ipc.Response {
	if req.Command != "finalize" {
		return h.controller.Handle(ctx, req)
	}

	result, err := h.controller.Finalize(ctx)
	if err != nil {
		return ipc.Response{OK: false, State: string(h.controller.State()), Error: err.Error()}
	}

	message := fmt.Sprintf("interview saved as %s", result.InterviewID)
	if h.exporter != nil {
		path, exportErr := h.exporter.Export(result.Record)
		if exportErr != nil {
			h.logger.Warn("local export failed", "error", exportErr.Error())
		} else {
			message += "; exported to " + path
		}
	}

	h.once.Do(func() { close(h.done) })
	return ipc.Response{OK: true, State: string(h.controller.State()), Message: message}
}
