package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/rahmadf/bella/internal/fsm"
	"github.com/rahmadf/bella/internal/playback"
)

// terminalNotifier is the user-visible surface of the owner process: phase
// changes, prompts, and transcriptions go to stdout, with short tone cues for
// the moments the user cannot see.
type terminalNotifier struct {
	mu     sync.Mutex
	out    io.Writer
	cues   *playback.Cues
	logger *slog.Logger
}

func newTerminalNotifier(out io.Writer, cues *playback.Cues, logger *slog.Logger) *terminalNotifier {
	return &terminalNotifier{out: out, cues: cues, logger: logger}
}

func (n *terminalNotifier) Phase(state fsm.State) {
	n.printf("[%s]", state)
	if n.logger != nil {
		n.logger.Info("phase", slog.String("state", string(state)))
	}
	if n.cues == nil {
		return
	}
	switch state {
	case fsm.StateRecording:
		n.cues.Listening(context.Background())
	case fsm.StateSubmitting:
		n.cues.Submitted(context.Background())
	case fsm.StateCompleted:
		n.cues.Finished(context.Background())
	}
}

func (n *terminalNotifier) Prompt(text string) {
	n.printf("Bella: %s", text)
}

func (n *terminalNotifier) Transcription(text string) {
	n.printf("You: %s", text)
}

func (n *terminalNotifier) Failure(message string) {
	n.printf("error: %s", message)
	if n.logger != nil {
		n.logger.Error("session failure", slog.String("message", message))
	}
	if n.cues != nil {
		n.cues.Error(context.Background())
	}
}

func (n *terminalNotifier) printf(format string, args ...any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.out, format+"\n", args...)
}
