package app

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rahmadf/bella/internal/fsm"
)

func TestTerminalNotifierOutput(t *testing.T) {
	var out bytes.Buffer
	notifier := newTerminalNotifier(&out, nil, nil)

	notifier.Phase(fsm.StateRecording)
	notifier.Prompt("Ceritakan proyek Anda.")
	notifier.Transcription("Saya membangun layanan pembayaran.")
	notifier.Failure("transcription failed: timeout")

	text := out.String()
	require.Contains(t, text, "[recording]")
	require.Contains(t, text, "Bella: Ceritakan proyek Anda.")
	require.Contains(t, text, "You: Saya membangun layanan pembayaran.")
	require.Contains(t, text, "error: transcription failed: timeout")
}
