package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rahmadf/bella/internal/audio"
	"github.com/rahmadf/bella/internal/config"
	"github.com/rahmadf/bella/internal/session"
)

// Recorder owns one microphone capture lifecycle per answer and encodes the
// result with the configured codec preference order.
type Recorder struct {
	cfg    config.Config
	logger *slog.Logger

	mu        sync.Mutex
	selection audio.Selection
	capture   *audio.Capture
	buffer    *session.Recording
}

// NewRecorder constructs a recorder from runtime config.
func NewRecorder(cfg config.Config, logger *slog.Logger) *Recorder {
	return &Recorder{cfg: cfg, logger: logger}
}

// Start resolves device selection and begins accumulating PCM.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.capture != nil {
		return fmt.Errorf("recorder already started")
	}

	selection, err := audio.SelectDevice(ctx, r.cfg.Audio.Input, r.cfg.Audio.Fallback)
	if err != nil {
		return err
	}
	r.selection = selection
	if selection.Warning != "" {
		r.logWarn(selection.Warning)
	}

	capture, err := audio.StartCapture(ctx, selection.Device)
	if err != nil {
		return err
	}
	r.capture = capture
	return nil
}

// Stop finalizes capture, releases the device, and encodes the recording.
// Calling Stop while idle is a no-op returning the empty-recording error.
func (r *Recorder) Stop(_ context.Context) (session.Recording, error) {
	r.mu.Lock()
	capture := r.capture
	r.capture = nil
	r.mu.Unlock()

	if capture == nil {
		return session.Recording{}, session.ErrEmptyRecording
	}

	if err := capture.Stop(); err != nil {
		return session.Recording{}, fmt.Errorf("stop capture: %w", err)
	}

	rawPCM := capture.RawPCM()
	duration := time.Since(capture.StartedAt()).Seconds()
	r.writeDebugAudio(rawPCM)
	if len(rawPCM) == 0 {
		return session.Recording{}, session.ErrEmptyRecording
	}

	encoded, err := EncodeBest(r.cfg.Capture.Codecs, rawPCM)
	if err != nil {
		return session.Recording{}, err
	}

	recording := session.Recording{
		Codec:       encoded.Codec,
		Filename:    encoded.Filename,
		ContentType: encoded.ContentType,
		Data:        encoded.Data,
		Duration:    duration,
	}

	r.mu.Lock()
	r.buffer = &recording
	r.mu.Unlock()
	return recording, nil
}

// Reset discards any buffered recording. It does not touch an active capture.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.buffer = nil
	r.mu.Unlock()
}

// Buffer returns the last encoded recording, or nil when nothing was captured.
func (r *Recorder) Buffer() *session.Recording {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buffer
}

// Device describes the selected input device for logs and status output.
func (r *Recorder) Device() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return describeDevice(r.selection.Device)
}

func describeDevice(device audio.Device) string {
	description := strings.TrimSpace(device.Description)
	id := strings.TrimSpace(device.ID)
	if description == "" {
		return id
	}
	if id == "" {
		return description
	}
	return fmt.Sprintf("%s (%s)", description, id)
}

func (r *Recorder) logWarn(message string) {
	if r.logger == nil {
		return
	}
	r.logger.Warn(message)
}

// writeDebugAudio dumps raw PCM to WAV when debug.audio_dump is enabled.
func (r *Recorder) writeDebugAudio(rawPCM []byte) {
	if !r.cfg.Debug.EnableAudioDump || len(rawPCM) == 0 {
		return
	}

	file, err := createDebugFile("audio", "wav")
	if err != nil {
		r.logWarn(fmt.Sprintf("unable to create debug audio dump: %v", err))
		return
	}
	defer file.Close()

	if _, err := file.Write(encodeWAV(rawPCM, wavFormatPCM, audio.SampleRate, 1, 16)); err != nil {
		r.logWarn(fmt.Sprintf("unable to write debug audio dump: %v", err))
	}
}

// createDebugFile creates timestamped debug artifacts under state/bella/debug.
func createDebugFile(prefix string, extension string) (*os.File, error) {
	stateDir, err := resolveStateDir()
	if err != nil {
		return nil, err
	}
	debugDir := filepath.Join(stateDir, "bella", "debug")
	if err := os.MkdirAll(debugDir, 0o700); err != nil {
		return nil, fmt.Errorf("create debug dir: %w", err)
	}

	timestamp := time.Now().Format("20060102-150405.000")
	path := filepath.Join(debugDir, fmt.Sprintf("%s-%s.%s", prefix, timestamp, extension))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open debug file %q: %w", path, err)
	}
	return file, nil
}

// resolveStateDir returns the XDG_STATE_HOME fallback path for debug artifacts.
func resolveStateDir() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_STATE_HOME")); xdg != "" {
		return xdg, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory for state: %w", err)
	}
	return filepath.Join(home, ".local", "state"), nil
}
