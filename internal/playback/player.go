package playback

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/jfreymuth/pulse"
)

// PulsePlayer renders decoded PCM on the default PulseAudio sink.
type PulsePlayer struct{}

func (PulsePlayer) Play(ctx context.Context, clip Clip) error {
	if len(clip.PCM) == 0 {
		return nil
	}

	client, err := pulse.NewClient(
		pulse.ClientApplicationName("bella"),
		pulse.ClientApplicationIconName("audio-input-microphone"),
	)
	if err != nil {
		return fmt.Errorf("connect pulse server: %w", err)
	}
	defer client.Close()

	samples := clip.PCM
	cursor := 0
	reader := pulse.Int16Reader(func(buf []int16) (int, error) {
		if ctx.Err() != nil {
			return 0, pulse.EndOfData
		}
		if cursor >= len(samples) {
			return 0, pulse.EndOfData
		}

		n := copy(buf, samples[cursor:])
		cursor += n
		if cursor >= len(samples) {
			return n, pulse.EndOfData
		}
		return n, nil
	})

	stream, err := client.NewPlayback(
		reader,
		pulse.PlaybackMono,
		pulse.PlaybackSampleRate(clip.SampleRate),
		pulse.PlaybackLatency(0.05),
		pulse.PlaybackMediaName("bella prompt"),
	)
	if err != nil {
		return fmt.Errorf("create pulse playback stream: %w", err)
	}
	defer stream.Close()

	stream.Start()
	stream.Drain()
	if err := stream.Error(); err != nil {
		return fmt.Errorf("play prompt stream: %w", err)
	}
	return ctx.Err()
}

// ExecPlayer hands encoded audio to an external command, for setups where
// the pulse sink is unavailable or a custom player is preferred.
type ExecPlayer struct {
	Argv []string
}

func (p ExecPlayer) Play(ctx context.Context, clip Clip) error {
	if len(p.Argv) == 0 {
		return fmt.Errorf("player command is empty")
	}
	if len(clip.Raw) == 0 {
		return fmt.Errorf("clip carries no container bytes")
	}

	dir, err := os.MkdirTemp("", "bella-play-")
	if err != nil {
		return fmt.Errorf("create playback temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "utterance.mp3")
	if err := os.WriteFile(path, clip.Raw, 0o600); err != nil {
		return fmt.Errorf("write playback temp file: %w", err)
	}

	args := append(append([]string(nil), p.Argv[1:]...), path)
	cmd := exec.CommandContext(ctx, p.Argv[0], args...)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("run player command: %w", err)
	}
	return ctx.Err()
}
