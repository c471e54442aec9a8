package playback

import (
	"context"
	"math"
	"time"
)

const cueSampleRate = 16000

type toneSpec struct {
	frequencyHz float64
	duration    time.Duration
	volume      float64
}

var (
	listeningCuePCM = synthesizeCue([]toneSpec{
		{frequencyHz: 880, duration: 70 * time.Millisecond, volume: 0.18},
		{frequencyHz: 1175, duration: 70 * time.Millisecond, volume: 0.18},
	})
	submittedCuePCM = synthesizeCue([]toneSpec{
		{frequencyHz: 620, duration: 120 * time.Millisecond, volume: 0.18},
	})
	finishedCuePCM = synthesizeCue([]toneSpec{
		{frequencyHz: 740, duration: 65 * time.Millisecond, volume: 0.18},
		{frequencyHz: 988, duration: 90 * time.Millisecond, volume: 0.18},
	})
	errorCuePCM = synthesizeCue([]toneSpec{
		{frequencyHz: 480, duration: 75 * time.Millisecond, volume: 0.18},
		{frequencyHz: 360, duration: 90 * time.Millisecond, volume: 0.18},
	})
)

// Cues emits short synthesized tones around recording and submission so the
// user hears phase changes without watching the terminal.
type Cues struct {
	player  Player
	enabled bool
}

// NewCues wires cue playback through the given backend.
func NewCues(player Player, enabled bool) *Cues {
	return &Cues{player: player, enabled: enabled}
}

// Listening marks the microphone turning on.
func (c *Cues) Listening(ctx context.Context) { c.emit(ctx, listeningCuePCM) }

// Submitted marks an answer leaving for transcription.
func (c *Cues) Submitted(ctx context.Context) { c.emit(ctx, submittedCuePCM) }

// Finished marks the interview completing.
func (c *Cues) Finished(ctx context.Context) { c.emit(ctx, finishedCuePCM) }

// Error marks a recoverable failure.
func (c *Cues) Error(ctx context.Context) { c.emit(ctx, errorCuePCM) }

// emit plays a cue best-effort; cue failures never affect session flow.
func (c *Cues) emit(ctx context.Context, samples []int16) {
	if c == nil || !c.enabled || c.player == nil || len(samples) == 0 {
		return
	}

	cueCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	_ = c.player.Play(cueCtx, Clip{PCM: samples, SampleRate: cueSampleRate})
}

func synthesizeCue(parts []toneSpec) []int16 {
	if len(parts) == 0 {
		return nil
	}
	gapSamples := samplesForDuration(22 * time.Millisecond)
	total := 0
	for i, part := range parts {
		total += samplesForDuration(part.duration)
		if i < len(parts)-1 {
			total += gapSamples
		}
	}

	pcm := make([]int16, 0, total)
	for i, part := range parts {
		pcm = append(pcm, synthesizeTone(part)...)
		if i < len(parts)-1 && gapSamples > 0 {
			pcm = append(pcm, make([]int16, gapSamples)...)
		}
	}

	return pcm
}

func synthesizeTone(spec toneSpec) []int16 {
	n := samplesForDuration(spec.duration)
	if n <= 0 || spec.frequencyHz <= 0 || spec.volume <= 0 {
		return nil
	}

	attackRelease := n / 10
	maxRamp := cueSampleRate / 200 // 5ms
	if attackRelease > maxRamp {
		attackRelease = maxRamp
	}
	if attackRelease < 1 {
		attackRelease = 1
	}

	pcm := make([]int16, n)
	for i := 0; i < n; i++ {
		envelope := 1.0
		if i < attackRelease {
			envelope = float64(i) / float64(attackRelease)
		}
		releaseIndex := n - i - 1
		if releaseIndex < attackRelease {
			release := float64(releaseIndex) / float64(attackRelease)
			if release < envelope {
				envelope = release
			}
		}
		t := float64(i) / cueSampleRate
		sample := math.Sin(2 * math.Pi * spec.frequencyHz * t)
		pcm[i] = int16(math.Round(sample * spec.volume * envelope * 32767))
	}

	return pcm
}

func samplesForDuration(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Round(d.Seconds() * cueSampleRate))
}
