package playback

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSynthesizeCueLengths(t *testing.T) {
	pcm := synthesizeCue([]toneSpec{
		{frequencyHz: 880, duration: 70 * time.Millisecond, volume: 0.18},
		{frequencyHz: 1175, duration: 70 * time.Millisecond, volume: 0.18},
	})

	expected := samplesForDuration(70*time.Millisecond)*2 + samplesForDuration(22*time.Millisecond)
	require.Len(t, pcm, expected)
}

func TestSynthesizeToneEnvelopeBounds(t *testing.T) {
	pcm := synthesizeTone(toneSpec{frequencyHz: 440, duration: 50 * time.Millisecond, volume: 0.2})
	require.NotEmpty(t, pcm)

	ceiling := 0.2 * 32767
	limit := int16(ceiling) + 1
	for _, sample := range pcm {
		if sample > limit || sample < -limit {
			t.Fatalf("sample %d exceeds volume ceiling", sample)
		}
	}
	require.Zero(t, pcm[0])
}

func TestSynthesizeToneRejectsZeroSpecs(t *testing.T) {
	require.Empty(t, synthesizeTone(toneSpec{}))
	require.Empty(t, synthesizeCue(nil))
}

func TestCuesDisabledDoesNotPlay(t *testing.T) {
	player := newFakePlayer()
	cues := NewCues(player, false)

	cues.Listening(context.Background())
	cues.Error(context.Background())
	require.Zero(t, player.playCount())
}

func TestCuesEnabledPlays(t *testing.T) {
	player := newFakePlayer()
	cues := NewCues(player, true)

	go cues.Listening(context.Background())
	<-player.started
	player.releaseAll()

	waitFor(t, func() bool { return player.playCount() == 1 })
}

func TestMP3DecodeRejectsGarbage(t *testing.T) {
	_, _, err := decodeMP3([]byte{0x00, 0x01, 0x02})
	require.Error(t, err)
}
