package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseEmptyContentReturnsDefaults(t *testing.T) {
	cfg, warnings, err := Parse("", Default())
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Equal(t, Default(), cfg)
}

func TestParseLegacyKeyValues(t *testing.T) {
	content := `
# interview endpoint
api.base_url = https://interviews.example.com/interviews
api.timeout_ms = 45000
audio.input = headset
capture.codecs = wav/ulaw, wav/pcm
playback.cue_enable = off
player_cmd = mpv --no-video
transcript.capitalize_sentences = false
`

	cfg, warnings, err := Parse(content, Default())
	require.NoError(t, err)

	require.Equal(t, "https://interviews.example.com/interviews", cfg.API.BaseURL)
	require.Equal(t, 45000, cfg.API.TimeoutMS)
	require.Equal(t, "headset", cfg.Audio.Input)
	require.Equal(t, []string{CodecWavUlaw, CodecWavPCM}, cfg.Capture.Codecs)
	require.False(t, cfg.Playback.CueEnable)
	require.True(t, cfg.Playback.Enable)
	require.Equal(t, []string{"mpv", "--no-video"}, cfg.Playback.PlayerCmd.Argv)
	require.False(t, cfg.Transcript.CapitalizeSentences)

	require.NotEmpty(t, warnings)
	require.Equal(t, legacyFormatWarning, warnings[0].Message)
}

func TestParseLegacyUnknownKeyWarns(t *testing.T) {
	cfg, warnings, err := Parse("mystery.key = value\n", Default())
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	require.Len(t, warnings, 2)
	require.Equal(t, 1, warnings[1].Line)
	require.Contains(t, warnings[1].Message, "mystery.key")
}

func TestParseLegacyBadBooleanFails(t *testing.T) {
	_, _, err := Parse("playback.enable = perhaps\n", Default())
	require.Error(t, err)
	require.Contains(t, err.Error(), "playback.enable")
}

func TestParseLegacyBadTimeoutFails(t *testing.T) {
	_, _, err := Parse("api.timeout_ms = soon\n", Default())
	require.Error(t, err)
	require.Contains(t, err.Error(), "api.timeout_ms")
}

func TestParseLegacyMissingEqualsFails(t *testing.T) {
	_, _, err := Parse("api.base_url https://x\n", Default())
	require.Error(t, err)
	require.Contains(t, err.Error(), "key=value")
}
