package playback

import (
	"bytes"
	"fmt"
	"io"

	mp3 "github.com/hajimehoshi/go-mp3"
)

// decodeMP3 decodes MP3 bytes to mono 16-bit PCM and its sample rate.
// go-mp3 always yields 16-bit stereo; channels are averaged down to mono.
func decodeMP3(data []byte) ([]int16, int, error) {
	decoder, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("decode mp3: %w", err)
	}

	raw, err := io.ReadAll(decoder)
	if err != nil {
		return nil, 0, fmt.Errorf("read mp3 samples: %w", err)
	}

	// Four bytes per stereo frame.
	frames := len(raw) / 4
	pcm := make([]int16, frames)
	for i := 0; i < frames; i++ {
		left := int16(uint16(raw[4*i]) | uint16(raw[4*i+1])<<8)
		right := int16(uint16(raw[4*i+2]) | uint16(raw[4*i+3])<<8)
		pcm[i] = int16((int32(left) + int32(right)) / 2)
	}

	return pcm, decoder.SampleRate(), nil
}
