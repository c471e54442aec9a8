package pipeline

import (
	"encoding/binary"

	"github.com/rahmadf/bella/internal/audio"
	"github.com/rahmadf/bella/internal/config"
)

// WAVE format codes.
const (
	wavFormatPCM  = 1
	wavFormatAlaw = 6
	wavFormatUlaw = 7
)

// encodeWAV wraps an audio payload with a minimal 44-byte WAV header.
func encodeWAV(payload []byte, formatCode uint16, sampleRate, channels, bitsPerSample int) []byte {
	if channels <= 0 {
		channels = 1
	}
	byteRate := sampleRate * channels * (bitsPerSample / 8)
	blockAlign := channels * (bitsPerSample / 8)

	out := make([]byte, 44+len(payload))
	copy(out[0:4], []byte("RIFF"))
	binary.LittleEndian.PutUint32(out[4:8], uint32(36+len(payload)))
	copy(out[8:12], []byte("WAVE"))
	copy(out[12:16], []byte("fmt "))
	binary.LittleEndian.PutUint32(out[16:20], 16)
	binary.LittleEndian.PutUint16(out[20:22], formatCode)
	binary.LittleEndian.PutUint16(out[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:36], uint16(bitsPerSample))
	copy(out[36:40], []byte("data"))
	binary.LittleEndian.PutUint32(out[40:44], uint32(len(payload)))
	copy(out[44:], payload)
	return out
}

// pcmEncoder is the guaranteed-available default: raw PCM in a WAV container.
type pcmEncoder struct{}

func (pcmEncoder) codec() string       { return config.CodecWavPCM }
func (pcmEncoder) contentType() string { return "audio/wav" }
func (pcmEncoder) extension() string   { return "wav" }

func (pcmEncoder) encode(pcm []byte) ([]byte, error) {
	return encodeWAV(pcm, wavFormatPCM, audio.SampleRate, 1, 16), nil
}
