package pipeline

import (
	"github.com/zaf/g711"

	"github.com/rahmadf/bella/internal/audio"
	"github.com/rahmadf/bella/internal/config"
)

// g711Encoder compands 16-bit PCM to 8-bit mu-law or A-law in a WAV container.
type g711Encoder struct {
	alaw bool
}

func (e g711Encoder) codec() string {
	if e.alaw {
		return config.CodecWavAlaw
	}
	return config.CodecWavUlaw
}

func (g711Encoder) contentType() string { return "audio/wav" }
func (g711Encoder) extension() string   { return "wav" }

func (e g711Encoder) encode(pcm []byte) ([]byte, error) {
	var companded []byte
	var format uint16
	if e.alaw {
		companded = g711.EncodeAlaw(pcm)
		format = wavFormatAlaw
	} else {
		companded = g711.EncodeUlaw(pcm)
		format = wavFormatUlaw
	}
	return encodeWAV(companded, format, audio.SampleRate, 1, 8), nil
}
