// Package pipeline owns the capture-side answer pipeline: microphone
// recording and encoding of raw PCM into an upload-ready container.
package pipeline

import (
	"fmt"
	"time"

	"github.com/rahmadf/bella/internal/config"
)

// Encoded is one recording rendered into its final upload container.
type Encoded struct {
	Codec       string
	Filename    string
	ContentType string
	Data        []byte
}

// encoder renders raw 16-bit little-endian mono PCM into one container format.
type encoder interface {
	codec() string
	contentType() string
	extension() string
	encode(pcm []byte) ([]byte, error)
}

func encoderFor(codec string) (encoder, error) {
	switch codec {
	case config.CodecOggOpus:
		return oggOpusEncoder{}, nil
	case config.CodecWavUlaw:
		return g711Encoder{alaw: false}, nil
	case config.CodecWavAlaw:
		return g711Encoder{alaw: true}, nil
	case config.CodecWavPCM:
		return pcmEncoder{}, nil
	default:
		return nil, fmt.Errorf("unknown codec %q", codec)
	}
}

// EncodeBest renders PCM with the first codec in the preference order that
// succeeds. wav/pcm never fails, so a preference list ending with it always
// yields a buffer.
func EncodeBest(codecs []string, pcm []byte) (Encoded, error) {
	if len(pcm) == 0 {
		return Encoded{}, fmt.Errorf("no audio to encode")
	}
	if len(codecs) == 0 {
		codecs = []string{config.CodecWavPCM}
	}

	var lastErr error
	for _, codec := range codecs {
		enc, err := encoderFor(codec)
		if err != nil {
			lastErr = err
			continue
		}
		data, err := enc.encode(pcm)
		if err != nil {
			lastErr = fmt.Errorf("encode %s: %w", codec, err)
			continue
		}
		return Encoded{
			Codec:       enc.codec(),
			Filename:    fmt.Sprintf("recording-%d.%s", time.Now().UnixMilli(), enc.extension()),
			ContentType: enc.contentType(),
			Data:        data,
		}, nil
	}

	return Encoded{}, fmt.Errorf("no codec produced a buffer: %w", lastErr)
}
