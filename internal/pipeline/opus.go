package pipeline

import (
	"bytes"
	"fmt"

	"github.com/pion/rtp"
	"github.com/pion/webrtc/v3/pkg/media/oggwriter"
	opus "gopkg.in/hraban/opus.v2"

	"github.com/rahmadf/bella/internal/audio"
	"github.com/rahmadf/bella/internal/config"
)

const (
	// 20ms frames at the capture rate.
	opusFrameSamples = audio.SampleRate / 50
	// Ogg/Opus granule positions always count 48kHz samples.
	opusGranulePerFrame = 48000 / 50

	opusMaxPacket  = 4000
	opusRTPPayload = 111
	opusRTPSSRC    = 0xBE11A
)

// oggOpusEncoder renders PCM as Opus frames inside an Ogg container, the
// preferred upload format.
type oggOpusEncoder struct{}

func (oggOpusEncoder) codec() string       { return config.CodecOggOpus }
func (oggOpusEncoder) contentType() string { return "audio/ogg" }
func (oggOpusEncoder) extension() string   { return "ogg" }

func (oggOpusEncoder) encode(pcm []byte) ([]byte, error) {
	enc, err := opus.NewEncoder(audio.SampleRate, 1, opus.AppVoIP)
	if err != nil {
		return nil, fmt.Errorf("create opus encoder: %w", err)
	}

	var buf bytes.Buffer
	writer, err := oggwriter.NewWith(&buf, 48000, 1)
	if err != nil {
		return nil, fmt.Errorf("create ogg writer: %w", err)
	}

	samples := pcmToInt16(pcm)
	frame := make([]int16, opusFrameSamples)
	packet := make([]byte, opusMaxPacket)

	var sequence uint16
	var timestamp uint32
	for offset := 0; offset < len(samples); offset += opusFrameSamples {
		end := offset + opusFrameSamples
		if end > len(samples) {
			end = len(samples)
		}
		n := copy(frame, samples[offset:end])
		for i := n; i < opusFrameSamples; i++ {
			frame[i] = 0
		}

		written, err := enc.Encode(frame, packet)
		if err != nil {
			_ = writer.Close()
			return nil, fmt.Errorf("encode opus frame: %w", err)
		}

		err = writer.WriteRTP(&rtp.Packet{
			Header: rtp.Header{
				Version:        2,
				PayloadType:    opusRTPPayload,
				SequenceNumber: sequence,
				Timestamp:      timestamp,
				SSRC:           opusRTPSSRC,
			},
			Payload: append([]byte(nil), packet[:written]...),
		})
		if err != nil {
			_ = writer.Close()
			return nil, fmt.Errorf("write ogg page: %w", err)
		}

		sequence++
		timestamp += opusGranulePerFrame
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize ogg container: %w", err)
	}
	return buf.Bytes(), nil
}

func pcmToInt16(pcm []byte) []int16 {
	samples := make([]int16, len(pcm)/2)
	for i := range samples {
		samples[i] = int16(uint16(pcm[2*i]) | uint16(pcm[2*i+1])<<8)
	}
	return samples
}
