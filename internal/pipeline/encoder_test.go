package pipeline

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rahmadf/bella/internal/audio"
	"github.com/rahmadf/bella/internal/config"
)

func silencePCM(samples int) []byte {
	return make([]byte, samples*2)
}

func TestEncodeBestEmptyPCMFails(t *testing.T) {
	_, err := EncodeBest([]string{config.CodecWavPCM}, nil)
	require.Error(t, err)
}

func TestEncodeBestDefaultsToPCMWAV(t *testing.T) {
	pcm := silencePCM(audio.SampleRate) // one second

	encoded, err := EncodeBest(nil, pcm)
	require.NoError(t, err)
	require.Equal(t, config.CodecWavPCM, encoded.Codec)
	require.Equal(t, "audio/wav", encoded.ContentType)
	require.Contains(t, encoded.Filename, ".wav")
	require.Len(t, encoded.Data, 44+len(pcm))

	require.Equal(t, "RIFF", string(encoded.Data[0:4]))
	require.Equal(t, "WAVE", string(encoded.Data[8:12]))
	require.Equal(t, uint16(wavFormatPCM), binary.LittleEndian.Uint16(encoded.Data[20:22]))
	require.Equal(t, uint32(audio.SampleRate), binary.LittleEndian.Uint32(encoded.Data[24:28]))
	require.Equal(t, uint16(16), binary.LittleEndian.Uint16(encoded.Data[34:36]))
	require.Equal(t, uint32(len(pcm)), binary.LittleEndian.Uint32(encoded.Data[40:44]))
}

func TestEncodeBestSkipsUnknownCodec(t *testing.T) {
	encoded, err := EncodeBest([]string{"mp3/lame", config.CodecWavPCM}, silencePCM(160))
	require.NoError(t, err)
	require.Equal(t, config.CodecWavPCM, encoded.Codec)
}

func TestEncodeBestAllCodecsFail(t *testing.T) {
	_, err := EncodeBest([]string{"mp3/lame"}, silencePCM(160))
	require.Error(t, err)
}

func TestG711UlawHalvesPayload(t *testing.T) {
	pcm := silencePCM(320)

	encoded, err := EncodeBest([]string{config.CodecWavUlaw}, pcm)
	require.NoError(t, err)
	require.Equal(t, config.CodecWavUlaw, encoded.Codec)
	require.Len(t, encoded.Data, 44+len(pcm)/2)
	require.Equal(t, uint16(wavFormatUlaw), binary.LittleEndian.Uint16(encoded.Data[20:22]))
	require.Equal(t, uint16(8), binary.LittleEndian.Uint16(encoded.Data[34:36]))
}

func TestG711AlawFormatCode(t *testing.T) {
	encoded, err := EncodeBest([]string{config.CodecWavAlaw}, silencePCM(320))
	require.NoError(t, err)
	require.Equal(t, config.CodecWavAlaw, encoded.Codec)
	require.Equal(t, uint16(wavFormatAlaw), binary.LittleEndian.Uint16(encoded.Data[20:22]))
}

func TestOggOpusProducesOggContainer(t *testing.T) {
	// 100ms of silence, enough for five frames.
	encoded, err := EncodeBest([]string{config.CodecOggOpus}, silencePCM(audio.SampleRate/10))
	require.NoError(t, err)
	require.Equal(t, config.CodecOggOpus, encoded.Codec)
	require.Equal(t, "audio/ogg", encoded.ContentType)
	require.Contains(t, encoded.Filename, ".ogg")
	require.Greater(t, len(encoded.Data), 4)
	require.Equal(t, "OggS", string(encoded.Data[0:4]))
}

func TestPCMToInt16LittleEndian(t *testing.T) {
	samples := pcmToInt16([]byte{0x01, 0x00, 0xFF, 0xFF, 0x00, 0x80})
	require.Equal(t, []int16{1, -1, -32768}, samples)
}
