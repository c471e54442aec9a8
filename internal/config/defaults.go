package config

// Codec labels accepted in capture.codecs, in canonical preference order.
const (
	CodecOggOpus = "ogg/opus"
	CodecWavUlaw = "wav/ulaw"
	CodecWavAlaw = "wav/alaw"
	CodecWavPCM  = "wav/pcm"
)

// Default returns the canonical runtime configuration used when no file is present.
func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL:   "http://localhost:3000/interviews",
			TimeoutMS: 20000,
		},
		Audio: AudioConfig{
			Input:    "default",
			Fallback: "default",
		},
		Capture: CaptureConfig{
			Codecs: []string{CodecOggOpus, CodecWavUlaw, CodecWavAlaw, CodecWavPCM},
		},
		Playback: PlaybackConfig{
			Enable:    true,
			CueEnable: true,
		},
		Greeting: GreetingConfig{},
		Session:  SessionConfig{},
		Transcript: TranscriptConfig{
			TrailingSpace:       false,
			CapitalizeSentences: true,
		},
		Debug: DebugConfig{},
	}
}

// KnownCodecs reports the codec labels the encoder chain can satisfy.
func KnownCodecs() []string {
	return []string{CodecOggOpus, CodecWavUlaw, CodecWavAlaw, CodecWavPCM}
}
