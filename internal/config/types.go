// Package config resolves, parses, validates, and defaults bella configuration.
package config

// Config is the fully materialized runtime configuration used by bella.
type Config struct {
	API        APIConfig
	Audio      AudioConfig
	Capture    CaptureConfig
	Playback   PlaybackConfig
	Greeting   GreetingConfig
	Session    SessionConfig
	Transcript TranscriptConfig
	Debug      DebugConfig
}

// APIConfig locates the remote answer pipeline and its credentials.
type APIConfig struct {
	BaseURL   string
	Token     string
	TimeoutMS int
}

// AudioConfig controls preferred and fallback input-source selection.
type AudioConfig struct {
	Input    string
	Fallback string
}

// CaptureConfig controls the answer-encoding preference order.
type CaptureConfig struct {
	Codecs []string
}

// PlaybackConfig controls spoken-prompt playback behavior.
type PlaybackConfig struct {
	Enable    bool
	CueEnable bool
	PlayerCmd CommandConfig
}

// GreetingConfig overrides the interviewer greeting persona.
type GreetingConfig struct {
	Text     string
	AudioURL string
}

// SessionConfig locates the handoff payload produced by the setup flow.
type SessionConfig struct {
	File string
}

// TranscriptConfig controls transcription normalization.
type TranscriptConfig struct {
	TrailingSpace       bool
	CapitalizeSentences bool
}

// DebugConfig toggles development-only diagnostics.
type DebugConfig struct {
	EnableAudioDump bool
}

// CommandConfig stores a raw command string and its parsed argv form.
type CommandConfig struct {
	Raw  string
	Argv []string
}

// Warning is a non-fatal configuration issue surfaced to the user.
type Warning struct {
	Line    int
	Message string
}
