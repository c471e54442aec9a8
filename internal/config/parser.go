package config

import (
	"fmt"
	"strconv"
	"strings"
)

const legacyFormatWarning = "legacy key=value config format is deprecated; migrate to JSONC"

// Parse reads configuration content as JSONC (preferred) or legacy key/value format.
//
// JSONC is selected when the first non-whitespace character is `{`.
func Parse(content string, base Config) (Config, []Warning, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		validatedWarnings, err := Validate(base)
		if err != nil {
			return Config{}, nil, err
		}
		return base, validatedWarnings, nil
	}

	if strings.HasPrefix(trimmed, "{") {
		return parseJSONC(content, base)
	}

	cfg, warnings, err := parseLegacy(content, base)
	if err != nil {
		return Config{}, nil, err
	}
	warnings = append([]Warning{{Message: legacyFormatWarning}}, warnings...)
	return cfg, warnings, nil
}

// parseLegacy reads dotted key=value lines, `#` comments, blank lines ignored.
func parseLegacy(content string, base Config) (Config, []Warning, error) {
	cfg := base
	warnings := make([]Warning, 0)

	for lineNo, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			return Config{}, nil, fmt.Errorf("line %d: expected key=value, got %q", lineNo+1, line)
		}
		key = strings.TrimSpace(strings.ToLower(key))
		value = strings.TrimSpace(value)

		if err := applyLegacyKey(&cfg, key, value, lineNo+1, &warnings); err != nil {
			return Config{}, nil, err
		}
	}

	validatedWarnings, err := Validate(cfg)
	if err != nil {
		return Config{}, nil, err
	}
	warnings = append(warnings, validatedWarnings...)
	return cfg, warnings, nil
}

func applyLegacyKey(cfg *Config, key, value string, line int, warnings *[]Warning) error {
	switch key {
	case "api.base_url":
		cfg.API.BaseURL = value
	case "api.timeout_ms":
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("line %d: api.timeout_ms expects an integer, got %q", line, value)
		}
		cfg.API.TimeoutMS = parsed
	case "audio.input":
		cfg.Audio.Input = value
	case "audio.fallback":
		cfg.Audio.Fallback = value
	case "capture.codecs":
		cfg.Capture.Codecs = splitList(value)
	case "playback.enable":
		parsed, err := parseBool(value)
		if err != nil {
			return fmt.Errorf("line %d: playback.enable expects a boolean, got %q", line, value)
		}
		cfg.Playback.Enable = parsed
	case "playback.cue_enable":
		parsed, err := parseBool(value)
		if err != nil {
			return fmt.Errorf("line %d: playback.cue_enable expects a boolean, got %q", line, value)
		}
		cfg.Playback.CueEnable = parsed
	case "player_cmd":
		argv, err := parseArgv(value)
		if err != nil {
			return fmt.Errorf("line %d: invalid player_cmd: %w", line, err)
		}
		cfg.Playback.PlayerCmd = CommandConfig{Raw: value, Argv: argv}
	case "greeting.text":
		cfg.Greeting.Text = value
	case "greeting.audio_url":
		cfg.Greeting.AudioURL = value
	case "session.file":
		cfg.Session.File = value
	case "transcript.trailing_space":
		parsed, err := parseBool(value)
		if err != nil {
			return fmt.Errorf("line %d: transcript.trailing_space expects a boolean, got %q", line, value)
		}
		cfg.Transcript.TrailingSpace = parsed
	case "transcript.capitalize_sentences":
		parsed, err := parseBool(value)
		if err != nil {
			return fmt.Errorf("line %d: transcript.capitalize_sentences expects a boolean, got %q", line, value)
		}
		cfg.Transcript.CapitalizeSentences = parsed
	case "debug.audio_dump":
		parsed, err := parseBool(value)
		if err != nil {
			return fmt.Errorf("line %d: debug.audio_dump expects a boolean, got %q", line, value)
		}
		cfg.Debug.EnableAudioDump = parsed
	default:
		*warnings = append(*warnings, Warning{Line: line, Message: fmt.Sprintf("unknown key %q ignored", key)})
	}
	return nil
}

func parseBool(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	default:
		return false, fmt.Errorf("not a boolean: %q", value)
	}
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
