package config

import (
	"fmt"
	"strings"
)

// Validate checks a parsed config for values that cannot work at runtime,
// returning warnings for the rest. It does not mutate the config; consumers
// trim values themselves.
func Validate(cfg Config) ([]Warning, error) {
	var warnings []Warning

	baseURL := strings.TrimSpace(cfg.API.BaseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("api.base_url must not be empty")
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("api.base_url must start with http:// or https://")
	}

	if cfg.API.TimeoutMS < 0 {
		return nil, fmt.Errorf("api.timeout_ms must not be negative")
	}

	if len(cfg.Capture.Codecs) == 0 {
		return nil, fmt.Errorf("capture.codecs must not be empty")
	}
	for _, codec := range cfg.Capture.Codecs {
		if !knownCodec(codec) {
			return nil, fmt.Errorf("unknown codec %q in capture.codecs", codec)
		}
	}

	if cfg.Playback.PlayerCmd.Raw != "" && len(cfg.Playback.PlayerCmd.Argv) == 0 {
		return nil, fmt.Errorf("player_cmd must contain at least one argument")
	}

	return warnings, nil
}

func knownCodec(codec string) bool {
	for _, known := range KnownCodecs() {
		if codec == known {
			return true
		}
	}
	return false
}
