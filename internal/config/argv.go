package config

import (
	"fmt"
	"strings"
)

// parseArgv splits a command string into argv tokens with shell-like quoting.
// Supported: single quotes (literal), double quotes (with backslash escapes),
// and bare backslash escapes outside quotes.
func parseArgv(raw string) ([]string, error) {
	var argv []string
	var current strings.Builder

	inSingle := false
	inDouble := false
	escaped := false
	tokenStarted := false

	flush := func() {
		if tokenStarted {
			argv = append(argv, current.String())
			current.Reset()
			tokenStarted = false
		}
	}

	for i := 0; i < len(raw); i++ {
		ch := raw[i]

		if escaped {
			current.WriteByte(ch)
			escaped = false
			continue
		}

		if inSingle {
			if ch == '\'' {
				inSingle = false
				continue
			}
			current.WriteByte(ch)
			continue
		}

		if inDouble {
			switch ch {
			case '"':
				inDouble = false
			case '\\':
				escaped = true
			default:
				current.WriteByte(ch)
			}
			continue
		}

		switch ch {
		case ' ', '\t':
			flush()
		case '\'':
			inSingle = true
			tokenStarted = true
		case '"':
			inDouble = true
			tokenStarted = true
		case '\\':
			escaped = true
			tokenStarted = true
		default:
			current.WriteByte(ch)
			tokenStarted = true
		}
	}

	if escaped {
		return nil, fmt.Errorf("trailing backslash")
	}
	if inSingle || inDouble {
		return nil, fmt.Errorf("unterminated quote")
	}

	flush()
	return argv, nil
}
