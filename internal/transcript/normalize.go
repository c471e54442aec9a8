// Package transcript normalizes transcriptions returned by the answer pipeline.
package transcript

import "strings"

// Options controls transcription normalization behavior.
type Options struct {
	TrailingSpace       bool
	CapitalizeSentences bool
}

// Normalize collapses whitespace and applies configured formatting to a
// transcription before it is attached to an answer.
func Normalize(text string, opts Options) string {
	normalized := strings.Join(strings.Fields(text), " ")
	if normalized == "" {
		return ""
	}

	if opts.CapitalizeSentences {
		normalized = capitalizeSentenceStarts(normalized)
	}

	if opts.TrailingSpace {
		return normalized + " "
	}
	return normalized
}
