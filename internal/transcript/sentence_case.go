package transcript

import (
	"strings"
	"unicode"
)

// nonTerminalAbbreviations are tokens whose trailing period does not end a
// sentence. Interview transcriptions mix Indonesian and English, so both
// vocabularies are covered.
var nonTerminalAbbreviations = map[string]struct{}{
	// Indonesian.
	"dll": {},
	"dsb": {},
	"dst": {},
	"hal": {},
	"no":  {},
	"tgl": {},
	"yth": {},

	// English/editorial.
	"cf":   {},
	"dr":   {},
	"e.g":  {},
	"etc":  {},
	"fig":  {},
	"i.e":  {},
	"mr":   {},
	"mrs":  {},
	"ms":   {},
	"prof": {},
	"vs":   {},
}

func capitalizeSentenceStarts(text string) string {
	runes := []rune(text)

	var out strings.Builder
	out.Grow(len(text))

	capitalizeStart := true
	pendingBoundary := false
	sawSpaceAfterBoundary := false

	for i, r := range runes {
		if capitalizeStart && unicode.IsLetter(r) {
			r = unicode.ToUpper(r)
			capitalizeStart = false
			pendingBoundary = false
			sawSpaceAfterBoundary = false
		} else if pendingBoundary {
			switch {
			case unicode.IsSpace(r):
				sawSpaceAfterBoundary = true
			case unicode.IsLetter(r):
				if sawSpaceAfterBoundary {
					r = unicode.ToUpper(r)
				}
				pendingBoundary = false
				sawSpaceAfterBoundary = false
			case isQuoteOrCloser(r):
				// Keep waiting for a letter, e.g. `. "quote"`.
			default:
				pendingBoundary = false
				sawSpaceAfterBoundary = false
			}
		}

		out.WriteRune(r)

		switch r {
		case '.':
			if isSentenceBoundaryPeriod(runes, i) {
				pendingBoundary = true
				sawSpaceAfterBoundary = false
			} else {
				pendingBoundary = false
				sawSpaceAfterBoundary = false
			}
		case '!', '?':
			pendingBoundary = true
			sawSpaceAfterBoundary = false
		}
	}

	return out.String()
}

func isSentenceBoundaryPeriod(runes []rune, idx int) bool {
	if idx < 0 || idx >= len(runes) || runes[idx] != '.' {
		return false
	}

	// Decimal number, e.g. `3.5`.
	if idx > 0 && idx+1 < len(runes) && unicode.IsDigit(runes[idx-1]) && unicode.IsDigit(runes[idx+1]) {
		return false
	}

	// Period embedded in a token, e.g. `example.com` or `e.g.`.
	if idx+1 < len(runes) {
		next := runes[idx+1]
		if unicode.IsLetter(next) || unicode.IsDigit(next) || next == '.' {
			return false
		}
	}

	token := strings.ToLower(tokenBeforePeriod(runes, idx))
	if token == "" {
		return true
	}
	if _, ok := nonTerminalAbbreviations[token]; ok {
		return false
	}
	return true
}

func tokenBeforePeriod(runes []rune, idx int) string {
	start := idx
	for start > 0 {
		r := runes[start-1]
		if unicode.IsLetter(r) || r == '.' {
			start--
			continue
		}
		break
	}
	return strings.Trim(string(runes[start:idx]), ".")
}

func isQuoteOrCloser(r rune) bool {
	switch r {
	case ')', ']', '}', '\'', '"', '’', '”':
		return true
	default:
		return false
	}
}
