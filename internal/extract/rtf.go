package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pactlens/pactlens/constants"
)

// rtfToText strips RTF control words and groups, keeping the visible text.
// Handles the escapes that matter for contracts: \par, \tab, \'hh hex bytes,
// and the literal \{ \} \\ sequences. Font tables and similar header groups
// are skipped by ignoring the first group level's control destinations.
func rtfToText(data []byte) (Result, error) {
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte(`{\rtf`)) {
		return Result{}, &ExtractionError{Format: constants.RTF, Cause: fmt.Errorf("missing {\\rtf header")}
	}

	var b strings.Builder
	i, n := 0, len(data)
	skipDepth := 0 // inside a \*-style or known-ignorable destination group
	depth := 0
	for i < n {
		c := data[i]
		switch c {
		case '{':
			depth++
			i++
			// ignorable destination: {\* ...}
			if i+1 < n && data[i] == '\\' && data[i+1] == '*' && skipDepth == 0 {
				skipDepth = depth
			}
		case '}':
			if skipDepth == depth {
				skipDepth = 0
			}
			depth--
			i++
		case '\\':
			i++
			if i >= n {
				break
			}
			switch data[i] {
			case '{', '}', '\\':
				if skipDepth == 0 {
					b.WriteByte(data[i])
				}
				i++
			case '\'':
				// \'hh hex escape
				if i+2 < n {
					if v, ok := hexByte(data[i+1], data[i+2]); ok && skipDepth == 0 {
						b.WriteByte(v)
					}
					i += 3
				} else {
					i = n
				}
			default:
				word, rest := readControlWord(data[i:])
				i += rest
				if skipDepth != 0 {
					continue
				}
				switch word {
				case "par", "line":
					b.WriteByte('\n')
				case "tab":
					b.WriteByte('\t')
				case "fonttbl", "colortbl", "stylesheet", "info", "pict":
					skipDepth = depth
				}
			}
		case '\r', '\n':
			i++
		default:
			if skipDepth == 0 {
				b.WriteByte(c)
			}
			i++
		}
	}

	return Result{
		Text:     b.String(),
		Metadata: map[string]string{"decoder": "rtf"},
	}, nil
}

// readControlWord consumes an RTF control word plus its optional numeric
// parameter and trailing space, returning the word and consumed length.
func readControlWord(s []byte) (string, int) {
	j := 0
	for j < len(s) && isAlpha(s[j]) {
		j++
	}
	word := string(s[:j])
	// optional signed numeric parameter
	if j < len(s) && (s[j] == '-' || isDigit(s[j])) {
		j++
		for j < len(s) && isDigit(s[j]) {
			j++
		}
	}
	// a single trailing space terminates the control word
	if j < len(s) && s[j] == ' ' {
		j++
	}
	return word, j
}

func isAlpha(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func hexByte(hi, lo byte) (byte, bool) {
	h, ok1 := hexVal(hi)
	l, ok2 := hexVal(lo)
	if !ok1 || !ok2 {
		return 0, false
	}
	return h<<4 | l, true
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
