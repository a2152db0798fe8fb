package parser

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DecodePath undoes git's C-style quoting of paths with special or
// non-ASCII bytes ("src/\344\270\255.ts") and returns NFC text.
func DecodePath(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		if s, err := strconv.Unquote(raw); err == nil {
			return norm.NFC.String(strings.ReplaceAll(s, `"`, ""))
		}
	}
	return norm.NFC.String(unescape(strings.ReplaceAll(raw, `"`, "")))
}

// unescape decodes backslash sequences left in a path whose quotes were
// already removed. Unknown sequences are kept verbatim.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		next := s[i+1]
		switch {
		case hasOctalRun(s, i+1):
			v, _ := strconv.ParseUint(s[i+1:i+4], 8, 8)
			b.WriteByte(byte(v))
			i += 3
		case next == 't':
			b.WriteByte('\t')
			i++
		case next == 'n':
			b.WriteByte('\n')
			i++
		case next == '\\':
			b.WriteByte('\\')
			i++
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isOctal(c byte) bool {
	return c >= '0' && c <= '7'
}

// hasOctalRun reports whether s[i:i+3] is a three digit octal byte value.
func hasOctalRun(s string, i int) bool {
	if i+3 > len(s) {
		return false
	}
	if !isOctal(s[i]) || !isOctal(s[i+1]) || !isOctal(s[i+2]) {
		return false
	}
	return s[i] <= '3'
}
