package repair

import (
	"regexp"
	"strconv"
	"strings"
)

// Placeholder delimiters come from the Unicode private use area, which model
// output does not contain in practice.
const (
	maskOpen  = "\uE000"
	maskClose = "\uE001"
)

// maskChars are the characters that make a string literal unsafe to expose
// to the regex fixes. Literals without them cannot be mistaken for
// structure, so they stay visible and fixes can still match on key names.
const maskChars = "[]{}:,\"\\\u201c\u201d\u201e"

var maskToken = regexp.MustCompile(maskOpen + `(\d+)` + maskClose)

// masked is a copy of a text in which string literals carrying structural
// characters are replaced by numbered placeholders.
type masked struct {
	text      string
	originals []string
}

// mask replaces the contents of risky string literals with placeholders. The
// surrounding quotes are kept so the placeholder still reads as a string.
// Scanning stops at an unterminated literal, leaving the tail untouched.
func mask(s string) masked {
	if strings.Contains(s, maskOpen) {
		return masked{text: s}
	}
	var b strings.Builder
	var originals []string
	i := 0
	for i < len(s) {
		if s[i] != '"' {
			b.WriteByte(s[i])
			i++
			continue
		}
		end := closingQuote(s, i+1)
		if end < 0 {
			b.WriteString(s[i:])
			break
		}
		content := s[i+1 : end]
		if strings.ContainsAny(content, maskChars) {
			b.WriteString(`"` + maskOpen + strconv.Itoa(len(originals)) + maskClose + `"`)
			originals = append(originals, content)
		} else {
			b.WriteString(s[i : end+1])
		}
		i = end + 1
	}
	return masked{text: b.String(), originals: originals}
}

// unmask restores the placeholders in text, which may have been rewritten
// since mask produced it.
func (m masked) unmask(text string) string {
	if len(m.originals) == 0 {
		return text
	}
	return maskToken.ReplaceAllStringFunc(text, func(tok string) string {
		n, err := strconv.Atoi(tok[len(maskOpen) : len(tok)-len(maskClose)])
		if err != nil || n >= len(m.originals) {
			return tok
		}
		return m.originals[n]
	})
}

// closingQuote returns the index of the quote ending the literal whose
// content starts at from, or -1.
func closingQuote(s string, from int) int {
	escaped := false
	for i := from; i < len(s); i++ {
		switch {
		case escaped:
			escaped = false
		case s[i] == '\\':
			escaped = true
		case s[i] == '"':
			return i
		}
	}
	return -1
}
