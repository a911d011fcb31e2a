package repair

import (
	"regexp"
	"strings"

	"github.com/fwojciec/distill"
)

var (
	// {"current": "x" y "suggested": "z"} -> {"current": "x y", "suggested": "z"}
	fusedStrings = regexp.MustCompile(`(:\s*)"([^"]*)"[ \t]+([^\s",:{}\[\]][^",:{}\[\]\n]*?)\s*("[^"]*"\s*:)`)

	// "a" + "b" -> "ab"
	concatenation = regexp.MustCompile(`"([^"]*)"\s*\+\s*"([^"]*)"`)

	// {"a": "x" "b": 1} -> {"a": "x", "b": 1}
	missingComma = regexp.MustCompile(`("[^"]*"|\d|true|false|null|[\]}])(\s+)("[^"]*"\s*:)`)

	// ["a" "b"] -> ["a", "b"], applied inside arrays only
	missingElementComma = regexp.MustCompile(`("[^"]*"|\d|true|false|null|[\]}])(\s+)("|-?\d|true|false|null|[\[{])`)

	// {...} {...} -> {...}, {...}
	adjacentValues = regexp.MustCompile(`([\]}])(\s*)([\[{])`)

	severityCase = regexp.MustCompile(`("severity"\s*:\s*")((?i:critical|high|medium|low|info))"`)
)

// maxConcatenations bounds the passes joining "a" + "b" + "c" chains.
const maxConcatenations = 16

// Advanced applies every basic fix, then repairs fused and concatenated
// strings, missing commas and severity casing, closes an unterminated
// document and, for array shapes, wraps the result in brackets.
func Advanced(s string, kind distill.ShapeKind) string {
	m := prepare(s)
	t := advancedFixes(basicFixes(m.text))
	t = closeOpen(m.unmask(t))
	if kind == distill.KindArray {
		t = forceArray(t)
	}
	return t
}

func advancedFixes(s string) string {
	s = fusedStrings.ReplaceAllString(s, `${1}"${2} ${3}", ${4}`)
	for i := 0; i < maxConcatenations && concatenation.MatchString(s); i++ {
		s = concatenation.ReplaceAllString(s, `"${1}${2}"`)
	}
	s = missingComma.ReplaceAllString(s, `${1},${2}${3}`)
	s = replaceWithin(missingElementComma, s, 2, '[', `${1},${2}${3}`)
	s = adjacentValues.ReplaceAllString(s, `${1},${2}${3}`)
	s = severityCase.ReplaceAllStringFunc(s, titleSeverity)
	return cleanCommas(s)
}

func titleSeverity(match string) string {
	sub := severityCase.FindStringSubmatch(match)
	v := sub[2]
	return sub[1] + strings.ToUpper(v[:1]) + strings.ToLower(v[1:]) + `"`
}

// closeOpen terminates a dangling string literal and appends the closing
// brackets a truncated document is missing.
func closeOpen(s string) string {
	var stack []byte
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[':
			stack = append(stack, ']')
		case '{':
			stack = append(stack, '}')
		case ']', '}':
			if n := len(stack); n > 0 && stack[n-1] == c {
				stack = stack[:n-1]
			}
		}
	}
	if !inString && len(stack) == 0 {
		return s
	}
	if inString {
		if escaped {
			s = s[:len(s)-1]
		}
		s += `"`
	}
	s = strings.TrimRight(s, " \t\r\n")
	s = strings.TrimSuffix(s, ",")
	if strings.HasSuffix(s, ":") {
		s += " null"
	}
	var b strings.Builder
	b.WriteString(s)
	for i := len(stack) - 1; i >= 0; i-- {
		b.WriteByte(stack[i])
	}
	return b.String()
}

func forceArray(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") {
		s = "[" + s
	}
	if !strings.HasSuffix(s, "]") {
		s += "]"
	}
	return s
}
