package repair

import (
	"regexp"
	"strings"

	"github.com/fwojciec/distill"
)

// Fixes run on masked text, so a quoted literal matched by "[^"]*" never
// contains structural characters.
var (
	// {"file" "a.go"} -> {"file": "a.go"}, only where a key is expected
	missingColon = regexp.MustCompile(`([{,]\s*)("[^"]*")\s+("|\[|\{|-?\d|true|false|null)`)

	// {file: 1} -> {"file": 1}
	unquotedKey = regexp.MustCompile(`([{,]\s*)([A-Za-z_][\w-]*)(\s*):`)

	// {"severity": high} -> {"severity": "high"}
	unquotedValue = regexp.MustCompile(`(:\s*)([A-Za-z][^,\]}\n"]*)`)

	// {"": "x", "file": "a.go"} -> {, "file": "a.go"}
	emptyNameField = regexp.MustCompile(`([{,])\s*""\s*:\s*("[^"]*"|-?\d[\d.eE+-]*|true|false|null)`)

	doubledComma  = regexp.MustCompile(`,(\s*,)+`)
	leadingComma  = regexp.MustCompile(`([\[{])\s*,`)
	trailingComma = regexp.MustCompile(`,(\s*[\]}])`)

	emptySeverity = regexp.MustCompile(`("severity"\s*:\s*)""`)
)

const defaultSeverity = `"Medium"`

var smartQuotes = strings.NewReplacer("“", `"`, "”", `"`, "„", `"`)

// Basic applies the conservative fixes: fence and prose removal, smart
// quotes, missing colons, unquoted keys and scalar values, stray commas,
// fields with an empty name and empty severities.
func Basic(s string, _ distill.ShapeKind) string {
	m := prepare(s)
	return m.unmask(basicFixes(m.text))
}

// prepare extracts the JSON part of s and masks it, normalizing smart quotes
// that delimit literals.
func prepare(s string) masked {
	m := mask(extract(s))
	if !strings.ContainsAny(m.text, "“”„") {
		return m
	}
	return mask(m.unmask(smartQuotes.Replace(m.text)))
}

// extract drops a code fence, any prose before the first bracket and any
// prose after a balanced document.
func extract(s string) string {
	t := StripFence(s)
	if !startsStructural(t) {
		if block, ok := fencedBlock(s); ok {
			t = strings.TrimSpace(block)
		}
	}
	if i := strings.IndexAny(t, "[{"); i > 0 {
		t = t[i:]
	}
	if i := strings.LastIndexAny(t, "]}"); i >= 0 && i < len(t)-1 && balanced(t[:i+1]) {
		t = t[:i+1]
	}
	return t
}

func startsStructural(s string) bool {
	return s != "" && (s[0] == '[' || s[0] == '{')
}

func basicFixes(s string) string {
	s = replaceWithin(missingColon, s, 1, '{', `${1}${2}: ${3}`)
	s = unquotedKey.ReplaceAllString(s, `${1}"${2}"${3}:`)
	s = unquotedValue.ReplaceAllStringFunc(s, quoteValue)
	s = emptyNameField.ReplaceAllString(s, `${1}`)
	s = cleanCommas(s)
	return emptySeverity.ReplaceAllString(s, `${1}`+defaultSeverity)
}

func quoteValue(match string) string {
	sub := unquotedValue.FindStringSubmatch(match)
	value := strings.TrimRight(sub[2], " \t\r")
	switch value {
	case "true", "false", "null":
		return match
	}
	return sub[1] + `"` + value + `"` + sub[2][len(value):]
}

// replaceWithin replaces the matches of re whose submatch group starts
// directly inside a container opened by open. Other matches are left alone.
func replaceWithin(re *regexp.Regexp, s string, group int, open byte, repl string) string {
	matches := re.FindAllStringSubmatchIndex(s, -1)
	if matches == nil {
		return s
	}
	in := containers(s)
	var b strings.Builder
	last := 0
	for _, m := range matches {
		at := m[2*group]
		if at < 0 || in[at] != open {
			continue
		}
		b.WriteString(s[last:m[0]])
		b.Write(re.ExpandString(nil, repl, s, m))
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

// containers reports, for each byte of s, the innermost bracket open once
// that byte has been read. Bytes at the top level or inside a string literal
// report 0.
func containers(s string) []byte {
	in := make([]byte, len(s))
	var stack []byte
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inString && escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case inString && c == '"':
			inString = false
		case inString:
		case c == '"':
			inString = true
		case c == '[' || c == '{':
			stack = append(stack, c)
		case c == ']' || c == '}':
			if n := len(stack); n > 0 {
				stack = stack[:n-1]
			}
		}
		if n := len(stack); n > 0 && !inString {
			in[i] = stack[n-1]
		}
	}
	return in
}

func cleanCommas(s string) string {
	s = doubledComma.ReplaceAllString(s, ",")
	s = leadingComma.ReplaceAllString(s, `${1}`)
	return trailingComma.ReplaceAllString(s, `${1}`)
}
