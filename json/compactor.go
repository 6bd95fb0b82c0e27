// Package json implements hq.Compactor using goccy/go-json.
package json

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/fwojciec/hq"
	gojson "github.com/goccy/go-json"
)

// Ensure Compactor implements hq.Compactor at compile time.
var _ hq.Compactor = (*Compactor)(nil)

// Compactor removes non-semantic whitespace from serialized output.
//
// Output that parses as a single JSON value, either directly or after
// escaping raw control characters inside strings, is re-encoded minimally.
// Anything else is treated as markup and loses the leading whitespace of
// every segment following a '>'.
type Compactor struct{}

// NewCompactor creates a new Compactor.
func NewCompactor() *Compactor {
	return &Compactor{}
}

// Compact returns the compacted form of s.
func (c *Compactor) Compact(s string) string {
	trimmed := strings.TrimSpace(s)

	if out, ok := compactJSON(trimmed); ok {
		return out
	}
	if out, ok := compactJSON(Repair(trimmed)); ok {
		return out
	}
	return CompactMarkup(s)
}

// compactJSON parses s as a single JSON value and re-encodes it without
// structural whitespace. Whitespace inside strings is preserved.
func compactJSON(s string) (string, bool) {
	if !gojson.Valid([]byte(s)) {
		return "", false
	}

	dec := gojson.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return "", false
	}

	var buf bytes.Buffer
	enc := gojson.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", false
	}
	return strings.TrimSuffix(buf.String(), "\n"), true
}

// Repair escapes raw newline, carriage return and tab characters that
// appear inside JSON strings and drops any other raw control character
// there. Text outside strings and escaped characters pass through.
func Repair(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 2)

	inString := false
	escaped := false
	for _, r := range s {
		switch {
		case escaped:
			b.WriteRune(r)
			escaped = false
		case r == '\\':
			b.WriteRune(r)
			escaped = true
		case r == '"':
			inString = !inString
			b.WriteRune(r)
		case inString && unicode.IsControl(r):
			switch r {
			case '\n':
				b.WriteString(`\n`)
			case '\r':
				b.WriteString(`\r`)
			case '\t':
				b.WriteString(`\t`)
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CompactMarkup strips leading whitespace from every segment following a
// '>'. Whitespace before a '<' inside text is left alone.
func CompactMarkup(s string) string {
	parts := strings.Split(s, ">")
	for i, p := range parts {
		parts[i] = strings.TrimLeftFunc(p, unicode.IsSpace)
	}
	return strings.Join(parts, ">")
}
