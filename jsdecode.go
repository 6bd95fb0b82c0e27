package hq

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// DecodeJSString decodes the escapes of a JavaScript string literal body.
// It understands \xNN, \uNNNN, the double-escaped \\uNNNN form, the JSON
// single-character escapes plus \v, \0, \' and the escapes JavaScript
// tolerates but JSON rejects (\-, \/). Any other escaped character is
// emitted literally.
func DecodeJSString(s string) (string, error) {
	var b strings.Builder
	b.Grow(len(s))

	rs := []rune(s)
	for i := 0; i < len(rs); i++ {
		c := rs[i]
		if c != '\\' {
			b.WriteRune(c)
			continue
		}
		if i+1 >= len(rs) {
			b.WriteRune('\\')
			continue
		}

		i++
		switch next := rs[i]; next {
		case 'x':
			r, n, err := decodeHexEscape(rs[i+1:], 2, `\x`)
			if err != nil {
				return "", err
			}
			b.WriteRune(r)
			i += n
		case 'u':
			r, n, err := decodeHexEscape(rs[i+1:], 4, `\u`)
			if err != nil {
				return "", err
			}
			b.WriteRune(r)
			i += n
		case '\\':
			if i+1 < len(rs) && rs[i+1] == 'u' {
				r, n, err := decodeHexEscape(rs[i+2:], 4, `\\u`)
				if err != nil {
					return "", err
				}
				b.WriteRune(r)
				i += n + 1
				continue
			}
			b.WriteRune('\\')
		case 'n':
			b.WriteRune('\n')
		case 'r':
			b.WriteRune('\r')
		case 't':
			b.WriteRune('\t')
		case 'b':
			b.WriteRune('\b')
		case 'f':
			b.WriteRune('\f')
		case 'v':
			b.WriteRune('\v')
		case '0':
			b.WriteRune(0)
		default:
			b.WriteRune(next)
		}
	}

	return b.String(), nil
}

// decodeHexEscape reads up to width runes of hex digits from rs and returns
// the decoded rune and the number of runes consumed.
func decodeHexEscape(rs []rune, width int, prefix string) (rune, int, error) {
	n := min(width, len(rs))
	hex := string(rs[:n])
	if n < width {
		return 0, n, Errorf(EINVALID, "Incomplete escape: %s%s", prefix, hex)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, n, Errorf(EINVALID, "Invalid escape: %s%s", prefix, hex)
	}
	r := rune(v)
	if !utf8.ValidRune(r) {
		return 0, n, Errorf(EINVALID, "Invalid code point: %s%s", prefix, hex)
	}
	return r, n, nil
}

// FixMojibake repairs UTF-8 text that was decoded as Latin-1. Runes above
// U+00FF are dropped before re-decoding; if the result is not valid UTF-8
// the input is returned unchanged.
func FixMojibake(s string) string {
	buf := make([]byte, 0, len(s))
	for _, r := range s {
		if r <= 0xFF {
			buf = append(buf, byte(r))
		}
	}
	if !utf8.Valid(buf) {
		return s
	}
	return string(buf)
}
