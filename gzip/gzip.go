// Package gzip transparently decompresses fetched documents using
// klauspost/compress.
package gzip

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/fwojciec/hq"
	"github.com/klauspost/compress/gzip"
)

// magic is the two-byte gzip header.
var magic = []byte{0x1f, 0x8b}

// IsCompressed reports whether data starts with the gzip magic number.
func IsCompressed(data []byte) bool {
	return bytes.HasPrefix(data, magic)
}

// Decode returns data as text, gunzipping it first when it starts with the
// gzip magic number. The result must be valid UTF-8.
func Decode(data []byte) (string, error) {
	if IsCompressed(data) {
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return "", fmt.Errorf("gzip: %w", err)
		}
		defer zr.Close()

		if data, err = io.ReadAll(zr); err != nil {
			return "", fmt.Errorf("gzip: %w", err)
		}
	}

	if !utf8.Valid(data) {
		return "", hq.Errorf(hq.EINVALID, "input is not valid UTF-8")
	}
	return string(data), nil
}
