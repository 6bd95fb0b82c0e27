package hq

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Location identifies remote HTML input, optionally restricted to a byte range.
type Location struct {
	URL string

	// Offset and Length select a byte range. The range is only applied when
	// Length is positive.
	Offset int64
	Length int64
}

// HasRange reports whether a byte range is requested.
func (l Location) HasRange() bool {
	return l.Length > 0 && l.Offset >= 0
}

// End returns the inclusive index of the last requested byte.
func (l Location) End() int64 {
	return l.Offset + l.Length - 1
}

// Range returns the HTTP Range header value, or "" when no range is requested.
func (l Location) Range() string {
	if !l.HasRange() {
		return ""
	}
	return fmt.Sprintf("bytes=%d-%d", l.Offset, l.End())
}

// Scheme returns the lowercased scheme of the location URL.
// Only http, https and s3 are supported.
func (l Location) Scheme() (string, error) {
	switch {
	case strings.HasPrefix(l.URL, "s3://"):
		return "s3", nil
	case strings.HasPrefix(l.URL, "http://"):
		return "http", nil
	case strings.HasPrefix(l.URL, "https://"):
		return "https", nil
	}
	return "", Errorf(EINVALID, "URL must start with http://, https://, or s3://")
}

// ParseObjectURL splits an s3://bucket/key URL into bucket and key.
func ParseObjectURL(rawURL string) (bucket, key string, err error) {
	path, ok := strings.CutPrefix(rawURL, "s3://")
	if !ok {
		return "", "", Errorf(EINVALID, "invalid S3 URL")
	}
	bucket, key, ok = strings.Cut(path, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", Errorf(EINVALID, "invalid S3 URL format. Expected: s3://bucket/key")
	}
	return bucket, key, nil
}

// Host returns the host component of the location URL, or "" if unparseable.
func (l Location) Host() string {
	u, err := url.Parse(l.URL)
	if err != nil {
		return ""
	}
	return u.Host
}

// Fetcher retrieves HTML input from a remote location.
type Fetcher interface {
	// Fetch returns the document at loc as text. Gzip-compressed content is
	// decompressed transparently. The context controls timeout and cancellation.
	Fetch(ctx context.Context, loc Location) (html string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}

// Ensure SchemeFetcher implements Fetcher at compile time.
var _ Fetcher = (SchemeFetcher)(nil)

// SchemeFetcher routes a Location to the Fetcher registered for its scheme.
type SchemeFetcher map[string]Fetcher

// Fetch delegates to the fetcher registered for the location's scheme.
func (f SchemeFetcher) Fetch(ctx context.Context, loc Location) (string, error) {
	scheme, err := loc.Scheme()
	if err != nil {
		return "", err
	}
	next, ok := f[scheme]
	if !ok {
		return "", Errorf(EINVALID, "no fetcher registered for %s://", scheme)
	}
	return next.Fetch(ctx, loc)
}

// Close closes every registered fetcher once and returns the first error.
func (f SchemeFetcher) Close() error {
	var first error
	closed := make(map[Fetcher]bool)
	for _, next := range f {
		if closed[next] {
			continue
		}
		closed[next] = true
		if err := next.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
