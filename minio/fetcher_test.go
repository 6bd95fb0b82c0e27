package minio_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/hq"
	"github.com/fwojciec/hq/minio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// objectServer emulates the GET object call of an S3-compatible store for
// a single object.
func objectServer(t *testing.T, path, content string) (*httptest.Server, func() string) {
	t.Helper()

	var mu sync.Mutex
	var lastRange string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != path {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		mu.Lock()
		lastRange = r.Header.Get("Range")
		mu.Unlock()
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.Header().Set("Content-Type", "text/html")
		modified := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		http.ServeContent(w, r, "", modified, strings.NewReader(content))
	}))
	t.Cleanup(server.Close)

	return server, func() string {
		mu.Lock()
		defer mu.Unlock()
		return lastRange
	}
}

func newFetcher(t *testing.T, server *httptest.Server) *minio.Fetcher {
	t.Helper()

	f, err := minio.NewFetcher(minio.Config{
		Endpoint:  strings.TrimPrefix(server.URL, "http://"),
		AccessKey: "access",
		SecretKey: "secret",
		Region:    "us-east-1",
	})
	require.NoError(t, err)
	return f
}

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("reads object", func(t *testing.T) {
		t.Parallel()

		server, _ := objectServer(t, "/archive/pages/a.html", "<p>stored</p>")
		f := newFetcher(t, server)
		defer f.Close()

		html, err := f.Fetch(context.Background(), hq.Location{URL: "s3://archive/pages/a.html"})

		require.NoError(t, err)
		assert.Equal(t, "<p>stored</p>", html)
	})

	t.Run("forwards byte range", func(t *testing.T) {
		t.Parallel()

		server, lastRange := objectServer(t, "/archive/warc", "xxxx<p>record</p>yyyy")
		f := newFetcher(t, server)

		html, err := f.Fetch(context.Background(), hq.Location{URL: "s3://archive/warc", Offset: 4, Length: 13})

		require.NoError(t, err)
		assert.Equal(t, "<p>record</p>", html)
		assert.Equal(t, "bytes=4-16", lastRange())
	})

	t.Run("rejects malformed object URL", func(t *testing.T) {
		t.Parallel()

		server, _ := objectServer(t, "/archive/a", "")
		f := newFetcher(t, server)

		_, err := f.Fetch(context.Background(), hq.Location{URL: "s3://archive"})

		assert.Equal(t, hq.EINVALID, hq.ErrorCode(err))
	})

	t.Run("returns error for missing object", func(t *testing.T) {
		t.Parallel()

		server, _ := objectServer(t, "/archive/a", "x")
		f := newFetcher(t, server)

		_, err := f.Fetch(context.Background(), hq.Location{URL: "s3://archive/missing"})

		require.Error(t, err)
	})
}

func TestNewFetcher(t *testing.T) {
	t.Parallel()

	t.Run("requires endpoint", func(t *testing.T) {
		t.Parallel()

		_, err := minio.NewFetcher(minio.Config{})

		require.Error(t, err)
	})

	t.Run("defaults point at AWS", func(t *testing.T) {
		t.Parallel()

		cfg := minio.NewConfig()

		assert.Equal(t, minio.DefaultEndpoint, cfg.Endpoint)
		assert.True(t, cfg.UseSSL)
	})
}
