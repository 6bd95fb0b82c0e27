package main_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/hq"
	main "github.com/fwojciec/hq/cmd/hq-server"
	"github.com/fwojciec/hq/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig_Defaults(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	cfg, err := main.ParseConfig(nil, &stdout, &stderr)

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 4, cfg.RangeWorkers)
	assert.True(t, cfg.S3UseSSL)
}

func TestParseConfig_Environment(t *testing.T) {
	t.Setenv("HQ_ADDR", "127.0.0.1:9000")
	t.Setenv("HQ_FETCH_TIMEOUT", "5s")
	t.Setenv("HQ_RATE_LIMIT", "2.5")
	t.Setenv("HQ_RANGE_CHUNK", "1048576")
	t.Setenv("HQ_S3_ENDPOINT", "minio:9000")
	t.Setenv("HQ_S3_USE_SSL", "false")

	var stdout, stderr bytes.Buffer
	cfg, err := main.ParseConfig(nil, &stdout, &stderr)

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.InDelta(t, 2.5, cfg.RateLimit, 0.0001)
	assert.Equal(t, int64(1048576), cfg.RangeChunk)
	assert.Equal(t, "minio:9000", cfg.S3Endpoint)
	assert.False(t, cfg.S3UseSSL)
}

func TestMain_NewHandler(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.Fetcher = &mock.Fetcher{
		FetchFn: func(ctx context.Context, loc hq.Location) (string, error) {
			return `<ul><li>one</li><li>two</li></ul>`, nil
		},
		CloseFn: func() error { return nil },
	}
	cfg := &main.Config{FetchTimeout: time.Second}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handler, fetcher, err := m.NewHandler(cfg, logger)
	require.NoError(t, err)
	defer fetcher.Close()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?url=https://example.com&selector=li&text=1", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "one\ntwo\n", rec.Body.String())
}

func TestMain_Run_StopsOnCancel(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.Fetcher = &mock.Fetcher{CloseFn: func() error { return nil }}

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		var stdout, stderr bytes.Buffer
		errc <- m.Run(ctx, []string{"--addr", "127.0.0.1:0"}, &stdout, &stderr)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
