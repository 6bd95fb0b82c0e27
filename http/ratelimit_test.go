package http_test

import (
	"context"
	"testing"
	"time"

	hqhttp "github.com/fwojciec/hq/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostLimiter(t *testing.T) {
	t.Parallel()

	t.Run("allows immediate first request", func(t *testing.T) {
		t.Parallel()

		limiter := hqhttp.NewHostLimiter(10)

		start := time.Now()
		err := limiter.Wait(context.Background(), "example.com")

		require.NoError(t, err)
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("rate limits requests to same host", func(t *testing.T) {
		t.Parallel()

		limiter := hqhttp.NewHostLimiter(10)
		require.NoError(t, limiter.Wait(context.Background(), "example.com"))

		start := time.Now()
		err := limiter.Wait(context.Background(), "example.com")

		require.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
	})

	t.Run("hosts have independent limits", func(t *testing.T) {
		t.Parallel()

		limiter := hqhttp.NewHostLimiter(10)
		require.NoError(t, limiter.Wait(context.Background(), "example.com"))

		start := time.Now()
		err := limiter.Wait(context.Background(), "other.com")

		require.NoError(t, err)
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		limiter := hqhttp.NewHostLimiter(0.1)
		require.NoError(t, limiter.Wait(context.Background(), "example.com"))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := limiter.Wait(ctx, "example.com")

		require.Error(t, err)
	})
}
