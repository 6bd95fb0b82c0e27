package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/hq"
	"github.com/fwojciec/hq/goquery"
	"github.com/fwojciec/hq/htmltomarkdown"
	hqhttp "github.com/fwojciec/hq/http"
	hqjson "github.com/fwojciec/hq/json"
	"github.com/fwojciec/hq/minio"
	hqslog "github.com/fwojciec/hq/slog"
	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// shutdownTimeout bounds how long in-flight requests may finish after the
// context is cancelled.
const shutdownTimeout = 10 * time.Second

// Config holds server settings. Every field can be set from the environment.
type Config struct {
	Addr         string        `env:"HQ_ADDR" default:":8080" help:"Listen address"`
	FetchTimeout time.Duration `env:"HQ_FETCH_TIMEOUT" default:"30s" help:"Timeout for fetching remote input"`
	RateLimit    float64       `env:"HQ_RATE_LIMIT" default:"0" help:"Requests per second per remote host (0 disables)"`
	RangeChunk   int64         `env:"HQ_RANGE_CHUNK" default:"0" help:"Split ranged fetches larger than this many bytes (0 disables)"`
	RangeWorkers int           `env:"HQ_RANGE_WORKERS" default:"4" help:"Concurrent sub-range fetches"`

	S3Endpoint  string `name:"s3-endpoint" env:"HQ_S3_ENDPOINT" default:"s3.amazonaws.com" help:"Object storage endpoint"`
	S3AccessKey string `name:"s3-access-key" env:"HQ_S3_ACCESS_KEY" help:"Object storage access key"`
	S3SecretKey string `name:"s3-secret-key" env:"HQ_S3_SECRET_KEY" help:"Object storage secret key"`
	S3UseSSL    bool   `name:"s3-use-ssl" env:"HQ_S3_USE_SSL" default:"true" negatable:"" help:"Connect to object storage over TLS"`
	S3Region    string `name:"s3-region" env:"HQ_S3_REGION" help:"Object storage region"`
}

// Main represents the program.
type Main struct {
	// Fetcher overrides the fetcher built from Config.
	Fetcher hq.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run parses the configuration and serves until ctx is cancelled.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := ParseConfig(args, stdout, stderr)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(stdout, nil))

	handler, fetcher, err := m.NewHandler(cfg, logger)
	if err != nil {
		return err
	}
	defer fetcher.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.FetchTimeout + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("starting hq-server", "addr", cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		return nil
	}
}

// ParseConfig reads Config from flags and environment variables.
func ParseConfig(args []string, stdout, stderr io.Writer) (*Config, error) {
	cfg := &Config{}
	parser, err := kong.New(cfg,
		kong.Name("hq-server"),
		kong.Description("Serve HTML queries over HTTP"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create parser: %w", err)
	}
	if _, err := parser.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewHandler wires the query server. The returned fetcher must be closed by
// the caller.
func (m *Main) NewHandler(cfg *Config, logger *slog.Logger) (http.Handler, hq.Fetcher, error) {
	fetcher := m.Fetcher
	if fetcher == nil {
		f, err := newFetcher(cfg)
		if err != nil {
			return nil, nil, err
		}
		fetcher = f
	}
	fetcher = hqslog.NewLoggingFetcher(fetcher, logger)

	processor := hqslog.NewLoggingProcessor(
		goquery.NewProcessor(hqjson.NewCompactor(), htmltomarkdown.NewConverter()),
		logger,
	)

	return hqhttp.NewServer(fetcher, processor, logger), fetcher, nil
}

func newFetcher(cfg *Config) (hq.Fetcher, error) {
	web := hqhttp.NewFetcher(
		hqhttp.WithTimeout(cfg.FetchTimeout),
		hqhttp.WithRateLimit(cfg.RateLimit),
		hqhttp.WithParallelRanges(cfg.RangeChunk, cfg.RangeWorkers),
	)

	storeCfg := minio.NewConfig()
	storeCfg.Endpoint = cfg.S3Endpoint
	storeCfg.AccessKey = cfg.S3AccessKey
	storeCfg.SecretKey = cfg.S3SecretKey
	storeCfg.UseSSL = cfg.S3UseSSL
	storeCfg.Region = cfg.S3Region
	store, err := minio.NewFetcher(storeCfg)
	if err != nil {
		return nil, err
	}

	return hq.SchemeFetcher{
		"http":  web,
		"https": web,
		"s3":    store,
	}, nil
}
