package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"unicode/utf8"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/hq"
	"github.com/fwojciec/hq/goquery"
	"github.com/fwojciec/hq/htmltomarkdown"
	hqhttp "github.com/fwojciec/hq/http"
	hqjson "github.com/fwojciec/hq/json"
	"github.com/fwojciec/hq/minio"
	hqslog "github.com/fwojciec/hq/slog"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Fetcher retrieves --url input. Built from flags when nil.
	Fetcher hq.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("hq"),
		kong.Description("Query HTML documents with CSS selectors"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	input, err := m.readInput(ctx, cli, stdin, logger)
	if err != nil {
		return err
	}

	processor := hqslog.NewLoggingProcessor(
		goquery.NewProcessor(hqjson.NewCompactor(), htmltomarkdown.NewConverter()),
		logger,
	)
	out, err := processor.Process(input, cli.Config())
	if err != nil {
		return err
	}

	return writeOutput(cli.Output, stdout, out)
}

func (m *Main) readInput(ctx context.Context, cli *CLI, stdin io.Reader, logger *slog.Logger) (string, error) {
	if cli.URL == "" {
		if cli.Offset != 0 || cli.Length != 0 {
			return "", hq.Errorf(hq.EINVALID, "--offset and --length require --url")
		}
		return readFile(cli.Filename, stdin)
	}
	if cli.Filename != "-" {
		return "", hq.Errorf(hq.EINVALID, "--url and --filename cannot be used together")
	}

	fetcher := m.Fetcher
	if fetcher == nil {
		f, err := newFetcher(cli)
		if err != nil {
			return "", err
		}
		fetcher = f
	}
	fetcher = hqslog.NewLoggingFetcher(fetcher, logger)
	defer fetcher.Close()

	return fetcher.Fetch(ctx, hq.Location{URL: cli.URL, Offset: cli.Offset, Length: cli.Length})
}

func newFetcher(cli *CLI) (hq.Fetcher, error) {
	web := hqhttp.NewFetcher(hqhttp.WithTimeout(cli.Timeout))

	cfg := minio.NewConfig()
	cfg.Endpoint = cli.S3Endpoint
	cfg.AccessKey = cli.S3AccessKey
	cfg.SecretKey = cli.S3SecretKey
	cfg.UseSSL = !cli.S3Insecure
	cfg.Region = cli.S3Region
	store, err := minio.NewFetcher(cfg)
	if err != nil {
		return nil, err
	}

	return hq.SchemeFetcher{
		"http":  web,
		"https": web,
		"s3":    store,
	}, nil
}

func readFile(name string, stdin io.Reader) (string, error) {
	var data []byte
	var err error
	if name == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	if !utf8.Valid(data) {
		return "", hq.Errorf(hq.EINVALID, "input is not valid UTF-8")
	}
	return string(data), nil
}

func writeOutput(name string, stdout io.Writer, out string) error {
	if name == "-" {
		_, err := io.WriteString(stdout, out)
		return err
	}
	if err := os.WriteFile(name, []byte(out), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
