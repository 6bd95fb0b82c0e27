package main

import (
	"time"

	"github.com/fwojciec/hq"
)

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Selector string `arg:"" optional:"" default:":root" help:"CSS selector to match (default: :root)"`

	Filename string `short:"f" default:"-" help:"Input file, - for stdin"`
	Output   string `short:"o" default:"-" help:"Output file, - for stdout"`

	Base       string `short:"b" help:"Base URL for rewriting relative links"`
	DetectBase bool   `short:"B" help:"Use the document's <base href> when present"`
	StrictBase bool   `help:"Fail when the base URL cannot be parsed"`

	Text             bool     `short:"t" help:"Output text content only"`
	IgnoreWhitespace bool     `short:"i" help:"Skip whitespace-only text nodes in text output"`
	Pretty           bool     `short:"p" help:"Pretty-print the output markup"`
	Markdown         bool     `short:"m" help:"Convert matches to Markdown"`
	RemoveNodes      []string `short:"r" sep:"none" help:"Remove nodes matching selector before output (repeatable)"`
	Attributes       []string `short:"a" name:"attributes" sep:"none" help:"Output only the named attribute values (repeatable)"`
	DecodeJS         bool     `short:"j" name:"decode-js" help:"Decode JavaScript string escapes in the output"`
	Compact          bool     `short:"c" help:"Compact JSON output, or strip whitespace between tags"`

	URL    string `short:"u" name:"url" help:"Fetch input from an http(s):// or s3:// URL"`
	Offset int64  `help:"Byte offset of the range to fetch"`
	Length int64  `help:"Byte length of the range to fetch"`

	Timeout     time.Duration `default:"30s" help:"Fetch timeout"`
	S3Endpoint  string        `name:"s3-endpoint" env:"HQ_S3_ENDPOINT" default:"s3.amazonaws.com" help:"Object storage endpoint"`
	S3AccessKey string        `name:"s3-access-key" env:"HQ_S3_ACCESS_KEY" help:"Object storage access key"`
	S3SecretKey string        `name:"s3-secret-key" env:"HQ_S3_SECRET_KEY" help:"Object storage secret key"`
	S3Insecure  bool          `name:"s3-insecure" env:"HQ_S3_INSECURE" help:"Connect to object storage without TLS"`
	S3Region    string        `name:"s3-region" env:"HQ_S3_REGION" help:"Object storage region"`

	Verbose bool `short:"v" help:"Log debug output to stderr"`
}

// Config converts the parsed flags into processing options.
func (c *CLI) Config() hq.Config {
	return hq.Config{
		Selector:         c.Selector,
		Base:             c.Base,
		DetectBase:       c.DetectBase,
		StrictBase:       c.StrictBase,
		TextOnly:         c.Text,
		IgnoreWhitespace: c.IgnoreWhitespace,
		PrettyPrint:      c.Pretty,
		Markdown:         c.Markdown,
		RemoveNodes:      c.RemoveNodes,
		Attributes:       c.Attributes,
		DecodeJS:         c.DecodeJS,
		Compact:          c.Compact,
	}
}
