package hq

import "strings"

// DefaultSelector selects the whole document.
const DefaultSelector = ":root"

// Config describes a single pipeline run. It is treated as immutable once
// handed to a Processor.
type Config struct {
	// Selector chooses the nodes to emit.
	Selector string

	// Base is the URL relative links are resolved against. Empty means none.
	Base string

	// DetectBase looks for a <base href> in the document. A detected base
	// wins over Base.
	DetectBase bool

	// TextOnly emits the text content of matches instead of markup.
	TextOnly bool

	// IgnoreWhitespace drops whitespace-only text chunks in text mode and
	// terminates every retained chunk with a newline.
	IgnoreWhitespace bool

	// PrettyPrint re-indents emitted markup.
	PrettyPrint bool

	// Markdown emits matches converted to Markdown.
	Markdown bool

	// RemoveNodes lists selectors whose matches are detached before output.
	RemoveNodes []string

	// Attributes lists attribute names whose values are emitted, one per line.
	Attributes []string

	// DecodeJS decodes JavaScript string escapes in the output before
	// compaction.
	DecodeJS bool

	// Compact removes non-semantic whitespace from the final output.
	Compact bool

	// StrictBase reports an unparseable Base instead of skipping link
	// rewriting.
	StrictBase bool
}

// NewConfig returns a Config with default values.
func NewConfig() Config {
	return Config{Selector: DefaultSelector}
}

// Validate returns an error if the config contains invalid fields.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Selector) == "" {
		return Errorf(EINVALID, "selector required")
	}
	return nil
}

// OutputMode is the serialization applied to every match of a run.
type OutputMode int

// Output modes in precedence order, highest first.
const (
	ModeRaw OutputMode = iota
	ModeAttributes
	ModeText
	ModeMarkdown
	ModePretty
)

// String returns the mode name.
func (m OutputMode) String() string {
	switch m {
	case ModeAttributes:
		return "attributes"
	case ModeText:
		return "text"
	case ModeMarkdown:
		return "markdown"
	case ModePretty:
		return "pretty"
	default:
		return "raw"
	}
}

// Mode resolves the single active output mode.
// An attribute list beats text, text beats Markdown, Markdown beats pretty
// and raw is the fallback.
func (c *Config) Mode() OutputMode {
	switch {
	case len(c.Attributes) > 0:
		return ModeAttributes
	case c.TextOnly:
		return ModeText
	case c.Markdown:
		return ModeMarkdown
	case c.PrettyPrint:
		return ModePretty
	default:
		return ModeRaw
	}
}

// Processor runs the extraction pipeline over a materialized HTML document.
type Processor interface {
	// Process parses html, applies cfg and returns the rendered output.
	// Invalid selectors and invalid UTF-8 output are reported as EINVALID
	// and produce no partial output.
	Process(html string, cfg Config) (string, error)
}

// Compactor removes non-semantic whitespace from serialized output.
type Compactor interface {
	// Compact re-emits s as minimal JSON when it parses as JSON, possibly
	// after repairing raw control characters inside strings, and otherwise
	// strips leading whitespace after every '>'.
	Compact(s string) string
}
