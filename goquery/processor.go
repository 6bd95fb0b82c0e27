// Package goquery implements the hq extraction pipeline on top of goquery,
// cascadia and golang.org/x/net/html.
package goquery

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/hq"
	"golang.org/x/net/html"
)

// Ensure Processor implements hq.Processor at compile time.
var _ hq.Processor = (*Processor)(nil)

// Processor runs the extraction pipeline: parse, resolve the base URL, then
// prune, rewrite links and serialize every match, and finally compact.
//
// A Processor holds no per-run state and is safe for concurrent use.
type Processor struct {
	// Compactor is required when a run sets Compact.
	Compactor hq.Compactor

	// Converter is required when a run sets Markdown.
	Converter hq.Converter
}

// NewProcessor creates a new Processor.
func NewProcessor(compactor hq.Compactor, converter hq.Converter) *Processor {
	return &Processor{Compactor: compactor, Converter: converter}
}

// Process parses rawHTML, applies cfg and returns the rendered output.
func (p *Processor) Process(rawHTML string, cfg hq.Config) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", hq.Errorf(hq.EINVALID, "failed to parse HTML: %v", err)
	}

	selector, err := compileSelector(cfg.Selector)
	if err != nil {
		return "", hq.Errorf(hq.EINVALID, "Failed to parse CSS selector %q: %v", cfg.Selector, err)
	}

	remove, err := compileRemoveSelector(cfg.RemoveNodes)
	if err != nil {
		return "", hq.Errorf(hq.EINVALID, "Failed to parse remove selector %q: %v", strings.Join(cfg.RemoveNodes, ","), err)
	}

	base, err := resolveBase(doc, cfg)
	if err != nil {
		return "", err
	}

	mode := cfg.Mode()
	if mode == hq.ModeMarkdown && p.Converter == nil {
		return "", hq.Errorf(hq.EINTERNAL, "markdown output requires a converter")
	}
	if cfg.Compact && p.Compactor == nil {
		return "", hq.Errorf(hq.EINTERNAL, "compact output requires a compactor")
	}

	var out strings.Builder
	matches := doc.FindMatcher(selector)
	for i := range matches.Nodes {
		sel := matches.Eq(i)

		// Pruned subtrees must be gone before anything reads the match.
		prune(sel, remove)

		if base != nil {
			rewriteLinks(sel.Get(0), base)
		}

		if err := p.serialize(&out, sel, mode, cfg); err != nil {
			return "", err
		}
	}

	result := out.String()
	if !utf8.ValidString(result) {
		return "", hq.Errorf(hq.EINVALID, "output is not valid UTF-8")
	}

	if cfg.DecodeJS {
		if result, err = hq.DecodeJSString(result); err != nil {
			return "", err
		}
	}

	if cfg.Compact {
		result = p.Compactor.Compact(result)
	}

	return result, nil
}

// serialize writes one match in the given mode. Every mode except attribute
// extraction emits exactly one trailing newline per match.
func (p *Processor) serialize(w *strings.Builder, sel *goquery.Selection, mode hq.OutputMode, cfg hq.Config) error {
	node := sel.Get(0)

	switch mode {
	case hq.ModeAttributes:
		writeAttributes(w, node, cfg.Attributes)
		return nil
	case hq.ModeText:
		writeText(w, node, cfg.IgnoreWhitespace)
	case hq.ModeMarkdown:
		outer, err := goquery.OuterHtml(sel)
		if err != nil {
			return hq.Errorf(hq.EINTERNAL, "failed to render match: %v", err)
		}
		md, err := p.Converter.Convert(outer)
		if err != nil {
			return err
		}
		w.WriteString(md)
	case hq.ModePretty:
		w.WriteString(PrettyPrint(node))
	default:
		if err := html.Render(w, node); err != nil {
			return hq.Errorf(hq.EINTERNAL, "failed to render match: %v", err)
		}
	}

	w.WriteByte('\n')
	return nil
}

// compileSelector compiles a selector group, reporting syntax errors
// instead of matching nothing.
func compileSelector(selector string) (cascadia.Selector, error) {
	return cascadia.Compile(selector)
}

// compileRemoveSelector joins the remove list into a single alternation.
// Blank entries are ignored; an empty list compiles to nil.
func compileRemoveSelector(selectors []string) (cascadia.Selector, error) {
	var parts []string
	for _, s := range selectors {
		if strings.TrimSpace(s) != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return nil, nil
	}
	return compileSelector(strings.Join(parts, ","))
}

// prune detaches every node in the selection's subtree, the selection
// itself included, that matches remove.
func prune(sel *goquery.Selection, remove cascadia.Selector) {
	if remove == nil {
		return
	}
	sel.FindMatcher(remove).AddSelection(sel.FilterMatcher(remove)).Remove()
}

// writeAttributes writes the value of every requested attribute present on
// n, one per line, in the requested order.
func writeAttributes(w *strings.Builder, n *html.Node, names []string) {
	if n.Type != html.ElementNode {
		return
	}
	for _, name := range names {
		for _, a := range n.Attr {
			if a.Namespace == "" && a.Key == name {
				w.WriteString(a.Val)
				w.WriteByte('\n')
				break
			}
		}
	}
}

// writeText concatenates the text nodes under n in document order. With
// ignoreWhitespace, whitespace-only chunks are dropped and every kept chunk
// is followed by a newline.
func writeText(w *strings.Builder, n *html.Node, ignoreWhitespace bool) {
	if n.Type == html.TextNode {
		if ignoreWhitespace && strings.TrimSpace(n.Data) == "" {
			return
		}
		w.WriteString(n.Data)
		if ignoreWhitespace {
			w.WriteByte('\n')
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(w, c, ignoreWhitespace)
	}
}
