package goquery

import (
	"strings"

	"golang.org/x/net/html"
)

const indentUnit = "  "

// voidElements can't have any contents and have no end tag.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"keygen": true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// rawTextElements hold text that is written without escaping.
var rawTextElements = map[string]bool{
	"iframe":    true,
	"noembed":   true,
	"noframes":  true,
	"noscript":  true,
	"plaintext": true,
	"script":    true,
	"style":     true,
	"xmp":       true,
}

// preformattedElements keep their contents exactly as parsed.
var preformattedElements = map[string]bool{
	"pre":      true,
	"textarea": true,
	"listing":  true,
}

// PrettyPrint renders n and its subtree with one node per line, indented
// two spaces per level of depth. Elements whose only child is a single-line
// text node stay on one line. Whitespace-only text between elements is
// dropped; the contents of script, style, pre and similar elements are
// kept verbatim. The result has no trailing newline.
func PrettyPrint(n *html.Node) string {
	var b strings.Builder
	prettyPrint(&b, n, 0)
	return strings.TrimSuffix(b.String(), "\n")
}

func prettyPrint(b *strings.Builder, n *html.Node, depth int) {
	indent := strings.Repeat(indentUnit, depth)

	switch n.Type {
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			prettyPrint(b, c, depth)
		}
	case html.DoctypeNode:
		b.WriteString(indent + "<!DOCTYPE " + n.Data + ">\n")
	case html.CommentNode:
		b.WriteString(indent + "<!--" + n.Data + "-->\n")
	case html.TextNode:
		text := strings.TrimSpace(n.Data)
		if text == "" {
			return
		}
		b.WriteString(indent + html.EscapeString(text) + "\n")
	case html.ElementNode:
		prettyPrintElement(b, n, indent, depth)
	}
}

func prettyPrintElement(b *strings.Builder, n *html.Node, indent string, depth int) {
	b.WriteString(indent)
	b.WriteString(startTag(n))

	switch {
	case voidElements[n.Data]:
		b.WriteByte('\n')
		return
	case rawTextElements[n.Data]:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			} else {
				_ = html.Render(b, c)
			}
		}
	case preformattedElements[n.Data]:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			_ = html.Render(b, c)
		}
	case isInline(n):
		if c := n.FirstChild; c != nil {
			b.WriteString(html.EscapeString(c.Data))
		}
	default:
		b.WriteByte('\n')
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			prettyPrint(b, c, depth+1)
		}
		b.WriteString(indent)
	}

	b.WriteString("</" + n.Data + ">\n")
}

// isInline reports whether an element renders on a single line: it is
// empty or its only child is a text node without line breaks.
func isInline(n *html.Node) bool {
	c := n.FirstChild
	if c == nil {
		return true
	}
	return c.NextSibling == nil && c.Type == html.TextNode && !strings.ContainsAny(c.Data, "\r\n")
}

func startTag(n *html.Node) string {
	var b strings.Builder
	b.WriteString("<" + n.Data)
	for _, a := range n.Attr {
		b.WriteByte(' ')
		if a.Namespace != "" {
			b.WriteString(a.Namespace + ":")
		}
		b.WriteString(a.Key + `="` + html.EscapeString(a.Val) + `"`)
	}
	b.WriteByte('>')
	return b.String()
}
