package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/hq"
	"golang.org/x/net/html"
)

// linkAttributes are the attributes that carry references to other resources.
var linkAttributes = map[string]bool{
	"href":       true,
	"src":        true,
	"action":     true,
	"formaction": true,
	"poster":     true,
	"cite":       true,
}

// resolveBase returns the URL relative links are resolved against, or nil
// when link rewriting should be skipped. A base declared in the document
// wins over cfg.Base when detection is enabled.
func resolveBase(doc *goquery.Document, cfg hq.Config) (*url.URL, error) {
	var explicit *url.URL
	if cfg.Base != "" {
		explicit = parseAbsoluteURL(cfg.Base)
		if explicit == nil && cfg.StrictBase {
			return nil, hq.Errorf(hq.EINVALID, "invalid base URL %q", cfg.Base)
		}
	}

	if cfg.DetectBase {
		if detected := DetectBase(doc); detected != nil {
			return detected, nil
		}
	}
	return explicit, nil
}

// DetectBase returns the absolute URL declared by the first <base href> in
// the document, or nil if there is none.
func DetectBase(doc *goquery.Document) *url.URL {
	href, ok := doc.Find("base[href]").First().Attr("href")
	if !ok {
		return nil
	}
	return parseAbsoluteURL(href)
}

// parseAbsoluteURL parses s and returns nil unless it is an absolute URL.
func parseAbsoluteURL(s string) *url.URL {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || !u.IsAbs() {
		return nil
	}
	return u
}

// rewriteLinks resolves relative link attributes on n and its descendants
// against base, in place. Values with a scheme or host, empty values and
// unparseable values are left untouched.
func rewriteLinks(n *html.Node, base *url.URL) {
	if n.Type == html.ElementNode {
		for i, a := range n.Attr {
			if a.Namespace != "" || !linkAttributes[a.Key] {
				continue
			}
			if resolved, ok := resolveReference(base, a.Val); ok {
				n.Attr[i].Val = resolved
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteLinks(c, base)
	}
}

// resolveReference resolves a relative reference against base.
// It reports false for references that are not relative.
func resolveReference(base *url.URL, ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", false
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", false
	}
	if u.Scheme != "" || u.Host != "" {
		return "", false
	}
	return base.ResolveReference(u).String(), true
}
