// Package hq provides a command-line and HTTP tool for querying HTML
// documents with CSS selectors. Matched subtrees are re-emitted as raw
// markup, pretty markup, text, Markdown or attribute values, optionally
// pruned, link-rewritten and compacted.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, minio/, htmltomarkdown/).
package hq
