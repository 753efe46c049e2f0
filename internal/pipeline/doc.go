// Package pipeline implements the HTML stages that run around the troff core.
//
// This package handles source conversion for the non-troff page formats and
// the post-processing of every generated document:
//   - Markdown manual pages to HTML via Goldmark
//   - Cleanup of HTML already rendered by groff (man -Thtml)
//   - CSS injection into HTML documents
//   - Table of contents generation from section headings
//   - Cross-reference linking of page references and section names
//
// Troff conversion itself lives in internal/troff, and PDF rendering in the
// root man2html package using headless Chrome (go-rod).
package pipeline
