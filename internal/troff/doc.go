// Package troff converts man pages written in troff to HTML.
//
// The conversion is a single forward pass over a LineSource. A Stream pulls
// source lines only as HTML output is requested, so a page can be rendered
// progressively and abandoned at any point. Tables (.TS/.TE) are parsed by a
// sub-parser that reads from the same cursor as the main dispatcher.
//
// Inline text goes through a Decoder, which escapes HTML, translates
// character escapes, and turns font and colour escapes into balanced inline
// elements.
package troff
