// Package man2html converts manual pages to HTML, and optionally to PDF
// using headless Chrome.
//
// # Quick Start
//
//	conv, err := man2html.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, man2html.Input{
//	    Source: ".TH LS 1\n.SH NAME\nls \\- list directory contents\n",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("ls.1.html", result.HTML, 0644)
//
// # Sources
//
// Three page formats are accepted, detected from the name and content
// unless Input.Format is set:
//
//   - troff man-macro source, converted by a streaming interpreter;
//   - ronn-style Markdown pages ("ls(1) -- list directory contents");
//   - pages already rendered by groff -Thtml, which are cleaned up.
//
// # Conversion Pipeline
//
//  1. Source to HTML by format
//  2. Style injection (built-in, custom or inline CSS)
//  3. Table of contents from the section headings
//  4. Cross-reference links: <b>ls</b>(1) and bold section names
//  5. PDF rendering via headless Chrome (go-rod), with the print style
//
// A troff page that fails midway still yields HTML: by default the open
// elements are closed (CloseOnError), or the output stops at the last
// complete line (TruncateOnError). Convert then returns the partial result
// and an error wrapping ErrConversionAborted.
//
// # Streaming
//
// Converter.Stream exposes the troff interpreter directly. It pulls source
// lines only as output lines are requested:
//
//	s := conv.Stream(man2html.Input{Source: src})
//	for line := range s.All() {
//	    w.Write([]byte(line))
//	}
//	if err := s.Err(); err != nil { ... }
//
// # Parallel Processing
//
// For batch conversion, use ConverterPool:
//
//	pool := man2html.NewConverterPool(man2html.ResolvePoolSize(0))
//	defer pool.Close()
//
//	conv, err := pool.Acquire(ctx)
//	if err != nil { ... }
//	defer pool.Release(conv)
//
// # Browser Requirements
//
// PDF output requires Chrome/Chromium. go-rod downloads a managed Chromium
// on first use (~/.cache/rod/browser/). Set ROD_BROWSER_BIN to use an
// installed browser and ROD_NO_SANDBOX=1 in containers and CI.
package man2html
