package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: man2html [convert] [flags] <page>...")
	fmt.Fprintln(w, "       man2html <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert     Convert manual pages to HTML or PDF (default)")
	fmt.Fprintln(w, "  doctor      Check the PDF and man path setup")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'man2html help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: man2html [convert] [flags] <page>...")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert manual pages to HTML, or PDF with --pdf.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Pages:")
	fmt.Fprintln(w, "  path/to/ls.1[.gz]         Page file (troff, Markdown, or groff HTML)")
	fmt.Fprintln(w, "  -                         Standard input")
	fmt.Fprintln(w, "  ls(1), ls.1, ls           Page looked up in the man path")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  One page is written to stdout; several pages, or -o DIR/, are written")
	fmt.Fprintln(w, "  as <name>.<section>.html (or .pdf) files.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -f, --format <s>          Source format: auto, troff, markdown, groff-html")
	fmt.Fprintln(w, "      --print-config        Print the effective configuration and exit")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Man Path:")
	fmt.Fprintln(w, "  -s, --section <s>         Section for bare page names")
	fmt.Fprintln(w, "      --man-path <dir>      Manual page root, repeatable (default: $MANPATH)")
	fmt.Fprintln(w, "      --lang <s>            Page language (default: from $LANG)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "  -d, --debug               Mark unsupported macros in the output")
	fmt.Fprintln(w, "      --on-error <s>        After an internal error: close (default), truncate")
	fmt.Fprintln(w, "      --head <html>         Raw HTML line added to <head>, repeatable")
	fmt.Fprintln(w, "      --toc                 Add a table of contents")
	fmt.Fprintln(w, "      --toc-title <s>       Table of contents heading")
	fmt.Fprintln(w, "      --xref                Link page references and section names")
	fmt.Fprintln(w, "      --xref-url <s>        Link pattern (default: {name}.{section}.html)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "      --style <s>           Style name (default, dark, print), CSS file, or inline CSS")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory with styles/<name>.css")
	fmt.Fprintln(w, "      --no-style            Disable CSS styling")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "PDF:")
	fmt.Fprintln(w, "      --pdf                 Write PDF instead of HTML (requires Chrome)")
	fmt.Fprintln(w, "  -p, --page-size <s>       Page size: letter, a4, legal")
	fmt.Fprintln(w, "      --orientation <s>     Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --margin <f>          Margin in inches (0.25-3.0)")
	fmt.Fprintln(w, "  -t, --timeout <d>         PDF generation timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Footer:")
	fmt.Fprintln(w, "      --footer              Print a footer with the page title")
	fmt.Fprintln(w, "      --footer-position <s> Position: left, center, right")
	fmt.Fprintln(w, "      --footer-date <s>     Date: literal, \"auto[:FORMAT]\", or \"page[:FORMAT]\"")
	fmt.Fprintln(w, "                            Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D")
	fmt.Fprintln(w, "                            Presets (case-insensitive): iso, european, us, long, man")
	fmt.Fprintln(w, "      --footer-text <s>     Custom footer text")
	fmt.Fprintln(w, "      --footer-page-number  Show page numbers")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs and timing")
	fmt.Fprintln(w, "      --version             Show version information")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: man2html doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check Chrome for --pdf, the man path, and the environment.")
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: man2html version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: man2html help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
