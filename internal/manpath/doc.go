// Package manpath locates manual page sources on disk.
//
// Pages live under one or more roots such as /usr/share/man, in
// man<section> directories, optionally below a language directory:
//
//	<root>/<lang>.UTF-8/man1/ls.1.gz
//	<root>/<lang>/man1/ls.1.gz
//	<root>/man1/ls.1.gz
//
// Compressed and plain pages are both read transparently.
package manpath
