// Package assets provides the CSS styles applied to converted manual pages.
//
// Built-in styles are "default" (screen), "dark", and "print", which is
// appended to pages rendered as PDF. A custom directory given with
// --asset-path overrides them by name:
//
//	{dir}/
//	└── styles/
//	    └── {name}.css
//
// Resolver searches the custom directory, then the built-in styles.
// Resolver.Resolve also accepts inline CSS and style file paths, which is
// how the --style flag is interpreted.
package assets
