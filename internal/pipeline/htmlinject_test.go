package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestSanitizeCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "no escape needed",
			input:    "body { color: red; }",
			expected: "body { color: red; }",
		},
		{
			name:     "escapes style close",
			input:    "</style>",
			expected: `<\/style>`,
		},
		{
			name:     "multiple occurrences",
			input:    "</a></b>",
			expected: `<\/a><\/b>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := sanitizeCSS(tt.input)
			if got != tt.expected {
				t.Errorf("sanitizeCSS(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestInjectCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		html     string
		css      string
		expected string
	}{
		{
			name:     "empty css leaves html unchanged",
			html:     "<html><head></head><body></body></html>",
			css:      "",
			expected: "<html><head></head><body></body></html>",
		},
		{
			name:     "inserted before head close",
			html:     "<html><head><title>T</title></head><body></body></html>",
			css:      "b { color: red; }",
			expected: "<html><head><title>T</title><style>\nb { color: red; }\n</style>\n</head><body></body></html>",
		},
		{
			name:     "uppercase head",
			html:     "<HTML><HEAD></HEAD></HTML>",
			css:      "x{}",
			expected: "<HTML><HEAD><style>\nx{}\n</style>\n</HEAD></HTML>",
		},
		{
			name:     "after body without head",
			html:     `<body class="man"><p>x</p></body>`,
			css:      "x{}",
			expected: "<body class=\"man\"><style>\nx{}\n</style>\n<p>x</p></body>",
		},
		{
			name:     "prepended to fragment",
			html:     "<p>x</p>",
			css:      "x{}",
			expected: "<style>\nx{}\n</style>\n<p>x</p>",
		},
		{
			name:     "css cannot close style",
			html:     "<head></head>",
			css:      "</style><script>",
			expected: "<head><style>\n<\\/style><script>\n</style>\n</head>",
		},
	}

	injector := &CSSInjection{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := injector.InjectCSS(context.Background(), tt.html, tt.css)
			if got != tt.expected {
				t.Errorf("InjectCSS() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestInjectCSS_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	input := "<html><head></head></html>"
	got := (&CSSInjection{}).InjectCSS(ctx, input, "x{}")
	if got != input {
		t.Errorf("InjectCSS() with cancelled context = %q, want unchanged", got)
	}
}

func TestExtractSections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want []section
	}{
		{
			name: "no sections",
			html: "<h1>LS</h1><h3>Sub</h3>",
			want: nil,
		},
		{
			name: "troff sections",
			html: "<a name=\"NAME\"></a>\n<h2>NAME</h2>\n<p>x</p>\n<h2>SEE <b>ALSO</b></h2>",
			want: []section{{ID: "NAME", Text: "NAME"}, {ID: "SEE ALSO", Text: "SEE ALSO"}},
		},
		{
			name: "markdown sections with ids",
			html: `<h2 id="options">OPTIONS</h2>`,
			want: []section{{ID: "options", Text: "OPTIONS"}},
		},
		{
			name: "entities decoded",
			html: "<h2>A &amp; B</h2>",
			want: []section{{ID: "A & B", Text: "A & B"}},
		},
		{
			name: "empty heading skipped",
			html: "<h2> </h2>",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := extractSections(tt.html)
			if len(got) != len(tt.want) {
				t.Fatalf("extractSections() = %+v, want %+v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("section %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestInjectTOC(t *testing.T) {
	t.Parallel()

	page := "<!doctype html>\n<html>\n<head>\n</head>\n<body>\n<h1>LS</h1>\n" +
		"<a name=\"NAME\"></a>\n<h2>NAME</h2>\n<a name=\"A &amp; B\"></a>\n<h2>A &amp; B</h2>\n</body>\n</html>\n"

	tests := []struct {
		name     string
		html     string
		data     *TOCData
		expected string
	}{
		{
			name:     "nil data leaves html unchanged",
			html:     page,
			data:     nil,
			expected: page,
		},
		{
			name: "default title after body",
			html: page,
			data: &TOCData{},
			expected: strings.Replace(page, "<body>\n",
				"<body>\n"+`<aside class="toc"><h3>Contents</h3><ol>`+
					`<li><a href="#NAME">NAME</a></li>`+
					`<li><a href="#A &amp; B">A &amp; B</a></li>`+
					"</ol></aside>\n", 1),
		},
		{
			name: "custom title escaped",
			html: "<body><h2>X</h2></body>",
			data: &TOCData{Title: "<Index>"},
			expected: `<body><aside class="toc"><h3>&lt;Index&gt;</h3><ol>` +
				`<li><a href="#X">X</a></li></ol></aside>` + "\n<h2>X</h2></body>",
		},
		{
			name:     "no sections",
			html:     "<body><p>x</p></body>",
			data:     &TOCData{},
			expected: "<body><p>x</p></body>",
		},
	}

	injector := NewTOCInjection()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := injector.InjectTOC(context.Background(), tt.html, tt.data)
			if err != nil {
				t.Fatalf("InjectTOC() error = %v", err)
			}
			if got != tt.expected {
				t.Errorf("InjectTOC() =\n%s\nwant:\n%s", got, tt.expected)
			}
		})
	}
}

func TestInjectTOC_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewTOCInjection().InjectTOC(ctx, "<body><h2>X</h2></body>", &TOCData{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("InjectTOC() error = %v, want context.Canceled", err)
	}
}
