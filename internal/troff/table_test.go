package troff

import (
	"slices"
	"testing"
)

func TestParseTableOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
		want TableOptions
	}{
		{
			name: "empty",
			line: ";",
			want: DefaultTableOptions(),
		},
		{
			name: "flags",
			line: "center expand allbox;",
			want: TableOptions{Center: true, Expand: true, AllBox: true, Tab: '\t', DecimalPoint: '.'},
		},
		{
			name: "case insensitive with commas",
			line: "CENTRE, Box;",
			want: TableOptions{Center: true, Box: true, Tab: '\t', DecimalPoint: '.'},
		},
		{
			name: "valued options",
			line: "tab(:) delim($$) decimalpoint(,) linesize(2);",
			want: TableOptions{Tab: ':', Delim: "$$", DecimalPoint: ',', LineSize: 2},
		},
		{
			name: "blank before value",
			line: "tab (|);",
			want: TableOptions{Tab: '|', DecimalPoint: '.'},
		},
		{
			name: "option names are whole words",
			line: "doublebox frame;",
			want: TableOptions{DoubleBox: true, Frame: true, Tab: '\t', DecimalPoint: '.'},
		},
		{
			name: "unknown options ignored",
			line: "fancy center;",
			want: TableOptions{Center: true, Tab: '\t', DecimalPoint: '.'},
		},
		{
			name: "bad linesize ignored",
			line: "linesize(x);",
			want: DefaultTableOptions(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ParseTableOptions(tt.line)
			if got != tt.want {
				t.Errorf("ParseTableOptions(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestTableOptionsClasses(t *testing.T) {
	t.Parallel()

	opts := TableOptions{Center: true, Box: true, DoubleBox: true}
	if got, want := opts.classes(), []string{"center", "doublebox"}; !slices.Equal(got, want) {
		t.Errorf("classes() = %q, want %q", got, want)
	}
}

func TestSplitRow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
		tab  rune
		want []string
	}{
		{name: "tabs", line: "a\tb\tc", tab: '\t', want: []string{"a", "b", "c"}},
		{name: "custom tab", line: "a:b", tab: ':', want: []string{"a", "b"}},
		{name: "fields trimmed", line: " a : b ", tab: ':', want: []string{"a", "b"}},
		{name: "empty field", line: "a\t\tc", tab: '\t', want: []string{"a", "", "c"}},
		{name: "text block", line: "T{ x\ty T}\tz", tab: '\t', want: []string{"x\ty", "z"}},
		{name: "unterminated block", line: "a\tT{ rest", tab: '\t', want: []string{"a", "rest"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := splitRow(tt.line, tt.tab)
			if !slices.Equal(got, tt.want) {
				t.Errorf("splitRow(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}
