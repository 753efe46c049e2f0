package manpath

import (
	"errors"
	"testing"
)

func TestParseRef(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Ref
		wantErr bool
	}{
		{name: "paren form", input: "ls(1)", want: Ref{Name: "ls", Section: "1"}},
		{name: "paren with suffix", input: "printf(3p)", want: Ref{Name: "printf", Section: "3p"}},
		{name: "dot form", input: "ls.1", want: Ref{Name: "ls", Section: "1"}},
		{name: "dotted name", input: "systemd.unit(5)", want: Ref{Name: "systemd.unit", Section: "5"}},
		{name: "dotted name dot form", input: "systemd.unit.5", want: Ref{Name: "systemd.unit", Section: "5"}},
		{name: "bare name", input: "git-log", want: Ref{Name: "git-log"}},
		{name: "namespaced", input: "Data::Dumper(3pm)", want: Ref{Name: "Data::Dumper", Section: "3pm"}},
		{name: "surrounding space", input: "  ls(1) ", want: Ref{Name: "ls", Section: "1"}},
		{name: "empty", input: "", wantErr: true},
		{name: "path", input: "./ls.1", wantErr: true},
		{name: "section not numeric", input: "ls(x)", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseRef(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRef) {
					t.Errorf("ParseRef(%q) error = %v, want ErrInvalidRef", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRef(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseRef(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRef_String(t *testing.T) {
	t.Parallel()

	if got := (Ref{Name: "ls", Section: "1"}).String(); got != "ls(1)" {
		t.Errorf("String() = %q, want %q", got, "ls(1)")
	}
	if got := (Ref{Name: "ls"}).String(); got != "ls" {
		t.Errorf("String() = %q, want %q", got, "ls")
	}
}

func TestIsRef(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"ls(1)", true},
		{"ls.1", true},
		{"ls", true},
		{"pages/ls.1", false},
		{`C:\man\ls.1`, false},
		{"-", false},
	}

	for _, tt := range tests {
		if got := IsRef(tt.input); got != tt.want {
			t.Errorf("IsRef(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
