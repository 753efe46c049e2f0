package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

var supportedShells = []string{string(ShellBash), string(ShellZsh), string(ShellFish), string(ShellPowerShell)}

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagFloat
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags, comma-separated
}

// commandDef describes a command for completion.
type commandDef struct {
	Name       string
	Desc       string
	Flags      []flagDef
	Args       []string // fixed argument values
	TakesFiles bool     // accepts page files
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	// Enum flags
	"format":          {Values: []string{"auto", "troff", "markdown", "groff-html"}},
	"on-error":        {Values: []string{"close", "truncate"}},
	"section":         {Values: []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"}},
	"page-size":       {Values: []string{"letter", "a4", "legal"}},
	"orientation":     {Values: []string{"portrait", "landscape"}},
	"footer-position": {Values: []string{"left", "center", "right"}},

	// File flags with glob patterns
	"config": {FileGlob: "*.yaml,*.yml"},
	"style":  {FileGlob: "*.css"},

	// Directory flags
	"output":     {IsDir: true},
	"man-path":   {IsDir: true},
	"asset-path": {IsDir: true},
}

// buildConvertFlagSet creates a FlagSet with all convert command flags,
// registered exactly as parseConvertFlags does.
func buildConvertFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	registerConvertFlags(fs, &convertFlags{})
	return fs
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet,
// enriched with flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
			fd.Type = flagInt
		case "float32", "float64":
			fd.Type = flagFloat
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case meta.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
func getCommands() []commandDef {
	return []commandDef{
		{
			Name:       "convert",
			Desc:       "Convert manual pages to HTML or PDF",
			Flags:      extractFlagsFromFlagSet(buildConvertFlagSet()),
			TakesFiles: true,
		},
		{
			Name:  "doctor",
			Desc:  "Check the PDF and man path setup",
			Flags: []flagDef{{Long: "json", Type: flagBool, Desc: "print the report as JSON"}},
		},
		{
			Name: "completion",
			Desc: "Generate shell completion script",
			Args: supportedShells,
		},
		{
			Name: "version",
			Desc: "Show version information",
		},
		{
			Name: "help",
			Desc: "Show help for a command",
			Args: []string{"convert", "doctor", "completion", "version", "help"},
		},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	var script string
	switch shell {
	case ShellBash:
		script = generateBash(getCommands())
	case ShellZsh:
		script = generateZsh(getCommands())
	case ShellFish:
		script = generateFish(getCommands())
	case ShellPowerShell:
		script = generatePowerShell(getCommands())
	default:
		return fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedShell, shell, strings.Join(supportedShells, ", "))
	}
	_, err := io.WriteString(w, script)
	return err
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: man2html completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(man2html completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(man2html completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    man2html completion fish > ~/.config/fish/completions/man2html.fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PowerShell:")
	fmt.Fprintln(w, "    # Add to $PROFILE:")
	fmt.Fprintln(w, "    man2html completion powershell | Out-String | Invoke-Expression")
}

// commandNames returns the names of cmds in order.
func commandNames(cmds []commandDef) []string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return names
}

// convertCommand returns the convert definition, whose flags also apply
// when no command is given.
func convertCommand(cmds []commandDef) commandDef {
	for _, c := range cmds {
		if c.Name == "convert" {
			return c
		}
	}
	return commandDef{}
}

// flagWords lists "--long" and "-s" forms of flags.
func flagWords(flags []flagDef) []string {
	var words []string
	for _, f := range flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	return words
}

// ---------------------------------------------------------------------------
// Bash
// ---------------------------------------------------------------------------

func generateBash(cmds []commandDef) string {
	convert := convertCommand(cmds)
	var b strings.Builder

	b.WriteString("# bash completion for man2html\n\n")
	b.WriteString("_man2html_completions() {\n")
	b.WriteString("    local cur prev\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	fmt.Fprintf(&b, "    local commands=%q\n\n", strings.Join(commandNames(cmds), " "))

	// Flag values
	b.WriteString("    case \"$prev\" in\n")
	for _, f := range convert.Flags {
		pattern := "--" + f.Long
		if f.Short != "" {
			pattern += "|-" + f.Short
		}
		switch f.Type {
		case flagEnum:
			fmt.Fprintf(&b, "        %s)\n            COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n            return ;;\n",
				pattern, strings.Join(f.Values, " "))
		case flagFile:
			fmt.Fprintf(&b, "        %s)\n            COMPREPLY=( $(compgen -f -- \"$cur\") )\n            return ;;\n", pattern)
		case flagDir:
			fmt.Fprintf(&b, "        %s)\n            COMPREPLY=( $(compgen -d -- \"$cur\") )\n            return ;;\n", pattern)
		case flagString, flagInt, flagFloat:
			fmt.Fprintf(&b, "        %s)\n            return ;;\n", pattern)
		}
	}
	b.WriteString("    esac\n\n")

	// Command arguments
	b.WriteString("    local cmd=\"\"\n")
	b.WriteString("    if [[ ${COMP_CWORD} -gt 1 ]]; then\n")
	b.WriteString("        cmd=\"${COMP_WORDS[1]}\"\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"$cmd\" in\n")
	for _, c := range cmds {
		if c.TakesFiles {
			continue
		}
		fmt.Fprintf(&b, "        %s)\n", c.Name)
		words := append(flagWords(c.Flags), c.Args...)
		fmt.Fprintf(&b, "            COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", strings.Join(words, " "))
		b.WriteString("            return ;;\n")
	}
	b.WriteString("    esac\n\n")

	// Convert flags and pages, with or without the convert command
	b.WriteString("    if [[ \"$cur\" == -* ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", strings.Join(flagWords(convert.Flags), " "))
	b.WriteString("        return\n")
	b.WriteString("    fi\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	b.WriteString("        COMPREPLY=( $(compgen -W \"$commands\" -- \"$cur\") $(compgen -f -- \"$cur\") )\n")
	b.WriteString("        return\n")
	b.WriteString("    fi\n")
	b.WriteString("    COMPREPLY=( $(compgen -f -- \"$cur\") )\n")
	b.WriteString("}\n\n")
	b.WriteString("complete -o filenames -F _man2html_completions man2html\n")

	return b.String()
}

// ---------------------------------------------------------------------------
// Zsh
// ---------------------------------------------------------------------------

var zshEscaper = strings.NewReplacer(`'`, `'\''`, `[`, `\[`, `]`, `\]`, `:`, `\:`)

func zshFlagSpec(f flagDef) string {
	desc := zshEscaper.Replace(f.Desc)
	var action string
	switch f.Type {
	case flagBool:
	case flagEnum:
		action = ":value:(" + strings.Join(f.Values, " ") + ")"
	case flagFile:
		globs := strings.ReplaceAll(f.FileGlob, ",", " ")
		action = ":file:_files -g '" + globs + "'"
	case flagDir:
		action = ":directory:_files -/"
	default:
		action = ":value: "
	}

	if f.Short == "" {
		return "'--" + f.Long + "[" + desc + "]" + action + "'"
	}
	return "'(-" + f.Short + " --" + f.Long + ")'{-" + f.Short + ",--" + f.Long + "}'[" + desc + "]" + action + "'"
}

func generateZsh(cmds []commandDef) string {
	convert := convertCommand(cmds)
	var b strings.Builder

	b.WriteString("#compdef man2html\n\n")
	b.WriteString("_man2html() {\n")
	b.WriteString("  local -a commands convert_flags\n")
	b.WriteString("  commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "    '%s:%s'\n", c.Name, zshEscaper.Replace(c.Desc))
	}
	b.WriteString("  )\n")
	b.WriteString("  convert_flags=(\n")
	for _, f := range convert.Flags {
		fmt.Fprintf(&b, "    %s\n", zshFlagSpec(f))
	}
	b.WriteString("  )\n\n")

	b.WriteString("  if (( CURRENT == 2 )) && [[ $words[CURRENT] != -* ]]; then\n")
	b.WriteString("    _describe -t commands 'man2html command' commands\n")
	b.WriteString("    _files\n")
	b.WriteString("    return\n")
	b.WriteString("  fi\n\n")

	b.WriteString("  case $words[2] in\n")
	for _, c := range cmds {
		if c.TakesFiles {
			continue
		}
		fmt.Fprintf(&b, "    %s)\n", c.Name)
		switch {
		case len(c.Args) > 0:
			fmt.Fprintf(&b, "      _values '%s' %s\n", c.Name, strings.Join(c.Args, " "))
		case len(c.Flags) > 0:
			specs := make([]string, len(c.Flags))
			for i, f := range c.Flags {
				specs[i] = zshFlagSpec(f)
			}
			fmt.Fprintf(&b, "      _arguments %s\n", strings.Join(specs, " "))
		default:
			b.WriteString("      ;;\n")
			continue
		}
		b.WriteString("      ;;\n")
	}
	b.WriteString("    *)\n")
	b.WriteString("      _arguments -s $convert_flags '*:page:_files'\n")
	b.WriteString("      ;;\n")
	b.WriteString("  esac\n")
	b.WriteString("}\n\n")
	b.WriteString("_man2html \"$@\"\n")

	return b.String()
}

// ---------------------------------------------------------------------------
// Fish
// ---------------------------------------------------------------------------

var fishEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func generateFish(cmds []commandDef) string {
	convert := convertCommand(cmds)
	var b strings.Builder

	b.WriteString("# fish completion for man2html\n\n")
	b.WriteString("function __fish_man2html_needs_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\n")
	b.WriteString("end\n\n")
	b.WriteString("function __fish_man2html_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test \"$cmd[2]\" = \"$argv[1]\"\n")
	b.WriteString("end\n\n")

	b.WriteString("# Commands\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c man2html -n __fish_man2html_needs_command -f -a %s -d '%s'\n",
			c.Name, fishEscaper.Replace(c.Desc))
	}
	b.WriteString("\n")

	b.WriteString("# Command arguments\n")
	for _, c := range cmds {
		if c.TakesFiles {
			continue
		}
		cond := "'__fish_man2html_using_command " + c.Name + "'"
		if len(c.Args) > 0 {
			fmt.Fprintf(&b, "complete -c man2html -n %s -f -a '%s'\n", cond, strings.Join(c.Args, " "))
		}
		for _, f := range c.Flags {
			fmt.Fprintf(&b, "complete -c man2html -n %s -l %s -d '%s'\n", cond, f.Long, fishEscaper.Replace(f.Desc))
		}
	}
	b.WriteString("\n")

	b.WriteString("# Convert flags, with or without the convert command\n")
	others := make([]string, 0, len(cmds))
	for _, c := range cmds {
		if !c.TakesFiles {
			others = append(others, c.Name)
		}
	}
	cond := "'not __fish_seen_subcommand_from " + strings.Join(others, " ") + "'"
	for _, f := range convert.Flags {
		fmt.Fprintf(&b, "complete -c man2html -n %s", cond)
		if f.Short != "" {
			fmt.Fprintf(&b, " -s %s", f.Short)
		}
		fmt.Fprintf(&b, " -l %s", f.Long)
		switch f.Type {
		case flagEnum:
			fmt.Fprintf(&b, " -x -a '%s'", strings.Join(f.Values, " "))
		case flagFile:
			b.WriteString(" -r -F")
		case flagDir:
			b.WriteString(" -x -a '(__fish_complete_directories)'")
		case flagString, flagInt, flagFloat:
			b.WriteString(" -x")
		}
		fmt.Fprintf(&b, " -d '%s'\n", fishEscaper.Replace(f.Desc))
	}

	return b.String()
}

// ---------------------------------------------------------------------------
// PowerShell
// ---------------------------------------------------------------------------

func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func generatePowerShell(cmds []commandDef) string {
	convert := convertCommand(cmds)
	var b strings.Builder

	b.WriteString("# powershell completion for man2html\n\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName man2html -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")

	b.WriteString("    $commands = @(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        @{ Name = %s; Desc = %s }\n", psQuote(c.Name), psQuote(c.Desc))
	}
	b.WriteString("    )\n")
	b.WriteString("    $flags = @(\n")
	for _, f := range convert.Flags {
		fmt.Fprintf(&b, "        @{ Name = %s; Desc = %s }\n", psQuote("--"+f.Long), psQuote(f.Desc))
	}
	b.WriteString("    )\n")
	b.WriteString("    $arguments = @{\n")
	for _, c := range cmds {
		words := append(flagWords(c.Flags), c.Args...)
		if c.TakesFiles || len(words) == 0 {
			continue
		}
		quoted := make([]string, len(words))
		for i, w := range words {
			quoted[i] = psQuote(w)
		}
		fmt.Fprintf(&b, "        %s = @(%s)\n", psQuote(c.Name), strings.Join(quoted, ", "))
	}
	b.WriteString("    }\n\n")

	b.WriteString("    $elements = $commandAst.CommandElements\n")
	b.WriteString("    if ($elements.Count -ge 2) {\n")
	b.WriteString("        $cmd = $elements[1].ToString()\n")
	b.WriteString("        if ($arguments.ContainsKey($cmd) -and $cmd -ne $wordToComplete) {\n")
	b.WriteString("            $arguments[$cmd] | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("                [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	b.WriteString("            }\n")
	b.WriteString("            return\n")
	b.WriteString("        }\n")
	b.WriteString("    }\n\n")

	b.WriteString("    if ($wordToComplete -like '-*') {\n")
	b.WriteString("        $flags | Where-Object { $_.Name -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_.Name, $_.Name, 'ParameterName', $_.Desc)\n")
	b.WriteString("        }\n")
	b.WriteString("        return\n")
	b.WriteString("    }\n\n")

	b.WriteString("    if ($elements.Count -le 2) {\n")
	b.WriteString("        $commands | Where-Object { $_.Name -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_.Name, $_.Name, 'Command', $_.Desc)\n")
	b.WriteString("        }\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")

	return b.String()
}
