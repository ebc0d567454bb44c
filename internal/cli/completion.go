package cli

import (
	"fmt"
	"io"
	"strings"
)

// FlagCompletion describes one flag for the completion generators. Every
// shell script is built from flagRegistry.
type FlagCompletion struct {
	Long      string   // name without the leading dashes
	Short     string   // single-letter alias, if any
	Help      string
	Values    []string // static suggestions
	ValueName string   // non-empty when the flag takes a value
	IsFile    bool
	// Dynamic is "strategy" or "region" when suggestions come from the caller.
	Dynamic string
}

var flagRegistry = []FlagCompletion{
	{Long: "help", Short: "h", Help: "Show help message"},
	{Long: "version", Help: "Show version information"},
	{Long: "width", Help: "Image width in pixels", Values: []string{"800", "1920", "4000", "8000"}, ValueName: "pixels"},
	{Long: "height", Help: "Image height in pixels", Values: []string{"600", "1080", "2286", "4571"}, ValueName: "pixels"},
	{Long: "iter", Help: "Maximum iterations per pixel", Values: []string{"100", "500", "1000", "5000"}, ValueName: "count"},
	{Long: "threads", Help: "Worker bands (must divide the width, 0 = auto)", Values: []string{"0", "4", "8", "16", "20"}, ValueName: "count"},
	{Long: "chunk", Help: "Columns per task for the chunked strategy", ValueName: "columns"},
	{Long: "region", Help: "Region of the complex plane", Dynamic: "region", ValueName: "region"},
	{Long: "strategy", Help: "Scheduling strategy", Dynamic: "strategy", ValueName: "strategy"},
	{Long: "output", Short: "o", Help: "Output bitmap path", IsFile: true, ValueName: "file"},
	{Long: "timeout", Help: "Maximum render time", Values: []string{"30s", "1m", "5m", "10m"}, ValueName: "duration"},
	{Long: "verbose", Short: "v", Help: "Enable debug logging"},
	{Long: "details", Short: "d", Help: "Show memory statistics and checksums"},
	{Long: "quiet", Short: "q", Help: "Only print the elapsed time"},
	{Long: "tui", Help: "Launch the interactive dashboard"},
	{Long: "calibrate", Help: "Benchmark thread counts"},
	{Long: "no-color", Help: "Disable colored output"},
	{Long: "metrics-addr", Help: "Serve Prometheus metrics on this address", ValueName: "addr"},
	{Long: "metrics-file", Help: "Write Prometheus metrics to this file", IsFile: true, ValueName: "file"},
	{Long: "memory-limit", Help: "Maximum image buffer size", Values: []string{"256MB", "512MB", "1GB"}, ValueName: "size"},
	{Long: "inspect", Help: "Print the header of a bitmap file", IsFile: true, ValueName: "file"},
	{Long: "completion", Help: "Generate completion script", Values: []string{"bash", "zsh", "fish"}, ValueName: "shell"},
}

// CompletionLists carries the dynamic suggestion lists.
type CompletionLists struct {
	Strategies []string
	Regions    []string
}

func (l CompletionLists) values(f FlagCompletion) []string {
	switch f.Dynamic {
	case "strategy":
		return append(append([]string{}, l.Strategies...), "all")
	case "region":
		return l.Regions
	}
	return f.Values
}

// GenerateCompletion writes a completion script for shell.
//
// Parameters:
//   - out: The io.Writer for the script.
//   - shell: One of bash, zsh or fish.
//   - lists: The strategy and region names offered as flag values.
//
// Returns:
//   - error: An error if the shell is not supported.
func GenerateCompletion(out io.Writer, shell string, lists CompletionLists) error {
	var script string
	switch shell {
	case "bash":
		script = bashCompletion(lists)
	case "zsh":
		script = zshCompletion(lists)
	case "fish":
		script = fishCompletion(lists)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish)", shell)
	}
	if _, err := fmt.Fprint(out, script); err != nil {
		return fmt.Errorf("completion %s generation failed: %w", shell, err)
	}
	return nil
}

func bashCompletion(lists CompletionLists) string {
	var opts []string
	var cases strings.Builder
	for _, f := range flagRegistry {
		patterns := []string{"-" + f.Long}
		if f.Short != "" {
			patterns = append(patterns, "-"+f.Short)
		}
		opts = append(opts, patterns...)

		var body string
		switch {
		case f.IsFile:
			body = `COMPREPLY=( $(compgen -f -- "${cur}") )`
		case len(lists.values(f)) > 0:
			body = fmt.Sprintf(`COMPREPLY=( $(compgen -W "%s" -- "${cur}") )`, strings.Join(lists.values(f), " "))
		default:
			continue
		}
		fmt.Fprintf(&cases, "        %s)\n            %s\n            return 0\n            ;;\n", strings.Join(patterns, "|"), body)
	}

	return fmt.Sprintf(`# Bash completion script for mandelcalc
# Add this to your ~/.bashrc or ~/.bash_completion

_mandelcalc_completions() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    opts="%s"

    case "${prev}" in
%s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F _mandelcalc_completions mandelcalc
`, strings.Join(opts, " "), cases.String())
}

func zshCompletion(lists CompletionLists) string {
	var args []string
	for _, f := range flagRegistry {
		suffix := ""
		switch {
		case f.IsFile:
			suffix = fmt.Sprintf(":%s:_files", f.ValueName)
		case len(lists.values(f)) > 0:
			suffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(lists.values(f), " "))
		case f.ValueName != "":
			suffix = fmt.Sprintf(":%s:", f.ValueName)
		}
		if f.Short != "" {
			args = append(args, fmt.Sprintf("        '(-%s -%s)'{-%s,-%s}'[%s]%s'", f.Short, f.Long, f.Short, f.Long, f.Help, suffix))
		} else {
			args = append(args, fmt.Sprintf("        '-%s[%s]%s'", f.Long, f.Help, suffix))
		}
	}

	return fmt.Sprintf(`#compdef mandelcalc

# Zsh completion script for mandelcalc
# Place in a directory of $fpath

_mandelcalc() {
    _arguments -s \
%s
}

_mandelcalc "$@"
`, strings.Join(args, " \\\n"))
}

func fishCompletion(lists CompletionLists) string {
	lines := []string{
		"# Fish completion script for mandelcalc",
		"# Add this to ~/.config/fish/completions/mandelcalc.fish",
		"",
		"complete -c mandelcalc -f",
	}
	for _, f := range flagRegistry {
		parts := []string{"complete -c mandelcalc", "-o " + f.Long}
		if f.Short != "" {
			parts = append(parts, "-o "+f.Short)
		}
		parts = append(parts, fmt.Sprintf("-d '%s'", f.Help))
		switch {
		case f.IsFile:
			parts = append(parts, "-rF")
		case len(lists.values(f)) > 0:
			parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(lists.values(f), " ")))
		case f.ValueName != "":
			parts = append(parts, "-x")
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	return strings.Join(lines, "\n") + "\n"
}
