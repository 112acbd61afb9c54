package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	declpdf "github.com/alnah/go-declpdf"
	"github.com/alnah/go-declpdf/internal/assets"
)

// Shell is a shell completion scripts can be generated for.
type Shell string

// Supported shells.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// inputGlobs are the file patterns completed for the convert argument.
var inputGlobs = []string{"html", "htm", "md", "markdown"}

type flagKind int

const (
	kindString flagKind = iota
	kindBool
	kindEnum
	kindFile
	kindDir
)

// flagDef describes a flag for completion.
type flagDef struct {
	Long   string
	Short  string
	Desc   string
	Kind   flagKind
	Values []string // enum values or file extensions
}

// completionHints enriches flags whose values can be completed.
func completionHints() map[string]flagDef {
	return map[string]flagDef{
		"paper":       {Kind: kindEnum, Values: declpdf.PageSizes()},
		"orientation": {Kind: kindEnum, Values: []string{declpdf.OrientationPortrait, declpdf.OrientationLandscape}},
		"layout":      {Kind: kindEnum, Values: assets.BuiltinLayouts()},
		"style":       {Kind: kindEnum, Values: assets.BuiltinStyles()},
		"config":      {Kind: kindFile, Values: []string{"yaml", "yml"}},
		"css":         {Kind: kindFile, Values: []string{"css"}},
		"browser-bin": {Kind: kindFile},
		"output":      {Kind: kindDir},
		"asset-path":  {Kind: kindDir},
	}
}

// convertFlagDefs reads the flags from the convert FlagSet itself.
func convertFlagDefs() []flagDef {
	fs := newConvertFlagSet(&convertFlags{}, io.Discard)
	hints := completionHints()

	var defs []flagDef
	fs.VisitAll(func(f *flag.Flag) {
		d := flagDef{Long: f.Name, Short: f.Shorthand, Desc: f.Usage}
		if f.Value.Type() == "bool" {
			d.Kind = kindBool
		}
		if h, ok := hints[f.Name]; ok {
			d.Kind, d.Values = h.Kind, h.Values
		}
		defs = append(defs, d)
	})
	return defs
}

var commands = []struct{ name, desc string }{
	{"convert", "Generate PDFs from templates or Markdown"},
	{"doctor", "Check Chrome and the environment"},
	{"version", "Show version information"},
	{"help", "Show help for a command"},
	{"completion", "Generate a shell completion script"},
}

// GenerateCompletion writes the completion script for shell to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	defs := convertFlagDefs()
	var script string
	switch shell {
	case ShellBash:
		script = bashScript(defs)
	case ShellZsh:
		script = zshScript(defs)
	case ShellFish:
		script = fishScript(defs)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
	_, err := io.WriteString(w, script)
	return err
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) int {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return ExitSuccess
	}
	if err := GenerateCompletion(env.Stdout, Shell(args[0])); err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return ExitUsage
	}
	return ExitSuccess
}

func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: declpdf completion <bash|zsh|fish>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w, "  Bash:  eval \"$(declpdf completion bash)\"        # in ~/.bashrc")
	fmt.Fprintln(w, "  Zsh:   eval \"$(declpdf completion zsh)\"         # in ~/.zshrc, before compinit")
	fmt.Fprintln(w, "  Fish:  declpdf completion fish > ~/.config/fish/completions/declpdf.fish")
}

func commandNames() string {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.name
	}
	return strings.Join(names, " ")
}

func bashScript(defs []flagDef) string {
	var b strings.Builder
	var opts []string
	for _, d := range defs {
		opts = append(opts, "--"+d.Long)
		if d.Short != "" {
			opts = append(opts, "-"+d.Short)
		}
	}

	b.WriteString("# bash completion for declpdf\n")
	b.WriteString("_declpdf() {\n")
	b.WriteString("    local cur prev\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    case \"$prev\" in\n")
	for _, d := range defs {
		pattern := "--" + d.Long
		if d.Short != "" {
			pattern += "|-" + d.Short
		}
		switch d.Kind {
		case kindEnum:
			fmt.Fprintf(&b, "        %s) COMPREPLY=($(compgen -W %q -- \"$cur\")); return ;;\n", pattern, strings.Join(d.Values, " "))
		case kindDir:
			fmt.Fprintf(&b, "        %s) COMPREPLY=($(compgen -d -- \"$cur\")); return ;;\n", pattern)
		case kindFile:
			fmt.Fprintf(&b, "        %s) COMPREPLY=($(compgen -f -- \"$cur\")); return ;;\n", pattern)
		}
	}
	b.WriteString("    esac\n")
	b.WriteString("    if [[ \"$cur\" == -* ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(opts, " "))
	b.WriteString("    elif [[ $COMP_CWORD -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"$cur\") $(compgen -f -X '!*.@(%s)' -- \"$cur\"))\n",
		commandNames(), strings.Join(inputGlobs, "|"))
	b.WriteString("    else\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -f -X '!*.@(%s)' -- \"$cur\") $(compgen -d -- \"$cur\"))\n", strings.Join(inputGlobs, "|"))
	b.WriteString("    fi\n")
	b.WriteString("}\n")
	b.WriteString("shopt -s extglob\n")
	b.WriteString("complete -o filenames -F _declpdf declpdf\n")
	return b.String()
}

func zshScript(defs []flagDef) string {
	var b strings.Builder
	b.WriteString("#compdef declpdf\n\n")
	b.WriteString("_declpdf() {\n")
	b.WriteString("    _arguments -s \\\n")
	for _, d := range defs {
		desc := zshEscape(d.Desc)
		action := ""
		switch d.Kind {
		case kindBool:
		case kindEnum:
			action = fmt.Sprintf(":%s:(%s)", d.Long, strings.Join(d.Values, " "))
		case kindDir:
			action = fmt.Sprintf(":%s:_files -/", d.Long)
		case kindFile:
			if len(d.Values) > 0 {
				action = fmt.Sprintf(":%s:_files -g \"*.(%s)\"", d.Long, strings.Join(d.Values, "|"))
			} else {
				action = fmt.Sprintf(":%s:_files", d.Long)
			}
		default:
			action = fmt.Sprintf(":%s: ", d.Long)
		}
		if d.Short != "" {
			fmt.Fprintf(&b, "        '(-%s --%s)'{-%s,--%s}'[%s]%s' \\\n", d.Short, d.Long, d.Short, d.Long, desc, action)
		} else {
			fmt.Fprintf(&b, "        '--%s[%s]%s' \\\n", d.Long, desc, action)
		}
	}
	fmt.Fprintf(&b, "        '*:input:_files -g \"*.(%s)\"'\n", strings.Join(inputGlobs, "|"))
	b.WriteString("}\n\n")
	b.WriteString("compdef _declpdf declpdf\n")
	return b.String()
}

func fishScript(defs []flagDef) string {
	var b strings.Builder
	b.WriteString("# fish completion for declpdf\n")
	b.WriteString("complete -c declpdf -f\n")
	for _, c := range commands {
		fmt.Fprintf(&b, "complete -c declpdf -n __fish_use_subcommand -a %s -d %s\n", c.name, fishQuote(c.desc))
	}
	for _, d := range defs {
		line := "complete -c declpdf -l " + d.Long
		if d.Short != "" {
			line += " -s " + d.Short
		}
		switch d.Kind {
		case kindEnum:
			line += " -x -a " + fishQuote(strings.Join(d.Values, " "))
		case kindDir:
			line += " -x -a '(__fish_complete_directories)'"
		case kindFile:
			line += " -r -F"
		case kindString:
			line += " -x"
		}
		b.WriteString(line + " -d " + fishQuote(d.Desc) + "\n")
	}
	fmt.Fprintf(&b, "complete -c declpdf -a '(__fish_complete_suffix .%s)'\n", strings.Join(inputGlobs, " ."))
	return b.String()
}

func zshEscape(s string) string {
	r := strings.NewReplacer("'", `'\''`, "[", `\[`, "]", `\]`, ":", `\:`)
	return r.Replace(s)
}

func fishQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}
