package main

import (
	"fmt"
	"io"
	"strings"

	declpdf "github.com/alnah/go-declpdf"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: declpdf [convert] <input> [flags]")
	fmt.Fprintln(w, "       declpdf <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Generate PDFs from HTML templates or Markdown (default)")
	fmt.Fprintln(w, "  doctor     Check Chrome and the environment")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  completion Generate a shell completion script")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'declpdf help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: declpdf convert <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate a PDF for every .html, .htm, .md and .markdown input.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Template or Markdown file, or a directory scanned recursively")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>          Output PDF (single input) or directory")
	fmt.Fprintln(w, "  -c, --config <name>          Config file name or path")
	fmt.Fprintf(w, "  -w, --workers <n>            Parallel browsers (0 = auto, max %d)\n", declpdf.MaxPoolSize)
	fmt.Fprintln(w, "  -t, --timeout <d>            Timeout per file (default 30s)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page defaults (document-page elements without a size):")
	fmt.Fprintf(w, "  -p, --paper <s>              %s\n", strings.Join(declpdf.PageSizes(), ", "))
	fmt.Fprintln(w, "      --orientation <s>        portrait, landscape")
	fmt.Fprintln(w, "      --ppi <f>                Template px per output inch (default 72)")
	fmt.Fprintln(w, "      --width <px>             Page width, wins over --paper")
	fmt.Fprintln(w, "      --height <px>            Page height, wins over --paper")
	fmt.Fprintln(w, "      --min-body <f>           Minimum body share of the page (default 0.33)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Metadata (defaults from the template <head>):")
	fmt.Fprintln(w, "      --title <s>              Title")
	fmt.Fprintln(w, "      --author <s>             Author")
	fmt.Fprintln(w, "      --subject <s>            Subject")
	fmt.Fprintln(w, "      --keywords <a,b>         Keywords")
	fmt.Fprintln(w, "      --creator <s>            Creator")
	fmt.Fprintln(w, "      --creation-date <d>      auto, YYYY-MM-DD or RFC 3339")
	fmt.Fprintln(w, "      --modification-date <d>  auto, YYYY-MM-DD or RFC 3339")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Markdown:")
	fmt.Fprintln(w, "      --layout <name>          Layout (default, plain or custom)")
	fmt.Fprintln(w, "      --style <name>           Stylesheet (default, plain or custom)")
	fmt.Fprintln(w, "      --css <path>             Extra stylesheet file")
	fmt.Fprintln(w, "      --header <html>          Replace the page header (\"\" removes it)")
	fmt.Fprintln(w, "      --footer <html>          Replace the page footer (\"\" removes it)")
	fmt.Fprintln(w, "      --background <html>      Replace the page background")
	fmt.Fprintln(w, "      --margin-top <px>        Body top margin")
	fmt.Fprintln(w, "      --margin-bottom <px>     Body bottom margin")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Browser:")
	fmt.Fprintln(w, "      --browser-bin <path>     Chrome binary (default $ROD_BROWSER_BIN)")
	fmt.Fprintln(w, "      --no-sandbox             Disable the Chrome sandbox")
	fmt.Fprintln(w, "      --asset-path <dir>       Custom styles/ and layouts/")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet                  Only show errors")
	fmt.Fprintln(w, "  -v, --verbose                Show timings and debug logs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	for _, name := range envVarNames() {
		fmt.Fprintf(w, "  %s\n", name)
	}
}

// runHelp prints help for a command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: declpdf doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check Chrome, sandbox settings and the temp directory.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: declpdf version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "completion":
		printCompletionUsage(env.Stdout)
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: declpdf help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
