package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// pageFlags holds the page defaults for document pages without a size.
type pageFlags struct {
	size        string
	orientation string
	ppi         float64
	width       float64
	height      float64
	minBody     float64
}

// metadataFlags holds PDF information dictionary flags.
type metadataFlags struct {
	title            string
	author           string
	subject          string
	keywords         []string
	creator          string
	creationDate     string
	modificationDate string
}

// markdownFlags holds flags applied to Markdown inputs.
// Snippet pointers are nil unless the flag was given.
type markdownFlags struct {
	layout       string
	style        string
	css          string
	header       *string
	footer       *string
	background   *string
	marginTop    float64
	marginBottom float64
}

// browserFlags holds Chrome flags.
type browserFlags struct {
	bin       string
	noSandbox bool
	assetPath string
}

// convertFlags holds every flag of the convert command.
type convertFlags struct {
	common   commonFlags
	output   string
	workers  int
	timeout  string
	page     pageFlags
	metadata metadataFlags
	markdown markdownFlags
	browser  browserFlags

	// set records which flags were given on the command line.
	set map[string]bool
}

func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show timings and debug logs")
}

func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "paper", "p", "", "default paper size (a4, letter, ...)")
	fs.StringVar(&f.orientation, "orientation", "", "portrait or landscape")
	fs.Float64Var(&f.ppi, "ppi", 0, "template px per output inch (default 72)")
	fs.Float64Var(&f.width, "width", 0, "default page width in px")
	fs.Float64Var(&f.height, "height", 0, "default page height in px")
	fs.Float64Var(&f.minBody, "min-body", 0, "minimum body share of the page height (0-1)")
}

func addMetadataFlags(fs *flag.FlagSet, f *metadataFlags) {
	fs.StringVar(&f.title, "title", "", "PDF title (default: <title>)")
	fs.StringVar(&f.author, "author", "", "PDF author")
	fs.StringVar(&f.subject, "subject", "", "PDF subject")
	fs.StringSliceVar(&f.keywords, "keywords", nil, "PDF keywords, comma separated")
	fs.StringVar(&f.creator, "creator", "", "PDF creator")
	fs.StringVar(&f.creationDate, "creation-date", "", "creation date: auto, YYYY-MM-DD or RFC 3339")
	fs.StringVar(&f.modificationDate, "modification-date", "", "modification date")
}

func addMarkdownFlags(fs *flag.FlagSet, f *markdownFlags) {
	fs.StringVar(&f.layout, "layout", "", "Markdown layout name")
	fs.StringVar(&f.style, "style", "", "Markdown style name")
	fs.StringVar(&f.css, "css", "", "extra stylesheet file for Markdown")
	fs.String("header", "", "page-header HTML for Markdown (\"\" removes it)")
	fs.String("footer", "", "page-footer HTML for Markdown (\"\" removes it)")
	fs.String("background", "", "page-background HTML for Markdown (\"\" removes it)")
	fs.Float64Var(&f.marginTop, "margin-top", 0, "body top margin in px")
	fs.Float64Var(&f.marginBottom, "margin-bottom", 0, "body bottom margin in px")
}

func addBrowserFlags(fs *flag.FlagSet, f *browserFlags) {
	fs.StringVar(&f.bin, "browser-bin", "", "Chrome binary (default $ROD_BROWSER_BIN)")
	fs.BoolVar(&f.noSandbox, "no-sandbox", false, "disable the Chrome sandbox")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory of custom styles and layouts")
}

// newConvertFlagSet registers every convert flag on a new FlagSet bound to f.
func newConvertFlagSet(f *convertFlags, usage io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(usage)

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel browsers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "timeout per file (e.g. 30s, 2m)")

	addCommonFlags(fs, &f.common)
	addPageFlags(fs, &f.page)
	addMetadataFlags(fs, &f.metadata)
	addMarkdownFlags(fs, &f.markdown)
	addBrowserFlags(fs, &f.browser)

	fs.Usage = func() { printConvertUsage(usage) }
	return fs
}

// parseConvertFlags parses convert flags and returns the positional args.
func parseConvertFlags(args []string, usage io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{set: make(map[string]bool)}
	fs := newConvertFlagSet(f, usage)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	snippet := func(name string) *string {
		if !f.set[name] {
			return nil
		}
		v, _ := fs.GetString(name)
		return &v
	}
	f.markdown.header = snippet("header")
	f.markdown.footer = snippet("footer")
	f.markdown.background = snippet("background")

	return f, fs.Args(), nil
}
