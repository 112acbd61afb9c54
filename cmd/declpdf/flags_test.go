package main

// Notes:
// - parseConvertFlags: short and long names, set tracking, snippet pointers.
// - mergeFlags: only flags given on the command line override config values.

import (
	"errors"
	"io"
	"slices"
	"testing"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-declpdf/internal/config"
)

// ---------------------------------------------------------------------------
// TestParseConvertFlags
// ---------------------------------------------------------------------------

func TestParseConvertFlags(t *testing.T) {
	t.Parallel()

	f, args, err := parseConvertFlags([]string{
		"report.html",
		"-o", "out/", "-w", "3", "-t", "1m", "-v",
		"-p", "letter", "--orientation", "landscape", "--ppi", "96", "--min-body", "0.5",
		"--title", "Q3", "--keywords", "a,b",
		"--footer", "", "--header", "<b>h</b>",
		"--no-sandbox",
	}, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !slices.Equal(args, []string{"report.html"}) {
		t.Errorf("args = %v", args)
	}
	if f.output != "out/" || f.workers != 3 || f.timeout != "1m" || !f.common.verbose {
		t.Errorf("io flags = %+v", f)
	}
	if f.page.size != "letter" || f.page.orientation != "landscape" || f.page.ppi != 96 || f.page.minBody != 0.5 {
		t.Errorf("page flags = %+v", f.page)
	}
	if f.metadata.title != "Q3" || !slices.Equal(f.metadata.keywords, []string{"a", "b"}) {
		t.Errorf("metadata flags = %+v", f.metadata)
	}
	if f.markdown.footer == nil || *f.markdown.footer != "" {
		t.Errorf("footer = %v, want pointer to empty string", f.markdown.footer)
	}
	if f.markdown.header == nil || *f.markdown.header != "<b>h</b>" {
		t.Errorf("header = %v", f.markdown.header)
	}
	if f.markdown.background != nil {
		t.Errorf("background = %q, want nil", *f.markdown.background)
	}
	if !f.browser.noSandbox {
		t.Error("noSandbox = false")
	}
	if !f.set["paper"] || f.set["author"] {
		t.Errorf("set = %v", f.set)
	}
}

func TestParseConvertFlags_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		help bool
	}{
		{"unknown flag", []string{"--nope"}, false},
		{"bad int", []string{"-w", "many"}, false},
		{"bad float", []string{"--ppi", "high"}, false},
		{"help", []string{"--help"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := parseConvertFlags(tt.args, io.Discard)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if got := errors.Is(err, flag.ErrHelp); got != tt.help {
				t.Errorf("errors.Is(err, ErrHelp) = %v, want %v", got, tt.help)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestMergeFlags
// ---------------------------------------------------------------------------

func TestMergeFlags(t *testing.T) {
	t.Parallel()

	header := "config header"
	cfg := &config.Config{
		Output:   config.OutputConfig{Dir: "from-config"},
		Page:     config.PageConfig{Size: "a4", PPI: 72},
		Metadata: config.MetadataConfig{Author: "Config Author", Title: "Config Title"},
		Markdown: config.MarkdownConfig{Header: &header, Layout: "plain"},
		Workers:  4,
	}

	f, _, err := parseConvertFlags([]string{
		"-p", "letter", "--title", "Flag Title", "--header", "", "--asset-path", "/assets",
	}, io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mergeFlags(f, cfg)

	if cfg.Page.Size != "letter" {
		t.Errorf("Page.Size = %q, want letter", cfg.Page.Size)
	}
	if cfg.Page.PPI != 72 {
		t.Errorf("Page.PPI = %g, want config value kept", cfg.Page.PPI)
	}
	if cfg.Metadata.Title != "Flag Title" || cfg.Metadata.Author != "Config Author" {
		t.Errorf("Metadata = %+v", cfg.Metadata)
	}
	if cfg.Markdown.Header == nil || *cfg.Markdown.Header != "" {
		t.Errorf("Header = %v, want removed", cfg.Markdown.Header)
	}
	if cfg.Markdown.Layout != "plain" {
		t.Errorf("Layout = %q, want config value kept", cfg.Markdown.Layout)
	}
	if cfg.Output.Dir != "from-config" || cfg.Workers != 4 {
		t.Errorf("Output/Workers changed: %q/%d", cfg.Output.Dir, cfg.Workers)
	}
	if cfg.Assets.BasePath != "/assets" {
		t.Errorf("Assets.BasePath = %q", cfg.Assets.BasePath)
	}
}
