package main

// Notes:
// - convertBatch/convertFile run against the fake pool; PDFs are written
//   into t.TempDir().
// - printResults output is asserted on captured writers.

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	declpdf "github.com/alnah/go-declpdf"
	"github.com/alnah/go-declpdf/internal/assets"
	"github.com/alnah/go-declpdf/internal/config"
	"github.com/alnah/go-declpdf/internal/fileutil"
)

func writeInput(t *testing.T, dir, name, content string) FileToConvert {
	t.Helper()
	in := filepath.Join(dir, name)
	if err := os.WriteFile(in, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return FileToConvert{
		InputPath:  in,
		OutputPath: fileutil.PDFPath(in, filepath.Join(dir, "out")),
		Kind:       fileutil.Kind(in),
	}
}

// ---------------------------------------------------------------------------
// TestConvertFile
// ---------------------------------------------------------------------------

func TestConvertFile_HTML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	f := writeInput(t, dir, "doc.html", "<document-page></document-page>")
	gen := &fakeGenerator{pdf: []byte("%PDF")}
	params := &conversionParams{metadata: &declpdf.Metadata{Title: "T"}}

	r := convertFile(context.Background(), gen, f, params)
	if r.Err != nil {
		t.Fatalf("unexpected error: %v", r.Err)
	}

	data, err := os.ReadFile(f.OutputPath)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if string(data) != "%PDF" {
		t.Errorf("output = %q", data)
	}

	calls := gen.calls()
	if len(calls) != 1 {
		t.Fatalf("got %d calls, want 1", len(calls))
	}
	in := calls[0]
	if in.HTML == "" || in.Markdown != nil {
		t.Errorf("input = %+v, want HTML only", in)
	}
	if in.BaseDir != dir {
		t.Errorf("BaseDir = %q, want %q", in.BaseDir, dir)
	}
	if in.Metadata == nil || in.Metadata.Title != "T" {
		t.Errorf("Metadata = %+v", in.Metadata)
	}
}

func TestConvertFile_Markdown(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	f := writeInput(t, dir, "notes.md", "# Notes")
	gen := &fakeGenerator{pdf: []byte("%PDF")}
	params := &conversionParams{markdown: declpdf.Markdown{Layout: "plain", MarginTop: 20}}

	if r := convertFile(context.Background(), gen, f, params); r.Err != nil {
		t.Fatalf("unexpected error: %v", r.Err)
	}

	in := gen.calls()[0]
	if in.Markdown == nil {
		t.Fatal("Markdown = nil")
	}
	if in.Markdown.Content != "# Notes" || in.Markdown.Layout != "plain" || in.Markdown.MarginTop != 20 {
		t.Errorf("Markdown = %+v", in.Markdown)
	}
	if params.markdown.Content != "" {
		t.Error("shared params were modified")
	}
}

func TestConvertFile_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := writeInput(t, dir, "ok.html", "<p>")
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	tests := []struct {
		name string
		file FileToConvert
		gen  *fakeGenerator
		want error
	}{
		{
			name: "missing input",
			file: FileToConvert{InputPath: filepath.Join(dir, "nope.html"), OutputPath: filepath.Join(dir, "nope.pdf")},
			gen:  &fakeGenerator{},
			want: ErrReadInput,
		},
		{
			name: "generator error",
			file: good,
			gen:  &fakeGenerator{err: errGenerate},
			want: errGenerate,
		},
		{
			name: "unwritable output",
			file: FileToConvert{InputPath: good.InputPath, OutputPath: filepath.Join(blocker, "x.pdf")},
			gen:  &fakeGenerator{pdf: []byte("%PDF")},
			want: ErrWritePDF,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := convertFile(context.Background(), tt.gen, tt.file, &conversionParams{})
			if r.Err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(r.Err, tt.want) {
				t.Errorf("error = %v, want %v", r.Err, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestConvertBatch
// ---------------------------------------------------------------------------

func TestConvertBatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var files []FileToConvert
	for i := range 5 {
		files = append(files, writeInput(t, dir, fmt.Sprintf("f%d.html", i), "<p>"))
	}
	pool := &fakePool{gen: &fakeGenerator{pdf: []byte("%PDF")}, size: 3}

	results := convertBatch(context.Background(), pool, files, &conversionParams{})
	if len(results) != len(files) {
		t.Fatalf("got %d results, want %d", len(results), len(files))
	}
	for i, r := range results {
		if r.Err != nil {
			t.Errorf("result %d: %v", i, r.Err)
		}
		if r.InputPath != files[i].InputPath {
			t.Errorf("result %d out of order: %q", i, r.InputPath)
		}
	}
	if pool.acquired != 3 || pool.released != 3 {
		t.Errorf("acquired/released = %d/%d, want 3/3", pool.acquired, pool.released)
	}
}

func TestConvertBatch_AcquireError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files := []FileToConvert{writeInput(t, dir, "a.html", "<p>"), writeInput(t, dir, "b.html", "<p>")}
	pool := &fakePool{gen: &fakeGenerator{}, size: 2, acquireErr: declpdf.ErrBrowserConnect}

	for _, r := range convertBatch(context.Background(), pool, files, &conversionParams{}) {
		if !errors.Is(r.Err, declpdf.ErrBrowserConnect) {
			t.Errorf("%s: error = %v, want ErrBrowserConnect", r.InputPath, r.Err)
		}
	}
}

func TestConvertBatch_Canceled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files := []FileToConvert{writeInput(t, dir, "a.html", "<p>")}
	pool := &fakePool{gen: &fakeGenerator{pdf: []byte("%PDF")}, size: 1}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := convertBatch(ctx, pool, files, &conversionParams{})
	if !errors.Is(results[0].Err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", results[0].Err)
	}
	if n := len(pool.gen.calls()); n != 0 {
		t.Errorf("generator called %d times after cancel", n)
	}
}

func TestConvertBatch_Empty(t *testing.T) {
	t.Parallel()

	if got := convertBatch(context.Background(), &fakePool{size: 1}, nil, &conversionParams{}); got != nil {
		t.Errorf("results = %v, want nil", got)
	}
}

// ---------------------------------------------------------------------------
// TestPrintResults
// ---------------------------------------------------------------------------

func TestPrintResults(t *testing.T) {
	t.Parallel()

	results := []ConversionResult{
		{InputPath: "a.html", OutputPath: "a.pdf"},
		{InputPath: "b.html", Err: fmt.Errorf("layout: %w", declpdf.ErrBodyTooSmall)},
	}

	tests := []struct {
		name       string
		quiet      bool
		verbose    bool
		wantStdout []string
		noStdout   bool
	}{
		{"normal", false, false, []string{"Created a.pdf", "1 succeeded, 1 failed"}, false},
		{"verbose", false, true, []string{"a.html -> a.pdf"}, false},
		{"quiet", true, false, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, _, stdout, stderr := testEnv(t, nil)
			failed := printResults(results, tt.quiet, tt.verbose, env)
			if failed != 1 {
				t.Errorf("failed = %d, want 1", failed)
			}
			for _, s := range tt.wantStdout {
				if !strings.Contains(stdout.String(), s) {
					t.Errorf("stdout = %q, want %q", stdout.String(), s)
				}
			}
			if tt.noStdout && stdout.Len() != 0 {
				t.Errorf("stdout = %q, want empty", stdout.String())
			}
			if !strings.Contains(stderr.String(), "FAILED b.html") || !strings.Contains(stderr.String(), "--min-body") {
				t.Errorf("stderr = %q, want failure with hint", stderr.String())
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestHintFor
// ---------------------------------------------------------------------------

func TestHintFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"unknown", errors.New("x"), ""},
		{"config not found", &config.NotFoundError{Name: "work"}, "--config"},
		{"timeout", fmt.Errorf("gen: %w", context.DeadlineExceeded), "--timeout"},
		{"write", ErrWritePDF, "writable"},
		{"style", assets.ErrStyleNotFound, "default"},
		{"layout", assets.ErrLayoutNotFound, "plain"},
		{"no pages", declpdf.ErrNoDocumentPages, "<document-page>"},
		{"mixed", declpdf.ErrMixedVariants, "physical-page"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := hintFor(tt.err)
			if tt.want == "" {
				if got != "" {
					t.Errorf("hintFor() = %q, want empty", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("hintFor() = %q, want substring %q", got, tt.want)
			}
		})
	}
}
