package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	declpdf "github.com/alnah/go-declpdf"
	"github.com/alnah/go-declpdf/internal/config"
	"github.com/alnah/go-declpdf/internal/logging"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage     = errors.New("invalid usage")
	ErrNoInput   = errors.New("no input specified")
	ErrReadInput = errors.New("failed to read input")
	ErrWritePDF  = errors.New("failed to write PDF file")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---
	filePermissions = 0o644 // rw-r--r--
)

// conversionParams holds what every file of a batch shares.
type conversionParams struct {
	page     *declpdf.PageSettings
	metadata *declpdf.Metadata
	markdown declpdf.Markdown // Content is set per file
}

// runConvert loads settings, discovers inputs and generates every PDF.
func runConvert(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if len(positional) == 0 {
		return ErrNoInput
	}
	if len(positional) > 1 {
		return fmt.Errorf("%w: expected one input, got %d", ErrUsage, len(positional))
	}

	warnUnknownEnvVars(env.Environ(), env.Stderr)

	cfg, err := loadConfig(flags.common.config, env)
	if err != nil {
		return err
	}
	applyEnvConfig(env.Getenv, cfg, env.Stderr)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := validateWorkers(cfg.Workers); err != nil {
		return err
	}

	files, err := discoverFiles(positional[0], cfg.Output.Dir)
	if err != nil {
		return fmt.Errorf("discovering inputs: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no templates or Markdown files in %s", ErrNoInput, positional[0])
	}

	params, err := buildParams(cfg, env.Now())
	if err != nil {
		return err
	}
	opts, err := generatorOptions(cfg, flags.common.verbose, env)
	if err != nil {
		return err
	}

	size := min(declpdf.ResolvePoolSize(cfg.Workers), len(files))
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Pool size: %d\n", size)
	}
	pool := env.NewPool(size, opts...)
	defer func() {
		if err := pool.Close(); err != nil {
			fmt.Fprintf(env.Stderr, "warning: closing browsers: %v\n", err)
		}
	}()

	results := convertBatch(ctx, pool, files, params)
	if failed := printResults(results, flags.common.quiet, flags.common.verbose, env); failed > 0 {
		return &batchError{failed: failed, total: len(results), first: firstError(results)}
	}
	return nil
}

// loadConfig loads the named config, falling back to $DECLPDF_CONFIG.
func loadConfig(name string, env *Environment) (*config.Config, error) {
	if name == "" {
		name = env.Getenv("DECLPDF_CONFIG")
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.LoadConfig(name)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags copies explicitly set flags over config values.
func mergeFlags(f *convertFlags, cfg *config.Config) {
	set := func(name string) bool { return f.set[name] }

	if set("output") {
		cfg.Output.Dir = f.output
	}
	if set("workers") {
		cfg.Workers = f.workers
	}
	if set("timeout") {
		cfg.Browser.Timeout = f.timeout
	}

	if set("paper") {
		cfg.Page.Size = f.page.size
	}
	if set("orientation") {
		cfg.Page.Orientation = f.page.orientation
	}
	if set("ppi") {
		cfg.Page.PPI = f.page.ppi
	}
	if set("width") {
		cfg.Page.Width = f.page.width
	}
	if set("height") {
		cfg.Page.Height = f.page.height
	}
	if set("min-body") {
		cfg.Page.MinBody = f.page.minBody
	}

	m := &cfg.Metadata
	if set("title") {
		m.Title = f.metadata.title
	}
	if set("author") {
		m.Author = f.metadata.author
	}
	if set("subject") {
		m.Subject = f.metadata.subject
	}
	if set("keywords") {
		m.Keywords = f.metadata.keywords
	}
	if set("creator") {
		m.Creator = f.metadata.creator
	}
	if set("creation-date") {
		m.CreationDate = f.metadata.creationDate
	}
	if set("modification-date") {
		m.ModificationDate = f.metadata.modificationDate
	}

	md := &cfg.Markdown
	if set("layout") {
		md.Layout = f.markdown.layout
	}
	if set("style") {
		md.Style = f.markdown.style
	}
	if set("css") {
		md.CSS = f.markdown.css
	}
	if f.markdown.header != nil {
		md.Header = f.markdown.header
	}
	if f.markdown.footer != nil {
		md.Footer = f.markdown.footer
	}
	if f.markdown.background != nil {
		md.Background = f.markdown.background
	}
	if set("margin-top") {
		md.MarginTop = f.markdown.marginTop
	}
	if set("margin-bottom") {
		md.MarginBottom = f.markdown.marginBottom
	}

	if set("browser-bin") {
		cfg.Browser.Bin = f.browser.bin
	}
	if set("no-sandbox") {
		cfg.Browser.NoSandbox = f.browser.noSandbox
	}
	if set("asset-path") {
		cfg.Assets.BasePath = f.browser.assetPath
	}
}

// buildParams converts the validated config into library inputs.
func buildParams(cfg *config.Config, now time.Time) (*conversionParams, error) {
	created, modified, err := cfg.Dates(now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidValue, err)
	}

	params := &conversionParams{
		markdown: declpdf.Markdown{
			Layout:       cfg.Markdown.Layout,
			Style:        cfg.Markdown.Style,
			Header:       cfg.Markdown.Header,
			Footer:       cfg.Markdown.Footer,
			Background:   cfg.Markdown.Background,
			MarginTop:    cfg.Markdown.MarginTop,
			MarginBottom: cfg.Markdown.MarginBottom,
		},
	}

	if cfg.Markdown.CSS != "" {
		css, err := os.ReadFile(cfg.Markdown.CSS) // #nosec G304 -- user-provided stylesheet
		if err != nil {
			return nil, fmt.Errorf("%w: stylesheet: %w", ErrReadInput, err)
		}
		params.markdown.CSS = string(css)
	}

	p := cfg.Page
	if p.Size != "" || p.Orientation != "" || p.PPI != 0 || p.Width != 0 || p.Height != 0 {
		params.page = &declpdf.PageSettings{
			Size:        p.Size,
			Orientation: p.Orientation,
			PPI:         p.PPI,
			Width:       p.Width,
			Height:      p.Height,
		}
	}

	m := cfg.Metadata
	params.metadata = &declpdf.Metadata{
		Title:            m.Title,
		Author:           m.Author,
		Subject:          m.Subject,
		Keywords:         m.Keywords,
		Creator:          m.Creator,
		CreationDate:     created,
		ModificationDate: modified,
	}
	return params, nil
}

// generatorOptions maps the config to Generator options.
func generatorOptions(cfg *config.Config, verbose bool, env *Environment) ([]declpdf.Option, error) {
	var opts []declpdf.Option

	timeout, err := cfg.Timeout()
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		opts = append(opts, declpdf.WithTimeout(timeout))
	}
	if cfg.Page.MinBody > 0 {
		opts = append(opts, declpdf.WithMinBodyFactor(cfg.Page.MinBody))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, declpdf.WithAssetPath(cfg.Assets.BasePath))
	}
	if cfg.Browser.Bin != "" {
		opts = append(opts, declpdf.WithBrowserBin(cfg.Browser.Bin))
	}
	if cfg.Browser.NoSandbox {
		opts = append(opts, declpdf.WithNoSandbox(true))
	}

	logger := logging.Discard()
	if verbose {
		logger = slog.New(slog.NewTextHandler(env.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	opts = append(opts, declpdf.WithLogger(logger))
	return opts, nil
}

// batchError reports failed files; it unwraps to the first failure.
type batchError struct {
	failed int
	total  int
	first  error
}

func (e *batchError) Error() string {
	return fmt.Sprintf("%d of %d file(s) failed", e.failed, e.total)
}

func (e *batchError) Unwrap() error { return e.first }

func firstError(results []ConversionResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}
