package declpdf

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/alnah/go-declpdf/internal/assets"
	"github.com/alnah/go-declpdf/internal/compose"
	"github.com/alnah/go-declpdf/internal/htmlmeta"
	"github.com/alnah/go-declpdf/internal/layout"
	"github.com/alnah/go-declpdf/internal/logging"
	"github.com/alnah/go-declpdf/internal/markup"
	"github.com/alnah/go-declpdf/internal/pdfdoc"
	"github.com/alnah/go-declpdf/internal/render"
)

// Compile-time interface checks.
var (
	_ render.Browser = (*rodBrowser)(nil)
	_ render.Tab     = (*rodTab)(nil)
	_ io.Closer      = (*rodBrowser)(nil)
)

// producer is written to every PDF unless Metadata.Producer is set.
const producer = "go-declpdf"

// Generator turns templates into PDFs through one headless Chrome.
// Create with NewGenerator, call Generate, and Close when done.
// Generate calls on one Generator run one at a time; use GeneratorPool for
// parallel work.
type Generator struct {
	cfg     generatorConfig
	logger  *slog.Logger
	assets  assets.AssetLoader
	browser render.Browser

	mu       sync.Mutex // serializes Generate
	builders map[string]*markup.Builder
}

// NewGenerator creates a Generator. Chrome starts on the first Generate.
func NewGenerator(opts ...Option) (*Generator, error) {
	g := &Generator{
		cfg:      generatorConfig{timeout: defaultTimeout},
		builders: make(map[string]*markup.Builder),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = logging.OrDefault(g.logger)

	resolver, err := assets.NewAssetResolver(g.cfg.assetPath)
	if err != nil {
		return nil, err
	}
	g.assets = resolver

	if g.browser == nil {
		g.browser = newRodBrowser(g.cfg, g.logger)
	}
	return g, nil
}

// Generate renders input to PDF bytes. Nothing is returned on failure.
// Internal panics are recovered into errors.
func (g *Generator) Generate(ctx context.Context, input Input) (pdf []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			pdf, err = nil, fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := validateInput(input); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.timeout)
		defer cancel()
	}

	start := time.Now()

	source := input.HTML
	if input.Markdown != nil {
		if source, err = g.buildMarkdown(ctx, input); err != nil {
			return nil, err
		}
	}

	page := input.Page.settings()
	width, height, err := page.Resolve()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPage, err)
	}

	source, info, err := htmlmeta.Prepare(source, htmlmeta.Options{
		BaseDir:  input.BaseDir,
		Defaults: htmlmeta.PageDefaults{Width: width, Height: height, PPI: page.EffectivePPI()},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateParse, err)
	}
	if info.DocumentPages == 0 {
		return nil, layout.ErrNoDocumentPages
	}
	if info.DocumentPages > layout.MaxDocumentPageIndex+1 {
		return nil, fmt.Errorf("%w: %d document pages (maximum %d)",
			ErrTemplateParse, info.DocumentPages, layout.MaxDocumentPageIndex+1)
	}

	meta := buildMetadata(input.Metadata, info)
	pdf, err = compose.Generate(ctx, g.browser, source, compose.Options{
		PPI:           page.EffectivePPI(),
		MinBodyFactor: g.cfg.minBodyFactor,
		Metadata:      &meta,
		Logger:        g.logger,
	})
	if err != nil {
		return nil, err
	}

	g.logger.Info("document generated",
		slog.Int("documentPages", info.DocumentPages),
		slog.Int("bytes", len(pdf)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return pdf, nil
}

// Close releases the browser.
func (g *Generator) Close() error {
	if c, ok := g.browser.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// validateInput is the trust boundary for library callers building Input by hand.
func validateInput(input Input) error {
	hasHTML := strings.TrimSpace(input.HTML) != ""
	hasMarkdown := input.Markdown != nil
	switch {
	case hasHTML && hasMarkdown:
		return ErrAmbiguousInput
	case !hasHTML && !hasMarkdown:
		return ErrEmptyInput
	case hasMarkdown && strings.TrimSpace(input.Markdown.Content) == "":
		return ErrEmptyInput
	}
	return input.Page.Validate()
}

// buildMarkdown wraps a Markdown body into its layout.
func (g *Generator) buildMarkdown(ctx context.Context, input Input) (string, error) {
	md := input.Markdown
	b, err := g.builder(md.Layout, md.Style)
	if err != nil {
		return "", err
	}

	var page markup.Page
	if input.Page != nil {
		page = markup.Page{
			Size:        input.Page.Size,
			Orientation: input.Page.Orientation,
			PPI:         input.Page.PPI,
			Width:       input.Page.Width,
			Height:      input.Page.Height,
		}
	}
	page.MarginTop = md.MarginTop
	page.MarginBottom = md.MarginBottom

	return b.Build(ctx, markup.Document{
		Markdown:   md.Content,
		Title:      md.Title,
		Author:     md.Author,
		Lang:       md.Lang,
		CSS:        md.CSS,
		Header:     md.Header,
		Footer:     md.Footer,
		Background: md.Background,
		Page:       page,
	})
}

// builder returns the cached Builder for a layout and style pair.
func (g *Generator) builder(layoutName, styleName string) (*markup.Builder, error) {
	if layoutName == "" {
		layoutName = assets.DefaultLayoutName
	}
	if styleName == "" {
		styleName = assets.DefaultStyleName
	}
	key := layoutName + "\x00" + styleName
	if b, ok := g.builders[key]; ok {
		return b, nil
	}

	l, err := g.assets.LoadLayout(layoutName)
	if err != nil {
		return nil, fmt.Errorf("loading layout %q: %w", layoutName, err)
	}
	css, err := g.assets.LoadStyle(styleName)
	if err != nil {
		return nil, fmt.Errorf("loading style %q: %w", styleName, err)
	}
	b, err := markup.NewBuilder(l, css)
	if err != nil {
		return nil, err
	}
	g.builders[key] = b
	return b, nil
}

// buildMetadata fills unset fields from the template head.
func buildMetadata(m *Metadata, info htmlmeta.Info) pdfdoc.Metadata {
	var out pdfdoc.Metadata
	if m != nil {
		out = pdfdoc.Metadata{
			Title:            m.Title,
			Author:           m.Author,
			Subject:          m.Subject,
			Keywords:         m.Keywords,
			Creator:          m.Creator,
			Producer:         m.Producer,
			CreationDate:     m.CreationDate,
			ModificationDate: m.ModificationDate,
		}
	}
	if out.Title == "" {
		out.Title = info.Title
	}
	if out.Author == "" {
		out.Author = info.Author
	}
	if out.Subject == "" {
		out.Subject = info.Description
	}
	if len(out.Keywords) == 0 {
		out.Keywords = info.Keywords
	}
	if out.Creator == "" {
		out.Creator = info.Generator
	}
	if out.Producer == "" {
		out.Producer = producer
	}
	return out
}
