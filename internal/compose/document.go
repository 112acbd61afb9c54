package compose

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alnah/go-declpdf/internal/layout"
	"github.com/alnah/go-declpdf/internal/pdfdoc"
	"github.com/alnah/go-declpdf/internal/render"
)

// ErrRegionMissing indicates the browser could not find a region the engine asked for.
var ErrRegionMissing = errors.New("template region not found")

// DocumentPage is one document-page element with its measured sections,
// layout and rendered body. PPI is always set once the page is prepared. Pages live in an arena indexed by DOM order;
// page-count offsets are passed in explicitly once finalized.
type DocumentPage struct {
	layout.PageSpec

	Settings layout.SectionSettings
	Layout   *layout.Layout
	Body     *pdfdoc.Source
}

// PageCount returns the number of output pages produced by the body.
func (p *DocumentPage) PageCount() int {
	if p.Body == nil {
		return 0
	}
	return p.Body.PageCount()
}

// HasAnySection reports whether assembly needs the section path.
func (p *DocumentPage) HasAnySection() bool {
	return p.Layout != nil && p.Layout.HasAnySection
}

// prepareDocumentPage runs the layout and body phase for one document page:
// viewport, section settings, layout, then the isolated body print.
func prepareDocumentPage(ctx context.Context, tab render.Tab, spec layout.PageSpec, opts Options, logger *slog.Logger) (*DocumentPage, error) {
	page := &DocumentPage{PageSpec: spec}
	if page.PPI <= 0 {
		page.PPI = opts.ppi()
	}

	if err := tab.SetViewport(ctx, spec.Width, spec.Height); err != nil {
		return nil, fmt.Errorf("setting viewport: %w", err)
	}

	if spec.HasSections {
		settings, err := tab.SectionSettings(ctx, spec.Index)
		if err != nil {
			return nil, fmt.Errorf("reading section settings: %w", err)
		}
		if err := settings.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", layout.ErrTemplateParse, err)
		}
		page.Settings = settings
	}

	l, err := layout.Calculate(page.Settings, spec.Width, spec.Height, opts.MinBodyFactor)
	if err != nil {
		return nil, err
	}
	page.Layout = l

	found, err := tab.Isolate(ctx, render.IsolateRequest{DocumentPageIndex: spec.Index, Section: layout.SectionBody})
	if err != nil {
		return nil, fmt.Errorf("isolating body: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("%w: document-page %d has no %s", ErrRegionMissing, spec.Index, layout.SectionBody.Element())
	}

	data, err := tab.Print(ctx, render.PrintOptions{
		Width:        spec.Width,
		Height:       l.Body.Height,
		MarginTop:    spec.BodyMarginTop,
		MarginBottom: spec.BodyMarginBottom,
		PPI:          page.PPI,
	})
	if err != nil {
		return nil, fmt.Errorf("printing body: %w", err)
	}

	body, err := pdfdoc.Load(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("loading body: %w", err)
	}
	page.Body = body

	if !l.HasAnySection {
		if err := tab.ResetVisibility(ctx); err != nil {
			return nil, fmt.Errorf("resetting visibility: %w", err)
		}
	}

	logger.Debug("document page prepared",
		slog.Int("index", spec.Index),
		slog.Float64("width", spec.Width),
		slog.Float64("height", spec.Height),
		slog.Float64("ppi", page.PPI),
		slog.Float64("bodyHeight", l.Body.Height),
		slog.Int("pages", body.PageCount()),
		slog.Bool("sections", l.HasAnySection),
	)

	return page, nil
}
