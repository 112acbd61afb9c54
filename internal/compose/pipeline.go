package compose

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alnah/go-declpdf/internal/layout"
	"github.com/alnah/go-declpdf/internal/logging"
	"github.com/alnah/go-declpdf/internal/pdfdoc"
	"github.com/alnah/go-declpdf/internal/render"
)

// ErrPageCountMismatch indicates the assembled document lost or gained pages.
var ErrPageCountMismatch = errors.New("assembled page count does not match rendered bodies")

// Options configures one generation run.
type Options struct {
	// PPI maps template px to physical size for document pages without
	// their own ppi; <= 0 selects pdfdoc.DefaultPPI.
	PPI float64

	// MinBodyFactor is the minimum body share of the page height;
	// <= 0 selects layout.DefaultMinBodyFactor.
	MinBodyFactor float64

	// Metadata is applied to the output when non-nil.
	Metadata *pdfdoc.Metadata

	Logger *slog.Logger
}

func (o Options) ppi() float64 {
	if o.PPI <= 0 {
		return pdfdoc.DefaultPPI
	}
	return o.PPI
}

// Generate runs the whole pipeline for one template on a fresh tab of b.
// The tab is closed on every exit path; no partial PDF is returned.
func Generate(ctx context.Context, b render.Browser, html string, opts Options) (pdf []byte, err error) {
	tab, err := b.NewTab(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := tab.Close(); cerr != nil && err == nil {
			pdf, err = nil, fmt.Errorf("closing tab: %w", cerr)
		}
	}()

	return Run(ctx, tab, html, opts)
}

// Run executes discovery, per-page layout and body rendering, offset
// finalization and assembly on tab. Each call builds its own state.
func Run(ctx context.Context, tab render.Tab, html string, opts Options) ([]byte, error) {
	logger := logging.OrDefault(opts.Logger)

	if err := tab.SetContent(ctx, html); err != nil {
		return nil, fmt.Errorf("loading template: %w", err)
	}

	records, err := tab.Discover(ctx)
	if err != nil {
		return nil, fmt.Errorf("discovering document pages: %w", err)
	}
	specs, err := layout.ValidateDiscovery(records)
	if err != nil {
		return nil, err
	}
	logger.Debug("document pages discovered", slog.Int("count", len(specs)))

	pages := make([]*DocumentPage, 0, len(specs))
	counts := make([]int, 0, len(specs))
	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := prepareDocumentPage(ctx, tab, spec, opts, logger)
		if err != nil {
			return nil, fmt.Errorf("document-page %d: %w", spec.Index, err)
		}
		pages = append(pages, page)
		counts = append(counts, page.PageCount())
	}

	// Every body is rendered: offsets and the total page count are final.
	offsets := layout.FinalizeOffsets(counts)

	doc := pdfdoc.New(opts.ppi())
	asm := NewAssembler(tab, logger)

	for i, page := range pages {
		if page.HasAnySection() {
			if err := tab.SetViewport(ctx, page.Width, page.Height); err != nil {
				return nil, fmt.Errorf("document-page %d: setting viewport: %w", page.Index, err)
			}
		}

		stats, err := asm.Assemble(ctx, doc, page, offsets.Offset(i), offsets.Total())
		if err != nil {
			return nil, err
		}
		logger.Debug("document page assembled",
			slog.Int("index", page.Index),
			slog.Int("pages", stats.Pages),
			slog.Int("renders", stats.Renders),
			slog.Int("reuses", stats.Reuses),
		)
	}

	if got := doc.PageCount(); got != offsets.Total() {
		return nil, fmt.Errorf("%w: emitted %d, expected %d", ErrPageCountMismatch, got, offsets.Total())
	}

	if opts.Metadata != nil {
		doc.SetMetadata(*opts.Metadata)
	}

	out, err := doc.Save()
	if err != nil {
		return nil, err
	}
	logger.Debug("document saved", slog.Int("pages", offsets.Total()), slog.Int("bytes", len(out)))
	return out, nil
}
