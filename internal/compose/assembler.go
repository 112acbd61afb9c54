package compose

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alnah/go-declpdf/internal/layout"
	"github.com/alnah/go-declpdf/internal/pdfdoc"
	"github.com/alnah/go-declpdf/internal/render"
)

// drawOrder lists sections from bottom to top; the body is drawn last.
var drawOrder = []layout.SectionType{
	layout.SectionBackground,
	layout.SectionHeader,
	layout.SectionFooter,
}

// LayoutPage is one output page of a document page with its resolved sections.
type LayoutPage struct {
	PageIndex         int
	CurrentPageNumber int
	TotalPagesNumber  int

	Header     *layout.SectionSetting
	Footer     *layout.SectionSetting
	Background *layout.SectionSetting
}

// Resolved returns the setting chosen for a section type, or nil.
func (p LayoutPage) Resolved(t layout.SectionType) *layout.SectionSetting {
	switch t {
	case layout.SectionHeader:
		return p.Header
	case layout.SectionFooter:
		return p.Footer
	case layout.SectionBackground:
		return p.Background
	}
	return nil
}

// LayoutPages resolves every output page of a document page.
func LayoutPages(page *DocumentPage, offset, total int) []LayoutPage {
	count := page.PageCount()
	pages := make([]LayoutPage, count)
	for i := range pages {
		pages[i] = LayoutPage{
			PageIndex:         i,
			CurrentPageNumber: layout.CurrentPageNumber(i, offset),
			TotalPagesNumber:  total,
			Header:            layout.Resolve(page.Settings.Headers, i, offset, count),
			Footer:            layout.Resolve(page.Settings.Footers, i, offset, count),
			Background:        layout.Resolve(page.Settings.Backgrounds, i, offset, count),
		}
	}
	return pages
}

// AssemblyStats counts the work done for one document page.
type AssemblyStats struct {
	Pages   int // output pages emitted
	Renders int // section prints issued to the browser
	Reuses  int // sections served from the cache
}

// Canvas is the target of assembly. *pdfdoc.Document implements it.
type Canvas interface {
	AddPage(width, height, ppi float64)
	Embed(src *pdfdoc.Source, index int) (*pdfdoc.Embedded, error)
	Draw(e *pdfdoc.Embedded, r pdfdoc.Rect) error
	CopyPages(src *pdfdoc.Source, indices []int) error
}

// Assembler emits the output pages of document pages into a target document.
// Sections print at the ppi of the document page they belong to.
type Assembler struct {
	tab    render.Tab
	logger *slog.Logger
}

// NewAssembler creates an Assembler rendering sections through tab.
func NewAssembler(tab render.Tab, logger *slog.Logger) *Assembler {
	return &Assembler{tab: tab, logger: logger}
}

// Assemble appends every output page of page to doc. offset is the number of
// output pages before this document page and total the page count of the
// whole document. The section cache lives for this call only.
func (a *Assembler) Assemble(ctx context.Context, doc Canvas, page *DocumentPage, offset, total int) (AssemblyStats, error) {
	if !page.HasAnySection() {
		if err := doc.CopyPages(page.Body, pdfdoc.AllPages(page.Body)); err != nil {
			return AssemblyStats{}, fmt.Errorf("copying body pages of document-page %d: %w", page.Index, err)
		}
		return AssemblyStats{Pages: page.PageCount()}, nil
	}

	var stats AssemblyStats
	cache := NewSectionCache()

	for _, lp := range LayoutPages(page, offset, total) {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if err := a.assemblePage(ctx, doc, page, lp, cache, &stats); err != nil {
			return stats, fmt.Errorf("document-page %d, page %d: %w", page.Index, lp.CurrentPageNumber, err)
		}
		stats.Pages++
	}

	return stats, nil
}

func (a *Assembler) assemblePage(ctx context.Context, doc Canvas, page *DocumentPage, lp LayoutPage, cache *SectionCache, stats *AssemblyStats) error {
	// Render before adding the page so a failure leaves no half-built page.
	embeds := make(map[layout.SectionType]*pdfdoc.Embedded, len(drawOrder))
	for _, t := range drawOrder {
		setting := lp.Resolved(t)
		if setting == nil {
			continue
		}
		elem, err := a.section(ctx, page, t, setting, lp, cache, stats)
		if err != nil {
			return err
		}
		em, err := elem.Embedded(doc)
		if err != nil {
			return err
		}
		embeds[t] = em
	}

	body, err := doc.Embed(page.Body, lp.PageIndex)
	if err != nil {
		return fmt.Errorf("embedding body: %w", err)
	}

	doc.AddPage(page.Width, page.Height, page.PPI)

	for _, t := range drawOrder {
		em, ok := embeds[t]
		if !ok {
			continue
		}
		r := page.Layout.Region(t)
		if err := doc.Draw(em, pdfdoc.Rect{Y: r.Y, Width: page.Width, Height: r.Height}); err != nil {
			return fmt.Errorf("drawing %s: %w", t, err)
		}
	}

	b := page.Layout.Body
	if err := doc.Draw(body, pdfdoc.Rect{Y: b.Y, Width: page.Width, Height: b.Height}); err != nil {
		return fmt.Errorf("drawing body: %w", err)
	}
	return nil
}

// section returns the rendered element for a resolved setting, reusing a
// cached rendering when the setting has no current-page number.
func (a *Assembler) section(ctx context.Context, page *DocumentPage, t layout.SectionType, s *layout.SectionSetting, lp LayoutPage, cache *SectionCache, stats *AssemblyStats) (*SectionElement, error) {
	key := KeyFor(page.Index, t, s)
	fill := func() (*SectionElement, error) {
		stats.Renders++
		return a.renderSection(ctx, page, t, s, key, lp)
	}

	if !s.Reusable() {
		return fill()
	}

	elem, reused, err := cache.Get(ctx, key, fill)
	if err != nil {
		return nil, err
	}
	if reused {
		stats.Reuses++
	}
	return elem, nil
}

// renderSection isolates one section variant, injects the page numbers it
// needs, prints it at the layout height and loads the result.
func (a *Assembler) renderSection(ctx context.Context, page *DocumentPage, t layout.SectionType, s *layout.SectionSetting, key CacheKey, lp LayoutPage) (*SectionElement, error) {
	req := render.IsolateRequest{
		DocumentPageIndex: page.Index,
		Section:           t,
		PhysicalPageIndex: s.PhysicalPageIndex,
		HasPhysicalPage:   s.IsVariant(),
	}
	if s.HasCurrentPageNumber {
		req.CurrentPageNumber = lp.CurrentPageNumber
	}
	if s.HasTotalPagesNumber {
		req.TotalPagesNumber = lp.TotalPagesNumber
	}

	found, err := a.tab.Isolate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("isolating %s: %w", key, err)
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrRegionMissing, key)
	}

	r := page.Layout.Region(t)
	data, err := a.tab.Print(ctx, render.PrintOptions{
		Width:                 page.Width,
		Height:                r.Height,
		PPI:                   page.PPI,
		TransparentBackground: r.TransparentBg,
	})
	if err != nil {
		return nil, fmt.Errorf("printing %s: %w", key, err)
	}

	src, err := pdfdoc.Load(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", key, err)
	}
	if n := src.PageCount(); n != 1 {
		a.logger.Warn("section rendered to unexpected page count, using first page",
			slog.String("section", key.String()),
			slog.Int("pages", n),
		)
	}

	return &SectionElement{Key: key, Setting: *s, Source: src}, nil
}
