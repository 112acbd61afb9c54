package declpdf

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-declpdf/internal/fileutil"
	"github.com/alnah/go-declpdf/internal/layout"
	"github.com/alnah/go-declpdf/internal/render"
)

// cssPixelsPerInch is Chrome's layout resolution.
const cssPixelsPerInch = 96.0

// rodTab is one Chrome page holding one template.
type rodTab struct {
	page    *rod.Page
	timeout time.Duration
	logger  *slog.Logger

	mu      sync.Mutex
	closed  bool
	cleanup func() // removes the template temp file
}

func newRodTab(page *rod.Page, timeout time.Duration, logger *slog.Logger) *rodTab {
	return &rodTab{page: page, timeout: timeout, logger: logger}
}

// ctxPage returns the page bound to ctx, or an error for a closed tab.
func (t *rodTab) ctxPage(ctx context.Context) (*rod.Page, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch {
	case t.closed:
		return nil, render.ErrTabClosed
	case t.page == nil:
		return nil, render.ErrTabNotConnected
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return t.page.Context(ctx), nil
}

// SetContent loads html from a temp file so file:// assets resolve, then
// installs the template scripts.
func (t *rodTab) SetContent(ctx context.Context, html string) error {
	p, err := t.ctxPage(ctx)
	if err != nil {
		return err
	}

	path, cleanup, err := fileutil.WriteTempFile(html, "html")
	if err != nil {
		return err
	}
	t.mu.Lock()
	if t.cleanup != nil {
		t.cleanup()
	}
	t.cleanup = cleanup
	t.mu.Unlock()

	if err := p.Navigate(fileutil.FileURL(path)); err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := p.Timeout(t.timeout).WaitLoad(); err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if _, err := p.Eval(installScript); err != nil {
		return fmt.Errorf("%w: installing: %v", ErrScript, err)
	}
	return nil
}

// SetViewport sizes the layout viewport.
func (t *rodTab) SetViewport(ctx context.Context, width, height float64) error {
	p, err := t.ctxPage(ctx)
	if err != nil {
		return err
	}
	return p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             int(math.Ceil(width)),
		Height:            int(math.Ceil(height)),
		DeviceScaleFactor: 1,
	})
}

// Discover reads every document-page element and normalizes its attributes.
func (t *rodTab) Discover(ctx context.Context) ([]layout.DiscoveryRecord, error) {
	var raw []rawPage
	if err := t.evalJSON(ctx, &raw, discoverScript); err != nil {
		return nil, err
	}
	records := make([]layout.DiscoveryRecord, len(raw))
	for i, r := range raw {
		records[i] = r.record()
	}
	return records, nil
}

// SectionSettings measures the sections of one document page.
func (t *rodTab) SectionSettings(ctx context.Context, documentPageIndex int) (layout.SectionSettings, error) {
	var raw rawSections
	if err := t.evalJSON(ctx, &raw, sectionsScript, documentPageIndex); err != nil {
		return layout.SectionSettings{}, err
	}
	return raw.settings()
}

// isolateArgs is the JSON shape the isolate script expects.
type isolateArgs struct {
	DocumentPageIndex int    `json:"documentPageIndex"`
	Section           string `json:"section"`
	PhysicalPageIndex int    `json:"physicalPageIndex"`
	HasPhysicalPage   bool   `json:"hasPhysicalPage"`
	CurrentPageNumber int    `json:"currentPageNumber"`
	TotalPagesNumber  int    `json:"totalPagesNumber"`
}

// Isolate shows only the requested region and injects its page numbers.
func (t *rodTab) Isolate(ctx context.Context, req render.IsolateRequest) (bool, error) {
	p, err := t.ctxPage(ctx)
	if err != nil {
		return false, err
	}
	res, err := p.Eval(isolateScript, isolateArgs{
		DocumentPageIndex: req.DocumentPageIndex,
		Section:           string(req.Section),
		PhysicalPageIndex: req.PhysicalPageIndex,
		HasPhysicalPage:   req.HasPhysicalPage,
		CurrentPageNumber: req.CurrentPageNumber,
		TotalPagesNumber:  req.TotalPagesNumber,
	})
	if err != nil {
		return false, fmt.Errorf("%w: isolate: %v", ErrScript, err)
	}
	return res.Value.Bool(), nil
}

// ResetVisibility undoes every Isolate.
func (t *rodTab) ResetVisibility(ctx context.Context) error {
	p, err := t.ctxPage(ctx)
	if err != nil {
		return err
	}
	if _, err := p.Eval(resetScript); err != nil {
		return fmt.Errorf("%w: reset: %v", ErrScript, err)
	}
	return nil
}

// Print renders the visible content on paper of Width/PPI x Height/PPI
// inches, scaled so one template px maps to 1/PPI inch.
func (t *rodTab) Print(ctx context.Context, opts render.PrintOptions) ([]byte, error) {
	p, err := t.ctxPage(ctx)
	if err != nil {
		return nil, err
	}

	if opts.TransparentBackground {
		if _, err := p.Eval(transparentScript, true); err != nil {
			return nil, fmt.Errorf("%w: transparent background: %v", ErrScript, err)
		}
		defer func() {
			if _, err := p.Eval(transparentScript, false); err != nil {
				t.logger.Warn("restoring background failed", slog.String("error", err.Error()))
			}
		}()
	}

	reader, err := p.PDF(printParams(opts))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return data, nil
}

// printParams converts px print options to Chrome's inch-based parameters.
func printParams(opts render.PrintOptions) *proto.PagePrintToPDF {
	ppi := opts.PPI
	if ppi <= 0 {
		ppi = DefaultPPI
	}
	inches := func(px float64) *float64 {
		v := px / ppi
		return &v
	}
	scale := cssPixelsPerInch / ppi

	return &proto.PagePrintToPDF{
		PaperWidth:      inches(opts.Width),
		PaperHeight:     inches(opts.Height),
		MarginTop:       inches(opts.MarginTop),
		MarginBottom:    inches(opts.MarginBottom),
		MarginLeft:      inches(0),
		MarginRight:     inches(0),
		Scale:           &scale,
		PrintBackground: true,
	}
}

// Close closes the page and removes the template file. Closing twice
// returns ErrTabClosed.
func (t *rodTab) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return render.ErrTabClosed
	}
	t.closed = true
	if t.cleanup != nil {
		t.cleanup()
		t.cleanup = nil
	}
	if t.page == nil {
		return nil
	}
	return t.page.Close()
}

// evalJSON runs a script returning a plain object and decodes it into v.
func (t *rodTab) evalJSON(ctx context.Context, v any, js string, args ...any) error {
	p, err := t.ctxPage(ctx)
	if err != nil {
		return err
	}
	res, err := p.Eval(js, args...)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrScript, err)
	}
	if res.Value.Nil() {
		return fmt.Errorf("%w: script returned null", ErrTemplateParse)
	}
	if err := res.Value.Unmarshal(v); err != nil {
		return fmt.Errorf("%w: decoding script result: %v", ErrScript, err)
	}
	return nil
}
