package declpdf

import (
	"context"
	"errors"
	"sync"

	"github.com/alnah/go-declpdf/internal/layout"
	"github.com/alnah/go-declpdf/internal/pdfdoc/pdftest"
	"github.com/alnah/go-declpdf/internal/render"
)

// ---------------------------------------------------------------------------
// Scripted browser
// ---------------------------------------------------------------------------

// stubBrowser hands out stubTabs that report one section-less document page
// per document-page element and print bodyPages pages each.
type stubBrowser struct {
	mu sync.Mutex

	bodyPages int
	panicOn   bool // Discover panics
	closeErr  error

	contents []string
	tabs     int
	closed   int
}

func (b *stubBrowser) NewTab(context.Context) (render.Tab, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tabs++
	return &stubTab{browser: b}, nil
}

func (b *stubBrowser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed++
	return b.closeErr
}

func (b *stubBrowser) lastContent() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.contents) == 0 {
		return ""
	}
	return b.contents[len(b.contents)-1]
}

type stubTab struct {
	browser *stubBrowser
	closed  bool
}

func (t *stubTab) SetContent(_ context.Context, html string) error {
	t.browser.mu.Lock()
	defer t.browser.mu.Unlock()
	t.browser.contents = append(t.browser.contents, html)
	return nil
}

func (t *stubTab) SetViewport(context.Context, float64, float64) error { return nil }

func (t *stubTab) Discover(context.Context) ([]layout.DiscoveryRecord, error) {
	if t.browser.panicOn {
		panic("discover exploded")
	}
	w, h := 300.0, 400.0
	return []layout.DiscoveryRecord{{Index: ptr(0), Width: &w, Height: &h}}, nil
}

func (t *stubTab) SectionSettings(context.Context, int) (layout.SectionSettings, error) {
	return layout.SectionSettings{}, nil
}

func (t *stubTab) Isolate(context.Context, render.IsolateRequest) (bool, error) { return true, nil }

func (t *stubTab) ResetVisibility(context.Context) error { return nil }

func (t *stubTab) Print(_ context.Context, opts render.PrintOptions) ([]byte, error) {
	n := t.browser.bodyPages
	if n == 0 {
		n = 1
	}
	scale := 72 / opts.PPI
	return pdftest.Pages(n, opts.Width*scale, opts.Height*scale, "body")
}

func (t *stubTab) Close() error {
	if t.closed {
		return errors.New("closed twice")
	}
	t.closed = true
	return nil
}
