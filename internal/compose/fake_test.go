package compose

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/alnah/go-declpdf/internal/layout"
	"github.com/alnah/go-declpdf/internal/pdfdoc"
	"github.com/alnah/go-declpdf/internal/pdfdoc/pdftest"
	"github.com/alnah/go-declpdf/internal/render"
)

// ---------------------------------------------------------------------------
// Scripted tab
// ---------------------------------------------------------------------------

// fakePage scripts one document-page element.
type fakePage struct {
	record    layout.DiscoveryRecord
	settings  layout.SectionSettings
	bodyPages int
}

// fakeTab replays a scripted template. Print returns real PDFs built with
// pdftest so the assembler exercises the actual PDF stack.
type fakeTab struct {
	mu sync.Mutex

	pages        []fakePage
	sectionPages int // pages returned for a section print; 0 means 1

	discoverErr error
	printErr    error
	printRaw    []byte // returned verbatim by Print when set
	missingBody bool

	isolated []render.IsolateRequest
	printed  []render.PrintOptions
	resets   int
	closed   bool

	current render.IsolateRequest
}

func (f *fakeTab) SetContent(context.Context, string) error { return nil }

func (f *fakeTab) SetViewport(context.Context, float64, float64) error { return nil }

func (f *fakeTab) Discover(context.Context) ([]layout.DiscoveryRecord, error) {
	if f.discoverErr != nil {
		return nil, f.discoverErr
	}
	records := make([]layout.DiscoveryRecord, len(f.pages))
	for i, p := range f.pages {
		records[i] = p.record
	}
	return records, nil
}

func (f *fakeTab) SectionSettings(_ context.Context, i int) (layout.SectionSettings, error) {
	return f.pages[i].settings, nil
}

func (f *fakeTab) Isolate(_ context.Context, req render.IsolateRequest) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.isolated = append(f.isolated, req)
	f.current = req
	if req.Section == layout.SectionBody && f.missingBody {
		return false, nil
	}
	return true, nil
}

func (f *fakeTab) ResetVisibility(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets++
	return nil
}

func (f *fakeTab) Print(_ context.Context, opts render.PrintOptions) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.printErr != nil {
		return nil, f.printErr
	}
	f.printed = append(f.printed, opts)
	if f.printRaw != nil {
		return f.printRaw, nil
	}

	n := 1
	label := string(f.current.Section)
	switch {
	case f.current.Section == layout.SectionBody:
		n = f.pages[f.current.DocumentPageIndex].bodyPages
	case f.sectionPages > 0:
		n = f.sectionPages
	}
	if f.current.CurrentPageNumber > 0 {
		label = fmt.Sprintf("%s %d", label, f.current.CurrentPageNumber)
	}
	// Chrome prints w/ppi x h/ppi inches.
	scale := 72 / opts.PPI
	return pdftest.Pages(n, opts.Width*scale, opts.Height*scale, label)
}

func (f *fakeTab) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return render.ErrTabClosed
	}
	f.closed = true
	return nil
}

// sectionIsolations returns the section isolate requests of type t.
func (f *fakeTab) sectionIsolations(t layout.SectionType) []render.IsolateRequest {
	var out []render.IsolateRequest
	for _, req := range f.isolated {
		if req.Section == t {
			out = append(out, req)
		}
	}
	return out
}

type fakeBrowser struct {
	tab    *fakeTab
	tabErr error
}

func (b *fakeBrowser) NewTab(context.Context) (render.Tab, error) {
	if b.tabErr != nil {
		return nil, b.tabErr
	}
	return b.tab, nil
}

var errScripted = errors.New("scripted failure")

// ---------------------------------------------------------------------------
// Fixture builders
// ---------------------------------------------------------------------------

func pageRecord(index int, w, h float64, sections bool) layout.DiscoveryRecord {
	return layout.DiscoveryRecord{Index: &index, Width: &w, Height: &h, HasSections: sections}
}

func plainPage(index, bodyPages int) fakePage {
	return fakePage{record: pageRecord(index, 300, 400, false), bodyPages: bodyPages}
}

func sectionPage(index, bodyPages int, settings layout.SectionSettings) fakePage {
	return fakePage{record: pageRecord(index, 300, 400, true), settings: settings, bodyPages: bodyPages}
}

func withPPI(p fakePage, ppi float64) fakePage {
	p.record.PPI = &ppi
	return p
}

// ---------------------------------------------------------------------------
// Recording canvas
// ---------------------------------------------------------------------------

// recordingCanvas forwards to a real document and logs page and draw events.
// Embedded fragments are labeled by the text pdftest wrote into them.
type recordingCanvas struct {
	doc    *pdfdoc.Document
	labels map[*pdfdoc.Embedded]string
	events []string
}

func newRecordingCanvas() *recordingCanvas {
	return &recordingCanvas{doc: pdfdoc.New(0), labels: make(map[*pdfdoc.Embedded]string)}
}

func (c *recordingCanvas) AddPage(width, height, ppi float64) {
	c.doc.AddPage(width, height, ppi)
	c.events = append(c.events, "page")
}

func (c *recordingCanvas) Embed(src *pdfdoc.Source, index int) (*pdfdoc.Embedded, error) {
	e, err := c.doc.Embed(src, index)
	if err != nil {
		return nil, err
	}
	c.labels[e] = fmt.Sprintf("%s %d", fragmentLabel(src), index)
	return e, nil
}

func (c *recordingCanvas) Draw(e *pdfdoc.Embedded, r pdfdoc.Rect) error {
	c.events = append(c.events, "draw "+c.labels[e])
	return c.doc.Draw(e, r)
}

func (c *recordingCanvas) CopyPages(src *pdfdoc.Source, indices []int) error {
	for _, i := range indices {
		c.events = append(c.events, fmt.Sprintf("copy %s %d", fragmentLabel(src), i))
	}
	return c.doc.CopyPages(src, indices)
}

func fragmentLabel(src *pdfdoc.Source) string {
	for _, t := range []layout.SectionType{layout.SectionBackground, layout.SectionHeader, layout.SectionFooter, layout.SectionBody} {
		if bytes.Contains(src.Bytes(), []byte("("+string(t)+" ")) {
			return string(t)
		}
	}
	return "unknown"
}
