package compose

// Notes:
// - Drives Generate against a scripted tab that prints real PDF fixtures
// - Asserts on isolate requests to observe cache reuse and page numbering
// - Output PDFs are reloaded with pdfdoc to check the emitted page count

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/alnah/go-declpdf/internal/layout"
	"github.com/alnah/go-declpdf/internal/logging"
	"github.com/alnah/go-declpdf/internal/pdfdoc"
	"github.com/alnah/go-declpdf/internal/render"
)

func generate(t *testing.T, tab *fakeTab, opts Options) []byte {
	t.Helper()
	out, err := Generate(context.Background(), &fakeBrowser{tab: tab}, "<html></html>", opts)
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}
	return out
}

func outputPages(t *testing.T, data []byte) int {
	t.Helper()
	src, err := pdfdoc.Load(context.Background(), data)
	if err != nil {
		t.Fatalf("loading output: %v", err)
	}
	return src.PageCount()
}

func currentNumbers(reqs []render.IsolateRequest) []int {
	out := make([]int, len(reqs))
	for i, r := range reqs {
		out[i] = r.CurrentPageNumber
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------------
// TestGenerate - Fast Path
// ---------------------------------------------------------------------------

func TestGenerate_FastPath(t *testing.T) {
	t.Parallel()

	tab := &fakeTab{pages: []fakePage{plainPage(0, 3)}}
	out := generate(t, tab, Options{})

	if got := outputPages(t, out); got != 3 {
		t.Errorf("output pages = %d, want 3", got)
	}
	if len(tab.isolated) != 1 || tab.isolated[0].Section != layout.SectionBody {
		t.Errorf("isolated = %+v, want a single body isolation", tab.isolated)
	}
	if tab.resets != 1 {
		t.Errorf("visibility resets = %d, want 1", tab.resets)
	}
	if !tab.closed {
		t.Error("tab was not closed")
	}
}

// ---------------------------------------------------------------------------
// TestGenerate - Section Reuse
// ---------------------------------------------------------------------------

func TestGenerate_StaticHeaderRenderedOnce(t *testing.T) {
	t.Parallel()

	tab := &fakeTab{pages: []fakePage{
		sectionPage(0, 4, layout.SectionSettings{Headers: []layout.SectionSetting{{Height: 40}}}),
	}}
	out := generate(t, tab, Options{})

	if got := outputPages(t, out); got != 4 {
		t.Errorf("output pages = %d, want 4", got)
	}
	if got := len(tab.sectionIsolations(layout.SectionHeader)); got != 1 {
		t.Errorf("header renders = %d, want 1", got)
	}
}

func TestGenerate_CurrentPageFooterRenderedPerPage(t *testing.T) {
	t.Parallel()

	tab := &fakeTab{pages: []fakePage{
		sectionPage(0, 3, layout.SectionSettings{
			Footers: []layout.SectionSetting{{Height: 30, HasCurrentPageNumber: true}},
		}),
	}}
	generate(t, tab, Options{})

	footers := tab.sectionIsolations(layout.SectionFooter)
	if got, want := currentNumbers(footers), []int{1, 2, 3}; !equalInts(got, want) {
		t.Errorf("footer page numbers = %v, want %v", got, want)
	}
}

func TestGenerate_TotalPagesOnlyIsReused(t *testing.T) {
	t.Parallel()

	tab := &fakeTab{pages: []fakePage{
		sectionPage(0, 3, layout.SectionSettings{
			Footers: []layout.SectionSetting{{Height: 30, HasTotalPagesNumber: true}},
		}),
	}}
	generate(t, tab, Options{})

	footers := tab.sectionIsolations(layout.SectionFooter)
	if len(footers) != 1 {
		t.Fatalf("footer renders = %d, want 1", len(footers))
	}
	if footers[0].TotalPagesNumber != 3 {
		t.Errorf("TotalPagesNumber = %d, want 3", footers[0].TotalPagesNumber)
	}
	if footers[0].CurrentPageNumber != 0 {
		t.Errorf("CurrentPageNumber = %d, want 0 (not injected)", footers[0].CurrentPageNumber)
	}
}

func TestGenerate_VariantsRenderedOncePerVariant(t *testing.T) {
	t.Parallel()

	headers := []layout.SectionSetting{
		{Height: 40, PhysicalPageIndex: 0, PhysicalPageType: layout.PhysicalFirst},
		{Height: 20, PhysicalPageIndex: 1, PhysicalPageType: layout.PhysicalDefault},
	}
	tab := &fakeTab{pages: []fakePage{
		sectionPage(0, 4, layout.SectionSettings{Headers: headers}),
	}}
	generate(t, tab, Options{})

	reqs := tab.sectionIsolations(layout.SectionHeader)
	if len(reqs) != 2 {
		t.Fatalf("header renders = %d, want 2", len(reqs))
	}
	for i, req := range reqs {
		if !req.HasPhysicalPage || req.PhysicalPageIndex != i {
			t.Errorf("render %d = %+v, want physical page %d", i, req, i)
		}
	}
}

// ---------------------------------------------------------------------------
// TestGenerate - Global Numbering
// ---------------------------------------------------------------------------

func TestGenerate_NumberingSpansDocumentPages(t *testing.T) {
	t.Parallel()

	footer := layout.SectionSetting{Height: 30, HasCurrentPageNumber: true, HasTotalPagesNumber: true}
	tab := &fakeTab{pages: []fakePage{
		plainPage(0, 2),
		sectionPage(1, 3, layout.SectionSettings{Footers: []layout.SectionSetting{footer}}),
	}}
	out := generate(t, tab, Options{})

	if got := outputPages(t, out); got != 5 {
		t.Errorf("output pages = %d, want 5", got)
	}

	footers := tab.sectionIsolations(layout.SectionFooter)
	if got, want := currentNumbers(footers), []int{3, 4, 5}; !equalInts(got, want) {
		t.Errorf("footer page numbers = %v, want %v", got, want)
	}
	for _, f := range footers {
		if f.TotalPagesNumber != 5 {
			t.Errorf("TotalPagesNumber = %d, want 5", f.TotalPagesNumber)
		}
		if f.DocumentPageIndex != 1 {
			t.Errorf("DocumentPageIndex = %d, want 1", f.DocumentPageIndex)
		}
	}
}

// ---------------------------------------------------------------------------
// TestGenerate - Print Geometry
// ---------------------------------------------------------------------------

func TestGenerate_PrintGeometry(t *testing.T) {
	t.Parallel()

	margin := 12.0
	rec := pageRecord(0, 300, 400, true)
	rec.BodyMarginTop = margin
	tab := &fakeTab{pages: []fakePage{{
		record:    rec,
		bodyPages: 1,
		settings: layout.SectionSettings{
			Headers:     []layout.SectionSetting{{Height: 40}},
			Footers:     []layout.SectionSetting{{Height: 30}},
			Backgrounds: []layout.SectionSetting{{}},
		},
	}}}
	generate(t, tab, Options{})

	if len(tab.printed) != 4 {
		t.Fatalf("prints = %d, want 4", len(tab.printed))
	}

	body := tab.printed[0]
	if body.Height != 400-40-30-layout.BodyHeightCompensation || body.MarginTop != margin {
		t.Errorf("body print = %+v", body)
	}

	// background, header, footer in draw order
	wantHeights := []float64{400, 40, 30}
	for i, p := range tab.printed[1:] {
		if p.Height != wantHeights[i] {
			t.Errorf("section print %d height = %g, want %g", i, p.Height, wantHeights[i])
		}
	}
	if tab.printed[1].TransparentBackground {
		t.Error("background printed with transparent background")
	}
	if !tab.printed[2].TransparentBackground || !tab.printed[3].TransparentBackground {
		t.Error("header and footer over a background must print transparent")
	}
}

// ---------------------------------------------------------------------------
// TestGenerate - Diagnostics
// ---------------------------------------------------------------------------

func TestGenerate_WarnsOnMultiPageSection(t *testing.T) {
	t.Parallel()

	h := logging.NewBufferedHandler(slog.LevelWarn)
	tab := &fakeTab{
		sectionPages: 2,
		pages: []fakePage{
			sectionPage(0, 1, layout.SectionSettings{Headers: []layout.SectionSetting{{Height: 40}}}),
		},
	}
	out := generate(t, tab, Options{Logger: slog.New(h)})

	if got := outputPages(t, out); got != 1 {
		t.Errorf("output pages = %d, want 1", got)
	}
	if !h.Contains("unexpected page count") {
		t.Errorf("expected warning, got %q", h.String())
	}
}

// ---------------------------------------------------------------------------
// TestGenerate - Errors
// ---------------------------------------------------------------------------

func TestGenerate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		tab     *fakeTab
		wantErr error
	}{
		{
			name:    "no document pages",
			tab:     &fakeTab{},
			wantErr: layout.ErrNoDocumentPages,
		},
		{
			name:    "discovery failure",
			tab:     &fakeTab{discoverErr: errScripted},
			wantErr: errScripted,
		},
		{
			name:    "print failure",
			tab:     &fakeTab{printErr: errScripted, pages: []fakePage{plainPage(0, 1)}},
			wantErr: errScripted,
		},
		{
			name:    "missing body",
			tab:     &fakeTab{missingBody: true, pages: []fakePage{plainPage(0, 1)}},
			wantErr: ErrRegionMissing,
		},
		{
			name: "body too small",
			tab: &fakeTab{pages: []fakePage{
				sectionPage(0, 1, layout.SectionSettings{Headers: []layout.SectionSetting{{Height: 300}}}),
			}},
			wantErr: layout.ErrBodyTooSmall,
		},
		{
			name: "mixed variants",
			tab: &fakeTab{pages: []fakePage{
				sectionPage(0, 1, layout.SectionSettings{Headers: []layout.SectionSetting{
					{Height: 20, PhysicalPageType: layout.PhysicalFirst},
					{Height: 20},
				}}),
			}},
			wantErr: layout.ErrTemplateParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := Generate(context.Background(), &fakeBrowser{tab: tt.tab}, "", Options{})
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if out != nil {
				t.Error("partial output returned on failure")
			}
			if !tt.tab.closed {
				t.Error("tab was not closed on failure")
			}
		})
	}
}

func TestGenerate_NewTabError(t *testing.T) {
	t.Parallel()

	_, err := Generate(context.Background(), &fakeBrowser{tabErr: errScripted}, "", Options{})
	if !errors.Is(err, errScripted) {
		t.Errorf("error = %v, want %v", err, errScripted)
	}
}

func TestGenerate_CloseErrorReported(t *testing.T) {
	t.Parallel()

	tab := &fakeTab{closed: true, pages: []fakePage{plainPage(0, 1)}}
	out, err := Generate(context.Background(), &fakeBrowser{tab: tab}, "", Options{})
	if !errors.Is(err, render.ErrTabClosed) {
		t.Errorf("error = %v, want %v", err, render.ErrTabClosed)
	}
	if out != nil {
		t.Error("output returned despite close failure")
	}
}

func TestGenerate_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tab := &fakeTab{pages: []fakePage{plainPage(0, 1)}}
	_, err := Generate(ctx, &fakeBrowser{tab: tab}, "", Options{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want %v", err, context.Canceled)
	}
	if !tab.closed {
		t.Error("tab was not closed after cancellation")
	}
}

// ---------------------------------------------------------------------------
// TestGenerate - Physical Size
// ---------------------------------------------------------------------------

func TestGenerate_PPIScalesOutputPages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		page  fakePage
		wantH float64
	}{
		{"fast path keeps printed body size", plainPage(0, 1), (400 - layout.BodyHeightCompensation) * 0.75},
		{"section path uses page size", sectionPage(0, 1, layout.SectionSettings{Footers: []layout.SectionSetting{{Height: 20}}}), 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tab := &fakeTab{pages: []fakePage{tt.page}}
			out := generate(t, tab, Options{PPI: 96})

			src, err := pdfdoc.Load(context.Background(), out)
			if err != nil {
				t.Fatalf("loading output: %v", err)
			}
			w, h, err := src.PageSize(0)
			if err != nil {
				t.Fatalf("PageSize: %v", err)
			}
			if math.Abs(w-225) > 0.01 || math.Abs(h-tt.wantH) > 0.01 {
				t.Errorf("page size = %gx%g pt, want 225x%g", w, h, tt.wantH)
			}
		})
	}
}

func TestGenerate_PerPagePPI(t *testing.T) {
	t.Parallel()

	footers := layout.SectionSettings{Footers: []layout.SectionSetting{{Height: 20}}}
	tab := &fakeTab{pages: []fakePage{
		withPPI(sectionPage(0, 1, footers), 144),
		sectionPage(1, 1, footers),
		withPPI(plainPage(2, 1), 144),
	}}
	out := generate(t, tab, Options{})

	// bodies in document order, then the footers of pages 0 and 1
	wantPPI := []float64{144, 72, 144, 144, 72}
	if len(tab.printed) != len(wantPPI) {
		t.Fatalf("prints = %d, want %d", len(tab.printed), len(wantPPI))
	}
	for i, p := range tab.printed {
		if p.PPI != wantPPI[i] {
			t.Errorf("print %d at ppi %g, want %g", i, p.PPI, wantPPI[i])
		}
	}

	src, err := pdfdoc.Load(context.Background(), out)
	if err != nil {
		t.Fatalf("loading output: %v", err)
	}
	tests := []struct {
		page int
		w, h float64
	}{
		{0, 150, 200},
		{1, 300, 400},
		{2, 150, (400 - layout.BodyHeightCompensation) / 2},
	}
	for _, tt := range tests {
		w, h, err := src.PageSize(tt.page)
		if err != nil {
			t.Fatalf("PageSize(%d): %v", tt.page, err)
		}
		if math.Abs(w-tt.w) > 0.01 || math.Abs(h-tt.h) > 0.01 {
			t.Errorf("page %d size = %gx%g pt, want %gx%g", tt.page, w, h, tt.w, tt.h)
		}
	}
}

func TestGenerate_TruncatedPrintAborts(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	tab := &fakeTab{printRaw: []byte("%PDF-1.4\n"), pages: []fakePage{plainPage(0, 1)}}
	done := make(chan error, 1)
	go func() {
		_, err := Generate(ctx, &fakeBrowser{tab: tab}, "", Options{})
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, pdfdoc.ErrPDFLoad) {
			t.Errorf("error = %v, want %v", err, pdfdoc.ErrPDFLoad)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Generate still blocked after a truncated print")
	}

	tab.mu.Lock()
	defer tab.mu.Unlock()
	if !tab.closed {
		t.Error("tab was not closed after a truncated print")
	}
}
