// Package render defines the contract between the pagination engine and the
// browser that measures and prints template regions.
//
// The engine treats a Tab as a function from isolation requests to PDF
// bytes: it never assumes DOM state survives between calls beyond what the
// contract promises (visibility reset and page-number injection).
package render

import (
	"context"
	"errors"

	"github.com/alnah/go-declpdf/internal/layout"
)

// Sentinel errors for tab state.
var (
	ErrTabClosed       = errors.New("browser tab already closed")
	ErrTabNotConnected = errors.New("browser tab not connected")
)

// Browser hands out tabs. Each generation acquires one tab and closes it on
// every exit path.
type Browser interface {
	NewTab(ctx context.Context) (Tab, error)
}

// Tab is one browser page holding one template document.
// Only one call may be in flight at a time.
type Tab interface {
	// SetContent loads the template HTML.
	SetContent(ctx context.Context, html string) error

	// SetViewport sizes the layout viewport in px.
	SetViewport(ctx context.Context, width, height float64) error

	// Discover reports every document-page element in DOM order.
	Discover(ctx context.Context) ([]layout.DiscoveryRecord, error)

	// SectionSettings measures the headers, footers and backgrounds of one document page.
	SectionSettings(ctx context.Context, documentPageIndex int) (layout.SectionSettings, error)

	// Isolate hides every region except the requested one and injects page
	// numbers when given. Returns false if the region does not exist.
	Isolate(ctx context.Context, req IsolateRequest) (bool, error)

	// ResetVisibility restores every region hidden by Isolate.
	ResetVisibility(ctx context.Context) error

	// Print renders the visible content to PDF pages of exactly
	// Width x Height px.
	Print(ctx context.Context, opts PrintOptions) ([]byte, error)

	// Close releases the tab. Further calls fail with ErrTabClosed.
	Close() error
}

// IsolateRequest selects one region of one document page.
type IsolateRequest struct {
	DocumentPageIndex int
	Section           layout.SectionType

	// PhysicalPageIndex selects a variant when HasPhysicalPage is set.
	PhysicalPageIndex int
	HasPhysicalPage   bool

	// Page numbers to inject; zero leaves placeholders untouched.
	CurrentPageNumber int
	TotalPagesNumber  int
}

// PrintOptions sizes one print call, in px. PPI maps px to paper inches.
type PrintOptions struct {
	Width        float64
	Height       float64
	MarginTop    float64
	MarginBottom float64
	PPI          float64

	// TransparentBackground prints without the default white canvas.
	TransparentBackground bool
}
