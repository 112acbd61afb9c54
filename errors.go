package declpdf

import (
	"errors"

	"github.com/alnah/go-declpdf/internal/layout"
	"github.com/alnah/go-declpdf/internal/pdfdoc"
	"github.com/alnah/go-declpdf/internal/render"
)

// Sentinel errors for library operations.
var (
	ErrEmptyInput     = errors.New("input has neither HTML nor Markdown")
	ErrAmbiguousInput = errors.New("input has both HTML and Markdown")
	ErrInvalidPage    = errors.New("invalid page settings")

	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrScript         = errors.New("template script failed")
)

// Template and layout errors, matchable with errors.Is.
var (
	ErrTemplateParse   = layout.ErrTemplateParse
	ErrNoDocumentPages = layout.ErrNoDocumentPages
	ErrMixedVariants   = layout.ErrMixedVariants
	ErrBodyTooSmall    = layout.ErrBodyTooSmall
)

// Resource errors.
var (
	ErrTabClosed       = render.ErrTabClosed
	ErrTabNotConnected = render.ErrTabNotConnected
	ErrPDFLoad         = pdfdoc.ErrPDFLoad
)
