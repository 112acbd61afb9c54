package layout

import (
	"errors"
	"fmt"
)

// ErrBodyTooSmall indicates headers and footers leave too little room for the body.
var ErrBodyTooSmall = errors.New("page body too small")

// DefaultMinBodyFactor is the minimum share of the page height the body must keep.
const DefaultMinBodyFactor = 1.0 / 3.0

// BodyHeightCompensation is subtracted from the printed body height so that
// subpixel rounding in the browser never spills content onto an extra page.
const BodyHeightCompensation = 1.0

// Region is the geometry of one region on an output page.
// Y is measured from the bottom edge of the page.
type Region struct {
	Height        float64
	Y             float64
	TransparentBg bool
}

// Layout holds region geometry shared by every output page of a document page.
// Header, Footer and Background are nil when the template lacks them.
type Layout struct {
	Width  float64
	Height float64

	Header     *Region
	Footer     *Region
	Background *Region
	Body       Region

	HasAnySection bool
}

// Calculate computes the layout of a page from its section settings.
// minBodyFactor <= 0 selects DefaultMinBodyFactor.
func Calculate(settings SectionSettings, width, height, minBodyFactor float64) (*Layout, error) {
	if minBodyFactor <= 0 {
		minBodyFactor = DefaultMinBodyFactor
	}

	headerHeight := maxHeight(settings.Headers)
	footerHeight := maxHeight(settings.Footers)
	bodyHeight := height - headerHeight - footerHeight - BodyHeightCompensation

	if bodyHeight < height*minBodyFactor {
		return nil, fmt.Errorf("%w: page %gpx, header %gpx, footer %gpx, body %gpx (minimum %gpx)",
			ErrBodyTooSmall, height, headerHeight, footerHeight, bodyHeight, height*minBodyFactor)
	}

	hasBackground := len(settings.Backgrounds) > 0
	l := &Layout{
		Width:         width,
		Height:        height,
		Body:          Region{Height: bodyHeight, Y: footerHeight},
		HasAnySection: settings.HasAny(),
	}

	if len(settings.Headers) > 0 {
		l.Header = &Region{Height: headerHeight, Y: height - headerHeight, TransparentBg: hasBackground}
	}
	if len(settings.Footers) > 0 {
		l.Footer = &Region{Height: footerHeight, Y: 0, TransparentBg: hasBackground}
	}
	if hasBackground {
		l.Background = &Region{Height: height, Y: 0}
	}

	return l, nil
}

// Region returns the geometry for a section type, or nil if absent.
func (l *Layout) Region(t SectionType) *Region {
	switch t {
	case SectionHeader:
		return l.Header
	case SectionFooter:
		return l.Footer
	case SectionBackground:
		return l.Background
	case SectionBody:
		return &l.Body
	}
	return nil
}
