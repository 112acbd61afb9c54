package layout

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors for template discovery.
var (
	ErrNoDocumentPages = errors.New("no document pages found")
	ErrTemplateParse   = errors.New("template parsing error")
)

// Attribute clamping bounds, in px.
const (
	MinDimension = 1
	MaxDimension = 420_000
	MinMargin    = 0
	MaxMargin    = 420_000
)

// Discovery record bounds.
const (
	MinDocumentPageIndex = 0
	MaxDocumentPageIndex = 10
	MinPageDimension     = 42
	MaxPageDimension     = 42_000
	MinPPI               = 48
	MaxPPI               = 960
)

// Fallback page size: A4 at 72 ppi.
const (
	DefaultWidth  = 595
	DefaultHeight = 842
)

// DiscoveryRecord describes one document-page element as reported by the
// rendering collaborator. Nil pointers mark missing fields.
type DiscoveryRecord struct {
	Index            *int     `json:"index"`
	Width            *float64 `json:"width"`
	Height           *float64 `json:"height"`
	BodyMarginTop    float64  `json:"bodyMarginTop"`
	BodyMarginBottom float64  `json:"bodyMarginBottom"`
	HasSections      bool     `json:"hasSections"`

	// PPI is the page's own px-per-inch; nil uses the document ppi.
	PPI *float64 `json:"ppi"`
}

// PageSpec is a validated discovery record.
type PageSpec struct {
	Index            int
	Width            float64
	Height           float64
	BodyMarginTop    float64
	BodyMarginBottom float64
	HasSections      bool
	PPI              float64 // 0 uses the document ppi
}

// ClampDimension bounds a width or height attribute to [MinDimension, MaxDimension].
// Non-finite or out-of-range values fall back.
func ClampDimension(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < MinDimension || v > MaxDimension {
		return fallback
	}
	return v
}

// ClampMargin bounds a margin attribute to [MinMargin, MaxMargin].
// Non-finite or out-of-range values fall back to zero.
func ClampMargin(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < MinMargin || v > MaxMargin {
		return 0
	}
	return v
}

// ValidateDiscovery converts discovery records into page specs, in order.
func ValidateDiscovery(records []DiscoveryRecord) ([]PageSpec, error) {
	if len(records) == 0 {
		return nil, ErrNoDocumentPages
	}

	specs := make([]PageSpec, 0, len(records))
	for i, r := range records {
		spec, err := validateRecord(r)
		if err != nil {
			return nil, fmt.Errorf("%w: document-page %d: %v", ErrTemplateParse, i, err)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func validateRecord(r DiscoveryRecord) (PageSpec, error) {
	switch {
	case r.Index == nil:
		return PageSpec{}, errors.New("missing index")
	case r.Width == nil:
		return PageSpec{}, errors.New("missing width")
	case r.Height == nil:
		return PageSpec{}, errors.New("missing height")
	}

	if *r.Index < MinDocumentPageIndex || *r.Index > MaxDocumentPageIndex {
		return PageSpec{}, fmt.Errorf("index %d out of range [%d, %d]", *r.Index, MinDocumentPageIndex, MaxDocumentPageIndex)
	}
	if !inPageRange(*r.Width) {
		return PageSpec{}, fmt.Errorf("width %g out of range [%d, %d]", *r.Width, MinPageDimension, MaxPageDimension)
	}
	if !inPageRange(*r.Height) {
		return PageSpec{}, fmt.Errorf("height %g out of range [%d, %d]", *r.Height, MinPageDimension, MaxPageDimension)
	}

	var ppi float64
	if r.PPI != nil {
		if *r.PPI < MinPPI || *r.PPI > MaxPPI {
			return PageSpec{}, fmt.Errorf("ppi %g out of range [%d, %d]", *r.PPI, MinPPI, MaxPPI)
		}
		ppi = *r.PPI
	}

	return PageSpec{
		PPI:              ppi,
		Index:            *r.Index,
		Width:            *r.Width,
		Height:           *r.Height,
		BodyMarginTop:    ClampMargin(r.BodyMarginTop),
		BodyMarginBottom: ClampMargin(r.BodyMarginBottom),
		HasSections:      r.HasSections,
	}, nil
}

func inPageRange(v float64) bool {
	return !math.IsNaN(v) && v >= MinPageDimension && v <= MaxPageDimension
}

// Offsets is the immutable page-count offset table of a document.
type Offsets struct {
	offsets []int
	total   int
}

// FinalizeOffsets builds the offset table once every body page count is known.
func FinalizeOffsets(pageCounts []int) Offsets {
	o := Offsets{offsets: make([]int, len(pageCounts))}
	for i, n := range pageCounts {
		o.offsets[i] = o.total
		o.total += n
	}
	return o
}

// Offset returns the number of output pages preceding document page i.
func (o Offsets) Offset(i int) int {
	return o.offsets[i]
}

// Total returns the number of output pages of the whole document.
func (o Offsets) Total() int {
	return o.total
}

// Len returns the number of document pages in the table.
func (o Offsets) Len() int {
	return len(o.offsets)
}

// CurrentPageNumber returns the absolute 1-based number of a local page index.
func CurrentPageNumber(pageIndex, offset int) int {
	return pageIndex + 1 + offset
}
