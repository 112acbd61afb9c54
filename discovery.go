package declpdf

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/alnah/go-declpdf/internal/layout"
	"github.com/alnah/go-declpdf/internal/paper"
)

// rawPage is a document-page element as the discover script reports it:
// attribute values verbatim, nil when absent.
type rawPage struct {
	Index        *int    `json:"index"`
	Size         *string `json:"size"`
	Orientation  *string `json:"orientation"`
	PPI          *string `json:"ppi"`
	Width        *string `json:"width"`
	Height       *string `json:"height"`
	MarginTop    *string `json:"marginTop"`
	MarginBottom *string `json:"marginBottom"`
	HasSections  bool    `json:"hasSections"`
}

// record resolves the attributes to px. An unknown size falls back to A4 and
// a non-numeric or out-of-range width or height falls back to the A4 side;
// explicit width and height win over size. Missing dimensions stay nil.
// A valid ppi attribute is kept so the page prints at its own resolution;
// an invalid one is dropped and the document ppi applies.
func (r rawPage) record() layout.DiscoveryRecord {
	rec := layout.DiscoveryRecord{
		Index:            r.Index,
		BodyMarginTop:    layout.ClampMargin(parseNumber(r.MarginTop)),
		BodyMarginBottom: layout.ClampMargin(parseNumber(r.MarginBottom)),
		HasSections:      r.HasSections,
	}

	ppi := parseNumber(r.PPI)
	if math.IsNaN(ppi) || ppi == 0 || paper.ValidatePPI(ppi) != nil {
		ppi = paper.DefaultPPI
	} else {
		rec.PPI = &ppi
	}

	if r.Size != nil {
		w, h := float64(layout.DefaultWidth), float64(layout.DefaultHeight)
		if f, err := paper.Lookup(*r.Size); err == nil {
			w, h = f.Pixels(deref(r.Orientation), ppi)
		}
		rec.Width, rec.Height = &w, &h
	}
	if r.Width != nil {
		w := layout.ClampDimension(parseNumber(r.Width), layout.DefaultWidth)
		rec.Width = &w
	}
	if r.Height != nil {
		h := layout.ClampDimension(parseNumber(r.Height), layout.DefaultHeight)
		rec.Height = &h
	}
	return rec
}

// parseNumber reads a px attribute; "px" suffixes are allowed. Absent or
// malformed values are NaN.
func parseNumber(s *string) float64 {
	if s == nil {
		return math.NaN()
	}
	v := strings.TrimSuffix(strings.TrimSpace(*s), "px")
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// rawSetting is one measured section or physical-page variant.
// Select is nil for plain sections.
type rawSetting struct {
	Height               float64 `json:"height"`
	HasCurrentPageNumber bool    `json:"hasCurrentPageNumber"`
	HasTotalPagesNumber  bool    `json:"hasTotalPagesNumber"`
	PhysicalPageIndex    int     `json:"physicalPageIndex"`
	Select               *string `json:"select"`
}

// rawSections is the sections script result for one document page.
// Duplicates names section elements that appear more than once.
type rawSections struct {
	Headers     []rawSetting `json:"headers"`
	Footers     []rawSetting `json:"footers"`
	Backgrounds []rawSetting `json:"backgrounds"`
	Duplicates  []string     `json:"duplicates"`
}

func (r rawSections) settings() (layout.SectionSettings, error) {
	var s layout.SectionSettings
	if len(r.Duplicates) > 0 {
		return s, fmt.Errorf("%w: more than one <%s> in a document-page", ErrTemplateParse, r.Duplicates[0])
	}
	var err error
	if s.Headers, err = convertSettings(layout.SectionHeader, r.Headers); err != nil {
		return s, err
	}
	if s.Footers, err = convertSettings(layout.SectionFooter, r.Footers); err != nil {
		return s, err
	}
	if s.Backgrounds, err = convertSettings(layout.SectionBackground, r.Backgrounds); err != nil {
		return s, err
	}
	return s, nil
}

func convertSettings(t layout.SectionType, raw []rawSetting) ([]layout.SectionSetting, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]layout.SectionSetting, len(raw))
	for i, r := range raw {
		height := r.Height
		if math.IsNaN(height) || height < 0 {
			height = 0
		}
		out[i] = layout.SectionSetting{
			Height:               height,
			HasCurrentPageNumber: r.HasCurrentPageNumber,
			HasTotalPagesNumber:  r.HasTotalPagesNumber,
		}
		if r.Select == nil {
			continue
		}
		pt, err := layout.ParsePhysicalPageType(*r.Select)
		if err != nil {
			return nil, fmt.Errorf("%w: %s physical-page %d: %v", ErrTemplateParse, t.Element(), r.PhysicalPageIndex, err)
		}
		out[i].PhysicalPageIndex = r.PhysicalPageIndex
		out[i].PhysicalPageType = pt
	}
	return out, nil
}
