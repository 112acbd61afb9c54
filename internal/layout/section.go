package layout

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMixedVariants indicates a section mixing physical-page variants with plain content.
var ErrMixedVariants = errors.New("section mixes physical-page variants with plain settings")

// ErrUnknownVariant indicates a physical-page select value outside first/last/odd/even/default.
var ErrUnknownVariant = errors.New("unknown physical-page variant")

// SectionType identifies one of the repeating regions of a document page.
type SectionType string

// Section types, named after their template elements.
const (
	SectionHeader     SectionType = "header"
	SectionFooter     SectionType = "footer"
	SectionBackground SectionType = "background"
	SectionBody       SectionType = "body"
)

// Element returns the template element name for the section type.
func (t SectionType) Element() string {
	return "page-" + string(t)
}

// PhysicalPageType selects the output pages a section variant applies to.
// The zero value means the setting is not a variant.
type PhysicalPageType string

// Physical page variants.
const (
	PhysicalFirst   PhysicalPageType = "first"
	PhysicalLast    PhysicalPageType = "last"
	PhysicalOdd     PhysicalPageType = "odd"
	PhysicalEven    PhysicalPageType = "even"
	PhysicalDefault PhysicalPageType = "default"
)

// ParsePhysicalPageType converts a select attribute value (case-insensitive).
// An empty value selects the default variant.
func ParsePhysicalPageType(s string) (PhysicalPageType, error) {
	switch v := PhysicalPageType(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return PhysicalDefault, nil
	case PhysicalFirst, PhysicalLast, PhysicalOdd, PhysicalEven, PhysicalDefault:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownVariant, s)
	}
}

// SectionSetting is one candidate rendering of a header, footer or background.
type SectionSetting struct {
	Height               float64
	HasCurrentPageNumber bool
	HasTotalPagesNumber  bool

	// Variant fields; PhysicalPageType is empty for non-variant settings.
	PhysicalPageIndex int
	PhysicalPageType  PhysicalPageType
}

// IsVariant reports whether the setting is one of several physical-page variants.
func (s SectionSetting) IsVariant() bool {
	return s.PhysicalPageType != ""
}

// Reusable reports whether a rendering of this setting can be shared across
// output pages. Total-pages numbering is constant once known, so only the
// current page number forces a fresh render.
func (s SectionSetting) Reusable() bool {
	return !s.HasCurrentPageNumber
}

// NeedsNumbers reports whether the setting carries any page-number placeholder.
func (s SectionSetting) NeedsNumbers() bool {
	return s.HasCurrentPageNumber || s.HasTotalPagesNumber
}

// SectionSettings holds the candidate settings of every section of one document page.
type SectionSettings struct {
	Headers     []SectionSetting
	Footers     []SectionSetting
	Backgrounds []SectionSetting
}

// For returns the candidates for a section type.
func (s SectionSettings) For(t SectionType) []SectionSetting {
	switch t {
	case SectionHeader:
		return s.Headers
	case SectionFooter:
		return s.Footers
	case SectionBackground:
		return s.Backgrounds
	}
	return nil
}

// HasAny reports whether at least one section exists.
func (s SectionSettings) HasAny() bool {
	return len(s.Headers) > 0 || len(s.Footers) > 0 || len(s.Backgrounds) > 0
}

// Validate checks that no section mixes variants with non-variant settings,
// and that a non-variant section has exactly one setting.
func (s SectionSettings) Validate() error {
	for _, t := range []SectionType{SectionHeader, SectionFooter, SectionBackground} {
		if err := validateCandidates(t, s.For(t)); err != nil {
			return err
		}
	}
	return nil
}

func validateCandidates(t SectionType, candidates []SectionSetting) error {
	variants := 0
	for _, c := range candidates {
		if c.IsVariant() {
			variants++
		}
	}
	if variants > 0 && variants != len(candidates) {
		return fmt.Errorf("%w: %s has %d variant(s) among %d setting(s)", ErrMixedVariants, t, variants, len(candidates))
	}
	if variants == 0 && len(candidates) > 1 {
		return fmt.Errorf("%w: %s has %d plain settings", ErrMixedVariants, t, len(candidates))
	}
	return nil
}

// maxHeight returns the tallest candidate height, or 0 for an empty collection.
func maxHeight(candidates []SectionSetting) float64 {
	var h float64
	for _, c := range candidates {
		if c.Height > h {
			h = c.Height
		}
	}
	return h
}
