package declpdf

import (
	"fmt"
	"strings"
	"time"

	"github.com/alnah/go-declpdf/internal/paper"
)

// Input is one document to generate. Exactly one of HTML and Markdown is set.
type Input struct {
	HTML     string    // document-page template
	Markdown *Markdown // Markdown wrapped into a single document page

	// BaseDir resolves relative asset references (images, stylesheets).
	BaseDir string

	Page     *PageSettings // nil = A4 portrait at 72 ppi
	Metadata *Metadata     // nil = defaults from the HTML head
}

// Markdown is a Markdown body placed into a page layout.
type Markdown struct {
	Content string
	Layout  string // layout name, "" = default
	Style   string // style name, "" = default
	CSS     string // appended to the style

	Title  string
	Author string
	Lang   string

	// Header, Footer and Background replace the layout's sections when
	// non-nil; a pointer to "" removes the section.
	Header     *string
	Footer     *string
	Background *string

	MarginTop    float64 // px
	MarginBottom float64 // px
}

// Page size and orientation names.
const (
	PageSizeA4     = "a4"
	PageSizeLetter = "letter"
	PageSizeLegal  = "legal"

	OrientationPortrait  = paper.Portrait
	OrientationLandscape = paper.Landscape

	DefaultPPI = paper.DefaultPPI
)

// PageSettings are the defaults for document-page elements that set no size.
// PPI is the document scale: one inch of output holds PPI template px.
type PageSettings struct {
	Size        string  // named format, see PageSizes
	Orientation string  // portrait or landscape
	PPI         float64 // 0 = 72
	Width       float64 // px, wins over Size
	Height      float64 // px, wins over Size
}

// PageSizes returns the supported paper format names.
func PageSizes() []string {
	return paper.Names()
}

// Validate checks the page settings. A nil receiver is valid.
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}
	if err := p.settings().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPage, err)
	}
	if p.Width < 0 || p.Height < 0 {
		return fmt.Errorf("%w: negative dimensions %gx%g", ErrInvalidPage, p.Width, p.Height)
	}
	return nil
}

func (p *PageSettings) settings() paper.Settings {
	if p == nil {
		return paper.Settings{}
	}
	return paper.Settings{
		Size:        strings.ToLower(p.Size),
		Orientation: strings.ToLower(p.Orientation),
		PPI:         p.PPI,
		Width:       p.Width,
		Height:      p.Height,
	}
}

// Metadata is written to the PDF information dictionary.
// Empty fields are skipped.
type Metadata struct {
	Title            string
	Author           string
	Subject          string
	Keywords         []string
	Creator          string
	Producer         string
	CreationDate     time.Time
	ModificationDate time.Time
}
