package pdfdoc

import (
	"bytes"
	"fmt"
	"io"

	"codeberg.org/go-pdf/fpdf"
	"codeberg.org/go-pdf/fpdf/contrib/gofpdi"
)

// pointsPerInch is the PDF user space resolution.
const pointsPerInch = 72.0

// DefaultPPI maps one px to one point.
const DefaultPPI = pointsPerInch

// Rect places an embedded page on the current page.
// Y is measured from the bottom edge, in px.
type Rect struct {
	X, Y, Width, Height float64
}

// Embedded is a page of a Source imported into a Document.
type Embedded struct {
	owner *Document
	tplID int
}

// Document is a PDF under construction.
// It is not safe for concurrent use.
type Document struct {
	pdf     *fpdf.Fpdf
	imp     *gofpdi.Importer
	scale   float64
	streams map[*Source]*io.ReadSeeker

	pageHeight float64 // current page height in points, 0 before the first page
	pageScale  float64 // points per px on the current page
	pages      int
}

// New creates an empty document. ppi <= 0 selects DefaultPPI.
func New(ppi float64) *Document {
	if ppi <= 0 {
		ppi = DefaultPPI
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: 595.28, Ht: 841.89},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)

	return &Document{
		pdf:     pdf,
		imp:     gofpdi.NewImporter(),
		scale:   pointsPerInch / ppi,
		streams: make(map[*Source]*io.ReadSeeker),
	}
}

// PageCount returns the number of pages added so far.
func (d *Document) PageCount() int {
	return d.pages
}

// AddPage appends a page of the given px size and makes it current.
// ppi maps the page's px to points; <= 0 selects the document ppi.
// Later Draw calls on the page use the same mapping.
func (d *Document) AddPage(width, height, ppi float64) {
	scale := d.scale
	if ppi > 0 {
		scale = pointsPerInch / ppi
	}
	d.addPagePoints(width*scale, height*scale, scale)
}

func (d *Document) addPagePoints(w, h, scale float64) {
	// "P" keeps the size as given; fpdf swaps width and height for "L".
	d.pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})
	d.pageHeight = h
	d.pageScale = scale
	d.pages++
}

// Embed imports a 0-based page of src so it can be drawn into this document.
func (d *Document) Embed(src *Source, index int) (e *Embedded, err error) {
	if index < 0 || index >= src.PageCount() {
		return nil, fmt.Errorf("%w: %d of %d", ErrPageIndex, index, src.PageCount())
	}

	defer func() {
		if r := recover(); r != nil {
			e = nil
			err = fmt.Errorf("%w: importing page %d: %v", ErrPDFLoad, index, r)
		}
	}()

	rs, ok := d.streams[src]
	if !ok {
		rs = src.newStream()
		d.streams[src] = rs
	}

	tplID := d.imp.ImportPageFromStream(d.pdf, rs, index+1, mediaBox)
	if err := d.pdf.Error(); err != nil {
		return nil, fmt.Errorf("%w: importing page %d: %v", ErrPDFLoad, index, err)
	}
	return &Embedded{owner: d, tplID: tplID}, nil
}

// Draw places an embedded page on the current page.
func (d *Document) Draw(e *Embedded, r Rect) error {
	if e == nil || e.owner != d {
		return ErrForeignEmbed
	}
	if d.pages == 0 {
		return ErrNoPage
	}

	w := r.Width * d.pageScale
	h := r.Height * d.pageScale
	x := r.X * d.pageScale
	top := d.pageHeight - r.Y*d.pageScale - h

	d.imp.UseImportedTemplate(d.pdf, e.tplID, x, top, w, h)
	return d.pdf.Error()
}

// CopyPages appends the given 0-based pages of src at their original size.
func (d *Document) CopyPages(src *Source, indices []int) error {
	for _, i := range indices {
		w, h, err := src.PageSize(i)
		if err != nil {
			return err
		}
		e, err := d.Embed(src, i)
		if err != nil {
			return err
		}
		d.addPagePoints(w, h, d.scale)
		d.imp.UseImportedTemplate(d.pdf, e.tplID, 0, 0, w, h)
		if err := d.pdf.Error(); err != nil {
			return fmt.Errorf("copying page %d: %w", i, err)
		}
	}
	return nil
}

// Save serializes the document.
func (d *Document) Save() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFSave, err)
	}
	return buf.Bytes(), nil
}

// AllPages returns the indices of every page of src, in order.
func AllPages(src *Source) []int {
	indices := make([]int, src.PageCount())
	for i := range indices {
		indices[i] = i
	}
	return indices
}
