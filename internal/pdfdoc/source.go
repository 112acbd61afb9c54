// Package pdfdoc loads rendered PDF fragments and composes them into a new
// document.
//
// Fragments are imported as form templates through gofpdi and drawn into
// pages of an fpdf document, so content streams are never re-encoded.
// Geometry passed to Document is in px; the document maps px to points
// with the ppi it was created with.
package pdfdoc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	realgofpdi "github.com/phpdave11/gofpdi"
)

// Sentinel errors for PDF operations.
var (
	ErrPDFLoad      = errors.New("failed to load PDF")
	ErrPageIndex    = errors.New("page index out of range")
	ErrForeignEmbed = errors.New("embedded page belongs to another document")
	ErrNoPage       = errors.New("no page to draw on")
	ErrPDFSave      = errors.New("failed to save PDF")
)

// mediaBox is the page box used for page sizes and imports.
const mediaBox = "/MediaBox"

// trailerWindow is how far from the end gofpdi looks for startxref.
const trailerWindow = 1500

// Source is a loaded PDF whose pages can be embedded into a Document.
type Source struct {
	data  []byte
	sizes map[int]map[string]map[string]float64
	pages int
}

// Load parses PDF bytes and reads their page count and sizes.
// Input without a header and a trailer pointing inside the data is rejected
// before parsing. Parsing stops waiting when ctx is done.
func Load(ctx context.Context, data []byte) (*Source, error) {
	if err := checkStructure(data); err != nil {
		return nil, err
	}

	type result struct {
		src *Source
		err error
	}
	done := make(chan result, 1)
	go func() {
		src, err := parse(data)
		done <- result{src, err}
	}()

	select {
	case r := <-done:
		return r.src, r.err
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrPDFLoad, ctx.Err())
	}
}

// checkStructure verifies the parts gofpdi reads before it can fail cleanly:
// the %PDF- header, a startxref offset within the data, and %%EOF.
func checkStructure(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty input", ErrPDFLoad)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return fmt.Errorf("%w: missing %%PDF- header", ErrPDFLoad)
	}

	tail := data[max(0, len(data)-trailerWindow):]
	i := bytes.LastIndex(tail, []byte("startxref"))
	if i < 0 {
		return fmt.Errorf("%w: missing startxref", ErrPDFLoad)
	}
	rest := tail[i+len("startxref"):]
	if !bytes.Contains(rest, []byte("%%EOF")) {
		return fmt.Errorf("%w: missing %%%%EOF", ErrPDFLoad)
	}

	fields := bytes.Fields(rest)
	if len(fields) == 0 {
		return fmt.Errorf("%w: missing xref offset", ErrPDFLoad)
	}
	offset, err := strconv.Atoi(string(fields[0]))
	if err != nil || offset < 0 || offset >= len(data) {
		return fmt.Errorf("%w: invalid xref offset %q", ErrPDFLoad, fields[0])
	}

	// A classic table starts with "xref", a cross-reference stream with its object number.
	at := bytes.TrimLeft(data[offset:], " \t\r\n")
	if !bytes.HasPrefix(at, []byte("xref")) && (len(at) == 0 || at[0] < '0' || at[0] > '9') {
		return fmt.Errorf("%w: no cross-reference section at offset %d", ErrPDFLoad, offset)
	}
	return nil
}

func parse(data []byte) (src *Source, err error) {
	// gofpdi reports malformed input by panicking.
	defer func() {
		if r := recover(); r != nil {
			src = nil
			err = fmt.Errorf("%w: %v", ErrPDFLoad, r)
		}
	}()

	imp := realgofpdi.NewImporter()
	rs := io.ReadSeeker(bytes.NewReader(data))
	imp.SetSourceStream(&rs)

	pages := imp.GetNumPages()
	if pages < 1 {
		return nil, fmt.Errorf("%w: document has no pages", ErrPDFLoad)
	}

	return &Source{
		data:  data,
		sizes: imp.GetPageSizes(),
		pages: pages,
	}, nil
}

// PageCount returns the number of pages in the source.
func (s *Source) PageCount() int {
	return s.pages
}

// PageSize returns the media box of a 0-based page, in points.
func (s *Source) PageSize(index int) (width, height float64, err error) {
	if index < 0 || index >= s.pages {
		return 0, 0, fmt.Errorf("%w: %d of %d", ErrPageIndex, index, s.pages)
	}
	box, ok := s.sizes[index+1][mediaBox]
	if !ok {
		return 0, 0, fmt.Errorf("%w: page %d has no media box", ErrPDFLoad, index)
	}
	return box["w"], box["h"], nil
}

// Bytes returns the raw PDF data.
func (s *Source) Bytes() []byte {
	return s.data
}

// newStream returns an independent reader over the source data.
func (s *Source) newStream() *io.ReadSeeker {
	rs := io.ReadSeeker(bytes.NewReader(s.data))
	return &rs
}
