// Package layout holds the pure parts of the pagination engine.
//
// It validates the document pages discovered in a template, models the
// candidate settings of headers, footers and backgrounds, computes the region
// geometry shared by every output page of a document page, and resolves which
// physical-page variant applies to a given output page.
//
// Nothing here talks to a browser or a PDF library; the compose package
// drives these functions with rendered data.
package layout
