// Package pdftest builds small PDF fixtures for tests.
package pdftest

import (
	"bytes"
	"fmt"

	"codeberg.org/go-pdf/fpdf"
)

// Pages returns an uncompressed PDF with n pages of w x h points.
// Each page carries the text "page <i>" (1-based) and the given label.
func Pages(n int, w, h float64, label string) ([]byte, error) {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetCompression(false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("Helvetica", "", 10)

	for i := 1; i <= n; i++ {
		pdf.AddPage()
		pdf.SetXY(4, 4)
		pdf.CellFormat(w-8, 12, fmt.Sprintf("%s page %d", label, i), "", 0, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MustPages is like Pages but panics on error.
func MustPages(n int, w, h float64, label string) []byte {
	data, err := Pages(n, w, h, label)
	if err != nil {
		panic(err)
	}
	return data
}
