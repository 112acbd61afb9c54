package pdfdoc

import (
	"strings"
	"time"
)

// Metadata holds the document information dictionary.
// Empty strings, an empty keyword list and zero times are skipped.
type Metadata struct {
	Title            string
	Author           string
	Subject          string
	Keywords         []string
	Producer         string
	Creator          string
	CreationDate     time.Time
	ModificationDate time.Time
}

// SetMetadata applies every valid field of m to the document.
func (d *Document) SetMetadata(m Metadata) {
	if m.Title != "" {
		d.pdf.SetTitle(m.Title, true)
	}
	if m.Author != "" {
		d.pdf.SetAuthor(m.Author, true)
	}
	if m.Subject != "" {
		d.pdf.SetSubject(m.Subject, true)
	}
	if kw := joinKeywords(m.Keywords); kw != "" {
		d.pdf.SetKeywords(kw, true)
	}
	if m.Producer != "" {
		d.pdf.SetProducer(m.Producer, true)
	}
	if m.Creator != "" {
		d.pdf.SetCreator(m.Creator, true)
	}
	if !m.CreationDate.IsZero() {
		d.pdf.SetCreationDate(m.CreationDate)
	}
	if !m.ModificationDate.IsZero() {
		d.pdf.SetModificationDate(m.ModificationDate)
	}
}

// joinKeywords drops blank entries and joins the rest with spaces.
func joinKeywords(keywords []string) string {
	kept := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			kept = append(kept, k)
		}
	}
	return strings.Join(kept, " ")
}
