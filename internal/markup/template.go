package markup

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/alnah/go-declpdf/internal/assets"
)

// Page describes the document-page attributes of the generated template.
type Page struct {
	Size         string
	Orientation  string
	PPI          float64
	Width        float64 // px, 0 = from Size
	Height       float64
	MarginTop    float64 // px, applied to every body page
	MarginBottom float64
}

// Document is a Markdown source and everything the layout needs around it.
//
// Header, Footer and Background replace the layout's snippets when non-nil;
// a pointer to "" removes the section. Replacement snippets are raw HTML.
type Document struct {
	Markdown string
	Title    string // defaults to the first h1
	Author   string
	Lang     string // defaults to "en"
	CSS      string // appended after the layout stylesheet

	Header     *string
	Footer     *string
	Background *string

	Page Page
}

// pageData is the data every layout template receives.
type pageData struct {
	Title       string
	Author      string
	Lang        string
	Description string
	Keywords    string
	CSS         template.CSS

	Header     template.HTML
	Footer     template.HTML
	Background template.HTML
	Body       template.HTML

	Page
}

// Builder renders Markdown documents into document-page templates.
type Builder struct {
	conv  *Converter
	page  *template.Template
	style string

	header, footer, background *template.Template
}

// NewBuilder parses a layout. style is the base stylesheet.
func NewBuilder(l *assets.Layout, style string) (*Builder, error) {
	b := &Builder{conv: NewConverter(), style: style}

	var err error
	if b.page, err = template.New(l.Name).Parse(l.Page); err != nil {
		return nil, fmt.Errorf("parsing layout %q: %w", l.Name, err)
	}
	snippets := []struct {
		name string
		src  string
		dst  **template.Template
	}{
		{"header", l.Header, &b.header},
		{"footer", l.Footer, &b.footer},
		{"background", l.Background, &b.background},
	}
	for _, s := range snippets {
		if strings.TrimSpace(s.src) == "" {
			continue
		}
		if *s.dst, err = template.New(l.Name + "/" + s.name).Parse(s.src); err != nil {
			return nil, fmt.Errorf("parsing layout %q %s: %w", l.Name, s.name, err)
		}
	}
	return b, nil
}

// Build converts doc into a complete HTML template.
func (b *Builder) Build(ctx context.Context, doc Document) (string, error) {
	fm, source, err := SplitFrontMatter(doc.Markdown)
	if err != nil {
		return "", err
	}
	body, err := b.conv.ToHTML(ctx, source)
	if err != nil {
		return "", err
	}

	data := pageData{
		Title:       firstNonEmpty(doc.Title, fm.Title, FirstHeading(body)),
		Author:      firstNonEmpty(doc.Author, fm.Author),
		Lang:        firstNonEmpty(doc.Lang, fm.Lang, "en"),
		Description: fm.Description,
		Keywords:    strings.Join(fm.Keywords, ", "),
		CSS:         template.CSS(sanitizeCSS(b.style + "\n" + doc.CSS)), // #nosec G203 -- author stylesheet
		Body:        template.HTML(body),                                 // #nosec G203 -- goldmark output, unsafe HTML disabled
		Page:        doc.Page,
	}

	if data.Header, err = b.section(b.header, doc.Header, data); err != nil {
		return "", err
	}
	if data.Footer, err = b.section(b.footer, doc.Footer, data); err != nil {
		return "", err
	}
	if data.Background, err = b.section(b.background, doc.Background, data); err != nil {
		return "", err
	}

	var out strings.Builder
	if err := b.page.Execute(&out, data); err != nil {
		return "", fmt.Errorf("rendering layout: %w", err)
	}
	return out.String(), nil
}

// section resolves one section snippet: an override wins over the layout.
func (b *Builder) section(tmpl *template.Template, override *string, data pageData) (template.HTML, error) {
	if override != nil {
		return template.HTML(*override), nil // #nosec G203 -- author-provided snippet
	}
	if tmpl == nil {
		return "", nil
	}
	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", tmpl.Name(), err)
	}
	return template.HTML(buf.String()), nil // #nosec G203 -- rendered by html/template
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// sanitizeCSS keeps a stylesheet from closing its <style> element.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
