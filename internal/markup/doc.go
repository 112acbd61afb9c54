// Package markup turns Markdown into a document-page template.
//
// The Markdown body is converted with goldmark (GFM, footnotes, chroma
// highlighting with CSS classes) and placed in the page-body of a layout
// from internal/assets. Layout header, footer and background snippets are
// html/templates and may use the page-number placeholder elements.
package markup
