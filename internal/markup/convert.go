package markup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrConversion indicates goldmark failed to render the Markdown.
var ErrConversion = errors.New("markdown conversion failed")

// Converter renders Markdown to an HTML fragment.
type Converter struct {
	md goldmark.Markdown
}

// NewConverter creates a Converter with GFM, footnotes and syntax highlighting.
func NewConverter() *Converter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
			),
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithXHTML()),
	)
	return &Converter{md: md}
}

// ToHTML converts md to an HTML fragment. goldmark has no context support,
// so the conversion runs in a goroutine and ctx only bounds the wait.
func (c *Converter) ToHTML(ctx context.Context, md string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(preprocess(md)), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrConversion, err)}
			return
		}
		done <- result{html: finishMarks(buf.String())}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

var (
	firstHeading = regexp.MustCompile(`(?s)<h1[^>]*>(.*?)</h1>`)
	tags         = regexp.MustCompile(`<[^>]+>`)
)

// FirstHeading returns the text of the first h1 of an HTML fragment.
func FirstHeading(fragment string) string {
	m := firstHeading.FindStringSubmatch(fragment)
	if m == nil {
		return ""
	}
	return strings.Join(strings.Fields(tags.ReplaceAllString(m[1], "")), " ")
}
