package htmlmeta

import (
	"path/filepath"
	"strconv"

	"golang.org/x/net/html"
)

// PageDefaults are applied to document-page elements that do not set them.
type PageDefaults struct {
	Width  float64 // px
	Height float64 // px
	PPI    float64
}

// Options configure Prepare.
type Options struct {
	BaseDir  string
	Defaults PageDefaults
}

// Prepare inspects content and, in the same pass, rewrites relative asset
// references under BaseDir and fills missing page attributes from Defaults.
// A document-page with a size attribute keeps it; otherwise missing width
// and height are set.
func Prepare(content string, opts Options) (string, Info, error) {
	var dir string
	if opts.BaseDir != "" {
		abs, err := filepath.Abs(opts.BaseDir)
		if err != nil {
			return "", Info{}, err
		}
		dir = abs
	}

	doc, fragment, err := parse(content)
	if err != nil {
		return "", Info{}, err
	}

	var info Info
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		info.visit(n)
		if n.Data == DocumentPageElement {
			applyDefaults(n, opts.Defaults)
		}
		if key, ok := rewritable[n.Data]; ok && dir != "" {
			rewriteAttr(n, key, dir)
		}
	})

	out, err := render(doc, fragment)
	if err != nil {
		return "", Info{}, err
	}
	return out, info, nil
}

func applyDefaults(n *html.Node, d PageDefaults) {
	if d.PPI > 0 {
		setMissing(n, "ppi", d.PPI)
	}
	if _, ok := attr(n, "size"); ok {
		return
	}
	if d.Width > 0 {
		setMissing(n, "width", d.Width)
	}
	if d.Height > 0 {
		setMissing(n, "height", d.Height)
	}
}

func setMissing(n *html.Node, key string, v float64) {
	if _, ok := attr(n, key); ok {
		return
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: strconv.FormatFloat(v, 'f', -1, 64)})
}
