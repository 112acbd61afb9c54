package htmlmeta

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/alnah/go-declpdf/internal/fileutil"
)

// rewritable lists the attributes holding asset references, per element.
var rewritable = map[string]string{
	"img":    "src",
	"image":  "href",
	"link":   "href",
	"script": "src",
	"source": "src",
	"a":      "href",
}

// RewriteRelativePaths turns relative asset references into file:// URLs
// under baseDir. References escaping baseDir are left untouched.
// An empty baseDir returns content unchanged.
func RewriteRelativePaths(content, baseDir string) (string, error) {
	if baseDir == "" {
		return content, nil
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}

	doc, fragment, err := parse(content)
	if err != nil {
		return "", err
	}
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		if key, ok := rewritable[n.Data]; ok {
			rewriteAttr(n, key, abs)
		}
	})
	return render(doc, fragment)
}

func rewriteAttr(n *html.Node, key, dir string) {
	for i, a := range n.Attr {
		if a.Key != key || !isRelative(a.Val) {
			continue
		}
		p := filepath.Join(dir, a.Val)
		if !within(p, dir) {
			continue
		}
		n.Attr[i].Val = fileutil.FileURL(p)
	}
}

func isRelative(ref string) bool {
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "//") {
		return false
	}
	if u, err := url.Parse(ref); err == nil && u.Scheme != "" {
		return false
	}
	return !filepath.IsAbs(ref)
}

func within(path, dir string) bool {
	sep := string(filepath.Separator)
	d := filepath.Clean(dir)
	if !strings.HasSuffix(d, sep) {
		d += sep
	}
	return strings.HasPrefix(filepath.Clean(path)+sep, d)
}
