package htmlmeta

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DocumentPageElement is the tag of a document page.
const DocumentPageElement = "document-page"

// Info is what a template declares about itself.
type Info struct {
	DocumentPages int

	Title       string
	Author      string
	Description string
	Keywords    []string
	Generator   string
}

// Inspect parses content and reports its document pages and head metadata.
func Inspect(content string) (Info, error) {
	doc, _, err := parse(content)
	if err != nil {
		return Info{}, err
	}

	var info Info
	walk(doc, func(n *html.Node) {
		if n.Type == html.ElementNode {
			info.visit(n)
		}
	})
	return info, nil
}

func (i *Info) visit(n *html.Node) {
	switch {
	case n.Data == DocumentPageElement:
		i.DocumentPages++
	case n.DataAtom == atom.Title && i.Title == "":
		i.Title = text(n)
	case n.DataAtom == atom.Meta:
		i.applyMeta(n)
	}
}

func (i *Info) applyMeta(n *html.Node) {
	name, _ := attr(n, "name")
	content, ok := attr(n, "content")
	if !ok {
		return
	}
	content = strings.TrimSpace(content)

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "author":
		i.Author = content
	case "description":
		i.Description = content
	case "generator":
		i.Generator = content
	case "keywords":
		i.Keywords = splitKeywords(content)
	}
}

func splitKeywords(s string) []string {
	var out []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
