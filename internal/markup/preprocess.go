package markup

import (
	"regexp"
	"strings"
)

// Private Use Area markers carry ==highlight== through goldmark so the
// renderer never needs WithUnsafe.
const (
	markStart = "\uE000"
	markEnd   = "\uE001"
)

var (
	lineEndings = regexp.MustCompile(`\r\n?`)
	blankRuns   = regexp.MustCompile(`\n{3,}`)
	highlights  = regexp.MustCompile(`==(.*?)==`)
)

// preprocess normalizes line endings, marks highlights and compresses
// runs of blank lines.
func preprocess(md string) string {
	md = lineEndings.ReplaceAllString(md, "\n")
	md = highlights.ReplaceAllString(md, markStart+"$1"+markEnd)
	return blankRuns.ReplaceAllString(md, "\n\n")
}

// finishMarks turns highlight markers into <mark> elements.
func finishMarks(html string) string {
	return strings.NewReplacer(markStart, "<mark>", markEnd, "</mark>").Replace(html)
}
