package markup

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-declpdf/internal/yamlutil"
)

// ErrFrontMatter indicates a malformed YAML front matter block.
var ErrFrontMatter = errors.New("invalid front matter")

// FrontMatter is the optional YAML block opening a Markdown source.
type FrontMatter struct {
	Title       string   `yaml:"title"`
	Author      string   `yaml:"author"`
	Lang        string   `yaml:"lang"`
	Description string   `yaml:"description"`
	Keywords    []string `yaml:"keywords"`
}

const fence = "---"

// SplitFrontMatter separates a leading "---" delimited YAML block from the
// Markdown body. Sources without one are returned unchanged.
func SplitFrontMatter(src string) (FrontMatter, string, error) {
	var fm FrontMatter

	s := strings.TrimPrefix(src, "\uFEFF")
	first, rest, ok := strings.Cut(s, "\n")
	if !ok || strings.TrimRight(first, " \r") != fence {
		return fm, src, nil
	}

	var block strings.Builder
	for {
		line, next, more := strings.Cut(rest, "\n")
		if strings.TrimRight(line, " \r") == fence {
			rest = next
			break
		}
		if !more {
			return fm, "", fmt.Errorf("%w: missing closing %q", ErrFrontMatter, fence)
		}
		block.WriteString(strings.TrimRight(line, "\r"))
		block.WriteByte('\n')
		rest = next
	}

	if strings.TrimSpace(block.String()) == "" {
		return fm, rest, nil
	}
	if err := yamlutil.Unmarshal([]byte(block.String()), &fm); err != nil {
		return fm, "", fmt.Errorf("%w: %v", ErrFrontMatter, err)
	}
	return fm, rest, nil
}
