package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

//go:embed styles/*.css
var styles embed.FS

//go:embed layouts
var layouts embed.FS

// EmbeddedLoader loads the assets compiled into the binary.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadStyle implements AssetLoader.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	content, err := styles.ReadFile("styles/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}
	return string(content), nil
}

// LoadLayout implements AssetLoader.
func (e *EmbeddedLoader) LoadLayout(name string) (*Layout, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}
	return readLayout(layouts, path.Join("layouts", name), name)
}

// readLayout reads a layout directory from fsys. page.html is required.
func readLayout(fsys fs.FS, dir, name string) (*Layout, error) {
	if _, err := fs.Stat(fsys, dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrLayoutNotFound, name)
		}
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}

	read := func(file string, required bool) (string, error) {
		data, err := fs.ReadFile(fsys, path.Join(dir, file))
		switch {
		case err == nil:
			return string(data), nil
		case errors.Is(err, fs.ErrNotExist) && required:
			return "", fmt.Errorf("%w: %q", ErrIncompleteLayout, name)
		case errors.Is(err, fs.ErrNotExist):
			return "", nil
		default:
			return "", fmt.Errorf("%w: reading %s: %v", ErrAssetRead, file, err)
		}
	}

	l := &Layout{Name: name}
	var err error
	if l.Page, err = read(pageFile, true); err != nil {
		return nil, err
	}
	if l.Header, err = read(headerFile, false); err != nil {
		return nil, err
	}
	if l.Footer, err = read(footerFile, false); err != nil {
		return nil, err
	}
	if l.Background, err = read(backgroundFile, false); err != nil {
		return nil, err
	}
	return l, nil
}

// BuiltinStyles lists the embedded style names.
func BuiltinStyles() []string {
	return names(styles, "styles", ".css")
}

// BuiltinLayouts lists the embedded layout names.
func BuiltinLayouts() []string {
	return names(layouts, "layouts", "")
}

func names(fsys fs.FS, dir, ext string) []string {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if ext == "" && e.IsDir() {
			out = append(out, e.Name())
		} else if ext != "" && strings.HasSuffix(e.Name(), ext) {
			out = append(out, strings.TrimSuffix(e.Name(), ext))
		}
	}
	return out
}

var _ AssetLoader = (*EmbeddedLoader)(nil)
