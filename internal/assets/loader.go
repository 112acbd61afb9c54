package assets

// Names of the built-in assets.
const (
	DefaultStyleName  = "default"
	DefaultLayoutName = "default"
)

// Layout file names inside a layout directory.
const (
	pageFile       = "page.html"
	headerFile     = "header.html"
	footerFile     = "footer.html"
	backgroundFile = "background.html"
)

// Layout holds the templates of a Markdown page layout.
// Header, Footer and Background are empty when the layout has none.
type Layout struct {
	Name       string
	Page       string
	Header     string
	Footer     string
	Background string
}

// AssetLoader loads stylesheets and layouts by name.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	LoadStyle(name string) (string, error)

	// LoadLayout loads a layout directory by name.
	// Returns ErrLayoutNotFound if the layout doesn't exist.
	LoadLayout(name string) (*Layout, error)
}
