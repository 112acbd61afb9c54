package assets

var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads a built-in style by name.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// LoadLayout loads a built-in layout by name.
func LoadLayout(name string) (*Layout, error) {
	return defaultLoader.LoadLayout(name)
}
