package assets

import "errors"

// AssetResolver tries a custom loader first and falls back to the embedded
// assets when the custom directory lacks the asset.
type AssetResolver struct {
	custom   AssetLoader // nil without a custom path
	embedded AssetLoader
}

// NewAssetResolver creates an AssetResolver. An empty customBasePath uses
// embedded assets only.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	r := &AssetResolver{embedded: NewEmbeddedLoader()}
	if customBasePath != "" {
		fs, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		r.custom = fs
	}
	return r, nil
}

// LoadStyle implements AssetLoader.
func (r *AssetResolver) LoadStyle(name string) (string, error) {
	if r.custom != nil {
		css, err := r.custom.LoadStyle(name)
		if err == nil || !isNotFound(err) {
			return css, err
		}
	}
	return r.embedded.LoadStyle(name)
}

// LoadLayout implements AssetLoader.
func (r *AssetResolver) LoadLayout(name string) (*Layout, error) {
	if r.custom != nil {
		l, err := r.custom.LoadLayout(name)
		if err == nil || !isNotFound(err) {
			return l, err
		}
	}
	return r.embedded.LoadLayout(name)
}

// HasCustomLoader reports whether a custom directory is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Only missing assets fall back; validation and I/O errors do not.
func isNotFound(err error) bool {
	return errors.Is(err, ErrStyleNotFound) || errors.Is(err, ErrLayoutNotFound)
}

var _ AssetLoader = (*AssetResolver)(nil)
