// Package assets provides the stylesheets and page layouts used to turn
// Markdown into a document-page template.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - built-in styles and layouts (go:embed)
//	    ├── FilesystemLoader  - custom directory on disk
//	    └── AssetResolver     - custom first, embedded as fallback
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css
//	└── layouts/
//	    └── {name}/
//	        ├── page.html        # required: html/template for the document
//	        ├── header.html      # optional page-header content
//	        ├── footer.html      # optional page-footer content
//	        └── background.html  # optional page-background content
//
// # Security
//
// Asset names are validated to prevent path traversal. FilesystemLoader
// resolves symlinks and verifies paths stay within basePath.
package assets
