package assets

// Notes:
// - Embedded assets are exercised through the package-level helpers
// - Filesystem tests build layouts in t.TempDir()
// - Resolver falls back only for not-found errors

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestValidateAssetName
// ---------------------------------------------------------------------------

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "default", false},
		{"dash", "my-style", false},
		{"empty", "", true},
		{"slash", "a/b", true},
		{"backslash", `a\b`, true},
		{"traversal", "..", true},
		{"extension", "style.css", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateAssetName(tt.input)
			if tt.wantErr && !errors.Is(err, ErrInvalidAssetName) {
				t.Errorf("error = %v, want %v", err, ErrInvalidAssetName)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestEmbeddedLoader
// ---------------------------------------------------------------------------

func TestEmbeddedLoader_Styles(t *testing.T) {
	t.Parallel()

	for _, name := range []string{DefaultStyleName, "plain"} {
		css, err := LoadStyle(name)
		if err != nil {
			t.Fatalf("LoadStyle(%q): %v", name, err)
		}
		if !strings.Contains(css, "page-body") {
			t.Errorf("style %q does not style page-body", name)
		}
	}

	if _, err := LoadStyle("missing"); !errors.Is(err, ErrStyleNotFound) {
		t.Errorf("error = %v, want %v", err, ErrStyleNotFound)
	}
}

func TestEmbeddedLoader_Layouts(t *testing.T) {
	t.Parallel()

	l, err := LoadLayout(DefaultLayoutName)
	if err != nil {
		t.Fatalf("LoadLayout: %v", err)
	}
	if !strings.Contains(l.Page, "<document-page") {
		t.Error("default page has no document-page")
	}
	if !strings.Contains(l.Footer, "<current-page-number>") {
		t.Error("default footer has no page number")
	}
	if l.Header == "" {
		t.Error("default layout has no header")
	}

	plain, err := LoadLayout("plain")
	if err != nil {
		t.Fatalf("LoadLayout(plain): %v", err)
	}
	if plain.Header != "" || plain.Footer != "" || plain.Background != "" {
		t.Errorf("plain layout has sections: %+v", plain)
	}

	if _, err := LoadLayout("missing"); !errors.Is(err, ErrLayoutNotFound) {
		t.Errorf("error = %v, want %v", err, ErrLayoutNotFound)
	}
}

// ---------------------------------------------------------------------------
// TestFilesystemLoader
// ---------------------------------------------------------------------------

func TestNewFilesystemLoader_Invalid(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "file")
	writeFile(t, file, "x")

	for _, p := range []string{"", filepath.Join(t.TempDir(), "missing"), file} {
		if _, err := NewFilesystemLoader(p); !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("NewFilesystemLoader(%q) error = %v, want %v", p, err, ErrInvalidBasePath)
		}
	}
}

func TestFilesystemLoader_Layout(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "layouts", "report", "page.html"), "<document-page></document-page>")
	writeFile(t, filepath.Join(dir, "layouts", "report", "footer.html"), "<current-page-number></current-page-number>")
	writeFile(t, filepath.Join(dir, "layouts", "broken", "header.html"), "x")

	fs, err := NewFilesystemLoader(dir)
	if err != nil {
		t.Fatalf("NewFilesystemLoader: %v", err)
	}

	l, err := fs.LoadLayout("report")
	if err != nil {
		t.Fatalf("LoadLayout: %v", err)
	}
	if l.Name != "report" || l.Footer == "" || l.Header != "" {
		t.Errorf("layout = %+v", l)
	}

	if _, err := fs.LoadLayout("broken"); !errors.Is(err, ErrIncompleteLayout) {
		t.Errorf("error = %v, want %v", err, ErrIncompleteLayout)
	}
	if _, err := fs.LoadLayout("missing"); !errors.Is(err, ErrLayoutNotFound) {
		t.Errorf("error = %v, want %v", err, ErrLayoutNotFound)
	}
}

func TestFilesystemLoader_Style(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "styles", "brand.css"), "body{}")

	fs, err := NewFilesystemLoader(dir)
	if err != nil {
		t.Fatalf("NewFilesystemLoader: %v", err)
	}
	if css, err := fs.LoadStyle("brand"); err != nil || css != "body{}" {
		t.Errorf("LoadStyle() = %q, %v", css, err)
	}
	if _, err := fs.LoadStyle("missing"); !errors.Is(err, ErrStyleNotFound) {
		t.Errorf("error = %v, want %v", err, ErrStyleNotFound)
	}
}

// ---------------------------------------------------------------------------
// TestAssetResolver
// ---------------------------------------------------------------------------

func TestAssetResolver_Fallback(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "styles", DefaultStyleName+".css"), "custom{}")

	r, err := NewAssetResolver(dir)
	if err != nil {
		t.Fatalf("NewAssetResolver: %v", err)
	}
	if !r.HasCustomLoader() {
		t.Error("HasCustomLoader() = false")
	}

	css, err := r.LoadStyle(DefaultStyleName)
	if err != nil || css != "custom{}" {
		t.Errorf("custom style = %q, %v", css, err)
	}
	if _, err := r.LoadStyle("plain"); err != nil {
		t.Errorf("embedded fallback failed: %v", err)
	}
	if _, err := r.LoadLayout(DefaultLayoutName); err != nil {
		t.Errorf("embedded layout fallback failed: %v", err)
	}
	if _, err := r.LoadStyle("../x"); !errors.Is(err, ErrInvalidAssetName) {
		t.Errorf("error = %v, want %v", err, ErrInvalidAssetName)
	}
}

func TestAssetResolver_EmbeddedOnly(t *testing.T) {
	t.Parallel()

	r, err := NewAssetResolver("")
	if err != nil {
		t.Fatalf("NewAssetResolver: %v", err)
	}
	if r.HasCustomLoader() {
		t.Error("HasCustomLoader() = true")
	}
	if _, err := r.LoadStyle(DefaultStyleName); err != nil {
		t.Errorf("LoadStyle: %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestBuiltinNames
// ---------------------------------------------------------------------------

func TestBuiltinNames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		got  []string
	}{
		{"styles", BuiltinStyles()},
		{"layouts", BuiltinLayouts()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			joined := strings.Join(tt.got, ",")
			if joined != "default,plain" {
				t.Errorf("names = %q, want %q", joined, "default,plain")
			}
		})
	}
}
