// Package config loads the YAML configuration of the declpdf CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-declpdf/internal/dateutil"
	"github.com/alnah/go-declpdf/internal/fileutil"
	"github.com/alnah/go-declpdf/internal/paper"
	"github.com/alnah/go-declpdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppName names the user config directory.
const AppName = "go-declpdf"

// Field length limits.
const (
	MaxTextLength    = 500  // metadata strings
	MaxPathLength    = 4096 // file system paths
	MaxSnippetLength = 1 << 16
	MaxKeywords      = 50
)

// Config holds every CLI setting a file can provide. Flags override it.
type Config struct {
	Output   OutputConfig   `yaml:"output"`
	Page     PageConfig     `yaml:"page"`
	Metadata MetadataConfig `yaml:"metadata"`
	Markdown MarkdownConfig `yaml:"markdown"`
	Assets   AssetsConfig   `yaml:"assets"`
	Browser  BrowserConfig  `yaml:"browser"`
	Workers  int            `yaml:"workers"` // 0 = auto
}

// OutputConfig defines where PDFs are written.
type OutputConfig struct {
	Dir string `yaml:"dir"` // empty = next to each input
}

// PageConfig sets the defaults of document-page elements without a size.
type PageConfig struct {
	Size        string  `yaml:"size"`
	Orientation string  `yaml:"orientation"`
	PPI         float64 `yaml:"ppi"`
	Width       float64 `yaml:"width"`  // px
	Height      float64 `yaml:"height"` // px
	MinBody     float64 `yaml:"minBody"`
}

// MetadataConfig is written to the PDF information dictionary.
// Dates accept "auto", YYYY-MM-DD or RFC 3339.
type MetadataConfig struct {
	Title            string   `yaml:"title"`
	Author           string   `yaml:"author"`
	Subject          string   `yaml:"subject"`
	Keywords         []string `yaml:"keywords"`
	Creator          string   `yaml:"creator"`
	CreationDate     string   `yaml:"creationDate"`
	ModificationDate string   `yaml:"modificationDate"`
}

// MarkdownConfig applies to Markdown inputs only.
// Header, Footer and Background are HTML snippets; nil keeps the layout's.
type MarkdownConfig struct {
	Layout       string  `yaml:"layout"`
	Style        string  `yaml:"style"`
	CSS          string  `yaml:"css"` // path to an extra stylesheet
	Header       *string `yaml:"header"`
	Footer       *string `yaml:"footer"`
	Background   *string `yaml:"background"`
	MarginTop    float64 `yaml:"marginTop"`
	MarginBottom float64 `yaml:"marginBottom"`
}

// AssetsConfig locates custom styles and layouts.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // empty = embedded assets only
}

// BrowserConfig controls Chrome.
type BrowserConfig struct {
	Bin       string `yaml:"bin"`
	NoSandbox bool   `yaml:"noSandbox"`
	Timeout   string `yaml:"timeout"` // Go duration, e.g. "45s"
}

// DefaultConfig returns an empty configuration: library defaults apply.
func DefaultConfig() *Config {
	return &Config{}
}

// Validate checks lengths, ranges and formats. LoadConfig calls it; callers
// building a Config by hand should too.
func (c *Config) Validate() error {
	lengths := []struct {
		field string
		value string
		max   int
	}{
		{"output.dir", c.Output.Dir, MaxPathLength},
		{"metadata.title", c.Metadata.Title, MaxTextLength},
		{"metadata.author", c.Metadata.Author, MaxTextLength},
		{"metadata.subject", c.Metadata.Subject, MaxTextLength},
		{"metadata.creator", c.Metadata.Creator, MaxTextLength},
		{"markdown.css", c.Markdown.CSS, MaxPathLength},
		{"markdown.header", deref(c.Markdown.Header), MaxSnippetLength},
		{"markdown.footer", deref(c.Markdown.Footer), MaxSnippetLength},
		{"markdown.background", deref(c.Markdown.Background), MaxSnippetLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"browser.bin", c.Browser.Bin, MaxPathLength},
	}
	for _, l := range lengths {
		if err := validateFieldLength(l.field, l.value, l.max); err != nil {
			return err
		}
	}
	if len(c.Metadata.Keywords) > MaxKeywords {
		return fmt.Errorf("%w: metadata.keywords (%d entries, max %d)", ErrFieldTooLong, len(c.Metadata.Keywords), MaxKeywords)
	}

	page := paper.Settings{
		Size:        strings.ToLower(c.Page.Size),
		Orientation: strings.ToLower(c.Page.Orientation),
		PPI:         c.Page.PPI,
	}
	if err := page.Validate(); err != nil {
		return fmt.Errorf("%w: page: %v", ErrInvalidValue, err)
	}
	if c.Page.Width < 0 || c.Page.Height < 0 {
		return fmt.Errorf("%w: page dimensions must not be negative", ErrInvalidValue)
	}
	if c.Page.MinBody != 0 && (c.Page.MinBody <= 0 || c.Page.MinBody >= 1) {
		return fmt.Errorf("%w: page.minBody must be in (0, 1), got %g", ErrInvalidValue, c.Page.MinBody)
	}
	if c.Markdown.MarginTop < 0 || c.Markdown.MarginBottom < 0 {
		return fmt.Errorf("%w: markdown margins must not be negative", ErrInvalidValue)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidValue, c.Workers)
	}

	if _, err := c.Timeout(); err != nil {
		return err
	}
	for field, value := range map[string]string{
		"metadata.creationDate":     c.Metadata.CreationDate,
		"metadata.modificationDate": c.Metadata.ModificationDate,
	} {
		if _, err := dateutil.Parse(value, time.Now()); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidValue, field, err)
		}
	}
	return nil
}

// Timeout parses browser.timeout; zero means unset.
func (c *Config) Timeout() (time.Duration, error) {
	if c.Browser.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Browser.Timeout)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: browser.timeout %q (use a positive duration like 45s)", ErrInvalidValue, c.Browser.Timeout)
	}
	return d, nil
}

// Dates resolves the metadata dates against now.
func (c *Config) Dates(now time.Time) (created, modified time.Time, err error) {
	if created, err = dateutil.Parse(c.Metadata.CreationDate, now); err != nil {
		return created, modified, err
	}
	modified, err = dateutil.Parse(c.Metadata.ModificationDate, now)
	return created, modified, err
}

func validateFieldLength(field, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, field, len(value), maxLength)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// NotFoundError lists the paths searched for a config name.
type NotFoundError struct {
	Name     string
	Searched []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v: %s (tried %s)", ErrConfigNotFound, e.Name, strings.Join(e.Searched, ", "))
}

// Unwrap makes errors.Is(err, ErrConfigNotFound) hold.
func (e *NotFoundError) Unwrap() error { return ErrConfigNotFound }

// LoadConfig loads a config by path or by name. A name (no separator) is
// searched as name.yaml and name.yml in the working directory, then in the
// user config directory under AppName. There is no silent fallback.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	path := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		if path, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Name: nameOrPath, Searched: []string{path}}
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	dirs := []string{"."}
	if userDir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(userDir, AppName))
	}

	var tried []string
	for _, dir := range dirs {
		for _, ext := range extensions {
			p := filepath.Join(dir, name+ext)
			if fileutil.FileExists(p) {
				return p, nil
			}
			tried = append(tried, p)
		}
	}
	return "", &NotFoundError{Name: name, Searched: tried}
}
