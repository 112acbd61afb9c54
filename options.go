package declpdf

import (
	"log/slog"
	"time"

	"github.com/alnah/go-declpdf/internal/render"
)

// Option configures a Generator.
type Option func(*Generator)

// generatorConfig holds the settings options can change.
type generatorConfig struct {
	timeout       time.Duration
	minBodyFactor float64
	assetPath     string
	browserBin    string
	noSandbox     bool
}

// defaultTimeout bounds one Generate call when ctx has no deadline.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the generation timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("declpdf: WithTimeout duration must be positive")
	}
	return func(g *Generator) {
		g.cfg.timeout = d
	}
}

// WithMinBodyFactor sets the minimum share of the page height left to the
// body once headers and footers are placed. Panics unless 0 < f < 1.
func WithMinBodyFactor(f float64) Option {
	if f <= 0 || f >= 1 {
		panic("declpdf: WithMinBodyFactor must be in (0, 1)")
	}
	return func(g *Generator) {
		g.cfg.minBodyFactor = f
	}
}

// WithLogger routes debug and warning logs. The default logger discards.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = l
	}
}

// WithAssetPath adds a directory of custom styles and layouts for Markdown
// input. Missing assets fall back to the built-in ones.
func WithAssetPath(dir string) Option {
	return func(g *Generator) {
		g.cfg.assetPath = dir
	}
}

// WithBrowserBin uses a pre-installed Chrome instead of the managed download.
// Defaults to $ROD_BROWSER_BIN.
func WithBrowserBin(path string) Option {
	return func(g *Generator) {
		g.cfg.browserBin = path
	}
}

// WithNoSandbox disables the Chrome sandbox, as containers and CI often require.
func WithNoSandbox(disable bool) Option {
	return func(g *Generator) {
		g.cfg.noSandbox = disable
	}
}

// withBrowser replaces Chrome with another rendering collaborator.
func withBrowser(b render.Browser) Option {
	if b == nil {
		panic("declpdf: nil browser")
	}
	return func(g *Generator) {
		g.browser = b
	}
}
