package declpdf

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-declpdf/internal/process"
	"github.com/alnah/go-declpdf/internal/render"
)

// rodBrowser hands out tabs of one lazily launched headless Chrome.
// Rod downloads Chromium on first run if no binary is configured.
type rodBrowser struct {
	cfg    generatorConfig
	logger *slog.Logger

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
}

func newRodBrowser(cfg generatorConfig, logger *slog.Logger) *rodBrowser {
	return &rodBrowser{cfg: cfg, logger: logger}
}

// ensureBrowser launches and connects Chrome once.
func (b *rodBrowser) ensureBrowser() error {
	if b.browser != nil {
		return nil
	}

	l := launcher.New().Headless(true)
	bin := b.cfg.browserBin
	if bin == "" {
		bin = os.Getenv("ROD_BROWSER_BIN")
	}
	if bin != "" {
		l = l.Bin(bin)
	}
	if b.cfg.noSandbox || sandboxDisabledByEnv() {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	b.launcher = l
	b.browser = browser
	b.logger.Debug("browser launched", slog.Int("pid", l.PID()))
	return nil
}

// sandboxDisabledByEnv reports container and CI hints.
func sandboxDisabledByEnv() bool {
	return os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") != "" || os.Getenv("ROD_BROWSER_BIN") != ""
}

// NewTab opens a blank page.
func (b *rodBrowser) NewTab(ctx context.Context) (render.Tab, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.ensureBrowser(); err != nil {
		return nil, err
	}
	page, err := b.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	return newRodTab(page, b.cfg.timeout, b.logger), nil
}

// Close shuts Chrome down and kills its process group.
func (b *rodBrowser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var errs []error
	if b.browser != nil {
		if err := b.browser.Close(); err != nil {
			errs = append(errs, err)
		}
		b.browser = nil
	}
	if b.launcher != nil {
		pid := b.launcher.PID()
		b.launcher.Kill()
		process.KillProcessGroup(pid)
		b.launcher.Cleanup()
		b.launcher = nil
	}
	return errors.Join(errs...)
}
