// Package hints provides actionable hints appended to CLI error messages.
// Every hint has the form "\n  hint: <text>".
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-declpdf/internal/fileutil"
)

// IsInContainer reports whether the process runs inside Docker or similar.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// InCI reports whether a CI environment variable is set.
func InCI() bool {
	for _, key := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL"} {
		if os.Getenv(key) != "" {
			return true
		}
	}
	return false
}

// ForBrowserConnect suggests the environment variables controlling Chrome.
func ForBrowserConnect() string {
	var hints []string
	if (InCI() || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use an installed Chrome")
	}
	hints = append(hints, "run 'declpdf doctor' to check the setup")
	return format(strings.Join(hints, "; "))
}

// ForTimeout suggests a longer timeout.
func ForTimeout() string {
	return format("templates with many pages or slow assets need a longer --timeout")
}

// ForConfigNotFound suggests --config or the first user config path searched.
func ForConfigNotFound(searched []string) string {
	hint := "use --config /path/to/file.yaml"
	for _, p := range searched {
		if strings.Contains(slashed(p), "/go-declpdf/") {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForOutputDirectory hints at output directory problems.
func ForOutputDirectory() string {
	return format("check the parent directory exists and is writable")
}

// ForAssetNotFound lists the available style or layout names.
func ForAssetNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForNoDocumentPages explains the minimal template.
func ForNoDocumentPages() string {
	return format("wrap the content in <document-page><page-body>...</page-body></document-page>")
}

// ForBodyTooSmall suggests ways to give the body more room.
func ForBodyTooSmall() string {
	return format("shrink page-header/page-footer, enlarge the page, or lower --min-body")
}

// ForMixedVariants explains the physical-page rule.
func ForMixedVariants() string {
	return format("a section either has only physical-page variants or a single plain body, not both")
}

// slashed normalizes separators so Windows paths match too.
func slashed(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
