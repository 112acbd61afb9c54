package main

import (
	"errors"
	"os"

	flag "github.com/spf13/pflag"

	declpdf "github.com/alnah/go-declpdf"
	"github.com/alnah/go-declpdf/internal/assets"
	"github.com/alnah/go-declpdf/internal/config"
	"github.com/alnah/go-declpdf/internal/markup"
)

// Exit codes follow Unix conventions: 0 success, 1 general, 2 usage, and
// custom codes below 126.
const (
	ExitSuccess = 0 // every file generated
	ExitGeneral = 1 // unexpected error or failed generation
	ExitUsage   = 2 // flags, config, template or layout errors
	ExitIO      = 3 // missing input, unreadable or unwritable files
	ExitBrowser = 4 // Chrome could not start or render
)

// exitCodeFor maps an error to an exit code. Wrapped errors are matched
// with errors.Is.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess

	case errors.Is(err, declpdf.ErrBrowserConnect),
		errors.Is(err, declpdf.ErrPageCreate),
		errors.Is(err, declpdf.ErrPageLoad),
		errors.Is(err, declpdf.ErrPDFGeneration),
		errors.Is(err, declpdf.ErrScript):
		return ExitBrowser

	case errors.Is(err, os.ErrNotExist),
		errors.Is(err, os.ErrPermission),
		errors.Is(err, ErrNoInput),
		errors.Is(err, ErrReadInput),
		errors.Is(err, ErrWritePDF):
		return ExitIO

	case errors.Is(err, flag.ErrHelp),
		errors.Is(err, ErrUsage),
		errors.Is(err, ErrUnsupportedInput),
		errors.Is(err, ErrInvalidWorkerCount),
		errors.Is(err, config.ErrConfigNotFound),
		errors.Is(err, config.ErrConfigParse),
		errors.Is(err, config.ErrFieldTooLong),
		errors.Is(err, config.ErrInvalidValue),
		errors.Is(err, declpdf.ErrEmptyInput),
		errors.Is(err, declpdf.ErrInvalidPage),
		errors.Is(err, declpdf.ErrTemplateParse),
		errors.Is(err, declpdf.ErrNoDocumentPages),
		errors.Is(err, declpdf.ErrMixedVariants),
		errors.Is(err, declpdf.ErrBodyTooSmall),
		errors.Is(err, markup.ErrFrontMatter),
		errors.Is(err, assets.ErrStyleNotFound),
		errors.Is(err, assets.ErrLayoutNotFound),
		errors.Is(err, assets.ErrIncompleteLayout),
		errors.Is(err, assets.ErrInvalidAssetName),
		errors.Is(err, assets.ErrInvalidBasePath):
		return ExitUsage
	}
	return ExitGeneral
}
