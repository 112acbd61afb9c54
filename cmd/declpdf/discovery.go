package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	declpdf "github.com/alnah/go-declpdf"
	"github.com/alnah/go-declpdf/internal/fileutil"
)

// Sentinel errors for input discovery.
var (
	ErrUnsupportedInput   = errors.New("input must be .html, .htm, .md or .markdown")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// FileToConvert is one input and the PDF it produces.
type FileToConvert struct {
	InputPath  string
	OutputPath string
	Kind       string // fileutil.KindHTML or fileutil.KindMarkdown
}

// discoverFiles lists the inputs under inputPath. A directory is scanned
// recursively, skipping hidden directories; its layout is mirrored under
// output. A single file may target an explicit .pdf path.
func discoverFiles(inputPath, output string) ([]FileToConvert, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		kind := fileutil.Kind(inputPath)
		if kind == "" {
			return nil, fmt.Errorf("%w: got %q", ErrUnsupportedInput, filepath.Ext(inputPath))
		}
		out := fileutil.PDFPath(inputPath, output)
		if isPDFPath(output) {
			out = output
		}
		return []FileToConvert{{InputPath: inputPath, OutputPath: out, Kind: kind}}, nil
	}

	if isPDFPath(output) {
		return nil, fmt.Errorf("%w: --output must be a directory when the input is a directory", ErrUsage)
	}

	var files []FileToConvert
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			if path != inputPath && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		kind := fileutil.Kind(path)
		if kind == "" {
			return nil
		}
		files = append(files, FileToConvert{
			InputPath:  path,
			OutputPath: mirroredOutput(path, inputPath, output),
			Kind:       kind,
		})
		return nil
	})
	return files, err
}

// mirroredOutput places the PDF of path under outputDir at the same
// relative location it has under baseDir.
func mirroredOutput(path, baseDir, outputDir string) string {
	if outputDir == "" {
		return fileutil.PDFPath(path, "")
	}
	rel, err := filepath.Rel(baseDir, filepath.Dir(path))
	if err != nil {
		return fileutil.PDFPath(path, outputDir)
	}
	return fileutil.PDFPath(path, filepath.Join(outputDir, rel))
}

func isPDFPath(p string) bool {
	return strings.EqualFold(filepath.Ext(p), ".pdf")
}

// validateWorkers checks the worker count bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > declpdf.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, declpdf.MaxPoolSize)
	}
	return nil
}
