package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	declpdf "github.com/alnah/go-declpdf"
	"github.com/alnah/go-declpdf/internal/assets"
	"github.com/alnah/go-declpdf/internal/config"
	"github.com/alnah/go-declpdf/internal/fileutil"
	"github.com/alnah/go-declpdf/internal/hints"
)

// ConversionResult holds the outcome of a single file.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// convertBatch generates files concurrently, one generator per worker.
// Results keep the order of files.
func convertBatch(ctx context.Context, pool Pool, files []FileToConvert, params *conversionParams) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(files))
	results := make([]ConversionResult, len(files))
	jobs := make(chan int, len(files))
	for i := range files {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()

			gen, err := pool.Acquire()
			if err != nil {
				// Other workers may still succeed; this one drains its share.
				for idx := range jobs {
					results[idx] = ConversionResult{InputPath: files[idx].InputPath, Err: err}
				}
				return
			}
			defer pool.Release(gen)

			for idx := range jobs {
				if err := ctx.Err(); err != nil {
					results[idx] = ConversionResult{InputPath: files[idx].InputPath, Err: err}
					continue
				}
				results[idx] = convertFile(ctx, gen, files[idx], params)
			}
		}()
	}

	wg.Wait()
	return results
}

// convertFile generates one PDF and writes it next to its mirrored path.
func convertFile(ctx context.Context, gen Generator, f FileToConvert, params *conversionParams) ConversionResult {
	start := time.Now()
	result := ConversionResult{InputPath: f.InputPath, OutputPath: f.OutputPath}
	done := func(err error) ConversionResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return done(fmt.Errorf("%w: %w", ErrReadInput, err))
	}

	input := declpdf.Input{
		BaseDir:  filepath.Dir(f.InputPath),
		Page:     params.page,
		Metadata: params.metadata,
	}
	if f.Kind == fileutil.KindMarkdown {
		md := params.markdown
		md.Content = string(content)
		input.Markdown = &md
	} else {
		input.HTML = string(content)
	}

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		return done(fmt.Errorf("%w: creating output directory: %w", ErrWritePDF, err))
	}

	pdf, err := gen.Generate(ctx, input)
	if err != nil {
		return done(err)
	}

	// #nosec G306 -- PDFs are meant to be readable
	if err := os.WriteFile(f.OutputPath, pdf, filePermissions); err != nil {
		return done(fmt.Errorf("%w: %w", ErrWritePDF, err))
	}
	return done(nil)
}

// ResultSummary holds the count of succeeded and failed files.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults reports every result and returns the failure count.
func printResults(results []ConversionResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", r.InputPath, r.Err, hintFor(r.Err))
			continue
		}
		if quiet {
			continue
		}
		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}
	return summary.Failed
}

// hintFor returns an actionable suggestion for err, or "".
func hintFor(err error) string {
	var notFound *config.NotFoundError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &notFound):
		return hints.ForConfigNotFound(notFound.Searched)
	case errors.Is(err, declpdf.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, ErrWritePDF):
		return hints.ForOutputDirectory()
	case errors.Is(err, assets.ErrStyleNotFound):
		return hints.ForAssetNotFound(assets.BuiltinStyles())
	case errors.Is(err, assets.ErrLayoutNotFound):
		return hints.ForAssetNotFound(assets.BuiltinLayouts())
	case errors.Is(err, declpdf.ErrNoDocumentPages):
		return hints.ForNoDocumentPages()
	case errors.Is(err, declpdf.ErrBodyTooSmall):
		return hints.ForBodyTooSmall()
	case errors.Is(err, declpdf.ErrMixedVariants):
		return hints.ForMixedVariants()
	}
	return ""
}
