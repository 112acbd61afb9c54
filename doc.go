// Package declpdf generates paginated PDFs from declarative HTML templates
// using headless Chrome.
//
// # Quick Start
//
// A template is HTML containing one or more document-page elements. Each
// document page has a page-body and optional page-header, page-footer and
// page-background sections repeated on every output page, at most one of
// each:
//
//	<document-page size="a4">
//	  <page-header><h1>Quarterly report</h1></page-header>
//	  <page-footer>Page <current-page-number></current-page-number>
//	    of <total-pages-number></total-pages-number></page-footer>
//	  <page-body>...</page-body>
//	</document-page>
//
// Create a generator, generate, and close when done:
//
//	gen, err := declpdf.NewGenerator()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer gen.Close()
//
//	pdf, err := gen.Generate(ctx, declpdf.Input{HTML: template})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("report.pdf", pdf, 0o644)
//
// # Section Variants
//
// A section can hold physical-page variants selected by first, last, odd,
// even or default. First and last win over odd and even, and default
// catches the remaining pages. Text or elements next to the variants are
// rejected with ErrMixedVariants.
//
//	<page-footer>
//	  <physical-page select="first">Cover</physical-page>
//	  <physical-page select="default">Page <current-page-number></current-page-number></physical-page>
//	</page-footer>
//
// Sections that do not show the current page number are rendered once per
// document page and reused on every output page.
//
// # Units
//
// Template dimensions are in px. PageSettings.PPI fixes how many px make one
// inch of output (72 by default, so 1px is 1pt). Named sizes are converted
// at that PPI. A ppi attribute on a document-page overrides it for that page
// only, so size="a4" ppi="144" is A4 with twice the px.
//
// # Markdown
//
// Input.Markdown wraps a Markdown body into a layout of the asset set:
//
//	pdf, err := gen.Generate(ctx, declpdf.Input{
//	    Markdown: &declpdf.Markdown{Content: "# Notes\n\nHello", Style: "plain"},
//	    BaseDir:  "/path/to/notes",
//	})
//
// # Parallel Processing
//
// A Generator runs one generation at a time. GeneratorPool manages several
// generators, each with its own browser:
//
//	pool := declpdf.NewGeneratorPool(declpdf.ResolvePoolSize(0))
//	defer pool.Close()
//
//	gen, err := pool.Acquire()
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(gen)
//
// # Browser Requirements
//
// go-rod downloads a managed Chromium on first run (~/.cache/rod/browser/).
// Set ROD_BROWSER_BIN to use an installed Chrome, and ROD_NO_SANDBOX=1 in
// containers and CI.
package declpdf
