// Package compose turns a loaded template into a paginated PDF.
//
// Generation runs in three phases on a single browser tab:
//
//  1. Discovery: document-page elements are enumerated and validated.
//  2. Layout and bodies: for each document page in order, section settings
//     are read, the layout is calculated and the isolated body is printed.
//     Body page counts then fix every page offset and the document total.
//  3. Assembly: every output page is built by drawing the background, header
//     and footer variants that apply to it, then the body slice.
//
// Sections that do not show the current page number are rendered once per
// document page and reused through a SectionCache.
package compose
