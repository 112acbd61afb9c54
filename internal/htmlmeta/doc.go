// Package htmlmeta inspects and rewrites templates before they reach the browser.
//
// Inspect counts document-page elements so a template without pages fails
// before Chrome is launched, and collects document metadata from the head.
// RewriteRelativePaths resolves asset references against the template's
// directory, since the browser loads the template from a temporary file.
package htmlmeta
