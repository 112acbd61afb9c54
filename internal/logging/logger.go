// Package logging holds the default *slog.Logger used when a Generator is
// created without an explicit logger.
package logging

import (
	"log/slog"
	"sync/atomic"
)

// logger holds the package-level default; nil means discard.
var logger atomic.Pointer[slog.Logger]

// SetLogger installs the default logger. Pass nil to discard output.
//
// SetLogger is safe for concurrent use.
func SetLogger(sl *slog.Logger) {
	logger.Store(sl)
}

// Logger returns the default logger, or a discard logger if none is set.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return Discard()
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// OrDefault returns l, or the package default when l is nil.
func OrDefault(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return Logger()
}
