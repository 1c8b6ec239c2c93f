// Package logging wraps log/slog with the handlers and attribute helpers
// used throughout wxwatch. The console handler renders compact single-line
// output for interactive runs; the JSON handler is used when output is not a
// terminal or when configured explicitly.
package logging
