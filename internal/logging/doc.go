// Package logging assembles structured slog loggers and formatting helpers used
// across the exporter.
//
// It owns the console/JSON handlers, centralizes level and output plumbing, and
// exposes context-aware helpers so staging and assembly code can tag log lines
// with run and provider identifiers. A no-op logger is provided for tests and
// wiring code that cannot fail.
package logging
