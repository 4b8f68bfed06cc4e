// Package logging assembles structured slog loggers used across moviebuddy.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so request handlers can tag log
// lines with correlation IDs and the title being looked up. A no-op logger is
// provided for tests and wiring code that cannot fail.
package logging
