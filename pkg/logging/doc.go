// Package logging provides structured logging utilities for the solution selector.
//
// It wraps the standard library slog package with project defaults: JSON
// records on stderr, a module/version context on every record, LOG_LEVEL
// driven verbosity and source locations for debug loggers.
//
// # Usage
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("hipblaslt-select", version)
//	    slog.Info("catalog ready", "solutions", n)
//	}
//
// Library packages (matching, library, heuristic) only log at Debug level so
// that the dispatch hot path stays quiet unless LOG_LEVEL=debug is set.
// Selection diagnostics requested through pkg/diagnostics are separate: they
// go to the configured trace sink, not to slog.
package logging
