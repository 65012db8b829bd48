// Package logging provides structured logging for the pds installer using slog.
//
// Installer output meant for the user (banner, per-editor install lines) is
// written directly to the command's stdout. Everything diagnostic goes
// through a [log/slog] logger built here: a colourised text handler for
// terminals, JSON for --log-format=json, and an optional JSON log file fanned
// out with [MultiHandler].
//
// # Verbosity
//
// The -v flag is counted and mapped with [LevelFromVerbosity]:
//
//	logger := logging.New(logging.Config{
//		Level:  logging.LevelFromVerbosity(2),
//		Format: logging.FormatText,
//	})
//
// # Context
//
// Commands store the configured logger in their context with [NewContext];
// library code retrieves it with [FromContext], which falls back to
// [slog.Default].
//
// # Testing
//
// Use [ForTest] to route log lines into the test log.
package logging
