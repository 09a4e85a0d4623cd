// Package logging provides structured logging utilities for yotei.
//
// Logs are written with the standard library's slog package to stderr;
// stdout is reserved for command output.
//
// # Usage Patterns
//
// Create the process logger and attach standard attributes:
//
//	logger, err := logging.New(os.Stderr, logging.Level(debug), logging.FormatText)
//	logger = logging.WithOperation(logger, "list")
//	logger.Info("fetched events",
//	    logging.Account("work"),
//	    logging.Count(len(events)))
//
// Tokens are never logged directly, only SanitizeToken's length indicator.
package logging
