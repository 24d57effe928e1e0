// Package logger provides nil-safe slog attribute helpers shared by the bus
// packages.
//
// All helpers return an empty slog.Attr when given zero values, so call sites
// never need nil checks:
//
//	log.Error("delivery failed",
//		logger.Component("broker"),
//		logger.Error(err),
//		logger.Duration(time.Since(start)),
//	)
package logger
