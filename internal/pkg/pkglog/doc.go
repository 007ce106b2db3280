// Package pkglog sets up the process-wide slog logger.
//
// Records are JSON with "ts" and "severity" keys. A correlation ID set by the
// HTTP middleware and a scan ID set by the scan worker are copied from the
// context onto every record logged under it.
package pkglog
