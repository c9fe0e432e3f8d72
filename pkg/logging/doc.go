// Package logging provides structured logging utilities for suggestd.
//
// # Overview
//
// This package wraps the standard library slog package with defaults and
// conventions for consistent logging across the server, the refresher and
// the data sources. It supports environment-based log level configuration,
// module/version context injection, and source location tracking for debug
// logs.
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: Detailed diagnostic information with source location
//   - INFO: General informational messages (default)
//   - WARN/WARNING: Warning messages for potentially problematic situations
//   - ERROR: Error messages for failures requiring attention
//
// # Usage
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("suggestd", "v1.0.0")
//	    slog.Info("suggestions reloaded", "ids", 1200)
//	}
//
// Setting explicit log level:
//
//	logging.SetDefaultStructuredLoggerWithLevel("suggestd", "v1.0.0", "warn")
//
// # Environment Configuration
//
// The LOG_LEVEL environment variable controls logging verbosity when no
// explicit level is given:
//
//	LOG_LEVEL=debug suggestd 0.0.0.0 8080 /srv/data
//
// # Output Format
//
// All logs are written to stderr in JSON format:
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "suggestions reloaded",
//	    "module": "suggestd",
//	    "version": "v1.0.0",
//	    "ids": 1200
//	}
package logging
