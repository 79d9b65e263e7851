// Package logging provides a simple leveled logging interface for the
// media loader.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information
//   - INFO: General operational messages
//   - WARN: Warning conditions, including skipped items in a batch
//   - ERROR: Error conditions
//   - FATAL: Fatal errors that terminate the application
//
// The log level is configured via the LOG_LEVEL environment variable, or
// forced to debug by DEBUG=true. Components log through For("name") so each
// line carries its origin:
//
//	log := logging.For("loader")
//	log.Warn("skipping %s: %v", path, err)
package logging
