// Package logging provides structured logging for the fluxvision binaries.
//
// This package wraps a global zap logger with convenience functions. Logging
// is silent unless a level is configured, so CLI output and the TUI stay
// clean by default.
//
// # Log Levels
//
// The level comes from the --log-level flag or the FLUXVISION_LOG_LEVEL
// environment variable:
//   - debug: request/response tracing, controller state transitions
//   - info: server lifecycle, saved credentials, probe outcomes
//   - warn: upstream 5xx responses, advertisement failures
//   - error: startup failures
//
// # Outputs
//
// The server logs to stdout. The TUI logs to fluxvision.log in the config
// directory because anything written to stdout would corrupt the alternate
// screen:
//
//	logging.Configure(logging.Options{Level: "debug", OutputPath: logPath})
//	defer logging.Sync()
//
// # Secrets
//
// Tokens are never logged verbatim. Use TokenField or RedactToken:
//
//	logging.Info("Probing InfluxDB",
//	    zap.String("url", creds.URL),
//	    logging.TokenField(creds.Token),
//	)
package logging
