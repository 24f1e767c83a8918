// Package logger provides structured logging capabilities.
//
// The logger package sets up and configures the launcher's logging
// system using zap. All log output goes to stderr because the launched
// server owns stdout.
//
// Usage:
//
//	logger, err := logger.New("production", "error")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	logger.Debug("interpreter selected", zap.String("command", "python3"))
package logger
