// Package logging builds the zap loggers used across the window scene
// host and its clients.
//
// Production loggers write JSON; development loggers write colored console
// output. Both go to stderr by default so the snapshot tool can keep stdout
// for its own diagnostics.
//
//	logger := logging.NewDefault()
//	logger.Component("host").Info("Listening", zap.String("addr", addr))
//	logger.Session("W1", 7).Info("Window created")
package logging
