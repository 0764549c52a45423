// Command scenehost runs a loopback window session host.
//
// It serves the session service over gRPC and a debug HTTP server with the
// connected sessions, the displays, Prometheus metrics and endpoints that
// push input and geometry events into a session's event channel.
//
// Configuration comes from the environment (see the config package); flags
// override it.
//
// Usage:
//
//	./scenehost -addr localhost:50061 -debug-addr localhost:8061 -layout layout.toml
//
//	# Development logging
//	./scenehost -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
