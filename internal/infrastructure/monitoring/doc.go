/*
Package monitoring provides metrics collection for the window scene client
and its loopback host.

# Overview

This package implements Prometheus-based metrics collection, tracking remote
session RPCs, window session lifecycle, event channel traffic and the debug
HTTP server. Each Metrics owns a private registry.

# Features

- Remote session RPC metrics (latency, status, error codes)
- Session lifecycle metrics (active sessions, state transitions)
- Event channel metrics (connections, dispatched opcodes)
- Debug HTTP request metrics
- Uptime

# Usage

	metrics := monitoring.NewMetrics()

	// Record outbound RPCs
	conn, err := grpc.NewClient(addr,
	    grpc.WithUnaryInterceptor(monitoring.UnaryClientInterceptor(metrics)))

	// Add middleware to the debug router
	router.Use(monitoring.Middleware(metrics))

# Metrics Endpoint

	router.GET("/metrics", gin.WrapH(metrics.Handler()))
*/
package monitoring
