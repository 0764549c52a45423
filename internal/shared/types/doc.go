// Package types provides shared data structures for the window scene client.
//
// This package defines the vocabulary used across all session components,
// ensuring the session core, the transports and the host agree on values.
//
// Core Types:
//   - WindowType: Window class ranges (main, sub, system, system sub)
//   - WindowMode, MaximizeMode: Layout modes
//   - WindowState: Client-side lifecycle state
//   - Rect, WindowLimits: Geometry in physical pixels
//   - SystemBarProperty, AvoidArea: System bar negotiation
//
// Result Codes:
//   - WMError: Local result enum, implements error
//   - WSError: Host result enum, mapped 1:1 through ToWMError
//
// Example Usage:
//
//	if err := session.Show(ctx, 0, false); errors.Is(err, types.ErrInvalidWindow) {
//	    // session was destroyed or never created
//	}
package types
