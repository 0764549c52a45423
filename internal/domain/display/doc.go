// Package display supplies display geometry, pixel density and rotation to
// the window layer, and captures frames for the snapshot tool.
//
// The Manager is read-only from the session's point of view; displays are
// loaded from configuration at startup.
package display
