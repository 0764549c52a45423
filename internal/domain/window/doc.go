// Package window implements the client half of a window session.
//
// A SceneSession moves through INITIAL, CREATED, SHOWN, HIDDEN and
// DESTROYED. FROZEN overlays the visible state while the host drags the
// window. DESTROYED is absorbing.
//
// Every remote call goes through a HostSession. Main windows receive their
// HostSession from the caller; sub windows obtain one from their parent's
// session and system windows from the global SpecificSessionManager.
// Inbound input arrives on an ipc channel that the session opens on Create
// and serves as an ipc.EventHandler.
//
// Sessions are indexed by name and parent in a Registry. Main windows push
// their visibility to their sub windows locally; the host does not drive
// them.
package window
