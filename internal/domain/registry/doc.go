// Package registry provides the process-wide ownership and hierarchy index
// of window sessions.
//
// The registry maps a window name to its persistent id and session, and a
// parent persistent id to the ordered list of its sub-window sessions. It is
// a back-reference index, not a container: entries hold weak pointers, the
// application keeps the session alive, and sessions remove themselves
// explicitly during Destroy.
//
// Components:
//   - Registry[T]: name index plus parent -> children index
//   - Entry[T]: snapshot row returned by List
//
// Features:
//   - Lookups that find nothing return (nil, false), never an error
//   - Children and List return snapshots, so cascades tolerate concurrent removal
//   - Duplicate live names are rejected with ErrRepeatOperation
//
// Example Usage:
//
//	reg := registry.New[window.SceneSession]()
//	_ = reg.Register("main", 7, session)
//	for _, child := range reg.Children(7) {
//	    // cascade
//	}
package registry
