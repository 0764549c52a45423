// Package property holds the per-window value object synchronised with the
// remote session host.
//
// A WindowProperty is created with the session from its options, mutated by
// every setter of the session and pushed to the host as a JSON document
// (Marshal/Unmarshal) together with an Action bitset naming what changed.
//
// Size-changing setters clamp into the current WindowLimits, and the
// persistent id can be assigned only once.
package property
