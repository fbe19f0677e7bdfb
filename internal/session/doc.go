// Package session holds per-user dashboard state: which view is active and
// the picker values each view was last rendered with.
//
// State lives only in memory and never outlives the process. Each session is
// independent; renders read a Snapshot so no lock is held while aggregating.
package session
