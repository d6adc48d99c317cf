// Package notation provides document-level notation consistency checks.
//
// The notation-consistency rule counts every known spelling variant of a
// word across the whole document and flags the minority spellings. A
// document that uses one spelling throughout is never flagged, whichever
// spelling it is.
package notation
