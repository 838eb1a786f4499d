// Package interfaces defines core interfaces used across the hlc kit packages
// to avoid circular dependencies.
package interfaces

// Version represents a point-in-time marker that can be ordered against
// other markers of the same implementation.
// Users can implement different versioning strategies (hybrid logical
// timestamps, plain counters, vector clocks).
type Version interface {
	// Compare returns -1 if this version is before other, 0 if equal, 1 if after
	Compare(other Version) int

	// String returns a string representation of the version
	String() string

	// IsZero returns true if this is the zero/initial version
	IsZero() bool
}
