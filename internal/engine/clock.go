package engine

import "time"

// Clock abstracts time.Now() to allow deterministic testing.
// The Calculator reads "now" from it and builds birth dates in its location.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant.
// Useful to pin "now" for a whole session or a reproducible run.
type FixedClock struct {
	Time time.Time
}

// Now returns the pinned instant.
func (c FixedClock) Now() time.Time {
	return c.Time
}
