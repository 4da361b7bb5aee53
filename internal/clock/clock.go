/*
Package clock
File: clock.go
Description:
    Small time abstraction so the session, scheduler, and save codec can be
    driven by a fake clock in tests. Production code uses RealClock.
*/

package clock

import "time"

// Clock abstracts wall-clock time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

// Now returns the current time using the system clock.
func (RealClock) Now() time.Time {
	return time.Now()
}
