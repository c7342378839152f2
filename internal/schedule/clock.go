package schedule

import "time"

// Clock supplies the current time. The evaluator and generator take it
// explicitly so hold expiry and past-slot detection are testable with a
// fixed instant.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
