// Package clock abstracts wall-clock reads so deadlines and elapsed times can be tested.
package clock

import "time"

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

func (c RealClock) Now() time.Time {
	return time.Now()
}

// MockClock returns CurrentTime until advanced.
type MockClock struct {
	CurrentTime time.Time
}

func (c *MockClock) Now() time.Time {
	return c.CurrentTime
}

func (c *MockClock) Advance(d time.Duration) {
	c.CurrentTime = c.CurrentTime.Add(d)
}

// Since returns the time elapsed on c since start.
func Since(c Clock, start time.Time) time.Duration {
	return c.Now().Sub(start)
}
