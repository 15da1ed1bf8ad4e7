package timing

import "time"

// Clock converts wall-clock time into a whole number of fixed-length steps.
// Leftover time is carried to the next call, so over many frames the number
// of steps matches the configured rate.
type Clock struct {
	interval    time.Duration
	accumulator time.Duration
	maxBacklog  time.Duration
}

// NewClock creates a clock that produces rate steps per second.
func NewClock(rate int) *Clock {
	interval := time.Second / time.Duration(rate)
	return &Clock{
		interval: interval,
		// don't try to catch up on more than a quarter second, e.g. after a pause
		maxBacklog: time.Second / 4,
	}
}

// Advance adds elapsed time and returns how many steps are now due.
func (c *Clock) Advance(elapsed time.Duration) int {
	c.accumulator += elapsed
	if c.accumulator > c.maxBacklog {
		c.accumulator = c.maxBacklog
	}

	steps := int(c.accumulator / c.interval)
	c.accumulator -= time.Duration(steps) * c.interval
	return steps
}

// Interval is the duration of a single step.
func (c *Clock) Interval() time.Duration {
	return c.interval
}

// Pending is the time accumulated towards the next step.
func (c *Clock) Pending() time.Duration {
	return c.accumulator
}

func (c *Clock) Reset() {
	c.accumulator = 0
}
