package core

import "time"

// Cadence gates a periodic action, such as a preview repaint, to a fixed
// rate independent of how often it is polled.
type Cadence struct {
	interval time.Duration
	next     time.Time
}

// NewCadence returns a Cadence firing at most hz times per second.
func NewCadence(hz int) *Cadence {
	if hz <= 0 {
		hz = 25
	}
	return &Cadence{interval: time.Second / time.Duration(hz)}
}

// Interval reports the minimum spacing between two firings.
func (c *Cadence) Interval() time.Duration { return c.interval }

// Due reports whether the action should run at now, and if so schedules the
// next firing. The first call is always due.
func (c *Cadence) Due(now time.Time) bool {
	if !c.next.IsZero() && now.Before(c.next) {
		return false
	}
	c.next = now.Add(c.interval)
	return true
}

// Force makes the next Due call fire regardless of timing.
func (c *Cadence) Force() { c.next = time.Time{} }
