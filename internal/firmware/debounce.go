package firmware

import "time"

// MotionDebouncer turns the raw PIR level into discrete motion events.
//
// An event fires on a rising edge of the sensor level, at most once per
// cooldown window. A sustained high level produces a single event; the
// debouncer re-arms only after the level drops back low. The very first
// rising edge always fires regardless of cooldown.
type MotionDebouncer struct {
	cooldown  time.Duration
	high      bool
	lastEvent time.Time
}

// NewMotionDebouncer creates a debouncer with the given cooldown window.
func NewMotionDebouncer(cooldown time.Duration) *MotionDebouncer {
	return &MotionDebouncer{cooldown: cooldown}
}

// Sample feeds one sensor reading taken at now and reports whether it
// qualifies as a motion event.
func (d *MotionDebouncer) Sample(level bool, now time.Time) bool {
	if !level {
		d.high = false
		return false
	}
	if d.high {
		return false
	}
	d.high = true

	if !d.lastEvent.IsZero() && now.Sub(d.lastEvent) < d.cooldown {
		// Edge inside the cooldown window: swallowed, but it still
		// counts as seen so the level must drop before the next edge.
		return false
	}
	d.lastEvent = now
	return true
}
