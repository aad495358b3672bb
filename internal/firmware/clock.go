package firmware

import "time"

// Clock supplies the current time to the scheduler. Controllers never call
// it themselves; the scheduler reads it once per tick and passes the value
// down so a whole tick observes a single instant.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock {
	return systemClock{}
}
