package firmware

import "time"

// AlarmController runs the intruder siren: a two-tone warble for a fixed
// duration, after which it silences itself. Triggering while already active
// restarts the duration window. Cancel silences immediately and is safe to
// call in any state.
type AlarmController struct {
	buzzer   Buzzer
	duration time.Duration
	toggle   time.Duration
	freqHigh int
	freqLow  int

	active     bool
	startedAt  time.Time
	lastToggle time.Time
	highTone   bool

	preempt func()
}

// NewAlarmController creates an idle alarm controller.
func NewAlarmController(buzzer Buzzer, duration, toggle time.Duration, freqHigh, freqLow int) *AlarmController {
	return &AlarmController{
		buzzer:   buzzer,
		duration: duration,
		toggle:   toggle,
		freqHigh: freqHigh,
		freqLow:  freqLow,
	}
}

// SetPreempt installs a hook invoked at the start of every Trigger, before
// the siren sounds. The scheduler uses it to silence the welcome chime so
// the two never share the buzzer.
func (a *AlarmController) SetPreempt(fn func()) {
	a.preempt = fn
}

// Trigger starts the siren, or restarts the duration window if it is already
// sounding.
func (a *AlarmController) Trigger(now time.Time) {
	if a.preempt != nil {
		a.preempt()
	}
	a.active = true
	a.startedAt = now
	a.lastToggle = now
	a.highTone = true
	a.buzzer.Tone(a.freqHigh)
}

// Cancel silences the siren. Calling it while idle does nothing.
func (a *AlarmController) Cancel() {
	if !a.active {
		return
	}
	a.active = false
	a.buzzer.NoTone()
}

// Active reports whether the siren is currently sounding.
func (a *AlarmController) Active() bool {
	return a.active
}

// Tick advances the siren: expires it when the duration has elapsed,
// otherwise flips between the two tones on the toggle period.
func (a *AlarmController) Tick(now time.Time) {
	if !a.active {
		return
	}
	if now.Sub(a.startedAt) >= a.duration {
		a.active = false
		a.buzzer.NoTone()
		return
	}
	if now.Sub(a.lastToggle) >= a.toggle {
		a.lastToggle = now
		a.highTone = !a.highTone
		if a.highTone {
			a.buzzer.Tone(a.freqHigh)
		} else {
			a.buzzer.Tone(a.freqLow)
		}
	}
}
