package firmware

import "time"

type welcomeState uint8

const (
	welcomeIdle welcomeState = iota
	welcomeBeeping
	welcomeGap
)

// WelcomeController plays the short greeting chime for an authorized entry:
// a fixed number of beeps separated by silent gaps. The alarm always wins
// the buzzer: a trigger is dropped while the siren is active, and an alarm
// trigger mid-chime cuts the chime off via Silence.
type WelcomeController struct {
	buzzer  Buzzer
	beeps   int
	beepDur time.Duration
	gapDur  time.Duration
	freq    int

	state      welcomeState
	beepsDone  int
	phaseStart time.Time

	alarmActive func() bool
}

// NewWelcomeController creates an idle welcome controller.
func NewWelcomeController(buzzer Buzzer, beeps int, beepDur, gapDur time.Duration, freq int) *WelcomeController {
	return &WelcomeController{
		buzzer:  buzzer,
		beeps:   beeps,
		beepDur: beepDur,
		gapDur:  gapDur,
		freq:    freq,
	}
}

// SetAlarmGate installs the predicate consulted on Trigger; when it reports
// true the trigger is dropped.
func (w *WelcomeController) SetAlarmGate(fn func() bool) {
	w.alarmActive = fn
}

// Trigger starts the chime sequence. It is ignored while the alarm is
// active or a chime is already playing.
func (w *WelcomeController) Trigger(now time.Time) {
	if w.alarmActive != nil && w.alarmActive() {
		return
	}
	if w.state != welcomeIdle {
		return
	}
	w.state = welcomeBeeping
	w.beepsDone = 0
	w.phaseStart = now
	w.buzzer.Tone(w.freq)
}

// Silence aborts the chime and returns to idle. Used by the alarm preempt
// hook; safe to call while idle.
func (w *WelcomeController) Silence() {
	if w.state == welcomeIdle {
		return
	}
	w.state = welcomeIdle
	w.buzzer.NoTone()
}

// Playing reports whether a chime is in progress.
func (w *WelcomeController) Playing() bool {
	return w.state != welcomeIdle
}

// Tick advances the beep/gap sequence.
func (w *WelcomeController) Tick(now time.Time) {
	switch w.state {
	case welcomeBeeping:
		if now.Sub(w.phaseStart) < w.beepDur {
			return
		}
		w.buzzer.NoTone()
		w.beepsDone++
		if w.beepsDone >= w.beeps {
			w.state = welcomeIdle
			return
		}
		w.state = welcomeGap
		w.phaseStart = now
	case welcomeGap:
		if now.Sub(w.phaseStart) < w.gapDur {
			return
		}
		w.state = welcomeBeeping
		w.phaseStart = now
		w.buzzer.Tone(w.freq)
	}
}
