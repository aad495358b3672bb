package firmware

// Buzzer drives the piezo buzzer. Tone starts a continuous tone at the given
// frequency, replacing any tone already playing; NoTone silences it. Both are
// idempotent at the hardware level.
type Buzzer interface {
	Tone(freqHz int)
	NoTone()
}

// GateDriver actuates the gate servo. Implementations on boards without a
// gate may be no-ops; the scheduler never calls the driver unless the
// deployment is configured with a gate.
type GateDriver interface {
	OpenGate()
	CloseGate()
}

// Board is the hardware boundary for the controller firmware. Everything the
// state machines observe or actuate goes through it, so the same logic runs
// unchanged against real GPIO, the TCP simulator, and test fakes.
type Board interface {
	Buzzer
	GateDriver

	// MotionLevel reads the raw PIR sensor line: true while motion is
	// being sensed. The debouncer handles edge detection and cooldown.
	MotionLevel() bool
}
