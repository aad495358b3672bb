package firmware

import "time"

// Timing defaults, matching the deployed controller boards.
const (
	DefaultMotionCooldown = 5000 * time.Millisecond

	DefaultAlarmDuration = 5000 * time.Millisecond
	DefaultAlarmToggle   = 200 * time.Millisecond
	DefaultAlarmFreqHigh = 4000
	DefaultAlarmFreqLow  = 3000

	DefaultWelcomeBeeps   = 2
	DefaultWelcomeBeepDur = 150 * time.Millisecond
	DefaultWelcomeGap     = 100 * time.Millisecond
	DefaultWelcomeFreq    = 2000

	DefaultGateAutoClose = 5000 * time.Millisecond

	DefaultTickPeriod = 50 * time.Millisecond
)

// Config carries the controller timing parameters. Zero values are replaced
// with the defaults above by the scheduler constructor, so an empty Config
// describes a stock board.
type Config struct {
	MotionCooldown time.Duration

	AlarmDuration time.Duration
	AlarmToggle   time.Duration
	AlarmFreqHigh int
	AlarmFreqLow  int

	WelcomeBeeps   int
	WelcomeBeepDur time.Duration
	WelcomeGap     time.Duration
	WelcomeFreq    int

	GateAutoClose time.Duration

	// HasGate marks the gate-equipped hardware revision. When false the
	// gate controller is never constructed and authorized commands only
	// play the chime.
	HasGate bool
}

func (c *Config) applyDefaults() {
	if c.MotionCooldown == 0 {
		c.MotionCooldown = DefaultMotionCooldown
	}
	if c.AlarmDuration == 0 {
		c.AlarmDuration = DefaultAlarmDuration
	}
	if c.AlarmToggle == 0 {
		c.AlarmToggle = DefaultAlarmToggle
	}
	if c.AlarmFreqHigh == 0 {
		c.AlarmFreqHigh = DefaultAlarmFreqHigh
	}
	if c.AlarmFreqLow == 0 {
		c.AlarmFreqLow = DefaultAlarmFreqLow
	}
	if c.WelcomeBeeps == 0 {
		c.WelcomeBeeps = DefaultWelcomeBeeps
	}
	if c.WelcomeBeepDur == 0 {
		c.WelcomeBeepDur = DefaultWelcomeBeepDur
	}
	if c.WelcomeGap == 0 {
		c.WelcomeGap = DefaultWelcomeGap
	}
	if c.WelcomeFreq == 0 {
		c.WelcomeFreq = DefaultWelcomeFreq
	}
	if c.GateAutoClose == 0 {
		c.GateAutoClose = DefaultGateAutoClose
	}
}
