package firmware

import (
	"time"

	"github.com/ashvale/sentrygate-core/internal/infrastructure/logging"
	"github.com/ashvale/sentrygate-core/internal/protocol"
)

// fakeClock is a manually advanced clock shared by the firmware tests.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) time.Time {
	c.t = c.t.Add(d)
	return c.t
}

// boardCall records one actuator invocation.
type boardCall struct {
	op   string // "tone", "notone", "gate_open", "gate_close"
	freq int
}

// fakeBoard records every actuator call and exposes the current buzzer and
// gate state for assertions.
type fakeBoard struct {
	motion   bool
	tone     int // 0 when silent
	gateOpen bool
	calls    []boardCall
}

func (b *fakeBoard) Tone(freqHz int) {
	b.tone = freqHz
	b.calls = append(b.calls, boardCall{op: "tone", freq: freqHz})
}

func (b *fakeBoard) NoTone() {
	b.tone = 0
	b.calls = append(b.calls, boardCall{op: "notone"})
}

func (b *fakeBoard) OpenGate() {
	b.gateOpen = true
	b.calls = append(b.calls, boardCall{op: "gate_open"})
}

func (b *fakeBoard) CloseGate() {
	b.gateOpen = false
	b.calls = append(b.calls, boardCall{op: "gate_close"})
}

func (b *fakeBoard) MotionLevel() bool { return b.motion }

// fakeLink queues downstream commands for Drain and counts upstream motion
// notifications.
type fakeLink struct {
	queued    []protocol.Command
	notified  int
	notifyErr error
}

func (l *fakeLink) Drain() []protocol.Command {
	cmds := l.queued
	l.queued = nil
	return cmds
}

func (l *fakeLink) NotifyMotion() error {
	if l.notifyErr != nil {
		return l.notifyErr
	}
	l.notified++
	return nil
}

func (l *fakeLink) enqueue(cmds ...protocol.Command) {
	l.queued = append(l.queued, cmds...)
}

func testLogger() *logging.Logger {
	return logging.Discard()
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }
