package seriallink

import (
	"net"
	"testing"
	"time"

	"github.com/ashvale/sentrygate-core/internal/firmware"
	"github.com/ashvale/sentrygate-core/internal/infrastructure/logging"
	"github.com/ashvale/sentrygate-core/internal/protocol"
)

// e2eBoard records actuator state for the end-to-end scenarios. Only the
// scheduler's tick goroutine touches it.
type e2eBoard struct {
	motion   bool
	tone     int // 0 when silent
	tones    []int
	gateOpen bool
}

func (b *e2eBoard) MotionLevel() bool { return b.motion }
func (b *e2eBoard) NoTone()           { b.tone = 0 }
func (b *e2eBoard) OpenGate()         { b.gateOpen = true }
func (b *e2eBoard) CloseGate()        { b.gateOpen = false }

func (b *e2eBoard) Tone(freqHz int) {
	b.tone = freqHz
	b.tones = append(b.tones, freqHz)
}

// e2eClock is a manually advanced firmware.Clock.
type e2eClock struct{ t time.Time }

func newE2EClock() *e2eClock {
	return &e2eClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *e2eClock) Now() time.Time { return c.t }

func (c *e2eClock) Advance(d time.Duration) time.Time {
	c.t = c.t.Add(d)
	return c.t
}

// e2eRig is a gateway and device wired over an in-memory pipe: HostLink on
// one end, DeviceLink feeding a real firmware scheduler on the other. The
// scheduler is ticked by hand so the firmware clock stays deterministic.
type e2eRig struct {
	host      *HostLink
	board     *e2eBoard
	scheduler *firmware.Scheduler
	clock     *e2eClock
}

func newE2ERig(t *testing.T, decide func() protocol.Command) *e2eRig {
	t.Helper()

	hostConn, deviceConn := net.Pipe()

	host := NewHostLink(hostConn, protocol.VariantLine, logging.Discard())
	device := NewDeviceLink(deviceConn, protocol.VariantLine, logging.Discard())
	t.Cleanup(func() {
		host.Close()
		device.Close()
	})

	// Stand-in for the orchestrator: each motion notification produces one
	// decision command back down the wire.
	host.SetOnMotion(func() {
		if err := host.Send(decide()); err != nil {
			t.Errorf("Send() error = %v", err)
		}
	})
	host.Start()
	device.Start()

	board := &e2eBoard{}
	clock := newE2EClock()
	scheduler := firmware.NewScheduler(firmware.Config{HasGate: true}, board, device, clock, logging.Discard())

	return &e2eRig{host: host, board: board, scheduler: scheduler, clock: clock}
}

// tickUntil ticks the scheduler at a frozen instant until cond holds. Used
// to absorb pipe delivery latency without moving firmware time.
func (r *e2eRig) tickUntil(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		r.scheduler.Tick(r.clock.Now())
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal(msg)
}

// run advances firmware time in 50ms ticks.
func (r *e2eRig) run(d time.Duration) {
	const step = 50 * time.Millisecond
	for elapsed := time.Duration(0); elapsed < d; elapsed += step {
		r.scheduler.Tick(r.clock.Advance(step))
	}
}

func TestEndToEndIntruder(t *testing.T) {
	rig := newE2ERig(t, func() protocol.Command { return protocol.CommandIntruder })

	// Motion crosses the pipe, the host answers intruder, and the device
	// raises the siren with the gate held closed.
	rig.board.motion = true
	rig.tickUntil(t, func() bool { return rig.board.tone == 4000 }, "siren never started")
	if rig.board.gateOpen {
		t.Fatal("gate open during intruder response")
	}

	// The siren runs its full duration and then expires on its own.
	rig.board.motion = false
	rig.run(4900 * time.Millisecond)
	if rig.board.tone == 0 {
		t.Fatal("siren expired early")
	}
	rig.run(200 * time.Millisecond)
	if rig.board.tone != 0 {
		t.Fatalf("buzzer at %d Hz after siren duration", rig.board.tone)
	}
	if rig.board.gateOpen {
		t.Fatal("gate open after intruder cycle")
	}
}

func TestEndToEndAuthorized(t *testing.T) {
	rig := newE2ERig(t, func() protocol.Command { return protocol.CommandAuthorized })

	// Motion crosses the pipe, the host answers authorized, and the device
	// opens the gate and starts the chime.
	rig.board.motion = true
	rig.tickUntil(t, func() bool { return rig.board.gateOpen }, "gate never opened")
	if rig.board.tone != 2000 {
		t.Fatalf("buzzer at %d Hz, want chime tone 2000", rig.board.tone)
	}

	// The chime finishes well inside the gate's open window.
	rig.board.motion = false
	rig.run(500 * time.Millisecond)
	if rig.board.tone != 0 {
		t.Fatalf("buzzer at %d Hz after chime", rig.board.tone)
	}
	if got := len(rig.board.tones); got != 2 {
		t.Fatalf("chime played %d beeps, want 2", got)
	}
	if !rig.board.gateOpen {
		t.Fatal("gate closed before auto-close window")
	}

	// Auto-close at 5s after the open.
	rig.run(4600 * time.Millisecond)
	if rig.board.gateOpen {
		t.Fatal("gate did not auto-close")
	}
}
