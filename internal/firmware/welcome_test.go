package firmware

import "testing"

func newTestWelcome(b *fakeBoard) *WelcomeController {
	return NewWelcomeController(b, 2, ms(150), ms(100), 2000)
}

func TestWelcomeSequenceTiming(t *testing.T) {
	board := &fakeBoard{}
	clock := newFakeClock()
	w := newTestWelcome(board)

	w.Trigger(clock.Now())
	if board.tone != 2000 {
		t.Fatalf("first beep at %d Hz, want 2000", board.tone)
	}

	// Mid-beep: still sounding.
	w.Tick(clock.Advance(ms(100)))
	if board.tone != 2000 {
		t.Fatal("beep ended early")
	}

	// 150ms: beep ends, gap begins.
	w.Tick(clock.Advance(ms(50)))
	if board.tone != 0 {
		t.Fatal("buzzer not silent during gap")
	}
	if !w.Playing() {
		t.Fatal("sequence ended after first beep")
	}

	// 100ms gap: second beep starts.
	w.Tick(clock.Advance(ms(100)))
	if board.tone != 2000 {
		t.Fatal("second beep did not start after gap")
	}

	// Second beep ends the sequence.
	w.Tick(clock.Advance(ms(150)))
	if w.Playing() {
		t.Fatal("sequence still playing after second beep")
	}
	if board.tone != 0 {
		t.Fatal("buzzer not silent after sequence")
	}

	toneCalls := 0
	for _, c := range board.calls {
		if c.op == "tone" {
			toneCalls++
		}
	}
	if toneCalls != 2 {
		t.Fatalf("sequence made %d tone calls, want 2", toneCalls)
	}
}

func TestWelcomeTriggerIgnoredWhilePlaying(t *testing.T) {
	board := &fakeBoard{}
	clock := newFakeClock()
	w := newTestWelcome(board)

	w.Trigger(clock.Now())
	w.Tick(clock.Advance(ms(150))) // gap after first beep
	w.Trigger(clock.Now())         // must not restart

	// Gap still ends on the original schedule.
	w.Tick(clock.Advance(ms(100)))
	if board.tone != 2000 {
		t.Fatal("second beep missing, trigger may have restarted the sequence")
	}
	w.Tick(clock.Advance(ms(150)))
	if w.Playing() {
		t.Fatal("sequence should have completed")
	}
}

func TestWelcomeTriggerDroppedWhileAlarmActive(t *testing.T) {
	board := &fakeBoard{}
	clock := newFakeClock()
	w := newTestWelcome(board)
	w.SetAlarmGate(func() bool { return true })

	w.Trigger(clock.Now())
	if w.Playing() {
		t.Fatal("trigger should be dropped while alarm is active")
	}
	if len(board.calls) != 0 {
		t.Fatalf("dropped trigger touched the buzzer: %v", board.calls)
	}
}

func TestWelcomeSilenceAbortsMidChime(t *testing.T) {
	board := &fakeBoard{}
	clock := newFakeClock()
	w := newTestWelcome(board)

	w.Trigger(clock.Now())
	w.Silence()
	if w.Playing() {
		t.Fatal("still playing after silence")
	}
	if board.tone != 0 {
		t.Fatal("buzzer not silent after silence")
	}

	// Silence while idle leaves the buzzer alone.
	calls := len(board.calls)
	w.Silence()
	if len(board.calls) != calls {
		t.Fatal("idle silence touched the buzzer")
	}
}
