package firmware

import "testing"

func newTestAlarm(b *fakeBoard) *AlarmController {
	return NewAlarmController(b, ms(5000), ms(200), 4000, 3000)
}

func TestAlarmTriggerStartsHighTone(t *testing.T) {
	board := &fakeBoard{}
	clock := newFakeClock()
	a := newTestAlarm(board)

	a.Trigger(clock.Now())

	if !a.Active() {
		t.Fatal("alarm should be active after trigger")
	}
	if board.tone != 4000 {
		t.Fatalf("buzzer at %d Hz, want 4000", board.tone)
	}
}

func TestAlarmToneToggling(t *testing.T) {
	board := &fakeBoard{}
	clock := newFakeClock()
	a := newTestAlarm(board)

	a.Trigger(clock.Now())
	a.Tick(clock.Advance(ms(200)))
	if board.tone != 3000 {
		t.Fatalf("after first toggle buzzer at %d Hz, want 3000", board.tone)
	}
	a.Tick(clock.Advance(ms(200)))
	if board.tone != 4000 {
		t.Fatalf("after second toggle buzzer at %d Hz, want 4000", board.tone)
	}

	// Mid-period tick leaves the tone alone.
	a.Tick(clock.Advance(ms(100)))
	if board.tone != 4000 {
		t.Fatalf("mid-period tick changed tone to %d Hz", board.tone)
	}
}

func TestAlarmExpiresAfterDuration(t *testing.T) {
	board := &fakeBoard{}
	clock := newFakeClock()
	a := newTestAlarm(board)

	a.Trigger(clock.Now())
	for i := 0; i < 99; i++ {
		a.Tick(clock.Advance(ms(50)))
	}
	if !a.Active() {
		t.Fatal("alarm expired before 5s")
	}
	a.Tick(clock.Advance(ms(50)))
	if a.Active() {
		t.Fatal("alarm still active after 5s")
	}
	if board.tone != 0 {
		t.Fatalf("buzzer still at %d Hz after expiry", board.tone)
	}
}

func TestAlarmRetriggerRestartsWindow(t *testing.T) {
	board := &fakeBoard{}
	clock := newFakeClock()
	a := newTestAlarm(board)

	a.Trigger(clock.Now())
	clock.Advance(ms(4000))
	a.Trigger(clock.Now())

	// 4.5s after the first trigger, 0.5s after the second: still sounding.
	a.Tick(clock.Advance(ms(500)))
	if !a.Active() {
		t.Fatal("retrigger should restart the duration window")
	}
	a.Tick(clock.Advance(ms(4500)))
	if a.Active() {
		t.Fatal("alarm should expire 5s after the retrigger")
	}
}

func TestAlarmCancelIdempotent(t *testing.T) {
	board := &fakeBoard{}
	clock := newFakeClock()
	a := newTestAlarm(board)

	a.Cancel() // idle cancel is a no-op
	if len(board.calls) != 0 {
		t.Fatalf("idle cancel touched the buzzer: %v", board.calls)
	}

	a.Trigger(clock.Now())
	a.Cancel()
	if a.Active() {
		t.Fatal("alarm active after cancel")
	}
	if board.tone != 0 {
		t.Fatalf("buzzer still at %d Hz after cancel", board.tone)
	}

	calls := len(board.calls)
	a.Cancel()
	if len(board.calls) != calls {
		t.Fatal("second cancel touched the buzzer")
	}
}

func TestAlarmTriggerRunsPreempt(t *testing.T) {
	board := &fakeBoard{}
	clock := newFakeClock()
	a := newTestAlarm(board)

	ran := false
	a.SetPreempt(func() { ran = true })
	a.Trigger(clock.Now())
	if !ran {
		t.Fatal("preempt hook not invoked on trigger")
	}
}
