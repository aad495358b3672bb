package firmware

import "testing"

func TestGateClosedAtConstruction(t *testing.T) {
	board := &fakeBoard{gateOpen: true}
	g := NewGateController(board, ms(5000))

	if board.gateOpen {
		t.Fatal("constructor should drive the gate closed")
	}
	if g.IsOpen() {
		t.Fatal("controller should start closed")
	}
}

func TestGateAutoClose(t *testing.T) {
	board := &fakeBoard{}
	clock := newFakeClock()
	g := NewGateController(board, ms(5000))

	g.Open(clock.Now())
	if !board.gateOpen {
		t.Fatal("gate did not open")
	}

	g.Tick(clock.Advance(ms(4950)))
	if !g.IsOpen() {
		t.Fatal("gate closed before the auto-close window")
	}
	g.Tick(clock.Advance(ms(50)))
	if g.IsOpen() || board.gateOpen {
		t.Fatal("gate did not auto-close after 5s")
	}
}

func TestGateReopenExtendsWindow(t *testing.T) {
	board := &fakeBoard{}
	clock := newFakeClock()
	g := NewGateController(board, ms(5000))

	g.Open(clock.Now())
	g.Open(clock.Advance(ms(3000)))

	// 5s after the first open, 2s after the second: still open.
	g.Tick(clock.Advance(ms(2000)))
	if !g.IsOpen() {
		t.Fatal("re-open should extend the auto-close window")
	}
	g.Tick(clock.Advance(ms(3000)))
	if g.IsOpen() {
		t.Fatal("gate should close 5s after the last open")
	}

	// Re-opening while open must not re-drive the servo.
	opens := 0
	for _, c := range board.calls {
		if c.op == "gate_open" {
			opens++
		}
	}
	if opens != 1 {
		t.Fatalf("servo driven open %d times, want 1", opens)
	}
}

func TestGateImmediateClose(t *testing.T) {
	board := &fakeBoard{}
	clock := newFakeClock()
	g := NewGateController(board, ms(5000))

	g.Open(clock.Now())
	g.Close()
	if g.IsOpen() || board.gateOpen {
		t.Fatal("explicit close did not shut the gate")
	}

	// The cancelled auto-close timer must not fire a second close.
	calls := len(board.calls)
	g.Tick(clock.Advance(ms(6000)))
	if len(board.calls) != calls {
		t.Fatal("tick after explicit close touched the servo")
	}
}
