package firmware

import "time"

// GateController drives the entry gate: Open swings it open and arms an
// auto-close timer, re-opening extends the timer, and Close shuts it
// immediately. The constructor drives the gate closed so the controller and
// the hardware agree on the initial state after a reset.
type GateController struct {
	driver    GateDriver
	autoClose time.Duration

	open     bool
	openedAt time.Time
}

// NewGateController creates a gate controller and closes the gate.
func NewGateController(driver GateDriver, autoClose time.Duration) *GateController {
	driver.CloseGate()
	return &GateController{driver: driver, autoClose: autoClose}
}

// Open opens the gate, or extends the auto-close window if already open.
func (g *GateController) Open(now time.Time) {
	g.openedAt = now
	if g.open {
		return
	}
	g.open = true
	g.driver.OpenGate()
}

// Close shuts the gate immediately, cancelling any pending auto-close.
// Calling it while closed does nothing.
func (g *GateController) Close() {
	if !g.open {
		return
	}
	g.open = false
	g.driver.CloseGate()
}

// IsOpen reports whether the gate is open.
func (g *GateController) IsOpen() bool {
	return g.open
}

// Tick closes the gate once the auto-close window has elapsed.
func (g *GateController) Tick(now time.Time) {
	if g.open && now.Sub(g.openedAt) >= g.autoClose {
		g.Close()
	}
}
