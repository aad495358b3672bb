package firmware

import (
	"context"
	"time"

	"github.com/ashvale/sentrygate-core/internal/infrastructure/logging"
	"github.com/ashvale/sentrygate-core/internal/protocol"
)

// Link is the scheduler's view of the serial connection to the host: a
// non-blocking drain of pending downstream commands and an upstream motion
// notification. seriallink.DeviceLink implements it over a real stream; tests
// implement it in memory.
type Link interface {
	// Drain returns the commands received since the last call, in arrival
	// order. It never blocks.
	Drain() []protocol.Command

	// NotifyMotion sends the upstream motion notification.
	NotifyMotion() error
}

// Scheduler is the device-side orchestrator: it owns the four controllers
// and advances them cooperatively, one Tick per period. All state mutation
// happens inside Tick on a single goroutine.
type Scheduler struct {
	board Board
	link  Link
	clock Clock
	log   *logging.Logger

	debouncer *MotionDebouncer
	alarm     *AlarmController
	welcome   *WelcomeController
	gate      *GateController // nil on boards without a gate
}

// NewScheduler wires the controllers together from cfg. Zero-valued timing
// fields fall back to the stock defaults. The alarm's preempt hook and the
// welcome controller's alarm gate are connected here so the two can never
// hold the buzzer at once.
func NewScheduler(cfg Config, board Board, link Link, clock Clock, log *logging.Logger) *Scheduler {
	cfg.applyDefaults()

	alarm := NewAlarmController(board, cfg.AlarmDuration, cfg.AlarmToggle, cfg.AlarmFreqHigh, cfg.AlarmFreqLow)
	welcome := NewWelcomeController(board, cfg.WelcomeBeeps, cfg.WelcomeBeepDur, cfg.WelcomeGap, cfg.WelcomeFreq)
	alarm.SetPreempt(welcome.Silence)
	welcome.SetAlarmGate(alarm.Active)

	s := &Scheduler{
		board:     board,
		link:      link,
		clock:     clock,
		log:       log,
		debouncer: NewMotionDebouncer(cfg.MotionCooldown),
		alarm:     alarm,
		welcome:   welcome,
	}
	if cfg.HasGate {
		s.gate = NewGateController(board, cfg.GateAutoClose)
	}
	return s
}

// Tick runs one scheduler pass at the given instant: dispatch pending host
// commands, sample the motion sensor, then advance each controller.
func (s *Scheduler) Tick(now time.Time) {
	for _, cmd := range s.link.Drain() {
		s.dispatch(cmd, now)
	}

	if s.debouncer.Sample(s.board.MotionLevel(), now) {
		if err := s.link.NotifyMotion(); err != nil {
			s.log.Warn("motion notification failed", "error", err)
		} else {
			s.log.Debug("motion event sent")
		}
	}

	s.alarm.Tick(now)
	s.welcome.Tick(now)
	if s.gate != nil {
		s.gate.Tick(now)
	}
}

func (s *Scheduler) dispatch(cmd protocol.Command, now time.Time) {
	s.log.Debug("command received", "command", cmd.String())

	switch cmd {
	case protocol.CommandAuthorized:
		s.welcome.Trigger(now)
		if s.gate != nil {
			s.gate.Open(now)
		}
	case protocol.CommandIntruder:
		s.alarm.Trigger(now)
		if s.gate != nil {
			s.gate.Close()
		}
	case protocol.CommandAlarmCancel:
		s.alarm.Cancel()
	}
}

// Run drives Tick at the given period until ctx is cancelled. A period of
// zero uses the default.
func (s *Scheduler) Run(ctx context.Context, period time.Duration) error {
	if period == 0 {
		period = DefaultTickPeriod
	}
	s.log.Info("scheduler started", "tick_period", period.String(), "gate", s.gate != nil)

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.shutdown()
			return ctx.Err()
		case <-ticker.C:
			s.Tick(s.clock.Now())
		}
	}
}

// shutdown returns the actuators to a safe state: buzzer silent, gate
// closed.
func (s *Scheduler) shutdown() {
	s.alarm.Cancel()
	s.welcome.Silence()
	if s.gate != nil {
		s.gate.Close()
	}
	s.log.Info("scheduler stopped")
}
