// Package firmware implements the door controller's on-device logic as pure
// state machines driven by a cooperative tick scheduler.
//
// Nothing in this package touches hardware or wall-clock time directly: all
// I/O flows through the Board interface and all time arrives as a parameter
// to Tick or Sample. That keeps every controller deterministic and testable
// with a fake clock, and lets the same logic run against real GPIO, the TCP
// simulator in cmd/sentrysim, or an in-memory board in tests.
//
// The Scheduler owns one instance of each controller and advances them in a
// fixed order every tick: drain and dispatch host commands, sample the motion
// sensor, then tick the alarm, welcome and gate controllers. The ordering is
// a contract: dispatching commands first means an intruder command silences a
// welcome chime on the same tick it arrives.
package firmware
